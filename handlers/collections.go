// handlers/collections.go
package handlers

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Karthick1242004/cmms-sub009/database"
)

var (
	userCollection        *mongo.Collection
	assetCollection       *mongo.Collection
	partCollection        *mongo.Collection
	ticketCollection      *mongo.Collection
	inspectionCollection  *mongo.Collection
	shiftCollection       *mongo.Collection
	noticeCollection      *mongo.Collection
	chatCollection        *mongo.Collection
	activityLogCollection *mongo.Collection
)

func InitCollections() {
	userCollection = database.Collection("users")
	assetCollection = database.Collection("assets")
	partCollection = database.Collection("parts")
	ticketCollection = database.Collection("work_tickets")
	inspectionCollection = database.Collection("inspections")
	shiftCollection = database.Collection("shifts")
	noticeCollection = database.Collection("notices")
	chatCollection = database.Collection("chat_messages")
	activityLogCollection = database.Collection("activity_logs")
}

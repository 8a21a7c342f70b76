// models/notice.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Notice struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title"`
	Body           string             `bson:"body" json:"body"`
	Department     string             `bson:"department,omitempty" json:"department,omitempty"`
	AllDepartments bool               `bson:"allDepartments" json:"allDepartments"`
	Priority       string             `bson:"priority" json:"priority"` // low, medium, high
	Pinned         bool               `bson:"pinned" json:"pinned"`
	PostedBy       primitive.ObjectID `bson:"postedBy" json:"postedBy"`
	PosterName     string             `bson:"posterName,omitempty" json:"posterName,omitempty"`
	ExpiresAt      *time.Time         `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

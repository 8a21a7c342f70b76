// models/shift.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Shift struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	EmployeeName string             `bson:"employeeName" json:"employeeName"`
	Department   string             `bson:"department" json:"department"`
	Date         time.Time          `bson:"date" json:"date"`
	ShiftType    string             `bson:"shiftType" json:"shiftType"` // day, night, on_call
	StartTime    string             `bson:"startTime" json:"startTime"` // "08:00"
	EndTime      string             `bson:"endTime" json:"endTime"`     // "16:00"
	Location     string             `bson:"location,omitempty" json:"location,omitempty"`
	CreatedBy    primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

const (
	ShiftTypeDay    = "day"
	ShiftTypeNight  = "night"
	ShiftTypeOnCall = "on_call"
)

func ValidShiftType(t string) bool {
	switch t {
	case ShiftTypeDay, ShiftTypeNight, ShiftTypeOnCall:
		return true
	}
	return false
}

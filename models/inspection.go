// models/inspection.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChecklistItem struct {
	Description string `bson:"description" json:"description"`
	Result      string `bson:"result" json:"result"` // pass, fail, na
	Notes       string `bson:"notes,omitempty" json:"notes,omitempty"`
}

type Inspection struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title         string              `bson:"title" json:"title"`
	Department    string              `bson:"department" json:"department"`
	AssetID       *primitive.ObjectID `bson:"assetId,omitempty" json:"assetId,omitempty"`
	AssetName     string              `bson:"assetName,omitempty" json:"assetName,omitempty"`
	Items         []ChecklistItem     `bson:"items" json:"items"`
	Status        string              `bson:"status" json:"status"` // derived from item results
	InspectorID   primitive.ObjectID  `bson:"inspectorId" json:"inspectorId"`
	InspectorName string              `bson:"inspectorName,omitempty" json:"inspectorName,omitempty"`
	ScheduledDate time.Time           `bson:"scheduledDate" json:"scheduledDate"`
	CompletedAt   *time.Time          `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

const (
	InspectionStatusScheduled = "scheduled"
	InspectionStatusPassed    = "passed"
	InspectionStatusFailed    = "failed"
	InspectionStatusPartial   = "partial"
)

const (
	ChecklistResultPass = "pass"
	ChecklistResultFail = "fail"
	ChecklistResultNA   = "na"
)

// ComputeStatus derives the inspection status from item results. An
// inspection with no recorded results stays scheduled.
func (i *Inspection) ComputeStatus() {
	passed, failed := 0, 0
	for _, item := range i.Items {
		switch item.Result {
		case ChecklistResultPass:
			passed++
		case ChecklistResultFail:
			failed++
		}
	}

	switch {
	case passed == 0 && failed == 0:
		i.Status = InspectionStatusScheduled
	case failed == 0:
		i.Status = InspectionStatusPassed
	case passed == 0:
		i.Status = InspectionStatusFailed
	default:
		i.Status = InspectionStatusPartial
	}
}

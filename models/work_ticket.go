// models/work_ticket.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WorkTicket struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TicketNumber string              `bson:"ticketNumber" json:"ticketNumber"`
	Title        string              `bson:"title" json:"title"`
	Description  string              `bson:"description,omitempty" json:"description,omitempty"`
	Department   string              `bson:"department" json:"department"`
	AssetID      *primitive.ObjectID `bson:"assetId,omitempty" json:"assetId,omitempty"`
	AssetName    string              `bson:"assetName,omitempty" json:"assetName,omitempty"`
	Priority     string              `bson:"priority" json:"priority"` // low, medium, high, critical
	Status       string              `bson:"status" json:"status"`
	ReportedBy   primitive.ObjectID  `bson:"reportedBy" json:"reportedBy"`
	ReporterName string              `bson:"reporterName,omitempty" json:"reporterName,omitempty"`
	AssignedTo   *primitive.ObjectID `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	AssigneeName string              `bson:"assigneeName,omitempty" json:"assigneeName,omitempty"`
	AdminNotes   string              `bson:"adminNotes,omitempty" json:"adminNotes,omitempty"`
	ApprovedBy   *primitive.ObjectID `bson:"approvedBy,omitempty" json:"approvedBy,omitempty"`
	ApprovedAt   *time.Time          `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`
	ClosedAt     *time.Time          `bson:"closedAt,omitempty" json:"closedAt,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// Ticket status values
const (
	TicketStatusOpen            = "open"
	TicketStatusInProgress      = "in_progress"
	TicketStatusPendingApproval = "pending_approval"
	TicketStatusApproved        = "approved"
	TicketStatusRejected        = "rejected"
	TicketStatusClosed          = "closed"
)

// Ticket priority values
const (
	TicketPriorityLow      = "low"
	TicketPriorityMedium   = "medium"
	TicketPriorityHigh     = "high"
	TicketPriorityCritical = "critical"
)

var ticketTransitions = map[string][]string{
	TicketStatusOpen:            {TicketStatusInProgress, TicketStatusClosed},
	TicketStatusInProgress:      {TicketStatusPendingApproval, TicketStatusOpen},
	TicketStatusPendingApproval: {TicketStatusApproved, TicketStatusRejected},
	TicketStatusApproved:        {TicketStatusClosed},
	TicketStatusRejected:        {TicketStatusInProgress, TicketStatusClosed},
	TicketStatusClosed:          {},
}

// ValidTicketTransition reports whether a ticket may move from one status
// to another. Closed is terminal.
func ValidTicketTransition(from, to string) bool {
	for _, next := range ticketTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ApprovalStatus reports whether the target status is an approval decision,
// which only department admins may set.
func ApprovalStatus(status string) bool {
	return status == TicketStatusApproved || status == TicketStatusRejected
}

func ValidTicketPriority(priority string) bool {
	switch priority {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

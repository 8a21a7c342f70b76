package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidTicketTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{TicketStatusOpen, TicketStatusInProgress},
		{TicketStatusOpen, TicketStatusClosed},
		{TicketStatusInProgress, TicketStatusPendingApproval},
		{TicketStatusInProgress, TicketStatusOpen},
		{TicketStatusPendingApproval, TicketStatusApproved},
		{TicketStatusPendingApproval, TicketStatusRejected},
		{TicketStatusApproved, TicketStatusClosed},
		{TicketStatusRejected, TicketStatusInProgress},
		{TicketStatusRejected, TicketStatusClosed},
	}
	for _, c := range allowed {
		assert.True(t, ValidTicketTransition(c.from, c.to), "%s -> %s should be allowed", c.from, c.to)
	}

	denied := []struct{ from, to string }{
		{TicketStatusOpen, TicketStatusApproved},
		{TicketStatusOpen, TicketStatusPendingApproval},
		{TicketStatusInProgress, TicketStatusApproved},
		{TicketStatusPendingApproval, TicketStatusClosed},
		{TicketStatusApproved, TicketStatusOpen},
		{TicketStatusClosed, TicketStatusOpen},
		{TicketStatusClosed, TicketStatusInProgress},
		{"bogus", TicketStatusOpen},
		{TicketStatusOpen, "bogus"},
	}
	for _, c := range denied {
		assert.False(t, ValidTicketTransition(c.from, c.to), "%s -> %s should be denied", c.from, c.to)
	}
}

func TestClosedIsTerminal(t *testing.T) {
	for _, to := range []string{
		TicketStatusOpen, TicketStatusInProgress, TicketStatusPendingApproval,
		TicketStatusApproved, TicketStatusRejected, TicketStatusClosed,
	} {
		assert.False(t, ValidTicketTransition(TicketStatusClosed, to))
	}
}

func TestApprovalStatus(t *testing.T) {
	assert.True(t, ApprovalStatus(TicketStatusApproved))
	assert.True(t, ApprovalStatus(TicketStatusRejected))
	assert.False(t, ApprovalStatus(TicketStatusPendingApproval))
	assert.False(t, ApprovalStatus(TicketStatusClosed))
}

func TestValidTicketPriority(t *testing.T) {
	for _, p := range []string{TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical} {
		assert.True(t, ValidTicketPriority(p))
	}
	assert.False(t, ValidTicketPriority("urgent"))
	assert.False(t, ValidTicketPriority(""))
}

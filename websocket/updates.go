package websocket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/Karthick1242004/cmms-sub009/models"
)

// Update is the wire envelope for every realtime event pushed to clients.
type Update struct {
	Type      string      `json:"type"` // ACTIVITY, CHAT_MESSAGE, BOM_SYNC, NOTICE
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func broadcast(department string, all bool, update Update) {
	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Failed to marshal ws update: %v", err)
		return
	}
	hub.broadcast <- BroadcastMessage{Department: department, All: all, Message: data}
}

// BroadcastActivity pushes a new activity log entry to the entry's department.
func BroadcastActivity(entry *models.ActivityLog) {
	broadcast(entry.Department, false, Update{
		Type:      "ACTIVITY",
		Data:      entry,
		Timestamp: time.Now().UTC(),
	})
}

// BroadcastChatMessage pushes a chat message to its department room.
func BroadcastChatMessage(msg *models.ChatMessage) {
	broadcast(msg.Department, false, Update{
		Type:      "CHAT_MESSAGE",
		Data:      msg,
		Timestamp: time.Now().UTC(),
	})
}

// BroadcastSyncResult announces a finished BOM reconciliation run.
func BroadcastSyncResult(department string, payload interface{}) {
	broadcast(department, false, Update{
		Type:      "BOM_SYNC",
		Data:      payload,
		Timestamp: time.Now().UTC(),
	})
}

// BroadcastNotice pushes a notice to one department or, for
// all-department notices, to everyone.
func BroadcastNotice(notice *models.Notice) {
	broadcast(notice.Department, notice.AllDepartments, Update{
		Type:      "NOTICE",
		Data:      notice,
		Timestamp: time.Now().UTC(),
	})
}

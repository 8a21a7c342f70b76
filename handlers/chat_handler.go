// handlers/chat_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Karthick1242004/cmms-sub009/models"
	"github.com/Karthick1242004/cmms-sub009/utils"
	"github.com/Karthick1242004/cmms-sub009/websocket"
)

const maxChatBodyLen = 2000

// ListChatMessages returns the department chat history, newest last.
// Pagination is a simple before-cursor on createdAt.
func ListChatMessages(w http.ResponseWriter, r *http.Request) {
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	targetDept := mux.Vars(r)["department"]
	if targetDept == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "department is required")
		return
	}
	if !utils.CanAccessDepartment(userRole, department, targetDept) {
		utils.RespondWithError(w, http.StatusForbidden, "access denied to this department's chat")
		return
	}

	limit := int64(50)
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.ParseInt(l, 10, 64)
		if err != nil || parsed < 1 || parsed > 200 {
			utils.RespondWithError(w, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = parsed
	}

	filter := bson.M{"department": targetDept}
	if before := r.URL.Query().Get("before"); before != "" {
		t, err := time.Parse(time.RFC3339, before)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid before timestamp, expected RFC3339")
			return
		}
		filter["createdAt"] = bson.M{"$lt": t}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)

	cursor, err := chatCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Printf("chat Find error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	defer cursor.Close(ctx)

	var messages []models.ChatMessage
	if err = cursor.All(ctx, &messages); err != nil {
		log.Printf("cursor decode error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to decode messages")
		return
	}

	// Reverse to chronological order for the client
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	if messages == nil {
		messages = []models.ChatMessage{}
	}

	utils.RespondWithJSON(w, http.StatusOK, messages)
}

type PostChatMessageRequest struct {
	Body string `json:"body"`
}

// PostChatMessage persists a message to the caller's department channel
// and fans it out to connected websocket clients.
func PostChatMessage(w http.ResponseWriter, r *http.Request) {
	userIDStr, ok := r.Context().Value("userID").(string)
	if !ok || userIDStr == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "user id required")
		return
	}
	userName, _ := r.Context().Value("userName").(string)
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	if !utils.CanWrite(userRole) {
		utils.RespondWithError(w, http.StatusForbidden, "viewers cannot post messages")
		return
	}

	targetDept := mux.Vars(r)["department"]
	if targetDept == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "department is required")
		return
	}
	if !utils.CanAccessDepartment(userRole, department, targetDept) {
		utils.RespondWithError(w, http.StatusForbidden, "access denied to this department's chat")
		return
	}

	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req PostChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	body := strings.TrimSpace(req.Body)
	if body == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "message body is required")
		return
	}
	if len(body) > maxChatBodyLen {
		utils.RespondWithError(w, http.StatusBadRequest, "message body too long")
		return
	}

	msg := models.ChatMessage{
		ID:         primitive.NewObjectID(),
		Department: targetDept,
		UserID:     userID,
		UserName:   userName,
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, err := chatCollection.InsertOne(ctx, msg); err != nil {
		log.Printf("insert chat message error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to send message")
		return
	}

	websocket.BroadcastChatMessage(&msg)

	utils.RespondWithJSON(w, http.StatusCreated, msg)
}

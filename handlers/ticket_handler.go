// handlers/ticket_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Karthick1242004/cmms-sub009/models"
	"github.com/Karthick1242004/cmms-sub009/utils"
)

func newTicketNumber() string {
	return "WT-" + strings.ToUpper(uuid.NewString()[:8])
}

// ListTickets returns work tickets, department-filtered
func ListTickets(w http.ResponseWriter, r *http.Request) {
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if utils.NormalizeRole(userRole) != utils.RoleSuperAdmin {
		filter["department"] = department
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	if priority := r.URL.Query().Get("priority"); priority != "" {
		filter["priority"] = priority
	}
	if assignedTo := r.URL.Query().Get("assignedTo"); assignedTo != "" {
		assigneeID, err := primitive.ObjectIDFromHex(assignedTo)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid assignedTo id")
			return
		}
		filter["assignedTo"] = assigneeID
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := ticketCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Printf("tickets Find error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	defer cursor.Close(ctx)

	var tickets []models.WorkTicket
	if err = cursor.All(ctx, &tickets); err != nil {
		log.Printf("cursor decode error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to decode tickets")
		return
	}

	if tickets == nil {
		tickets = []models.WorkTicket{}
	}

	utils.RespondWithJSON(w, http.StatusOK, tickets)
}

type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Department  string `json:"department"`
	AssetID     string `json:"assetId,omitempty"`
	Priority    string `json:"priority"`
	AssignedTo  string `json:"assignedTo,omitempty"`
}

func CreateTicket(w http.ResponseWriter, r *http.Request) {
	userIDStr, ok := r.Context().Value("userID").(string)
	if !ok || userIDStr == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "user id required")
		return
	}
	userName, _ := r.Context().Value("userName").(string)
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	if !utils.CanWrite(userRole) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to create ticket")
		return
	}

	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if req.Title == "" || req.Department == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing required fields: title and department")
		return
	}
	if req.Priority == "" {
		req.Priority = models.TicketPriorityMedium
	}
	if !models.ValidTicketPriority(req.Priority) {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid priority")
		return
	}

	if !utils.CanAccessDepartment(userRole, department, req.Department) {
		utils.RespondWithError(w, http.StatusForbidden, "access denied to this department")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	now := time.Now().UTC()
	ticket := models.WorkTicket{
		ID:           primitive.NewObjectID(),
		TicketNumber: newTicketNumber(),
		Title:        req.Title,
		Description:  req.Description,
		Department:   req.Department,
		Priority:     req.Priority,
		Status:       models.TicketStatusOpen,
		ReportedBy:   userID,
		ReporterName: userName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if req.AssetID != "" {
		assetID, err := primitive.ObjectIDFromHex(req.AssetID)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid asset id format")
			return
		}

		var asset models.Asset
		err = assetCollection.FindOne(ctx, bson.M{"_id": assetID}).Decode(&asset)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				utils.RespondWithError(w, http.StatusBadRequest, "asset not found")
				return
			}
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to verify asset")
			return
		}
		ticket.AssetID = &assetID
		ticket.AssetName = asset.Name
	}

	if req.AssignedTo != "" {
		assigneeID, err := primitive.ObjectIDFromHex(req.AssignedTo)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid assignee id format")
			return
		}

		var assignee models.User
		err = userCollection.FindOne(ctx, bson.M{"_id": assigneeID, "deletedAt": nil}).Decode(&assignee)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				utils.RespondWithError(w, http.StatusBadRequest, "assignee not found")
				return
			}
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to verify assignee")
			return
		}
		ticket.AssignedTo = &assigneeID
		ticket.AssigneeName = assignee.Name
	}

	if _, err := ticketCollection.InsertOne(ctx, ticket); err != nil {
		log.Printf("insert ticket error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create ticket")
		return
	}

	logActivity(ctx, r, "ticket_create", "ticket", ticket.ID, bson.M{
		"ticketNumber": ticket.TicketNumber,
		"title":        ticket.Title,
		"priority":     ticket.Priority,
	})

	utils.RespondWithJSON(w, http.StatusCreated, ticket)
}

func GetTicket(w http.ResponseWriter, r *http.Request) {
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	vars := mux.Vars(r)
	ticketID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid ticket id format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var ticket models.WorkTicket
	err = ticketCollection.FindOne(ctx, bson.M{"_id": ticketID}).Decode(&ticket)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "ticket not found")
			return
		}
		log.Printf("find ticket error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	if !utils.CanAccessDepartment(userRole, department, ticket.Department) {
		utils.RespondWithError(w, http.StatusForbidden, "access denied to this ticket")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, ticket)
}

type UpdateTicketRequest struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	AssignedTo  string `json:"assignedTo,omitempty"`
	AdminNotes  string `json:"adminNotes,omitempty"`
}

func UpdateTicket(w http.ResponseWriter, r *http.Request) {
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	if !utils.CanWrite(userRole) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to update ticket")
		return
	}

	vars := mux.Vars(r)
	ticketID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid ticket id format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var ticket models.WorkTicket
	err = ticketCollection.FindOne(ctx, bson.M{"_id": ticketID}).Decode(&ticket)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "ticket not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	if !utils.CanAccessDepartment(userRole, department, ticket.Department) {
		utils.RespondWithError(w, http.StatusForbidden, "access denied to update this ticket")
		return
	}

	if ticket.Status == models.TicketStatusClosed {
		utils.RespondWithError(w, http.StatusConflict, "closed tickets cannot be edited")
		return
	}

	var req UpdateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	update := bson.M{}
	if req.Title != "" {
		update["title"] = req.Title
	}
	if req.Description != "" {
		update["description"] = req.Description
	}
	if req.Priority != "" {
		if !models.ValidTicketPriority(req.Priority) {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid priority")
			return
		}
		update["priority"] = req.Priority
	}
	if req.AdminNotes != "" {
		if !utils.IsAdminRole(userRole) {
			utils.RespondWithError(w, http.StatusForbidden, "only admins may set admin notes")
			return
		}
		update["adminNotes"] = req.AdminNotes
	}
	if req.AssignedTo != "" {
		assigneeID, err := primitive.ObjectIDFromHex(req.AssignedTo)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid assignee id format")
			return
		}

		var assignee models.User
		err = userCollection.FindOne(ctx, bson.M{"_id": assigneeID, "deletedAt": nil}).Decode(&assignee)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				utils.RespondWithError(w, http.StatusBadRequest, "assignee not found")
				return
			}
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to verify assignee")
			return
		}
		update["assignedTo"] = assigneeID
		update["assigneeName"] = assignee.Name
	}

	if len(update) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "no fields to update")
		return
	}
	update["updatedAt"] = time.Now().UTC()

	result, err := ticketCollection.UpdateOne(ctx, bson.M{"_id": ticketID}, bson.M{"$set": update})
	if err != nil {
		log.Printf("update ticket error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update ticket")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "ticket not found")
		return
	}

	logActivity(ctx, r, "ticket_update", "ticket", ticketID, update)

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "ticket updated successfully"})
}

type TicketStatusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment,omitempty"`
}

// UpdateTicketStatus handles PUT /api/tickets/{id}/status and enforces the
// transition table. Approved/rejected decisions require an admin role.
func UpdateTicketStatus(w http.ResponseWriter, r *http.Request) {
	userIDStr, _ := r.Context().Value("userID").(string)
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	if !utils.CanWrite(userRole) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to change ticket status")
		return
	}

	vars := mux.Vars(r)
	ticketID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid ticket id format")
		return
	}

	var req TicketStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var ticket models.WorkTicket
	err = ticketCollection.FindOne(ctx, bson.M{"_id": ticketID}).Decode(&ticket)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "ticket not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	if !utils.CanAccessDepartment(userRole, department, ticket.Department) {
		utils.RespondWithError(w, http.StatusForbidden, "access denied to this ticket")
		return
	}

	if !models.ValidTicketTransition(ticket.Status, req.Status) {
		utils.RespondWithError(w, http.StatusConflict,
			"invalid status transition from "+ticket.Status+" to "+req.Status)
		return
	}

	if models.ApprovalStatus(req.Status) && !utils.IsAdminRole(userRole) {
		utils.RespondWithError(w, http.StatusForbidden, "only admins may approve or reject tickets")
		return
	}

	now := time.Now().UTC()
	update := bson.M{"status": req.Status, "updatedAt": now}
	if req.Comment != "" {
		update["adminNotes"] = req.Comment
	}
	if models.ApprovalStatus(req.Status) {
		userID, err := primitive.ObjectIDFromHex(userIDStr)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
			return
		}
		update["approvedBy"] = userID
		update["approvedAt"] = now
	}
	if req.Status == models.TicketStatusClosed {
		update["closedAt"] = now
	}

	result, err := ticketCollection.UpdateOne(ctx, bson.M{"_id": ticketID}, bson.M{"$set": update})
	if err != nil {
		log.Printf("ticket status update error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update ticket status")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "ticket not found")
		return
	}

	logActivity(ctx, r, "ticket_status_change", "ticket", ticketID, bson.M{
		"ticketNumber": ticket.TicketNumber,
		"oldStatus":    ticket.Status,
		"newStatus":    req.Status,
	})

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message":   "ticket status updated",
		"oldStatus": ticket.Status,
		"newStatus": req.Status,
	})
}

func DeleteTicket(w http.ResponseWriter, r *http.Request) {
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	if !utils.IsAdminRole(userRole) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to delete ticket")
		return
	}

	vars := mux.Vars(r)
	ticketID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid ticket id format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var ticket models.WorkTicket
	err = ticketCollection.FindOne(ctx, bson.M{"_id": ticketID}).Decode(&ticket)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "ticket not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	if !utils.CanAccessDepartment(userRole, department, ticket.Department) {
		utils.RespondWithError(w, http.StatusForbidden, "access denied to delete this ticket")
		return
	}

	if _, err := ticketCollection.DeleteOne(ctx, bson.M{"_id": ticketID}); err != nil {
		log.Printf("delete ticket error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete ticket")
		return
	}

	logActivity(ctx, r, "ticket_delete", "ticket", ticketID, bson.M{"ticketNumber": ticket.TicketNumber})

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "ticket deleted successfully"})
}

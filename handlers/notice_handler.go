// handlers/notice_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Karthick1242004/cmms-sub009/models"
	"github.com/Karthick1242004/cmms-sub009/utils"
	"github.com/Karthick1242004/cmms-sub009/websocket"
)

func validNoticePriority(p string) bool {
	switch p {
	case "low", "medium", "high":
		return true
	}
	return false
}

// ListNotices returns notices visible to the caller: all-department
// notices plus their own department's, pinned first. Expired notices
// are filtered out unless includeExpired=true is set by an admin.
func ListNotices(w http.ResponseWriter, r *http.Request) {
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if utils.NormalizeRole(userRole) != utils.RoleSuperAdmin {
		filter["$or"] = []bson.M{
			{"allDepartments": true},
			{"department": department},
		}
	}

	includeExpired := r.URL.Query().Get("includeExpired") == "true" && utils.IsAdminRole(userRole)
	if !includeExpired {
		filter["$and"] = []bson.M{
			{"$or": []bson.M{
				{"expiresAt": nil},
				{"expiresAt": bson.M{"$gt": time.Now().UTC()}},
			}},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "pinned", Value: -1}, {Key: "createdAt", Value: -1}})

	cursor, err := noticeCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Printf("notices Find error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	defer cursor.Close(ctx)

	var notices []models.Notice
	if err = cursor.All(ctx, &notices); err != nil {
		log.Printf("cursor decode error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to decode notices")
		return
	}

	if notices == nil {
		notices = []models.Notice{}
	}

	utils.RespondWithJSON(w, http.StatusOK, notices)
}

type CreateNoticeRequest struct {
	Title          string     `json:"title"`
	Body           string     `json:"body"`
	Department     string     `json:"department,omitempty"`
	AllDepartments bool       `json:"allDepartments"`
	Priority       string     `json:"priority"`
	Pinned         bool       `json:"pinned"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
}

func CreateNotice(w http.ResponseWriter, r *http.Request) {
	userIDStr, ok := r.Context().Value("userID").(string)
	if !ok || userIDStr == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "user id required")
		return
	}
	userName, _ := r.Context().Value("userName").(string)
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	if !utils.IsAdminRole(userRole) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to post notices")
		return
	}

	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req CreateNoticeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if req.Title == "" || req.Body == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing required fields: title, body")
		return
	}
	if req.Priority == "" {
		req.Priority = "medium"
	}
	if !validNoticePriority(req.Priority) {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid priority")
		return
	}

	// All-department notices are a super_admin facility
	if req.AllDepartments && utils.NormalizeRole(userRole) != utils.RoleSuperAdmin {
		utils.RespondWithError(w, http.StatusForbidden, "only super admins may post to all departments")
		return
	}
	if !req.AllDepartments {
		if req.Department == "" {
			req.Department = department
		}
		if !utils.CanAccessDepartment(userRole, department, req.Department) {
			utils.RespondWithError(w, http.StatusForbidden, "access denied to this department")
			return
		}
	} else {
		req.Department = ""
	}

	now := time.Now().UTC()
	notice := models.Notice{
		ID:             primitive.NewObjectID(),
		Title:          req.Title,
		Body:           req.Body,
		Department:     req.Department,
		AllDepartments: req.AllDepartments,
		Priority:       req.Priority,
		Pinned:         req.Pinned,
		PostedBy:       userID,
		PosterName:     userName,
		ExpiresAt:      req.ExpiresAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, err := noticeCollection.InsertOne(ctx, notice); err != nil {
		log.Printf("insert notice error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create notice")
		return
	}

	logActivity(ctx, r, "notice_create", "notice", notice.ID, bson.M{"title": notice.Title})
	websocket.BroadcastNotice(&notice)

	utils.RespondWithJSON(w, http.StatusCreated, notice)
}

type UpdateNoticeRequest struct {
	Title     *string    `json:"title,omitempty"`
	Body      *string    `json:"body,omitempty"`
	Priority  *string    `json:"priority,omitempty"`
	Pinned    *bool      `json:"pinned,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func UpdateNotice(w http.ResponseWriter, r *http.Request) {
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	if !utils.IsAdminRole(userRole) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to update notices")
		return
	}

	vars := mux.Vars(r)
	noticeID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid notice id format")
		return
	}

	var req UpdateNoticeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var notice models.Notice
	err = noticeCollection.FindOne(ctx, bson.M{"_id": noticeID}).Decode(&notice)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "notice not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	if !notice.AllDepartments && !utils.CanAccessDepartment(userRole, department, notice.Department) {
		utils.RespondWithError(w, http.StatusForbidden, "access denied to update this notice")
		return
	}
	if notice.AllDepartments && utils.NormalizeRole(userRole) != utils.RoleSuperAdmin {
		utils.RespondWithError(w, http.StatusForbidden, "only super admins may update all-department notices")
		return
	}

	update := bson.M{"updatedAt": time.Now().UTC()}
	if req.Title != nil {
		update["title"] = *req.Title
	}
	if req.Body != nil {
		update["body"] = *req.Body
	}
	if req.Priority != nil {
		if !validNoticePriority(*req.Priority) {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid priority")
			return
		}
		update["priority"] = *req.Priority
	}
	if req.Pinned != nil {
		update["pinned"] = *req.Pinned
	}
	if req.ExpiresAt != nil {
		update["expiresAt"] = *req.ExpiresAt
	}

	if _, err := noticeCollection.UpdateOne(ctx, bson.M{"_id": noticeID}, bson.M{"$set": update}); err != nil {
		log.Printf("update notice error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update notice")
		return
	}

	logActivity(ctx, r, "notice_update", "notice", noticeID, update)

	var updated models.Notice
	if err := noticeCollection.FindOne(ctx, bson.M{"_id": noticeID}).Decode(&updated); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch updated notice")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

func DeleteNotice(w http.ResponseWriter, r *http.Request) {
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	if !utils.IsAdminRole(userRole) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to delete notices")
		return
	}

	vars := mux.Vars(r)
	noticeID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid notice id format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var notice models.Notice
	err = noticeCollection.FindOne(ctx, bson.M{"_id": noticeID}).Decode(&notice)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "notice not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	if !notice.AllDepartments && !utils.CanAccessDepartment(userRole, department, notice.Department) {
		utils.RespondWithError(w, http.StatusForbidden, "access denied to delete this notice")
		return
	}
	if notice.AllDepartments && utils.NormalizeRole(userRole) != utils.RoleSuperAdmin {
		utils.RespondWithError(w, http.StatusForbidden, "only super admins may delete all-department notices")
		return
	}

	if _, err := noticeCollection.DeleteOne(ctx, bson.M{"_id": noticeID}); err != nil {
		log.Printf("delete notice error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete notice")
		return
	}

	logActivity(ctx, r, "notice_delete", "notice", noticeID, bson.M{"title": notice.Title})

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "notice deleted successfully"})
}

// handlers/inspection_handler.go
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
)

// ListInspections returns safety inspections, department-filtered
func ListInspections(w http.ResponseWriter, r *http.Request) {
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

	opts := options.Find().SetSort(bson.D{{Key: "scheduledDate", Value: -1}})

	cursor, err := inspectionCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Printf("inspections Find error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	defer cursor.Close(ctx)

	var inspections []models.Inspection
	if err = cursor.All(ctx, &inspections); err != nil {
		log.Printf("cursor decode error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to decode inspections")
		return
	}

	if inspections == nil {
		inspections = []models.Inspection{}
	}

	utils.RespondWithJSON(w, http.StatusOK, inspections)
}

type CreateInspectionRequest struct {
	Title         string                 `json:"title"`
	Department    string                 `json:"department"`
	AssetID       string                 `json:"assetId,omitempty"`
	Items         []models.ChecklistItem `json:"items"`
	ScheduledDate time.Time              `json:"scheduledDate"`
}

func CreateInspection(w http.ResponseWriter, r *http.Request) {
	userIDStr, ok := r.Context().Value("userID").(string)
	if !ok || userIDStr == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "user id required")
		return
	}
	userName, _ := r.Context().Value("userName").(string)
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	if !utils.CanWrite(userRole) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to create inspection")
		return
	}

	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req CreateInspectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if req.Title == "" || req.Department == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing required fields: title and department")
		return
	}
	if req.ScheduledDate.IsZero() {
		req.ScheduledDate = time.Now().UTC()
	}

	if !utils.CanAccessDepartment(userRole, department, req.Department) {
		utils.RespondWithError(w, http.StatusForbidden, "access denied to this department")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	now := time.Now().UTC()
	inspection := models.Inspection{
		ID:            primitive.NewObjectID(),
		Title:         req.Title,
		Department:    req.Department,
		Items:         req.Items,
		InspectorID:   userID,
		InspectorName: userName,
		ScheduledDate: req.ScheduledDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if inspection.Items == nil {
		inspection.Items = []models.ChecklistItem{}
	}
	inspection.ComputeStatus()

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
		inspection.AssetID = &assetID
		inspection.AssetName = asset.Name
	}

	if _, err := inspectionCollection.InsertOne(ctx, inspection); err != nil {
		log.Printf("insert inspection error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create inspection")
		return
	}

	logActivity(ctx, r, "inspection_create", "inspection", inspection.ID, bson.M{
		"title":      inspection.Title,
		"department": inspection.Department,
	})

	utils.RespondWithJSON(w, http.StatusCreated, inspection)
}

func GetInspection(w http.ResponseWriter, r *http.Request) {
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	vars := mux.Vars(r)
	inspectionID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid inspection id format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var inspection models.Inspection
	err = inspectionCollection.FindOne(ctx, bson.M{"_id": inspectionID}).Decode(&inspection)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "inspection not found")
			return
		}
		log.Printf("find inspection error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	if !utils.CanAccessDepartment(userRole, department, inspection.Department) {
		utils.RespondWithError(w, http.StatusForbidden, "access denied to this inspection")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, inspection)
}

type UpdateInspectionRequest struct {
	Title    string                  `json:"title,omitempty"`
	Items    *[]models.ChecklistItem `json:"items,omitempty"`
	Complete bool                    `json:"complete,omitempty"`
}

// UpdateInspection records checklist results. Marking it complete stamps
// completedAt and freezes further edits.
func UpdateInspection(w http.ResponseWriter, r *http.Request) {
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	if !utils.CanWrite(userRole) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to update inspection")
		return
	}

	vars := mux.Vars(r)
	inspectionID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid inspection id format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var inspection models.Inspection
	err = inspectionCollection.FindOne(ctx, bson.M{"_id": inspectionID}).Decode(&inspection)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "inspection not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	if !utils.CanAccessDepartment(userRole, department, inspection.Department) {
		utils.RespondWithError(w, http.StatusForbidden, "access denied to update this inspection")
		return
	}

	if inspection.CompletedAt != nil {
		utils.RespondWithError(w, http.StatusConflict, "completed inspections cannot be edited")
		return
	}

	var req UpdateInspectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	update := bson.M{}
	if req.Title != "" {
		update["title"] = req.Title
	}
	if req.Items != nil {
		inspection.Items = *req.Items
		inspection.ComputeStatus()
		update["items"] = inspection.Items
		update["status"] = inspection.Status
	}
	if req.Complete {
		now := time.Now().UTC()
		update["completedAt"] = now
	}

	if len(update) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "no fields to update")
		return
	}
	update["updatedAt"] = time.Now().UTC()

	result, err := inspectionCollection.UpdateOne(ctx, bson.M{"_id": inspectionID}, bson.M{"$set": update})
	if err != nil {
		log.Printf("update inspection error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update inspection")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "inspection not found")
		return
	}

	logActivity(ctx, r, "inspection_update", "inspection", inspectionID, bson.M{
		"title":    inspection.Title,
		"complete": req.Complete,
	})

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "inspection updated successfully"})
}

func DeleteInspection(w http.ResponseWriter, r *http.Request) {
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	if !utils.IsAdminRole(userRole) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to delete inspection")
		return
	}

	vars := mux.Vars(r)
	inspectionID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid inspection id format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var inspection models.Inspection
	err = inspectionCollection.FindOne(ctx, bson.M{"_id": inspectionID}).Decode(&inspection)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "inspection not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	if !utils.CanAccessDepartment(userRole, department, inspection.Department) {
		utils.RespondWithError(w, http.StatusForbidden, "access denied to delete this inspection")
		return
	}

	if _, err := inspectionCollection.DeleteOne(ctx, bson.M{"_id": inspectionID}); err != nil {
		log.Printf("delete inspection error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete inspection")
		return
	}

	logActivity(ctx, r, "inspection_delete", "inspection", inspectionID, bson.M{"title": inspection.Title})

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "inspection deleted successfully"})
}

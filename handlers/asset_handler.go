// handlers/asset_handler.go
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

// ListAssets returns assets visible to the caller, department-filtered
func ListAssets(w http.ResponseWriter, r *http.Request) {
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{"status": bson.M{"$ne": models.AssetStatusRetired}}
	if utils.NormalizeRole(userRole) != utils.RoleSuperAdmin {
		filter["department"] = department
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := assetCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Printf("assets Find error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	defer cursor.Close(ctx)

	var assets []models.Asset
	if err = cursor.All(ctx, &assets); err != nil {
		log.Printf("cursor decode error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to decode assets")
		return
	}

	if assets == nil {
		assets = []models.Asset{}
	}

	utils.RespondWithJSON(w, http.StatusOK, assets)
}

type CreateAssetRequest struct {
	Name         string            `json:"name"`
	AssetTag     string            `json:"assetTag,omitempty"`
	Category     string            `json:"category"`
	Department   string            `json:"department"`
	Location     string            `json:"location,omitempty"`
	Manufacturer string            `json:"manufacturer,omitempty"`
	SerialNumber string            `json:"serialNumber,omitempty"`
	Description  string            `json:"description,omitempty"`
	PurchaseDate *time.Time        `json:"purchaseDate,omitempty"`
	PartsBOM     []models.BOMItem  `json:"partsBOM,omitempty"`
}

func CreateAsset(w http.ResponseWriter, r *http.Request) {
	userIDStr, ok := r.Context().Value("userID").(string)
	if !ok || userIDStr == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "user id required")
		return
	}

	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	if !utils.CanWrite(userRole) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to create asset")
		return
	}

	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req CreateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if req.Name == "" || req.Category == "" || req.Department == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing required fields: name, category, department")
		return
	}

	if !utils.CanAccessDepartment(userRole, department, req.Department) {
		utils.RespondWithError(w, http.StatusForbidden, "access denied to this department")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	// Check unique name within department
	count, err := assetCollection.CountDocuments(ctx, bson.M{"department": req.Department, "name": req.Name})
	if err != nil {
		log.Printf("unique check error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "asset name must be unique within department")
		return
	}

	now := time.Now().UTC()
	asset := models.Asset{
		ID:           primitive.NewObjectID(),
		Name:         req.Name,
		AssetTag:     req.AssetTag,
		Category:     req.Category,
		Department:   req.Department,
		Location:     req.Location,
		Manufacturer: req.Manufacturer,
		SerialNumber: req.SerialNumber,
		Description:  req.Description,
		PurchaseDate: req.PurchaseDate,
		Status:       models.AssetStatusOperational,
		PartsBOM:     req.PartsBOM,
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if asset.PartsBOM == nil {
		asset.PartsBOM = []models.BOMItem{}
	}

	if _, err := assetCollection.InsertOne(ctx, asset); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusConflict, "asset with this name already exists")
			return
		}
		log.Printf("insert error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create asset")
		return
	}

	logActivity(ctx, r, "asset_create", "asset", asset.ID, bson.M{
		"name":       asset.Name,
		"category":   asset.Category,
		"department": asset.Department,
	})

	utils.RespondWithJSON(w, http.StatusCreated, asset)
}

func GetAsset(w http.ResponseWriter, r *http.Request) {
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	vars := mux.Vars(r)
	assetID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid asset id format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var asset models.Asset
	err = assetCollection.FindOne(ctx, bson.M{"_id": assetID}).Decode(&asset)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "asset not found")
			return
		}
		log.Printf("find asset error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	if !utils.CanAccessDepartment(userRole, department, asset.Department) {
		utils.RespondWithError(w, http.StatusForbidden, "access denied to this asset")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, asset)
}

type UpdateAssetRequest struct {
	Name         string            `json:"name,omitempty"`
	AssetTag     string            `json:"assetTag,omitempty"`
	Category     string            `json:"category,omitempty"`
	Location     string            `json:"location,omitempty"`
	Manufacturer string            `json:"manufacturer,omitempty"`
	SerialNumber string            `json:"serialNumber,omitempty"`
	Description  string            `json:"description,omitempty"`
	Status       string            `json:"status,omitempty"`
	PartsBOM     *[]models.BOMItem `json:"partsBOM,omitempty"`
}

func UpdateAsset(w http.ResponseWriter, r *http.Request) {
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	if !utils.CanWrite(userRole) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to update asset")
		return
	}

	vars := mux.Vars(r)
	assetID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid asset id format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var asset models.Asset
	err = assetCollection.FindOne(ctx, bson.M{"_id": assetID}).Decode(&asset)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "asset not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	if !utils.CanAccessDepartment(userRole, department, asset.Department) {
		utils.RespondWithError(w, http.StatusForbidden, "access denied to update this asset")
		return
	}

	var req UpdateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	update := bson.M{}
	if req.Name != "" {
		update["name"] = req.Name
	}
	if req.AssetTag != "" {
		update["assetTag"] = req.AssetTag
	}
	if req.Category != "" {
		update["category"] = req.Category
	}
	if req.Location != "" {
		update["location"] = req.Location
	}
	if req.Manufacturer != "" {
		update["manufacturer"] = req.Manufacturer
	}
	if req.SerialNumber != "" {
		update["serialNumber"] = req.SerialNumber
	}
	if req.Description != "" {
		update["description"] = req.Description
	}
	if req.Status != "" {
		if !models.ValidAssetStatus(req.Status) {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid asset status")
			return
		}
		update["status"] = req.Status
	}
	if req.PartsBOM != nil {
		update["partsBOM"] = *req.PartsBOM
	}

	if len(update) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "no fields to update")
		return
	}
	update["updatedAt"] = time.Now().UTC()

	result, err := assetCollection.UpdateOne(ctx, bson.M{"_id": assetID}, bson.M{"$set": update})
	if err != nil {
		log.Printf("update asset error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update asset")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "asset not found")
		return
	}

	logActivity(ctx, r, "asset_update", "asset", assetID, update)

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "asset updated successfully"})
}

func DeleteAsset(w http.ResponseWriter, r *http.Request) {
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	if !utils.IsAdminRole(userRole) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to delete asset")
		return
	}

	vars := mux.Vars(r)
	assetID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid asset id format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var asset models.Asset
	err = assetCollection.FindOne(ctx, bson.M{"_id": assetID}).Decode(&asset)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "asset not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	if !utils.CanAccessDepartment(userRole, department, asset.Department) {
		utils.RespondWithError(w, http.StatusForbidden, "access denied to delete this asset")
		return
	}

	// Block retirement while open work exists against the asset
	openTickets, err := ticketCollection.CountDocuments(ctx, bson.M{
		"assetId": assetID,
		"status":  bson.M{"$nin": []string{models.TicketStatusClosed, models.TicketStatusRejected}},
	})
	if err != nil {
		log.Printf("check linked tickets error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}
	if openTickets > 0 {
		utils.RespondWithError(w, http.StatusConflict, "asset has open work tickets, cannot retire")
		return
	}

	update := bson.M{"status": models.AssetStatusRetired, "updatedAt": time.Now().UTC()}
	result, err := assetCollection.UpdateOne(ctx, bson.M{"_id": assetID}, bson.M{"$set": update})
	if err != nil {
		log.Printf("delete asset error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to retire asset")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "asset not found")
		return
	}

	logActivity(ctx, r, "asset_retire", "asset", assetID, bson.M{"name": asset.Name})

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "asset retired successfully"})
}

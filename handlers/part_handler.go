// handlers/part_handler.go
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

// ListParts returns inventory parts, department-filtered
func ListParts(w http.ResponseWriter, r *http.Request) {
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if utils.NormalizeRole(userRole) != utils.RoleSuperAdmin {
		filter["department"] = department
	}
	if stockStatus := r.URL.Query().Get("stockStatus"); stockStatus != "" {
		filter["stockStatus"] = stockStatus
	}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}

	opts := options.Find().SetSort(bson.D{{Key: "partNumber", Value: 1}})

	cursor, err := partCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Printf("parts Find error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	defer cursor.Close(ctx)

	var parts []models.Part
	if err = cursor.All(ctx, &parts); err != nil {
		log.Printf("cursor decode error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to decode parts")
		return
	}

	if parts == nil {
		parts = []models.Part{}
	}

	utils.RespondWithJSON(w, http.StatusOK, parts)
}

type CreatePartRequest struct {
	PartNumber    string  `json:"partNumber"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	Category      string  `json:"category"`
	Department    string  `json:"department"`
	Supplier      string  `json:"supplier,omitempty"`
	StockQuantity int     `json:"stockQuantity"`
	MinStockLevel int     `json:"minStockLevel"`
	UnitCost      float64 `json:"unitCost"`
}

func CreatePart(w http.ResponseWriter, r *http.Request) {
	userIDStr, ok := r.Context().Value("userID").(string)
	if !ok || userIDStr == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "user id required")
		return
	}

	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	if !utils.CanWrite(userRole) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to create part")
		return
	}

	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req CreatePartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if req.PartNumber == "" || req.Name == "" || req.Department == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing required fields: partNumber, name, department")
		return
	}
	if req.StockQuantity < 0 || req.MinStockLevel < 0 || req.UnitCost < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "stock and cost values must not be negative")
		return
	}

	if !utils.CanAccessDepartment(userRole, department, req.Department) {
		utils.RespondWithError(w, http.StatusForbidden, "access denied to this department")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	count, err := partCollection.CountDocuments(ctx, bson.M{"partNumber": req.PartNumber})
	if err != nil {
		log.Printf("unique check error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "part number already exists")
		return
	}

	now := time.Now().UTC()
	part := models.Part{
		ID:            primitive.NewObjectID(),
		PartNumber:    req.PartNumber,
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		Department:    req.Department,
		Supplier:      req.Supplier,
		StockQuantity: req.StockQuantity,
		MinStockLevel: req.MinStockLevel,
		UnitCost:      req.UnitCost,
		LinkedAssets:  []models.AssetLink{},
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	part.ComputeDerivedFields()

	if _, err := partCollection.InsertOne(ctx, part); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusConflict, "part number already exists")
			return
		}
		log.Printf("insert error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create part")
		return
	}

	logActivity(ctx, r, "part_create", "part", part.ID, bson.M{
		"partNumber": part.PartNumber,
		"name":       part.Name,
		"department": part.Department,
	})

	utils.RespondWithJSON(w, http.StatusCreated, part)
}

func GetPart(w http.ResponseWriter, r *http.Request) {
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	vars := mux.Vars(r)
	partID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid part id format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var part models.Part
	err = partCollection.FindOne(ctx, bson.M{"_id": partID}).Decode(&part)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "part not found")
			return
		}
		log.Printf("find part error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	if !utils.CanAccessDepartment(userRole, department, part.Department) {
		utils.RespondWithError(w, http.StatusForbidden, "access denied to this part")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, part)
}

type UpdatePartRequest struct {
	Name          string              `json:"name,omitempty"`
	Description   string              `json:"description,omitempty"`
	Category      string              `json:"category,omitempty"`
	Supplier      string              `json:"supplier,omitempty"`
	StockQuantity *int                `json:"stockQuantity,omitempty"`
	MinStockLevel *int                `json:"minStockLevel,omitempty"`
	UnitCost      *float64            `json:"unitCost,omitempty"`
	LinkedAssets  *[]models.AssetLink `json:"linkedAssets,omitempty"`
}

func UpdatePart(w http.ResponseWriter, r *http.Request) {
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	if !utils.CanWrite(userRole) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to update part")
		return
	}

	vars := mux.Vars(r)
	partID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid part id format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var part models.Part
	err = partCollection.FindOne(ctx, bson.M{"_id": partID}).Decode(&part)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "part not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	if !utils.CanAccessDepartment(userRole, department, part.Department) {
		utils.RespondWithError(w, http.StatusForbidden, "access denied to update this part")
		return
	}

	var req UpdatePartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	update := bson.M{}
	if req.Name != "" {
		part.Name = req.Name
		update["name"] = req.Name
	}
	if req.Description != "" {
		update["description"] = req.Description
	}
	if req.Category != "" {
		update["category"] = req.Category
	}
	if req.Supplier != "" {
		update["supplier"] = req.Supplier
	}
	if req.StockQuantity != nil {
		if *req.StockQuantity < 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "stock quantity must not be negative")
			return
		}
		part.StockQuantity = *req.StockQuantity
		update["stockQuantity"] = *req.StockQuantity
	}
	if req.MinStockLevel != nil {
		part.MinStockLevel = *req.MinStockLevel
		update["minStockLevel"] = *req.MinStockLevel
	}
	if req.UnitCost != nil {
		part.UnitCost = *req.UnitCost
		update["unitCost"] = *req.UnitCost
	}
	if req.LinkedAssets != nil {
		update["linkedAssets"] = *req.LinkedAssets
	}

	if len(update) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	// Derived fields ride along with every write
	part.ComputeDerivedFields()
	update["stockStatus"] = part.StockStatus
	update["totalValue"] = part.TotalValue
	update["updatedAt"] = time.Now().UTC()

	result, err := partCollection.UpdateOne(ctx, bson.M{"_id": partID}, bson.M{"$set": update})
	if err != nil {
		log.Printf("update part error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update part")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "part not found")
		return
	}

	logActivity(ctx, r, "part_update", "part", partID, update)

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "part updated successfully"})
}

func DeletePart(w http.ResponseWriter, r *http.Request) {
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	if !utils.IsAdminRole(userRole) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to delete part")
		return
	}

	vars := mux.Vars(r)
	partID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid part id format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var part models.Part
	err = partCollection.FindOne(ctx, bson.M{"_id": partID}).Decode(&part)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "part not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	if !utils.CanAccessDepartment(userRole, department, part.Department) {
		utils.RespondWithError(w, http.StatusForbidden, "access denied to delete this part")
		return
	}

	if len(part.LinkedAssets) > 0 {
		utils.RespondWithError(w, http.StatusConflict, "part is linked to assets, remove BOM references first")
		return
	}

	if _, err := partCollection.DeleteOne(ctx, bson.M{"_id": partID}); err != nil {
		log.Printf("delete part error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete part")
		return
	}

	logActivity(ctx, r, "part_delete", "part", partID, bson.M{"partNumber": part.PartNumber})

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "part deleted successfully"})
}

// handlers/sync_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Karthick1242004/cmms-sub009/models"
	"github.com/Karthick1242004/cmms-sub009/sync"
	"github.com/Karthick1242004/cmms-sub009/utils"
	"github.com/Karthick1242004/cmms-sub009/websocket"
)

// newReconciler wires the reconciler against the live collections. The
// whole batch gets a generous deadline on top of the per-item one.
func newReconciler() *sync.Reconciler {
	return sync.NewReconciler(
		sync.NewMongoAssetRepository(assetCollection),
		sync.NewMongoPartRepository(partCollection),
	)
}

type syncPartsRequest struct {
	AssetName  string           `json:"assetName"`
	Department string           `json:"department"`
	PartsBOM   []models.BOMItem `json:"partsBOM"`
}

// SyncAssetParts handles POST /api/assets/{id}/sync-parts: the asset's BOM
// is authoritative and each referenced part's linkedAssets entry is
// reconciled against it.
func SyncAssetParts(w http.ResponseWriter, r *http.Request) {
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	if !utils.IsAdminRole(userRole) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to sync BOM")
		return
	}

	vars := mux.Vars(r)
	assetID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid asset id format")
		return
	}

	var req syncPartsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if !utils.CanAccessDepartment(userRole, department, req.Department) {
		utils.RespondWithError(w, http.StatusForbidden, "access denied to this department")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	result, err := newReconciler().SyncAssetBOMToParts(ctx, sync.AssetSyncRequest{
		AssetID:    assetID,
		AssetName:  req.AssetName,
		Department: req.Department,
		PartsBOM:   req.PartsBOM,
	})
	if err != nil {
		if errors.Is(err, sync.ErrValidation) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("asset BOM sync failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "sync failed unexpectedly")
		return
	}

	logActivity(ctx, r, "bom_sync", "asset", assetID, bson.M{
		"direction":    "asset_to_parts",
		"syncedItems":  result.SyncedItems,
		"skippedItems": result.SkippedItems,
		"errorCount":   len(result.Errors),
	})

	data := map[string]interface{}{
		"assetId":      assetID.Hex(),
		"assetName":    req.AssetName,
		"syncedItems":  result.SyncedItems,
		"skippedItems": result.SkippedItems,
		"errors":       result.Errors,
	}
	websocket.BroadcastSyncResult(req.Department, data)

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	utils.RespondWithJSON(w, status, map[string]interface{}{
		"success": result.Success,
		"message": result.Message,
		"data":    data,
	})
}

type syncAssetsRequest struct {
	PartNumber   string             `json:"partNumber"`
	PartName     string             `json:"partName"`
	Department   string             `json:"department"`
	LinkedAssets []models.AssetLink `json:"linkedAssets"`
}

// SyncPartAssets handles POST /api/parts/{id}/sync-assets, the mirror
// direction of SyncAssetParts.
func SyncPartAssets(w http.ResponseWriter, r *http.Request) {
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	if !utils.IsAdminRole(userRole) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to sync BOM")
		return
	}

	vars := mux.Vars(r)
	partID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid part id format")
		return
	}

	var req syncAssetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if !utils.CanAccessDepartment(userRole, department, req.Department) {
		utils.RespondWithError(w, http.StatusForbidden, "access denied to this department")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	result, err := newReconciler().SyncPartLinksToAssetBOM(ctx, sync.PartSyncRequest{
		PartID:       partID,
		PartNumber:   req.PartNumber,
		PartName:     req.PartName,
		Department:   req.Department,
		LinkedAssets: req.LinkedAssets,
	})
	if err != nil {
		if errors.Is(err, sync.ErrValidation) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("part link sync failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "sync failed unexpectedly")
		return
	}

	logActivity(ctx, r, "bom_sync", "part", partID, bson.M{
		"direction":    "part_to_assets",
		"syncedItems":  result.SyncedItems,
		"skippedItems": result.SkippedItems,
		"errorCount":   len(result.Errors),
	})

	data := map[string]interface{}{
		"partId":       partID.Hex(),
		"partNumber":   req.PartNumber,
		"partName":     req.PartName,
		"syncedItems":  result.SyncedItems,
		"skippedItems": result.SkippedItems,
		"errors":       result.Errors,
	}
	websocket.BroadcastSyncResult(req.Department, data)

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	utils.RespondWithJSON(w, status, map[string]interface{}{
		"success": result.Success,
		"message": result.Message,
		"data":    data,
	})
}

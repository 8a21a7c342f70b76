// Package sync keeps the two denormalized views of the asset-part
// relationship aligned: Asset.partsBOM on one side and Part.linkedAssets
// on the other. Either side can be edited independently, so a reconciler
// run takes one side's list as authoritative and upserts the reciprocal
// entries on the other side, reporting per-item outcomes instead of
// failing the whole batch.
package sync

import (
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Karthick1242004/cmms-sub009/models"
)

// ErrValidation marks a request rejected before any item was processed.
var ErrValidation = errors.New("validation failed")

// AssetSyncRequest carries an asset's authoritative BOM. Item fields other
// than PartID and QuantityRequired are ignored; the counterpart part
// document is the source of part identity.
type AssetSyncRequest struct {
	AssetID    primitive.ObjectID
	AssetName  string
	Department string
	PartsBOM   []models.BOMItem
}

func (r AssetSyncRequest) Validate() error {
	if r.AssetID.IsZero() {
		return fmt.Errorf("%w: asset id is required", ErrValidation)
	}
	if strings.TrimSpace(r.AssetName) == "" {
		return fmt.Errorf("%w: assetName is required", ErrValidation)
	}
	if strings.TrimSpace(r.Department) == "" {
		return fmt.Errorf("%w: department is required", ErrValidation)
	}
	return nil
}

// PartSyncRequest carries a part's authoritative linked-asset list.
type PartSyncRequest struct {
	PartID       primitive.ObjectID
	PartNumber   string
	PartName     string
	Department   string
	LinkedAssets []models.AssetLink
}

func (r PartSyncRequest) Validate() error {
	if r.PartID.IsZero() {
		return fmt.Errorf("%w: part id is required", ErrValidation)
	}
	if strings.TrimSpace(r.PartNumber) == "" || strings.TrimSpace(r.PartName) == "" {
		return fmt.Errorf("%w: partNumber and partName are required", ErrValidation)
	}
	if strings.TrimSpace(r.Department) == "" {
		return fmt.Errorf("%w: department is required", ErrValidation)
	}
	return nil
}

// ItemError records one hard per-item failure. Soft skips (counterpart
// missing, values unchanged) are counted, not listed here.
type ItemError struct {
	Item   string `json:"item"`
	Reason string `json:"reason"`
}

// Result aggregates per-item outcomes of one reconciler run. Success is
// true only when no hard errors occurred; skips never count as failure.
type Result struct {
	Success      bool        `json:"success"`
	Message      string      `json:"message"`
	SyncedItems  int         `json:"syncedItems"`
	SkippedItems int         `json:"skippedItems"`
	Errors       []ItemError `json:"errors"`
}

func (r *Result) finalize() {
	if r.Errors == nil {
		r.Errors = []ItemError{}
	}
	r.Success = len(r.Errors) == 0
	if r.Success {
		r.Message = fmt.Sprintf("sync complete: %d synced, %d skipped", r.SyncedItems, r.SkippedItems)
	} else {
		r.Message = fmt.Sprintf("sync completed with errors: %d synced, %d skipped, %d failed",
			r.SyncedItems, r.SkippedItems, len(r.Errors))
	}
}

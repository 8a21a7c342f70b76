// sync/reconciler.go
package sync

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Karthick1242004/cmms-sub009/models"
)

// DefaultItemTimeout bounds each per-item fetch+update round trip so one
// hung counterpart call cannot stall the whole batch.
const DefaultItemTimeout = 5 * time.Second

// Reconciler aligns Asset.partsBOM and Part.linkedAssets. Items are
// processed sequentially within a run; there is no cross-run coordination,
// so two concurrent runs on the same (asset, part) pair race and the last
// write wins. Acceptable for admin-driven edit frequency.
type Reconciler struct {
	assets      AssetRepository
	parts       PartRepository
	itemTimeout time.Duration
}

func NewReconciler(assets AssetRepository, parts PartRepository) *Reconciler {
	return &Reconciler{
		assets:      assets,
		parts:       parts,
		itemTimeout: DefaultItemTimeout,
	}
}

// WithItemTimeout overrides the per-item deadline. Zero disables it.
func (r *Reconciler) WithItemTimeout(d time.Duration) *Reconciler {
	r.itemTimeout = d
	return r
}

func (r *Reconciler) itemContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.itemTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.itemTimeout)
}

// SyncAssetBOMToParts takes an asset's BOM as authoritative and upserts a
// reciprocal linkedAssets entry on every referenced part. Per-item failures
// are recorded and never abort the batch.
func (r *Reconciler) SyncAssetBOMToParts(ctx context.Context, req AssetSyncRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	res := &Result{}
	for _, item := range req.PartsBOM {
		r.syncBOMLine(ctx, req, item, res)
	}
	res.finalize()
	return res, nil
}

func (r *Reconciler) syncBOMLine(ctx context.Context, req AssetSyncRequest, item models.BOMItem, res *Result) {
	if item.PartID.IsZero() {
		res.Errors = append(res.Errors, ItemError{Item: item.PartNumber, Reason: "missing part id"})
		return
	}

	ictx, cancel := r.itemContext(ctx)
	defer cancel()

	part, err := r.parts.GetPart(ictx, item.PartID)
	if errors.Is(err, ErrNotFound) {
		log.Printf("bom sync: part %s not found, skipping", item.PartID.Hex())
		res.SkippedItems++
		return
	}
	if err != nil {
		res.Errors = append(res.Errors, ItemError{Item: item.PartID.Hex(), Reason: err.Error()})
		return
	}

	changed, renamed := false, false
	found := false
	for i := range part.LinkedAssets {
		link := &part.LinkedAssets[i]
		if link.AssetID != req.AssetID {
			continue
		}
		found = true
		if link.QuantityInAsset != item.QuantityRequired {
			link.QuantityInAsset = item.QuantityRequired
			changed = true
		}
		if link.AssetDepartment != req.Department {
			link.AssetDepartment = req.Department
			changed = true
		}
		if link.AssetName != req.AssetName {
			link.AssetName = req.AssetName
			renamed = true
		}
		break
	}
	if !found {
		part.LinkedAssets = append(part.LinkedAssets, models.AssetLink{
			AssetID:         req.AssetID,
			AssetName:       req.AssetName,
			AssetDepartment: req.Department,
			QuantityInAsset: item.QuantityRequired,
		})
		changed = true
	}

	if !changed && !renamed {
		res.SkippedItems++
		return
	}

	if err := r.parts.UpdatePartLinks(ictx, part.ID, part.LinkedAssets); err != nil {
		res.Errors = append(res.Errors, ItemError{Item: item.PartID.Hex(), Reason: err.Error()})
		return
	}

	// Quantity or department differences count as synced; a name-only
	// refresh is persisted but still classified as a skip.
	if changed {
		res.SyncedItems++
	} else {
		res.SkippedItems++
	}
}

// SyncPartLinksToAssetBOM is the mirror direction: a part's linked-asset
// list is authoritative and every referenced asset's BOM line is upserted.
func (r *Reconciler) SyncPartLinksToAssetBOM(ctx context.Context, req PartSyncRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	res := &Result{}
	for _, link := range req.LinkedAssets {
		r.syncAssetLink(ctx, req, link, res)
	}
	res.finalize()
	return res, nil
}

func (r *Reconciler) syncAssetLink(ctx context.Context, req PartSyncRequest, link models.AssetLink, res *Result) {
	if link.AssetID.IsZero() {
		res.Errors = append(res.Errors, ItemError{Item: link.AssetName, Reason: "missing asset id"})
		return
	}

	ictx, cancel := r.itemContext(ctx)
	defer cancel()

	asset, err := r.assets.GetAsset(ictx, link.AssetID)
	if errors.Is(err, ErrNotFound) {
		log.Printf("bom sync: asset %s not found, skipping", link.AssetID.Hex())
		res.SkippedItems++
		return
	}
	if err != nil {
		res.Errors = append(res.Errors, ItemError{Item: link.AssetID.Hex(), Reason: err.Error()})
		return
	}

	changed, renamed := false, false
	found := false
	for i := range asset.PartsBOM {
		line := &asset.PartsBOM[i]
		if line.PartID != req.PartID {
			continue
		}
		found = true
		if line.QuantityRequired != link.QuantityInAsset {
			line.QuantityRequired = link.QuantityInAsset
			changed = true
		}
		if line.Department != req.Department {
			line.Department = req.Department
			changed = true
		}
		if line.PartNumber != req.PartNumber {
			line.PartNumber = req.PartNumber
			renamed = true
		}
		if line.PartName != req.PartName {
			line.PartName = req.PartName
			renamed = true
		}
		break
	}
	if !found {
		asset.PartsBOM = append(asset.PartsBOM, models.BOMItem{
			PartID:           req.PartID,
			PartNumber:       req.PartNumber,
			PartName:         req.PartName,
			QuantityRequired: link.QuantityInAsset,
			Department:       req.Department,
		})
		changed = true
	}

	if !changed && !renamed {
		res.SkippedItems++
		return
	}

	if err := r.assets.UpdateAssetBOM(ictx, asset.ID, asset.PartsBOM); err != nil {
		res.Errors = append(res.Errors, ItemError{Item: link.AssetID.Hex(), Reason: err.Error()})
		return
	}

	if changed {
		res.SyncedItems++
	} else {
		res.SkippedItems++
	}
}

package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Karthick1242004/cmms-sub009/models"
)

type fakePartRepo struct {
	parts      map[primitive.ObjectID]*models.Part
	updates    int
	failGet    map[primitive.ObjectID]error
	failUpdate map[primitive.ObjectID]error
}

func newFakePartRepo(parts ...*models.Part) *fakePartRepo {
	repo := &fakePartRepo{
		parts:      make(map[primitive.ObjectID]*models.Part),
		failGet:    make(map[primitive.ObjectID]error),
		failUpdate: make(map[primitive.ObjectID]error),
	}
	for _, p := range parts {
		repo.parts[p.ID] = p
	}
	return repo
}

func (f *fakePartRepo) GetPart(ctx context.Context, id primitive.ObjectID) (*models.Part, error) {
	if err, ok := f.failGet[id]; ok {
		return nil, err
	}
	p, ok := f.parts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	cp.LinkedAssets = append([]models.AssetLink(nil), p.LinkedAssets...)
	return &cp, nil
}

func (f *fakePartRepo) UpdatePartLinks(ctx context.Context, id primitive.ObjectID, links []models.AssetLink) error {
	if err, ok := f.failUpdate[id]; ok {
		return err
	}
	p, ok := f.parts[id]
	if !ok {
		return ErrNotFound
	}
	p.LinkedAssets = links
	f.updates++
	return nil
}

type fakeAssetRepo struct {
	assets  map[primitive.ObjectID]*models.Asset
	updates int
}

func newFakeAssetRepo(assets ...*models.Asset) *fakeAssetRepo {
	repo := &fakeAssetRepo{assets: make(map[primitive.ObjectID]*models.Asset)}
	for _, a := range assets {
		repo.assets[a.ID] = a
	}
	return repo
}

func (f *fakeAssetRepo) GetAsset(ctx context.Context, id primitive.ObjectID) (*models.Asset, error) {
	a, ok := f.assets[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	cp.PartsBOM = append([]models.BOMItem(nil), a.PartsBOM...)
	return &cp, nil
}

func (f *fakeAssetRepo) UpdateAssetBOM(ctx context.Context, id primitive.ObjectID, bom []models.BOMItem) error {
	a, ok := f.assets[id]
	if !ok {
		return ErrNotFound
	}
	a.PartsBOM = bom
	f.updates++
	return nil
}

func newTestReconciler(assets *fakeAssetRepo, parts *fakePartRepo) *Reconciler {
	if assets == nil {
		assets = newFakeAssetRepo()
	}
	if parts == nil {
		parts = newFakePartRepo()
	}
	return NewReconciler(assets, parts)
}

func TestSyncAssetBOMToParts_CreatesReciprocalLink(t *testing.T) {
	assetID := primitive.NewObjectID()
	part := &models.Part{
		ID:         primitive.NewObjectID(),
		PartNumber: "P1",
		Name:       "Bearing",
		Department: "maintenance",
	}
	parts := newFakePartRepo(part)
	r := newTestReconciler(nil, parts)

	req := AssetSyncRequest{
		AssetID:    assetID,
		AssetName:  "Conveyor A1",
		Department: "maintenance",
		PartsBOM:   []models.BOMItem{{PartID: part.ID, QuantityRequired: 4}},
	}

	res, err := r.SyncAssetBOMToParts(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, 1, res.SyncedItems)
	assert.Equal(t, 0, res.SkippedItems)
	assert.Empty(t, res.Errors)

	stored := parts.parts[part.ID]
	require.Len(t, stored.LinkedAssets, 1)
	assert.Equal(t, assetID, stored.LinkedAssets[0].AssetID)
	assert.Equal(t, "Conveyor A1", stored.LinkedAssets[0].AssetName)
	assert.Equal(t, "maintenance", stored.LinkedAssets[0].AssetDepartment)
	assert.Equal(t, 4, stored.LinkedAssets[0].QuantityInAsset)

	// Second identical run is an idempotent no-op.
	res, err = r.SyncAssetBOMToParts(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 0, res.SyncedItems)
	assert.Equal(t, 1, res.SkippedItems)
	assert.Equal(t, 1, parts.updates, "second run must not write")
}

func TestSyncAssetBOMToParts_QuantityChangeTriggersWrite(t *testing.T) {
	assetID := primitive.NewObjectID()
	part := &models.Part{
		ID: primitive.NewObjectID(),
		LinkedAssets: []models.AssetLink{
			{AssetID: assetID, AssetName: "Pump 7", AssetDepartment: "facilities", QuantityInAsset: 2},
		},
	}
	parts := newFakePartRepo(part)
	r := newTestReconciler(nil, parts)

	res, err := r.SyncAssetBOMToParts(context.Background(), AssetSyncRequest{
		AssetID:    assetID,
		AssetName:  "Pump 7",
		Department: "facilities",
		PartsBOM:   []models.BOMItem{{PartID: part.ID, QuantityRequired: 5}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.SyncedItems)
	assert.Equal(t, 5, parts.parts[part.ID].LinkedAssets[0].QuantityInAsset)
}

func TestSyncAssetBOMToParts_NameOnlyChangeIsSkippedButPersisted(t *testing.T) {
	assetID := primitive.NewObjectID()
	part := &models.Part{
		ID: primitive.NewObjectID(),
		LinkedAssets: []models.AssetLink{
			{AssetID: assetID, AssetName: "Old Name", AssetDepartment: "facilities", QuantityInAsset: 2},
		},
	}
	parts := newFakePartRepo(part)
	r := newTestReconciler(nil, parts)

	res, err := r.SyncAssetBOMToParts(context.Background(), AssetSyncRequest{
		AssetID:    assetID,
		AssetName:  "New Name",
		Department: "facilities",
		PartsBOM:   []models.BOMItem{{PartID: part.ID, QuantityRequired: 2}},
	})
	require.NoError(t, err)

	// Quantity and department are unchanged so the item counts as skipped,
	// but the rename still propagates to the stored entry.
	assert.Equal(t, 0, res.SyncedItems)
	assert.Equal(t, 1, res.SkippedItems)
	assert.Equal(t, "New Name", parts.parts[part.ID].LinkedAssets[0].AssetName)
	assert.Equal(t, 1, parts.updates)
}

func TestSyncAssetBOMToParts_MissingPartIsSoftSkip(t *testing.T) {
	part := &models.Part{ID: primitive.NewObjectID()}
	parts := newFakePartRepo(part)
	r := newTestReconciler(nil, parts)

	res, err := r.SyncAssetBOMToParts(context.Background(), AssetSyncRequest{
		AssetID:    primitive.NewObjectID(),
		AssetName:  "Press 3",
		Department: "production",
		PartsBOM: []models.BOMItem{
			{PartID: primitive.NewObjectID(), QuantityRequired: 1}, // unknown part
			{PartID: part.ID, QuantityRequired: 3},                 // valid part
		},
	})
	require.NoError(t, err)

	assert.True(t, res.Success, "skips are not failures")
	assert.Equal(t, 1, res.SyncedItems)
	assert.Equal(t, 1, res.SkippedItems)
	assert.Empty(t, res.Errors)
	assert.Len(t, parts.parts[part.ID].LinkedAssets, 1)
}

func TestSyncAssetBOMToParts_ItemErrorDoesNotAbortBatch(t *testing.T) {
	broken := &models.Part{ID: primitive.NewObjectID()}
	healthy := &models.Part{ID: primitive.NewObjectID()}
	parts := newFakePartRepo(broken, healthy)
	parts.failGet[broken.ID] = errors.New("connection reset")
	r := newTestReconciler(nil, parts)

	res, err := r.SyncAssetBOMToParts(context.Background(), AssetSyncRequest{
		AssetID:    primitive.NewObjectID(),
		AssetName:  "Crane 2",
		Department: "logistics",
		PartsBOM: []models.BOMItem{
			{PartID: broken.ID, QuantityRequired: 1},
			{PartID: healthy.ID, QuantityRequired: 2},
		},
	})
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, 1, res.SyncedItems, "healthy item still processed")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, broken.ID.Hex(), res.Errors[0].Item)
	assert.Contains(t, res.Errors[0].Reason, "connection reset")
}

func TestSyncAssetBOMToParts_WriteFailureRecordedPerItem(t *testing.T) {
	assetID := primitive.NewObjectID()
	part := &models.Part{ID: primitive.NewObjectID()}
	parts := newFakePartRepo(part)
	parts.failUpdate[part.ID] = errors.New("write conflict")
	r := newTestReconciler(nil, parts)

	res, err := r.SyncAssetBOMToParts(context.Background(), AssetSyncRequest{
		AssetID:    assetID,
		AssetName:  "Mixer 1",
		Department: "production",
		PartsBOM:   []models.BOMItem{{PartID: part.ID, QuantityRequired: 1}},
	})
	require.NoError(t, err)

	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Reason, "write conflict")
}

func TestSyncAssetBOMToParts_MalformedItemRecordedAsError(t *testing.T) {
	part := &models.Part{ID: primitive.NewObjectID()}
	parts := newFakePartRepo(part)
	r := newTestReconciler(nil, parts)

	res, err := r.SyncAssetBOMToParts(context.Background(), AssetSyncRequest{
		AssetID:    primitive.NewObjectID(),
		AssetName:  "Lathe 4",
		Department: "production",
		PartsBOM: []models.BOMItem{
			{PartNumber: "ORPHAN", QuantityRequired: 1}, // no part id
			{PartID: part.ID, QuantityRequired: 2},
		},
	})
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, 1, res.SyncedItems)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "ORPHAN", res.Errors[0].Item)
}

func TestSyncAssetBOMToParts_ValidationFailsBeforeBatch(t *testing.T) {
	parts := newFakePartRepo(&models.Part{ID: primitive.NewObjectID()})
	r := newTestReconciler(nil, parts)

	_, err := r.SyncAssetBOMToParts(context.Background(), AssetSyncRequest{
		AssetID:   primitive.NewObjectID(),
		AssetName: "No Department",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 0, parts.updates, "no writes before validation passes")
}

func TestSyncAssetBOMToParts_EmptyBOMSucceeds(t *testing.T) {
	r := newTestReconciler(nil, nil)

	res, err := r.SyncAssetBOMToParts(context.Background(), AssetSyncRequest{
		AssetID:    primitive.NewObjectID(),
		AssetName:  "Empty",
		Department: "facilities",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 0, res.SyncedItems)
	assert.Equal(t, 0, res.SkippedItems)
	assert.NotNil(t, res.Errors)
}

func TestSyncPartLinksToAssetBOM_Mirror(t *testing.T) {
	partID := primitive.NewObjectID()
	asset := &models.Asset{
		ID:         primitive.NewObjectID(),
		Name:       "Generator 1",
		Department: "facilities",
	}
	assets := newFakeAssetRepo(asset)
	r := newTestReconciler(assets, nil)

	req := PartSyncRequest{
		PartID:     partID,
		PartNumber: "FLT-100",
		PartName:   "Oil Filter",
		Department: "facilities",
		LinkedAssets: []models.AssetLink{
			{AssetID: asset.ID, QuantityInAsset: 2},
		},
	}

	res, err := r.SyncPartLinksToAssetBOM(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, 1, res.SyncedItems)

	stored := assets.assets[asset.ID]
	require.Len(t, stored.PartsBOM, 1)
	assert.Equal(t, partID, stored.PartsBOM[0].PartID)
	assert.Equal(t, "FLT-100", stored.PartsBOM[0].PartNumber)
	assert.Equal(t, "Oil Filter", stored.PartsBOM[0].PartName)
	assert.Equal(t, 2, stored.PartsBOM[0].QuantityRequired)
	assert.Equal(t, "facilities", stored.PartsBOM[0].Department)

	// Idempotence in the mirror direction too.
	res, err = r.SyncPartLinksToAssetBOM(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, res.SyncedItems)
	assert.Equal(t, 1, res.SkippedItems)
	assert.Equal(t, 1, assets.updates)
}

func TestSyncPartLinksToAssetBOM_UpdatesExistingLine(t *testing.T) {
	partID := primitive.NewObjectID()
	asset := &models.Asset{
		ID: primitive.NewObjectID(),
		PartsBOM: []models.BOMItem{
			{PartID: partID, PartNumber: "FLT-100", PartName: "Oil Filter", QuantityRequired: 2, Department: "facilities"},
		},
	}
	assets := newFakeAssetRepo(asset)
	r := newTestReconciler(assets, nil)

	res, err := r.SyncPartLinksToAssetBOM(context.Background(), PartSyncRequest{
		PartID:     partID,
		PartNumber: "FLT-100",
		PartName:   "Oil Filter",
		Department: "maintenance", // department moved
		LinkedAssets: []models.AssetLink{
			{AssetID: asset.ID, QuantityInAsset: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.SyncedItems)
	assert.Equal(t, "maintenance", assets.assets[asset.ID].PartsBOM[0].Department)
}

func TestSyncPartLinksToAssetBOM_MissingAssetIsSoftSkip(t *testing.T) {
	r := newTestReconciler(newFakeAssetRepo(), nil)

	res, err := r.SyncPartLinksToAssetBOM(context.Background(), PartSyncRequest{
		PartID:     primitive.NewObjectID(),
		PartNumber: "BRG-7",
		PartName:   "Bearing",
		Department: "production",
		LinkedAssets: []models.AssetLink{
			{AssetID: primitive.NewObjectID(), QuantityInAsset: 1},
		},
	})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, 0, res.SyncedItems)
	assert.Equal(t, 1, res.SkippedItems)
}

func TestRequestValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     AssetSyncRequest
		wantErr bool
	}{
		{
			name: "valid",
			req: AssetSyncRequest{
				AssetID:    primitive.NewObjectID(),
				AssetName:  "A",
				Department: "d",
			},
		},
		{
			name:    "zero id",
			req:     AssetSyncRequest{AssetName: "A", Department: "d"},
			wantErr: true,
		},
		{
			name:    "blank name",
			req:     AssetSyncRequest{AssetID: primitive.NewObjectID(), AssetName: "  ", Department: "d"},
			wantErr: true,
		},
		{
			name:    "missing department",
			req:     AssetSyncRequest{AssetID: primitive.NewObjectID(), AssetName: "A"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPartRequestValidation(t *testing.T) {
	valid := PartSyncRequest{
		PartID:     primitive.NewObjectID(),
		PartNumber: "P",
		PartName:   "Part",
		Department: "d",
	}
	assert.NoError(t, valid.Validate())

	noNumber := valid
	noNumber.PartNumber = ""
	assert.ErrorIs(t, noNumber.Validate(), ErrValidation)

	noDept := valid
	noDept.Department = " "
	assert.ErrorIs(t, noDept.Validate(), ErrValidation)
}

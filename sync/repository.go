// sync/repository.go
package sync

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Karthick1242004/cmms-sub009/models"
)

// ErrNotFound is returned by repositories when the counterpart record does
// not exist. The reconciler treats it as a soft skip, never an abort.
var ErrNotFound = errors.New("record not found")

// AssetRepository is the reconciler's view of asset storage. The Mongo
// adapter reads the collection directly; the HTTP adapter re-enters the
// public CRUD endpoints. The reconciler itself does not care which.
type AssetRepository interface {
	GetAsset(ctx context.Context, id primitive.ObjectID) (*models.Asset, error)
	UpdateAssetBOM(ctx context.Context, id primitive.ObjectID, bom []models.BOMItem) error
}

// PartRepository is the reconciler's view of part storage.
type PartRepository interface {
	GetPart(ctx context.Context, id primitive.ObjectID) (*models.Part, error)
	UpdatePartLinks(ctx context.Context, id primitive.ObjectID, links []models.AssetLink) error
}

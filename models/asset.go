// models/asset.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BOMItem is one line of an asset's bill of materials. The reciprocal
// view lives in Part.LinkedAssets and is kept aligned by the sync package.
type BOMItem struct {
	PartID           primitive.ObjectID `bson:"partId" json:"partId"`
	PartNumber       string             `bson:"partNumber" json:"partNumber"`
	PartName         string             `bson:"partName" json:"partName"`
	QuantityRequired int                `bson:"quantityRequired" json:"quantityRequired"`
	Department       string             `bson:"department" json:"department"`
}

type Asset struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	AssetTag     string             `bson:"assetTag,omitempty" json:"assetTag,omitempty"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Category     string             `bson:"category" json:"category"`
	Department   string             `bson:"department" json:"department"`
	Location     string             `bson:"location,omitempty" json:"location,omitempty"`
	Manufacturer string             `bson:"manufacturer,omitempty" json:"manufacturer,omitempty"`
	SerialNumber string             `bson:"serialNumber,omitempty" json:"serialNumber,omitempty"`
	Status       string             `bson:"status" json:"status"` // operational, maintenance, out_of_service, retired
	PurchaseDate *time.Time         `bson:"purchaseDate,omitempty" json:"purchaseDate,omitempty"`
	PartsBOM     []BOMItem          `bson:"partsBOM" json:"partsBOM"`
	CreatedBy    primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Asset status values
const (
	AssetStatusOperational  = "operational"
	AssetStatusMaintenance  = "maintenance"
	AssetStatusOutOfService = "out_of_service"
	AssetStatusRetired      = "retired"
)

func ValidAssetStatus(status string) bool {
	switch status {
	case AssetStatusOperational, AssetStatusMaintenance, AssetStatusOutOfService, AssetStatusRetired:
		return true
	}
	return false
}

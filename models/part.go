// models/part.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssetLink is one entry of a part's linked-asset list, the reciprocal
// view of Asset.PartsBOM.
type AssetLink struct {
	AssetID              primitive.ObjectID `bson:"assetId" json:"assetId"`
	AssetName            string             `bson:"assetName" json:"assetName"`
	AssetDepartment      string             `bson:"assetDepartment" json:"assetDepartment"`
	QuantityInAsset      int                `bson:"quantityInAsset" json:"quantityInAsset"`
	LastUsed             *time.Time         `bson:"lastUsed,omitempty" json:"lastUsed,omitempty"`
	ReplacementFrequency int                `bson:"replacementFrequency,omitempty" json:"replacementFrequency,omitempty"` // days
	CriticalLevel        string             `bson:"criticalLevel,omitempty" json:"criticalLevel,omitempty"`               // low, medium, high
}

type Part struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PartNumber    string             `bson:"partNumber" json:"partNumber"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Category      string             `bson:"category" json:"category"`
	Department    string             `bson:"department" json:"department"`
	Supplier      string             `bson:"supplier,omitempty" json:"supplier,omitempty"`
	StockQuantity int                `bson:"stockQuantity" json:"stockQuantity"`
	MinStockLevel int                `bson:"minStockLevel" json:"minStockLevel"`
	UnitCost      float64            `bson:"unitCost" json:"unitCost"`
	StockStatus   string             `bson:"stockStatus" json:"stockStatus"` // derived
	TotalValue    float64            `bson:"totalValue" json:"totalValue"`   // derived
	LinkedAssets  []AssetLink        `bson:"linkedAssets" json:"linkedAssets"`
	CreatedBy     primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Stock status values derived from quantity vs minimum level
const (
	StockStatusInStock    = "in_stock"
	StockStatusLowStock   = "low_stock"
	StockStatusOutOfStock = "out_of_stock"
)

// ComputeDerivedFields recomputes stockStatus and totalValue. Must be
// called before every insert or replace so the stored document never
// carries stale derived values.
func (p *Part) ComputeDerivedFields() {
	switch {
	case p.StockQuantity <= 0:
		p.StockStatus = StockStatusOutOfStock
	case p.StockQuantity <= p.MinStockLevel:
		p.StockStatus = StockStatusLowStock
	default:
		p.StockStatus = StockStatusInStock
	}
	p.TotalValue = float64(p.StockQuantity) * p.UnitCost
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeDerivedFields(t *testing.T) {
	cases := []struct {
		name       string
		qty        int
		minLevel   int
		unitCost   float64
		wantStatus string
		wantValue  float64
	}{
		{"in stock", 50, 10, 2.5, StockStatusInStock, 125},
		{"exactly at min is low", 10, 10, 1, StockStatusLowStock, 10},
		{"below min is low", 3, 10, 4, StockStatusLowStock, 12},
		{"zero is out", 0, 10, 9.99, StockStatusOutOfStock, 0},
		{"negative is out", -2, 0, 5, StockStatusOutOfStock, -10},
		{"zero min level", 1, 0, 7, StockStatusInStock, 7},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := Part{StockQuantity: c.qty, MinStockLevel: c.minLevel, UnitCost: c.unitCost}
			p.ComputeDerivedFields()
			assert.Equal(t, c.wantStatus, p.StockStatus)
			assert.InDelta(t, c.wantValue, p.TotalValue, 1e-9)
		})
	}
}

func TestComputeDerivedFieldsOverwritesStale(t *testing.T) {
	p := Part{StockQuantity: 100, MinStockLevel: 5, UnitCost: 1, StockStatus: StockStatusOutOfStock, TotalValue: -1}
	p.ComputeDerivedFields()
	assert.Equal(t, StockStatusInStock, p.StockStatus)
	assert.Equal(t, float64(100), p.TotalValue)
}

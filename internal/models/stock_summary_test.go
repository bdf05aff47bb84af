package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLowStockBoundaryIsInclusive(t *testing.T) {
	material := &Material{MinStock: 100}

	cases := []struct {
		name         string
		currentStock float64
		want         bool
	}{
		{"well above threshold", 150, false},
		{"just above threshold", 100.01, false},
		{"exactly at threshold", 100, true},
		{"below threshold", 70, true},
		{"negative stock", -5, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &StockSummary{CurrentStock: tc.currentStock, Material: material}
			assert.Equal(t, tc.want, s.LowStock())
		})
	}
}

func TestLowStockNeverFlagsWithoutThreshold(t *testing.T) {
	s := &StockSummary{CurrentStock: -10, Material: &Material{MinStock: 0}}
	assert.False(t, s.LowStock())

	// No item loaded at all.
	s = &StockSummary{CurrentStock: -10}
	assert.False(t, s.LowStock())
}

func TestLowStockUsesProductThreshold(t *testing.T) {
	s := &StockSummary{CurrentStock: 3, Product: &Product{MinStock: 5}}
	assert.True(t, s.LowStock())
}

package models

import "time"

// StockSummary holds the authoritative running stock balance per barcode.
// CurrentStock equals the sum of inbound quantities minus the sum of
// outbound quantities since the row was created. Rows are created lazily on
// the first transaction for a barcode and updated with an atomic SQL
// increment afterwards. CurrentStock may go negative; outbound is never
// rejected for insufficient stock.
type StockSummary struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Barcode      string  `gorm:"size:50;uniqueIndex;not null" json:"barcode"`
	CurrentStock float64 `gorm:"not null;default:0" json:"currentStock"`
	Unit         string  `gorm:"size:20;not null" json:"unit"`

	MaterialID *uint     `json:"materialId"`
	Material   *Material `json:"material,omitempty"`
	ProductID  *uint     `json:"productId"`
	Product    *Product  `json:"product,omitempty"`

	LastInbound  *time.Time `json:"lastInbound"`
	LastOutbound *time.Time `json:"lastOutbound"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// MinStock returns the threshold of the owning item, 0 when the summary is
// not linked to a loaded item.
func (s *StockSummary) MinStock() float64 {
	if s.Material != nil {
		return s.Material.MinStock
	}
	if s.Product != nil {
		return s.Product.MinStock
	}
	return 0
}

// LowStock reports whether the item is at or below its threshold. Items
// without a positive MinStock are never flagged.
func (s *StockSummary) LowStock() bool {
	min := s.MinStock()
	return min > 0 && s.CurrentStock <= min
}

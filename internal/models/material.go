package models

import "time"

// Material is a raw input item tracked by barcode. The barcode is the join
// key for stock tracking and is immutable after creation.
type Material struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Barcode     string    `gorm:"size:50;uniqueIndex;not null" json:"barcode"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	Unit        string    `gorm:"size:20;not null" json:"unit"` // kg, pcs, box
	MinStock    float64   `gorm:"not null;default:0" json:"minStock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

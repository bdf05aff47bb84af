package models

import "time"

// Product is a finished good tracked by barcode, mirror of Material on the
// output side of production.
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Barcode     string    `gorm:"size:50;uniqueIndex;not null" json:"barcode"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	Unit        string    `gorm:"size:20;not null" json:"unit"`
	MinStock    float64   `gorm:"not null;default:0" json:"minStock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

package models

import "time"

// WeighingRecord is the append-only reweigh history of a transaction.
type WeighingRecord struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TransactionID uint      `gorm:"index;not null" json:"transactionId"`
	Weight        float64   `gorm:"not null" json:"weight"`
	WeighedBy     string    `gorm:"size:100" json:"weighedBy"`
	Notes         string    `gorm:"size:255" json:"notes"`
	WeighedAt     time.Time `gorm:"not null" json:"weighedAt"`
}

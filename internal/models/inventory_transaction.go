package models

import "time"

type TransactionType string

const (
	TransactionInbound  TransactionType = "INBOUND"
	TransactionOutbound TransactionType = "OUTBOUND"
)

type ItemType string

const (
	ItemMaterial ItemType = "MATERIAL"
	ItemProduct  ItemType = "PRODUCT"
)

// InventoryTransaction is one recorded inbound or outbound movement.
// Immutable after creation except CurrentWeight/Shrinkage, which change
// through reweighing only.
type InventoryTransaction struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	TransactionNo string          `gorm:"size:30;uniqueIndex;not null" json:"transactionNo"`
	Type          TransactionType `gorm:"size:10;not null;index" json:"type"`
	ItemType      ItemType        `gorm:"size:10;not null" json:"itemType"`
	Barcode       string          `gorm:"size:50;not null;index" json:"barcode"`

	// Exactly one of MaterialID/ProductID is set, consistent with ItemType.
	MaterialID *uint     `json:"materialId"`
	Material   *Material `json:"material,omitempty"`
	ProductID  *uint     `json:"productId"`
	Product    *Product  `json:"product,omitempty"`

	Quantity float64 `gorm:"not null" json:"quantity"`
	Unit     string  `gorm:"size:20;not null" json:"unit"`

	InitialWeight *float64 `json:"initialWeight"`
	CurrentWeight *float64 `json:"currentWeight"`
	Shrinkage     *float64 `json:"shrinkage"`

	ReferenceNo string `gorm:"size:50" json:"referenceNo"`
	Supplier    string `gorm:"size:100" json:"supplier"`
	Destination string `gorm:"size:100" json:"destination"`
	Notes       string `gorm:"size:255" json:"notes"`

	UserID *uint `gorm:"index" json:"userId"`
	User   *User `json:"user,omitempty"`

	WeighingRecords []WeighingRecord `gorm:"foreignKey:TransactionID" json:"weighingRecords,omitempty"`

	TransactionDate time.Time `gorm:"index;not null" json:"transactionDate"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

package models

import "time"

type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
)

// AuditLog is an append-only record of mutations on managed entities,
// capturing before/after snapshots as JSON.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	// Acting user.
	UserID uint `gorm:"index" json:"userId"`

	Action   AuditAction `gorm:"size:20;not null" json:"action"`
	Entity   string      `gorm:"size:50;index;not null" json:"entity"`
	EntityID uint        `gorm:"index" json:"entityId"`

	// Snapshots before and after the change (JSON, "null" when absent).
	OldValue string `gorm:"type:jsonb" json:"oldValue"`
	NewValue string `gorm:"type:jsonb" json:"newValue"`

	IPAddress string `gorm:"size:45" json:"ipAddress"`
	UserAgent string `gorm:"size:255" json:"userAgent"`
}

package audit

import (
	"encoding/json"
	"fmt"

	"warehouse-backend/internal/models"

	"gorm.io/gorm"
)

type LogOptions struct {
	UserID    uint
	Action    models.AuditAction
	Entity    string
	EntityID  uint
	Before    any
	After     any
	IPAddress string
	UserAgent string
}

// WriteLog appends one audit record. Snapshots are stored as JSON; a nil
// snapshot is stored as the JSON null literal for the jsonb column.
func WriteLog(db *gorm.DB, opts LogOptions) error {
	oldStr := "null"
	newStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			oldStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			newStr = string(b)
		}
	}

	entry := models.AuditLog{
		UserID:    opts.UserID,
		Action:    opts.Action,
		Entity:    opts.Entity,
		EntityID:  opts.EntityID,
		OldValue:  oldStr,
		NewValue:  newStr,
		IPAddress: opts.IPAddress,
		UserAgent: opts.UserAgent,
	}

	if err := db.Create(&entry).Error; err != nil {
		return fmt.Errorf("audit log write failed: %w", err)
	}
	return nil
}

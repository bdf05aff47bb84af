package models

import "time"

type UserRole string

const (
	RoleAdmin            UserRole = "ADMIN"
	RoleWarehouseManager UserRole = "WAREHOUSE_MANAGER"
	RoleOperator         UserRole = "OPERATOR"
	RoleViewer           UserRole = "VIEWER"
)

// ValidRole reports whether s is one of the known roles.
func ValidRole(s string) bool {
	switch UserRole(s) {
	case RoleAdmin, RoleWarehouseManager, RoleOperator, RoleViewer:
		return true
	}
	return false
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         UserRole  `gorm:"size:30;not null" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

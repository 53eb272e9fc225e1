package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/uniuri"
)

// Role represents a role in the role-based access control (RBAC) system.
// Roles carry per-module permission rows and are assigned to users.
// Examples include "Administrator", "Property Manager" and "Viewer" roles.
type Role struct {
	// ID is the unique identifier for the role: 24 lowercase hex characters.
	ID string `gorm:"primaryKey;size:24"`
	// Name is the unique name of the role (e.g., "Administrator").
	Name string `gorm:"unique;size:100;not null"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:255"`
	// Active indicates whether the role participates in authorization.
	// Inactive roles are skipped entirely during role-module evaluation.
	Active bool `gorm:"default:true"`
	// IsSystem indicates if this is a system role that cannot be deleted.
	IsSystem bool `gorm:"default:false"`
	// CustomerID scopes the role to a customer organisation; empty for system roles.
	CustomerID string `gorm:"size:24;index"`
	// Permissions are the per-module permission rows configured for this role.
	// A module without a row means no access via this role.
	Permissions []ModulePermission `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time
}

// BeforeCreate assigns a fresh 24-hex identifier when none was provided.
func (r *Role) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uniuri.NewEntityID()
	}

	return nil
}

// TableName specifies the database table name for the Role model.
// This overrides GORM's default pluralized table naming.
func (Role) TableName() string {
	return "roles"
}

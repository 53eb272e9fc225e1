package models

import "time"

// ModulePermission represents a role-wide permission row for one module.
// The four flags apply to every instance of the module's resource type and
// serve as the fallback when no resource-specific grant exists.
type ModulePermission struct {
	// ID is the unique identifier for the permission row.
	ID uint `gorm:"primaryKey"`
	// RoleID is the role this permission row belongs to.
	RoleID string `gorm:"size:24;not null;uniqueIndex:idx_role_module"`
	// ModuleName is the module the flags apply to (e.g., "buildings").
	ModuleName string `gorm:"size:100;not null;uniqueIndex:idx_role_module"`
	// CanView allows viewing instances of the module.
	CanView bool
	// CanCreate allows creating instances of the module.
	CanCreate bool
	// CanEdit allows editing instances of the module.
	CanEdit bool
	// CanDelete allows deleting instances of the module.
	CanDelete bool
	// CreatedAt is the timestamp when the row was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the row was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the ModulePermission model.
func (ModulePermission) TableName() string {
	return "module_permissions"
}

// Flag reports whether the row grants the given permission flag.
func (mp *ModulePermission) Flag(flag string) bool {
	switch flag {
	case "can_view":
		return mp.CanView
	case "can_create":
		return mp.CanCreate
	case "can_edit":
		return mp.CanEdit
	case "can_delete":
		return mp.CanDelete
	default:
		return false
	}
}

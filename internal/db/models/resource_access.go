package models

import "time"

// ResourceAccess represents a per-user, per-resource-instance override of
// permission flags. A matching entry is authoritative: it can grant access a
// user's roles would deny, or block access a role would otherwise allow.
// The resource id is an opaque string so entries can also name resource
// instances that are not database rows.
type ResourceAccess struct {
	// ID is the unique identifier for the entry.
	ID uint `gorm:"primaryKey"`
	// UserID is the user this entry belongs to.
	UserID string `gorm:"size:24;not null;uniqueIndex:idx_user_resource"`
	// ResourceType is the resource type the entry targets (e.g., "building").
	ResourceType string `gorm:"size:100;not null;uniqueIndex:idx_user_resource"`
	// ResourceID is the opaque identifier of the resource instance.
	ResourceID string `gorm:"size:255;not null;uniqueIndex:idx_user_resource"`
	// CanView allows viewing the resource instance.
	CanView bool
	// CanCreate allows creating under the resource instance.
	CanCreate bool
	// CanEdit allows editing the resource instance.
	CanEdit bool
	// CanDelete allows deleting the resource instance.
	CanDelete bool
	// CreatedAt is the timestamp when the entry was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the entry was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the ResourceAccess model.
func (ResourceAccess) TableName() string {
	return "resource_access"
}

// Flag reports whether the entry grants the given permission flag.
func (ra *ResourceAccess) Flag(flag string) bool {
	switch flag {
	case "can_view":
		return ra.CanView
	case "can_create":
		return ra.CanCreate
	case "can_edit":
		return ra.CanEdit
	case "can_delete":
		return ra.CanDelete
	default:
		return false
	}
}

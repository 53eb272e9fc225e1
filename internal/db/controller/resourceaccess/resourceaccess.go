// Package resourceaccess provides CRUD operations for managing per-resource
// permission grants. A grant binds a user to one (resource type, resource id)
// pair with explicit permission flags; a grant with all flags false is an
// explicit deny that shadows any role permission for that resource.
package resourceaccess

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/db/models"
)

const (
	userQueryPattern     = "user_id = ?"
	resourceQueryPattern = "user_id = ? AND resource_type = ? AND resource_id = ?"
)

var (
	// ErrGrantNotFound is returned when a grant is not found.
	ErrGrantNotFound = errors.New("resource access grant not found")
	// ErrGrantAlreadyExists is returned when a grant already exists for the
	// same user and resource pair.
	ErrGrantAlreadyExists = errors.New("resource access grant already exists for this resource")
	// ErrResourceTypeEmpty is returned when the resource type is empty.
	ErrResourceTypeEmpty = errors.New("resource type cannot be empty")
	// ErrResourceIDEmpty is returned when the resource id is empty.
	ErrResourceIDEmpty = errors.New("resource id cannot be empty")
	// ErrUserIDEmpty is returned when the user id is empty.
	ErrUserIDEmpty = errors.New("user id cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves the grant for a user and resource pair.
func Get(db *gorm.DB, userID, resourceType, resourceID string) (*models.ResourceAccess, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if userID == "" {
		return nil, ErrUserIDEmpty
	}

	var grant models.ResourceAccess
	result := db.Where(resourceQueryPattern, userID, resourceType, resourceID).First(&grant)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrGrantNotFound
		}
		return nil, result.Error
	}

	return &grant, nil
}

// GetAllForUser retrieves all grants held by a user.
func GetAllForUser(db *gorm.DB, userID string) ([]models.ResourceAccess, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if userID == "" {
		return nil, ErrUserIDEmpty
	}

	var grants []models.ResourceAccess
	result := db.Where(userQueryPattern, userID).Find(&grants)
	if result.Error != nil {
		return nil, result.Error
	}

	return grants, nil
}

// Grant creates a new grant for a user and resource pair. At most one grant
// may exist per pair; callers wanting to change flags use Set instead.
func Grant(db *gorm.DB, userID, resourceType, resourceID string, canView, canCreate, canEdit, canDelete bool) (*models.ResourceAccess, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if userID == "" {
		return nil, ErrUserIDEmpty
	}
	if resourceType == "" {
		return nil, ErrResourceTypeEmpty
	}
	if resourceID == "" {
		return nil, ErrResourceIDEmpty
	}

	// Reject duplicates up front; the unique index backs this up.
	var existing models.ResourceAccess
	result := db.Where(resourceQueryPattern, userID, resourceType, resourceID).First(&existing)
	if result.Error == nil {
		return nil, ErrGrantAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	grant := &models.ResourceAccess{
		UserID:       userID,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		CanView:      canView,
		CanCreate:    canCreate,
		CanEdit:      canEdit,
		CanDelete:    canDelete,
	}

	result = db.Create(grant)
	if result.Error != nil {
		return nil, result.Error
	}

	return grant, nil
}

// Set creates or updates the grant for a user and resource pair (upsert).
func Set(db *gorm.DB, userID, resourceType, resourceID string, canView, canCreate, canEdit, canDelete bool) (*models.ResourceAccess, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if userID == "" {
		return nil, ErrUserIDEmpty
	}
	if resourceType == "" {
		return nil, ErrResourceTypeEmpty
	}
	if resourceID == "" {
		return nil, ErrResourceIDEmpty
	}

	var grant models.ResourceAccess
	result := db.Where(resourceQueryPattern, userID, resourceType, resourceID).First(&grant)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return Grant(db, userID, resourceType, resourceID, canView, canCreate, canEdit, canDelete)
	}
	if result.Error != nil {
		return nil, result.Error
	}

	grant.CanView = canView
	grant.CanCreate = canCreate
	grant.CanEdit = canEdit
	grant.CanDelete = canDelete

	result = db.Save(&grant)
	if result.Error != nil {
		return nil, result.Error
	}

	return &grant, nil
}

// Revoke removes the grant for a user and resource pair. Revoking is not the
// same as denying: after a revoke the user falls back to role permissions.
func Revoke(db *gorm.DB, userID, resourceType, resourceID string) error {
	if db == nil {
		return ErrDBNil
	}
	if userID == "" {
		return ErrUserIDEmpty
	}

	result := db.Where(resourceQueryPattern, userID, resourceType, resourceID).
		Delete(&models.ResourceAccess{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrGrantNotFound
	}

	return nil
}

// RevokeAllForUser removes every grant held by a user.
func RevokeAllForUser(db *gorm.DB, userID string) error {
	if db == nil {
		return ErrDBNil
	}
	if userID == "" {
		return ErrUserIDEmpty
	}

	result := db.Where(userQueryPattern, userID).Delete(&models.ResourceAccess{})
	if result.Error != nil {
		return result.Error
	}

	return nil
}

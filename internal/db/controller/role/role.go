// Package role provides CRUD operations for managing roles and their module
// permissions.
package role

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/db/models"
)

const (
	nameQueryPattern = "name = ?"
	idQueryPattern   = "id = ?"
)

var (
	// ErrRoleNotFound is returned when a role is not found.
	ErrRoleNotFound = errors.New("role not found")
	// ErrRoleNameEmpty is returned when attempting to create/update a role with an empty name.
	ErrRoleNameEmpty = errors.New("role name cannot be empty")
	// ErrRoleAlreadyExists is returned when attempting to create a role that already exists.
	ErrRoleAlreadyExists = errors.New("role already exists")
	// ErrRoleIsSystem is returned when attempting to delete a system role.
	ErrRoleIsSystem = errors.New("system roles cannot be deleted")
	// ErrModuleNameEmpty is returned when a permission names no module.
	ErrModuleNameEmpty = errors.New("module name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a role by its name, with module permissions preloaded.
func Get(db *gorm.DB, name string) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrRoleNameEmpty
	}

	var role models.Role
	result := db.Preload("Permissions").Where(nameQueryPattern, name).First(&role)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, result.Error
	}

	return &role, nil
}

// GetByID retrieves a role by its ID, with module permissions preloaded.
func GetByID(db *gorm.DB, id string) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var role models.Role
	result := db.Preload("Permissions").Where(idQueryPattern, id).First(&role)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, result.Error
	}

	return &role, nil
}

// GetAll retrieves all roles, with module permissions preloaded.
func GetAll(db *gorm.DB) ([]models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var roles []models.Role
	result := db.Preload("Permissions").Find(&roles)
	if result.Error != nil {
		return nil, result.Error
	}

	return roles, nil
}

// Create creates a new role with the given module permissions.
func Create(db *gorm.DB, name, description, customerID string, permissions []models.ModulePermission) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrRoleNameEmpty
	}

	for i := range permissions {
		if permissions[i].ModuleName == "" {
			return nil, ErrModuleNameEmpty
		}
	}

	// Check if role already exists
	var existing models.Role
	result := db.Where(nameQueryPattern, name).First(&existing)
	if result.Error == nil {
		return nil, ErrRoleAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	role := &models.Role{
		Name:        name,
		Description: description,
		Active:      true,
		CustomerID:  customerID,
		Permissions: permissions,
	}

	result = db.Create(role)
	if result.Error != nil {
		return nil, result.Error
	}

	return role, nil
}

// Update updates a role's name, description and active flag.
func Update(db *gorm.DB, id, name, description string, active bool) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrRoleNameEmpty
	}

	role, err := GetByID(db, id)
	if err != nil {
		return nil, err
	}

	role.Name = name
	role.Description = description
	role.Active = active

	result := db.Save(role)
	if result.Error != nil {
		return nil, result.Error
	}

	return role, nil
}

// SetPermissions replaces a role's module permissions wholesale.
func SetPermissions(db *gorm.DB, id string, permissions []models.ModulePermission) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	for i := range permissions {
		if permissions[i].ModuleName == "" {
			return nil, ErrModuleNameEmpty
		}
	}

	role, err := GetByID(db, id)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if errDel := tx.Where("role_id = ?", role.ID).Delete(&models.ModulePermission{}).Error; errDel != nil {
			return errDel
		}

		for i := range permissions {
			permissions[i].ID = 0
			permissions[i].RoleID = role.ID
		}

		if len(permissions) == 0 {
			return nil
		}

		return tx.Create(&permissions).Error
	})
	if err != nil {
		return nil, err
	}

	return GetByID(db, id)
}

// Delete removes a role. System roles are protected.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	role, err := GetByID(db, id)
	if err != nil {
		return err
	}

	if role.IsSystem {
		return ErrRoleIsSystem
	}

	result := db.Select("Permissions").Delete(role)
	if result.Error != nil {
		return result.Error
	}

	return nil
}

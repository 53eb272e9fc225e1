package daemon

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/config"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/db/models"
)

// managedModules lists every module the permission system knows about.
var managedModules = []string{
	"customers",
	"sites",
	"buildings",
	"floors",
	"assets",
	"tenants",
	"vendors",
	"documents",
	"users",
	"roles",
}

// seed creates the system roles and a default admin account on first start.
func seed(_ *config.Config, db *gorm.DB) {
	var count int64

	db.Model(&models.Role{}).Where("is_system = ?", true).Count(&count)
	if count == 0 {
		for _, role := range systemRoles() {
			if err := db.Create(&role).Error; err != nil {
				log.Error().Err(err).Str("role", role.Name).Msg("failed to seed system role")
			}
		}
	}

	db.Model(&models.User{}).Count(&count)
	if count > 0 {
		return
	}

	var adminRole models.Role
	if err := db.Where("name = ?", "Administrator").First(&adminRole).Error; err != nil {
		log.Error().Err(err).Msg("failed to load Administrator role for seeding")
		return
	}

	admin := models.User{
		Active:     true,
		Username:   "admin",
		Email:      "admin@localhost",
		Password:   models.HashPassword("changeme"),
		AuthSource: models.AuthSourceLocal,
		Roles:      []models.Role{adminRole},
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Error().Err(err).Msg("failed to seed admin user")
		return
	}

	log.Warn().Msg("seeded default admin user with password 'changeme', change it immediately")
}

// systemRoles returns the built-in roles: a full administrator, a property
// manager who cannot delete, and a read-only viewer.
func systemRoles() []models.Role {
	return []models.Role{
		{
			Name:        "Administrator",
			Description: "Full access to every module",
			Active:      true,
			IsSystem:    true,
			Permissions: modulePermissions(true, true, true, true),
		},
		{
			Name:        "Property Manager",
			Description: "Manage portfolio data, no deletions",
			Active:      true,
			IsSystem:    true,
			Permissions: modulePermissions(true, true, true, false),
		},
		{
			Name:        "Viewer",
			Description: "Read-only access",
			Active:      true,
			IsSystem:    true,
			Permissions: modulePermissions(true, false, false, false),
		},
	}
}

func modulePermissions(view, create, edit, del bool) []models.ModulePermission {
	permissions := make([]models.ModulePermission, 0, len(managedModules))

	for _, module := range managedModules {
		permissions = append(permissions, models.ModulePermission{
			ModuleName: module,
			CanView:    view,
			CanCreate:  create,
			CanEdit:    edit,
			CanDelete:  del,
		})
	}

	return permissions
}

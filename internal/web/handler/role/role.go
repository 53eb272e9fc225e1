// Package role provides REST handlers for managing roles and their module
// permissions.
package role

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/authz"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/config"
	rolectl "github.com/GoEstate-Admin/GoEstate-Admin/internal/db/controller/role"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/db/models"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/web/handler"
)

// Path is the base path for role management.
const Path = handler.APIBasePath + "/roles"

// Service provides CRUD operations for roles.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// permissionPayload is one module permission row in a role payload.
type permissionPayload struct {
	ModuleName string `json:"module_name" validate:"required,max=100"`
	CanView    bool   `json:"can_view"`
	CanCreate  bool   `json:"can_create"`
	CanEdit    bool   `json:"can_edit"`
	CanDelete  bool   `json:"can_delete"`
}

// createRequest is the payload for creating a role.
type createRequest struct {
	Name        string              `json:"name" validate:"required,max=100"`
	Description string              `json:"description" validate:"max=255"`
	CustomerID  string              `json:"customer_id" validate:"omitempty,len=24,hexadecimal"`
	Permissions []permissionPayload `json:"permissions" validate:"dive"`
}

// updateRequest is the payload for updating a role.
type updateRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=255"`
	Active      bool   `json:"active"`
}

// permissionsRequest is the payload for replacing a role's permissions.
type permissionsRequest struct {
	Permissions []permissionPayload `json:"permissions" validate:"required,dive"`
}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, engine *authz.Engine) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.validator = validator.New()

	// Routes
	app.Get(Path,
		authz.RequireModule(engine, "roles", "view"),
		s.List,
	)
	app.Get(Path+"/:id",
		authz.RequireResource(engine, "role", "view", authz.FromParam("id")),
		s.Get,
	)
	app.Post(Path,
		authz.RequireModule(engine, "roles", "create"),
		s.Create,
	)
	app.Put(Path+"/:id",
		authz.RequireResource(engine, "role", "edit", authz.FromParam("id")),
		s.Update,
	)
	app.Put(Path+"/:id/permissions",
		authz.RequireResource(engine, "role", "edit", authz.FromParam("id")),
		s.SetPermissions,
	)
	app.Delete(Path+"/:id",
		authz.RequireResource(engine, "role", "delete", authz.FromParam("id")),
		s.Delete,
	)
}

// List returns all roles with their module permissions.
func (s *Service) List(c *fiber.Ctx) error {
	roles, err := rolectl.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("query roles failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load roles"})
	}

	return c.JSON(fiber.Map{"items": roles})
}

// Get returns a single role by id.
func (s *Service) Get(c *fiber.Ctx) error {
	role, err := rolectl.GetByID(s.db, c.Params("id"))
	if errors.Is(err, rolectl.ErrRoleNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "role not found"})
	}

	if err != nil {
		log.Error().Err(err).Str("id", c.Params("id")).Msg("query role failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load role"})
	}

	return c.JSON(role)
}

// Create creates a new role with module permissions.
func (s *Service) Create(c *fiber.Ctx) error {
	req := new(createRequest)

	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	role, err := rolectl.Create(s.db, req.Name, req.Description, req.CustomerID, toModulePermissions(req.Permissions))

	switch {
	case errors.Is(err, rolectl.ErrRoleAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		log.Error().Err(err).Msg("create role failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create role"})
	}

	return c.Status(fiber.StatusCreated).JSON(role)
}

// Update updates a role's name, description and active flag.
func (s *Service) Update(c *fiber.Ctx) error {
	req := new(updateRequest)

	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	role, err := rolectl.Update(s.db, c.Params("id"), req.Name, req.Description, req.Active)

	switch {
	case errors.Is(err, rolectl.ErrRoleNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "role not found"})
	case err != nil:
		log.Error().Err(err).Str("id", c.Params("id")).Msg("update role failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update role"})
	}

	return c.JSON(role)
}

// SetPermissions replaces a role's module permissions wholesale.
func (s *Service) SetPermissions(c *fiber.Ctx) error {
	req := new(permissionsRequest)

	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	role, err := rolectl.SetPermissions(s.db, c.Params("id"), toModulePermissions(req.Permissions))

	switch {
	case errors.Is(err, rolectl.ErrRoleNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "role not found"})
	case err != nil:
		log.Error().Err(err).Str("id", c.Params("id")).Msg("set role permissions failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to set role permissions"})
	}

	return c.JSON(role)
}

// Delete removes a role. System roles are protected.
func (s *Service) Delete(c *fiber.Ctx) error {
	err := rolectl.Delete(s.db, c.Params("id"))

	switch {
	case errors.Is(err, rolectl.ErrRoleNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "role not found"})
	case errors.Is(err, rolectl.ErrRoleIsSystem):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		log.Error().Err(err).Str("id", c.Params("id")).Msg("delete role failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete role"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func toModulePermissions(payloads []permissionPayload) []models.ModulePermission {
	permissions := make([]models.ModulePermission, 0, len(payloads))

	for _, p := range payloads {
		permissions = append(permissions, models.ModulePermission{
			ModuleName: p.ModuleName,
			CanView:    p.CanView,
			CanCreate:  p.CanCreate,
			CanEdit:    p.CanEdit,
			CanDelete:  p.CanDelete,
		})
	}

	return permissions
}

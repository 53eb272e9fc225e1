// Package user provides REST handlers for managing user accounts, their role
// assignments and their per-resource access grants.
package user

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/auth"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/authz"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/config"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/db/controller/resourceaccess"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/db/models"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/web/handler"
)

// Path is the base path for user management.
const Path = handler.APIBasePath + "/users"

// Service provides CRUD operations for users.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	local     *auth.LocalProvider
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// createRequest is the payload for creating a local user.
type createRequest struct {
	Username   string   `json:"username" validate:"required,max=100"`
	Email      string   `json:"email" validate:"required,email"`
	Password   string   `json:"password" validate:"required,min=8"`
	FirstName  string   `json:"first_name" validate:"max=100"`
	LastName   string   `json:"last_name" validate:"max=100"`
	CustomerID string   `json:"customer_id" validate:"omitempty,len=24,hexadecimal"`
	RoleIDs    []string `json:"role_ids" validate:"dive,len=24,hexadecimal"`
}

// updateRequest is the payload for updating a user's profile.
type updateRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
}

// rolesRequest is the payload for replacing a user's role assignments.
// Order matters: role-module fallback evaluates roles in assignment order.
type rolesRequest struct {
	RoleIDs []string `json:"role_ids" validate:"required,dive,len=24,hexadecimal"`
}

// grantRequest is the payload for creating or replacing a resource grant.
type grantRequest struct {
	ResourceType string `json:"resource_type" validate:"required,max=100"`
	ResourceID   string `json:"resource_id" validate:"required,max=255"`
	CanView      bool   `json:"can_view"`
	CanCreate    bool   `json:"can_create"`
	CanEdit      bool   `json:"can_edit"`
	CanDelete    bool   `json:"can_delete"`
}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, engine *authz.Engine) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.local = auth.NewLocalProvider(db)
	s.validator = validator.New()

	// Routes
	app.Get(Path,
		authz.RequireModule(engine, "users", "view"),
		s.List,
	)
	app.Get(Path+"/:id",
		authz.RequireResource(engine, "user", "view", authz.FromParam("id")),
		s.Get,
	)
	app.Post(Path,
		authz.RequireModule(engine, "users", "create"),
		s.Create,
	)
	app.Put(Path+"/:id",
		authz.RequireResource(engine, "user", "edit", authz.FromParam("id")),
		s.Update,
	)
	app.Delete(Path+"/:id",
		authz.RequireResource(engine, "user", "delete", authz.FromParam("id")),
		s.Delete,
	)

	// Role assignment
	app.Put(Path+"/:id/roles",
		authz.RequireResource(engine, "user", "edit", authz.FromParam("id")),
		s.SetRoles,
	)

	// Resource access grants
	app.Get(Path+"/:id/access",
		authz.RequireResource(engine, "user", "view", authz.FromParam("id")),
		s.ListAccess,
	)
	app.Put(Path+"/:id/access",
		authz.RequireResource(engine, "user", "edit", authz.FromParam("id")),
		s.SetAccess,
	)
	app.Delete(Path+"/:id/access",
		authz.RequireResource(engine, "user", "edit", authz.FromParam("id")),
		s.RevokeAccess,
	)
}

// List returns users with pagination and optional filters.
func (s *Service) List(c *fiber.Ctx) error {
	page, pageSize := handler.Page(c.QueryInt("page", 1), c.QueryInt("pageSize", handler.DefaultPageSize))

	var active *bool

	if activeQuery := c.Query("active"); activeQuery != "" {
		value := activeQuery == "true"
		active = &value
	}

	users, total, err := s.local.ListUsers(
		c.Query("customer_id"),
		models.AuthSource(c.Query("auth_source")),
		active,
		pageSize,
		(page-1)*pageSize,
	)
	if err != nil {
		log.Error().Err(err).Msg("query users failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load users"})
	}

	for i := range users {
		users[i].Password = ""
	}

	return c.JSON(fiber.Map{
		"items":     users,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// Get returns a single user by id, with roles and grants preloaded.
func (s *Service) Get(c *fiber.Ctx) error {
	user, err := s.local.GetUserByID(c.Params("id"))
	if errors.Is(err, auth.ErrUserNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}

	if err != nil {
		log.Error().Err(err).Str("id", c.Params("id")).Msg("query user failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load user"})
	}

	user.Password = ""

	return c.JSON(user)
}

// Create creates a new local user.
func (s *Service) Create(c *fiber.Ctx) error {
	req := new(createRequest)

	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	user, err := s.local.CreateUser(
		req.Username, req.Email, req.Password,
		req.FirstName, req.LastName, req.CustomerID,
		req.RoleIDs,
	)
	if errors.Is(err, auth.ErrUserNameOrEmailExists) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}

	if err != nil {
		log.Error().Err(err).Msg("create user failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create user"})
	}

	user.Password = ""

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Update updates a user's profile.
func (s *Service) Update(c *fiber.Ctx) error {
	req := new(updateRequest)

	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.local.UpdateUser(c.Params("id"), req.Email, req.FirstName, req.LastName); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
		}

		log.Error().Err(err).Str("id", c.Params("id")).Msg("update user failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update user"})
	}

	return s.Get(c)
}

// Delete soft deletes a user.
func (s *Service) Delete(c *fiber.Ctx) error {
	result := s.db.Where("id = ?", c.Params("id")).Delete(&models.User{})
	if result.Error != nil {
		log.Error().Err(result.Error).Str("id", c.Params("id")).Msg("delete user failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete user"})
	}

	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// SetRoles replaces a user's role assignments in the given order.
func (s *Service) SetRoles(c *fiber.Ctx) error {
	req := new(rolesRequest)

	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.local.AssignRoles(c.Params("id"), req.RoleIDs); err != nil {
		if errors.Is(err, auth.ErrRoleNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "one or more roles do not exist"})
		}

		log.Error().Err(err).Str("id", c.Params("id")).Msg("assign roles failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to assign roles"})
	}

	return s.Get(c)
}

// ListAccess returns all resource grants held by a user.
func (s *Service) ListAccess(c *fiber.Ctx) error {
	grants, err := resourceaccess.GetAllForUser(s.db, c.Params("id"))
	if err != nil {
		log.Error().Err(err).Str("id", c.Params("id")).Msg("query resource grants failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load resource grants"})
	}

	return c.JSON(fiber.Map{"items": grants})
}

// SetAccess creates or replaces the grant for one resource. Posting all-false
// flags records an explicit deny for that resource.
func (s *Service) SetAccess(c *fiber.Ctx) error {
	req := new(grantRequest)

	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	grant, err := resourceaccess.Set(
		s.db, c.Params("id"),
		req.ResourceType, req.ResourceID,
		req.CanView, req.CanCreate, req.CanEdit, req.CanDelete,
	)
	if err != nil {
		log.Error().Err(err).Str("id", c.Params("id")).Msg("set resource grant failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to set resource grant"})
	}

	return c.JSON(grant)
}

// RevokeAccess removes the grant for one resource, restoring role fallback.
func (s *Service) RevokeAccess(c *fiber.Ctx) error {
	err := resourceaccess.Revoke(s.db, c.Params("id"), c.Query("resource_type"), c.Query("resource_id"))

	switch {
	case errors.Is(err, resourceaccess.ErrGrantNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "resource access grant not found"})
	case err != nil:
		log.Error().Err(err).Str("id", c.Params("id")).Msg("revoke resource grant failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to revoke resource grant"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Package check exposes the authorization engine as an endpoint so callers
// can ask "may user X do Y to Z" without touching the resource itself.
package check

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/authz"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/config"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/web/handler"
)

// Path is the path to the permission check endpoint.
const Path = handler.APIBasePath + "/auth/check"

// Service is the permission check handler service.
type Service struct {
	handler.Service
	cfg    *config.Config
	engine *authz.Engine
}

// Handler is the permission check handler.
var Handler = Service{}

// request is the permission check payload. UserID is optional; when empty
// the authenticated session user is checked.
type request struct {
	UserID       string `json:"user_id"`
	ResourceType string `json:"resource_type"`
	ResourceID   string `json:"resource_id"`
	Action       string `json:"action"`
}

// Init initializes the permission check handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, engine *authz.Engine) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.engine = engine

	app.Post(Path, s.Post)
}

// Post evaluates a permission check and reports the decision. A denial is a
// 200 with allowed=false; error statuses are reserved for evaluation
// failures like unknown users or malformed actions.
func (s *Service) Post(c *fiber.Ctx) error {
	req := new(request)

	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	identifier := req.UserID
	if identifier == "" {
		identifier = authz.ExtractIdentifier(c)
	}

	if identifier == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
	}

	if req.ResourceType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "resource type not provided"})
	}

	var (
		decision authz.Decision
		err      error
	)

	// Without a resource id the check is module-level.
	if req.ResourceID == "" {
		decision, err = s.engine.AuthorizeModule(identifier, authz.ModuleForResource(req.ResourceType), req.Action)
	} else {
		decision, err = s.engine.AuthorizeResource(identifier, req.ResourceType, req.Action, req.ResourceID)
	}

	switch {
	case errors.Is(err, authz.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	case errors.Is(err, authz.ErrAccountInactive):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "account inactive"})
	case errors.Is(err, authz.ErrInvalidAction), errors.Is(err, authz.ErrResourceIDMissing):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		log.Error().Err(err).Str("identifier", identifier).Msg("permission check failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	payload := fiber.Map{
		"allowed": decision.Allowed,
		"source":  decision.Source,
	}

	if decision.RoleName != "" {
		payload["role"] = decision.RoleName
	}

	return c.JSON(payload)
}

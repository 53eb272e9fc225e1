package authz

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const (
	// LocalsDecision is the fiber.Locals key the granted decision is stored
	// under, so downstream handlers can branch on the deciding source.
	LocalsDecision = "authzDecision"

	// LocalsUserIdentifier is the fiber.Locals key an upstream authentication
	// middleware may use to hand over the resolved user identifier.
	LocalsUserIdentifier = "authzUserIdentifier"
)

// ResourceIDAccessor extracts the resource id from a request.
type ResourceIDAccessor func(c *fiber.Ctx) string

// FromParam returns an accessor reading the resource id from a route parameter.
func FromParam(name string) ResourceIDAccessor {
	return func(c *fiber.Ctx) string {
		return c.Params(name)
	}
}

// FromQuery returns an accessor reading the resource id from a query parameter.
func FromQuery(name string) ResourceIDAccessor {
	return func(c *fiber.Ctx) string {
		return c.Query(name)
	}
}

// ExtractIdentifier applies the ordered identifier-extraction policy once at
// the boundary: authenticated session first, then header, body and query.
// The engine itself only ever sees a single typed identifier value.
func ExtractIdentifier(c *fiber.Ctx) string {
	if id, ok := c.Locals(LocalsUserIdentifier).(string); ok && id != "" {
		return id
	}

	if id := c.Get("X-User-ID"); id != "" {
		return id
	}

	var body struct {
		UserID string `json:"user_id"`
	}

	if err := c.BodyParser(&body); err == nil && body.UserID != "" {
		return body.UserID
	}

	return c.Query("user_id")
}

// RequireResource creates Fiber middleware gating a route on a
// resource-instance authorization check. The resource id is extracted with
// the supplied accessor, typically a route parameter.
func RequireResource(engine *Engine, resourceType, action string, accessor ResourceIDAccessor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := ExtractIdentifier(c)
		if identifier == "" {
			return unauthenticated(c)
		}

		resourceID := accessor(c)

		decision, err := engine.AuthorizeResource(identifier, resourceType, action, resourceID)
		if err != nil {
			return failureResponse(c, identifier, err)
		}

		if !decision.Allowed {
			return deniedResponse(c, identifier, decision)
		}

		c.Locals(LocalsDecision, decision)

		return c.Next()
	}
}

// RequireModule creates Fiber middleware gating a route on a module-level
// authorization check (no resource id involved).
func RequireModule(engine *Engine, moduleName, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := ExtractIdentifier(c)
		if identifier == "" {
			return unauthenticated(c)
		}

		decision, err := engine.AuthorizeModule(identifier, moduleName, action)
		if err != nil {
			return failureResponse(c, identifier, err)
		}

		if !decision.Allowed {
			return deniedResponse(c, identifier, decision)
		}

		c.Locals(LocalsDecision, decision)

		return c.Next()
	}
}

// DecisionFromContext returns the granted decision a Require middleware
// stored for the current request, if any.
func DecisionFromContext(c *fiber.Ctx) (Decision, bool) {
	decision, ok := c.Locals(LocalsDecision).(Decision)
	return decision, ok
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "authentication required",
	})
}

// failureResponse maps the distinguishable failure kinds to their HTTP
// responses. Failures are not denials; each kind gets its own status.
func failureResponse(c *fiber.Ctx, identifier string, err error) error {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "user not found",
		})
	case errors.Is(err, ErrAccountInactive):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "account inactive",
		})
	case errors.Is(err, ErrInvalidAction), errors.Is(err, ErrResourceIDMissing):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		log.Error().Err(err).Str("identifier", identifier).Msg("authorization check failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
}

// deniedResponse renders a denial with the deciding source and, for
// resource-access denials, the offending grant's flags for diagnostics.
func deniedResponse(c *fiber.Ctx, identifier string, decision Decision) error {
	log.Warn().
		Str("identifier", identifier).
		Str("source", string(decision.Source)).
		Msg("authorization denied")

	payload := fiber.Map{
		"error":  "forbidden",
		"source": decision.Source,
	}

	if decision.Source == SourceResourceAccess && decision.Grant != nil {
		payload["grant"] = fiber.Map{
			"resource_type": decision.Grant.ResourceType,
			"resource_id":   decision.Grant.ResourceID,
			"permissions": fiber.Map{
				"can_view":   decision.Grant.CanView,
				"can_create": decision.Grant.CanCreate,
				"can_edit":   decision.Grant.CanEdit,
				"can_delete": decision.Grant.CanDelete,
			},
		}
	}

	return c.Status(fiber.StatusForbidden).JSON(payload)
}

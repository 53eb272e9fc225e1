// Package authz implements the two-tier authorization engine of GoEstate-Admin.
//
// Every request is decided in two steps. First the user's resource_access
// entries are scanned for a grant targeting the exact resource instance; a
// matching entry is authoritative in both directions, so it can grant access
// the user's roles would never allow, or block access a role would otherwise
// grant. Only when no entry matches does evaluation fall through to the
// user's roles, where the first active role carrying the requested flag for
// the module wins.
//
// # Identity Resolution
//
// Callers identify users by an opaque string that may be a 24-hex primary
// key, an external identity-provider subject (e.g. an Auth0 "sub" claim) or
// a custom account id. ResolveUser tries the strategies in that order and
// eagerly loads roles and resource access so a decision needs exactly one
// database read.
//
// # Decisions And Failures
//
// AuthorizeResource and AuthorizeModule return a Decision carrying the
// verdict and the deciding source (resource_access or role). Failures that
// are not denials are distinguishable sentinel errors: ErrUserNotFound,
// ErrAccountInactive, ErrInvalidAction and ErrResourceIDMissing. A denial is
// a successful evaluation with a negative outcome, never an error.
//
// # HTTP Gate
//
// RequireResource and RequireModule provide Fiber middleware mapping engine
// outcomes to HTTP responses: 401 for a missing identifier, 404 for an
// unknown user, 400 for input errors, 403 for inactive accounts and denials
// (with the deciding source echoed for diagnostics), 500 for everything
// unexpected. Granted decisions are stored in fiber.Locals for downstream
// handlers.
//
// Example usage:
//
//	engine := authz.NewEngine(db)
//
//	// explicit check in a handler
//	decision, err := engine.AuthorizeResource(userID, "building", "edit", buildingID)
//
//	// protect a route, resource id taken from the :id route parameter
//	app.Put("/api/v1/buildings/:id",
//	    authz.RequireResource(engine, "building", "edit", authz.FromParam("id")),
//	    handler,
//	)
//
// Tenant scoping is deliberately out of scope here: the engine evaluates
// whatever user snapshot identity resolution returned and never re-implements
// tenant isolation.
package authz

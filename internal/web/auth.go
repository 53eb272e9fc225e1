package web

import (
	"github.com/gofiber/fiber/v2"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/authz"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/web/handler/auth/login"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/web/session"
)

// AuthMiddleware resolves the session cookie and hands the authenticated
// user's id to the authorization layer via fiber.Locals. Requests without a
// valid session continue anyway: service callers may authenticate per
// request (X-User-ID header, body or query), and the authorization
// middleware rejects requests that end up with no identifier at all.
func AuthMiddleware(c *fiber.Ctx) error {
	sessionCookie := c.Cookies(login.CookieName)
	if sessionCookie == "" {
		return c.Next()
	}

	sessData := new(session.Data)
	if err := sessData.Read(sessionCookie); err != nil {
		return c.Next()
	}

	if sessData.User.ID != "" {
		c.Locals(authz.LocalsUserIdentifier, sessData.User.ID)
	}

	return c.Next()
}

// Package login provides the credential login endpoint. Local database users
// are tried first; directory users are authenticated against LDAP when that
// provider is enabled.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/auth"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/authz"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/config"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/db/models"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/web/handler"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/web/session"
)

// Path is the path to the login endpoint.
const Path = handler.APIBasePath + "/auth/login"

// CookieName is the name of the session cookie.
const CookieName = "session"

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg   *config.Config
	db    *gorm.DB
	local *auth.LocalProvider
	ldap  *auth.LDAPProvider
}

// Handler is the login handler.
var Handler = Service{}

// request is the login payload.
type request struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, _ *authz.Engine) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.local = auth.NewLocalProvider(db)

	if cfg.Auth.LDAP.Enabled {
		ldapProvider, err := auth.NewLDAPProvider(&cfg.Auth.LDAP, db)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize LDAP provider, directory login disabled")
		} else {
			s.ldap = ldapProvider

			log.Info().Msg("LDAP authentication provider initialized")
		}
	}

	app.Post(Path, s.Post)
}

// Post handles the login request.
func (s *Service) Post(c *fiber.Ctx) error {
	req := new(request)

	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username and password are required"})
	}

	user, err := s.authenticate(req.Username, req.Password)

	switch {
	case errors.Is(err, auth.ErrUserAccountDisabled):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "account is inactive"})
	case err != nil:
		// not found and bad password are indistinguishable on purpose
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid username or password"})
	}

	sessionID := session.GenerateSessionID()

	userSession := &session.Data{User: *user}
	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	cookieSettings := &fiber.Cookie{
		Name:     CookieName,
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	user.Password = ""

	return c.JSON(fiber.Map{"user": user})
}

// authenticate tries the local database first and falls back to LDAP for
// unknown usernames when a directory is configured.
func (s *Service) authenticate(username, password string) (*models.User, error) {
	user, err := s.local.Authenticate(username, password)
	if err == nil {
		return user, nil
	}

	if s.ldap != nil && errors.Is(err, auth.ErrUserNotFound) {
		return s.ldap.Authenticate(username, password)
	}

	return nil, err
}

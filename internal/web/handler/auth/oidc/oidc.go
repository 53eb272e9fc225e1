// Package oidc provides handlers for the OpenID Connect authentication flow.
//
// The flow covers login initiation with CSRF-protected state tokens, the
// authorization callback with ID token verification, and automatic user
// provisioning from provider claims. Providers like Auth0, Okta and Keycloak
// all work with the generic discovery configuration.
package oidc

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/auth"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/authz"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/config"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/web/handler"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/web/handler/auth/login"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/web/session"
)

const (
	// LoginPath is the path to initiate OIDC login.
	LoginPath = handler.APIBasePath + "/auth/oidc/login"

	// CallbackPath is the path for the OIDC callback.
	CallbackPath = handler.APIBasePath + "/auth/oidc/callback"
)

// stateTTL is how long an issued state token stays valid.
const stateTTL = 10 * time.Minute

// Service is the OIDC handler service.
type Service struct {
	handler.Service
	cfg          *config.Config
	db           *gorm.DB
	oidcProvider *auth.OIDCProvider

	stateMu    sync.Mutex
	stateStore map[string]time.Time // in-memory state store, per instance
}

// Handler is the OIDC handler.
var Handler = Service{
	stateStore: make(map[string]time.Time),
}

// Init initializes the OIDC handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, _ *authz.Engine) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	if !cfg.Auth.OIDC.Enabled {
		return
	}

	oidcProvider, err := auth.NewOIDCProvider(context.Background(), &cfg.Auth.OIDC, db)
	if err != nil {
		if errors.Is(err, auth.ErrOIDCDisabled) {
			log.Info().Msg("OIDC authentication is disabled by configuration")
		} else {
			log.Warn().Err(err).Msg("failed to initialize OIDC provider, OIDC login disabled")
		}

		return
	}

	s.oidcProvider = oidcProvider

	log.Info().Msg("OIDC authentication provider initialized")

	app.Get(LoginPath, s.Login)
	app.Get(CallbackPath, s.Callback)

	go s.cleanupStates()
}

// Login initiates the OIDC login flow.
func (s *Service) Login(c *fiber.Ctx) error {
	state, err := auth.GenerateStateToken()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate state token")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	s.stateMu.Lock()
	s.stateStore[state] = time.Now().Add(stateTTL)
	s.stateMu.Unlock()

	return c.Redirect(s.oidcProvider.GetAuthURL(state))
}

// Callback handles the provider redirect, verifies the ID token and starts a
// session for the provisioned user.
func (s *Service) Callback(c *fiber.Ctx) error {
	state := c.Query("state")
	if !s.consumeState(state) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid or expired state"})
	}

	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "authorization code not provided"})
	}

	user, err := s.oidcProvider.HandleCallback(c.Context(), code)
	if err != nil {
		log.Error().Err(err).Msg("OIDC callback failed")

		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication failed"})
	}

	if !user.Active {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "account is inactive"})
	}

	sessionID := session.GenerateSessionID()

	userSession := &session.Data{User: *user}
	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	cookieSettings := &fiber.Cookie{
		Name:     login.CookieName,
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

// consumeState validates a state token and removes it so it cannot be replayed.
func (s *Service) consumeState(state string) bool {
	if state == "" {
		return false
	}

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	expiry, ok := s.stateStore[state]
	if !ok {
		return false
	}

	delete(s.stateStore, state)

	return time.Now().Before(expiry)
}

// cleanupStates drops expired state tokens every minute.
func (s *Service) cleanupStates() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.stateMu.Lock()

		now := time.Now()
		for state, expiry := range s.stateStore {
			if now.After(expiry) {
				delete(s.stateStore, state)
			}
		}

		s.stateMu.Unlock()
	}
}

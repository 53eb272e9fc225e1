package config

import (
	"time"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// OIDC holds the OpenID Connect settings for an external identity
// provider such as Auth0, Okta or Keycloak.
type OIDC struct {
	Enabled      bool
	ProviderURL  string // discovery URL, e.g. "https://example.eu.auth0.com/"
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// LDAP holds directory server settings for enterprise deployments.
type LDAP struct {
	Enabled      bool
	Host         string
	Port         int
	UseSSL       bool
	SkipVerify   bool
	BindDN       string
	BindPassword string
	BaseDN       string
	UserFilter   string // e.g. "(uid={username})"
	EmailAttr    string
	UsernameAttr string
}

// Auth groups the authentication provider settings.
type Auth struct {
	OIDC OIDC
	LDAP LDAP
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Auth      Auth
	Webserver Webserver
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath           bool    // use clean path middleware to allow multi slash requests
	DisableRecover      bool    // disable recover middleware
	Domain              string  // domain name for the webserver
	Port                int     // listening port for the webserver
	ShutDownTime        int     // wait time for shutdown
	URL                 string  // base url for the webserver
	CookieEncryptionKey string  // encryption key for cookies
	Session             Session // session settings
}

package auth

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/rs/zerolog/log"

	"gorm.io/gorm"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/config"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/db/models"
)

// ErrLDAPDisabled is returned when LDAP authentication is disabled via configuration.
var ErrLDAPDisabled = errors.New("ldap authentication is disabled")

// ldapTimeout is the connection timeout for directory operations.
const ldapTimeout = 10 * time.Second

// LDAPProvider handles LDAP authentication. Directory users are provisioned
// on first login with their DN recorded as the external id.
type LDAPProvider struct {
	config *config.LDAP
	db     *gorm.DB
}

// NewLDAPProvider creates a new LDAP provider.
func NewLDAPProvider(cfg *config.LDAP, db *gorm.DB) (*LDAPProvider, error) {
	if !cfg.Enabled {
		return nil, ErrLDAPDisabled
	}

	// Set defaults
	if cfg.UsernameAttr == "" {
		cfg.UsernameAttr = "uid"
	}

	if cfg.EmailAttr == "" {
		cfg.EmailAttr = "mail"
	}

	if cfg.UserFilter == "" {
		cfg.UserFilter = "(uid={username})"
	}

	return &LDAPProvider{
		config: cfg,
		db:     db,
	}, nil
}

// Connect establishes a connection to the LDAP server.
func (p *LDAPProvider) Connect() (*ldap.Conn, error) {
	hostPort := net.JoinHostPort(p.config.Host, strconv.Itoa(p.config.Port))

	var ldapURL string
	if p.config.UseSSL {
		ldapURL = "ldaps://" + hostPort
	} else {
		ldapURL = "ldap://" + hostPort
	}

	var tlsConfig *tls.Config
	if p.config.UseSSL {
		tlsConfig = &tls.Config{
			InsecureSkipVerify: p.config.SkipVerify, //nolint:gosec // skipping verifying tls is ok
			ServerName:         p.config.Host,
		}
	}

	conn, err := ldap.DialURL(ldapURL, ldap.DialWithTLSConfig(tlsConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to LDAP server: %w", err)
	}

	conn.SetTimeout(ldapTimeout)

	return conn, nil
}

// Authenticate authenticates a user against LDAP and returns the provisioned
// local user record.
func (p *LDAPProvider) Authenticate(username, password string) (*models.User, error) {
	conn, err := p.Connect()
	if err != nil {
		return nil, err
	}

	defer func() {
		if errClose := conn.Close(); errClose != nil {
			log.Warn().Err(errClose).Msg("failed to close LDAP connection")
		}
	}()

	// bind with the service account for the user search
	if p.config.BindDN != "" {
		if errBind := conn.Bind(p.config.BindDN, p.config.BindPassword); errBind != nil {
			return nil, fmt.Errorf("failed to bind service account: %w", errBind)
		}
	}

	userEntry, err := p.searchUserEntry(conn, username)
	if err != nil {
		return nil, err
	}

	// re-bind as the user to verify the password
	if errBind := conn.Bind(userEntry.DN, password); errBind != nil {
		return nil, ErrInvalidPassword
	}

	email := userEntry.GetAttributeValue(p.config.EmailAttr)

	return p.provisionUser(username, email, userEntry.DN)
}

// searchUserEntry finds exactly one directory entry for the username.
func (p *LDAPProvider) searchUserEntry(conn *ldap.Conn, username string) (*ldap.Entry, error) {
	filter := strings.ReplaceAll(p.config.UserFilter, "{username}", ldap.EscapeFilter(username))

	searchRequest := ldap.NewSearchRequest(
		p.config.BaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0,
		0,
		false,
		filter,
		[]string{"dn", p.config.UsernameAttr, p.config.EmailAttr},
		nil,
	)

	result, err := conn.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to search for user: %w", err)
	}

	if len(result.Entries) == 0 {
		return nil, ErrUserNotFound
	}

	if len(result.Entries) > 1 {
		return nil, ErrMultipleUsersFound
	}

	return result.Entries[0], nil
}

// provisionUser finds or creates the local record for a directory user.
func (p *LDAPProvider) provisionUser(username, email, dn string) (*models.User, error) {
	var user models.User

	err := p.db.Where("external_id = ? AND auth_source = ?", dn, models.AuthSourceLDAP).
		First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			Active:     true,
			Username:   username,
			Email:      email,
			AuthSource: models.AuthSourceLDAP,
			ExternalID: dn,
		}

		if err = p.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to query user: %w", err)
	default:
		if !user.Active {
			return nil, ErrUserAccountDisabled
		}
	}

	return &user, nil
}

// Package daemon wires configuration, database, sessions and the web service
// into a runnable unit.
package daemon

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/config"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/db/dsn"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/db/models"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/web"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(":" + strconv.Itoa(d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
		return nil
	}

	if err = db.AutoMigrate(
		&models.Customer{},
		&models.User{},
		&models.Role{},
		&models.ModulePermission{},
		&models.ResourceAccess{},
		&models.Site{},
		&models.Building{},
		&models.Floor{},
		&models.Asset{},
		&models.TenantCompany{},
		&models.Vendor{},
		&models.Document{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
		return nil
	}

	seed(cfg, db)

	session.Init(sessionStorage(cfg))

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db),
	}
}

// openDatabase opens the gorm connection for the configured engine.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DB.GormEngine {
	case "mysql":
		return gorm.Open(gormmysql.Open(dsn.Create(cfg)), &gorm.Config{})
	case "postgres":
		return gorm.Open(gormpostgres.Open(dsn.CreatePostgres(cfg)), &gorm.Config{})
	case "sqlite":
		// DB.Name is the database file path; ":memory:" works for testing
		return gorm.Open(gormsqlite.Open(cfg.DB.Name), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported gorm engine: %q", cfg.DB.GormEngine)
	}
}

// sessionStorage returns the session storage backend. MySQL deployments keep
// sessions in the database so they survive restarts and are shared across
// instances; other engines use the in-memory store.
func sessionStorage(cfg *config.Config) fiber.Storage {
	if cfg.DB.GormEngine != "mysql" {
		return nil
	}

	return sessionmysql.New(sessionmysql.Config{
		ConnectionURI: dsn.Create(cfg),
		Table:         "sessions",
	})
}

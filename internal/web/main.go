// Package web implements the REST API service on top of fiber.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoEstate-Admin/GoEstate-Admin/internal/authz"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/config"
	accesslog "github.com/GoEstate-Admin/GoEstate-Admin/internal/logger/adapter/fiber"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/web/handler/asset"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/web/handler/auth/check"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/web/handler/auth/login"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/web/handler/auth/logout"
	oidchandler "github.com/GoEstate-Admin/GoEstate-Admin/internal/web/handler/auth/oidc"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/web/handler/building"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/web/handler/customer"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/web/handler/document"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/web/handler/floor"
	rolehandler "github.com/GoEstate-Admin/GoEstate-Admin/internal/web/handler/role"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/web/handler/site"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/web/handler/tenantcompany"
	userhandler "github.com/GoEstate-Admin/GoEstate-Admin/internal/web/handler/user"
	"github.com/GoEstate-Admin/GoEstate-Admin/internal/web/handler/vendor"
)

// CheckAlivePath is the liveness probe path used by load balancers.
const CheckAlivePath = "/checkalive"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	engine       *authz.Engine
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	s.alive.Store(true)

	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the web service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: fail the liveness probe first so
	// the LB drains this instance before the listener stops.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        "GoEstate-Admin",
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(fiberrecover.New())
	}

	// access logging
	app.Use(accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
	}))

	// session middleware feeding the authorization layer
	app.Use(AuthMiddleware)

	engine := authz.NewEngine(db)

	service := &Service{
		cfg:    cfg,
		App:    app,
		db:     db,
		engine: engine,
	}

	// liveness probe and prometheus metrics
	app.Get(CheckAlivePath, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("OK")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// init handlers (they register their own routes with authorization gates)
	login.Handler.Init(app, cfg, db, engine)
	logout.Handler.Init(app, cfg, db, engine)
	oidchandler.Handler.Init(app, cfg, db, engine)
	check.Handler.Init(app, cfg, db, engine)
	customer.Handler.Init(app, cfg, db, engine)
	site.Handler.Init(app, cfg, db, engine)
	building.Handler.Init(app, cfg, db, engine)
	floor.Handler.Init(app, cfg, db, engine)
	asset.Handler.Init(app, cfg, db, engine)
	tenantcompany.Handler.Init(app, cfg, db, engine)
	vendor.Handler.Init(app, cfg, db, engine)
	document.Handler.Init(app, cfg, db, engine)
	userhandler.Handler.Init(app, cfg, db, engine)
	rolehandler.Handler.Init(app, cfg, db, engine)

	return service
}

// Package web wires the fiber application: tenant resolution, session
// authentication, the JSON API handlers and the operational endpoints.
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
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/bizdesk/bizdesk/internal/config"
	fiberlogger "github.com/bizdesk/bizdesk/internal/logger/adapter/fiber"
	"github.com/bizdesk/bizdesk/internal/tenant"
	"github.com/bizdesk/bizdesk/internal/web/handler/chat"
	"github.com/bizdesk/bizdesk/internal/web/handler/dashboard"
	"github.com/bizdesk/bizdesk/internal/web/handler/finance"
	"github.com/bizdesk/bizdesk/internal/web/handler/hrm"
	"github.com/bizdesk/bizdesk/internal/web/handler/login"
	"github.com/bizdesk/bizdesk/internal/web/handler/logout"
	"github.com/bizdesk/bizdesk/internal/web/handler/media"
	"github.com/bizdesk/bizdesk/internal/web/handler/register"
	"github.com/bizdesk/bizdesk/internal/web/handler/sales"
	"github.com/bizdesk/bizdesk/internal/web/handler/settings"
	"github.com/bizdesk/bizdesk/internal/web/handler/technical"
	"github.com/bizdesk/bizdesk/internal/web/handler/warehouse"
	"github.com/bizdesk/bizdesk/internal/web/handler/warranty"
)

// HealthPath is the liveness endpoint used by load balancers.
const HealthPath = "/healthz"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
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

	// Graceful shutdown for reverse proxies: set status to fail, so healthz returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
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

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        "BizDesk",
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	// access log
	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: HealthPath,
	}))

	// resolve the tenant before anything touches the database
	resolver := tenant.NewResolver(cfg.Tenant)
	app.Use(tenant.Middleware(resolver))

	// session auth middleware
	app.Use(NewAuthMiddleware(db))

	// init web service
	service := &Service{
		cfg: cfg,
		App: app,
		db:  db,
	}
	service.alive.Store(true)

	// operational endpoints
	app.Get(HealthPath, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("ok")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// init handlers (they register their own routes with permission checks)
	for name, initErr := range map[string]error{
		"login":     login.Handler.Init(app, cfg, db),
		"logout":    logout.Handler.Init(app, cfg, db),
		"register":  register.Handler.Init(app, cfg, db),
		"dashboard": dashboard.Handler.Init(app, cfg, db),
		"warehouse": warehouse.Handler.Init(app, cfg, db),
		"sales":     sales.Handler.Init(app, cfg, db),
		"media":     media.Handler.Init(app, cfg, db),
		"technical": technical.Handler.Init(app, cfg, db),
		"finance":   finance.Handler.Init(app, cfg, db),
		"warranty":  warranty.Handler.Init(app, cfg, db),
		"hrm":       hrm.Handler.Init(app, cfg, db),
		"chat":      chat.Handler.Init(app, cfg, db),
		"settings":  settings.Handler.Init(app, cfg, db),
	} {
		if initErr != nil {
			log.Fatal().Err(initErr).Str("handler", name).Msg("handler init failed")
		}
	}

	return service
}

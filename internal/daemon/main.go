// Package daemon assembles the process: database, migrations, seed data,
// session storage, scheduled backups and the web service.
package daemon

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/storage"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bizdesk/bizdesk/internal/backup"
	"github.com/bizdesk/bizdesk/internal/config"
	"github.com/bizdesk/bizdesk/internal/db/dsn"
	"github.com/bizdesk/bizdesk/internal/db/models"
	"github.com/bizdesk/bizdesk/internal/tenant"
	"github.com/bizdesk/bizdesk/internal/web"
	"github.com/bizdesk/bizdesk/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	webService *web.Service
	addr       string
	cron       *cron.Cron
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	err := d.webService.Start(d.addr)

	if d.cron != nil {
		d.cron.Stop()
	}

	return err
}

// OpenDB opens the database connection for the configured gorm engine.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case "postgres":
		dialector = gormpostgres.Open(dsn.Create(cfg))
	case "sqlite":
		dialector = sqlite.Open(dsn.Create(cfg))
	default:
		dialector = gormmysql.Open(dsn.Create(cfg))
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	return db, nil
}

// sessionStorage returns the session storage backend matching the database
// engine. Sqlite deployments fall back to the in-memory store.
func sessionStorage(cfg *config.Config) storage.Storage {
	switch cfg.DB.GormEngine {
	case "postgres":
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "sessions",
		})
	case "sqlite":
		return nil
	default:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "sessions",
		})
	}
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db, err := OpenDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
		return nil
	}

	if err = db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Product{},
		&models.StockMovement{},
		&models.Order{},
		&models.MediaTask{},
		&models.TechJob{},
		&models.FinanceEntry{},
		&models.WarrantyClaim{},
		&models.Employee{},
		&models.Salary{},
		&models.ChatMessage{},
		&models.Activity{},
		&models.Setting{},
	); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
		return nil
	}

	seed(cfg, db)

	session.Init(sessionStorage(cfg))

	daemon := &Daemon{
		webService: web.New(cfg, db),
		addr:       fmt.Sprintf(":%d", cfg.Webserver.Port),
	}

	if cfg.Backup.Enabled {
		daemon.cron = scheduleBackups(cfg, db)
	}

	return daemon
}

// scheduleBackups registers a cron job that dumps every configured tenant.
func scheduleBackups(cfg *config.Config, db *gorm.DB) *cron.Cron {
	resolver := tenant.NewResolver(cfg.Tenant)

	c := cron.New()

	_, err := c.AddFunc(cfg.Backup.Schedule, func() {
		for _, slug := range resolver.Slugs() {
			if _, err := backup.Export(db, slug, cfg.Backup.Dir); err != nil {
				log.Error().Err(err).Str("tenant", slug).Msg("scheduled backup failed")
			}
		}
	})
	if err != nil {
		log.Error().Err(err).Str("schedule", cfg.Backup.Schedule).Msg("invalid backup schedule")
		return nil
	}

	c.Start()
	log.Info().Str("schedule", cfg.Backup.Schedule).Msg("scheduled backups enabled")

	return c
}

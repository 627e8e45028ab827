package config

import (
	"time"

	"github.com/bizdesk/bizdesk/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Tenant    Tenant
	Backup    Backup
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath      bool    // use clean path middleware to allow multi slash requests
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}

// Tenant implements the subdomain to tenant slug mapping.
// Every request host is resolved against Table, falling back to Default.
type Tenant struct {
	BaseDomain string            // base domain the subdomains hang off (e.g. "bizdesk.app")
	Default    string            // fallback tenant slug for unknown or bare hosts
	Table      map[string]string `toml:"table"` // subdomain -> tenant slug
}

// Backup implements the scheduled JSON backup settings.
type Backup struct {
	Enabled  bool
	Schedule string // cron spec, e.g. "0 3 * * *"
	Dir      string // directory the timestamped dump files are written to
}

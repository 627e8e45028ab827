// Package logout handles the logout endpoint.
package logout

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/bizdesk/bizdesk/internal/config"
	"github.com/bizdesk/bizdesk/internal/web/handler"
	"github.com/bizdesk/bizdesk/internal/web/session"
)

// Path is the path of the logout endpoint.
const Path = handler.APIPath + "/auth/logout"

// Service is the logout handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.cfg = cfg

	app.Post(Path, s.Post)

	return nil
}

// Post destroys the server side session and expires the cookie.
func (s *Service) Post(c *fiber.Ctx) error {
	if sessionID := c.Cookies("session"); sessionID != "" {
		_ = session.Delete(sessionID)
	}

	c.Cookie(&fiber.Cookie{
		Name:     "session",
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
	})

	return c.JSON(fiber.Map{"status": "logged out"})
}

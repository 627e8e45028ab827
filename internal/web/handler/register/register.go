// Package register handles self-service account registration.
package register

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/bizdesk/bizdesk/internal/auth"
	"github.com/bizdesk/bizdesk/internal/config"
	"github.com/bizdesk/bizdesk/internal/tenant"
	"github.com/bizdesk/bizdesk/internal/web/handler"
)

// Path is the path of the registration endpoint.
const Path = handler.APIPath + "/auth/register"

// Service is the registration handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	provider  *auth.LocalProvider
	validator *validator.Validate
}

// Handler is the registration handler.
var Handler = Service{}

type request struct {
	Username    string `json:"username" validate:"required,min=3,max=64,alphanum"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	DisplayName string `json:"display_name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"omitempty,email"`
	Team        string `json:"team" validate:"omitempty,max=100"`
}

// Init initializes the registration handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.cfg = cfg
	s.provider = auth.NewLocalProvider(db)
	s.validator = validator.New()

	app.Post(Path, s.Post)

	return nil
}

// Post creates a pending account. The account cannot log in until an
// administrator approves it and assigns permissions.
func (s *Service) Post(c *fiber.Ctx) error {
	in := new(request)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tenantID := tenant.FromCtx(c)

	user, err := s.provider.Register(tenantID, in.Username, in.Password, in.DisplayName, in.Email, in.Team)
	if err != nil {
		if errors.Is(err, auth.ErrUserNameExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "username already taken"})
		}

		log.Error().Err(err).Msg("registration failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(user.Sanitized())
}

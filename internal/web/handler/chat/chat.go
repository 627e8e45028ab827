// Package chat handles the internal chat endpoints.
package chat

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/bizdesk/bizdesk/internal/auth"
	"github.com/bizdesk/bizdesk/internal/config"
	"github.com/bizdesk/bizdesk/internal/db/controller/chat"
	"github.com/bizdesk/bizdesk/internal/db/models"
	"github.com/bizdesk/bizdesk/internal/tenant"
	"github.com/bizdesk/bizdesk/internal/web/handler"
)

// Path is the base path of the chat endpoints.
const Path = handler.APIPath + "/chat"

// Service provides the chat endpoints.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

type messageRequest struct {
	Body string `json:"body" validate:"required,max=2048"`
}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.cfg = cfg
	s.validator = validator.New()

	app.Route(Path, func(router fiber.Router) {
		router.Get("/messages", auth.RequireModule(auth.ModuleChat), s.List)
		router.Post("/messages", auth.RequireModule(auth.ModuleChat), s.Post)
	})

	return nil
}

// List returns the recent message window in chronological order.
func (s *Service) List(c *fiber.Ctx) error {
	messages, err := chat.ListRecent(s.db, tenant.FromCtx(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to list chat messages")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(messages)
}

// Post stores a chat message from the principal.
func (s *Service) Post(c *fiber.Ctx) error {
	in := new(messageRequest)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	principal := auth.PrincipalFromCtx(c)

	message := &models.ChatMessage{
		TenantID: tenant.FromCtx(c),
		Sender:   principal.DisplayName,
		Body:     in.Body,
	}

	if err := chat.Post(s.db, message); err != nil {
		log.Error().Err(err).Msg("failed to post chat message")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}

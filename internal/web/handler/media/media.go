// Package media handles the media task endpoints.
package media

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/bizdesk/bizdesk/internal/auth"
	"github.com/bizdesk/bizdesk/internal/config"
	"github.com/bizdesk/bizdesk/internal/db/controller/activity"
	"github.com/bizdesk/bizdesk/internal/db/controller/task"
	"github.com/bizdesk/bizdesk/internal/db/models"
	"github.com/bizdesk/bizdesk/internal/tenant"
	"github.com/bizdesk/bizdesk/internal/web/handler"
)

// Path is the base path of the media task endpoints.
const Path = handler.APIPath + "/media"

// Service provides the media task endpoints.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

type taskRequest struct {
	Title    string     `json:"title" validate:"required,max=255"`
	Channel  string     `json:"channel" validate:"omitempty,max=100"`
	Status   string     `json:"status" validate:"omitempty,oneof=open in_progress review done"`
	Assignee string     `json:"assignee" validate:"omitempty,max=100"`
	DueDate  *time.Time `json:"due_date"`
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
		router.Get("/tasks", auth.RequireModule(auth.ModuleMedia), s.List)
		router.Post("/tasks", auth.RequireModule(auth.ModuleMedia), s.Create)
		router.Patch("/tasks/:id", auth.RequireLevel(auth.ModuleMedia, auth.LevelFull), s.Update)
		router.Delete("/tasks/:id", auth.RequireLevel(auth.ModuleMedia, auth.LevelFull), s.Delete)
	})

	return nil
}

// List returns the tasks visible to the principal. Below view-all level
// only tasks the principal created or is assigned to survive.
func (s *Service) List(c *fiber.Ctx) error {
	tasks, err := task.List(s.db, tenant.FromCtx(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to list media tasks")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(auth.FilterByPermission(auth.PrincipalFromCtx(c), tasks, auth.ModuleMedia))
}

// Create creates a media task.
func (s *Service) Create(c *fiber.Ctx) error {
	in := new(taskRequest)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	principal := auth.PrincipalFromCtx(c)
	tenantID := tenant.FromCtx(c)

	t := &models.MediaTask{
		TenantID:  tenantID,
		Title:     in.Title,
		Channel:   in.Channel,
		Status:    in.Status,
		Assignee:  in.Assignee,
		CreatedBy: principal.DisplayName,
		DueDate:   in.DueDate,
	}

	if err := task.Create(s.db, t); err != nil {
		log.Error().Err(err).Msg("failed to create media task")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	activity.Record(s.db, tenantID, principal.DisplayName, auth.ModuleMedia, "create", t.ID, t.Title)

	return c.Status(fiber.StatusCreated).JSON(t)
}

// Update applies field updates to a media task.
func (s *Service) Update(c *fiber.Ctx) error {
	in := new(taskRequest)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tenantID := tenant.FromCtx(c)
	id := c.Params("id")

	updates := map[string]interface{}{
		"title":    in.Title,
		"channel":  in.Channel,
		"assignee": in.Assignee,
		"due_date": in.DueDate,
	}
	if in.Status != "" {
		updates["status"] = in.Status
	}

	if err := task.Update(s.db, tenantID, id, updates); err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}

		log.Error().Err(err).Msg("failed to update media task")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	activity.Record(s.db, tenantID, auth.PrincipalFromCtx(c).DisplayName, auth.ModuleMedia, "update", id, in.Title)

	return c.JSON(fiber.Map{"status": "updated"})
}

// Delete removes a media task.
func (s *Service) Delete(c *fiber.Ctx) error {
	tenantID := tenant.FromCtx(c)
	id := c.Params("id")

	if err := task.Delete(s.db, tenantID, id); err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}

		log.Error().Err(err).Msg("failed to delete media task")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	activity.Record(s.db, tenantID, auth.PrincipalFromCtx(c).DisplayName, auth.ModuleMedia, "delete", id, "")

	return c.JSON(fiber.Map{"status": "deleted"})
}

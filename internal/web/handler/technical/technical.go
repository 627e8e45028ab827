// Package technical handles the technical service job endpoints.
package technical

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/bizdesk/bizdesk/internal/auth"
	"github.com/bizdesk/bizdesk/internal/config"
	"github.com/bizdesk/bizdesk/internal/db/controller/activity"
	"github.com/bizdesk/bizdesk/internal/db/controller/job"
	"github.com/bizdesk/bizdesk/internal/db/models"
	"github.com/bizdesk/bizdesk/internal/tenant"
	"github.com/bizdesk/bizdesk/internal/web/handler"
)

// Path is the base path of the technical service endpoints.
const Path = handler.APIPath + "/technical"

// Service provides the technical service endpoints.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

type jobRequest struct {
	Device   string `json:"device" validate:"required,max=255"`
	Issue    string `json:"issue" validate:"omitempty,max=1024"`
	Status   string `json:"status" validate:"omitempty,oneof=received working waiting_parts done"`
	Assignee string `json:"assignee" validate:"omitempty,max=100"`
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
		router.Get("/jobs", auth.RequireModule(auth.ModuleTechnical), s.List)
		router.Get("/jobs/:id", auth.RequireModule(auth.ModuleTechnical), s.Get)
		router.Post("/jobs", auth.RequireModule(auth.ModuleTechnical), s.Create)
		router.Patch("/jobs/:id", auth.RequireLevel(auth.ModuleTechnical, auth.LevelFull), s.Update)
	})

	return nil
}

// List returns the jobs visible to the principal.
func (s *Service) List(c *fiber.Ctx) error {
	jobs, err := job.List(s.db, tenant.FromCtx(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to list jobs")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(auth.FilterByPermission(auth.PrincipalFromCtx(c), jobs, auth.ModuleTechnical))
}

// Get returns a single job if it is visible to the principal.
func (s *Service) Get(c *fiber.Ctx) error {
	j, err := job.Get(s.db, tenant.FromCtx(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}

		log.Error().Err(err).Msg("failed to get job")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	if len(auth.FilterByPermission(auth.PrincipalFromCtx(c), []models.TechJob{*j}, auth.ModuleTechnical)) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": job.ErrJobNotFound.Error()})
	}

	return c.JSON(j)
}

// Create creates a repair job.
func (s *Service) Create(c *fiber.Ctx) error {
	in := new(jobRequest)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	principal := auth.PrincipalFromCtx(c)
	tenantID := tenant.FromCtx(c)

	j := &models.TechJob{
		TenantID:  tenantID,
		Device:    in.Device,
		Issue:     in.Issue,
		Status:    in.Status,
		Assignee:  in.Assignee,
		CreatedBy: principal.DisplayName,
	}

	if err := job.Create(s.db, j); err != nil {
		log.Error().Err(err).Msg("failed to create job")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	activity.Record(s.db, tenantID, principal.DisplayName, auth.ModuleTechnical, "create", j.ID, j.Reference)

	return c.Status(fiber.StatusCreated).JSON(j)
}

// Update applies field updates to a repair job.
func (s *Service) Update(c *fiber.Ctx) error {
	in := new(jobRequest)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tenantID := tenant.FromCtx(c)
	id := c.Params("id")

	updates := map[string]interface{}{
		"device":   in.Device,
		"issue":    in.Issue,
		"assignee": in.Assignee,
	}
	if in.Status != "" {
		updates["status"] = in.Status
	}

	if err := job.Update(s.db, tenantID, id, updates); err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}

		log.Error().Err(err).Msg("failed to update job")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	activity.Record(s.db, tenantID, auth.PrincipalFromCtx(c).DisplayName, auth.ModuleTechnical, "update", id, "")

	return c.JSON(fiber.Map{"status": "updated"})
}

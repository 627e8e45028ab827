// Package warranty handles the warranty claim endpoints.
package warranty

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
	"github.com/bizdesk/bizdesk/internal/db/controller/warranty"
	"github.com/bizdesk/bizdesk/internal/db/models"
	"github.com/bizdesk/bizdesk/internal/tenant"
	"github.com/bizdesk/bizdesk/internal/web/handler"
)

// Path is the base path of the warranty endpoints.
const Path = handler.APIPath + "/warranty"

// Service provides the warranty claim endpoints.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

type claimRequest struct {
	Product  string `json:"product" validate:"required,max=255"`
	SerialNo string `json:"serial_no" validate:"omitempty,max=100"`
	Customer string `json:"customer" validate:"required,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=50"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=received processing resolved rejected"`
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
		router.Get("/claims", auth.RequireModule(auth.ModuleWarranty), s.List)
		router.Post("/claims", auth.RequireModule(auth.ModuleWarranty), s.Create)
		router.Patch("/claims/:id/status", auth.RequireLevel(auth.ModuleWarranty, auth.LevelFull), s.SetStatus)
	})

	return nil
}

// List returns every warranty claim of the tenant.
func (s *Service) List(c *fiber.Ctx) error {
	claims, err := warranty.List(s.db, tenant.FromCtx(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to list warranty claims")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(claims)
}

// Create registers a new warranty claim.
func (s *Service) Create(c *fiber.Ctx) error {
	in := new(claimRequest)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	principal := auth.PrincipalFromCtx(c)
	tenantID := tenant.FromCtx(c)

	claim := &models.WarrantyClaim{
		TenantID:   tenantID,
		Product:    in.Product,
		SerialNo:   in.SerialNo,
		Customer:   in.Customer,
		Phone:      in.Phone,
		ReceivedAt: time.Now(),
		CreatedBy:  principal.DisplayName,
	}

	if err := warranty.Create(s.db, claim); err != nil {
		log.Error().Err(err).Msg("failed to create warranty claim")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	activity.Record(s.db, tenantID, principal.DisplayName, auth.ModuleWarranty, "create", claim.ID, in.Product)

	return c.Status(fiber.StatusCreated).JSON(claim)
}

// SetStatus moves a claim through its lifecycle. Resolving or rejecting
// stamps the resolution time.
func (s *Service) SetStatus(c *fiber.Ctx) error {
	in := new(statusRequest)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tenantID := tenant.FromCtx(c)
	id := c.Params("id")

	updates := map[string]interface{}{"status": in.Status}
	if in.Status == models.ClaimResolved || in.Status == models.ClaimRejected {
		now := time.Now()
		updates["resolved_at"] = &now
	}

	if err := warranty.Update(s.db, tenantID, id, updates); err != nil {
		if errors.Is(err, warranty.ErrClaimNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}

		log.Error().Err(err).Msg("failed to update warranty claim")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	activity.Record(s.db, tenantID, auth.PrincipalFromCtx(c).DisplayName, auth.ModuleWarranty, "status", id, in.Status)

	return c.JSON(fiber.Map{"status": "updated"})
}

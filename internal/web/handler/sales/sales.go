// Package sales handles the sales order endpoints.
package sales

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/bizdesk/bizdesk/internal/auth"
	"github.com/bizdesk/bizdesk/internal/config"
	"github.com/bizdesk/bizdesk/internal/db/controller/activity"
	"github.com/bizdesk/bizdesk/internal/db/controller/order"
	"github.com/bizdesk/bizdesk/internal/db/models"
	"github.com/bizdesk/bizdesk/internal/tenant"
	"github.com/bizdesk/bizdesk/internal/web/handler"
)

// Path is the base path of the sales endpoints.
const Path = handler.APIPath + "/sales"

// Service provides the sales order endpoints.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

type orderRequest struct {
	Customer string             `json:"customer" validate:"required,max=255"`
	Phone    string             `json:"phone" validate:"omitempty,max=50"`
	Address  string             `json:"address" validate:"omitempty,max=255"`
	Items    []models.OrderItem `json:"items" validate:"required,min=1,dive"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft confirmed shipped done cancelled"`
}

type itemsRequest struct {
	Items []models.OrderItem `json:"items" validate:"required,min=1,dive"`
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
		router.Get("/orders", auth.RequireModule(auth.ModuleSales), s.List)
		router.Get("/orders/:id", auth.RequireModule(auth.ModuleSales), s.Get)
		router.Post("/orders", auth.RequireModule(auth.ModuleSales), s.Create)
		router.Patch("/orders/:id/items", auth.RequireLevel(auth.ModuleSales, auth.LevelFull), s.UpdateItems)
		router.Patch("/orders/:id/status", auth.RequireLevel(auth.ModuleSales, auth.LevelFull), s.SetStatus)
	})

	return nil
}

// List returns the orders visible to the principal. Below view-all level
// only orders the principal created survive the ownership filter.
func (s *Service) List(c *fiber.Ctx) error {
	orders, err := order.List(s.db, tenant.FromCtx(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to list orders")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(auth.FilterByPermission(auth.PrincipalFromCtx(c), orders, auth.ModuleSales))
}

// Get returns a single order if it is visible to the principal.
func (s *Service) Get(c *fiber.Ctx) error {
	o, err := order.Get(s.db, tenant.FromCtx(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}

		log.Error().Err(err).Msg("failed to get order")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	if len(auth.FilterByPermission(auth.PrincipalFromCtx(c), []models.Order{*o}, auth.ModuleSales)) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": order.ErrOrderNotFound.Error()})
	}

	return c.JSON(o)
}

// Create creates a draft order. Any principal with sales access may create
// orders; what they can later see is still governed by their level.
func (s *Service) Create(c *fiber.Ctx) error {
	in := new(orderRequest)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	principal := auth.PrincipalFromCtx(c)
	tenantID := tenant.FromCtx(c)

	o := &models.Order{
		TenantID:  tenantID,
		Customer:  in.Customer,
		Phone:     in.Phone,
		Address:   in.Address,
		Items:     datatypes.NewJSONType(in.Items),
		CreatedBy: principal.DisplayName,
	}

	if err := order.Create(s.db, o); err != nil {
		if errors.Is(err, order.ErrEmptyOrder) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		log.Error().Err(err).Msg("failed to create order")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	activity.Record(s.db, tenantID, principal.DisplayName, auth.ModuleSales, "create", o.ID, o.Reference)

	return c.Status(fiber.StatusCreated).JSON(o)
}

// UpdateItems replaces the items of a draft order.
func (s *Service) UpdateItems(c *fiber.Ctx) error {
	in := new(itemsRequest)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tenantID := tenant.FromCtx(c)
	id := c.Params("id")

	if err := order.UpdateItems(s.db, tenantID, id, in.Items); err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, order.ErrOrderNotDraft), errors.Is(err, order.ErrEmptyOrder):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		default:
			log.Error().Err(err).Msg("failed to update order items")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
		}
	}

	activity.Record(s.db, tenantID, auth.PrincipalFromCtx(c).DisplayName, auth.ModuleSales, "update_items", id, "")

	return c.JSON(fiber.Map{"status": "updated"})
}

// SetStatus moves an order along its lifecycle. Transitions that skip a
// step or leave a terminal status are rejected by the controller.
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

	if err := order.SetStatus(s.db, tenantID, id, in.Status); err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, order.ErrInvalidStatusChange):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		default:
			log.Error().Err(err).Msg("failed to set order status")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
		}
	}

	activity.Record(s.db, tenantID, auth.PrincipalFromCtx(c).DisplayName, auth.ModuleSales, "status", id, in.Status)

	return c.JSON(fiber.Map{"status": "updated"})
}

// Package finance handles the ledger endpoints.
//
// Finance carries asymmetric rules the route middleware cannot express:
// any level above zero may create entries, but editing an entry of
// somebody else takes level 3 or the admin role. Those checks therefore
// live in the handlers, against the loaded entry.
package finance

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bizdesk/bizdesk/internal/auth"
	"github.com/bizdesk/bizdesk/internal/config"
	"github.com/bizdesk/bizdesk/internal/db/controller/activity"
	"github.com/bizdesk/bizdesk/internal/db/controller/finance"
	"github.com/bizdesk/bizdesk/internal/db/models"
	"github.com/bizdesk/bizdesk/internal/tenant"
	"github.com/bizdesk/bizdesk/internal/web/handler"
)

// Path is the base path of the finance endpoints.
const Path = handler.APIPath + "/finance"

// Service provides the ledger endpoints.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

type entryRequest struct {
	Kind        string          `json:"kind" validate:"required,oneof=income expense"`
	Category    string          `json:"category" validate:"omitempty,max=100"`
	Description string          `json:"description" validate:"omitempty,max=255"`
	Amount      decimal.Decimal `json:"amount"`
	EntryDate   *time.Time      `json:"entry_date"`
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
		router.Get("/entries",
			auth.RequireModule(auth.ModuleFinance),
			auth.RequireTab(auth.ModuleFinance, auth.TabEntries),
			s.List,
		)
		router.Post("/entries",
			auth.RequireModule(auth.ModuleFinance),
			auth.RequireTab(auth.ModuleFinance, auth.TabEntries),
			s.Create,
		)
		router.Patch("/entries/:id",
			auth.RequireModule(auth.ModuleFinance),
			auth.RequireTab(auth.ModuleFinance, auth.TabEntries),
			s.Update,
		)
		router.Delete("/entries/:id",
			auth.RequireModule(auth.ModuleFinance),
			auth.RequireTab(auth.ModuleFinance, auth.TabEntries),
			s.Delete,
		)
	})

	return nil
}

// List returns the entries visible to the principal together with the
// income and expense totals of that visible subset.
func (s *Service) List(c *fiber.Ctx) error {
	entries, err := finance.List(s.db, tenant.FromCtx(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to list finance entries")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	visible := auth.FilterByPermission(auth.PrincipalFromCtx(c), entries, auth.ModuleFinance)
	totals := finance.Sum(visible)

	return c.JSON(fiber.Map{
		"entries": visible,
		"totals": fiber.Map{
			"income":  totals.Income,
			"expense": totals.Expense,
			"balance": totals.Balance(),
		},
	})
}

// Create creates a ledger entry.
func (s *Service) Create(c *fiber.Ctx) error {
	principal := auth.PrincipalFromCtx(c)

	if !auth.CanCreateFinance(principal) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	}

	in := new(entryRequest)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tenantID := tenant.FromCtx(c)

	entryDate := time.Now()
	if in.EntryDate != nil {
		entryDate = *in.EntryDate
	}

	entry := &models.FinanceEntry{
		TenantID:    tenantID,
		Kind:        models.EntryKind(in.Kind),
		Category:    in.Category,
		Description: in.Description,
		Amount:      in.Amount,
		EntryDate:   entryDate,
		CreatedBy:   principal.DisplayName,
	}

	if err := finance.Create(s.db, entry); err != nil {
		if errors.Is(err, finance.ErrInvalidAmount) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		log.Error().Err(err).Msg("failed to create finance entry")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	activity.Record(s.db, tenantID, principal.DisplayName, auth.ModuleFinance, "create", entry.ID, in.Kind)

	return c.Status(fiber.StatusCreated).JSON(entry)
}

// Update edits a ledger entry under the asymmetric ownership rule.
func (s *Service) Update(c *fiber.Ctx) error {
	in := new(entryRequest)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tenantID := tenant.FromCtx(c)
	id := c.Params("id")

	entry, err := finance.Get(s.db, tenantID, id)
	if err != nil {
		if errors.Is(err, finance.ErrEntryNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}

		log.Error().Err(err).Msg("failed to load finance entry")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	principal := auth.PrincipalFromCtx(c)
	if !auth.CanEditOwnFinance(principal, entry.CreatedBy) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	}

	if !in.Amount.IsPositive() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": finance.ErrInvalidAmount.Error()})
	}

	updates := map[string]interface{}{
		"kind":        in.Kind,
		"category":    in.Category,
		"description": in.Description,
		"amount":      in.Amount,
	}
	if in.EntryDate != nil {
		updates["entry_date"] = *in.EntryDate
	}

	if err := finance.Update(s.db, tenantID, id, updates); err != nil {
		log.Error().Err(err).Msg("failed to update finance entry")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	activity.Record(s.db, tenantID, principal.DisplayName, auth.ModuleFinance, "update", id, in.Kind)

	return c.JSON(fiber.Map{"status": "updated"})
}

// Delete removes a ledger entry under the asymmetric ownership rule.
func (s *Service) Delete(c *fiber.Ctx) error {
	tenantID := tenant.FromCtx(c)
	id := c.Params("id")

	entry, err := finance.Get(s.db, tenantID, id)
	if err != nil {
		if errors.Is(err, finance.ErrEntryNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}

		log.Error().Err(err).Msg("failed to load finance entry")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	principal := auth.PrincipalFromCtx(c)
	if !auth.CanEditOwnFinance(principal, entry.CreatedBy) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	}

	if err := finance.Delete(s.db, tenantID, id); err != nil {
		log.Error().Err(err).Msg("failed to delete finance entry")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	activity.Record(s.db, tenantID, principal.DisplayName, auth.ModuleFinance, "delete", id, "")

	return c.JSON(fiber.Map{"status": "deleted"})
}

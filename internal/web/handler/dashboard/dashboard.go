// Package dashboard handles the report dashboard endpoint.
package dashboard

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/bizdesk/bizdesk/internal/auth"
	"github.com/bizdesk/bizdesk/internal/config"
	"github.com/bizdesk/bizdesk/internal/db/controller/activity"
	"github.com/bizdesk/bizdesk/internal/db/controller/finance"
	"github.com/bizdesk/bizdesk/internal/db/controller/hrm"
	"github.com/bizdesk/bizdesk/internal/db/controller/job"
	"github.com/bizdesk/bizdesk/internal/db/controller/order"
	"github.com/bizdesk/bizdesk/internal/db/controller/product"
	"github.com/bizdesk/bizdesk/internal/db/controller/task"
	"github.com/bizdesk/bizdesk/internal/db/controller/warranty"
	"github.com/bizdesk/bizdesk/internal/tenant"
	"github.com/bizdesk/bizdesk/internal/web/handler"
)

// Path is the path of the dashboard endpoint.
const Path = handler.APIPath + "/dashboard"

// recentActivityLimit caps the activity slice on the dashboard.
const recentActivityLimit = 20

// Service provides the dashboard endpoint.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.cfg = cfg

	app.Get(Path, auth.RequireModule(auth.ModuleDashboard), s.Get)

	return nil
}

// Get aggregates per-module counters. Each block only appears when the
// principal holds access to the underlying module. The counts are
// tenant-wide summary figures even for view-own principals; only the
// finance totals are restricted to the entries the principal may see,
// since they expose amounts rather than a bare count.
func (s *Service) Get(c *fiber.Ctx) error {
	principal := auth.PrincipalFromCtx(c)
	tenantID := tenant.FromCtx(c)

	out := fiber.Map{}

	if auth.CanAccessModule(principal, auth.ModuleWarehouse) {
		if count, err := product.Count(s.db, tenantID); err == nil {
			out["products"] = count
		} else {
			log.Error().Err(err).Msg("dashboard product count failed")
		}
	}

	if auth.CanAccessModule(principal, auth.ModuleSales) {
		if count, err := order.Count(s.db, tenantID); err == nil {
			out["orders"] = count
		} else {
			log.Error().Err(err).Msg("dashboard order count failed")
		}
	}

	if auth.CanAccessModule(principal, auth.ModuleTechnical) {
		if count, err := job.Count(s.db, tenantID); err == nil {
			out["jobs"] = count
		} else {
			log.Error().Err(err).Msg("dashboard job count failed")
		}
	}

	if auth.CanAccessModule(principal, auth.ModuleMedia) {
		if count, err := task.Count(s.db, tenantID); err == nil {
			out["media_tasks"] = count
		} else {
			log.Error().Err(err).Msg("dashboard media task count failed")
		}
	}

	if auth.CanAccessModule(principal, auth.ModuleWarranty) {
		if count, err := warranty.Count(s.db, tenantID); err == nil {
			out["warranty_claims"] = count
		} else {
			log.Error().Err(err).Msg("dashboard warranty count failed")
		}
	}

	if auth.CanAccessModule(principal, auth.ModuleHRM) {
		if count, err := hrm.CountEmployees(s.db, tenantID); err == nil {
			out["employees"] = count
		} else {
			log.Error().Err(err).Msg("dashboard employee count failed")
		}
	}

	if auth.CanAccessModule(principal, auth.ModuleFinance) {
		entries, err := finance.List(s.db, tenantID)
		if err != nil {
			log.Error().Err(err).Msg("dashboard finance totals failed")
		} else {
			totals := finance.Sum(auth.FilterByPermission(principal, entries, auth.ModuleFinance))
			out["finance"] = fiber.Map{
				"income":  totals.Income,
				"expense": totals.Expense,
				"balance": totals.Balance(),
			}
		}
	}

	if auth.CanAccessTab(principal, auth.ModuleSettings, auth.TabActivity) {
		if recent, err := activity.ListRecent(s.db, tenantID); err == nil {
			if len(recent) > recentActivityLimit {
				recent = recent[:recentActivityLimit]
			}
			out["recent_activity"] = recent
		} else {
			log.Error().Err(err).Msg("dashboard activity listing failed")
		}
	}

	return c.JSON(out)
}

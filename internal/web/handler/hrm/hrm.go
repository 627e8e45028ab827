// Package hrm handles the employee and salary endpoints.
package hrm

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
	"github.com/bizdesk/bizdesk/internal/db/controller/hrm"
	"github.com/bizdesk/bizdesk/internal/db/models"
	"github.com/bizdesk/bizdesk/internal/tenant"
	"github.com/bizdesk/bizdesk/internal/web/handler"
)

// Path is the base path of the hrm endpoints.
const Path = handler.APIPath + "/hrm"

// Service provides the hrm endpoints.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

type employeeRequest struct {
	FullName   string          `json:"full_name" validate:"required,max=255"`
	Position   string          `json:"position" validate:"omitempty,max=100"`
	Team       string          `json:"team" validate:"omitempty,max=100"`
	BaseSalary decimal.Decimal `json:"base_salary"`
	UserID     *uint64         `json:"user_id"`
	HiredAt    *time.Time      `json:"hired_at"`
	LeftAt     *time.Time      `json:"left_at"`
}

type salaryRequest struct {
	EmployeeID string          `json:"employee_id" validate:"required,uuid4"`
	Month      string          `json:"month" validate:"required,len=7"`
	Base       decimal.Decimal `json:"base"`
	Bonus      decimal.Decimal `json:"bonus"`
	Deduction  decimal.Decimal `json:"deduction"`
	Paid       bool            `json:"paid"`
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
		router.Get("/employees",
			auth.RequireModule(auth.ModuleHRM),
			auth.RequireTab(auth.ModuleHRM, auth.TabEmployees),
			s.ListEmployees,
		)
		router.Post("/employees",
			auth.RequireLevel(auth.ModuleHRM, auth.LevelFull),
			auth.RequireTab(auth.ModuleHRM, auth.TabEmployees),
			s.CreateEmployee,
		)
		router.Patch("/employees/:id",
			auth.RequireLevel(auth.ModuleHRM, auth.LevelFull),
			auth.RequireTab(auth.ModuleHRM, auth.TabEmployees),
			s.UpdateEmployee,
		)
		router.Get("/salaries",
			auth.RequireModule(auth.ModuleHRM),
			auth.RequireTab(auth.ModuleHRM, auth.TabSalaries),
			s.ListSalaries,
		)
		router.Put("/salaries",
			auth.RequireLevel(auth.ModuleHRM, auth.LevelFull),
			auth.RequireTab(auth.ModuleHRM, auth.TabSalaries),
			s.UpsertSalary,
		)
	})

	return nil
}

// ListEmployees returns every employee of the tenant.
func (s *Service) ListEmployees(c *fiber.Ctx) error {
	employees, err := hrm.ListEmployees(s.db, tenant.FromCtx(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to list employees")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(employees)
}

// CreateEmployee creates an employee record.
func (s *Service) CreateEmployee(c *fiber.Ctx) error {
	in := new(employeeRequest)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tenantID := tenant.FromCtx(c)

	employee := &models.Employee{
		TenantID:   tenantID,
		FullName:   in.FullName,
		Position:   in.Position,
		Team:       in.Team,
		BaseSalary: in.BaseSalary,
		UserID:     in.UserID,
		HiredAt:    in.HiredAt,
		LeftAt:     in.LeftAt,
	}

	if err := hrm.CreateEmployee(s.db, employee); err != nil {
		log.Error().Err(err).Msg("failed to create employee")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	activity.Record(s.db, tenantID, auth.PrincipalFromCtx(c).DisplayName, auth.ModuleHRM, "create", employee.ID, in.FullName)

	return c.Status(fiber.StatusCreated).JSON(employee)
}

// UpdateEmployee applies field updates to an employee record.
func (s *Service) UpdateEmployee(c *fiber.Ctx) error {
	in := new(employeeRequest)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tenantID := tenant.FromCtx(c)
	id := c.Params("id")

	updates := map[string]interface{}{
		"full_name":   in.FullName,
		"position":    in.Position,
		"team":        in.Team,
		"base_salary": in.BaseSalary,
		"user_id":     in.UserID,
		"hired_at":    in.HiredAt,
		"left_at":     in.LeftAt,
	}

	if err := hrm.UpdateEmployee(s.db, tenantID, id, updates); err != nil {
		if errors.Is(err, hrm.ErrEmployeeNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}

		log.Error().Err(err).Msg("failed to update employee")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	activity.Record(s.db, tenantID, auth.PrincipalFromCtx(c).DisplayName, auth.ModuleHRM, "update", id, in.FullName)

	return c.JSON(fiber.Map{"status": "updated"})
}

// ListSalaries returns the salary records of the tenant, optionally
// filtered by month.
func (s *Service) ListSalaries(c *fiber.Ctx) error {
	salaries, err := hrm.ListSalaries(s.db, tenant.FromCtx(c), c.Query("month"))
	if err != nil {
		log.Error().Err(err).Msg("failed to list salaries")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(salaries)
}

// UpsertSalary writes the salary record of one employee for one month.
func (s *Service) UpsertSalary(c *fiber.Ctx) error {
	in := new(salaryRequest)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	principal := auth.PrincipalFromCtx(c)
	tenantID := tenant.FromCtx(c)

	salary := &models.Salary{
		TenantID:   tenantID,
		EmployeeID: in.EmployeeID,
		Month:      in.Month,
		Base:       in.Base,
		Bonus:      in.Bonus,
		Deduction:  in.Deduction,
		Paid:       in.Paid,
		CreatedBy:  principal.DisplayName,
	}

	if err := hrm.UpsertSalary(s.db, salary); err != nil {
		switch {
		case errors.Is(err, hrm.ErrInvalidMonth):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, hrm.ErrEmployeeNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		default:
			log.Error().Err(err).Msg("failed to upsert salary")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
		}
	}

	activity.Record(s.db, tenantID, principal.DisplayName, auth.ModuleHRM, "salary", salary.EmployeeID, salary.Month)

	return c.JSON(salary)
}

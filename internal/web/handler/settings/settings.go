// Package settings handles the settings module: user administration,
// tenant key value settings, the activity log and self-service password
// changes.
package settings

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/bizdesk/bizdesk/internal/auth"
	"github.com/bizdesk/bizdesk/internal/config"
	"github.com/bizdesk/bizdesk/internal/db/controller/activity"
	"github.com/bizdesk/bizdesk/internal/db/controller/setting"
	"github.com/bizdesk/bizdesk/internal/tenant"
	"github.com/bizdesk/bizdesk/internal/web/handler"
)

// Path is the base path of the settings endpoints.
const Path = handler.APIPath + "/settings"

// Service provides the settings endpoints.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	provider  *auth.LocalProvider
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

type settingRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Value string `json:"value" validate:"required"`
}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.cfg = cfg
	s.provider = auth.NewLocalProvider(db)
	s.validator = validator.New()

	app.Route(Path, func(router fiber.Router) {
		// tenant key value settings
		router.Get("/general",
			auth.RequireModule(auth.ModuleSettings),
			auth.RequireTab(auth.ModuleSettings, auth.TabGeneral),
			s.ListSettings,
		)
		router.Put("/general",
			auth.RequireLevel(auth.ModuleSettings, auth.LevelFull),
			auth.RequireTab(auth.ModuleSettings, auth.TabGeneral),
			s.PutSetting,
		)
		router.Delete("/general/:name",
			auth.RequireLevel(auth.ModuleSettings, auth.LevelFull),
			auth.RequireTab(auth.ModuleSettings, auth.TabGeneral),
			s.DeleteSetting,
		)

		// activity log
		router.Get("/activity",
			auth.RequireModule(auth.ModuleSettings),
			auth.RequireTab(auth.ModuleSettings, auth.TabActivity),
			s.ListActivity,
		)

		// self service
		router.Post("/password", s.ChangePassword)

		// user administration, admin only
		s.initUserRoutes(router)
	})

	return nil
}

// ListSettings returns every key value setting of the tenant.
func (s *Service) ListSettings(c *fiber.Ctx) error {
	settings, err := setting.List(s.db, tenant.FromCtx(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to list settings")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	out := make([]fiber.Map, 0, len(settings))
	for _, item := range settings {
		out = append(out, fiber.Map{"name": item.Name, "value": string(item.Value)})
	}

	return c.JSON(out)
}

// PutSetting writes one key value setting.
func (s *Service) PutSetting(c *fiber.Ctx) error {
	in := new(settingRequest)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tenantID := tenant.FromCtx(c)

	if err := setting.Set(s.db, tenantID, in.Name, []byte(in.Value)); err != nil {
		log.Error().Err(err).Msg("failed to write setting")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	activity.Record(s.db, tenantID, auth.PrincipalFromCtx(c).DisplayName, auth.ModuleSettings, "set", in.Name, "")

	return c.JSON(fiber.Map{"status": "saved"})
}

// DeleteSetting removes one key value setting.
func (s *Service) DeleteSetting(c *fiber.Ctx) error {
	tenantID := tenant.FromCtx(c)
	name := c.Params("name")

	if err := setting.Delete(s.db, tenantID, name); err != nil {
		if errors.Is(err, setting.ErrSettingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}

		log.Error().Err(err).Msg("failed to delete setting")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	activity.Record(s.db, tenantID, auth.PrincipalFromCtx(c).DisplayName, auth.ModuleSettings, "delete", name, "")

	return c.JSON(fiber.Map{"status": "deleted"})
}

// ListActivity returns the recent activity log of the tenant.
func (s *Service) ListActivity(c *fiber.Ctx) error {
	entries, err := activity.ListRecent(s.db, tenant.FromCtx(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to list activity")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(entries)
}

type passwordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

// ChangePassword changes the password of the principal.
func (s *Service) ChangePassword(c *fiber.Ctx) error {
	in := new(passwordRequest)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	principal := auth.PrincipalFromCtx(c)

	if err := s.provider.ChangePassword(principal.ID, in.OldPassword, in.NewPassword); err != nil {
		if errors.Is(err, auth.ErrInvalidOldPassword) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		}

		log.Error().Err(err).Msg("failed to change password")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(fiber.Map{"status": "changed"})
}

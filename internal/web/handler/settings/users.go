package settings

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/bizdesk/bizdesk/internal/auth"
	"github.com/bizdesk/bizdesk/internal/db/controller/activity"
	"github.com/bizdesk/bizdesk/internal/db/models"
	"github.com/bizdesk/bizdesk/internal/tenant"
)

// DefaultPageSize for user listing pagination.
const DefaultPageSize = 25

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected suspended"`
}

type roleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin staff"`
}

type permissionsRequest struct {
	Permissions models.PermissionMap `json:"permissions" validate:"required"`
}

type tabsRequest struct {
	AllowedTabs models.TabMap `json:"allowed_tabs" validate:"required"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

func (s *Service) initUserRoutes(router fiber.Router) {
	router.Get("/users", auth.RequireAdmin(), s.ListUsers)
	router.Post("/users/:id/status", auth.RequireAdmin(), s.SetUserStatus)
	router.Post("/users/:id/role", auth.RequireAdmin(), s.SetUserRole)
	router.Put("/users/:id/permissions", auth.RequireAdmin(), s.SetUserPermissions)
	router.Put("/users/:id/tabs", auth.RequireAdmin(), s.SetUserTabs)
	router.Post("/users/:id/reset-password", auth.RequireAdmin(), s.ResetUserPassword)
}

// targetUser loads the addressed user and enforces tenant scoping. Admins
// never manage accounts of other tenants.
func (s *Service) targetUser(c *fiber.Ctx) (*models.User, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, errors.New("invalid user id")
	}

	user, err := s.provider.GetUserByID(uint64(id))
	if err != nil {
		return nil, auth.ErrUserNotFound
	}

	if user.TenantID != tenant.FromCtx(c) {
		return nil, auth.ErrUserNotFound
	}

	return user, nil
}

// ListUsers lists the users of the tenant with pagination and an optional
// status filter.
func (s *Service) ListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	pageSize := c.QueryInt("pageSize", DefaultPageSize)
	if pageSize < 1 || pageSize > 100 {
		pageSize = DefaultPageSize
	}

	status := models.UserStatus(c.Query("status"))

	users, total, err := s.provider.ListUsers(tenant.FromCtx(c), status, pageSize, (page-1)*pageSize)
	if err != nil {
		log.Error().Err(err).Msg("failed to list users")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	sanitized := make([]models.User, 0, len(users))
	for _, u := range users {
		sanitized = append(sanitized, u.Sanitized())
	}

	return c.JSON(fiber.Map{
		"users": sanitized,
		"total": total,
		"page":  page,
	})
}

// SetUserStatus moves a user through the account lifecycle.
func (s *Service) SetUserStatus(c *fiber.Ctx) error {
	user, err := s.targetUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	in := new(statusRequest)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.provider.SetStatus(user.ID, models.UserStatus(in.Status)); err != nil {
		log.Error().Err(err).Msg("failed to set user status")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	principal := auth.PrincipalFromCtx(c)
	activity.Record(s.db, user.TenantID, principal.DisplayName, auth.ModuleSettings, "user_status", user.Username, in.Status)

	return c.JSON(fiber.Map{"status": "updated"})
}

// SetUserRole flips a user between staff and admin.
func (s *Service) SetUserRole(c *fiber.Ctx) error {
	user, err := s.targetUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	in := new(roleRequest)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.provider.SetRole(user.ID, models.Role(in.Role)); err != nil {
		log.Error().Err(err).Msg("failed to set user role")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	principal := auth.PrincipalFromCtx(c)
	activity.Record(s.db, user.TenantID, principal.DisplayName, auth.ModuleSettings, "user_role", user.Username, in.Role)

	return c.JSON(fiber.Map{"status": "updated"})
}

// SetUserPermissions replaces the capability matrix of a user wholesale.
// The change takes effect on the user's next request.
func (s *Service) SetUserPermissions(c *fiber.Ctx) error {
	user, err := s.targetUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	in := new(permissionsRequest)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	for module, level := range in.Permissions {
		if level < auth.LevelNone || level > auth.LevelFull {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "permission level out of range for module " + module,
			})
		}
	}

	if err := s.provider.SetPermissions(user.ID, in.Permissions); err != nil {
		log.Error().Err(err).Msg("failed to set user permissions")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	principal := auth.PrincipalFromCtx(c)
	activity.Record(s.db, user.TenantID, principal.DisplayName, auth.ModuleSettings, "user_permissions", user.Username, "")

	return c.JSON(fiber.Map{"status": "updated"})
}

// SetUserTabs replaces the per-module tab allow-lists of a user wholesale.
func (s *Service) SetUserTabs(c *fiber.Ctx) error {
	user, err := s.targetUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	in := new(tabsRequest)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.provider.SetAllowedTabs(user.ID, in.AllowedTabs); err != nil {
		log.Error().Err(err).Msg("failed to set user tabs")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	principal := auth.PrincipalFromCtx(c)
	activity.Record(s.db, user.TenantID, principal.DisplayName, auth.ModuleSettings, "user_tabs", user.Username, "")

	return c.JSON(fiber.Map{"status": "updated"})
}

// ResetUserPassword sets a new password for a user.
func (s *Service) ResetUserPassword(c *fiber.Ctx) error {
	user, err := s.targetUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	in := new(resetPasswordRequest)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.provider.ResetPassword(user.ID, in.NewPassword); err != nil {
		log.Error().Err(err).Msg("failed to reset user password")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	principal := auth.PrincipalFromCtx(c)
	activity.Record(s.db, user.TenantID, principal.DisplayName, auth.ModuleSettings, "user_password_reset", user.Username, "")

	return c.JSON(fiber.Map{"status": "updated"})
}

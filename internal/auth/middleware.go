package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/bizdesk/bizdesk/internal/db/models"
)

// LocalsPrincipal is the fiber locals key the web auth middleware stores
// the revalidated principal under.
const LocalsPrincipal = "principal"

// PrincipalFromCtx returns the revalidated principal of the request, or
// nil when the request is unauthenticated.
func PrincipalFromCtx(c *fiber.Ctx) *models.User {
	if u, ok := c.Locals(LocalsPrincipal).(*models.User); ok {
		return u
	}

	return nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
}

// RequireModule creates Fiber middleware that requires module access
// (admin, or any level above zero).
func RequireModule(module string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := PrincipalFromCtx(c)
		if principal == nil {
			return unauthorized(c)
		}

		if !CanAccessModule(principal, module) {
			log.Warn().Uint64("user_id", principal.ID).Str("module", module).
				Msg("User lacks module access")

			return forbidden(c)
		}

		return c.Next()
	}
}

// RequireTab creates Fiber middleware that requires access to a specific
// tab within a module.
func RequireTab(module, tab string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := PrincipalFromCtx(c)
		if principal == nil {
			return unauthorized(c)
		}

		if !CanAccessTab(principal, module, tab) {
			log.Warn().Uint64("user_id", principal.ID).Str("module", module).Str("tab", tab).
				Msg("User lacks tab access")

			return forbidden(c)
		}

		return c.Next()
	}
}

// RequireLevel creates Fiber middleware that requires a minimum
// capability level on a module.
func RequireLevel(module string, minLevel int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := PrincipalFromCtx(c)
		if principal == nil {
			return unauthorized(c)
		}

		if !HasPermission(principal, module, minLevel) {
			log.Warn().Uint64("user_id", principal.ID).Str("module", module).Int("min_level", minLevel).
				Msg("User lacks required permission level")

			return forbidden(c)
		}

		return c.Next()
	}
}

// RequireAdmin creates Fiber middleware that only lets administrators pass.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := PrincipalFromCtx(c)
		if principal == nil {
			return unauthorized(c)
		}

		if !IsAdmin(principal) {
			log.Warn().Uint64("user_id", principal.ID).Msg("Admin-only route denied")

			return forbidden(c)
		}

		return c.Next()
	}
}

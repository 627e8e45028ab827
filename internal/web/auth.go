package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/bizdesk/bizdesk/internal/auth"
	"github.com/bizdesk/bizdesk/internal/db/models"
	"github.com/bizdesk/bizdesk/internal/tenant"
	"github.com/bizdesk/bizdesk/internal/web/session"
)

// publicPrefixes lists the routes reachable without a session.
var publicPrefixes = []string{
	"/api/auth/login",
	"/api/auth/register",
	"/healthz",
	"/metrics",
}

// NewAuthMiddleware returns a Fiber middleware that checks for user
// authentication. The session only carries the user id; the user row is
// re-read on every request so that status or permission changes made by
// an admin take effect on the very next request.
func NewAuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if isPublicPath(c) {
			return c.Next()
		}

		loginCookie := c.Cookies("session")
		if loginCookie == "" {
			return unauthenticated(c)
		}

		sessData := new(session.Data)
		if err := sessData.Read(loginCookie); err != nil || sessData.User.ID == 0 {
			return unauthenticated(c)
		}

		var user models.User
		if err := db.First(&user, "id = ?", sessData.User.ID).Error; err != nil {
			return unauthenticated(c)
		}

		// a suspended or rejected user loses access mid-session
		if user.Status != models.StatusApproved {
			return unauthenticated(c)
		}

		// a session never crosses tenants
		if user.TenantID != tenant.FromCtx(c) {
			return unauthenticated(c)
		}

		c.Locals(auth.LocalsPrincipal, &user)

		return c.Next()
	}
}

func isPublicPath(c *fiber.Ctx) bool {
	originalURL := strings.ToLower(c.OriginalURL())

	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(originalURL, prefix) {
			return true
		}
	}

	return false
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "authentication required",
	})
}

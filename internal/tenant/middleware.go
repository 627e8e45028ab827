package tenant

import (
	"github.com/gofiber/fiber/v2"
)

// LocalsTenant is the fiber locals key the middleware stores the resolved
// tenant slug under.
const LocalsTenant = "tenant"

// Middleware resolves the tenant once per request from the Host header
// and stores the slug in fiber locals.
func Middleware(r *Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(LocalsTenant, r.Resolve(c.Hostname()))

		return c.Next()
	}
}

// FromCtx returns the tenant slug resolved for the request.
func FromCtx(c *fiber.Ctx) string {
	if slug, ok := c.Locals(LocalsTenant).(string); ok {
		return slug
	}

	return ""
}

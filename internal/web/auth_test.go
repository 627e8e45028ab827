package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bizdesk/bizdesk/internal/auth"
	"github.com/bizdesk/bizdesk/internal/config"
	"github.com/bizdesk/bizdesk/internal/db/models"
	"github.com/bizdesk/bizdesk/internal/tenant"
	"github.com/bizdesk/bizdesk/internal/web/session"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	return db
}

func newProtectedApp(db *gorm.DB) *fiber.App {
	app := fiber.New()

	resolver := tenant.NewResolver(config.Tenant{
		BaseDomain: "bizdesk.app",
		Default:    "demo",
		Table:      map[string]string{"acme": "acme"},
	})
	app.Use(tenant.Middleware(resolver))
	app.Use(NewAuthMiddleware(db))

	app.Get("/api/ping", func(c *fiber.Ctx) error {
		principal := auth.PrincipalFromCtx(c)

		return c.JSON(fiber.Map{"user": principal.Username})
	})

	return app
}

func loginSession(t *testing.T, user *models.User, tenantID string) string {
	t.Helper()

	sessionID, err := session.GenerateSessionID()
	require.NoError(t, err)

	data := &session.Data{User: user.Sanitized(), Tenant: tenantID}
	require.NoError(t, data.Write(sessionID, time.Minute))

	return sessionID
}

func doPing(t *testing.T, app *fiber.App, host, sessionID string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Host = host

	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: sessionID})
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func TestAuthMiddlewareRevalidatesUser(t *testing.T) {
	db := newTestDB(t)
	app := newProtectedApp(db)

	session.Init(nil)

	provider := auth.NewLocalProvider(db)

	user, err := provider.Register("demo", "bob", "s3cr3tpass", "Bob", "", "")
	require.NoError(t, err)
	require.NoError(t, provider.SetStatus(user.ID, models.StatusApproved))

	sessionID := loginSession(t, user, "demo")

	// no cookie
	resp := doPing(t, app, "demo.bizdesk.app", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// valid session
	resp = doPing(t, app, "demo.bizdesk.app", sessionID)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// a session never crosses tenants
	resp = doPing(t, app, "acme.bizdesk.app", sessionID)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// suspension takes effect on the very next request
	require.NoError(t, provider.SetStatus(user.ID, models.StatusSuspended))

	resp = doPing(t, app, "demo.bizdesk.app", sessionID)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareSkipsPublicPaths(t *testing.T) {
	db := newTestDB(t)
	app := newProtectedApp(db)

	session.Init(nil)

	for _, path := range publicPrefixes {
		app.Get(path, func(c *fiber.Ctx) error { return c.SendString("ok") })
	}

	tests := []struct {
		path string
		want int
	}{
		{"/api/auth/login", http.StatusOK},
		{"/api/auth/register", http.StatusOK},
		{"/healthz", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/api/ping", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Host = "demo.bizdesk.app"

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode, "path %s", tt.path)
		})
	}
}

package login

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"gorm.io/gorm"

	"github.com/bizdesk/bizdesk/internal/auth"
	"github.com/bizdesk/bizdesk/internal/config"
	"github.com/bizdesk/bizdesk/internal/db/models"
	"github.com/bizdesk/bizdesk/internal/tenant"
	websess "github.com/bizdesk/bizdesk/internal/web/session"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate user model: %v", err)
	}

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		DevMode: false,
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute},
		},
		Tenant: config.Tenant{
			BaseDomain: "bizdesk.app",
			Default:    "demo",
			Table:      map[string]string{"acme": "acme"},
		},
	}
}

func newTestApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	app.Use(tenant.Middleware(tenant.NewResolver(cfg.Tenant)))

	return app
}

// testStorage is a minimal in-memory implementation of storage.Storage for tests.
type testStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ storage.Storage = (*testStorage)(nil)

func (s *testStorage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := s.data[key]
	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

func (s *testStorage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string][]byte)
	}

	buf := make([]byte, len(val))
	copy(buf, val)
	s.data[key] = buf

	return nil
}

func (s *testStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

func (s *testStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)

	return nil
}

func (s *testStorage) Close() error { return nil }

func initSessionStore() {
	websess.Init(&testStorage{data: make(map[string][]byte)})
}

func performLogin(t *testing.T, app *fiber.App, host, username, password string) *http.Response {
	t.Helper()

	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, Path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Host = host

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	return resp
}

func approvedUser(t *testing.T, db *gorm.DB, tenantID, username, password string) *models.User {
	t.Helper()

	lp := auth.NewLocalProvider(db)

	user, err := lp.Register(tenantID, username, password, "Test User", "", "")
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}

	if err := lp.SetStatus(user.ID, models.StatusApproved); err != nil {
		t.Fatalf("failed to approve user: %v", err)
	}

	return user
}

func TestPost_Success_SetsCookie(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	app := newTestApp(cfg)

	initSessionStore()

	var s Service
	if err := s.Init(app, cfg, db); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	approvedUser(t, db, "demo", "bob", "s3cr3tpass")

	resp := performLogin(t, app, "demo.bizdesk.app", "bob", "s3cr3tpass")
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", resp.StatusCode)
	}

	setCookie := resp.Header.Get("Set-Cookie")
	if !strings.Contains(setCookie, "session=") {
		t.Fatalf("expected session cookie, got %q", setCookie)
	}

	if !strings.Contains(setCookie, "Secure") {
		t.Fatalf("expected Secure cookie outside dev mode, got %q", setCookie)
	}
}

func TestPost_WrongPassword(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	app := newTestApp(cfg)

	initSessionStore()

	var s Service
	if err := s.Init(app, cfg, db); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	approvedUser(t, db, "demo", "bob", "s3cr3tpass")

	resp := performLogin(t, app, "demo.bizdesk.app", "bob", "wrongwrong")
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestPost_PendingUserRejected(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	app := newTestApp(cfg)

	initSessionStore()

	var s Service
	if err := s.Init(app, cfg, db); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	lp := auth.NewLocalProvider(db)
	if _, err := lp.Register("demo", "carol", "s3cr3tpass", "Carol", "", ""); err != nil {
		t.Fatalf("failed to register user: %v", err)
	}

	resp := performLogin(t, app, "demo.bizdesk.app", "carol", "s3cr3tpass")
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for pending account, got %d", resp.StatusCode)
	}
}

func TestPost_TenantScopesLogin(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	app := newTestApp(cfg)

	initSessionStore()

	var s Service
	if err := s.Init(app, cfg, db); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	// bob exists in the acme tenant only
	approvedUser(t, db, "acme", "bob", "s3cr3tpass")

	// logging in from the demo tenant must not find him
	resp := performLogin(t, app, "demo.bizdesk.app", "bob", "s3cr3tpass")
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 across tenants, got %d", resp.StatusCode)
	}

	// from his own subdomain the same credentials work
	resp2 := performLogin(t, app, "acme.bizdesk.app", "bob", "s3cr3tpass")
	defer func() { _ = resp2.Body.Close() }()

	if resp2.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on own tenant, got %d", resp2.StatusCode)
	}
}

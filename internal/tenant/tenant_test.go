package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bizdesk/bizdesk/internal/config"
)

func testResolver() *Resolver {
	return NewResolver(config.Tenant{
		BaseDomain: "bizdesk.app",
		Default:    "demo",
		Table: map[string]string{
			"acme":  "acme",
			"globo": "globo-corp",
		},
	})
}

func TestResolve(t *testing.T) {
	r := testResolver()

	tests := []struct {
		name string
		host string
		want string
	}{
		{"known subdomain", "acme.bizdesk.app", "acme"},
		{"mapped to different slug", "globo.bizdesk.app", "globo-corp"},
		{"unknown subdomain falls back", "nobody.bizdesk.app", "demo"},
		{"bare base domain falls back", "bizdesk.app", "demo"},
		{"host with port", "acme.bizdesk.app:8080", "acme"},
		{"case insensitive", "ACME.Bizdesk.App", "acme"},
		{"foreign domain falls back", "acme.example.com", "demo"},
		{"localhost falls back", "localhost:3000", "demo"},
		{"empty host falls back", "", "demo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.host))
		})
	}
}

func TestResolveIsStable(t *testing.T) {
	r := testResolver()

	// repeated resolution of the same host must not drift
	for i := 0; i < 3; i++ {
		assert.Equal(t, "acme", r.Resolve("acme.bizdesk.app"))
	}
}

func TestSlugs(t *testing.T) {
	slugs := testResolver().Slugs()

	assert.Contains(t, slugs, "demo")
	assert.Contains(t, slugs, "acme")
	assert.Contains(t, slugs, "globo-corp")
	assert.Len(t, slugs, 3)
	assert.Equal(t, "demo", slugs[0])
}

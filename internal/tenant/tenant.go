// Package tenant resolves the tenant identity of a request from its host
// name. The subdomain is looked up in a fixed table from configuration,
// with a default fallback; the resolved slug scopes every database query.
package tenant

import (
	"net"
	"strings"

	"github.com/bizdesk/bizdesk/internal/config"
)

// Resolver maps request host names to tenant slugs.
type Resolver struct {
	baseDomain string
	table      map[string]string
	fallback   string
}

// NewResolver creates a resolver from the tenant configuration.
func NewResolver(cfg config.Tenant) *Resolver {
	return &Resolver{
		baseDomain: strings.ToLower(cfg.BaseDomain),
		table:      cfg.Table,
		fallback:   cfg.Default,
	}
}

// Resolve derives the tenant slug from a request host name.
// The port is stripped, the first host label is treated as the subdomain
// and looked up in the table; bare hosts, unknown subdomains and hosts
// outside the base domain all resolve to the default slug.
func (r *Resolver) Resolve(host string) string {
	if host == "" {
		return r.fallback
	}

	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	host = strings.ToLower(host)

	if host == r.baseDomain || !strings.HasSuffix(host, "."+r.baseDomain) {
		return r.fallback
	}

	sub := strings.SplitN(host, ".", 2)[0] //nolint:mnd

	if slug, ok := r.table[sub]; ok {
		return slug
	}

	return r.fallback
}

// Slugs returns every distinct tenant slug the resolver can produce,
// including the default. Used for seeding and scheduled backups.
func (r *Resolver) Slugs() []string {
	seen := map[string]bool{r.fallback: true}
	slugs := []string{r.fallback}

	for _, slug := range r.table {
		if !seen[slug] {
			seen[slug] = true

			slugs = append(slugs, slug)
		}
	}

	return slugs
}

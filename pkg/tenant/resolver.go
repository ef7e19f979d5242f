package tenant

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Principal is the authenticated caller of a request, as far as tenant
// resolution cares: who they are and whether they carry a direct tenant
// affiliation (a customer or staff member of one store).
type Principal interface {
	// SubjectID identifies the account.
	SubjectID() uuid.UUID
	// TenantID returns the caller's direct tenant affiliation, if any.
	TenantID() (uuid.UUID, bool)
}

// Config holds the resolver knobs.
type Config struct {
	ApexDomain     string        `env:"TENANT_APEX_DOMAIN,required"`                                      // ApexDomain is the platform domain; stores live at {label}.{ApexDomain}.
	Header         string        `env:"TENANT_HEADER" envDefault:"X-Tenant-Id"`                           // Header is the explicit tenant-id override header for internal/API callers.
	ReservedLabels []string      `env:"TENANT_RESERVED_LABELS" envDefault:"www,api,admin,app,assets,mail"` // ReservedLabels are platform subdomains excluded from tenant matching.
	CacheTTL       time.Duration `env:"TENANT_CACHE_TTL" envDefault:"5m"`                                 // CacheTTL is how long catalog lookups are cached.
}

// Resolver decides which tenant owns a request, applying a fixed precedence
// order:
//
//  1. subdomain label under the platform apex domain
//  2. exact match against a verified custom domain
//  3. explicit tenant-id header referencing a non-deleted tenant
//  4. the principal's direct tenant affiliation
//  5. the principal owning exactly one non-deleted tenant
//
// The first rule that yields a tenant wins; an owner with zero or several
// stores deliberately resolves to nothing in rule 5. Resolution performs
// no writes.
type Resolver struct {
	catalog  Catalog
	apex     string
	header   string
	reserved map[string]struct{}
}

// NewResolver creates a resolver over the given catalog.
func NewResolver(catalog Catalog, cfg Config) *Resolver {
	reserved := make(map[string]struct{}, len(cfg.ReservedLabels)+1)
	// www is never a store, no matter how the platform is configured.
	reserved["www"] = struct{}{}
	for _, label := range cfg.ReservedLabels {
		reserved[strings.ToLower(strings.TrimSpace(label))] = struct{}{}
	}

	header := cfg.Header
	if header == "" {
		header = "X-Tenant-Id"
	}

	return &Resolver{
		catalog:  catalog,
		apex:     strings.ToLower(strings.Trim(cfg.ApexDomain, ".")),
		header:   header,
		reserved: reserved,
	}
}

// Resolve determines the tenant owning a request. Returns
// ErrTenantNotResolved when no rule matches; the caller decides whether
// that is fatal for the route.
func (r *Resolver) Resolve(ctx context.Context, host string, headers http.Header, principal Principal) (*Tenant, error) {
	host = normalizeHost(host)

	// 1. Wildcard subdomain under the apex domain.
	if label, ok := r.subdomainLabel(host); ok {
		t, err := r.catalog.BySubdomain(ctx, label)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, ErrTenantNotFound) {
			return nil, err
		}
	}

	// 2. Verified custom domain, only for hosts outside the apex zone.
	if host != "" && host != r.apex && !strings.HasSuffix(host, "."+r.apex) {
		t, err := r.catalog.ByDomain(ctx, host)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, ErrTenantNotFound) {
			return nil, err
		}
	}

	// 3. Explicit tenant-id header; deleted tenants are never honored.
	if raw := headers.Get(r.header); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			t, err := r.catalog.ByID(ctx, id)
			if err == nil && !t.Deleted() {
				return t, nil
			}
			if err != nil && !errors.Is(err, ErrTenantNotFound) {
				return nil, err
			}
		}
	}

	if principal != nil {
		// 4. Direct affiliation: customer or staff of one store.
		if id, ok := principal.TenantID(); ok {
			t, err := r.catalog.ByID(ctx, id)
			if err == nil && !t.Deleted() {
				return t, nil
			}
			if err != nil && !errors.Is(err, ErrTenantNotFound) {
				return nil, err
			}
		}

		// 5. Sole-owner fallback.
		owned, err := r.catalog.OwnedBy(ctx, principal.SubjectID())
		if err != nil {
			return nil, err
		}
		if len(owned) == 1 {
			return &owned[0], nil
		}
	}

	return nil, ErrTenantNotResolved
}

// subdomainLabel extracts the store label from a host under the apex
// domain. Nested labels and reserved platform words do not match.
func (r *Resolver) subdomainLabel(host string) (string, bool) {
	if r.apex == "" || !strings.HasSuffix(host, "."+r.apex) {
		return "", false
	}
	label := strings.TrimSuffix(host, "."+r.apex)
	if label == "" || strings.Contains(label, ".") {
		return "", false
	}
	if _, ok := r.reserved[label]; ok {
		return "", false
	}
	if !ValidLabel(label) {
		return "", false
	}
	return label, true
}

// normalizeHost lowercases the host and strips an optional port and
// trailing dot before any comparison.
func normalizeHost(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.ToLower(strings.TrimSuffix(host, "."))
}

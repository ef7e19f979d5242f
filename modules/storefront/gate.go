package storefront

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/storekit/pkg/schema"
	"github.com/dmitrymomot/storekit/pkg/tenant"
)

// Resolver decides which tenant owns a request.
type Resolver interface {
	Resolve(ctx context.Context, host string, headers http.Header, principal tenant.Principal) (*tenant.Tenant, error)
}

// PrincipalFunc extracts the authenticated principal from a request.
// Returning nil means the request is anonymous.
type PrincipalFunc func(r *http.Request) tenant.Principal

// Gate is the middleware every storefront request passes through. It
// resolves the owning tenant, rejects requests no servable tenant owns,
// and brackets the downstream handler with the schema scope: the database
// connection is bound to the tenant's schema before the handler runs and
// restored to the neutral schema after it returns, errors, or panics.
func Gate(resolver Resolver, binder schema.Binder, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		reject: defaultRejectHandler,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			var principal tenant.Principal
			if cfg.principal != nil {
				principal = cfg.principal(r)
			}

			t, err := resolver.Resolve(r.Context(), r.Host, r.Header, principal)
			if err != nil {
				if errors.Is(err, tenant.ErrTenantNotResolved) || errors.Is(err, tenant.ErrTenantNotFound) {
					cfg.reject(w, r, RejectStoreNotFound)
					return
				}
				cfg.log.ErrorContext(r.Context(), "tenant resolution failed", slog.Any("error", err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			if !t.Status.Servable(cfg.allowPending) {
				cfg.reject(w, r, RejectStoreInactive)
				return
			}

			ctx := tenant.WithTenant(r.Context(), t)

			// Everything from here on runs against the tenant's schema;
			// the binder guarantees the reset on every path out.
			var served bool
			err = binder.Bind(ctx, schema.Encode(t.ID), func(ctx context.Context) error {
				served = true
				next.ServeHTTP(w, r.WithContext(ctx))
				return nil
			})
			if err != nil {
				cfg.log.ErrorContext(ctx, "schema binding failed",
					slog.String("tenant_id", t.ID.String()), slog.Any("error", err))
				if !served {
					http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				}
			}
		})
	}
}

// RequireTenant guards routes mounted outside the gate that still need a
// resolved tenant in context.
func RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := tenant.FromContext(r.Context()); !ok {
			defaultRejectHandler(w, r, RejectStoreNotFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

package storefront_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storekit/modules/storefront"
	"github.com/dmitrymomot/storekit/pkg/schema"
	"github.com/dmitrymomot/storekit/pkg/tenant"
)

// fakeResolver returns a fixed tenant or error.
type fakeResolver struct {
	tenant *tenant.Tenant
	err    error
	calls  int
}

func (r *fakeResolver) Resolve(_ context.Context, _ string, _ http.Header, _ tenant.Principal) (*tenant.Tenant, error) {
	r.calls++
	return r.tenant, r.err
}

// fakeBinder records schema bindings and guarantees teardown bookkeeping
// the way the real pool binder does.
type fakeBinder struct {
	bound    []schema.Name
	exited   int
	enterErr error
}

func (b *fakeBinder) Bind(ctx context.Context, name schema.Name, fn func(ctx context.Context) error) error {
	if b.enterErr != nil {
		return b.enterErr
	}
	b.bound = append(b.bound, name)
	defer func() { b.exited++ }()
	return fn(ctx)
}

func decodeRejection(t *testing.T, body []byte) storefront.Rejection {
	t.Helper()
	var payload struct {
		Error storefront.Rejection `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload.Error
}

func TestGate(t *testing.T) {
	t.Parallel()

	acme := &tenant.Tenant{ID: uuid.New(), Subdomain: "acme", Status: tenant.StatusActive}

	t.Run("binds the tenant schema around the handler", func(t *testing.T) {
		t.Parallel()

		resolver := &fakeResolver{tenant: acme}
		binder := &fakeBinder{}

		var seen *tenant.Tenant
		handler := storefront.Gate(resolver, binder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = tenant.MustFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "http://acme.platform.test/", nil)
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, acme.ID, seen.ID)
		require.Equal(t, []schema.Name{schema.Encode(acme.ID)}, binder.bound)
		assert.Equal(t, 1, binder.exited)
	})

	t.Run("rejects unknown stores with STORE_NOT_FOUND before any binding", func(t *testing.T) {
		t.Parallel()

		resolver := &fakeResolver{err: tenant.ErrTenantNotResolved}
		binder := &fakeBinder{}

		handler := storefront.Gate(resolver, binder)(failIfReached(t))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "http://unknown.platform.test/", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		rejection := decodeRejection(t, rec.Body.Bytes())
		assert.Equal(t, "STORE_NOT_FOUND", rejection.Code)
		assert.Empty(t, binder.bound, "no schema may be bound for a rejected request")
	})

	t.Run("rejects suspended stores with STORE_INACTIVE", func(t *testing.T) {
		t.Parallel()

		suspended := &tenant.Tenant{ID: uuid.New(), Status: tenant.StatusSuspended}
		resolver := &fakeResolver{tenant: suspended}
		binder := &fakeBinder{}

		handler := storefront.Gate(resolver, binder)(failIfReached(t))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "http://acme.platform.test/", nil))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		rejection := decodeRejection(t, rec.Body.Bytes())
		assert.Equal(t, "STORE_INACTIVE", rejection.Code)
		assert.Empty(t, binder.bound)
	})

	t.Run("pending stores are rejected unless onboarding opts in", func(t *testing.T) {
		t.Parallel()

		pending := &tenant.Tenant{ID: uuid.New(), Status: tenant.StatusPending}

		rec := httptest.NewRecorder()
		storefront.Gate(&fakeResolver{tenant: pending}, &fakeBinder{})(failIfReached(t)).
			ServeHTTP(rec, httptest.NewRequest("GET", "http://p.platform.test/", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = httptest.NewRecorder()
		binder := &fakeBinder{}
		ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
		storefront.Gate(&fakeResolver{tenant: pending}, binder, storefront.WithAllowPending())(ok).
			ServeHTTP(rec, httptest.NewRequest("GET", "http://p.platform.test/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, binder.bound, 1)
	})

	t.Run("skip paths bypass resolution entirely", func(t *testing.T) {
		t.Parallel()

		resolver := &fakeResolver{err: tenant.ErrTenantNotResolved}
		binder := &fakeBinder{}

		handler := storefront.Gate(resolver, binder, storefront.WithSkipPaths("/health"))(
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "http://anything.example/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 0, resolver.calls)
		assert.Empty(t, binder.bound)
	})

	t.Run("teardown runs when the handler panics", func(t *testing.T) {
		t.Parallel()

		resolver := &fakeResolver{tenant: acme}
		binder := &fakeBinder{}

		handler := storefront.Gate(resolver, binder)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("storefront handler exploded")
		}))

		assert.Panics(t, func() {
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "http://acme.platform.test/", nil))
		})
		assert.Equal(t, 1, binder.exited, "schema teardown must run on panic")
	})

	t.Run("resolution failures other than not-found are internal errors", func(t *testing.T) {
		t.Parallel()

		resolver := &fakeResolver{err: errors.New("catalog down")}
		binder := &fakeBinder{}

		rec := httptest.NewRecorder()
		storefront.Gate(resolver, binder)(failIfReached(t)).
			ServeHTTP(rec, httptest.NewRequest("GET", "http://acme.platform.test/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Empty(t, binder.bound)
	})

	t.Run("binding failure yields service unavailable", func(t *testing.T) {
		t.Parallel()

		resolver := &fakeResolver{tenant: acme}
		binder := &fakeBinder{enterErr: schema.ErrBindFailed}

		rec := httptest.NewRecorder()
		storefront.Gate(resolver, binder)(failIfReached(t)).
			ServeHTTP(rec, httptest.NewRequest("GET", "http://acme.platform.test/", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestRequireTenant(t *testing.T) {
	t.Parallel()

	handler := storefront.RequireTenant(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "http://x/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "http://x/", nil)
	req = req.WithContext(tenant.WithTenant(req.Context(), &tenant.Tenant{ID: uuid.New()}))
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// failIfReached fails the test if the downstream handler runs.
func failIfReached(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("downstream handler must not run")
	})
}

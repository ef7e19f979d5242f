package tenant_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storekit/pkg/tenant"
)

func TestContext(t *testing.T) {
	t.Parallel()

	t.Run("stores and retrieves tenant", func(t *testing.T) {
		t.Parallel()

		store := &tenant.Tenant{ID: uuid.New(), Subdomain: "acme"}
		ctx := tenant.WithTenant(context.Background(), store)

		got, ok := tenant.FromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, store, got)

		id, ok := tenant.IDFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, store.ID, id)
	})

	t.Run("empty context yields nothing", func(t *testing.T) {
		t.Parallel()

		_, ok := tenant.FromContext(context.Background())
		assert.False(t, ok)

		_, ok = tenant.IDFromContext(context.Background())
		assert.False(t, ok)
	})

	t.Run("must panics without tenant", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			tenant.MustFromContext(context.Background())
		})
	})

	t.Run("two contexts never observe each other", func(t *testing.T) {
		t.Parallel()

		a := tenant.WithTenant(context.Background(), &tenant.Tenant{ID: uuid.New(), Subdomain: "a"})
		b := tenant.WithTenant(context.Background(), &tenant.Tenant{ID: uuid.New(), Subdomain: "b"})

		ta := tenant.MustFromContext(a)
		tb := tenant.MustFromContext(b)
		assert.NotEqual(t, ta.ID, tb.ID)
	})
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := tenant.LoggerExtractor()

	store := &tenant.Tenant{ID: uuid.New()}
	attr, ok := extract(tenant.WithTenant(context.Background(), store))
	require.True(t, ok)
	assert.Equal(t, "tenant_id", attr.Key)
	assert.Equal(t, store.ID.String(), attr.Value.String())

	_, ok = extract(context.Background())
	assert.False(t, ok)
}

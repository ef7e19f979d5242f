package tenant_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storekit/pkg/tenant"
)

func TestMemoryCache(t *testing.T) {
	t.Parallel()

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCache()
		defer cache.Close()

		store := &tenant.Tenant{ID: uuid.New()}
		cache.Set(context.Background(), "sub:acme", store, time.Minute)

		got, ok := cache.Get(context.Background(), "sub:acme")
		require.True(t, ok)
		assert.Equal(t, store.ID, got.ID)
	})

	t.Run("miss on unknown key", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCache()
		defer cache.Close()

		_, ok := cache.Get(context.Background(), "sub:unknown")
		assert.False(t, ok)
	})

	t.Run("expired entries are misses", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCache()
		defer cache.Close()

		cache.Set(context.Background(), "sub:acme", &tenant.Tenant{ID: uuid.New()}, time.Millisecond)
		time.Sleep(5 * time.Millisecond)

		_, ok := cache.Get(context.Background(), "sub:acme")
		assert.False(t, ok)
	})

	t.Run("delete removes the entry", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCache()
		defer cache.Close()

		cache.Set(context.Background(), "sub:acme", &tenant.Tenant{ID: uuid.New()}, time.Minute)
		cache.Delete(context.Background(), "sub:acme")

		_, ok := cache.Get(context.Background(), "sub:acme")
		assert.False(t, ok)
	})

	t.Run("evicts least recently used beyond capacity", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCacheWithSize(2)
		defer cache.Close()

		ctx := context.Background()
		for i := range 3 {
			cache.Set(ctx, fmt.Sprintf("id:%d", i), &tenant.Tenant{ID: uuid.New()}, time.Minute)
		}

		_, ok := cache.Get(ctx, "id:0")
		assert.False(t, ok, "oldest entry should have been evicted")
		_, ok = cache.Get(ctx, "id:2")
		assert.True(t, ok)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCache()
		require.NoError(t, cache.Close())
		require.NoError(t, cache.Close())
	})
}

func TestNoopCache(t *testing.T) {
	t.Parallel()

	cache := tenant.NewNoopCache()
	cache.Set(context.Background(), "sub:acme", &tenant.Tenant{ID: uuid.New()}, time.Minute)

	_, ok := cache.Get(context.Background(), "sub:acme")
	assert.False(t, ok)
	assert.NoError(t, cache.Close())
}

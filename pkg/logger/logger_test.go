package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storekit/pkg/environment"
	"github.com/dmitrymomot/storekit/pkg/logger"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json format by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf))
		log.Info("hello", slog.String("key", "value"))

		m := logLine(t, &buf)
		assert.Equal(t, "hello", m["msg"])
		assert.Equal(t, "value", m["key"])
	})

	t.Run("static attrs appear on every record", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(
			logger.WithOutput(&buf),
			logger.WithAttr(slog.String("service", "storefront")),
		)
		log.Info("hello")

		assert.Equal(t, "storefront", logLine(t, &buf)["service"])
	})

	t.Run("level filters records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelWarn))
		log.Info("dropped")
		assert.Zero(t, buf.Len())

		log.Warn("kept")
		assert.NotZero(t, buf.Len())
	})

	t.Run("invalid format panics at startup", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			logger.New(logger.WithFormat("xml"))
		})
	})

	t.Run("environment preset tags records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(
			logger.WithEnvironment(environment.Production, "storefront"),
			logger.WithOutput(&buf),
		)
		log.Info("hello")

		m := logLine(t, &buf)
		assert.Equal(t, "storefront", m["service"])
		assert.Equal(t, "production", m["env"])
	})
}

func TestContextExtractors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
			if v, ok := ctx.Value(testKey{}).(string); ok {
				return slog.String("tenant_id", v), true
			}
			return slog.Attr{}, false
		}),
	)

	ctx := context.WithValue(context.Background(), testKey{}, "t-123")
	log.InfoContext(ctx, "bound")

	assert.Equal(t, "t-123", logLine(t, &buf)["tenant_id"])

	buf.Reset()
	log.InfoContext(context.Background(), "unbound")
	_, ok := logLine(t, &buf)["tenant_id"]
	assert.False(t, ok, "extractor must not fire without a context value")
}

type testKey struct{}

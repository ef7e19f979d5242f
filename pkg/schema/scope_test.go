package schema_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storekit/pkg/schema"
)

// fakeSession records executed statements and can be told to fail.
type fakeSession struct {
	statements []string
	failOn     string
	failErr    error
}

func (s *fakeSession) Exec(ctx context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	if err := ctx.Err(); err != nil {
		return pgconn.CommandTag{}, err
	}
	if s.failOn != "" && s.failOn == sql {
		return pgconn.CommandTag{}, s.failErr
	}
	s.statements = append(s.statements, sql)
	return pgconn.CommandTag{}, nil
}

func TestScopeEnter(t *testing.T) {
	t.Parallel()

	name := schema.Encode(uuid.New())

	t.Run("issues the schema switch", func(t *testing.T) {
		t.Parallel()

		sess := &fakeSession{}
		scope, err := schema.Enter(context.Background(), sess, name)
		require.NoError(t, err)
		require.Len(t, sess.statements, 1)
		assert.Equal(t, "SET search_path TO "+name.Sanitized(), sess.statements[0])
		assert.Equal(t, name, scope.Schema())
		assert.True(t, scope.Active())
	})

	t.Run("rejects invalid schema names before any SQL", func(t *testing.T) {
		t.Parallel()

		sess := &fakeSession{}
		_, err := schema.Enter(context.Background(), sess, schema.Name(`x"; DROP SCHEMA public; --`))
		require.ErrorIs(t, err, schema.ErrInvalidIdentifier)
		assert.Empty(t, sess.statements)
	})

	t.Run("wraps statement failures", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		sess := &fakeSession{failOn: "SET search_path TO " + name.Sanitized(), failErr: boom}
		_, err := schema.Enter(context.Background(), sess, name)
		require.ErrorIs(t, err, schema.ErrBindFailed)
		assert.ErrorIs(t, err, boom)
	})
}

func TestScopeRebind(t *testing.T) {
	t.Parallel()

	t.Run("same schema is a no-op", func(t *testing.T) {
		t.Parallel()

		name := schema.Encode(uuid.New())
		sess := &fakeSession{}
		scope, err := schema.Enter(context.Background(), sess, name)
		require.NoError(t, err)

		require.NoError(t, scope.Rebind(context.Background(), name))
		// No second round-trip for an already-applied schema.
		assert.Len(t, sess.statements, 1)
	})

	t.Run("different schema fails loudly", func(t *testing.T) {
		t.Parallel()

		sess := &fakeSession{}
		scope, err := schema.Enter(context.Background(), sess, schema.Encode(uuid.New()))
		require.NoError(t, err)

		err = scope.Rebind(context.Background(), schema.Encode(uuid.New()))
		require.ErrorIs(t, err, schema.ErrScopeReentrancy)
		// The session was not silently switched.
		assert.Len(t, sess.statements, 1)
	})

	t.Run("rebind after exit fails", func(t *testing.T) {
		t.Parallel()

		name := schema.Encode(uuid.New())
		sess := &fakeSession{}
		scope, err := schema.Enter(context.Background(), sess, name)
		require.NoError(t, err)
		require.NoError(t, scope.Exit(context.Background()))

		assert.ErrorIs(t, scope.Rebind(context.Background(), name), schema.ErrScopeExited)
	})
}

func TestScopeExit(t *testing.T) {
	t.Parallel()

	t.Run("resets to the neutral schema exactly once", func(t *testing.T) {
		t.Parallel()

		sess := &fakeSession{}
		scope, err := schema.Enter(context.Background(), sess, schema.Encode(uuid.New()))
		require.NoError(t, err)

		require.NoError(t, scope.Exit(context.Background()))
		require.NoError(t, scope.Exit(context.Background()))

		require.Len(t, sess.statements, 2)
		assert.Equal(t, "SET search_path TO public", sess.statements[1])
		assert.False(t, scope.Active())
	})

	t.Run("escalates reset failures", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("connection gone")
		sess := &fakeSession{failOn: "SET search_path TO public", failErr: boom}
		scope, err := schema.Enter(context.Background(), sess, schema.Encode(uuid.New()))
		require.NoError(t, err)

		err = scope.Exit(context.Background())
		require.ErrorIs(t, err, schema.ErrResetFailed)
		assert.ErrorIs(t, err, boom)
	})
}

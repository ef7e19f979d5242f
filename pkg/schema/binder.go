package schema

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Binder runs a unit of work with a database connection scoped to a tenant
// schema. The function receives a context carrying the bound connection
// (see QuerierFromContext) and the active scope (see BoundSchema).
type Binder interface {
	Bind(ctx context.Context, name Name, fn func(ctx context.Context) error) error
}

// PoolConn is a checked-out pooled connection. Destroy removes the
// connection from the pool instead of returning it; it is called when the
// session's isolation state can no longer be trusted.
type PoolConn interface {
	Querier
	Release()
	Destroy(ctx context.Context)
}

// ConnPool is the pool surface PoolBinder needs.
type ConnPool interface {
	Acquire(ctx context.Context) (PoolConn, error)
}

// pgxPool adapts *pgxpool.Pool to ConnPool.
type pgxPool struct {
	pool *pgxpool.Pool
}

func (p pgxPool) Acquire(ctx context.Context) (PoolConn, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return pgxPoolConn{conn}, nil
}

type pgxPoolConn struct {
	*pgxpool.Conn
}

func (c pgxPoolConn) Release() { c.Conn.Release() }

// Destroy hijacks the connection out of the pool and closes it, so the
// pool can never hand it to another request.
func (c pgxPoolConn) Destroy(ctx context.Context) {
	_ = c.Conn.Hijack().Close(ctx)
}

// PoolBinder implements Binder on top of a connection pool.
type PoolBinder struct {
	pool ConnPool
	log  *slog.Logger
}

// BinderOption configures a PoolBinder.
type BinderOption func(*PoolBinder)

// WithBinderLogger sets the logger used for teardown failures.
func WithBinderLogger(log *slog.Logger) BinderOption {
	return func(b *PoolBinder) {
		if log != nil {
			b.log = log
		}
	}
}

// NewPoolBinder creates a Binder over a pgx connection pool.
func NewPoolBinder(pool *pgxpool.Pool, opts ...BinderOption) *PoolBinder {
	return NewBinder(pgxPool{pool}, opts...)
}

// NewBinder creates a Binder over a custom ConnPool implementation.
func NewBinder(pool ConnPool, opts ...BinderOption) *PoolBinder {
	b := &PoolBinder{pool: pool, log: slog.New(discardHandler{})}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Bind acquires a connection, binds it to the tenant schema, runs fn with
// the bound connection in the context, and restores the neutral schema on
// every path out of fn: normal return, error, panic, or caller cancellation.
//
// The reset runs on a cancellation-free copy of the context so that a
// cancelled request still leaves the connection clean for its next
// borrower. If the reset itself fails the connection is destroyed rather
// than released, because its isolation state is unknown, and the error is
// escalated to the caller.
func (b *PoolBinder) Bind(ctx context.Context, name Name, fn func(ctx context.Context) error) (err error) {
	conn, acqErr := b.pool.Acquire(ctx)
	if acqErr != nil {
		return errors.Join(ErrAcquireConn, acqErr)
	}

	scope, enterErr := Enter(ctx, conn, name)
	if enterErr != nil {
		conn.Release()
		return enterErr
	}

	defer func() {
		cleanupCtx := context.WithoutCancel(ctx)
		if exitErr := scope.Exit(cleanupCtx); exitErr != nil {
			b.log.ErrorContext(cleanupCtx, "schema reset failed, discarding connection",
				slog.String("schema", name.String()), slog.Any("error", exitErr))
			conn.Destroy(cleanupCtx)
			err = errors.Join(err, exitErr)
			return
		}
		conn.Release()
	}()

	ctx = withScope(ctx, scope)
	ctx = WithQuerier(ctx, conn)
	return fn(ctx)
}

// discardHandler drops all records; used when no logger is configured.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

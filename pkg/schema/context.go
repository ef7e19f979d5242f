package schema

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the query surface of a schema-bound connection.
// *pgxpool.Conn, *pgx.Conn and pgx.Tx all satisfy it.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type scopeKey struct{}
type querierKey struct{}

// withScope stores the active scope in the context. Only Bind creates
// scopes, so the constructor stays unexported.
func withScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// ScopeFromContext returns the active scope, if any.
func ScopeFromContext(ctx context.Context) (*Scope, bool) {
	s, ok := ctx.Value(scopeKey{}).(*Scope)
	return s, ok
}

// BoundSchema returns the schema name the current unit of work is bound to.
func BoundSchema(ctx context.Context) (Name, bool) {
	s, ok := ScopeFromContext(ctx)
	if !ok || s.exited {
		return "", false
	}
	return s.name, true
}

// WithQuerier stores the schema-bound connection in the context.
func WithQuerier(ctx context.Context, q Querier) context.Context {
	return context.WithValue(ctx, querierKey{}, q)
}

// QuerierFromContext returns the schema-bound connection for the current
// unit of work. All tenant-scoped queries must go through this connection;
// any other connection from the pool still points at the neutral schema.
func QuerierFromContext(ctx context.Context) (Querier, bool) {
	q, ok := ctx.Value(querierKey{}).(Querier)
	return q, ok
}

// MustQuerierFromContext returns the schema-bound connection or panics.
// Use only in handlers that cannot run outside a bound request.
func MustQuerierFromContext(ctx context.Context) Querier {
	q, ok := QuerierFromContext(ctx)
	if !ok {
		panic("schema: no bound connection in context")
	}
	return q
}

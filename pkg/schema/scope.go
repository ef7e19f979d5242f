package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Session is the minimal database session surface the scope guard needs.
// *pgxpool.Conn, *pgx.Conn and pgx.Tx all satisfy it.
type Session interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// resetStatement restores the neutral search path. Kept as a constant so the
// exit path never builds SQL dynamically.
const resetStatement = "SET search_path TO public"

// Scope pins a database session to a single tenant schema for the lifetime
// of a unit of work. It remembers which schema was applied so repeated
// binds of the same schema skip the round-trip, and binds of a different
// schema fail loudly instead of silently switching tenants mid-request.
//
// A Scope is owned by exactly one logical request and is not safe for
// concurrent use; the pool's checkout exclusivity guarantees that.
type Scope struct {
	sess   Session
	name   Name
	exited bool
}

// Enter issues the session-level schema switch and returns the active scope.
// The caller must arrange for Exit to run on every path out of the unit of
// work; Bind does that with a defer.
func Enter(ctx context.Context, sess Session, name Name) (*Scope, error) {
	if !name.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	if _, err := sess.Exec(ctx, "SET search_path TO "+name.Sanitized()); err != nil {
		return nil, errors.Join(ErrBindFailed, err)
	}
	return &Scope{sess: sess, name: name}, nil
}

// Rebind re-applies the scope. Binding the schema that is already active is
// a no-op; asking for a different schema while one is active is a
// programming error and returns ErrScopeReentrancy.
func (s *Scope) Rebind(ctx context.Context, name Name) error {
	if s.exited {
		return ErrScopeExited
	}
	if name == s.name {
		return nil
	}
	return fmt.Errorf("%w: bound to %s, requested %s", ErrScopeReentrancy, s.name, name)
}

// Exit unconditionally resets the session to the neutral default schema.
// It is idempotent: only the first call issues the statement. A non-nil
// error means the session's isolation state is unknown and the underlying
// connection must be discarded, never returned to the pool.
func (s *Scope) Exit(ctx context.Context) error {
	if s.exited {
		return nil
	}
	s.exited = true
	if _, err := s.sess.Exec(ctx, resetStatement); err != nil {
		return errors.Join(ErrResetFailed, err)
	}
	return nil
}

// Schema returns the schema this scope is bound to.
func (s *Scope) Schema() Name { return s.name }

// Active reports whether the scope has not been exited yet.
func (s *Scope) Active() bool { return !s.exited }

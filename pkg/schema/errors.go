package schema

import "errors"

var (
	// ErrInvalidIdentifier is returned when a value fails schema name validation.
	ErrInvalidIdentifier = errors.New("invalid tenant identifier")

	// ErrScopeReentrancy is returned when a scope is asked to bind a different
	// schema while one is already active. This is a programming error; the
	// request must be aborted rather than continue with ambiguous isolation.
	ErrScopeReentrancy = errors.New("scope already bound to a different schema")

	// ErrScopeExited is returned when a scope is used after Exit.
	ErrScopeExited = errors.New("scope already exited")

	// ErrBindFailed is returned when the search_path statement fails on enter.
	ErrBindFailed = errors.New("failed to bind schema search path")

	// ErrResetFailed is returned when the search_path reset fails on exit.
	// The session's isolation state is unknown at that point and the
	// connection must be discarded instead of returned to the pool.
	ErrResetFailed = errors.New("failed to reset schema search path")

	// ErrAcquireConn is returned when no connection could be checked out of the pool.
	ErrAcquireConn = errors.New("failed to acquire database connection")

	// ErrSchemaNotFound is returned by Migrate when the target schema does not exist.
	ErrSchemaNotFound = errors.New("tenant schema does not exist")

	// ErrProvisionFailed wraps partial failures of Provision. The operation is
	// idempotent and safe to retry.
	ErrProvisionFailed = errors.New("failed to provision tenant schema")

	// ErrMigrationFailed wraps failures of the tenant migration run.
	ErrMigrationFailed = errors.New("failed to migrate tenant schema")

	// ErrDeprovisionFailed wraps failures of the schema drop.
	ErrDeprovisionFailed = errors.New("failed to deprovision tenant schema")
)

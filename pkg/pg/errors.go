package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrConnectionFailed   = errors.New("failed to open db connection")
	ErrParseConfig        = errors.New("failed to parse db config")
	ErrHealthcheckFailed  = errors.New("db healthcheck failed")
	ErrMigrationsFailed   = errors.New("failed to apply platform migrations")
	ErrMigrationsDirEmpty = errors.New("migrations path not provided")
)

// IsNotFoundError detects pgx.ErrNoRows for consistent not-found handling.
func IsNotFoundError(err error) bool {
	return err != nil && errors.Is(err, pgx.ErrNoRows)
}

// IsDuplicateKeyError detects unique constraint violations (SQLSTATE 23505),
// e.g. a subdomain or verified hostname already taken by another tenant.
func IsDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsForeignKeyViolationError detects referential integrity violations
// (SQLSTATE 23503).
func IsForeignKeyViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// IsUndefinedSchemaError detects references to a schema that does not
// exist (SQLSTATE 3F000), the typical symptom of a tenant that was never
// provisioned.
func IsUndefinedSchemaError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "3F000"
}

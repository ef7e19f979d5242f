package schema

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// LifecycleConfig controls tenant schema provisioning.
type LifecycleConfig struct {
	MigrationsPath  string `env:"TENANT_MIGRATIONS_PATH" envDefault:"internal/db/migrations/tenant"` // MigrationsPath is the directory holding the tenant-scoped migration set.
	MigrationsTable string `env:"TENANT_MIGRATIONS_TABLE" envDefault:"schema_migrations"`            // MigrationsTable is the goose version table, created inside each tenant schema.
	AppRole         string `env:"TENANT_APP_ROLE"`                                                   // AppRole, when set, is granted usage on every provisioned schema.
}

// adminDB is the catalog-connection surface the lifecycle manager uses for
// DDL. *pgxpool.Pool satisfies it.
type adminDB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Lifecycle performs the administrative schema operations of tenant
// onboarding and offboarding. All operations are idempotent so a failed run
// can be retried by the provisioning collaborator without manual cleanup.
//
// Operations for the same tenant must be serialized by the caller;
// operations for different tenants are independent.
type Lifecycle struct {
	db      adminDB
	pool    *pgxpool.Pool
	cfg     LifecycleConfig
	log     *slog.Logger
	migrate func(ctx context.Context, name Name) error
}

// NewLifecycle creates a lifecycle manager over the given pool.
func NewLifecycle(pool *pgxpool.Pool, cfg LifecycleConfig, log *slog.Logger) *Lifecycle {
	if log == nil {
		log = slog.New(discardHandler{})
	}
	l := &Lifecycle{db: pool, pool: pool, cfg: cfg, log: log}
	l.migrate = l.runMigrations
	return l
}

// Provision creates the tenant's schema if absent, grants the application
// role access, and applies the tenant migration set. Safe to retry: every
// step checks for or tolerates prior partial completion.
func (l *Lifecycle) Provision(ctx context.Context, tenantID uuid.UUID) error {
	name := Encode(tenantID)

	if _, err := l.db.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+name.Sanitized()); err != nil {
		return errors.Join(ErrProvisionFailed, err)
	}

	if l.cfg.AppRole != "" {
		role := pgx.Identifier{l.cfg.AppRole}.Sanitize()
		// GRANT is idempotent in PostgreSQL; re-granting an existing
		// privilege is a no-op, which keeps retries clean.
		if _, err := l.db.Exec(ctx, fmt.Sprintf("GRANT USAGE, CREATE ON SCHEMA %s TO %s", name.Sanitized(), role)); err != nil {
			return errors.Join(ErrProvisionFailed, err)
		}
	}

	if err := l.migrate(ctx, name); err != nil {
		return errors.Join(ErrProvisionFailed, err)
	}

	l.log.InfoContext(ctx, "tenant schema provisioned",
		slog.String("tenant_id", tenantID.String()), slog.String("schema", name.String()))
	return nil
}

// Migrate re-applies pending migrations to an existing tenant schema. Used
// when the storefront table layout evolves after tenants already exist.
// Returns ErrSchemaNotFound if the schema was never provisioned.
func (l *Lifecycle) Migrate(ctx context.Context, tenantID uuid.UUID) error {
	name := Encode(tenantID)

	exists, err := l.schemaExists(ctx, name)
	if err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrSchemaNotFound, name)
	}

	if err := l.migrate(ctx, name); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}

	l.log.InfoContext(ctx, "tenant schema migrated", slog.String("schema", name.String()))
	return nil
}

// Deprovision irreversibly drops the tenant's schema and everything in it.
// Caller contract: the owning tenant's catalog status must already be
// "deleted" before this runs. Dropping an absent schema is a no-op so the
// operation can be retried.
func (l *Lifecycle) Deprovision(ctx context.Context, tenantID uuid.UUID) error {
	name := Encode(tenantID)

	if _, err := l.db.Exec(ctx, "DROP SCHEMA IF EXISTS "+name.Sanitized()+" CASCADE"); err != nil {
		return errors.Join(ErrDeprovisionFailed, err)
	}

	l.log.InfoContext(ctx, "tenant schema dropped",
		slog.String("tenant_id", tenantID.String()), slog.String("schema", name.String()))
	return nil
}

func (l *Lifecycle) schemaExists(ctx context.Context, name Name) (bool, error) {
	var exists bool
	err := l.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM information_schema.schemata WHERE schema_name = $1)",
		name.String(),
	).Scan(&exists)
	return exists, err
}

// gooseMu serializes migration runs. Goose configuration (dialect, table
// name, logger) is process-global, so concurrent runs for different
// tenants must not interleave their setup.
var gooseMu sync.Mutex

// runMigrations applies the tenant migration set with the session's
// search_path fixed to the tenant schema, so both the storefront tables
// and the goose version table land inside that schema.
func (l *Lifecycle) runMigrations(ctx context.Context, name Name) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	connCfg := l.pool.Config().ConnConfig.Copy()
	if connCfg.RuntimeParams == nil {
		connCfg.RuntimeParams = make(map[string]string)
	}
	connCfg.RuntimeParams["search_path"] = name.String()

	db := stdlib.OpenDB(*connCfg)
	defer func() {
		if err := db.Close(); err != nil {
			l.log.ErrorContext(ctx, "failed to close migration connection", slog.Any("error", err))
		}
	}()

	goose.SetLogger(newGooseLogger(l.log))
	goose.SetTableName(l.cfg.MigrationsTable)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, l.cfg.MigrationsPath)
}

// gooseLogger routes goose output through the application logger.
type gooseLogger struct {
	log *slog.Logger
}

func newGooseLogger(log *slog.Logger) goose.Logger {
	return &gooseLogger{log: log}
}

func (g *gooseLogger) Fatalf(format string, v ...any) {
	g.log.Error(fmt.Sprintf(format, v...))
}

func (g *gooseLogger) Printf(format string, v ...any) {
	g.log.Info(fmt.Sprintf(format, v...))
}

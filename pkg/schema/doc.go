// Package schema implements the physical isolation boundary of the platform:
// one PostgreSQL schema per tenant, selected per request via the connection
// session's search_path.
//
// The package provides four cooperating pieces:
//
//   - Name and the Encode/Decode codec: a deterministic, injection-safe
//     mapping between a tenant id and its schema name. Schema names are
//     validated against a strict allow-list before they ever reach SQL.
//
//   - Scope: a guard that pins a database session to a tenant schema for
//     the lifetime of a unit of work and resets it to the neutral default
//     on exit. A session whose reset fails is never returned to the pool.
//
//   - Binder / PoolBinder: scoped acquisition around a pgxpool connection.
//     Bind acquires a connection, enters a Scope, runs the given function
//     with the bound connection carried in the context, and exits the
//     scope on every path out, including panics and cancellation.
//
//   - Lifecycle: administrative provision/migrate/deprovision of tenant
//     schemas, running the tenant migration set with goose. All three
//     operations are safe to retry.
//
// The bound schema travels through the call graph explicitly, via the
// context returned to the Bind callback. There is no package-level mutable
// state holding "the current tenant schema"; two concurrent requests can
// never observe each other's binding.
//
// Usage:
//
//	binder := schema.NewPoolBinder(pool)
//	err := binder.Bind(ctx, schema.Encode(tenantID), func(ctx context.Context) error {
//	    q := schema.MustQuerierFromContext(ctx)
//	    _, err := q.Exec(ctx, "INSERT INTO products (name) VALUES ($1)", "mug")
//	    return err
//	})
package schema

package tenant

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Catalog is the read path into the tenant catalog. The catalog lives in
// the platform's neutral schema, so implementations must query through an
// unbound connection, never through a schema-scoped one.
type Catalog interface {
	// BySubdomain looks a tenant up by its subdomain label.
	BySubdomain(ctx context.Context, label string) (*Tenant, error)
	// ByDomain looks a tenant up by a verified custom domain hostname.
	ByDomain(ctx context.Context, hostname string) (*Tenant, error)
	// ByID looks a tenant up by id.
	ByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	// OwnedBy returns all non-deleted tenants owned by the given account.
	OwnedBy(ctx context.Context, ownerID uuid.UUID) ([]Tenant, error)
}

// querier is the minimal pgx surface the directory needs; *pgxpool.Pool
// satisfies it.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const tenantColumns = `id, owner_id, name, slug, subdomain, COALESCE(custom_domain, ''), status, plan, created_at, activated_at, suspended_at`

// Directory is the pgx-backed Catalog with a short-TTL cache in front.
// Lookups are read-only; the only mutable state is the cache.
type Directory struct {
	db    querier
	cache Cache
	ttl   time.Duration
}

// DirectoryOption configures a Directory.
type DirectoryOption func(*Directory)

// WithCache replaces the default in-memory cache.
func WithCache(cache Cache) DirectoryOption {
	return func(d *Directory) {
		if cache != nil {
			d.cache = cache
		}
	}
}

// WithCacheTTL sets how long catalog entries are cached.
func WithCacheTTL(ttl time.Duration) DirectoryOption {
	return func(d *Directory) {
		if ttl > 0 {
			d.ttl = ttl
		}
	}
}

// NewDirectory creates a Directory over the given database handle.
func NewDirectory(db querier, opts ...DirectoryOption) *Directory {
	d := &Directory{
		db:    db,
		cache: NewMemoryCache(),
		ttl:   5 * time.Minute,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Directory) BySubdomain(ctx context.Context, label string) (*Tenant, error) {
	return d.cached(ctx, "sub:"+label, func() (*Tenant, error) {
		row := d.db.QueryRow(ctx,
			`SELECT `+tenantColumns+` FROM tenants WHERE subdomain = $1`, label)
		return scanTenant(row)
	})
}

func (d *Directory) ByDomain(ctx context.Context, hostname string) (*Tenant, error) {
	return d.cached(ctx, "host:"+hostname, func() (*Tenant, error) {
		row := d.db.QueryRow(ctx,
			`SELECT t.id, t.owner_id, t.name, t.slug, t.subdomain, COALESCE(t.custom_domain, ''), t.status, t.plan, t.created_at, t.activated_at, t.suspended_at
			 FROM tenants t
			 JOIN tenant_domains d ON d.tenant_id = t.id
			 WHERE d.hostname = $1 AND d.verification = 'verified'`, hostname)
		return scanTenant(row)
	})
}

func (d *Directory) ByID(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	return d.cached(ctx, "id:"+id.String(), func() (*Tenant, error) {
		row := d.db.QueryRow(ctx,
			`SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id)
		return scanTenant(row)
	})
}

func (d *Directory) OwnedBy(ctx context.Context, ownerID uuid.UUID) ([]Tenant, error) {
	rows, err := d.db.Query(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE owner_id = $1 AND status <> 'deleted' ORDER BY created_at`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, *t)
	}
	return tenants, rows.Err()
}

// Invalidate drops every cache entry the tenant may be stored under. Call
// after catalog mutations (suspension, domain changes) so routing picks
// the change up before the TTL expires.
func (d *Directory) Invalidate(ctx context.Context, t *Tenant) {
	if t == nil {
		return
	}
	d.cache.Delete(ctx, "id:"+t.ID.String())
	d.cache.Delete(ctx, "sub:"+t.Subdomain)
	if t.CustomDomain != "" {
		d.cache.Delete(ctx, "host:"+t.CustomDomain)
	}
}

// Close releases the cache resources.
func (d *Directory) Close() error {
	return d.cache.Close()
}

func (d *Directory) cached(ctx context.Context, key string, load func() (*Tenant, error)) (*Tenant, error) {
	if t, ok := d.cache.Get(ctx, key); ok {
		return t, nil
	}
	t, err := load()
	if err != nil {
		return nil, err
	}
	d.cache.Set(ctx, key, t, d.ttl)
	return t, nil
}

func scanTenant(row pgx.Row) (*Tenant, error) {
	var t Tenant
	err := row.Scan(
		&t.ID, &t.OwnerID, &t.Name, &t.Slug, &t.Subdomain, &t.CustomDomain,
		&t.Status, &t.Plan, &t.CreatedAt, &t.ActivatedAt, &t.SuspendedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return &t, nil
}

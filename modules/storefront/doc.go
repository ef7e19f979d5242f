// Package storefront wires tenant resolution and schema isolation into an
// HTTP request pipeline.
//
// The gate is the single orchestration point: it resolves the owning
// tenant for every request, rejects requests without a servable tenant
// (STORE_NOT_FOUND, STORE_INACTIVE), and brackets the downstream handler
// with the database schema scope so every query inside the request runs
// against the tenant's own schema. The connection is restored to the
// neutral schema before it can be reused by another request.
package storefront

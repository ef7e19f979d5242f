// Package tenant provides the tenant catalog read path and request
// resolution for the schema-per-tenant storefront platform.
//
// A Tenant is one isolated merchant store. The catalog (tenants and their
// custom domains) lives in the platform's neutral database schema; each
// tenant's business data lives in its own schema, handled by the schema
// package.
//
// # Resolution
//
// Resolver maps an inbound request (host, headers, authenticated
// principal) to a tenant using a fixed precedence order: platform
// subdomain, verified custom domain, explicit X-Tenant-Id header, the
// principal's direct affiliation, and finally the principal owning exactly
// one store. Hosts are compared with ports stripped, and reserved platform
// labels (www, api, ...) never match a store.
//
// # Catalog access
//
// Directory implements Catalog over pgx with a bounded, short-TTL cache in
// front (in-memory by default, Redis-backed via NewRedisCache for
// multi-instance deployments).
//
// # Context propagation
//
// The resolved tenant travels through the request explicitly via
// WithTenant/FromContext. LoggerExtractor plugs into the logger package so
// every log record of a bound request carries the tenant id.
package tenant

package tenant

import "errors"

var (
	// ErrTenantNotFound is returned when no tenant matches a catalog lookup.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrTenantNotResolved is returned when no resolution rule yields a
	// tenant for a request. The caller decides whether that is fatal.
	ErrTenantNotResolved = errors.New("no tenant resolved for request")

	// ErrTenantInactive is returned when a resolved tenant's status forbids
	// serving the request.
	ErrTenantInactive = errors.New("tenant is inactive")

	// ErrNoTenantInContext is returned when no tenant is found in context.
	ErrNoTenantInContext = errors.New("no tenant in context")

	// ErrInvalidLabel is returned when a string cannot be used as a
	// subdomain label.
	ErrInvalidLabel = errors.New("invalid subdomain label")

	// ErrInvalidTransition is returned for illegal status transitions.
	ErrInvalidTransition = errors.New("invalid tenant status transition")
)

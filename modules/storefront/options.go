package storefront

import "log/slog"

// config holds gate configuration.
type config struct {
	skipPaths    []string
	allowPending bool
	reject       RejectHandler
	principal    PrincipalFunc
	log          *slog.Logger
}

// Option configures the gate.
type Option func(*config)

// WithSkipPaths sets path prefixes that bypass tenant resolution entirely
// (health checks, platform-level endpoints).
func WithSkipPaths(paths ...string) Option {
	return func(c *config) {
		c.skipPaths = append(c.skipPaths, paths...)
	}
}

// WithAllowPending lets pending tenants through; used by onboarding flows
// where the store is reachable before activation.
func WithAllowPending() Option {
	return func(c *config) {
		c.allowPending = true
	}
}

// WithRejectHandler replaces the JSON rejection response.
func WithRejectHandler(h RejectHandler) Option {
	return func(c *config) {
		if h != nil {
			c.reject = h
		}
	}
}

// WithPrincipal sets the extractor for the authenticated principal.
func WithPrincipal(fn PrincipalFunc) Option {
	return func(c *config) {
		c.principal = fn
	}
}

// WithLogger sets the gate logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

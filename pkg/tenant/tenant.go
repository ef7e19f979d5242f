package tenant

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a tenant. Tenants are never physically
// removed from the catalog; deletion is a terminal status transition.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusDeleted   Status = "deleted"
)

// transitions is the legal status transition table. Deleted is terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusActive, StatusDeleted},
	StatusActive:    {StatusSuspended, StatusDeleted},
	StatusSuspended: {StatusActive, StatusDeleted},
	StatusDeleted:   {},
}

// CanTransitionTo reports whether moving to the given status is legal.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition validates and returns the next status.
func (s Status) Transition(next Status) (Status, error) {
	if !s.CanTransitionTo(next) {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
	}
	return next, nil
}

// Servable reports whether requests may be routed to a tenant in this
// status. Active tenants are always servable; pending tenants only during
// onboarding flows that opt in.
func (s Status) Servable(allowPending bool) bool {
	switch s {
	case StatusActive:
		return true
	case StatusPending:
		return allowPending
	default:
		return false
	}
}

// Tenant is one isolated merchant account within the shared platform.
// Its business data lives in a dedicated database schema derived from ID.
type Tenant struct {
	ID           uuid.UUID  `json:"id"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	Subdomain    string     `json:"subdomain"`
	CustomDomain string     `json:"custom_domain,omitempty"`
	Status       Status     `json:"status"`
	Plan         string     `json:"plan"`
	CreatedAt    time.Time  `json:"created_at"`
	ActivatedAt  *time.Time `json:"activated_at,omitempty"`
	SuspendedAt  *time.Time `json:"suspended_at,omitempty"`
}

// Deleted reports whether the tenant has been soft-deleted.
func (t *Tenant) Deleted() bool {
	return t.Status == StatusDeleted
}

// VerificationStatus is the verification state of a custom domain.
type VerificationStatus string

const (
	DomainPending   VerificationStatus = "pending"
	DomainVerifying VerificationStatus = "verifying"
	DomainVerified  VerificationStatus = "verified"
	DomainFailed    VerificationStatus = "failed"
)

// Domain is a custom hostname bound to exactly one tenant. A verified
// hostname is globally unique across all tenants; only verified domains
// participate in request routing.
type Domain struct {
	Hostname     string             `json:"hostname"`
	TenantID     uuid.UUID          `json:"tenant_id"`
	Primary      bool               `json:"is_primary"`
	Verification VerificationStatus `json:"verification"`
	TLSIssuer    string             `json:"tls_issuer,omitempty"`
	TLSExpiresAt *time.Time         `json:"tls_expires_at,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

// Verified reports whether the domain may be used for routing.
func (d *Domain) Verified() bool {
	return d.Verification == DomainVerified
}

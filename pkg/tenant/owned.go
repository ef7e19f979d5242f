package tenant

import "github.com/google/uuid"

// OwnedByTenant is the capability every tenant-owned entity implements.
// Ownership checks go through this interface instead of probing struct
// fields at runtime, so an entity that forgets to declare its owner fails
// to compile rather than silently passing permission checks.
type OwnedByTenant interface {
	OwnerTenantID() uuid.UUID
}

// Owns reports whether the entity belongs to the given tenant.
func Owns(t *Tenant, entity OwnedByTenant) bool {
	if t == nil || entity == nil {
		return false
	}
	return t.ID == entity.OwnerTenantID()
}

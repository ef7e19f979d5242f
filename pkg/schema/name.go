package schema

import (
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Name is a validated physical schema identifier. Values are only produced
// by Encode or Parse, so a non-empty Name is always safe to interpolate
// into DDL after quoting.
type Name string

const (
	// Prefix is prepended to every tenant schema name.
	Prefix = "tenant_"

	// Default is the neutral schema every session is reset to before a
	// connection may return to the pool. The platform catalog (tenants,
	// domains) lives here.
	Default Name = "public"
)

// namePattern is the full allow-list for tenant schema names: the fixed
// prefix followed by the 32 hex characters of a UUID. Nothing user-supplied
// can produce a matching value except a well-formed tenant id.
var namePattern = regexp.MustCompile(`^tenant_[0-9a-f]{32}$`)

// Encode derives the schema name for a tenant id. The mapping is pure and
// bijective: the id's 16 bytes hex-encoded after the fixed prefix. It is
// stable for the tenant's lifetime and never reused, since tenant ids are
// never reused.
func Encode(id uuid.UUID) Name {
	return Name(Prefix + hex.EncodeToString(id[:]))
}

// EncodeID derives the schema name from an untrusted textual tenant id.
// Unlike Encode it defends against out-of-policy input: the value must be
// a canonical, non-nil UUID or ErrInvalidIdentifier is returned before any
// SQL could be constructed from it.
func EncodeID(raw string) (Name, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, raw)
	}
	if id == uuid.Nil {
		return "", fmt.Errorf("%w: nil uuid", ErrInvalidIdentifier)
	}
	// uuid.Parse accepts urn: and braced forms; require the canonical one
	// so the id-to-schema mapping stays bijective.
	if !strings.EqualFold(raw, id.String()) {
		return "", fmt.Errorf("%w: %q is not canonical", ErrInvalidIdentifier, raw)
	}
	return Encode(id), nil
}

// Decode recovers the tenant id from a schema name. It is the exact inverse
// of Encode.
func Decode(n Name) (uuid.UUID, error) {
	if !namePattern.MatchString(string(n)) {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, n)
	}
	b, err := hex.DecodeString(strings.TrimPrefix(string(n), Prefix))
	if err != nil {
		return uuid.Nil, errors.Join(ErrInvalidIdentifier, err)
	}
	return uuid.FromBytes(b)
}

// Parse validates an arbitrary string against the schema name allow-list.
func Parse(s string) (Name, error) {
	if !namePattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
	}
	return Name(s), nil
}

// Valid reports whether the name matches the allow-list.
func (n Name) Valid() bool {
	return namePattern.MatchString(string(n))
}

// Sanitized returns the name quoted for safe use in DDL statements.
func (n Name) Sanitized() string {
	return pgx.Identifier{string(n)}.Sanitize()
}

func (n Name) String() string { return string(n) }

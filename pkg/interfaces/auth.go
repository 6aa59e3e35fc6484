package interfaces

import (
	"context"

	"github.com/clinichq/clinic-backend/pkg/types"
)

// TokenAuthority issues and verifies role-scoped access tokens.
type TokenAuthority interface {
	// Issue produces a signed token binding subject and role. It fails
	// only on internal signing errors.
	Issue(subject string, role types.Role) (*types.AuthToken, error)

	// Validate reports whether the token is well-formed, unexpired,
	// and carries one of the given roles. It is a predicate: malformed
	// or expired tokens return false, never an error.
	Validate(tokenString string, roles ...types.Role) bool

	// Subject extracts the subject identifier from a token. It returns
	// an authentication error when the token cannot be parsed.
	Subject(tokenString string) (string, error)
}

// AccessGate is the single authorization path every mutating or
// sensitive read operation passes through before touching the ledger
// or resolver.
type AccessGate interface {
	// Require validates the token against the allowed roles and
	// returns the token subject. On failure it returns an
	// authorization error and the caller must perform no side effect.
	Require(tokenString string, action string, roles ...types.Role) (string, error)
}

// IdentityService owns login and registration flows.
type IdentityService interface {
	LoginAdmin(ctx context.Context, username, password string) (*types.AuthToken, error)
	LoginDoctor(ctx context.Context, email, password string) (*types.AuthToken, error)
	LoginPatient(ctx context.Context, email, password string) (*types.AuthToken, error)
	RegisterPatient(ctx context.Context, patient *types.Patient, password string) (*types.Patient, error)
}

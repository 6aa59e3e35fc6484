package auth

import (
	"github.com/clinichq/clinic-backend/pkg/interfaces"
	"github.com/clinichq/clinic-backend/pkg/logger"
	"github.com/clinichq/clinic-backend/pkg/types"
)

// Gate is the single authorization path in front of every mutating or
// sensitive read operation. It composes the token authority and audit
// logging; it holds no scheduling or ledger logic.
type Gate struct {
	authority interfaces.TokenAuthority
	logger    *logger.Logger
}

// NewGate creates a new access gate
func NewGate(authority interfaces.TokenAuthority, log *logger.Logger) *Gate {
	return &Gate{
		authority: authority,
		logger:    log,
	}
}

// Require validates the token against the allowed roles and returns
// the token subject. On failure the caller must short-circuit without
// side effects.
func (g *Gate) Require(tokenString string, action string, roles ...types.Role) (string, error) {
	if !g.authority.Validate(tokenString, roles...) {
		g.logger.Audit("unknown", action, rolesResource(roles), false)
		return "", types.NewAuthorizationError(types.ErrCodeUnauthorized, "invalid or expired token")
	}

	subject, err := g.authority.Subject(tokenString)
	if err != nil {
		// Validate succeeded so this should not happen, but the gate
		// fails closed regardless.
		g.logger.Audit("unknown", action, rolesResource(roles), false)
		return "", err
	}

	g.logger.Audit(subject, action, rolesResource(roles), true)
	return subject, nil
}

func rolesResource(roles []types.Role) string {
	if len(roles) == 1 {
		return string(roles[0])
	}
	resource := ""
	for i, role := range roles {
		if i > 0 {
			resource += "|"
		}
		resource += string(role)
	}
	return resource
}

package auth

import (
	"github.com/spec-kit/ticket-booking/internal/domain"
	apperrors "github.com/spec-kit/ticket-booking/pkg/util"
)

// Principal represents the authenticated caller.
type Principal struct {
	Username string
	Role     domain.Role
}

// Authenticate verifies a session token and returns its principal.
func (tm *TokenManager) Authenticate(token string) (*Principal, error) {
	if token == "" {
		return nil, apperrors.NewUnauthorized("missing session token")
	}
	claims, err := tm.ParseToken(token)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid session token")
	}
	if !claims.Role.Valid() {
		return nil, apperrors.NewUnauthorized("unknown role")
	}
	return &Principal{Username: claims.Username, Role: claims.Role}, nil
}

// RequireRole ensures the token belongs to one of the allowed roles.
// An empty allowed list accepts any authenticated principal.
func (tm *TokenManager) RequireRole(token string, allowed ...domain.Role) (*Principal, error) {
	principal, err := tm.Authenticate(token)
	if err != nil {
		return nil, err
	}
	if len(allowed) == 0 {
		return principal, nil
	}
	for _, role := range allowed {
		if principal.Role == role {
			return principal, nil
		}
	}
	return nil, apperrors.NewForbidden("insufficient role")
}

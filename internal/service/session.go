package service

import (
	"time"

	"github.com/spec-kit/ticket-booking/internal/domain"
)

// Session carries the logged-in actor through every booking operation.
type Session struct {
	Username  string
	Role      domain.Role
	Token     string
	ExpiresAt time.Time
}

// IsAdmin reports whether the session was opened by an administrator.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == domain.RoleAdmin
}

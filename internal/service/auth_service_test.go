package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-booking/internal/auth"
	"github.com/spec-kit/ticket-booking/internal/domain"
	apperrors "github.com/spec-kit/ticket-booking/pkg/util"
)

type scriptedCredentials struct {
	attempts [][2]string
	next     int
	rejected []int
}

func (s *scriptedCredentials) Credentials(context.Context) (string, string, error) {
	if s.next >= len(s.attempts) {
		return "", "", errors.New("no more input")
	}
	a := s.attempts[s.next]
	s.next++
	return a[0], a[1], nil
}

func (s *scriptedCredentials) Rejected(_ context.Context, remaining int) {
	s.rejected = append(s.rejected, remaining)
}

func TestAuthenticate(t *testing.T) {
	authSvc, err := NewAuthService(testAuthConfig(), zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	session, err := authSvc.Authenticate(ctx, "ADMIN", "admin123123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, session.Role)
	assert.Equal(t, "admin", session.Username)
	assert.True(t, session.IsAdmin())

	session, err = authSvc.Authenticate(ctx, " alice ", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, session.Role)
	assert.Equal(t, "alice", session.Username)
	assert.False(t, session.IsAdmin())

	principal, err := authSvc.TokenManager().RequireRole(session.Token, domain.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "alice", principal.Username)

	session, err = authSvc.Authenticate(ctx, "Admin", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, session.Role)
	assert.Equal(t, SharedUsername, session.Username, "admin name without a password opens the shared account")

	for _, creds := range [][2]string{
		{"admin", "wrong"},
		{"alice", "secret"},
		{"", ""},
		{"", "admin123123"},
	} {
		_, err := authSvc.Authenticate(ctx, creds[0], creds[1])
		assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized), "credentials %q", creds)
	}
}

func TestAuthenticate_UsesConfiguredHash(t *testing.T) {
	hash, err := auth.HashPassword("s3cret", 4)
	require.NoError(t, err)

	cfg := testAuthConfig()
	cfg.AdminPasswordHash = hash
	authSvc, err := NewAuthService(cfg, zap.NewNop())
	require.NoError(t, err)

	_, err = authSvc.Authenticate(context.Background(), "admin", "admin123123")
	assert.Error(t, err)
	_, err = authSvc.Authenticate(context.Background(), "admin", "s3cret")
	assert.NoError(t, err)
}

func TestLogin_RetriesUntilSuccess(t *testing.T) {
	authSvc, err := NewAuthService(testAuthConfig(), zap.NewNop())
	require.NoError(t, err)

	src := &scriptedCredentials{attempts: [][2]string{{"admin", "nope"}, {"", ""}, {"admin", "admin123123"}}}
	session, err := authSvc.Login(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, session.Role)
	assert.Equal(t, []int{2, 1}, src.rejected)
}

func TestLogin_ExhaustsAttempts(t *testing.T) {
	authSvc, err := NewAuthService(testAuthConfig(), zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, 3, authSvc.MaxAttempts())

	src := &scriptedCredentials{attempts: [][2]string{{"a", "b"}, {"c", "d"}, {"e", "f"}, {"admin", "admin123123"}}}
	_, err = authSvc.Login(context.Background(), src)
	assert.ErrorIs(t, err, ErrLoginAttemptsExceeded)
	assert.Equal(t, 3, src.next, "no prompt after the last allowed attempt")
}

func TestLogin_PropagatesInputErrors(t *testing.T) {
	authSvc, err := NewAuthService(testAuthConfig(), zap.NewNop())
	require.NoError(t, err)

	_, err = authSvc.Login(context.Background(), &scriptedCredentials{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLoginAttemptsExceeded)
}

func TestIDGenerator(t *testing.T) {
	taken := map[string]bool{"tick002": true, "tick003": true}
	gen := NewIDGenerator(func(id string) bool { return taken[id] })

	assert.Equal(t, "tick001", gen.Next())
	assert.Equal(t, "tick004", gen.Next())

	gen = NewIDGenerator(nil)
	for i := 0; i < 999; i++ {
		gen.Next()
	}
	assert.Equal(t, "tick1000", gen.Next())
}

package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-booking/internal/auth"
	"github.com/spec-kit/ticket-booking/internal/config"
	"github.com/spec-kit/ticket-booking/internal/domain"
	apperrors "github.com/spec-kit/ticket-booking/pkg/util"
)

// SharedUsername owns tickets booked by a regular session opened under the admin name.
const SharedUsername = "user"

// ErrLoginAttemptsExceeded is returned once every allowed attempt has failed.
var ErrLoginAttemptsExceeded = errors.New("maximum login attempts exceeded")

// CredentialSource supplies credentials for one login attempt.
type CredentialSource interface {
	Credentials(ctx context.Context) (username, password string, err error)
	Rejected(ctx context.Context, remaining int)
}

// AuthService coordinates the login flow.
type AuthService struct {
	adminUsername string
	adminHash     string
	maxAttempts   int
	tokenMgr      *auth.TokenManager
	logger        *zap.Logger
}

// NewAuthService builds the service. A configured hash wins over the plaintext password,
// which is hashed once here so both paths compare through bcrypt.
func NewAuthService(cfg config.AuthConfig, logger *zap.Logger) (*AuthService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	hash := strings.TrimSpace(cfg.AdminPasswordHash)
	if hash == "" {
		hashed, err := auth.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		hash = hashed
	}
	maxAttempts := cfg.MaxLoginAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	adminUsername := strings.ToLower(strings.TrimSpace(cfg.AdminUsername))
	if adminUsername == "" {
		adminUsername = "admin"
	}
	return &AuthService{
		adminUsername: adminUsername,
		adminHash:     hash,
		maxAttempts:   maxAttempts,
		tokenMgr:      auth.NewTokenManager(cfg.SessionSecret, cfg.SessionTTL()),
		logger:        logger,
	}, nil
}

// TokenManager exposes the session token manager for role checks.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// MaxAttempts returns the configured attempt limit.
func (s *AuthService) MaxAttempts() int {
	return s.maxAttempts
}

// Authenticate checks one set of credentials.
// The admin name is matched case-insensitively. Any non-empty name with an empty
// password opens a regular user session; the admin name without a password opens
// the shared SharedUsername account.
func (s *AuthService) Authenticate(_ context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	isAdminName := strings.ToLower(username) == s.adminUsername

	if isAdminName && password != "" {
		if err := auth.ComparePassword(s.adminHash, password); err == nil {
			return s.openSession(s.adminUsername, domain.RoleAdmin)
		}
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if username != "" && password == "" {
		if isAdminName {
			username = SharedUsername
		}
		return s.openSession(username, domain.RoleUser)
	}
	return nil, apperrors.NewUnauthorized("invalid credentials")
}

// Login asks src for credentials until one set is accepted or the attempt limit is hit.
func (s *AuthService) Login(ctx context.Context, src CredentialSource) (*Session, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		username, password, err := src.Credentials(ctx)
		if err != nil {
			return nil, err
		}
		session, err := s.Authenticate(ctx, username, password)
		if err == nil {
			s.logger.Info("login succeeded",
				zap.String("username", session.Username),
				zap.String("role", string(session.Role)),
				zap.Int("attempt", attempt))
			return session, nil
		}
		if !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
			return nil, err
		}
		s.logger.Warn("login failed", zap.Int("attempt", attempt), zap.Int("max_attempts", s.maxAttempts))
		src.Rejected(ctx, s.maxAttempts-attempt)
	}
	return nil, ErrLoginAttemptsExceeded
}

func (s *AuthService) openSession(username string, role domain.Role) (*Session, error) {
	token, exp, err := s.tokenMgr.GenerateToken(username, role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{Username: username, Role: role, Token: token, ExpiresAt: exp}, nil
}

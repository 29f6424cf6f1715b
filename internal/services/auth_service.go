package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"employee-service/internal/apperrors"
	"employee-service/internal/cache"
	"employee-service/internal/models"
	"employee-service/internal/repository"
)

const sessionTokenBytes = 32

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// dummyPasswordHash is compared against when the username does not exist so
// both failure paths cost one bcrypt comparison
func dummyPasswordHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	})
	return dummyHash
}

// LoginResult is a successful login. Token is only ever written to the cookie.
type LoginResult struct {
	Response  models.LoginResponse
	Token     string
	ExpiresAt time.Time
}

// ClientInfo describes the caller of a login
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// AuthService is the session/identity resolver
type AuthService struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	limiter    cache.AttemptLimiter
	sessionTTL time.Duration
	logger     *logrus.Entry
}

// NewAuthService builds the resolver. A nil limiter disables login throttling.
func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, limiter cache.AttemptLimiter, sessionTTL time.Duration, logger *logrus.Logger) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		limiter:    limiter,
		sessionTTL: sessionTTL,
		logger:     logger.WithField("component", "auth.service"),
	}
}

// Login verifies credentials and opens a session
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest, client ClientInfo) (*LoginResult, error) {
	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.Password)
	if username == "" || password == "" {
		return nil, apperrors.NewValidation("Username and password are required", nil)
	}

	if err := s.checkThrottle(ctx, client.IPAddress); err != nil {
		return nil, err
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewInternal(err)
		}
		_ = bcrypt.CompareHashAndPassword(dummyPasswordHash(), []byte(req.Password))
		s.recordFailure(ctx, client.IPAddress, username)
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.recordFailure(ctx, client.IPAddress, username)
		return nil, apperrors.ErrInvalidCredentials
	}

	provinceID := ""
	if user.ProvinceID != nil {
		provinceID = user.ProvinceID.String()
	}
	identity, err := models.NewIdentity(user.ID.String(), user.Role, provinceID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Error("Stored user cannot form a valid identity")
		return nil, apperrors.NewForbidden("Account is not configured for access")
	}

	token, err := repository.GenerateSecureToken(sessionTokenBytes)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}

	session := &models.Session{
		TokenHash:  repository.HashToken(token),
		UserID:     user.ID,
		Role:       identity.Role,
		ProvinceID: user.ProvinceID,
		ExpiresAt:  time.Now().Add(s.sessionTTL),
	}
	if identity.Role == models.RoleGlobalAdmin {
		session.ProvinceID = nil
	}
	if client.IPAddress != "" {
		session.IPAddress = &client.IPAddress
	}
	if client.UserAgent != "" {
		session.UserAgent = &client.UserAgent
	}

	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, apperrors.NewInternal(err)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, client.IPAddress); err != nil {
			s.logger.WithError(err).Warn("Failed to reset login attempts")
		}
	}
	if err := s.users.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		s.logger.WithError(err).Warn("Failed to update last login")
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    identity.Role,
	}).Info("User logged in")

	return &LoginResult{
		Response: models.LoginResponse{
			Role:       identity.Role,
			ProvinceID: identity.ProvinceID,
		},
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// ResolveSession maps a session cookie token to the caller identity. It is read-only.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*models.Identity, *models.Session, error) {
	if token == "" {
		return nil, nil, apperrors.NewUnauthenticated("Authentication required")
	}

	session, err := s.sessions.GetSessionByTokenHash(ctx, repository.HashToken(token))
	switch {
	case errors.Is(err, repository.ErrSessionNotFound), errors.Is(err, repository.ErrSessionRevoked):
		return nil, nil, apperrors.NewUnauthenticated("Invalid session")
	case errors.Is(err, repository.ErrSessionExpired):
		return nil, nil, apperrors.NewUnauthenticated("Session expired")
	case err != nil:
		return nil, nil, apperrors.NewInternal(err)
	}

	identity, err := session.Identity()
	if err != nil {
		s.logger.WithError(err).WithField("session_id", session.ID).Warn("Session does not carry a valid identity")
		return nil, nil, apperrors.NewUnauthenticated("Invalid session")
	}

	return identity, session, nil
}

// Logout revokes the session
func (s *AuthService) Logout(ctx context.Context, session *models.Session) error {
	if session == nil {
		return apperrors.NewUnauthenticated("Authentication required")
	}
	if err := s.sessions.RevokeSession(ctx, session.ID, "logout"); err != nil {
		return apperrors.NewInternal(err)
	}
	return nil
}

// CleanupExpiredSessions is run periodically from main
func (s *AuthService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessions.CleanupExpiredSessions(ctx)
}

func (s *AuthService) checkThrottle(ctx context.Context, key string) error {
	if s.limiter == nil {
		return nil
	}
	allowed, retryAfter, err := s.limiter.Allow(ctx, key)
	if err != nil {
		s.logger.WithError(err).Warn("Login throttle lookup failed")
		return nil
	}
	if !allowed {
		s.logger.WithField("ip", key).Warn("Login throttled")
		return apperrors.NewTooManyAttempts(int(math.Ceil(retryAfter.Seconds())))
	}
	return nil
}

func (s *AuthService) recordFailure(ctx context.Context, key, username string) {
	s.logger.WithFields(logrus.Fields{
		"ip":       key,
		"username": username,
	}).Warn("Failed login attempt")

	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, key); err != nil {
		s.logger.WithError(err).Warn("Failed to record login attempt")
	}
}

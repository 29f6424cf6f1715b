package repository

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"employee-service/internal/models"
)

// Common errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrSessionRevoked  = errors.New("session has been revoked")
)

// SessionRepository defines server-side session operations
type SessionRepository interface {
	CreateSession(ctx context.Context, session *models.Session) error
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (*models.Session, error)
	RevokeSession(ctx context.Context, sessionID uuid.UUID, reason string) error
	RevokeUserSessions(ctx context.Context, userID uuid.UUID, reason string) error
	CleanupExpiredSessions(ctx context.Context) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) CreateSession(ctx context.Context, session *models.Session) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	now := time.Now()
	session.CreatedAt = now
	session.LastActivityAt = now
	session.IsActive = true

	return r.db.WithContext(ctx).Create(session).Error
}

// GetSessionByTokenHash returns only live sessions; revoked and expired ones
// map to their sentinel errors
func (r *sessionRepository) GetSessionByTokenHash(ctx context.Context, tokenHash string) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if !session.IsActive {
		return nil, ErrSessionRevoked
	}

	if time.Now().After(session.ExpiresAt) {
		return nil, ErrSessionExpired
	}

	return &session, nil
}

func (r *sessionRepository) RevokeSession(ctx context.Context, sessionID uuid.UUID, reason string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", sessionID).
		Updates(map[string]interface{}{
			"is_active":      false,
			"revoked_at":     now,
			"revoked_reason": reason,
		}).Error
}

func (r *sessionRepository) RevokeUserSessions(ctx context.Context, userID uuid.UUID, reason string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.Session{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Updates(map[string]interface{}{
			"is_active":      false,
			"revoked_at":     now,
			"revoked_reason": reason,
		}).Error
}

// CleanupExpiredSessions deletes expired sessions and revoked ones older than a day
func (r *sessionRepository) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Or("is_active = ? AND revoked_at < ?", false, now.Add(-24*time.Hour)).
		Delete(&models.Session{})

	return result.RowsAffected, result.Error
}

// ===========================================
// Token Generation Utilities
// ===========================================

// GenerateSecureToken returns a URL-safe random token of length random bytes
func GenerateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	token := base64.URLEncoding.EncodeToString(bytes)
	return strings.TrimRight(token, "="), nil
}

// HashToken is the storage form of a session token
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ===========================================
// User (credential record)
// ===========================================

// User is the stored credential record an Identity is created from
type User struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Username     string     `json:"username" gorm:"not null;uniqueIndex"`
	PasswordHash string     `json:"-" gorm:"column:password_hash;not null"`
	Role         Role       `json:"role" gorm:"type:varchar(32);not null"`
	ProvinceID   *uuid.UUID `json:"provinceId,omitempty" gorm:"type:uuid;index"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// ===========================================
// Session
// ===========================================

// Session is the server-side record bound to a session cookie. Only the
// SHA-256 hash of the cookie token is stored.
type Session struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	TokenHash      string     `json:"-" gorm:"column:token_hash;not null;uniqueIndex"`
	UserID         uuid.UUID  `json:"userId" gorm:"type:uuid;not null;index"`
	Role           Role       `json:"role" gorm:"type:varchar(32);not null"`
	ProvinceID     *uuid.UUID `json:"provinceId,omitempty" gorm:"type:uuid"`
	ExpiresAt      time.Time  `json:"expiresAt" gorm:"not null;index"`
	IPAddress      *string    `json:"ipAddress,omitempty"`
	UserAgent      *string    `json:"-"`
	IsActive       bool       `json:"isActive" gorm:"not null;default:true"`
	LastActivityAt time.Time  `json:"lastActivityAt"`
	CreatedAt      time.Time  `json:"createdAt"`
	RevokedAt      *time.Time `json:"revokedAt,omitempty"`
	RevokedReason  *string    `json:"revokedReason,omitempty"`
}

func (Session) TableName() string {
	return "sessions"
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Identity builds the request identity from the session. It fails when the
// session lacks a user id or a valid role.
func (s *Session) Identity() (*Identity, error) {
	provinceID := ""
	if s.ProvinceID != nil && *s.ProvinceID != uuid.Nil {
		provinceID = s.ProvinceID.String()
	}
	userID := ""
	if s.UserID != uuid.Nil {
		userID = s.UserID.String()
	}
	return NewIdentity(userID, s.Role, provinceID)
}

// ===========================================
// Login DTOs
// ===========================================

// LoginRequest is the body of POST /auth/login. Emptiness is checked after
// trimming, so binding only requires the fields to be present.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful login. It never carries the session token.
type LoginResponse struct {
	Role       Role   `json:"role"`
	ProvinceID string `json:"provinceId,omitempty"`
}

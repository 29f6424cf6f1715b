package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"employee-service/internal/apperrors"
	"employee-service/internal/models"
)

const (
	identityKey = "identity"
	sessionKey  = "session"
)

type identityCtxKey struct{}

// SessionResolver maps a session token to the caller identity
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*models.Identity, *models.Session, error)
}

// SessionMiddleware resolves the session cookie into an identity. Requests
// without a valid session are aborted with Unauthenticated.
func SessionMiddleware(resolver SessionResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			apperrors.Abort(c, apperrors.NewUnauthenticated("Authentication required"))
			return
		}

		identity, session, err := resolver.ResolveSession(c.Request.Context(), token)
		if err != nil {
			apperrors.Abort(c, err)
			return
		}

		c.Set(identityKey, identity)
		c.Set(sessionKey, session)
		c.Set("user_id", identity.ID)
		c.Set("user_role", identity.Role.String())
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), identity))

		c.Next()
	}
}

// IdentityFrom returns the identity resolved for this request
func IdentityFrom(c *gin.Context) (*models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*models.Identity)
	return identity, ok && identity != nil
}

// SessionFrom returns the session record resolved for this request
func SessionFrom(c *gin.Context) (*models.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	session, ok := v.(*models.Session)
	return session, ok && session != nil
}

// WithIdentity stores identity on a context
func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, identity)
}

// IdentityFromContext returns the identity stored by WithIdentity
func IdentityFromContext(ctx context.Context) (*models.Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(*models.Identity)
	return identity, ok && identity != nil
}

package middleware

import (
	"github.com/gin-gonic/gin"

	"employee-service/internal/apperrors"
	"employee-service/internal/models"
)

// CheckRole passes identity through when it holds role
func CheckRole(identity *models.Identity, role models.Role) (*models.Identity, error) {
	if identity == nil {
		return nil, apperrors.NewUnauthenticated("Authentication required")
	}
	if identity.Role != role {
		return nil, apperrors.NewForbidden("Insufficient role for this operation")
	}
	return identity, nil
}

// CheckAnyRole passes any resolved identity through
func CheckAnyRole(identity *models.Identity) (*models.Identity, error) {
	if identity == nil {
		return nil, apperrors.NewUnauthenticated("Authentication required")
	}
	return identity, nil
}

// RequireRole aborts unless the resolved identity holds role
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := IdentityFrom(c)
		if _, err := CheckRole(identity, role); err != nil {
			apperrors.Abort(c, err)
			return
		}
		c.Next()
	}
}

// RequireAnyRole aborts unless an identity was resolved. Province scoping
// happens downstream.
func RequireAnyRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := IdentityFrom(c)
		if _, err := CheckAnyRole(identity); err != nil {
			apperrors.Abort(c, err)
			return
		}
		c.Next()
	}
}

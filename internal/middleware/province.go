package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"employee-service/internal/apperrors"
	"employee-service/internal/services"
)

const provinceIDKey = "province_id"

// ProvinceParam validates the :provinceId path parameter before any handler
// or access check sees it. Malformed ids fail with InvalidIdentifier.
func ProvinceParam() gin.HandlerFunc {
	return func(c *gin.Context) {
		provinceID, err := services.ParseProvinceID(c.Param("provinceId"))
		if err != nil {
			apperrors.Abort(c, err)
			return
		}

		c.Set(provinceIDKey, provinceID)
		c.Next()
	}
}

// GetProvinceID retrieves the province id validated by ProvinceParam
func GetProvinceID(c *gin.Context) uuid.UUID {
	v, ok := c.Get(provinceIDKey)
	if !ok {
		return uuid.Nil
	}
	id, _ := v.(uuid.UUID)
	return id
}

// ProvinceAccess runs the province access predicate for the resolved identity
// against the id set by ProvinceParam. It must follow ProvinceParam so a
// denied caller gets 403 before the body or query is looked at.
func ProvinceAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := IdentityFrom(c)
		if err := services.AuthorizeProvince(identity, GetProvinceID(c)); err != nil {
			apperrors.Abort(c, err)
			return
		}
		c.Next()
	}
}

package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"employee-service/internal/apperrors"
	"employee-service/internal/models"
)

// identifiable is satisfied by records that expose their identifier
type identifiable interface {
	GetID() string
}

// NormalizeID reduces any supported province reference to its canonical
// lower-case string form. It returns "" when ref cannot be resolved.
//
// Accepted shapes: string, uuid.UUID, *uuid.UUID, *models.Province,
// models.Province, map[string]interface{} / map[string]string with an "_id" or
// "id" key, and anything implementing GetID() string.
func NormalizeID(ref interface{}) string {
	switch v := ref.(type) {
	case nil:
		return ""
	case string:
		return canonical(v)
	case uuid.UUID:
		if v == uuid.Nil {
			return ""
		}
		return v.String()
	case *uuid.UUID:
		if v == nil {
			return ""
		}
		return NormalizeID(*v)
	case *models.Province:
		if v == nil {
			return ""
		}
		return NormalizeID(v.ID)
	case models.Province:
		return NormalizeID(v.ID)
	case map[string]interface{}:
		if id, ok := v["_id"]; ok {
			return NormalizeID(id)
		}
		return NormalizeID(v["id"])
	case map[string]string:
		if id, ok := v["_id"]; ok {
			return canonical(id)
		}
		return canonical(v["id"])
	case identifiable:
		return canonical(v.GetID())
	case fmt.Stringer:
		return canonical(v.String())
	default:
		return ""
	}
}

func canonical(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if id, err := uuid.Parse(s); err == nil {
		return id.String()
	}
	return strings.ToLower(s)
}

// CanAccess is the single province access predicate. A global admin may access
// every province; a province admin only the province bound to its identity.
func CanAccess(identity *models.Identity, target interface{}) bool {
	if identity == nil {
		return false
	}

	switch identity.Role {
	case models.RoleGlobalAdmin:
		return true
	case models.RoleProvinceAdmin:
		own := NormalizeID(identity.ProvinceID)
		return own != "" && own == NormalizeID(target)
	default:
		return false
	}
}

// ParseProvinceID validates a province path parameter
func ParseProvinceID(raw string) (uuid.UUID, error) {
	return parseID("provinceId", raw)
}

// ParseEmployeeID validates an employee path parameter
func ParseEmployeeID(raw string) (uuid.UUID, error) {
	return parseID("employeeId", raw)
}

func parseID(field, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apperrors.NewInvalidIdentifier(field, raw)
	}
	return id, nil
}

// AuthorizeProvince runs the predicate for identity against provinceID and
// returns a Forbidden error when it denies. Callers never get an empty result
// in place of a denial.
func AuthorizeProvince(identity *models.Identity, provinceID uuid.UUID) error {
	if identity == nil {
		return apperrors.NewUnauthenticated("Authentication required")
	}
	if !CanAccess(identity, provinceID) {
		return apperrors.NewProvinceForbidden(provinceID.String())
	}
	return nil
}

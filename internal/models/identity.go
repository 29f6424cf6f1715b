package models

import (
	"fmt"
	"strings"
)

// Role is the closed set of user roles. Only the two constants below are valid.
type Role string

const (
	RoleGlobalAdmin   Role = "GLOBAL_ADMIN"
	RoleProvinceAdmin Role = "PROVINCE_ADMIN"
)

// ParseRole converts a stored role string into a Role
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleGlobalAdmin:
		return RoleGlobalAdmin, nil
	case RoleProvinceAdmin:
		return RoleProvinceAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleGlobalAdmin, RoleProvinceAdmin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// Identity is the authenticated caller, resolved from the session for each request.
// A PROVINCE_ADMIN identity always has a non-empty ProvinceID. For a GLOBAL_ADMIN
// the ProvinceID is ignored.
type Identity struct {
	ID         string `json:"id"`
	Role       Role   `json:"role"`
	ProvinceID string `json:"provinceId,omitempty"`
}

// NewIdentity validates the role/province invariant and builds an Identity
func NewIdentity(userID string, role Role, provinceID string) (*Identity, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("identity requires a user id")
	}

	switch role {
	case RoleGlobalAdmin:
		return &Identity{ID: userID, Role: role}, nil
	case RoleProvinceAdmin:
		if strings.TrimSpace(provinceID) == "" {
			return nil, fmt.Errorf("province admin %s has no bound province", userID)
		}
		return &Identity{ID: userID, Role: role, ProvinceID: provinceID}, nil
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
}

// IsGlobalAdmin reports whether the identity has unrestricted province access
func (i *Identity) IsGlobalAdmin() bool {
	return i != nil && i.Role == RoleGlobalAdmin
}

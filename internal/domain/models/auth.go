package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Caller roles. Admins and superadmins bypass node restrictions.
const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleMember     = "member"
	RoleStudent    = "student"
)

// Claims are the JWT claims issued by the auth provider. Subject is the
// user ID.
type Claims struct {
	jwt.RegisteredClaims
	Email       string `json:"email"`
	Role        string `json:"app_role"`
	StructureID string `json:"structure_id"`
}

// Caller identifies the authenticated user a request acts on behalf of.
type Caller struct {
	UserID      string
	Role        string
	StructureID string
}

// IsAdmin reports whether the caller holds an administrative role.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin || c.Role == RoleSuperAdmin
}

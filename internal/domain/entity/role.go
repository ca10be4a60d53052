// Package entity contains the core business objects of the project.
package entity

import "slices"

// Role represents the authorization level assigned to an account.
type Role string

const (
	// RoleAdmin grants every operation, including administrative ones.
	RoleAdmin Role = "ADMIN"
	// RoleModerator grants listing and search on top of self-scoped operations.
	RoleModerator Role = "MODERATOR"
	// RoleUser is the default role for newly registered accounts.
	RoleUser Role = "USER"
	// RoleGuest is a restricted role with self-scoped access only.
	RoleGuest Role = "GUEST"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser, RoleGuest:
		return true
	default:
		return false
	}
}

// AllRoles lists every assignable role, in descending privilege order.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleModerator, RoleUser, RoleGuest}
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}

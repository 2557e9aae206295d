// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// User is an account allowed to sign in to the reporting backend.
type User struct {
	ID           uint
	Email        string // Login identifier, unique.
	PasswordHash string // bcrypt hash; the plaintext is never stored.
	Role         Role
	IsActive     bool // Inactive users cannot log in and their tokens stop working.
	CreatedAt    time.Time
}

// HasAnyRole reports whether the user's role is in roles. An empty set admits every role.
func (u *User) HasAnyRole(roles ...Role) bool {
	if len(roles) == 0 {
		return true
	}

	return Roles(roles).Contains(u.Role)
}

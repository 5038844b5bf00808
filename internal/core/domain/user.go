package domain

import (
	"errors"
	"time"
)

// Role is the closed set of access levels known to the system.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleManager  Role = "Manager"
	RoleEmployee Role = "Employee"
)

// ParseRole maps a raw string onto a known Role. Unrecognised values never
// pass a membership check silently; they fail here.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return r, nil
	}
	return "", ErrInvalidRole
}

// In reports whether r is a member of the given allow-list.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

var (
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username or email already exists")
	ErrAdminExists        = errors.New("an admin already exists")
	ErrForbidden          = errors.New("access denied")
)

// User models an authenticated actor in the system. PasswordHash is opaque
// and never serialized outward.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

package user

import (
	"strings"
	"time"
)

// User represents an account in the directory
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Not exposed in JSON
	FirstName    *string   `json:"firstName,omitempty"`
	LastName     *string   `json:"lastName,omitempty"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FullName joins the non-empty name parts.
func (u *User) FullName() string {
	var parts []string
	if u.FirstName != nil && *u.FirstName != "" {
		parts = append(parts, *u.FirstName)
	}
	if u.LastName != nil && *u.LastName != "" {
		parts = append(parts, *u.LastName)
	}
	return strings.Join(parts, " ")
}

// Role is the authorization role of a user
type Role string

// User roles
const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// NormalizeEmail lowercases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateInput carries the fields accepted when creating a user.
type CreateInput struct {
	Email     string
	Password  string
	FirstName *string
	LastName  *string
	Role      Role // defaults to RoleUser
}

// ProfileInput is the self-service profile update. Nil fields are left unchanged.
type ProfileInput struct {
	FirstName *string
	LastName  *string
}

// AdminUpdateInput is the broader update available to administrators.
type AdminUpdateInput struct {
	FirstName *string
	LastName  *string
	Role      *Role
	IsActive  *bool
}

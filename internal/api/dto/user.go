package dto

import (
	"time"

	"github.com/flowvera/flowvera/internal/domain/user"
)

// UserDTO represents a user in API responses. It never carries the password hash.
type UserDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName *string   `json:"firstName,omitempty"`
	LastName  *string   `json:"lastName,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromUser converts a domain user
func FromUser(u *user.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// FromUsers converts a slice of domain users
func FromUsers(users []*user.User) []*UserDTO {
	out := make([]*UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, FromUser(u))
	}
	return out
}

// UpdateProfileRequest represents a self-service profile update
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,max=100"`
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required,min=8"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// AdminUpdateUserRequest represents an administrator's update of a user
type AdminUpdateUserRequest struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Role      *string `json:"role,omitempty" validate:"omitempty,oneof=admin manager user"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

// ToInput converts the request to the service input
func (r AdminUpdateUserRequest) ToInput() user.AdminUpdateInput {
	in := user.AdminUpdateInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		IsActive:  r.IsActive,
	}
	if r.Role != nil {
		role := user.Role(*r.Role)
		in.Role = &role
	}
	return in
}

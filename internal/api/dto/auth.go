package dto

import "github.com/flowvera/flowvera/internal/domain/user"

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8"`
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,max=100"`
}

// ToInput converts the request to the service input. The role is always user.
func (r RegisterRequest) ToInput() user.CreateInput {
	return user.CreateInput{
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Role:      user.RoleUser,
	}
}

// AuthResponse represents an authentication response
type AuthResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         *UserDTO `json:"user"`
}

// RefreshTokenRequest represents a refresh token request. The token may also
// come from the refreshToken cookie.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

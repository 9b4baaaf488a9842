package client

import (
	"context"
	"net/http"
)

// AuthService handles authentication
type AuthService struct {
	client *Client
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}

// AuthResponse carries issued tokens and the user
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// Login authenticates with email and password and stores the access token
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	req := map[string]string{
		"email":    email,
		"password": password,
	}
	return s.authenticate(ctx, "/api/auth/login", req)
}

// Register creates a new account and stores the access token
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	return s.authenticate(ctx, "/api/auth/register", req)
}

// Refresh exchanges a refresh token for a new pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	req := map[string]string{
		"refresh_token": refreshToken,
	}
	return s.authenticate(ctx, "/api/auth/refresh", req)
}

func (s *AuthService) authenticate(ctx context.Context, path string, body interface{}) (*AuthResponse, error) {
	var resp AuthResponse
	if err := s.client.doRequest(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}

	if resp.AccessToken != "" {
		s.client.SetToken(resp.AccessToken)
	}
	return &resp, nil
}

// Profile retrieves the currently authenticated user
func (s *AuthService) Profile(ctx context.Context) (*User, error) {
	var user User
	if err := s.client.doRequest(ctx, http.MethodGet, "/api/auth/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout clears the session cookies server side and forgets the token
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.client.doRequest(ctx, http.MethodPost, "/api/auth/logout", nil, nil); err != nil {
		return err
	}
	s.client.SetToken("")
	return nil
}

// UpdateProfile changes the caller's name
func (s *AuthService) UpdateProfile(ctx context.Context, firstName, lastName *string) (*User, error) {
	req := map[string]*string{
		"firstName": firstName,
		"lastName":  lastName,
	}
	var user User
	if err := s.client.doRequest(ctx, http.MethodPut, "/api/settings/profile", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword replaces the caller's password
func (s *AuthService) ChangePassword(ctx context.Context, current, next string) error {
	req := map[string]string{
		"currentPassword": current,
		"newPassword":     next,
	}
	return s.client.doRequest(ctx, http.MethodPut, "/api/settings/password", req, nil)
}

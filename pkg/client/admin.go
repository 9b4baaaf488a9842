package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// AdminService handles user administration. It requires an admin token.
type AdminService struct {
	client *Client
}

// UpdateUserRequest changes only the fields that are set
type UpdateUserRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Role      *string `json:"role,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

// ListUsers returns one page of users
func (s *AdminService) ListUsers(ctx context.Context, page, pageSize int) (*UserPage, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", fmt.Sprint(page))
	}
	if pageSize > 0 {
		query.Set("page_size", fmt.Sprint(pageSize))
	}

	path := "/api/admin/users"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var users UserPage
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return &users, nil
}

// UpdateUser changes a user's profile, role or active flag
func (s *AdminService) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*User, error) {
	var user User
	if err := s.client.doRequest(ctx, http.MethodPatch, "/api/admin/users/"+url.PathEscape(id), req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user
func (s *AdminService) DeleteUser(ctx context.Context, id string) error {
	return s.client.doRequest(ctx, http.MethodDelete, "/api/admin/users/"+url.PathEscape(id), nil, nil)
}

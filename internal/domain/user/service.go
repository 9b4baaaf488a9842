package user

import "context"

// Service defines the interface for user business logic
type Service interface {
	// Create registers a new account with a hashed password
	Create(ctx context.Context, in CreateInput) (*User, error)

	// Authenticate verifies credentials and returns the active user
	Authenticate(ctx context.Context, email, password string) (*User, error)

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*User, error)

	// List retrieves users with pagination
	List(ctx context.Context, limit, offset int) ([]*User, int64, error)

	// UpdateProfile changes the user's own name fields
	UpdateProfile(ctx context.Context, id string, in ProfileInput) (*User, error)

	// ChangePassword re-verifies the current password before storing a new one
	ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error

	// AdminUpdate changes names, role and active flag
	AdminUpdate(ctx context.Context, id string, in AdminUpdateInput) (*User, error)

	// Delete removes a user permanently
	Delete(ctx context.Context, id string) error

	// EnsureDefaultAdmin creates the bootstrap admin when it does not exist
	EnsureDefaultAdmin(ctx context.Context, email, password string) (created bool, err error)
}

package services

import (
	"context"

	"github.com/flowvera/flowvera/internal/domain/user"
	"github.com/flowvera/flowvera/internal/pkg/errors"
	"github.com/flowvera/flowvera/internal/pkg/logger"
	"github.com/google/uuid"
)

// DefaultAdminPassword is the bootstrap password used when none is configured.
const DefaultAdminPassword = "Admin123!"

// UserService implements user.Service
type UserService struct {
	repo   user.Repository
	hasher user.PasswordHasher
	logger *logger.Logger
	now    Clock
}

// NewUserService creates a new user service
func NewUserService(repo user.Repository, hasher user.PasswordHasher, log *logger.Logger) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
		logger: log,
		now:    SystemClock,
	}
}

// WithClock replaces the time source
func (s *UserService) WithClock(c Clock) *UserService {
	s.now = c
	return s
}

// Create registers a new account
func (s *UserService) Create(ctx context.Context, in user.CreateInput) (*user.User, error) {
	role := in.Role
	if role == "" {
		role = user.RoleUser
	}
	if !role.Valid() {
		return nil, errors.BadRequest("Invalid role")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	now := s.now()
	u := &user.User{
		ID:           uuid.NewString(),
		Email:        user.NormalizeEmail(in.Email),
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if !errors.IsConflict(err) {
			s.logger.ErrorWithErr(err, "Failed to create user")
		}
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": u.ID,
		"email":   u.Email,
		"role":    u.Role,
	}).Info("User created")

	return u, nil
}

// Authenticate verifies credentials and returns the active user
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	u, err := s.repo.GetByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized("Invalid credentials")
		}
		return nil, err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, errors.Unauthorized("Invalid credentials")
	}
	if !u.IsActive {
		return nil, errors.Unauthorized("Account is disabled")
	}

	return u, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id string) (*user.User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByEmail retrieves a user by email
func (s *UserService) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.repo.GetByEmail(ctx, user.NormalizeEmail(email))
}

// List retrieves users with pagination
func (s *UserService) List(ctx context.Context, limit, offset int) ([]*user.User, int64, error) {
	return s.repo.List(ctx, limit, offset)
}

// UpdateProfile changes the user's own name fields
func (s *UserService) UpdateProfile(ctx context.Context, id string, in user.ProfileInput) (*user.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		u.FirstName = in.FirstName
	}
	if in.LastName != nil {
		u.LastName = in.LastName
	}
	u.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update profile")
		return nil, err
	}
	return u, nil
}

// ChangePassword stores a new password after verifying the current one
func (s *UserService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.hasher.Compare(u.PasswordHash, currentPassword); err != nil {
		return errors.Unauthorized("Current password is incorrect")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return errors.Internal("Failed to hash password", err)
	}
	u.PasswordHash = hash
	u.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.ErrorWithErr(err, "Failed to change password")
		return err
	}

	s.logger.With("user_id", u.ID).Info("Password changed")
	return nil
}

// AdminUpdate changes names, role and active flag
func (s *UserService) AdminUpdate(ctx context.Context, id string, in user.AdminUpdateInput) (*user.User, error) {
	if in.Role != nil && !in.Role.Valid() {
		return nil, errors.BadRequest("Invalid role")
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		u.FirstName = in.FirstName
	}
	if in.LastName != nil {
		u.LastName = in.LastName
	}
	if in.Role != nil {
		u.Role = *in.Role
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	u.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update user")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":   u.ID,
		"role":      u.Role,
		"is_active": u.IsActive,
	}).Info("User updated by admin")

	return u, nil
}

// Delete removes a user permanently
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.With("user_id", id).Info("User deleted")
	return nil
}

// EnsureDefaultAdmin creates the bootstrap admin account if missing
func (s *UserService) EnsureDefaultAdmin(ctx context.Context, email, password string) (bool, error) {
	email = user.NormalizeEmail(email)
	if email == "" {
		return false, nil
	}
	if password == "" {
		password = DefaultAdminPassword
	}

	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.IsNotFound(err) {
		return false, err
	}

	first, last := "Admin", "User"
	_, err = s.Create(ctx, user.CreateInput{
		Email:     email,
		Password:  password,
		FirstName: &first,
		LastName:  &last,
		Role:      user.RoleAdmin,
	})
	if errors.IsConflict(err) {
		// created concurrently by another instance
		return false, nil
	}
	if err != nil {
		return false, err
	}

	log := s.logger.With("email", email)
	if password == DefaultAdminPassword {
		log.Warn("Default admin user created with the built-in password; change it after first login")
	} else {
		log.Info("Default admin user created")
	}
	return true, nil
}

var _ user.Service = (*UserService)(nil)


package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/flowvera/flowvera/internal/domain/user"
	"github.com/flowvera/flowvera/internal/pkg/errors"
)

// UserRepository implements user.Repository
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) user.Repository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, first_name, last_name, role, is_active, created_at, updated_at`

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.Email, u.PasswordHash, nullString(u.FirstName), nullString(u.LastName),
		string(u.Role), u.IsActive, u.CreatedAt.Unix(), u.UpdatedAt.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Conflict("User with this email already exists")
		}
		return errors.DatabaseError("Failed to create user", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, query, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg interface{}) (*user.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("User")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get user", err)
	}
	return u, nil
}

// Update updates a user
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET email = $1, password_hash = $2, first_name = $3, last_name = $4,
		    role = $5, is_active = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := r.db.ExecContext(ctx, query,
		u.Email, u.PasswordHash, nullString(u.FirstName), nullString(u.LastName),
		string(u.Role), u.IsActive, u.UpdatedAt.Unix(), u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Conflict("User with this email already exists")
		}
		return errors.DatabaseError("Failed to update user", err)
	}

	return expectAffected(result, "User")
}

// Delete deletes a user
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return errors.DatabaseError("Failed to delete user", err)
	}

	return expectAffected(result, "User")
}

// List retrieves users with pagination
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*user.User, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, errors.DatabaseError("Failed to count users", err)
	}

	query := `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list users", err)
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.DatabaseError("Failed to list users", err)
	}

	return users, total, nil
}

func scanUser(s scanner) (*user.User, error) {
	var u user.User
	var firstName, lastName sql.NullString
	var role string
	var createdAt, updatedAt int64

	err := s.Scan(&u.ID, &u.Email, &u.PasswordHash, &firstName, &lastName,
		&role, &u.IsActive, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	u.FirstName = stringPtr(firstName)
	u.LastName = stringPtr(lastName)
	u.Role = user.Role(role)
	u.CreatedAt = fromUnix(createdAt)
	u.UpdatedAt = fromUnix(updatedAt)

	return &u, nil
}

// expectAffected maps a zero-row write to NotFound(resource).
func expectAffected(result sql.Result, resource string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound(resource)
	}
	return nil
}

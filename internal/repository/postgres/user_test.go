package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/flowvera/flowvera/internal/domain/user"
	"github.com/flowvera/flowvera/internal/pkg/errors"
	"github.com/flowvera/flowvera/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(email string) *user.User {
	now := time.Now().UTC().Truncate(time.Second)
	return &user.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: "hash",
		FirstName:    testutil.Ptr("Test"),
		Role:         user.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_Create(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name     string
		user     *user.User
		wantCode string
	}{
		{name: "create user successfully", user: newTestUser("test@example.com")},
		{name: "create another user", user: newTestUser("another@example.com")},
		{name: "duplicate email", user: newTestUser("test@example.com"), wantCode: errors.ErrCodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.user)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, tt.wantCode))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestUserRepository_GetByIDAndEmail(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := newTestUser("test@example.com")
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, "Test", *got.FirstName)
	assert.Nil(t, got.LastName)
	assert.True(t, got.IsActive)
	assert.Equal(t, u.CreatedAt, got.CreatedAt)

	got, err = repo.GetByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.True(t, errors.IsNotFound(err))
}

func TestUserRepository_UpdateDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := newTestUser("test@example.com")
	require.NoError(t, repo.Create(ctx, u))

	u.Role = user.RoleAdmin
	u.IsActive = false
	u.LastName = testutil.Ptr("User")
	require.NoError(t, repo.Update(ctx, u))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, got.Role)
	assert.False(t, got.IsActive)
	assert.Equal(t, "User", *got.LastName)

	require.NoError(t, repo.Delete(ctx, u.ID))
	assert.True(t, errors.IsNotFound(repo.Delete(ctx, u.ID)))
	assert.True(t, errors.IsNotFound(repo.Update(ctx, u)))
}

func TestUserRepository_List(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		require.NoError(t, repo.Create(ctx, newTestUser(email)))
	}

	users, total, err := repo.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, users, 2)

	users, total, err = repo.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, users, 1)
}

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/flowvera/flowvera/internal/domain/user"
	"github.com/flowvera/flowvera/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func TestMintAndParseTokens(t *testing.T) {
	pair, err := MintTokens(Identity{UserID: "u-1", Email: "a@example.com", Role: "admin"}, testSecret, time.Hour, 2*time.Hour)
	require.NoError(t, err)

	c, err := ParseTyped(pair.AccessToken, testSecret, TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, "u-1", c.UserID)
	assert.Equal(t, "a@example.com", c.Email)
	assert.Equal(t, "admin", c.Role)

	_, err = ParseTyped(pair.RefreshToken, testSecret, TokenAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = ParseTyped(pair.RefreshToken, testSecret, TokenRefresh)
	assert.NoError(t, err)

	_, err = ParseClaims(pair.AccessToken, "other-secret")
	assert.Error(t, err)
}

func TestParseClaims_Expired(t *testing.T) {
	pair, err := MintTokens(Identity{UserID: "u-1"}, testSecret, -time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = ParseClaims(pair.AccessToken, testSecret)
	assert.Error(t, err)
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("Secret123!")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123!", hash)
	assert.NoError(t, h.Compare(hash, "Secret123!"))
	assert.Error(t, h.Compare(hash, "wrong"))

	// out of range falls back to the default
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(100).cost)
}

func TestAuthorizer_Authorize(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	ctx := context.Background()

	active := &user.User{ID: "u-1", Email: "user@example.com", Role: user.RoleUser, IsActive: true}
	admin := &user.User{ID: "u-2", Email: "admin@example.com", Role: user.RoleAdmin, IsActive: true}
	disabled := &user.User{ID: "u-3", Email: "off@example.com", Role: user.RoleUser, IsActive: false}
	for _, u := range []*user.User{active, admin, disabled} {
		require.NoError(t, repo.Create(ctx, u))
	}

	token := func(u *user.User) string {
		pair, err := MintTokens(Identity{UserID: u.ID, Email: u.Email, Role: string(u.Role)}, testSecret, time.Hour, time.Hour)
		require.NoError(t, err)
		return pair.AccessToken
	}
	ghost, err := MintTokens(Identity{UserID: "deleted"}, testSecret, time.Hour, time.Hour)
	require.NoError(t, err)

	a := NewAuthorizer(repo, testSecret)
	adminOnly := Requirement{Roles: []user.Role{user.RoleAdmin}}

	tests := []struct {
		name   string
		bearer string
		req    Requirement
		want   Decision
	}{
		{name: "missing token", bearer: "", want: Unauthenticated},
		{name: "garbage token", bearer: "Bearer nope", want: Unauthenticated},
		{name: "refresh token as access", bearer: "Bearer " + ghost.RefreshToken, want: Unauthenticated},
		{name: "deleted user", bearer: "Bearer " + ghost.AccessToken, want: Unauthenticated},
		{name: "disabled user", bearer: "Bearer " + token(disabled), want: Unauthenticated},
		{name: "any authenticated user", bearer: "Bearer " + token(active), want: Authorized},
		{name: "bare token without prefix", bearer: token(active), want: Authorized},
		{name: "wrong role", bearer: "Bearer " + token(active), req: adminOnly, want: Forbidden},
		{name: "admin role", bearer: "Bearer " + token(admin), req: adminOnly, want: Authorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := a.Authorize(ctx, tt.bearer, tt.req)
			assert.Equal(t, tt.want, res.Decision, res.Reason)
			if tt.want == Authorized {
				require.NotNil(t, res.User)
			}
		})
	}
}

func TestIssuer(t *testing.T) {
	iss := NewIssuer(testSecret, time.Hour, 2*time.Hour)
	u := &user.User{ID: "u-1", Email: "a@example.com", Role: user.RoleManager}

	pair, err := iss.Issue(u)
	require.NoError(t, err)

	c, err := iss.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "u-1", c.UserID)
	assert.Equal(t, "manager", c.Role)

	_, err = iss.ParseRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)
	assert.Equal(t, time.Hour, iss.AccessTTL())
}

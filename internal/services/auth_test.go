package services

import (
	"context"
	"testing"
	"time"

	"github.com/flowvera/flowvera/internal/auth"
	"github.com/flowvera/flowvera/internal/domain/plan"
	"github.com/flowvera/flowvera/internal/domain/subscription"
	"github.com/flowvera/flowvera/internal/domain/user"
	"github.com/flowvera/flowvera/internal/email"
	"github.com/flowvera/flowvera/internal/pkg/errors"
	"github.com/flowvera/flowvera/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type authFixture struct {
	svc      *AuthService
	users    *testutil.MockUserRepository
	subs     *testutil.MockSubscriptionRepository
	notifier *testutil.FakeNotifier
}

func newAuthFixture() *authFixture {
	log := testutil.NewTestLogger()
	users := testutil.NewMockUserRepository()
	subs := testutil.NewMockSubscriptionRepository()
	notifier := &testutil.FakeNotifier{}

	userSvc := NewUserService(users, testutil.FakeHasher{}, log).WithClock(FixedClock(testNow))
	ledger := NewSubscriptionService(subs, plan.DefaultCatalog(), log).WithClock(FixedClock(testNow))
	issuer := auth.NewIssuer(testSecret, 15*time.Minute, 24*time.Hour)

	return &authFixture{
		svc:      NewAuthService(userSvc, ledger, notifier, issuer, log),
		users:    users,
		subs:     subs,
		notifier: notifier,
	}
}

func TestAuthService_RegisterStartsTrial(t *testing.T) {
	f := newAuthFixture()

	res, err := f.svc.Register(context.Background(), user.CreateInput{
		Email:     "Jane@Example.com",
		Password:  "secret123",
		FirstName: testutil.Ptr("Jane"),
		Role:      user.RoleAdmin,
	})
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", res.User.Email)
	assert.Equal(t, user.RoleUser, res.User.Role)
	assert.NotEmpty(t, res.Tokens.AccessToken)
	assert.NotEmpty(t, res.Tokens.RefreshToken)

	claims, err := auth.ParseTyped(res.Tokens.AccessToken, testSecret, auth.TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)

	sub := f.subs.Subs[res.User.ID]
	require.NotNil(t, sub)
	assert.Equal(t, plan.FreeTrial, sub.Plan)
	assert.Equal(t, subscription.StatusTrial, sub.Status)
	assert.Equal(t, testNow.Add(subscription.TrialPeriod), sub.EndDate)

	require.Len(t, f.notifier.Sent, 1)
	assert.Equal(t, email.TemplateWelcome, f.notifier.Sent[0].Template)
	assert.Equal(t, "Jane", f.notifier.Sent[0].Name)
}

func TestAuthService_RegisterToleratesEmailFailure(t *testing.T) {
	f := newAuthFixture()
	f.notifier.Fail = true

	res, err := f.svc.Register(context.Background(), user.CreateInput{Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotNil(t, f.subs.Subs[res.User.ID])
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.svc.Register(ctx, user.CreateInput{Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, user.CreateInput{Email: "A@example.com", Password: "other"})
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
	assert.Len(t, f.subs.Subs, 1)
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.svc.Register(ctx, user.CreateInput{Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	res, err := f.svc.Login(ctx, "a@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Tokens.AccessToken)

	_, err = f.svc.Login(ctx, "a@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, errors.IsUnauthorized(err))
	assert.Equal(t, "Invalid credentials", err.Error())
}

func TestAuthService_Refresh(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, user.CreateInput{Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	res, err := f.svc.Refresh(ctx, reg.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)

	// an access token is not a refresh token
	_, err = f.svc.Refresh(ctx, reg.Tokens.AccessToken)
	require.Error(t, err)
	assert.Equal(t, "Invalid or expired refresh token", err.Error())

	_, err = f.svc.Refresh(ctx, "garbage")
	assert.True(t, errors.IsUnauthorized(err))

	f.users.Users[reg.User.ID].IsActive = false
	_, err = f.svc.Refresh(ctx, reg.Tokens.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "Account is disabled", err.Error())

	delete(f.users.Users, reg.User.ID)
	_, err = f.svc.Refresh(ctx, reg.Tokens.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "Invalid or expired refresh token", err.Error())
}

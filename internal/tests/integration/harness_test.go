package integration

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flowvera/flowvera/internal/api/handlers"
	"github.com/flowvera/flowvera/internal/api/router"
	"github.com/flowvera/flowvera/internal/auth"
	"github.com/flowvera/flowvera/internal/billing"
	"github.com/flowvera/flowvera/internal/config"
	"github.com/flowvera/flowvera/internal/domain/plan"
	"github.com/flowvera/flowvera/internal/pkg/validator"
	"github.com/flowvera/flowvera/internal/repository/postgres"
	"github.com/flowvera/flowvera/internal/services"
	"github.com/flowvera/flowvera/internal/testutil"
	"github.com/flowvera/flowvera/pkg/client"
	"github.com/stretchr/testify/require"
)

const (
	jwtSecret     = "test-secret-key-for-testing-only"
	adminEmail    = "admin@flowvera.test"
	adminPassword = "AdminPassword123!"
)

// stack is the full API wired to an in-memory database
type stack struct {
	server   *httptest.Server
	notifier *testutil.FakeNotifier
}

func newStack(t *testing.T) *stack {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	db := testutil.NewTestDB(t)
	log := testutil.NewTestLogger()
	val := validator.New()
	catalog := plan.DefaultCatalog()

	users := postgres.NewUserRepository(db)
	tasks := postgres.NewTaskRepository(db)

	userSvc := services.NewUserService(users, auth.NewBcryptHasher(4), log)
	ledger := services.NewSubscriptionService(postgres.NewSubscriptionRepository(db), catalog, log)
	projectSvc := services.NewProjectService(postgres.NewProjectRepository(db), tasks, log)
	crmSvc := services.NewCRMService(postgres.NewContactRepository(db), postgres.NewCompanyRepository(db), log)

	_, err := userSvc.EnsureDefaultAdmin(ctx, adminEmail, adminPassword)
	require.NoError(t, err)

	notifier := &testutil.FakeNotifier{}
	gateway := billing.NewMockGateway(ledger, "http://localhost:5173", log)
	billingSvc := services.NewBillingService(gateway, testutil.NewMockEventStore(), ledger, users, notifier, catalog, log)

	issuer := auth.NewIssuer(jwtSecret, 15*time.Minute, 24*time.Hour)
	authSvc := services.NewAuthService(userSvc, ledger, notifier, issuer, log)

	cfg := &config.Config{
		Environment: "test",
		Server: config.ServerConfig{
			FrontendURL:    "http://localhost:5173",
			RateLimitRPS:   1000,
			RateLimitBurst: 1000,
		},
	}
	h := &router.Handlers{
		Health:       handlers.NewHealthHandler("integration", map[string]handlers.Check{"database": db.PingContext}, log),
		Auth:         handlers.NewAuthHandler(authSvc, userSvc, handlers.CookieConfig{AccessTTL: 15 * time.Minute, RefreshTTL: 24 * time.Hour}, log, val),
		Admin:        handlers.NewAdminHandler(userSvc, log, val),
		Settings:     handlers.NewSettingsHandler(userSvc, log, val),
		Project:      handlers.NewProjectHandler(projectSvc, log, val),
		CRM:          handlers.NewCRMHandler(crmSvc, log, val),
		Subscription: handlers.NewSubscriptionHandler(ledger, log, val),
		Billing:      handlers.NewBillingHandler(billingSvc, log),
	}

	srv := httptest.NewServer(router.New(ctx, cfg, log, auth.NewAuthorizer(users, jwtSecret), h))
	t.Cleanup(srv.Close)

	return &stack{server: srv, notifier: notifier}
}

func (s *stack) client() *client.Client {
	return client.NewClient(client.Config{BaseURL: s.server.URL, Timeout: 5 * time.Second})
}

// register signs up a fresh account and returns a client holding its token
func (s *stack) register(t *testing.T, email string) *client.Client {
	t.Helper()

	c := s.client()
	_, err := c.Auth.Register(context.Background(), client.RegisterRequest{
		Email:    email,
		Password: "SecurePassword123!",
	})
	require.NoError(t, err)
	return c
}

func (s *stack) admin(t *testing.T) *client.Client {
	t.Helper()

	c := s.client()
	_, err := c.Auth.Login(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err)
	return c
}

func apiError(t *testing.T, err error) *client.APIError {
	t.Helper()

	require.Error(t, err)
	apiErr, ok := client.AsAPIError(err)
	require.True(t, ok, "expected *client.APIError, got %T: %v", err, err)
	return apiErr
}

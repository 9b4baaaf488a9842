package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/flowvera/flowvera/internal/api/handlers"
	"github.com/flowvera/flowvera/internal/auth"
	"github.com/flowvera/flowvera/internal/config"
	"github.com/flowvera/flowvera/internal/domain/billing"
	"github.com/flowvera/flowvera/internal/domain/plan"
	"github.com/flowvera/flowvera/internal/domain/user"
	"github.com/flowvera/flowvera/internal/pkg/validator"
	"github.com/flowvera/flowvera/internal/services"
	"github.com/flowvera/flowvera/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "router-secret"

type testServer struct {
	handler http.Handler
	tokens  map[string]string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	log := testutil.NewTestLogger()
	val := validator.New()

	users := testutil.NewMockUserRepository()
	subs := testutil.NewMockSubscriptionRepository()
	tasks := testutil.NewMockTaskRepository()
	contacts := testutil.NewMockContactRepository()
	notifier := &testutil.FakeNotifier{}
	gateway := &testutil.MockGateway{GatewayMode: billing.ModeMock, Err: billing.ErrWebhooksUnsupported}

	userSvc := services.NewUserService(users, testutil.FakeHasher{}, log)
	ledger := services.NewSubscriptionService(subs, plan.DefaultCatalog(), log)
	issuer := auth.NewIssuer(secret, time.Hour, 24*time.Hour)
	authSvc := services.NewAuthService(userSvc, ledger, notifier, issuer, log)
	billingSvc := services.NewBillingService(gateway, testutil.NewMockEventStore(), ledger, users, notifier, plan.DefaultCatalog(), log)

	tokens := make(map[string]string)
	for id, role := range map[string]user.Role{"admin-1": user.RoleAdmin, "u-1": user.RoleUser} {
		require.NoError(t, users.Create(ctx, &user.User{ID: id, Email: id + "@example.com", Role: role, IsActive: true}))
		pair, err := auth.MintTokens(auth.Identity{UserID: id, Email: id + "@example.com", Role: string(role)}, secret, time.Hour, 24*time.Hour)
		require.NoError(t, err)
		tokens[id] = pair.AccessToken
	}

	cfg := &config.Config{
		Environment: "test",
		Server: config.ServerConfig{
			FrontendURL:    "http://localhost:5173",
			RateLimitRPS:   1000,
			RateLimitBurst: 1000,
		},
	}

	h := &Handlers{
		Health:       handlers.NewHealthHandler("test", nil, log),
		Auth:         handlers.NewAuthHandler(authSvc, userSvc, handlers.CookieConfig{AccessTTL: time.Hour, RefreshTTL: 24 * time.Hour}, log, val),
		Admin:        handlers.NewAdminHandler(userSvc, log, val),
		Settings:     handlers.NewSettingsHandler(userSvc, log, val),
		Project:      handlers.NewProjectHandler(services.NewProjectService(testutil.NewMockProjectRepository(tasks), tasks, log), log, val),
		CRM:          handlers.NewCRMHandler(services.NewCRMService(contacts, testutil.NewMockCompanyRepository(contacts), log), log, val),
		Subscription: handlers.NewSubscriptionHandler(ledger, log, val),
		Billing:      handlers.NewBillingHandler(billingSvc, log),
	}

	return &testServer{
		handler: New(ctx, cfg, log, auth.NewAuthorizer(users, secret), h),
		tokens:  tokens,
	}
}

func (s *testServer) do(method, path, as, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if as != "" {
		req.Header.Set("Authorization", "Bearer "+s.tokens[as])
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func TestRouterAccess(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		as     string
		body   string
		want   int
	}{
		{name: "liveness", method: http.MethodGet, path: "/health", want: http.StatusOK},
		{name: "readiness without checks", method: http.MethodGet, path: "/readyz", want: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", want: http.StatusOK},
		{name: "public plans", method: http.MethodGet, path: "/api/subscriptions/plans", want: http.StatusOK},
		{name: "projects anonymous", method: http.MethodGet, path: "/api/projects", want: http.StatusUnauthorized},
		{name: "projects member", method: http.MethodGet, path: "/api/projects", as: "u-1", want: http.StatusOK},
		{name: "companies member", method: http.MethodGet, path: "/api/crm/companies", as: "u-1", want: http.StatusOK},
		{name: "subscription missing", method: http.MethodGet, path: "/api/subscriptions", as: "u-1", want: http.StatusNotFound},
		{name: "profile", method: http.MethodGet, path: "/api/auth/profile", as: "u-1", want: http.StatusOK},
		{name: "admin as member", method: http.MethodGet, path: "/api/admin/users", as: "u-1", want: http.StatusForbidden},
		{name: "admin anonymous", method: http.MethodGet, path: "/api/admin/users", want: http.StatusUnauthorized},
		{name: "admin as admin", method: http.MethodGet, path: "/api/admin/users", as: "admin-1", want: http.StatusOK},
		{name: "webhook needs no token", method: http.MethodPost, path: "/api/stripe/webhook", body: "{}", want: http.StatusBadRequest},
		{name: "checkout needs token", method: http.MethodPost, path: "/api/stripe/create-checkout-session", body: `{"plan":"basic"}`, want: http.StatusUnauthorized},
		{name: "unknown route", method: http.MethodGet, path: "/api/nope", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(tt.method, tt.path, tt.as, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestRouterHeaders(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/subscriptions/plans", "", "")
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = s.do(http.MethodGet, "/health", "", "")
	assert.Empty(t, rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouterWebhookBody(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/stripe/webhook", "", "{}")
	assert.JSONEq(t, `{"received":false,"error":"Webhooks are not available in mock mode"}`, rec.Body.String())
}

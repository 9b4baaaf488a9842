package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flowvera/flowvera/internal/api/middleware"
	"github.com/flowvera/flowvera/internal/auth"
	"github.com/flowvera/flowvera/internal/domain/billing"
	"github.com/flowvera/flowvera/internal/domain/plan"
	"github.com/flowvera/flowvera/internal/domain/user"
	"github.com/flowvera/flowvera/internal/pkg/validator"
	"github.com/flowvera/flowvera/internal/services"
	"github.com/flowvera/flowvera/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

// signatureGateway records the signature each webhook arrived with.
type signatureGateway struct {
	*testutil.MockGateway
	signatures []string
}

func (g *signatureGateway) ParseWebhook(ctx context.Context, payload []byte, signature string) (*billing.Event, error) {
	g.signatures = append(g.signatures, signature)
	return g.MockGateway.ParseWebhook(ctx, payload, signature)
}

type fixture struct {
	router   chi.Router
	users    *testutil.MockUserRepository
	subs     *testutil.MockSubscriptionRepository
	tasks    *testutil.MockTaskRepository
	gateway  *signatureGateway
	notifier *testutil.FakeNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := testutil.NewTestLogger()
	val := validator.New()
	clock := services.FixedClock(testNow)

	users := testutil.NewMockUserRepository()
	subs := testutil.NewMockSubscriptionRepository()
	tasks := testutil.NewMockTaskRepository()
	projects := testutil.NewMockProjectRepository(tasks)
	contacts := testutil.NewMockContactRepository()
	companies := testutil.NewMockCompanyRepository(contacts)
	notifier := &testutil.FakeNotifier{}
	gateway := &signatureGateway{MockGateway: &testutil.MockGateway{}}

	userSvc := services.NewUserService(users, testutil.FakeHasher{}, log).WithClock(clock)
	ledger := services.NewSubscriptionService(subs, plan.DefaultCatalog(), log).WithClock(clock)
	projectSvc := services.NewProjectService(projects, tasks, log).WithClock(clock)
	crmSvc := services.NewCRMService(contacts, companies, log).WithClock(clock)
	billingSvc := services.NewBillingService(gateway, testutil.NewMockEventStore(), ledger, users, notifier, plan.DefaultCatalog(), log)
	issuer := auth.NewIssuer("handler-secret", 15*time.Minute, 24*time.Hour)
	authSvc := services.NewAuthService(userSvc, ledger, notifier, issuer, log)

	authH := NewAuthHandler(authSvc, userSvc, CookieConfig{AccessTTL: 15 * time.Minute, RefreshTTL: 24 * time.Hour}, log, val)
	adminH := NewAdminHandler(userSvc, log, val)
	settingsH := NewSettingsHandler(userSvc, log, val)
	projectH := NewProjectHandler(projectSvc, log, val)
	crmH := NewCRMHandler(crmSvc, log, val)
	subH := NewSubscriptionHandler(ledger, log, val)
	billingH := NewBillingHandler(billingSvc, log)

	r := chi.NewRouter()
	r.Post("/auth/register", authH.Register)
	r.Post("/auth/login", authH.Login)
	r.Post("/auth/refresh", authH.Refresh)
	r.Post("/auth/logout", authH.Logout)
	r.Get("/auth/profile", authH.Profile)
	r.Get("/admin/users", adminH.ListUsers)
	r.Patch("/admin/users/{id}", adminH.UpdateUser)
	r.Delete("/admin/users/{id}", adminH.DeleteUser)
	r.Put("/settings/profile", settingsH.UpdateProfile)
	r.Put("/settings/password", settingsH.ChangePassword)
	r.Get("/projects", projectH.List)
	r.Post("/projects", projectH.Create)
	r.Get("/projects/{id}", projectH.Get)
	r.Patch("/projects/{id}", projectH.Update)
	r.Delete("/projects/{id}", projectH.Delete)
	r.Get("/projects/{id}/tasks", projectH.ListTasks)
	r.Post("/projects/{id}/tasks", projectH.CreateTask)
	r.Get("/projects/{id}/tasks/{taskId}", projectH.GetTask)
	r.Patch("/projects/{id}/tasks/{taskId}", projectH.UpdateTask)
	r.Delete("/projects/{id}/tasks/{taskId}", projectH.DeleteTask)
	r.Post("/crm/contacts", crmH.CreateContact)
	r.Get("/crm/contacts/{id}", crmH.GetContact)
	r.Post("/crm/companies", crmH.CreateCompany)
	r.Delete("/crm/companies/{id}", crmH.DeleteCompany)
	r.Get("/crm/companies/{id}/contacts", crmH.ListCompanyContacts)
	r.Get("/subscriptions/plans", subH.Plans)
	r.Get("/subscriptions", subH.Get)
	r.Post("/subscriptions", subH.Create)
	r.Put("/subscriptions", subH.Update)
	r.Post("/subscriptions/cancel", subH.Cancel)
	r.Post("/stripe/create-checkout-session", billingH.CreateCheckoutSession)
	r.Post("/stripe/create-portal-session", billingH.CreatePortalSession)
	r.Post("/stripe/webhook", billingH.Webhook)

	return &fixture{
		router:   r,
		users:    users,
		subs:     subs,
		tasks:    tasks,
		gateway:  gateway,
		notifier: notifier,
	}
}

func (f *fixture) seedUser(id, email string, role user.Role) *user.User {
	u := &user.User{
		ID:           id,
		Email:        email,
		PasswordHash: "hashed:password123",
		Role:         role,
		IsActive:     true,
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
	}
	f.users.Users[id] = u
	return u
}

// do serves a request as the given user; an empty userID sends it anonymously.
func (f *fixture) do(t *testing.T, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		u, ok := f.users.Users[userID]
		require.True(t, ok, "unknown test user %s", userID)
		req = req.WithContext(middleware.WithUser(req.Context(), u))
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	env := decode(t, rec)
	require.True(t, env.Success, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func TestAuthHandler_RegisterLoginProfile(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":     "New@Example.com",
		"password":  "password123",
		"firstName": "Ada",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var reg struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		User         struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	decodeData(t, rec, &reg)
	assert.Equal(t, "new@example.com", reg.User.Email)
	assert.Equal(t, "user", reg.User.Role)
	assert.NotEmpty(t, reg.AccessToken)

	cookies := map[string]bool{}
	for _, c := range rec.Result().Cookies() {
		cookies[c.Name] = c.HttpOnly
	}
	assert.True(t, cookies[middleware.AccessTokenCookie])
	assert.True(t, cookies[refreshTokenCookie])

	assert.Contains(t, f.notifier.Templates(), "welcome")

	rec = f.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "new@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "new@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/auth/profile", reg.User.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile struct {
		Email string `json:"email"`
	}
	decodeData(t, rec, &profile)
	assert.Equal(t, "new@example.com", profile.Email)
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body interface{}
		code string
	}{
		{name: "malformed json", body: "{", code: "BAD_REQUEST"},
		{name: "short password", body: map[string]string{"email": "a@b.co", "password": "short"}, code: "VALIDATION_ERROR"},
		{name: "bad email", body: map[string]string{"email": "nope", "password": "password123"}, code: "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/auth/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			env := decode(t, rec)
			assert.False(t, env.Success)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestAuthHandler_RefreshFromCookieAndLogout(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/auth/refresh", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Missing refresh token", decode(t, rec).Error.Message)

	rec = f.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    "cookie@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	refreshed := httptest.NewRecorder()
	f.router.ServeHTTP(refreshed, req)
	assert.Equal(t, http.StatusOK, refreshed.Code, refreshed.Body.String())

	rec = f.do(t, http.MethodPost, "/auth/logout", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	for _, c := range rec.Result().Cookies() {
		assert.Empty(t, c.Value)
		assert.Less(t, c.MaxAge, 0)
	}
}

func TestAdminHandler(t *testing.T) {
	f := newFixture(t)
	f.seedUser("admin-1", "admin@example.com", user.RoleAdmin)
	f.seedUser("u-1", "member@example.com", user.RoleUser)

	rec := f.do(t, http.MethodGet, "/admin/users?page=1&page_size=10", "admin-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Data       []map[string]interface{} `json:"data"`
		TotalItems int64                    `json:"total_items"`
	}
	decodeData(t, rec, &page)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, int64(2), page.TotalItems)
	for _, u := range page.Data {
		assert.NotContains(t, u, "passwordHash")
	}

	rec = f.do(t, http.MethodPatch, "/admin/users/u-1", "admin-1", map[string]interface{}{
		"role":     "manager",
		"isActive": false,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, user.RoleManager, f.users.Users["u-1"].Role)
	assert.False(t, f.users.Users["u-1"].IsActive)

	rec = f.do(t, http.MethodPatch, "/admin/users/u-1", "admin-1", map[string]string{"role": "owner"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodDelete, "/admin/users/u-1", "admin-1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotContains(t, f.users.Users, "u-1")

	rec = f.do(t, http.MethodDelete, "/admin/users/u-1", "admin-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSettingsHandler(t *testing.T) {
	f := newFixture(t)
	f.seedUser("u-1", "member@example.com", user.RoleUser)

	rec := f.do(t, http.MethodPut, "/settings/profile", "u-1", map[string]string{"firstName": "Grace"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, f.users.Users["u-1"].FirstName)
	assert.Equal(t, "Grace", *f.users.Users["u-1"].FirstName)

	rec = f.do(t, http.MethodPut, "/settings/password", "u-1", map[string]string{
		"currentPassword": "not-the-password",
		"newPassword":     "password456",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPut, "/settings/password", "u-1", map[string]string{
		"currentPassword": "password123",
		"newPassword":     "password456",
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "hashed:password456", f.users.Users["u-1"].PasswordHash)
}

func TestHandlersRequireUser(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/projects", "/subscriptions", "/auth/profile"} {
		rec := f.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestProjectHandler_Lifecycle(t *testing.T) {
	f := newFixture(t)
	f.seedUser("owner", "owner@example.com", user.RoleUser)
	f.seedUser("other", "other@example.com", user.RoleUser)

	rec := f.do(t, http.MethodPost, "/projects", "owner", map[string]string{"name": "Launch"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var p struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeData(t, rec, &p)
	assert.Equal(t, "active", p.Status)

	rec = f.do(t, http.MethodGet, "/projects/"+p.ID, "other", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodPatch, "/projects/"+p.ID, "owner", map[string]string{"status": "on_hold"})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &p)
	assert.Equal(t, "on_hold", p.Status)

	rec = f.do(t, http.MethodPatch, "/projects/"+p.ID, "owner", map[string]string{"status": "paused"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/projects/"+p.ID+"/tasks", "owner", map[string]string{
		"title":   "Write docs",
		"dueDate": "2025-02-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var task struct {
		ID       string     `json:"id"`
		Status   string     `json:"status"`
		Priority string     `json:"priority"`
		DueDate  *time.Time `json:"dueDate"`
	}
	decodeData(t, rec, &task)
	assert.Equal(t, "todo", task.Status)
	assert.Equal(t, "medium", task.Priority)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), task.DueDate.UTC())

	rec = f.do(t, http.MethodPost, "/projects/"+p.ID+"/tasks", "owner", map[string]string{
		"title":   "Bad date",
		"dueDate": "next week",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPatch, "/projects/"+p.ID+"/tasks/"+task.ID, "owner", map[string]string{"status": "done"})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &task)
	assert.Equal(t, "done", task.Status)

	rec = f.do(t, http.MethodGet, "/projects/"+p.ID+"/tasks", "owner", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]interface{}
	decodeData(t, rec, &list)
	assert.Len(t, list, 1)

	rec = f.do(t, http.MethodDelete, "/projects/"+p.ID, "owner", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, f.tasks.Count())

	rec = f.do(t, http.MethodGet, "/projects/"+p.ID+"/tasks/"+task.ID, "owner", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCRMHandler(t *testing.T) {
	f := newFixture(t)
	f.seedUser("owner", "owner@example.com", user.RoleUser)
	f.seedUser("other", "other@example.com", user.RoleUser)

	rec := f.do(t, http.MethodPost, "/crm/companies", "owner", map[string]string{
		"name":    "Acme",
		"website": "not a url",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/crm/companies", "owner", map[string]string{
		"name": "Acme",
		"size": "medium",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var company struct {
		ID string `json:"id"`
	}
	decodeData(t, rec, &company)

	rec = f.do(t, http.MethodPost, "/crm/contacts", "owner", map[string]string{
		"firstName": "Wile",
		"lastName":  "Coyote",
		"email":     "wile@acme.test",
		"companyId": company.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var contact struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}
	decodeData(t, rec, &contact)
	assert.Equal(t, "lead", contact.Type)

	rec = f.do(t, http.MethodGet, "/crm/contacts/"+contact.ID, "other", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodGet, "/crm/companies/"+company.ID+"/contacts", "owner", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var linked []map[string]interface{}
	decodeData(t, rec, &linked)
	assert.Len(t, linked, 1)

	rec = f.do(t, http.MethodDelete, "/crm/companies/"+company.ID, "owner", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/crm/contacts/"+contact.ID, "owner", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detached map[string]interface{}
	decodeData(t, rec, &detached)
	assert.Nil(t, detached["companyId"])
}

func TestSubscriptionHandler(t *testing.T) {
	f := newFixture(t)
	f.seedUser("u-1", "member@example.com", user.RoleUser)

	rec := f.do(t, http.MethodGet, "/subscriptions/plans", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var plans []map[string]interface{}
	decodeData(t, rec, &plans)
	assert.Len(t, plans, 4)

	rec = f.do(t, http.MethodGet, "/subscriptions", "u-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPost, "/subscriptions", "u-1", map[string]string{"plan": "platinum"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/subscriptions", "u-1", map[string]string{"plan": "free_trial"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Message      string `json:"message"`
		Subscription struct {
			Plan   string `json:"plan"`
			Status string `json:"status"`
		} `json:"subscription"`
	}
	decodeData(t, rec, &created)
	assert.Equal(t, "Subscription created successfully", created.Message)
	assert.Equal(t, "trial", created.Subscription.Status)

	rec = f.do(t, http.MethodPost, "/subscriptions", "u-1", map[string]string{"plan": "basic"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already has an active subscription", decode(t, rec).Error.Message)

	rec = f.do(t, http.MethodPut, "/subscriptions", "u-1", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Plan is required for update", decode(t, rec).Error.Message)

	rec = f.do(t, http.MethodPut, "/subscriptions", "u-1", map[string]string{"plan": "premium"})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &created)
	assert.Equal(t, "Subscription updated successfully", created.Message)
	assert.Equal(t, "premium", created.Subscription.Plan)
	assert.Equal(t, "active", created.Subscription.Status)

	rec = f.do(t, http.MethodGet, "/subscriptions", "u-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var info struct {
		PlanName  string `json:"planName"`
		HasAccess bool   `json:"hasAccess"`
	}
	decodeData(t, rec, &info)
	assert.Equal(t, "Premium", info.PlanName)
	assert.True(t, info.HasAccess)

	rec = f.do(t, http.MethodPost, "/subscriptions/cancel", "u-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &created)
	assert.Equal(t, "Subscription cancelled successfully", created.Message)
	assert.Equal(t, "cancelled", created.Subscription.Status)
}

func TestBillingHandler_Checkout(t *testing.T) {
	f := newFixture(t)
	f.seedUser("u-1", "member@example.com", user.RoleUser)

	f.gateway.GatewayMode = billing.ModeMock
	f.gateway.Checkout = &billing.CheckoutSession{URL: "http://localhost/subscription?mock=true", SessionID: "mock_cs_1", Message: "Mock checkout"}

	rec := f.do(t, http.MethodPost, "/stripe/create-checkout-session", "u-1", map[string]string{"plan": "basic"})
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "mock_cs_1", body["sessionId"])
	assert.Equal(t, true, body["mockMode"])
	assert.NotContains(t, body, "success")

	f.gateway.Err = billing.ErrInvalidPlan
	rec = f.do(t, http.MethodPost, "/stripe/create-checkout-session", "u-1", map[string]string{"plan": "gold"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid plan selected"}`, rec.Body.String())

	f.gateway.Err = errors.New("stripe: api key expired sk_live_123")
	rec = f.do(t, http.MethodPost, "/stripe/create-checkout-session", "u-1", map[string]string{"plan": "basic"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to create checkout session"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/stripe/create-checkout-session", bytes.NewBufferString(`{"plan":"basic"}`))
	req = req.WithContext(middleware.WithUser(req.Context(), &user.User{ID: "ghost", Role: user.RoleUser}))
	ghost := httptest.NewRecorder()
	f.router.ServeHTTP(ghost, req)
	assert.Equal(t, http.StatusUnauthorized, ghost.Code)
}

func TestBillingHandler_Portal(t *testing.T) {
	f := newFixture(t)
	f.seedUser("u-1", "member@example.com", user.RoleUser)
	f.gateway.Portal = &billing.PortalSession{URL: "https://billing.example.com/p/1"}

	rec := f.do(t, http.MethodPost, "/stripe/create-portal-session", "u-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"url":"https://billing.example.com/p/1"}`, rec.Body.String())

	f.gateway.Err = billing.ErrNoCustomer
	rec = f.do(t, http.MethodPost, "/stripe/create-portal-session", "u-1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"error":"No Stripe customer found for this user"}`, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/stripe/create-portal-session", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBillingHandler_Webhook(t *testing.T) {
	f := newFixture(t)

	f.gateway.Err = billing.ErrInvalidSignature
	req := httptest.NewRequest(http.MethodPost, "/stripe/webhook", bytes.NewBufferString(`{}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=bad")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"received":false,"error":"Webhook signature verification failed"}`, rec.Body.String())
	assert.Equal(t, []string{"t=1,v1=bad"}, f.gateway.signatures)

	f.gateway.Err = nil
	f.gateway.GatewayMode = billing.ModePaddle
	f.gateway.Event = &billing.Event{ID: "evt_1", ProviderType: "customer.updated"}
	req = httptest.NewRequest(http.MethodPost, "/stripe/webhook", bytes.NewBufferString(`{}`))
	req.Header.Set("Paddle-Signature", "ts=1;h1=abc")
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received":true}`, rec.Body.String())
	assert.Equal(t, "ts=1;h1=abc", f.gateway.signatures[1])
}

func TestHealthHandler(t *testing.T) {
	log := testutil.NewTestLogger()

	ok := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("connection refused") }

	h := NewHealthHandler("1.2.3", map[string]Check{"database": ok}, log)
	rec := httptest.NewRecorder()
	h.Healthz(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1.2.3")

	rec = httptest.NewRecorder()
	h.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"connected"`)

	h = NewHealthHandler("1.2.3", map[string]Check{"database": ok, "redis": down}, log)
	rec = httptest.NewRecorder()
	h.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "redis is unavailable")
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	query  string
	auth   string
	body   map[string]interface{}
}

// stub serves a canned response and records the last request
func stub(t *testing.T, status int, payload string) (*Client, *recorded) {
	t.Helper()

	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.RawQuery
		rec.auth = r.Header.Get("Authorization")
		rec.body = nil
		if r.ContentLength > 0 {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&rec.body))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)

	return NewClient(Config{BaseURL: srv.URL + "/"}), rec
}

func TestLoginStoresToken(t *testing.T) {
	c, rec := stub(t, http.StatusOK, `{"success":true,"data":{"access_token":"at","refresh_token":"rt","user":{"id":"u-1","email":"a@b.co","role":"user","isActive":true}}}`)

	res, err := c.Auth.Login(context.Background(), "a@b.co", "secret123")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/api/auth/login", rec.path)
	assert.Equal(t, "a@b.co", rec.body["email"])
	assert.Equal(t, "u-1", res.User.ID)
	assert.Equal(t, "at", c.GetToken())

	_, err = c.Auth.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer at", rec.auth)
}

func TestLogoutForgetsToken(t *testing.T) {
	c, _ := stub(t, http.StatusOK, `{"success":true,"data":{"message":"Logged out"}}`)
	c.SetToken("at")

	require.NoError(t, c.Auth.Logout(context.Background()))
	assert.Empty(t, c.GetToken())
}

func TestErrorEnvelope(t *testing.T) {
	c, _ := stub(t, http.StatusNotFound, `{"success":false,"error":{"code":"NOT_FOUND","message":"Project not found"}}`)

	_, err := c.Projects.Get(context.Background(), "missing")
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Equal(t, "Project not found", apiErr.Message)
}

func TestErrorWithoutEnvelope(t *testing.T) {
	c, _ := stub(t, http.StatusBadGateway, "upstream down\n")

	_, err := c.Ready(context.Background())
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsServerError())
	assert.Equal(t, "upstream down", apiErr.Message)
}

func TestTaskPaths(t *testing.T) {
	c, rec := stub(t, http.StatusCreated, `{"success":true,"data":{"id":"t-1","title":"Ship","status":"todo","priority":"high","projectId":"p 1"}}`)

	due := "2025-02-01"
	task, err := c.Tasks.Create(context.Background(), "p 1", CreateTaskRequest{Title: "Ship", Priority: "high", DueDate: &due})
	require.NoError(t, err)
	assert.Equal(t, "t-1", task.ID)
	assert.Equal(t, "/api/projects/p 1/tasks", rec.path)
	assert.Equal(t, "2025-02-01", rec.body["dueDate"])

	status := "done"
	_, err = c.Tasks.Update(context.Background(), "p 1", "t-1", UpdateTaskRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, rec.method)
	assert.Equal(t, "/api/projects/p 1/tasks/t-1", rec.path)
	assert.Equal(t, map[string]interface{}{"status": "done"}, rec.body)
}

func TestDeleteWithNoContent(t *testing.T) {
	c, rec := stub(t, http.StatusNoContent, "")

	require.NoError(t, c.CRM.DeleteCompany(context.Background(), "c-1"))
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "/api/crm/companies/c-1", rec.path)
}

func TestCompanyContacts(t *testing.T) {
	c, rec := stub(t, http.StatusOK, `{"success":true,"data":[{"id":"k-1","firstName":"Ada","lastName":"L","email":"ada@x.io","companyId":"c-1","type":"lead"}]}`)

	contacts, err := c.CRM.ListCompanyContacts(context.Background(), "c-1")
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	require.NotNil(t, contacts[0].CompanyID)
	assert.Equal(t, "c-1", *contacts[0].CompanyID)
	assert.Equal(t, "/api/crm/companies/c-1/contacts", rec.path)
}

func TestAdminListUsersQuery(t *testing.T) {
	c, rec := stub(t, http.StatusOK, `{"success":true,"data":{"data":[{"id":"u-1","email":"a@b.co","role":"admin","isActive":true}],"page":2,"page_size":5,"total_items":6,"total_pages":2}}`)

	page, err := c.Admin.ListUsers(context.Background(), 2, 5)
	require.NoError(t, err)
	assert.Equal(t, "page=2&page_size=5", rec.query)
	assert.Equal(t, int64(6), page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Data, 1)

	_, err = c.Admin.ListUsers(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, rec.query)
}

func TestSubscriptionMutation(t *testing.T) {
	c, rec := stub(t, http.StatusCreated, `{"success":true,"data":{"message":"Subscription created successfully","subscription":{"id":"s-1","userId":"u-1","plan":"basic","status":"active"}}}`)

	res, err := c.Subscriptions.Create(context.Background(), "basic")
	require.NoError(t, err)
	assert.Equal(t, "Subscription created successfully", res.Message)
	require.NotNil(t, res.Subscription)
	assert.Equal(t, "active", res.Subscription.Status)
	assert.Equal(t, "basic", rec.body["plan"])

	_, err = c.Subscriptions.Cancel(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/api/subscriptions/cancel", rec.path)
}

func TestCheckoutSuccess(t *testing.T) {
	c, rec := stub(t, http.StatusOK, `{"url":"http://localhost:5173/billing?success=true","sessionId":"mock_1","mockMode":true}`)

	session, err := c.Billing.Checkout(context.Background(), "premium")
	require.NoError(t, err)
	assert.True(t, session.MockMode)
	assert.Equal(t, "mock_1", session.SessionID)
	assert.Equal(t, "/api/stripe/create-checkout-session", rec.path)
}

func TestCheckoutFailureReportedWith200(t *testing.T) {
	c, _ := stub(t, http.StatusOK, `{"error":"Invalid plan selected"}`)

	_, err := c.Billing.Checkout(context.Background(), "gold")
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, CodeBillingError, apiErr.Code)
	assert.Equal(t, "Invalid plan selected", apiErr.Message)
	assert.Equal(t, http.StatusOK, apiErr.StatusCode)
}

func TestPortalUnauthorized(t *testing.T) {
	c, _ := stub(t, http.StatusUnauthorized, `{"success":false,"error":{"code":"UNAUTHORIZED","message":"Authentication required"}}`)

	_, err := c.Billing.Portal(context.Background())
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsUnauthorized())
}

func TestReadyReportsFailingDependency(t *testing.T) {
	c, rec := stub(t, http.StatusServiceUnavailable, `{"success":false,"error":{"code":"SERVICE_UNAVAILABLE","message":"redis is unavailable"}}`)

	_, err := c.Ready(context.Background())
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "/readyz", rec.path)
	assert.Equal(t, "SERVICE_UNAVAILABLE", apiErr.Code)
	assert.Equal(t, "redis is unavailable", apiErr.Message)
}

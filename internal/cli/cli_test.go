package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type response struct {
	status int
	body   string
}

type apiStub struct {
	routes   map[string]response
	lastAuth string
	lastBody map[string]interface{}
	url      string
}

func newAPIStub(t *testing.T, routes map[string]response) *apiStub {
	t.Helper()

	s := &apiStub{routes: routes}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.lastAuth = r.Header.Get("Authorization")
		s.lastBody = nil
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &s.lastBody)
		}

		res, ok := s.routes[r.Method+" "+r.URL.Path]
		if !ok {
			res = response{http.StatusNotFound, `{"success":false,"error":{"code":"NOT_FOUND","message":"Route not found"}}`}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(res.status)
		_, _ = w.Write([]byte(res.body))
	}))
	t.Cleanup(srv.Close)
	s.url = srv.URL
	return s
}

// run executes the CLI against the stub with an isolated config file
func run(t *testing.T, s *apiStub, args ...string) (string, error) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg := filepath.Join(t.TempDir(), "config.yaml")
	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(append([]string{"--server", s.url, "--config", cfg, "-o", "table"}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func TestProjectListTable(t *testing.T) {
	t.Setenv("FLOWVERA_AUTH_TOKEN", "tok")
	s := newAPIStub(t, map[string]response{
		"GET /api/projects": {http.StatusOK, `{"success":true,"data":[{"id":"p-1","name":"Website relaunch","status":"active","ownerId":"u-1","createdAt":"2025-01-10T00:00:00Z"}]}`},
	})

	out, err := run(t, s, "project", "list")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", s.lastAuth)
	assert.Contains(t, out, "Website relaunch")
	assert.Contains(t, out, "[+] active")
	assert.Contains(t, out, "2025-01-10")
	assert.Contains(t, out, "1 projects")
}

func TestTaskCreateJSON(t *testing.T) {
	t.Setenv("FLOWVERA_AUTH_TOKEN", "tok")
	s := newAPIStub(t, map[string]response{
		"POST /api/projects/p-1/tasks": {http.StatusCreated, `{"success":true,"data":{"id":"t-1","title":"Ship","status":"todo","priority":"high","projectId":"p-1","dueDate":"2025-02-01T00:00:00Z"}}`},
	})

	out, err := run(t, s, "task", "create", "-p", "p-1", "--title", "Ship", "--priority", "high", "--due", "2025-02-01", "-o", "json")
	require.NoError(t, err)

	assert.Equal(t, "Ship", s.lastBody["title"])
	assert.Equal(t, "2025-02-01", s.lastBody["dueDate"])
	assert.NotContains(t, s.lastBody, "assignedTo")

	var task map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &task))
	assert.Equal(t, "t-1", task["id"])
	assert.Equal(t, "p-1", task["projectId"])
}

func TestCommandsNeedLogin(t *testing.T) {
	t.Setenv("FLOWVERA_AUTH_TOKEN", "")
	s := newAPIStub(t, nil)

	_, err := run(t, s, "company", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flowvera auth login")
}

func TestLoginStoresCredentials(t *testing.T) {
	t.Setenv("FLOWVERA_AUTH_TOKEN", "")
	s := newAPIStub(t, map[string]response{
		"POST /api/auth/login": {http.StatusOK, `{"success":true,"data":{"access_token":"at","refresh_token":"rt","user":{"id":"u-1","email":"ada@example.com","firstName":"Ada","role":"user","isActive":true}}}`},
	})

	out, err := run(t, s, "auth", "login", "--email", "ada@example.com", "--password", "password123")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as Ada")

	raw, err := os.ReadFile(cfgFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "token: at")
	assert.Contains(t, string(raw), "refresh_token: rt")
}

func TestSubscriptionShowWithoutSubscription(t *testing.T) {
	t.Setenv("FLOWVERA_AUTH_TOKEN", "tok")
	s := newAPIStub(t, map[string]response{
		"GET /api/subscriptions": {http.StatusNotFound, `{"success":false,"error":{"code":"NOT_FOUND","message":"Subscription not found"}}`},
	})

	out, err := run(t, s, "subscription", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "No subscription")
}

func TestPlansArePublic(t *testing.T) {
	t.Setenv("FLOWVERA_AUTH_TOKEN", "")
	s := newAPIStub(t, map[string]response{
		"GET /api/subscriptions/plans": {http.StatusOK, `{"success":true,"data":[{"id":"premium","name":"Premium","pricePerUser":25,"currency":"USD","limits":{"maxUsers":20,"maxProjects":-1,"maxContacts":-1}}]}`},
	})

	out, err := run(t, s, "subscription", "plans")
	require.NoError(t, err)
	assert.Empty(t, s.lastAuth)
	assert.Contains(t, out, "Premium")
	assert.Contains(t, out, "25.00 USD")
	assert.Contains(t, out, "unlimited")
}

func TestBillingCheckoutFailure(t *testing.T) {
	t.Setenv("FLOWVERA_AUTH_TOKEN", "tok")
	s := newAPIStub(t, map[string]response{
		"POST /api/stripe/create-checkout-session": {http.StatusOK, `{"error":"Invalid plan selected"}`},
	})

	_, err := run(t, s, "billing", "checkout", "gold")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid plan selected")
}

func TestStatusWithoutLogin(t *testing.T) {
	t.Setenv("FLOWVERA_AUTH_TOKEN", "")
	s := newAPIStub(t, map[string]response{
		"GET /health": {http.StatusOK, `{"success":true,"data":{"status":"ok","service":"flowvera","version":"1.2.0"}}`},
	})

	out, err := run(t, s, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "[+] ok (1.2.0)")
	assert.Contains(t, out, "not logged in")
}

func TestPrintYAMLUsesAPIFieldNames(t *testing.T) {
	var buf bytes.Buffer
	type sample struct {
		OwnerID string `json:"ownerId"`
	}
	require.NoError(t, printYAML(&buf, sample{OwnerID: "u-1"}))
	assert.Equal(t, "ownerId: u-1\n", buf.String())
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "[+] done", formatStatus("done"))
	assert.Equal(t, "[~] on_hold", formatStatus("on_hold"))
	assert.Equal(t, "[!] URGENT", formatPriority("urgent"))
	assert.Equal(t, "unlimited", limit(-1))
	assert.Equal(t, "5", limit(5))
	assert.Equal(t, "-", formatDate(nil))
	assert.True(t, validFormat("yaml"))
	assert.False(t, validFormat("xml"))
}

func TestCommandAccessLevels(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"auth", "login"}, accessPublic},
		{[]string{"auth", "logout"}, accessOffline},
		{[]string{"auth", "whoami"}, accessToken},
		{[]string{"config", "set"}, accessOffline},
		{[]string{"subscription", "plans"}, accessPublic},
		{[]string{"subscription", "show"}, accessToken},
		{[]string{"status"}, accessPublic},
		{[]string{"project", "list"}, accessToken},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			cmd, _, err := rootCmd.Find(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, accessOf(cmd))
		})
	}
}

func TestRootCommandSkipsAuth(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("FLOWVERA_AUTH_TOKEN", "")

	require.NoError(t, rootCmd.PersistentPreRunE(rootCmd, nil))

	cmd, _, err := rootCmd.Find([]string{"project", "list"})
	require.NoError(t, err)
	assert.ErrorIs(t, rootCmd.PersistentPreRunE(cmd, nil), errNotLoggedIn)
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Client is the Flowvera API client
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string // JWT access token for authenticated requests

	Auth          *AuthService
	Projects      *ProjectService
	Tasks         *TaskService
	CRM           *CRMService
	Subscriptions *SubscriptionService
	Billing       *BillingService
	Admin         *AdminService
}

// Config holds the client configuration
type Config struct {
	BaseURL    string        // API base URL (e.g., "https://api.flowvera.com")
	Token      string        // Optional access token
	Timeout    time.Duration // HTTP client timeout (default: 30s)
	HTTPClient *http.Client  // Optional custom HTTP client
}

// NewClient creates a new Flowvera API client
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
		}
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		token:      cfg.Token,
	}
	c.Auth = &AuthService{client: c}
	c.Projects = &ProjectService{client: c}
	c.Tasks = &TaskService{client: c}
	c.CRM = &CRMService{client: c}
	c.Subscriptions = &SubscriptionService{client: c}
	c.Billing = &BillingService{client: c}
	c.Admin = &AdminService{client: c}
	return c
}

// SetToken sets the JWT token for authenticated requests
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// GetToken returns the current JWT token
func (c *Client) GetToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// envelope is the standard API response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
}

// doRequest performs a request against an enveloped endpoint and decodes
// data into result.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	status, respBody, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}

	if status >= 400 {
		return decodeError(status, respBody)
	}
	if result == nil || len(respBody) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, result); err != nil {
		return fmt.Errorf("failed to parse response data: %w", err)
	}
	return nil
}

// doRaw performs a request against an endpoint that answers bare JSON.
func (c *Client) doRaw(ctx context.Context, method, path string, body, result interface{}) (int, error) {
	status, respBody, err := c.send(ctx, method, path, body)
	if err != nil {
		return 0, err
	}
	if status >= 400 {
		return status, decodeError(status, respBody)
	}
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return status, fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return status, nil
}

func (c *Client) send(ctx context.Context, method, path string, body interface{}) (int, []byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.GetToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

func decodeError(status int, body []byte) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil || env.Error == nil {
		return &APIError{StatusCode: status, Message: strings.TrimSpace(string(body))}
	}
	env.Error.StatusCode = status
	return env.Error
}

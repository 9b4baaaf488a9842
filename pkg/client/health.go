package client

import (
	"context"
	"net/http"
)

// Health checks the liveness of the API
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Ready returns the readiness report, e.g. {"status":"ready","database":"connected"}.
// When a dependency is down the API answers 503 and Ready returns an
// *APIError whose message names it.
func (c *Client) Ready(ctx context.Context) (map[string]string, error) {
	report := make(map[string]string)
	if err := c.doRequest(ctx, http.MethodGet, "/readyz", nil, &report); err != nil {
		return nil, err
	}
	return report, nil
}

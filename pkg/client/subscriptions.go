package client

import (
	"context"
	"net/http"
)

// SubscriptionService handles the plan catalog and the caller's subscription
type SubscriptionService struct {
	client *Client
}

// SubscriptionResult is the payload of subscription mutations
type SubscriptionResult struct {
	Message      string        `json:"message"`
	Subscription *Subscription `json:"subscription"`
}

// Plans returns the catalog. No token is required.
func (s *SubscriptionService) Plans(ctx context.Context) ([]Plan, error) {
	var plans []Plan
	if err := s.client.doRequest(ctx, http.MethodGet, "/api/subscriptions/plans", nil, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// Get returns the caller's subscription with derived fields
func (s *SubscriptionService) Get(ctx context.Context) (*SubscriptionInfo, error) {
	var info SubscriptionInfo
	if err := s.client.doRequest(ctx, http.MethodGet, "/api/subscriptions", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Create subscribes the caller to a plan
func (s *SubscriptionService) Create(ctx context.Context, plan string) (*SubscriptionResult, error) {
	return s.mutate(ctx, http.MethodPost, "/api/subscriptions", map[string]string{"plan": plan})
}

// Change moves the caller to another plan
func (s *SubscriptionService) Change(ctx context.Context, plan string) (*SubscriptionResult, error) {
	return s.mutate(ctx, http.MethodPut, "/api/subscriptions", map[string]string{"plan": plan})
}

// Cancel cancels the caller's subscription
func (s *SubscriptionService) Cancel(ctx context.Context) (*SubscriptionResult, error) {
	return s.mutate(ctx, http.MethodPost, "/api/subscriptions/cancel", nil)
}

func (s *SubscriptionService) mutate(ctx context.Context, method, path string, body interface{}) (*SubscriptionResult, error) {
	var res SubscriptionResult
	if err := s.client.doRequest(ctx, method, path, body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// BillingService starts checkouts and opens the billing portal
type BillingService struct {
	client *Client
}

// CheckoutSession is the redirect target for a plan purchase
type CheckoutSession struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
	MockMode  bool   `json:"mockMode,omitempty"`
	Message   string `json:"message,omitempty"`
}

// PortalSession is the redirect target for the billing portal
type PortalSession struct {
	URL      string `json:"url"`
	MockMode bool   `json:"mockMode,omitempty"`
	Message  string `json:"message,omitempty"`
}

// billingReply covers both the success payload and the 200 error form
type billingReply struct {
	CheckoutSession
	Error string `json:"error,omitempty"`
}

// Checkout starts a hosted checkout for plan. Billing failures come back as
// an *APIError with Code CodeBillingError.
func (s *BillingService) Checkout(ctx context.Context, plan string) (*CheckoutSession, error) {
	var reply billingReply
	status, err := s.client.doRaw(ctx, http.MethodPost, "/api/stripe/create-checkout-session", map[string]string{"plan": plan}, &reply)
	if err != nil {
		return nil, err
	}
	if reply.Error != "" {
		return nil, &APIError{StatusCode: status, Code: CodeBillingError, Message: reply.Error}
	}
	return &reply.CheckoutSession, nil
}

// Portal returns a billing portal link
func (s *BillingService) Portal(ctx context.Context) (*PortalSession, error) {
	var reply billingReply
	status, err := s.client.doRaw(ctx, http.MethodPost, "/api/stripe/create-portal-session", nil, &reply)
	if err != nil {
		return nil, err
	}
	if reply.Error != "" {
		return nil, &APIError{StatusCode: status, Code: CodeBillingError, Message: reply.Error}
	}
	return &PortalSession{URL: reply.URL, MockMode: reply.MockMode, Message: reply.Message}, nil
}

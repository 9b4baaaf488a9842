package dto

// CheckoutSessionRequest represents a checkout request. Unsupported plans are
// reported by the gateway, not the validator.
type CheckoutSessionRequest struct {
	Plan string `json:"plan" validate:"required"`
}

// CheckoutSessionResponse is the bare checkout payload
type CheckoutSessionResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
	MockMode  bool   `json:"mockMode,omitempty"`
	Message   string `json:"message,omitempty"`
}

// PortalSessionResponse is the bare portal payload
type PortalSessionResponse struct {
	URL      string `json:"url"`
	MockMode bool   `json:"mockMode,omitempty"`
	Message  string `json:"message,omitempty"`
}

// BillingErrorResponse reports a billing failure with HTTP 200
type BillingErrorResponse struct {
	Error string `json:"error"`
}

// WebhookResponse acknowledges a processor webhook
type WebhookResponse struct {
	Received bool   `json:"received"`
	Error    string `json:"error,omitempty"`
}

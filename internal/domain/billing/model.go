// Package billing defines the payment processor capability used for
// checkout, the customer portal and inbound webhooks.
package billing

import (
	"context"
	"errors"

	"github.com/flowvera/flowvera/internal/domain/plan"
)

// Mode names the active gateway implementation.
type Mode string

const (
	ModeMock   Mode = "mock"
	ModeStripe Mode = "stripe"
	ModePaddle Mode = "paddle"
)

// Errors returned by gateways. Their messages are shown to users.
var (
	ErrInvalidPlan         = errors.New("Invalid plan selected")
	ErrNoCustomer          = errors.New("No Stripe customer found for this user")
	ErrWebhooksUnsupported = errors.New("Webhooks are not available in mock mode")
	ErrInvalidSignature    = errors.New("Webhook signature verification failed")
	ErrNotConfigured       = errors.New("Payment provider is not configured. Configure it in environment variables or enable STRIPE_MOCK_MODE.")
	ErrPricesNotConfigured = errors.New("Price IDs are not configured. Please set them in environment variables.")
	ErrMockUpdateFailed    = errors.New("Failed to update subscription in mock mode")
	ErrCheckoutFailed      = errors.New("Failed to create checkout session")
	ErrPortalFailed        = errors.New("Failed to create portal session")
)

// CheckoutRequest asks for a hosted checkout page for a plan.
type CheckoutRequest struct {
	UserID     string
	Email      string
	Plan       plan.ID
	CustomerID string // existing processor customer, if any
}

// CheckoutSession is the redirect target returned to the browser.
type CheckoutSession struct {
	URL       string
	SessionID string
	Message   string
}

// PortalRequest asks for a self-service billing portal link.
type PortalRequest struct {
	UserID         string
	CustomerID     string
	SubscriptionID string
}

// PortalSession is the redirect target for the billing portal.
type PortalSession struct {
	URL     string
	Message string
}

// EventType is a processor-neutral webhook event kind
type EventType string

const (
	EventCheckoutCompleted    EventType = "checkout.completed"
	EventSubscriptionUpdated  EventType = "subscription.updated"
	EventSubscriptionDeleted  EventType = "subscription.deleted"
	EventInvoicePaid          EventType = "invoice.paid"
	EventInvoicePaymentFailed EventType = "invoice.payment_failed"
)

// Event is a verified, normalized webhook event.
type Event struct {
	ID             string
	Type           EventType
	ProviderType   string // event name as sent by the processor
	UserID         string // from checkout metadata, when present
	Plan           plan.ID
	CustomerID     string
	SubscriptionID string
	PriceID        string
	Status         string
	CustomerEmail  string
	Amount         int64 // minor units
	Currency       string
	// Initial marks the first invoice of a new subscription, which the
	// checkout event has already reported.
	Initial bool
}

// Gateway is implemented once per payment processor plus a local mock.
type Gateway interface {
	Mode() Mode
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	CreatePortalSession(ctx context.Context, req PortalRequest) (*PortalSession, error)
	ParseWebhook(ctx context.Context, payload []byte, signature string) (*Event, error)
}

// EventStore remembers processed webhook event ids.
type EventStore interface {
	// MarkProcessed records id and reports whether it was seen for the first time
	MarkProcessed(ctx context.Context, id string) (bool, error)

	// Forget removes id so a failed event can be retried by the processor
	Forget(ctx context.Context, id string) error
}

var publicErrors = []error{
	ErrInvalidPlan, ErrNoCustomer, ErrWebhooksUnsupported, ErrInvalidSignature,
	ErrNotConfigured, ErrPricesNotConfigured, ErrMockUpdateFailed, ErrCheckoutFailed, ErrPortalFailed,
}

// UserMessage returns the message of the first known billing error in err's
// chain, or fallback. Provider details never reach the caller.
func UserMessage(err error, fallback string) string {
	for _, known := range publicErrors {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return fallback
}

package billing

import (
	"context"

	"github.com/flowvera/flowvera/internal/domain/plan"
)

// Service coordinates the gateway with the subscription ledger
type Service interface {
	// Mode reports which gateway is active
	Mode() Mode

	// CreateCheckoutSession starts a checkout for userID moving to planID
	CreateCheckoutSession(ctx context.Context, userID string, planID plan.ID) (*CheckoutSession, error)

	// CreatePortalSession returns a billing portal link for userID
	CreatePortalSession(ctx context.Context, userID string) (*PortalSession, error)

	// HandleWebhook verifies and applies an inbound processor event
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

package subscription

import (
	"context"
	"time"

	"github.com/flowvera/flowvera/internal/domain/plan"
)

// Service defines the subscription ledger operations
type Service interface {
	// Create starts a subscription for userID on planID
	Create(ctx context.Context, userID string, planID plan.ID) (*Subscription, error)

	// Get returns the user's subscription after running the expiry sweep
	Get(ctx context.Context, userID string) (*Subscription, error)

	// GetInfo returns the subscription with derived fields
	GetInfo(ctx context.Context, userID string) (*Info, error)

	// Update changes the plan of a non-terminal subscription
	Update(ctx context.Context, userID string, in UpdateInput) (*Subscription, error)

	// Cancel marks the subscription cancelled
	Cancel(ctx context.Context, userID string) (*Subscription, error)

	// CheckAndUpdateExpired expires due subscriptions; safe to call repeatedly
	CheckAndUpdateExpired(ctx context.Context) (int64, error)

	// Plans returns the catalog
	Plans() []plan.Plan

	// AttachCustomer records processor identifiers after a completed checkout
	AttachCustomer(ctx context.Context, userID, customerID, subscriptionID, priceID string) error

	// GetByCustomer returns the subscription linked to a processor customer
	GetByCustomer(ctx context.Context, customerID string) (*Subscription, error)

	// CancelByCustomer cancels the subscription linked to a processor customer
	CancelByCustomer(ctx context.Context, customerID string) (*Subscription, error)

	// SyncStatusByCustomer applies a processor status change
	SyncStatusByCustomer(ctx context.Context, customerID string, ext ExternalStatus) (*Subscription, error)

	// ListExpiringTrials returns trials ending within the window from now
	ListExpiringTrials(ctx context.Context, within time.Duration) ([]*Subscription, error)
}

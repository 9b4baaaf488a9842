package subscription

import (
	"context"
	"time"
)

// Repository defines the interface for subscription data access
type Repository interface {
	// Create stores a new subscription
	Create(ctx context.Context, s *Subscription) error

	// GetByUserID returns the subscription owned by userID
	GetByUserID(ctx context.Context, userID string) (*Subscription, error)

	// GetByStripeCustomerID returns the subscription linked to a processor customer
	GetByStripeCustomerID(ctx context.Context, customerID string) (*Subscription, error)

	// Update overwrites all mutable fields
	Update(ctx context.Context, s *Subscription) error

	// ExpireDue moves trial and active rows whose end date is at or before
	// now to expired and returns the number of rows changed
	ExpireDue(ctx context.Context, now time.Time) (int64, error)

	// ListTrialsEndingBetween returns trials with from < end_date <= to
	ListTrialsEndingBetween(ctx context.Context, from, to time.Time) ([]*Subscription, error)
}

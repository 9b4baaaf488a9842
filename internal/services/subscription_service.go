package services

import (
	"context"
	"time"

	"github.com/flowvera/flowvera/internal/domain/plan"
	"github.com/flowvera/flowvera/internal/domain/subscription"
	"github.com/flowvera/flowvera/internal/pkg/errors"
	"github.com/flowvera/flowvera/internal/pkg/logger"
	"github.com/flowvera/flowvera/internal/pkg/metrics"
	"github.com/google/uuid"
)

// SubscriptionService implements subscription.Service
type SubscriptionService struct {
	repo    subscription.Repository
	catalog plan.Catalog
	logger  *logger.Logger
	now     Clock
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(repo subscription.Repository, catalog plan.Catalog, log *logger.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:    repo,
		catalog: catalog,
		logger:  log,
		now:     SystemClock,
	}
}

// WithClock replaces the time source
func (s *SubscriptionService) WithClock(c Clock) *SubscriptionService {
	s.now = c
	return s
}

func (s *SubscriptionService) lookupPlan(id plan.ID) (plan.Plan, error) {
	p, ok := s.catalog.Get(id)
	if !ok {
		return plan.Plan{}, errors.BadRequest("Invalid plan")
	}
	return p, nil
}

// Create starts a subscription. A terminal or inactive record is restarted
// in place since a user has at most one row.
func (s *SubscriptionService) Create(ctx context.Context, userID string, planID plan.ID) (*subscription.Subscription, error) {
	p, err := s.lookupPlan(planID)
	if err != nil {
		return nil, err
	}
	now := s.now()

	existing, err := s.Get(ctx, userID)
	switch {
	case err == nil:
		if existing.Status.IsLive() {
			return nil, errors.BadRequest("User already has an active subscription")
		}
		from := existing.Status
		existing.Restart(p, now)
		if err := s.repo.Update(ctx, existing); err != nil {
			s.logger.ErrorWithErr(err, "Failed to restart subscription")
			return nil, err
		}
		s.logTransition(existing, string(from))
		return existing, nil
	case !errors.IsNotFound(err):
		return nil, err
	}

	sub := subscription.New(uuid.NewString(), userID, p, now)
	if err := s.repo.Create(ctx, sub); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create subscription")
		return nil, err
	}
	s.logTransition(sub, "none")
	return sub, nil
}

// Get returns the user's subscription after expiring due rows
func (s *SubscriptionService) Get(ctx context.Context, userID string) (*subscription.Subscription, error) {
	if _, err := s.CheckAndUpdateExpired(ctx); err != nil {
		return nil, err
	}
	return s.repo.GetByUserID(ctx, userID)
}

// GetInfo returns the subscription with derived display fields
func (s *SubscriptionService) GetInfo(ctx context.Context, userID string) (*subscription.Info, error) {
	sub, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	info := &subscription.Info{
		Subscription:  sub,
		PlanName:      string(sub.Plan),
		DaysRemaining: sub.DaysRemainingAt(now),
		IsExpired:     sub.IsExpiredAt(now),
		HasAccess:     sub.HasAccessAt(now),
	}
	if p, ok := s.catalog.Get(sub.Plan); ok {
		info.PlanName = p.Name
	}
	return info, nil
}

// Update changes the plan of a non-terminal subscription
func (s *SubscriptionService) Update(ctx context.Context, userID string, in subscription.UpdateInput) (*subscription.Subscription, error) {
	sub, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !sub.Status.CanUpdate() {
		return nil, errors.BadRequest("Cannot update cancelled or expired subscription")
	}
	if in.Plan == nil {
		return nil, errors.BadRequest("Plan is required for update")
	}
	p, err := s.lookupPlan(*in.Plan)
	if err != nil {
		return nil, err
	}

	from := sub.Status
	sub.ApplyPlan(p, s.now())
	if err := s.repo.Update(ctx, sub); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update subscription")
		return nil, err
	}
	s.logTransition(sub, string(from))
	return sub, nil
}

// Cancel marks the subscription cancelled and keeps its end date
func (s *SubscriptionService) Cancel(ctx context.Context, userID string) (*subscription.Subscription, error) {
	sub, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !sub.Status.CanCancel() {
		return nil, errors.BadRequest("Subscription is already cancelled")
	}
	return s.cancel(ctx, sub)
}

func (s *SubscriptionService) cancel(ctx context.Context, sub *subscription.Subscription) (*subscription.Subscription, error) {
	from := sub.Status
	sub.Cancel(s.now())
	if err := s.repo.Update(ctx, sub); err != nil {
		s.logger.ErrorWithErr(err, "Failed to cancel subscription")
		return nil, err
	}
	s.logTransition(sub, string(from))
	return sub, nil
}

// CheckAndUpdateExpired expires trial and active rows past their end date
func (s *SubscriptionService) CheckAndUpdateExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.ExpireDue(ctx, s.now())
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to expire subscriptions")
		return 0, err
	}
	if n > 0 {
		metrics.RecordExpiredBySweep(n)
		s.logger.With("count", n).Info("Expired subscriptions")
	}
	return n, nil
}

// Plans returns the catalog
func (s *SubscriptionService) Plans() []plan.Plan {
	return s.catalog.All()
}

// AttachCustomer records processor identifiers on the user's subscription
func (s *SubscriptionService) AttachCustomer(ctx context.Context, userID, customerID, subscriptionID, priceID string) error {
	sub, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if customerID != "" {
		sub.StripeCustomerID = &customerID
	}
	if subscriptionID != "" {
		sub.StripeSubscriptionID = &subscriptionID
	}
	if priceID != "" {
		sub.StripePriceID = &priceID
	}
	sub.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, sub); err != nil {
		s.logger.ErrorWithErr(err, "Failed to attach billing customer")
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":         userID,
		"subscription_id": sub.ID,
		"customer_id":     customerID,
	}).Info("Billing customer attached")
	return nil
}

// GetByCustomer returns the subscription linked to a processor customer
func (s *SubscriptionService) GetByCustomer(ctx context.Context, customerID string) (*subscription.Subscription, error) {
	return s.repo.GetByStripeCustomerID(ctx, customerID)
}

// CancelByCustomer cancels the subscription linked to customerID. An
// already cancelled subscription is returned unchanged.
func (s *SubscriptionService) CancelByCustomer(ctx context.Context, customerID string) (*subscription.Subscription, error) {
	sub, err := s.repo.GetByStripeCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !sub.Status.CanCancel() {
		return sub, nil
	}
	return s.cancel(ctx, sub)
}

// SyncStatusByCustomer applies an external status. Unknown statuses and
// terminal records are left unchanged.
func (s *SubscriptionService) SyncStatusByCustomer(ctx context.Context, customerID string, ext subscription.ExternalStatus) (*subscription.Subscription, error) {
	sub, err := s.repo.GetByStripeCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	to, ok := subscription.MapExternalStatus(ext)
	if !ok || to == sub.Status || sub.Status.IsTerminal() {
		return sub, nil
	}
	if to == subscription.StatusCancelled {
		return s.cancel(ctx, sub)
	}

	from := sub.Status
	now := s.now()
	sub.Status = to
	sub.UpdatedAt = now
	if to == subscription.StatusActive {
		sub.CancelledAt = nil
		sub.TrialEndsAt = nil
	}
	if err := s.repo.Update(ctx, sub); err != nil {
		s.logger.ErrorWithErr(err, "Failed to sync subscription status")
		return nil, err
	}
	s.logTransition(sub, string(from))
	return sub, nil
}

// ListExpiringTrials returns trials ending within the window from now
func (s *SubscriptionService) ListExpiringTrials(ctx context.Context, within time.Duration) ([]*subscription.Subscription, error) {
	now := s.now()
	return s.repo.ListTrialsEndingBetween(ctx, now, now.Add(within))
}

func (s *SubscriptionService) logTransition(sub *subscription.Subscription, from string) {
	metrics.RecordSubscriptionTransition(from, string(sub.Status))
	s.logger.WithFields(map[string]interface{}{
		"user_id":         sub.UserID,
		"subscription_id": sub.ID,
		"plan":            sub.Plan,
		"from":            from,
		"status":          sub.Status,
	}).Info("Subscription changed")
}

var _ subscription.Service = (*SubscriptionService)(nil)

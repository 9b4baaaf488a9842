package services

import (
	"context"

	"github.com/flowvera/flowvera/internal/domain/billing"
	"github.com/flowvera/flowvera/internal/domain/plan"
	"github.com/flowvera/flowvera/internal/domain/subscription"
	"github.com/flowvera/flowvera/internal/domain/user"
	"github.com/flowvera/flowvera/internal/email"
	"github.com/flowvera/flowvera/internal/pkg/errors"
	"github.com/flowvera/flowvera/internal/pkg/logger"
	"github.com/flowvera/flowvera/internal/pkg/metrics"
)

// BillingService implements billing.Service
type BillingService struct {
	gateway  billing.Gateway
	events   billing.EventStore
	ledger   subscription.Service
	users    user.Repository
	notifier email.Notifier
	catalog  plan.Catalog
	logger   *logger.Logger
}

// NewBillingService creates a new billing service
func NewBillingService(
	gateway billing.Gateway,
	events billing.EventStore,
	ledger subscription.Service,
	users user.Repository,
	notifier email.Notifier,
	catalog plan.Catalog,
	log *logger.Logger,
) *BillingService {
	return &BillingService{
		gateway:  gateway,
		events:   events,
		ledger:   ledger,
		users:    users,
		notifier: notifier,
		catalog:  catalog,
		logger:   log.Component("billing"),
	}
}

// Mode reports the active gateway
func (s *BillingService) Mode() billing.Mode {
	return s.gateway.Mode()
}

// CreateCheckoutSession starts a checkout for the user
func (s *BillingService) CreateCheckoutSession(ctx context.Context, userID string, planID plan.ID) (*billing.CheckoutSession, error) {
	if _, ok := s.catalog.Get(planID); !ok {
		return nil, billing.ErrInvalidPlan
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized("User not found")
		}
		return nil, err
	}

	req := billing.CheckoutRequest{UserID: u.ID, Email: u.Email, Plan: planID}
	if sub, err := s.ledger.Get(ctx, u.ID); err == nil && sub.StripeCustomerID != nil {
		req.CustomerID = *sub.StripeCustomerID
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, req)
	metrics.RecordCheckoutSession(string(s.gateway.Mode()), err == nil)
	if err != nil {
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"user_id": u.ID,
			"plan":    planID,
		}).Warn("Checkout session failed")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":    u.ID,
		"plan":       planID,
		"session_id": session.SessionID,
	}).Info("Checkout session created")
	return session, nil
}

// CreatePortalSession returns a billing portal link for the user
func (s *BillingService) CreatePortalSession(ctx context.Context, userID string) (*billing.PortalSession, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized("User not found")
		}
		return nil, err
	}

	req := billing.PortalRequest{UserID: userID}
	sub, err := s.ledger.Get(ctx, userID)
	if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}
	if sub != nil {
		if sub.StripeCustomerID != nil {
			req.CustomerID = *sub.StripeCustomerID
		}
		if sub.StripeSubscriptionID != nil {
			req.SubscriptionID = *sub.StripeSubscriptionID
		}
	}

	portal, err := s.gateway.CreatePortalSession(ctx, req)
	if err != nil {
		s.logger.WithError(err).With("user_id", userID).Warn("Portal session failed")
		return nil, err
	}
	return portal, nil
}

// HandleWebhook verifies, deduplicates and applies a processor event. An
// event that fails to apply is forgotten so the processor's retry runs it.
func (s *BillingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	ev, err := s.gateway.ParseWebhook(ctx, payload, signature)
	if err != nil {
		metrics.RecordWebhookEvent("unknown", "failed")
		s.logger.WithError(err).Warn("Webhook rejected")
		return err
	}

	log := s.logger.WithFields(map[string]interface{}{
		"event_id":   ev.ID,
		"event_type": ev.ProviderType,
	})

	if ev.Type == "" {
		metrics.RecordWebhookEvent(ev.ProviderType, "ignored")
		log.Info("Unhandled webhook event type")
		return nil
	}

	first, err := s.events.MarkProcessed(ctx, ev.ID)
	if err != nil {
		// process anyway; handlers tolerate replays
		log.WithError(err).Warn("Webhook dedup store unavailable")
		first = true
	}
	if !first {
		metrics.RecordWebhookEvent(string(ev.Type), "duplicate")
		log.Info("Duplicate webhook event skipped")
		return nil
	}

	if err := s.dispatch(ctx, ev); err != nil {
		metrics.RecordWebhookEvent(string(ev.Type), "failed")
		log.WithError(err).Error("Webhook event failed")
		if ferr := s.events.Forget(ctx, ev.ID); ferr != nil {
			log.WithError(ferr).Warn("Failed to release webhook event id")
		}
		return err
	}

	metrics.RecordWebhookEvent(string(ev.Type), "processed")
	log.Info("Webhook event processed")
	return nil
}

func (s *BillingService) dispatch(ctx context.Context, ev *billing.Event) error {
	switch ev.Type {
	case billing.EventCheckoutCompleted:
		return s.onCheckoutCompleted(ctx, ev)
	case billing.EventSubscriptionUpdated:
		_, err := s.ledger.SyncStatusByCustomer(ctx, ev.CustomerID, subscription.ExternalStatus(ev.Status))
		return ignoreUnknownCustomer(err)
	case billing.EventSubscriptionDeleted:
		sub, err := s.ledger.CancelByCustomer(ctx, ev.CustomerID)
		if err != nil {
			return ignoreUnknownCustomer(err)
		}
		if to, name := s.recipient(ctx, sub.UserID, ev.CustomerEmail); to != "" {
			s.notifier.SendSubscriptionCancelled(ctx, to, name, sub.EndDate)
		}
		return nil
	case billing.EventInvoicePaid:
		if ev.Initial {
			// the checkout event already sent the receipt
			return nil
		}
		return s.notifyByCustomer(ctx, ev, func(to, name string, sub *subscription.Subscription) {
			s.notifier.SendPaymentSuccess(ctx, to, name, minorToMajor(ev.Amount), s.planName(sub.Plan))
		})
	case billing.EventInvoicePaymentFailed:
		return s.notifyByCustomer(ctx, ev, func(to, name string, _ *subscription.Subscription) {
			s.notifier.SendPaymentFailed(ctx, to, name)
		})
	}
	return nil
}

func (s *BillingService) onCheckoutCompleted(ctx context.Context, ev *billing.Event) error {
	if ev.UserID == "" || ev.Plan == "" {
		s.logger.With("event_id", ev.ID).Warn("Missing userId or plan in checkout metadata")
		return nil
	}
	if _, ok := s.catalog.Get(ev.Plan); !ok {
		s.logger.WithFields(map[string]interface{}{"event_id": ev.ID, "plan": ev.Plan}).
			Warn("Unknown plan in checkout metadata")
		return nil
	}

	p := ev.Plan
	_, err := s.ledger.Update(ctx, ev.UserID, subscription.UpdateInput{Plan: &p})
	if errors.IsNotFound(err) || errors.IsBadRequest(err) {
		_, err = s.ledger.Create(ctx, ev.UserID, ev.Plan)
	}
	if err != nil {
		return err
	}

	if err := s.ledger.AttachCustomer(ctx, ev.UserID, ev.CustomerID, ev.SubscriptionID, ev.PriceID); err != nil {
		return err
	}

	if to, name := s.recipient(ctx, ev.UserID, ev.CustomerEmail); to != "" {
		s.notifier.SendPaymentSuccess(ctx, to, name, minorToMajor(ev.Amount), s.planName(ev.Plan))
	}
	return nil
}

func (s *BillingService) notifyByCustomer(ctx context.Context, ev *billing.Event, send func(to, name string, sub *subscription.Subscription)) error {
	sub, err := s.ledger.GetByCustomer(ctx, ev.CustomerID)
	if err != nil {
		return ignoreUnknownCustomer(err)
	}
	if to, name := s.recipient(ctx, sub.UserID, ev.CustomerEmail); to != "" {
		send(to, name, sub)
	}
	return nil
}

// recipient resolves the email address and first name for a user, falling
// back to the address the processor reported.
func (s *BillingService) recipient(ctx context.Context, userID, fallback string) (string, string) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fallback, ""
	}
	name := ""
	if u.FirstName != nil {
		name = *u.FirstName
	}
	return u.Email, name
}

func (s *BillingService) planName(id plan.ID) string {
	if p, ok := s.catalog.Get(id); ok {
		return p.Name
	}
	return string(id)
}

// ignoreUnknownCustomer treats events for customers we never linked as no-ops.
func ignoreUnknownCustomer(err error) error {
	if errors.IsNotFound(err) {
		return nil
	}
	return err
}

func minorToMajor(amount int64) float64 {
	return float64(amount) / 100
}

var _ billing.Service = (*BillingService)(nil)

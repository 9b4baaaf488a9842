package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/flowvera/flowvera/internal/domain/plan"
	"github.com/flowvera/flowvera/internal/domain/subscription"
	"github.com/flowvera/flowvera/internal/pkg/errors"
)

// SubscriptionRepository implements subscription.Repository
type SubscriptionRepository struct {
	db *sql.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *sql.DB) subscription.Repository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `id, user_id, plan, status, start_date, end_date, trial_ends_at, cancelled_at,
	price_per_user, currency, limits, stripe_customer_id, stripe_subscription_id, stripe_price_id,
	created_at, updated_at`

// Create stores a new subscription
func (r *SubscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	limits, err := json.Marshal(s.Limits)
	if err != nil {
		return errors.Internal("Failed to encode plan limits", err)
	}

	query := `
		INSERT INTO subscriptions (` + subscriptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err = r.db.ExecContext(ctx, query,
		s.ID, s.UserID, string(s.Plan), string(s.Status), s.StartDate.Unix(), s.EndDate.Unix(),
		nullUnix(s.TrialEndsAt), nullUnix(s.CancelledAt), s.PricePerUser, s.Currency, string(limits),
		nullString(s.StripeCustomerID), nullString(s.StripeSubscriptionID), nullString(s.StripePriceID),
		s.CreatedAt.Unix(), s.UpdatedAt.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.BadRequest("User already has a subscription")
		}
		return errors.DatabaseError("Failed to create subscription", err)
	}

	return nil
}

// GetByUserID returns the subscription owned by userID
func (r *SubscriptionRepository) GetByUserID(ctx context.Context, userID string) (*subscription.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = $1`
	return r.getOne(ctx, query, userID)
}

// GetByStripeCustomerID returns the subscription linked to a processor customer
func (r *SubscriptionRepository) GetByStripeCustomerID(ctx context.Context, customerID string) (*subscription.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE stripe_customer_id = $1`
	return r.getOne(ctx, query, customerID)
}

func (r *SubscriptionRepository) getOne(ctx context.Context, query string, arg interface{}) (*subscription.Subscription, error) {
	s, err := scanSubscription(r.db.QueryRowContext(ctx, query, arg))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("Subscription")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get subscription", err)
	}
	return s, nil
}

// Update overwrites all mutable fields
func (r *SubscriptionRepository) Update(ctx context.Context, s *subscription.Subscription) error {
	limits, err := json.Marshal(s.Limits)
	if err != nil {
		return errors.Internal("Failed to encode plan limits", err)
	}

	query := `
		UPDATE subscriptions
		SET plan = $1, status = $2, start_date = $3, end_date = $4, trial_ends_at = $5,
		    cancelled_at = $6, price_per_user = $7, currency = $8, limits = $9,
		    stripe_customer_id = $10, stripe_subscription_id = $11, stripe_price_id = $12,
		    updated_at = $13
		WHERE id = $14
	`

	result, err := r.db.ExecContext(ctx, query,
		string(s.Plan), string(s.Status), s.StartDate.Unix(), s.EndDate.Unix(), nullUnix(s.TrialEndsAt),
		nullUnix(s.CancelledAt), s.PricePerUser, s.Currency, string(limits),
		nullString(s.StripeCustomerID), nullString(s.StripeSubscriptionID), nullString(s.StripePriceID),
		s.UpdatedAt.Unix(), s.ID,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update subscription", err)
	}

	return expectAffected(result, "Subscription")
}

// ExpireDue moves due trial and active subscriptions to expired
func (r *SubscriptionRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE subscriptions
		SET status = $1, updated_at = $2
		WHERE status IN ($3, $4) AND end_date <= $5
	`

	result, err := r.db.ExecContext(ctx, query,
		string(subscription.StatusExpired), now.Unix(),
		string(subscription.StatusTrial), string(subscription.StatusActive), now.Unix(),
	)
	if err != nil {
		return 0, errors.DatabaseError("Failed to expire subscriptions", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.DatabaseError("Failed to get affected rows", err)
	}
	return n, nil
}

// ListTrialsEndingBetween returns trials with from < end_date <= to
func (r *SubscriptionRepository) ListTrialsEndingBetween(ctx context.Context, from, to time.Time) ([]*subscription.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE status = $1 AND end_date > $2 AND end_date <= $3
		ORDER BY end_date
	`

	rows, err := r.db.QueryContext(ctx, query, string(subscription.StatusTrial), from.Unix(), to.Unix())
	if err != nil {
		return nil, errors.DatabaseError("Failed to list expiring trials", err)
	}
	defer rows.Close()

	var subs []*subscription.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan subscription", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to list expiring trials", err)
	}

	return subs, nil
}

func scanSubscription(sc scanner) (*subscription.Subscription, error) {
	var s subscription.Subscription
	var planID, status, limits string
	var startDate, endDate, createdAt, updatedAt int64
	var trialEndsAt, cancelledAt sql.NullInt64
	var customerID, subID, priceID sql.NullString

	err := sc.Scan(&s.ID, &s.UserID, &planID, &status, &startDate, &endDate, &trialEndsAt, &cancelledAt,
		&s.PricePerUser, &s.Currency, &limits, &customerID, &subID, &priceID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(limits), &s.Limits); err != nil {
		return nil, err
	}

	s.Plan = plan.ID(planID)
	s.Status = subscription.Status(status)
	s.StartDate = fromUnix(startDate)
	s.EndDate = fromUnix(endDate)
	s.TrialEndsAt = timePtr(trialEndsAt)
	s.CancelledAt = timePtr(cancelledAt)
	s.StripeCustomerID = stringPtr(customerID)
	s.StripeSubscriptionID = stringPtr(subID)
	s.StripePriceID = stringPtr(priceID)
	s.CreatedAt = fromUnix(createdAt)
	s.UpdatedAt = fromUnix(updatedAt)

	return &s, nil
}

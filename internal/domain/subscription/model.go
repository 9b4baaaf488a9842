// Package subscription models the one-per-user billing record and its
// lifecycle: trial or active, then cancelled or expired.
package subscription

import (
	"math"
	"time"

	"github.com/flowvera/flowvera/internal/domain/plan"
)

// TrialPeriod is the length of a free trial.
const TrialPeriod = 14 * 24 * time.Hour

// Status is the lifecycle state of a subscription
type Status string

const (
	StatusTrial     Status = "trial"
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
	StatusInactive  Status = "inactive"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusTrial, StatusActive, StatusCancelled, StatusExpired, StatusInactive:
		return true
	}
	return false
}

// IsLive reports whether the subscription currently grants access by status alone.
// A live subscription blocks creating another one.
func (s Status) IsLive() bool {
	switch s {
	case StatusTrial, StatusActive:
		return true
	case StatusCancelled, StatusExpired, StatusInactive:
		return false
	}
	return false
}

// IsTerminal reports whether no further plan changes are allowed.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCancelled, StatusExpired:
		return true
	case StatusTrial, StatusActive, StatusInactive:
		return false
	}
	return false
}

// CanUpdate reports whether the plan may be changed.
func (s Status) CanUpdate() bool {
	return !s.IsTerminal()
}

// CanCancel reports whether cancel is permitted.
func (s Status) CanCancel() bool {
	return s != StatusCancelled
}

// Subscription binds one user to one plan
type Subscription struct {
	ID                   string      `json:"id"`
	UserID               string      `json:"userId"`
	Plan                 plan.ID     `json:"plan"`
	Status               Status      `json:"status"`
	StartDate            time.Time   `json:"startDate"`
	EndDate              time.Time   `json:"endDate"`
	TrialEndsAt          *time.Time  `json:"trialEndsAt,omitempty"`
	CancelledAt          *time.Time  `json:"cancelledAt,omitempty"`
	PricePerUser         float64     `json:"pricePerUser"`
	Currency             string      `json:"currency"`
	Limits               plan.Limits `json:"limits"`
	StripeCustomerID     *string     `json:"stripeCustomerId,omitempty"`
	StripeSubscriptionID *string     `json:"stripeSubscriptionId,omitempty"`
	StripePriceID        *string     `json:"stripePriceId,omitempty"`
	CreatedAt            time.Time   `json:"createdAt"`
	UpdatedAt            time.Time   `json:"updatedAt"`
}

// PeriodEnd returns the end of the first period for p starting at start:
// 14 days for a trial, one calendar month for paid plans.
func PeriodEnd(p plan.ID, start time.Time) time.Time {
	if p == plan.FreeTrial {
		return start.Add(TrialPeriod)
	}
	return start.AddDate(0, 1, 0)
}

// New builds a fresh subscription for p starting at now.
func New(id, userID string, p plan.Plan, now time.Time) *Subscription {
	s := &Subscription{
		ID:        id,
		UserID:    userID,
		CreatedAt: now,
	}
	s.Restart(p, now)
	return s
}

// Restart resets the record to a new first period of p. It is used when a
// user subscribes again after a terminal or inactive state.
func (s *Subscription) Restart(p plan.Plan, now time.Time) {
	s.Plan = p.ID
	s.StartDate = now
	s.EndDate = PeriodEnd(p.ID, now)
	s.PricePerUser = p.PricePerUser
	s.Currency = p.Currency
	s.Limits = p.Limits
	s.CancelledAt = nil
	s.TrialEndsAt = nil
	s.UpdatedAt = now

	if p.ID == plan.FreeTrial {
		s.Status = StatusTrial
		end := s.EndDate
		s.TrialEndsAt = &end
	} else {
		s.Status = StatusActive
	}
}

// ApplyPlan overwrites the plan snapshot. Moving off a trial to a paid plan
// activates the subscription and clears the trial end.
func (s *Subscription) ApplyPlan(p plan.Plan, now time.Time) {
	s.Plan = p.ID
	s.PricePerUser = p.PricePerUser
	s.Currency = p.Currency
	s.Limits = p.Limits
	s.UpdatedAt = now

	if s.Status == StatusTrial && p.ID.IsPaid() {
		s.Status = StatusActive
		s.TrialEndsAt = nil
	}
}

// Cancel marks the subscription cancelled. EndDate is retained so access can
// continue until the period ends.
func (s *Subscription) Cancel(now time.Time) {
	s.Status = StatusCancelled
	s.CancelledAt = &now
	s.UpdatedAt = now
}

// IsExpiredAt reports whether the period has ended. An end date equal to now
// counts as expired.
func (s *Subscription) IsExpiredAt(now time.Time) bool {
	return !s.EndDate.After(now)
}

// DaysRemainingAt returns whole days left, rounded up and floored at zero.
func (s *Subscription) DaysRemainingAt(now time.Time) int {
	left := s.EndDate.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Hours() / 24))
}

// HasAccessAt reports whether the user may use paid features at now. A
// cancelled subscription keeps access until its end date.
func (s *Subscription) HasAccessAt(now time.Time) bool {
	switch s.Status {
	case StatusTrial, StatusActive, StatusCancelled:
		return !s.IsExpiredAt(now)
	case StatusExpired, StatusInactive:
		return false
	}
	return false
}

// Info is a subscription with derived fields for display.
type Info struct {
	*Subscription
	PlanName      string `json:"planName"`
	DaysRemaining int    `json:"daysRemaining"`
	IsExpired     bool   `json:"isExpired"`
	HasAccess     bool   `json:"hasAccess"`
}

// UpdateInput carries a plan change. Plan is required.
type UpdateInput struct {
	Plan *plan.ID
}

// ExternalStatus is a payment-processor subscription status.
type ExternalStatus string

// MapExternalStatus converts a processor status to a local one. ok is false
// for statuses that should not change local state.
func MapExternalStatus(ext ExternalStatus) (Status, bool) {
	switch ext {
	case "active", "trialing":
		return StatusActive, true
	case "canceled", "cancelled":
		return StatusCancelled, true
	case "unpaid", "paused":
		return StatusInactive, true
	}
	return "", false
}

package dto

import (
	"github.com/flowvera/flowvera/internal/domain/plan"
	"github.com/flowvera/flowvera/internal/domain/subscription"
)

// CreateSubscriptionRequest represents a subscribe request
type CreateSubscriptionRequest struct {
	Plan string `json:"plan" validate:"required,oneof=free_trial basic premium enterprise"`
}

// UpdateSubscriptionRequest represents a plan change. Plan is checked by the
// service so a missing plan reports "Plan is required for update".
type UpdateSubscriptionRequest struct {
	Plan *string `json:"plan,omitempty" validate:"omitempty,oneof=free_trial basic premium enterprise"`
}

// ToInput converts the request to the service input
func (r UpdateSubscriptionRequest) ToInput() subscription.UpdateInput {
	if r.Plan == nil {
		return subscription.UpdateInput{}
	}
	p := plan.ID(*r.Plan)
	return subscription.UpdateInput{Plan: &p}
}

// SubscriptionResponse wraps a changed subscription with a status message
type SubscriptionResponse struct {
	Message      string                     `json:"message"`
	Subscription *subscription.Subscription `json:"subscription"`
}

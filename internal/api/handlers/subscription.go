package handlers

import (
	"net/http"

	"github.com/flowvera/flowvera/internal/api/dto"
	"github.com/flowvera/flowvera/internal/domain/plan"
	"github.com/flowvera/flowvera/internal/domain/subscription"
	"github.com/flowvera/flowvera/internal/pkg/logger"
	"github.com/flowvera/flowvera/internal/pkg/utils"
	"github.com/flowvera/flowvera/internal/pkg/validator"
)

// SubscriptionHandler serves the plan catalog and the caller's subscription
type SubscriptionHandler struct {
	service   subscription.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(service subscription.Service, log *logger.Logger, val *validator.Validator) *SubscriptionHandler {
	return &SubscriptionHandler{
		service:   service,
		logger:    log,
		validator: val,
	}
}

// Plans returns the plan catalog
// @Summary List plans
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]plan.Plan} "Plans in display order"
// @Router /subscriptions/plans [get]
func (h *SubscriptionHandler) Plans(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, h.service.Plans())
}

// Get returns the caller's subscription with derived fields
// @Summary Get subscription
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=subscription.Info} "Subscription"
// @Failure 404 {object} utils.ErrorResponse "No subscription"
// @Security BearerAuth
// @Router /subscriptions [get]
func (h *SubscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	info, err := h.service.GetInfo(r.Context(), userID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, info)
}

// Create subscribes the caller to a plan
// @Summary Create subscription
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body dto.CreateSubscriptionRequest true "Plan"
// @Success 201 {object} utils.SuccessResponse{data=dto.SubscriptionResponse} "Subscription created"
// @Failure 409 {object} utils.ErrorResponse "Already subscribed"
// @Security BearerAuth
// @Router /subscriptions [post]
func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.CreateSubscriptionRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	sub, err := h.service.Create(r.Context(), userID, plan.ID(req.Plan))
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"plan":    req.Plan,
	}).Info("Subscription created")

	utils.WriteSuccess(w, http.StatusCreated, dto.SubscriptionResponse{
		Message:      "Subscription created successfully",
		Subscription: sub,
	})
}

// Update changes the caller's plan
// @Summary Update subscription
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body dto.UpdateSubscriptionRequest true "New plan"
// @Success 200 {object} utils.SuccessResponse{data=dto.SubscriptionResponse} "Subscription updated"
// @Failure 400 {object} utils.ErrorResponse "Terminal subscription or missing plan"
// @Security BearerAuth
// @Router /subscriptions [put]
func (h *SubscriptionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateSubscriptionRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	sub, err := h.service.Update(r.Context(), userID, req.ToInput())
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.SubscriptionResponse{
		Message:      "Subscription updated successfully",
		Subscription: sub,
	})
}

// Cancel cancels the caller's subscription. Access continues until the end date.
// @Summary Cancel subscription
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.SubscriptionResponse} "Subscription cancelled"
// @Security BearerAuth
// @Router /subscriptions/cancel [post]
func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	sub, err := h.service.Cancel(r.Context(), userID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	h.logger.With("user_id", userID).Info("Subscription cancelled")

	utils.WriteSuccess(w, http.StatusOK, dto.SubscriptionResponse{
		Message:      "Subscription cancelled successfully",
		Subscription: sub,
	})
}

package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/flowvera/flowvera/internal/api/dto"
	"github.com/flowvera/flowvera/internal/domain/billing"
	"github.com/flowvera/flowvera/internal/domain/plan"
	"github.com/flowvera/flowvera/internal/pkg/errors"
	"github.com/flowvera/flowvera/internal/pkg/logger"
	"github.com/flowvera/flowvera/internal/pkg/utils"
)

// maxWebhookBytes caps processor webhook payloads
const maxWebhookBytes = 64 << 10

// BillingHandler serves checkout, the billing portal and processor webhooks.
// Responses are bare payloads rather than the standard envelope.
type BillingHandler struct {
	service billing.Service
	logger  *logger.Logger
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(service billing.Service, log *logger.Logger) *BillingHandler {
	return &BillingHandler{
		service: service,
		logger:  log,
	}
}

// CreateCheckoutSession starts a hosted checkout for a plan
// @Summary Create checkout session
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body dto.CheckoutSessionRequest true "Plan"
// @Success 200 {object} dto.CheckoutSessionResponse "Checkout URL, or an error message"
// @Failure 401 {object} utils.ErrorResponse "Unknown user"
// @Security BearerAuth
// @Router /stripe/create-checkout-session [post]
func (h *BillingHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.CheckoutSessionRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Plan == "" {
		utils.WriteJSON(w, http.StatusOK, dto.BillingErrorResponse{Error: billing.ErrInvalidPlan.Error()})
		return
	}

	session, err := h.service.CreateCheckoutSession(r.Context(), userID, plan.ID(req.Plan))
	if err != nil {
		h.writeFailure(w, err, "Failed to create checkout session")
		return
	}

	utils.WriteJSON(w, http.StatusOK, dto.CheckoutSessionResponse{
		URL:       session.URL,
		SessionID: session.SessionID,
		MockMode:  h.service.Mode() == billing.ModeMock,
		Message:   session.Message,
	})
}

// CreatePortalSession returns a self-service billing portal link
// @Summary Create portal session
// @Tags Billing
// @Produce json
// @Success 200 {object} dto.PortalSessionResponse "Portal URL, or an error message"
// @Failure 401 {object} utils.ErrorResponse "Unknown user"
// @Security BearerAuth
// @Router /stripe/create-portal-session [post]
func (h *BillingHandler) CreatePortalSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	session, err := h.service.CreatePortalSession(r.Context(), userID)
	if err != nil {
		h.writeFailure(w, err, "Failed to create portal session")
		return
	}

	utils.WriteJSON(w, http.StatusOK, dto.PortalSessionResponse{
		URL:      session.URL,
		MockMode: h.service.Mode() == billing.ModeMock,
		Message:  session.Message,
	})
}

// Webhook applies a signed processor event
// @Summary Processor webhook
// @Tags Billing
// @Accept json
// @Produce json
// @Param Stripe-Signature header string false "Stripe signature"
// @Param Paddle-Signature header string false "Paddle signature"
// @Success 200 {object} dto.WebhookResponse "Event received"
// @Failure 400 {object} dto.WebhookResponse "Rejected event"
// @Router /stripe/webhook [post]
func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, dto.WebhookResponse{Received: false, Error: "Invalid payload"})
		return
	}

	if err := h.service.HandleWebhook(r.Context(), payload, h.signature(r)); err != nil {
		h.logger.ErrorWithErr(err, "Webhook rejected")
		utils.WriteJSON(w, http.StatusBadRequest, dto.WebhookResponse{
			Received: false,
			Error:    billing.UserMessage(err, "Webhook processing failed"),
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, dto.WebhookResponse{Received: true})
}

func (h *BillingHandler) signature(r *http.Request) string {
	if h.service.Mode() == billing.ModePaddle {
		return r.Header.Get("Paddle-Signature")
	}
	return r.Header.Get("Stripe-Signature")
}

// writeFailure keeps 401 for an unknown caller and reports everything else as
// a 200 error payload the checkout page can display.
func (h *BillingHandler) writeFailure(w http.ResponseWriter, err error, fallback string) {
	if errors.IsUnauthorized(err) {
		utils.WriteAppError(w, err)
		return
	}
	h.logger.ErrorWithErr(err, fallback)
	utils.WriteJSON(w, http.StatusOK, dto.BillingErrorResponse{Error: billing.UserMessage(err, fallback)})
}

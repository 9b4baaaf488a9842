package billing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/flowvera/flowvera/internal/config"
	domain "github.com/flowvera/flowvera/internal/domain/billing"
	"github.com/flowvera/flowvera/internal/domain/plan"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeGateway talks to Stripe Checkout and the billing portal.
type StripeGateway struct {
	api           *client.API
	configured    bool
	webhookSecret string
	prices        priceTable
	frontendURL   string
}

// NewStripeGateway creates a Stripe gateway. backends may be nil to use the
// live Stripe API.
func NewStripeGateway(cfg config.StripeConfig, frontendURL string, backends *stripe.Backends) *StripeGateway {
	return &StripeGateway{
		api:           client.New(cfg.SecretKey, backends),
		configured:    cfg.SecretKey != "",
		webhookSecret: cfg.WebhookSecret,
		prices: priceTable{
			plan.Basic:   cfg.BasicPriceID,
			plan.Premium: cfg.PremiumPriceID,
		},
		frontendURL: frontendURL,
	}
}

func (g *StripeGateway) Mode() domain.Mode { return domain.ModeStripe }

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	if !g.configured {
		return nil, domain.ErrNotConfigured
	}
	price, err := g.prices.lookup(req.Plan)
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(price), Quantity: stripe.Int64(1)},
		},
		SuccessURL:        stripe.String(g.frontendURL + "/subscription?success=true&session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(g.frontendURL + "/subscription?canceled=true"),
		ClientReferenceID: stripe.String(req.UserID),
	}
	if req.CustomerID != "" {
		params.Customer = stripe.String(req.CustomerID)
	} else {
		params.CustomerEmail = stripe.String(req.Email)
	}
	params.AddMetadata("userId", req.UserID)
	params.AddMetadata("plan", string(req.Plan))
	params.Context = ctx

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCheckoutFailed, err)
	}
	return &domain.CheckoutSession{URL: s.URL, SessionID: s.ID}, nil
}

func (g *StripeGateway) CreatePortalSession(ctx context.Context, req domain.PortalRequest) (*domain.PortalSession, error) {
	if !g.configured {
		return nil, domain.ErrNotConfigured
	}
	if req.CustomerID == "" {
		return nil, domain.ErrNoCustomer
	}

	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(req.CustomerID),
		ReturnURL: stripe.String(g.frontendURL + "/subscription"),
	}
	params.Context = ctx

	s, err := g.api.BillingPortalSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPortalFailed, err)
	}
	return &domain.PortalSession{URL: s.URL}, nil
}

// ParseWebhook verifies the Stripe-Signature header and normalizes the event.
// Unhandled event types are returned with an empty Type.
func (g *StripeGateway) ParseWebhook(ctx context.Context, payload []byte, signature string) (*domain.Event, error) {
	if g.webhookSecret == "" {
		return nil, domain.ErrNotConfigured
	}

	ev, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}

	out := &domain.Event{ID: ev.ID, ProviderType: string(ev.Type)}
	if ev.Data == nil {
		return out, nil
	}

	switch ev.Type {
	case "checkout.session.completed":
		var s stripe.CheckoutSession
		if err := json.Unmarshal(ev.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		out.Type = domain.EventCheckoutCompleted
		out.UserID = s.Metadata["userId"]
		if out.UserID == "" {
			out.UserID = s.ClientReferenceID
		}
		out.Plan = plan.ID(s.Metadata["plan"])
		if s.Customer != nil {
			out.CustomerID = s.Customer.ID
		}
		if s.Subscription != nil {
			out.SubscriptionID = s.Subscription.ID
		}
		if s.CustomerDetails != nil {
			out.CustomerEmail = s.CustomerDetails.Email
		}
		out.Amount = s.AmountTotal
		out.Currency = string(s.Currency)
		out.PriceID = g.prices[out.Plan]

	case "customer.subscription.updated", "customer.subscription.deleted":
		var s stripe.Subscription
		if err := json.Unmarshal(ev.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("decode subscription: %w", err)
		}
		out.Type = domain.EventSubscriptionUpdated
		if ev.Type == "customer.subscription.deleted" {
			out.Type = domain.EventSubscriptionDeleted
		}
		out.SubscriptionID = s.ID
		out.Status = string(s.Status)
		if s.Customer != nil {
			out.CustomerID = s.Customer.ID
		}
		if s.Items != nil && len(s.Items.Data) > 0 && s.Items.Data[0].Price != nil {
			out.PriceID = s.Items.Data[0].Price.ID
			out.Plan = g.prices.planForPrice(out.PriceID)
		}

	case "invoice.payment_succeeded", "invoice.payment_failed":
		var inv stripe.Invoice
		if err := json.Unmarshal(ev.Data.Raw, &inv); err != nil {
			return nil, fmt.Errorf("decode invoice: %w", err)
		}
		out.Type = domain.EventInvoicePaid
		out.Amount = inv.AmountPaid
		if ev.Type == "invoice.payment_failed" {
			out.Type = domain.EventInvoicePaymentFailed
			out.Amount = inv.AmountDue
		}
		if inv.Customer != nil {
			out.CustomerID = inv.Customer.ID
		}
		if inv.Subscription != nil {
			out.SubscriptionID = inv.Subscription.ID
		}
		out.CustomerEmail = inv.CustomerEmail
		out.Currency = string(inv.Currency)
		out.Initial = inv.BillingReason == stripe.InvoiceBillingReasonSubscriptionCreate
	}

	return out, nil
}

package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
	"github.com/flowvera/flowvera/internal/config"
	domain "github.com/flowvera/flowvera/internal/domain/billing"
	"github.com/flowvera/flowvera/internal/domain/plan"
)

// PaddleGateway uses Paddle Billing transactions and the customer portal.
type PaddleGateway struct {
	client      *paddle.SDK
	verifier    *paddle.WebhookVerifier
	prices      priceTable
	frontendURL string
}

// NewPaddleGateway creates a Paddle gateway for the configured environment.
func NewPaddleGateway(cfg config.PaddleConfig, frontendURL string) (*PaddleGateway, error) {
	g := &PaddleGateway{
		prices: priceTable{
			plan.Basic:   cfg.BasicPriceID,
			plan.Premium: cfg.PremiumPriceID,
		},
		frontendURL: frontendURL,
	}
	if cfg.WebhookSecret != "" {
		g.verifier = paddle.NewWebhookVerifier(cfg.WebhookSecret)
	}
	if cfg.APIKey == "" {
		return g, nil
	}

	var err error
	switch strings.ToLower(cfg.Environment) {
	case "sandbox":
		g.client, err = paddle.NewSandbox(cfg.APIKey)
	case "production", "":
		g.client, err = paddle.New(cfg.APIKey)
	default:
		return nil, fmt.Errorf("invalid paddle environment: %s", cfg.Environment)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create paddle client: %w", err)
	}
	return g, nil
}

func (g *PaddleGateway) Mode() domain.Mode { return domain.ModePaddle }

func (g *PaddleGateway) CreateCheckoutSession(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	if g.client == nil {
		return nil, domain.ErrNotConfigured
	}
	price, err := g.prices.lookup(req.Plan)
	if err != nil {
		return nil, err
	}

	item := paddle.NewCreateTransactionItemsTransactionItemFromCatalog(&paddle.TransactionItemFromCatalog{
		PriceID:  price,
		Quantity: 1,
	})
	txReq := &paddle.CreateTransactionRequest{
		Items: []paddle.CreateTransactionItems{*item},
		CustomData: paddle.CustomData{
			"userId": req.UserID,
			"plan":   string(req.Plan),
			"email":  req.Email,
		},
		Checkout: &paddle.TransactionCheckout{
			URL: paddle.PtrTo(g.frontendURL + "/subscription?success=true"),
		},
	}
	if req.CustomerID != "" {
		txReq.CustomerID = paddle.PtrTo(req.CustomerID)
	}

	tx, err := g.client.TransactionsClient.CreateTransaction(ctx, txReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCheckoutFailed, err)
	}
	if tx.Checkout == nil || tx.Checkout.URL == nil {
		return nil, fmt.Errorf("%w: no checkout URL returned from paddle", domain.ErrCheckoutFailed)
	}
	return &domain.CheckoutSession{URL: *tx.Checkout.URL, SessionID: tx.ID}, nil
}

func (g *PaddleGateway) CreatePortalSession(ctx context.Context, req domain.PortalRequest) (*domain.PortalSession, error) {
	if g.client == nil {
		return nil, domain.ErrNotConfigured
	}
	if req.CustomerID == "" {
		return nil, domain.ErrNoCustomer
	}

	portalReq := &paddle.CreateCustomerPortalSessionRequest{CustomerID: req.CustomerID}
	if req.SubscriptionID != "" {
		portalReq.SubscriptionIDs = []string{req.SubscriptionID}
	}

	s, err := g.client.CustomerPortalSessionsClient.CreateCustomerPortalSession(ctx, portalReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPortalFailed, err)
	}
	if s.URLs.General.Overview == "" {
		return nil, fmt.Errorf("%w: no portal URL returned from paddle", domain.ErrPortalFailed)
	}
	return &domain.PortalSession{URL: s.URLs.General.Overview}, nil
}

type paddleWebhook struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Data      paddleEventData `json:"data"`
}

type paddleEventData struct {
	ID             string         `json:"id"`
	Status         string         `json:"status"`
	Origin         string         `json:"origin"`
	CustomerID     string         `json:"customer_id"`
	SubscriptionID string         `json:"subscription_id"`
	CurrencyCode   string         `json:"currency_code"`
	CustomData     map[string]any `json:"custom_data"`
	Items          []struct {
		PriceID string `json:"price_id"`
		Price   *struct {
			ID string `json:"id"`
		} `json:"price"`
	} `json:"items"`
	Details *struct {
		Totals struct {
			GrandTotal string `json:"grand_total"`
		} `json:"totals"`
	} `json:"details"`
}

func (d paddleEventData) customString(key string) string {
	v, _ := d.CustomData[key].(string)
	return v
}

func (d paddleEventData) priceID() string {
	if len(d.Items) == 0 {
		return ""
	}
	if d.Items[0].Price != nil && d.Items[0].Price.ID != "" {
		return d.Items[0].Price.ID
	}
	return d.Items[0].PriceID
}

// ParseWebhook verifies the Paddle-Signature header and normalizes the event.
func (g *PaddleGateway) ParseWebhook(ctx context.Context, payload []byte, signature string) (*domain.Event, error) {
	if g.verifier == nil {
		return nil, domain.ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/webhook", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request for verification: %w", err)
	}
	req.Header.Set("Paddle-Signature", signature)

	ok, err := g.verifier.Verify(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}
	if !ok {
		return nil, domain.ErrInvalidSignature
	}

	var wh paddleWebhook
	if err := json.Unmarshal(payload, &wh); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}
	d := wh.Data

	out := &domain.Event{
		ID:            wh.EventID,
		ProviderType:  wh.EventType,
		UserID:        d.customString("userId"),
		Plan:          plan.ID(d.customString("plan")),
		CustomerID:    d.CustomerID,
		PriceID:       d.priceID(),
		Status:        d.Status,
		CustomerEmail: d.customString("email"),
		Currency:      d.CurrencyCode,
	}
	if out.Plan == "" {
		out.Plan = g.prices.planForPrice(out.PriceID)
	}
	if d.Details != nil {
		out.Amount, _ = strconv.ParseInt(d.Details.Totals.GrandTotal, 10, 64)
	}

	switch wh.EventType {
	case "transaction.completed":
		out.SubscriptionID = d.SubscriptionID
		if d.Origin == "subscription_recurring" {
			out.Type = domain.EventInvoicePaid
		} else {
			out.Type = domain.EventCheckoutCompleted
		}
	case "transaction.payment_failed":
		out.SubscriptionID = d.SubscriptionID
		out.Type = domain.EventInvoicePaymentFailed
	case "subscription.updated":
		out.SubscriptionID = d.ID
		out.Type = domain.EventSubscriptionUpdated
	case "subscription.canceled":
		out.SubscriptionID = d.ID
		out.Type = domain.EventSubscriptionDeleted
	}

	return out, nil
}

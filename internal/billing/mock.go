package billing

import (
	"context"
	"fmt"
	"time"

	domain "github.com/flowvera/flowvera/internal/domain/billing"
	"github.com/flowvera/flowvera/internal/domain/subscription"
	"github.com/flowvera/flowvera/internal/pkg/errors"
	"github.com/flowvera/flowvera/internal/pkg/logger"
)

// MockGateway simulates checkout by changing the plan immediately.
type MockGateway struct {
	ledger      subscription.Service
	frontendURL string
	logger      *logger.Logger
	now         func() time.Time
}

func NewMockGateway(ledger subscription.Service, frontendURL string, log *logger.Logger) *MockGateway {
	return &MockGateway{
		ledger:      ledger,
		frontendURL: frontendURL,
		logger:      log,
		now:         time.Now,
	}
}

func (g *MockGateway) Mode() domain.Mode { return domain.ModeMock }

func (g *MockGateway) CreateCheckoutSession(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	g.logger.WithFields(map[string]interface{}{
		"user_id": req.UserID,
		"plan":    req.Plan,
	}).Info("Mock checkout")

	p := req.Plan
	_, err := g.ledger.Update(ctx, req.UserID, subscription.UpdateInput{Plan: &p})
	if errors.IsNotFound(err) || errors.IsBadRequest(err) {
		// no subscription yet, or a cancelled/expired one to restart
		_, err = g.ledger.Create(ctx, req.UserID, req.Plan)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMockUpdateFailed, err)
	}

	id := fmt.Sprintf("mock_cs_%d", g.now().UnixMilli())
	return &domain.CheckoutSession{
		URL:       fmt.Sprintf("%s/subscription?success=true&session_id=%s&mock=true", g.frontendURL, id),
		SessionID: id,
		Message:   "Mock mode: Subscription updated without payment",
	}, nil
}

func (g *MockGateway) CreatePortalSession(ctx context.Context, req domain.PortalRequest) (*domain.PortalSession, error) {
	return &domain.PortalSession{
		URL:     g.frontendURL + "/subscription?mock_portal=true",
		Message: "Mock mode: Billing portal simulation - manage your subscription on this page",
	}, nil
}

func (g *MockGateway) ParseWebhook(ctx context.Context, payload []byte, signature string) (*domain.Event, error) {
	return nil, domain.ErrWebhooksUnsupported
}

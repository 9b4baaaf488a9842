// Package billing holds the payment processor gateways and the webhook
// event stores.
package billing

import (
	"fmt"
	"strings"

	"github.com/flowvera/flowvera/internal/config"
	domain "github.com/flowvera/flowvera/internal/domain/billing"
	"github.com/flowvera/flowvera/internal/domain/plan"
	"github.com/flowvera/flowvera/internal/domain/subscription"
	"github.com/flowvera/flowvera/internal/pkg/logger"
)

// NewGateway selects the gateway for cfg. The mock gateway moves plans
// directly through ledger.
func NewGateway(cfg config.BillingConfig, frontendURL string, ledger subscription.Service, log *logger.Logger) (domain.Gateway, error) {
	frontendURL = strings.TrimRight(frontendURL, "/")

	if cfg.MockMode {
		log.Warn("Billing running in mock mode, checkouts change plans without payment")
		return NewMockGateway(ledger, frontendURL, log), nil
	}

	switch domain.Mode(strings.ToLower(cfg.Provider)) {
	case domain.ModeStripe, "":
		return NewStripeGateway(cfg.Stripe, frontendURL, nil), nil
	case domain.ModePaddle:
		return NewPaddleGateway(cfg.Paddle, frontendURL)
	default:
		return nil, fmt.Errorf("unknown billing provider %q", cfg.Provider)
	}
}

// priceTable maps paid plans to processor price ids.
type priceTable map[plan.ID]string

func (t priceTable) lookup(id plan.ID) (string, error) {
	if id != plan.Basic && id != plan.Premium {
		return "", domain.ErrInvalidPlan
	}
	price := t[id]
	if price == "" {
		return "", domain.ErrPricesNotConfigured
	}
	return price, nil
}

// planForPrice is the reverse of lookup, used when an event carries only a price.
func (t priceTable) planForPrice(price string) plan.ID {
	for id, p := range t {
		if p == price && price != "" {
			return id
		}
	}
	return ""
}

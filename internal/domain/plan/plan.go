// Package plan holds the static catalog of billing tiers.
package plan

// ID identifies a billing tier.
type ID string

const (
	FreeTrial  ID = "free_trial"
	Basic      ID = "basic"
	Premium    ID = "premium"
	Enterprise ID = "enterprise"
)

// Valid reports whether id is one of the known plans.
func (id ID) Valid() bool {
	switch id {
	case FreeTrial, Basic, Premium, Enterprise:
		return true
	}
	return false
}

// IsPaid reports whether subscribing to the plan starts a paid period.
func (id ID) IsPaid() bool {
	return id != FreeTrial
}

// Unlimited marks a numeric limit without a cap.
const Unlimited = -1

// Limits is copied into each subscription when its plan is set.
type Limits struct {
	MaxUsers        int  `json:"maxUsers"`
	MaxProjects     int  `json:"maxProjects"`
	MaxContacts     int  `json:"maxContacts"`
	MaxCompanies    int  `json:"maxCompanies"`
	StorageGB       int  `json:"storageGB"`
	HasAdvancedCRM  bool `json:"hasAdvancedCRM"`
	HasAdminPanel   bool `json:"hasAdminPanel"`
	HasAnalytics    bool `json:"hasAnalytics"`
	HasAutomation   bool `json:"hasAutomation"`
	HasIntegrations bool `json:"hasIntegrations"`
}

// IsUnlimited reports whether a numeric limit is uncapped.
func IsUnlimited(n int) bool {
	return n == Unlimited
}

// Plan is one catalog entry.
type Plan struct {
	ID           ID      `json:"id"`
	Name         string  `json:"name"`
	PricePerUser float64 `json:"pricePerUser"`
	Currency     string  `json:"currency"`
	Description  string  `json:"description"`
	Limits       Limits  `json:"limits"`
}

// Catalog is an immutable, ordered set of plans.
type Catalog struct {
	plans []Plan
}

// NewCatalog builds a catalog from the given plans, keeping their order.
func NewCatalog(plans ...Plan) Catalog {
	cp := make([]Plan, len(plans))
	copy(cp, plans)
	return Catalog{plans: cp}
}

// All returns every plan in catalog order. The slice is a copy.
func (c Catalog) All() []Plan {
	out := make([]Plan, len(c.plans))
	copy(out, c.plans)
	return out
}

// Get returns the plan with the given id.
func (c Catalog) Get(id ID) (Plan, bool) {
	for _, p := range c.plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

var basicLimits = Limits{
	MaxUsers:     5,
	MaxProjects:  Unlimited,
	MaxContacts:  500,
	MaxCompanies: 100,
	StorageGB:    1,
}

// DefaultCatalog returns the plans offered by Flowvera.
func DefaultCatalog() Catalog {
	return NewCatalog(
		Plan{
			ID:           FreeTrial,
			Name:         "Free Trial",
			PricePerUser: 0,
			Currency:     "USD",
			Description:  "14 days free trial with full access",
			Limits:       basicLimits,
		},
		Plan{
			ID:           Basic,
			Name:         "Basic",
			PricePerUser: 10,
			Currency:     "USD",
			Description:  "Perfect for small teams and freelancers",
			Limits:       basicLimits,
		},
		Plan{
			ID:           Premium,
			Name:         "Premium",
			PricePerUser: 30,
			Currency:     "USD",
			Description:  "For growing teams with advanced needs",
			Limits: Limits{
				MaxUsers:        Unlimited,
				MaxProjects:     Unlimited,
				MaxContacts:     Unlimited,
				MaxCompanies:    Unlimited,
				StorageGB:       10,
				HasAdvancedCRM:  true,
				HasAdminPanel:   true,
				HasAnalytics:    true,
				HasAutomation:   true,
				HasIntegrations: true,
			},
		},
		Plan{
			ID:           Enterprise,
			Name:         "Enterprise",
			PricePerUser: 0, // custom pricing
			Currency:     "USD",
			Description:  "For large organizations with custom needs",
			Limits: Limits{
				MaxUsers:        Unlimited,
				MaxProjects:     Unlimited,
				MaxContacts:     Unlimited,
				MaxCompanies:    Unlimited,
				StorageGB:       Unlimited,
				HasAdvancedCRM:  true,
				HasAdminPanel:   true,
				HasAnalytics:    true,
				HasAutomation:   true,
				HasIntegrations: true,
			},
		},
	)
}

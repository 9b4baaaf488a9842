package client

import "time"

// User represents an account
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName *string   `json:"firstName,omitempty"`
	LastName  *string   `json:"lastName,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserPage is one page of the admin user listing
type UserPage struct {
	Data       []User `json:"data"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalItems int64  `json:"total_items"`
	TotalPages int    `json:"total_pages"`
}

// Project is a container for tasks
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Status      string    `json:"status"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Task is a unit of work within a project
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	ProjectID   string     `json:"projectId"`
	AssignedTo  *string    `json:"assignedTo,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Contact is a CRM person
type Contact struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	CompanyID *string   `json:"companyId"`
	Type      string    `json:"type"`
	Notes     *string   `json:"notes,omitempty"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Company is a CRM organization
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Industry  *string   `json:"industry,omitempty"`
	Size      *string   `json:"size,omitempty"`
	Website   *string   `json:"website,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Limits are the entitlements of a plan. -1 means unlimited.
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

// Plan is a catalog entry
type Plan struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	PricePerUser float64 `json:"pricePerUser"`
	Currency     string  `json:"currency"`
	Description  string  `json:"description"`
	Limits       Limits  `json:"limits"`
}

// Subscription is the caller's plan and lifecycle state
type Subscription struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	Plan         string     `json:"plan"`
	Status       string     `json:"status"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`
	TrialEndsAt  *time.Time `json:"trialEndsAt,omitempty"`
	CancelledAt  *time.Time `json:"cancelledAt,omitempty"`
	PricePerUser float64    `json:"pricePerUser"`
	Currency     string     `json:"currency"`
	Limits       Limits     `json:"limits"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// SubscriptionInfo adds derived display fields
type SubscriptionInfo struct {
	Subscription
	PlanName      string `json:"planName"`
	DaysRemaining int    `json:"daysRemaining"`
	IsExpired     bool   `json:"isExpired"`
	HasAccess     bool   `json:"hasAccess"`
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

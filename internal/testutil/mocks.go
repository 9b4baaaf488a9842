package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/flowvera/flowvera/internal/domain/billing"
	"github.com/flowvera/flowvera/internal/domain/crm"
	"github.com/flowvera/flowvera/internal/domain/project"
	"github.com/flowvera/flowvera/internal/domain/subscription"
	"github.com/flowvera/flowvera/internal/domain/user"
	"github.com/flowvera/flowvera/internal/email"
	"github.com/flowvera/flowvera/internal/pkg/errors"
)

// Mocks store copies so callers cannot mutate stored rows without Update,
// matching the behaviour of the SQL repositories.

// MockUserRepository is a mock implementation of user.Repository
type MockUserRepository struct {
	mu          sync.Mutex
	Users       map[string]*user.User
	CreateError error
	GetError    error
	UpdateError error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[string]*user.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	for _, existing := range m.Users {
		if existing.Email == u.Email {
			return errors.Conflict("User with this email already exists")
		}
	}
	cp := *u
	m.Users[u.ID] = &cp
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	u, ok := m.Users[id]
	if !ok {
		return nil, errors.NotFound("User")
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	for _, u := range m.Users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errors.NotFound("User")
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, ok := m.Users[u.ID]; !ok {
		return errors.NotFound("User")
	}
	cp := *u
	m.Users[u.ID] = &cp
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Users[id]; !ok {
		return errors.NotFound("User")
	}
	delete(m.Users, id)
	return nil
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*user.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*user.User, 0, len(m.Users))
	for _, u := range m.Users {
		cp := *u
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })
	total := int64(len(all))
	if offset >= len(all) {
		return []*user.User{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// FakeHasher is a reversible PasswordHasher for fast tests.
type FakeHasher struct{}

func (FakeHasher) Hash(plain string) (string, error) {
	return "hashed:" + plain, nil
}

func (FakeHasher) Compare(hash, plain string) error {
	if hash != "hashed:"+plain {
		return errors.Unauthorized("password mismatch")
	}
	return nil
}

// MockSubscriptionRepository is a mock implementation of subscription.Repository
type MockSubscriptionRepository struct {
	mu        sync.Mutex
	Subs      map[string]*subscription.Subscription // keyed by user id
	UpdateErr error
}

func NewMockSubscriptionRepository() *MockSubscriptionRepository {
	return &MockSubscriptionRepository{Subs: make(map[string]*subscription.Subscription)}
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Subs[s.UserID]; ok {
		return errors.BadRequest("User already has a subscription")
	}
	cp := *s
	m.Subs[s.UserID] = &cp
	return nil
}

func (m *MockSubscriptionRepository) GetByUserID(ctx context.Context, userID string) (*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Subs[userID]
	if !ok {
		return nil, errors.NotFound("Subscription")
	}
	cp := *s
	return &cp, nil
}

func (m *MockSubscriptionRepository) GetByStripeCustomerID(ctx context.Context, customerID string) (*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.Subs {
		if s.StripeCustomerID != nil && *s.StripeCustomerID == customerID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, errors.NotFound("Subscription")
}

func (m *MockSubscriptionRepository) Update(ctx context.Context, s *subscription.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if _, ok := m.Subs[s.UserID]; !ok {
		return errors.NotFound("Subscription")
	}
	cp := *s
	m.Subs[s.UserID] = &cp
	return nil
}

func (m *MockSubscriptionRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, s := range m.Subs {
		if s.Status.IsLive() && !s.EndDate.After(now) {
			s.Status = subscription.StatusExpired
			s.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

func (m *MockSubscriptionRepository) ListTrialsEndingBetween(ctx context.Context, from, to time.Time) ([]*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*subscription.Subscription
	for _, s := range m.Subs {
		if s.Status == subscription.StatusTrial && s.EndDate.After(from) && !s.EndDate.After(to) {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndDate.Before(out[j].EndDate) })
	return out, nil
}

// MockProjectRepository is a mock implementation of project.Repository. It
// shares task storage with a MockTaskRepository so Delete can cascade.
type MockProjectRepository struct {
	mu       sync.Mutex
	Projects map[string]*project.Project
	Tasks    *MockTaskRepository
}

func NewMockProjectRepository(tasks *MockTaskRepository) *MockProjectRepository {
	return &MockProjectRepository{Projects: make(map[string]*project.Project), Tasks: tasks}
}

func (m *MockProjectRepository) Create(ctx context.Context, p *project.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.Projects[p.ID] = &cp
	return nil
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id string) (*project.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Projects[id]
	if !ok {
		return nil, errors.NotFoundWithID("Project", id)
	}
	cp := *p
	return &cp, nil
}

func (m *MockProjectRepository) ListByOwner(ctx context.Context, ownerID string) ([]*project.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*project.Project{}
	for _, p := range m.Projects {
		if p.OwnerID == ownerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockProjectRepository) Update(ctx context.Context, p *project.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Projects[p.ID]; !ok {
		return errors.NotFound("Project")
	}
	cp := *p
	m.Projects[p.ID] = &cp
	return nil
}

func (m *MockProjectRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Projects[id]; !ok {
		return errors.NotFound("Project")
	}
	if m.Tasks != nil {
		m.Tasks.deleteByProject(id)
	}
	delete(m.Projects, id)
	return nil
}

// MockTaskRepository is a mock implementation of project.TaskRepository
type MockTaskRepository struct {
	mu    sync.Mutex
	Tasks map[string]*project.Task
}

func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{Tasks: make(map[string]*project.Task)}
}

func (m *MockTaskRepository) Create(ctx context.Context, t *project.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.Tasks[t.ID] = &cp
	return nil
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id string) (*project.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Tasks[id]
	if !ok {
		return nil, errors.NotFoundWithID("Task", id)
	}
	cp := *t
	return &cp, nil
}

func (m *MockTaskRepository) ListByProject(ctx context.Context, projectID string) ([]*project.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*project.Task{}
	for _, t := range m.Tasks {
		if t.ProjectID == projectID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MockTaskRepository) Update(ctx context.Context, t *project.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Tasks[t.ID]; !ok {
		return errors.NotFound("Task")
	}
	cp := *t
	m.Tasks[t.ID] = &cp
	return nil
}

func (m *MockTaskRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Tasks[id]; !ok {
		return errors.NotFound("Task")
	}
	delete(m.Tasks, id)
	return nil
}

// Count returns the number of stored tasks.
func (m *MockTaskRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Tasks)
}

func (m *MockTaskRepository) deleteByProject(projectID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.Tasks {
		if t.ProjectID == projectID {
			delete(m.Tasks, id)
		}
	}
}

// MockContactRepository is a mock implementation of crm.ContactRepository
type MockContactRepository struct {
	mu       sync.Mutex
	Contacts map[string]*crm.Contact
}

func NewMockContactRepository() *MockContactRepository {
	return &MockContactRepository{Contacts: make(map[string]*crm.Contact)}
}

func (m *MockContactRepository) Create(ctx context.Context, c *crm.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.Contacts[c.ID] = &cp
	return nil
}

func (m *MockContactRepository) GetByID(ctx context.Context, id string) (*crm.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Contacts[id]
	if !ok {
		return nil, errors.NotFoundWithID("Contact", id)
	}
	cp := *c
	return &cp, nil
}

func (m *MockContactRepository) ListByOwner(ctx context.Context, ownerID string) ([]*crm.Contact, error) {
	return m.filter(func(c *crm.Contact) bool { return c.OwnerID == ownerID }), nil
}

func (m *MockContactRepository) ListByCompany(ctx context.Context, companyID, ownerID string) ([]*crm.Contact, error) {
	return m.filter(func(c *crm.Contact) bool {
		return c.OwnerID == ownerID && c.CompanyID != nil && *c.CompanyID == companyID
	}), nil
}

func (m *MockContactRepository) filter(keep func(*crm.Contact) bool) []*crm.Contact {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*crm.Contact{}
	for _, c := range m.Contacts {
		if keep(c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return strings.Compare(out[i].ID, out[j].ID) < 0 })
	return out
}

func (m *MockContactRepository) Update(ctx context.Context, c *crm.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Contacts[c.ID]; !ok {
		return errors.NotFound("Contact")
	}
	cp := *c
	m.Contacts[c.ID] = &cp
	return nil
}

func (m *MockContactRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Contacts[id]; !ok {
		return errors.NotFound("Contact")
	}
	delete(m.Contacts, id)
	return nil
}

func (m *MockContactRepository) detachCompany(companyID, ownerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.Contacts {
		if c.OwnerID == ownerID && c.CompanyID != nil && *c.CompanyID == companyID {
			c.CompanyID = nil
		}
	}
}

// MockCompanyRepository is a mock implementation of crm.CompanyRepository
type MockCompanyRepository struct {
	mu        sync.Mutex
	Companies map[string]*crm.Company
	Contacts  *MockContactRepository
}

func NewMockCompanyRepository(contacts *MockContactRepository) *MockCompanyRepository {
	return &MockCompanyRepository{Companies: make(map[string]*crm.Company), Contacts: contacts}
}

func (m *MockCompanyRepository) Create(ctx context.Context, c *crm.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.Companies[c.ID] = &cp
	return nil
}

func (m *MockCompanyRepository) GetByID(ctx context.Context, id string) (*crm.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Companies[id]
	if !ok {
		return nil, errors.NotFoundWithID("Company", id)
	}
	cp := *c
	return &cp, nil
}

func (m *MockCompanyRepository) ListByOwner(ctx context.Context, ownerID string) ([]*crm.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*crm.Company{}
	for _, c := range m.Companies {
		if c.OwnerID == ownerID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockCompanyRepository) Update(ctx context.Context, c *crm.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Companies[c.ID]; !ok {
		return errors.NotFound("Company")
	}
	cp := *c
	m.Companies[c.ID] = &cp
	return nil
}

func (m *MockCompanyRepository) Delete(ctx context.Context, id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Companies[id]; !ok {
		return errors.NotFound("Company")
	}
	if m.Contacts != nil {
		m.Contacts.detachCompany(id, ownerID)
	}
	delete(m.Companies, id)
	return nil
}

// MockGateway is a scriptable billing.Gateway.
type MockGateway struct {
	GatewayMode   billing.Mode
	Checkout      *billing.CheckoutSession
	Portal        *billing.PortalSession
	Event         *billing.Event
	Err           error
	CheckoutCalls []billing.CheckoutRequest
	PortalCalls   []billing.PortalRequest
}

func (m *MockGateway) Mode() billing.Mode {
	if m.GatewayMode == "" {
		return billing.ModeStripe
	}
	return m.GatewayMode
}

func (m *MockGateway) CreateCheckoutSession(ctx context.Context, req billing.CheckoutRequest) (*billing.CheckoutSession, error) {
	m.CheckoutCalls = append(m.CheckoutCalls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Checkout, nil
}

func (m *MockGateway) CreatePortalSession(ctx context.Context, req billing.PortalRequest) (*billing.PortalSession, error) {
	m.PortalCalls = append(m.PortalCalls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Portal, nil
}

func (m *MockGateway) ParseWebhook(ctx context.Context, payload []byte, signature string) (*billing.Event, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Event, nil
}

// MockEventStore is an in-memory billing.EventStore with error injection.
type MockEventStore struct {
	mu        sync.Mutex
	Seen      map[string]bool
	MarkError error
}

func NewMockEventStore() *MockEventStore {
	return &MockEventStore{Seen: make(map[string]bool)}
}

func (m *MockEventStore) MarkProcessed(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MarkError != nil {
		return false, m.MarkError
	}
	if m.Seen[id] {
		return false, nil
	}
	m.Seen[id] = true
	return true, nil
}

func (m *MockEventStore) Forget(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Seen, id)
	return nil
}

// SentEmail records one FakeNotifier call.
type SentEmail struct {
	Template string
	To       string
	Name     string
	Days     int
	Amount   float64
	Plan     string
	EndDate  time.Time
}

// FakeNotifier records emails instead of sending them.
type FakeNotifier struct {
	mu   sync.Mutex
	Sent []SentEmail
	Fail bool
}

func (f *FakeNotifier) record(e SentEmail) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Fail {
		return false
	}
	f.Sent = append(f.Sent, e)
	return true
}

// Templates returns the template names sent so far, in order.
func (f *FakeNotifier) Templates() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.Sent))
	for _, e := range f.Sent {
		out = append(out, e.Template)
	}
	return out
}

func (f *FakeNotifier) SendWelcome(ctx context.Context, to, firstName string) bool {
	return f.record(SentEmail{Template: email.TemplateWelcome, To: to, Name: firstName})
}

func (f *FakeNotifier) SendTrialExpiring(ctx context.Context, to, firstName string, daysRemaining int) bool {
	return f.record(SentEmail{Template: email.TemplateTrialExpiring, To: to, Name: firstName, Days: daysRemaining})
}

func (f *FakeNotifier) SendPaymentSuccess(ctx context.Context, to, firstName string, amount float64, planName string) bool {
	return f.record(SentEmail{Template: email.TemplatePaymentSuccess, To: to, Name: firstName, Amount: amount, Plan: planName})
}

func (f *FakeNotifier) SendSubscriptionCancelled(ctx context.Context, to, firstName string, endDate time.Time) bool {
	return f.record(SentEmail{Template: email.TemplateSubscriptionCancelled, To: to, Name: firstName, EndDate: endDate})
}

func (f *FakeNotifier) SendPaymentFailed(ctx context.Context, to, firstName string) bool {
	return f.record(SentEmail{Template: email.TemplatePaymentFailed, To: to, Name: firstName})
}

package client

import (
	"context"
	"net/http"
	"net/url"
)

// CRMService handles contact and company API calls
type CRMService struct {
	client *Client
}

// CreateContactRequest represents a contact creation request
type CreateContactRequest struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
	CompanyID *string `json:"companyId,omitempty"`
	Type      string  `json:"type,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// UpdateContactRequest changes only the fields that are set
type UpdateContactRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	CompanyID *string `json:"companyId,omitempty"`
	Type      *string `json:"type,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// CreateCompanyRequest represents a company creation request
type CreateCompanyRequest struct {
	Name     string  `json:"name"`
	Industry *string `json:"industry,omitempty"`
	Size     *string `json:"size,omitempty"`
	Website  *string `json:"website,omitempty"`
	Address  *string `json:"address,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// UpdateCompanyRequest changes only the fields that are set
type UpdateCompanyRequest struct {
	Name     *string `json:"name,omitempty"`
	Industry *string `json:"industry,omitempty"`
	Size     *string `json:"size,omitempty"`
	Website  *string `json:"website,omitempty"`
	Address  *string `json:"address,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

func contactPath(id string) string { return "/api/crm/contacts/" + url.PathEscape(id) }
func companyPath(id string) string { return "/api/crm/companies/" + url.PathEscape(id) }

// ListContacts returns the caller's contacts
func (s *CRMService) ListContacts(ctx context.Context) ([]Contact, error) {
	var contacts []Contact
	if err := s.client.doRequest(ctx, http.MethodGet, "/api/crm/contacts", nil, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// GetContact retrieves a contact
func (s *CRMService) GetContact(ctx context.Context, id string) (*Contact, error) {
	var contact Contact
	if err := s.client.doRequest(ctx, http.MethodGet, contactPath(id), nil, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// CreateContact creates a contact
func (s *CRMService) CreateContact(ctx context.Context, req CreateContactRequest) (*Contact, error) {
	var contact Contact
	if err := s.client.doRequest(ctx, http.MethodPost, "/api/crm/contacts", req, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// UpdateContact changes a contact
func (s *CRMService) UpdateContact(ctx context.Context, id string, req UpdateContactRequest) (*Contact, error) {
	var contact Contact
	if err := s.client.doRequest(ctx, http.MethodPatch, contactPath(id), req, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// DeleteContact removes a contact
func (s *CRMService) DeleteContact(ctx context.Context, id string) error {
	return s.client.doRequest(ctx, http.MethodDelete, contactPath(id), nil, nil)
}

// ListCompanies returns the caller's companies
func (s *CRMService) ListCompanies(ctx context.Context) ([]Company, error) {
	var companies []Company
	if err := s.client.doRequest(ctx, http.MethodGet, "/api/crm/companies", nil, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

// GetCompany retrieves a company
func (s *CRMService) GetCompany(ctx context.Context, id string) (*Company, error) {
	var company Company
	if err := s.client.doRequest(ctx, http.MethodGet, companyPath(id), nil, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

// CreateCompany creates a company
func (s *CRMService) CreateCompany(ctx context.Context, req CreateCompanyRequest) (*Company, error) {
	var company Company
	if err := s.client.doRequest(ctx, http.MethodPost, "/api/crm/companies", req, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

// UpdateCompany changes a company
func (s *CRMService) UpdateCompany(ctx context.Context, id string, req UpdateCompanyRequest) (*Company, error) {
	var company Company
	if err := s.client.doRequest(ctx, http.MethodPatch, companyPath(id), req, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

// DeleteCompany removes a company; its contacts are kept and detached
func (s *CRMService) DeleteCompany(ctx context.Context, id string) error {
	return s.client.doRequest(ctx, http.MethodDelete, companyPath(id), nil, nil)
}

// ListCompanyContacts returns the contacts linked to a company
func (s *CRMService) ListCompanyContacts(ctx context.Context, companyID string) ([]Contact, error) {
	var contacts []Contact
	if err := s.client.doRequest(ctx, http.MethodGet, companyPath(companyID)+"/contacts", nil, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

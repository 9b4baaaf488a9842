// Package crm models contacts and the companies they may belong to.
package crm

import "time"

// ContactType classifies a contact
type ContactType string

const (
	ContactLead     ContactType = "lead"
	ContactClient   ContactType = "client"
	ContactProspect ContactType = "prospect"
)

// Valid reports whether t is a known contact type.
func (t ContactType) Valid() bool {
	switch t {
	case ContactLead, ContactClient, ContactProspect:
		return true
	}
	return false
}

// CompanySize buckets a company by headcount
type CompanySize string

const (
	SizeSmall      CompanySize = "small"
	SizeMedium     CompanySize = "medium"
	SizeLarge      CompanySize = "large"
	SizeEnterprise CompanySize = "enterprise"
)

// Valid reports whether s is a known size.
func (s CompanySize) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge, SizeEnterprise:
		return true
	}
	return false
}

// Contact is a person tracked in the CRM. CompanyID is a soft reference.
type Contact struct {
	ID        string      `json:"id"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Email     string      `json:"email"`
	Phone     *string     `json:"phone,omitempty"`
	CompanyID *string     `json:"companyId"`
	Type      ContactType `json:"type"`
	Notes     *string     `json:"notes,omitempty"`
	OwnerID   string      `json:"ownerId"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Company is an organisation tracked in the CRM
type Company struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Industry  *string      `json:"industry,omitempty"`
	Size      *CompanySize `json:"size,omitempty"`
	Website   *string      `json:"website,omitempty"`
	Address   *string      `json:"address,omitempty"`
	Notes     *string      `json:"notes,omitempty"`
	OwnerID   string       `json:"ownerId"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// CreateContactInput carries fields for a new contact.
type CreateContactInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	CompanyID *string
	Type      ContactType // defaults to ContactLead
	Notes     *string
}

// UpdateContactInput is a shallow merge; nil fields are unchanged.
type UpdateContactInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	CompanyID *string
	Type      *ContactType
	Notes     *string
}

// Apply merges the non-nil fields into c.
func (in UpdateContactInput) Apply(c *Contact) {
	if in.FirstName != nil {
		c.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		c.LastName = *in.LastName
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.Phone != nil {
		c.Phone = in.Phone
	}
	if in.CompanyID != nil {
		c.CompanyID = in.CompanyID
	}
	if in.Type != nil {
		c.Type = *in.Type
	}
	if in.Notes != nil {
		c.Notes = in.Notes
	}
}

// CreateCompanyInput carries fields for a new company.
type CreateCompanyInput struct {
	Name     string
	Industry *string
	Size     *CompanySize
	Website  *string
	Address  *string
	Notes    *string
}

// UpdateCompanyInput is a shallow merge; nil fields are unchanged.
type UpdateCompanyInput struct {
	Name     *string
	Industry *string
	Size     *CompanySize
	Website  *string
	Address  *string
	Notes    *string
}

// Apply merges the non-nil fields into c.
func (in UpdateCompanyInput) Apply(c *Company) {
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Industry != nil {
		c.Industry = in.Industry
	}
	if in.Size != nil {
		c.Size = in.Size
	}
	if in.Website != nil {
		c.Website = in.Website
	}
	if in.Address != nil {
		c.Address = in.Address
	}
	if in.Notes != nil {
		c.Notes = in.Notes
	}
}

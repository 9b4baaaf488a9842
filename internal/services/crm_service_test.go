package services

import (
	"context"
	"testing"

	"github.com/flowvera/flowvera/internal/domain/crm"
	"github.com/flowvera/flowvera/internal/pkg/errors"
	"github.com/flowvera/flowvera/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCRMService() (*CRMService, *testutil.MockContactRepository) {
	contacts := testutil.NewMockContactRepository()
	companies := testutil.NewMockCompanyRepository(contacts)
	return NewCRMService(contacts, companies, testutil.NewTestLogger()).WithClock(FixedClock(testNow)), contacts
}

func TestCRMService_CreateContact(t *testing.T) {
	svc, _ := newCRMService()
	ctx := context.Background()

	c, err := svc.CreateContact(ctx, "owner-1", crm.CreateContactInput{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, crm.ContactLead, c.Type)
	assert.Equal(t, "owner-1", c.OwnerID)
	assert.Equal(t, testNow, c.CreatedAt)

	_, err = svc.CreateContact(ctx, "owner-1", crm.CreateContactInput{FirstName: "B", LastName: "C", Email: "b@example.com", Type: "vendor"})
	assert.True(t, errors.IsBadRequest(err))

	// company references are not checked on write
	ghost := "no-such-company"
	c, err = svc.CreateContact(ctx, "owner-1", crm.CreateContactInput{FirstName: "D", LastName: "E", Email: "d@example.com", CompanyID: &ghost})
	require.NoError(t, err)
	assert.Equal(t, ghost, *c.CompanyID)
}

func TestCRMService_ContactOwnership(t *testing.T) {
	svc, _ := newCRMService()
	ctx := context.Background()

	c, err := svc.CreateContact(ctx, "owner-d", crm.CreateContactInput{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"})
	require.NoError(t, err)

	_, err = svc.GetContact(ctx, c.ID, "owner-c")
	require.Error(t, err)
	assert.True(t, errors.IsForbidden(err))
	assert.Equal(t, "You do not have access to this contact", err.Error())

	client := crm.ContactClient
	_, err = svc.UpdateContact(ctx, c.ID, "owner-c", crm.UpdateContactInput{Type: &client})
	assert.True(t, errors.IsForbidden(err))
	assert.True(t, errors.IsForbidden(svc.DeleteContact(ctx, c.ID, "owner-c")))

	_, err = svc.GetContact(ctx, "missing", "owner-d")
	assert.True(t, errors.IsNotFound(err))

	updated, err := svc.UpdateContact(ctx, c.ID, "owner-d", crm.UpdateContactInput{Type: &client})
	require.NoError(t, err)
	assert.Equal(t, crm.ContactClient, updated.Type)
	assert.Equal(t, "Ada", updated.FirstName)

	require.NoError(t, svc.DeleteContact(ctx, c.ID, "owner-d"))
	list, err := svc.ListContacts(ctx, "owner-d")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCRMService_CompanyOwnershipAndValidation(t *testing.T) {
	svc, _ := newCRMService()
	ctx := context.Background()

	bad := crm.CompanySize("huge")
	_, err := svc.CreateCompany(ctx, "owner-1", crm.CreateCompanyInput{Name: "Acme", Size: &bad})
	assert.True(t, errors.IsBadRequest(err))

	size := crm.SizeSmall
	co, err := svc.CreateCompany(ctx, "owner-1", crm.CreateCompanyInput{Name: "Acme", Size: &size})
	require.NoError(t, err)

	_, err = svc.GetCompany(ctx, co.ID, "owner-2")
	require.Error(t, err)
	assert.Equal(t, "You do not have access to this company", err.Error())

	_, err = svc.ListContactsByCompany(ctx, co.ID, "owner-2")
	assert.True(t, errors.IsForbidden(err))

	name := "Acme Corp"
	updated, err := svc.UpdateCompany(ctx, co.ID, "owner-1", crm.UpdateCompanyInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", updated.Name)
	assert.Equal(t, crm.SizeSmall, *updated.Size)
}

func TestCRMService_DeleteCompanyDetachesContacts(t *testing.T) {
	svc, contacts := newCRMService()
	ctx := context.Background()

	co, err := svc.CreateCompany(ctx, "owner-1", crm.CreateCompanyInput{Name: "Acme"})
	require.NoError(t, err)

	linked, err := svc.CreateContact(ctx, "owner-1", crm.CreateContactInput{FirstName: "A", LastName: "B", Email: "a@example.com", CompanyID: &co.ID})
	require.NoError(t, err)

	byCompany, err := svc.ListContactsByCompany(ctx, co.ID, "owner-1")
	require.NoError(t, err)
	require.Len(t, byCompany, 1)

	require.NoError(t, svc.DeleteCompany(ctx, co.ID, "owner-1"))

	c, err := svc.GetContact(ctx, linked.ID, "owner-1")
	require.NoError(t, err)
	assert.Nil(t, c.CompanyID)
	assert.Len(t, contacts.Contacts, 1)

	_, err = svc.GetCompany(ctx, co.ID, "owner-1")
	assert.True(t, errors.IsNotFound(err))
}

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/flowvera/flowvera/internal/domain/crm"
	"github.com/flowvera/flowvera/internal/pkg/errors"
	"github.com/flowvera/flowvera/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyRepository_DeleteDetachesContacts(t *testing.T) {
	db := testutil.NewTestDB(t)
	companies := NewCompanyRepository(db)
	contacts := NewContactRepository(db)
	ctx := context.Background()

	owner := newTestUser("owner@example.com")
	require.NoError(t, NewUserRepository(db).Create(ctx, owner))

	now := time.Now().UTC().Truncate(time.Second)
	size := crm.SizeMedium
	co := &crm.Company{
		ID:        uuid.NewString(),
		Name:      "Acme",
		Size:      &size,
		Website:   testutil.Ptr("https://acme.test"),
		OwnerID:   owner.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, companies.Create(ctx, co))

	got, err := companies.GetByID(ctx, co.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Size)
	assert.Equal(t, crm.SizeMedium, *got.Size)

	var ids []string
	for _, name := range []string{"Ann", "Bob"} {
		c := &crm.Contact{
			ID:        uuid.NewString(),
			FirstName: name,
			LastName:  "Smith",
			Email:     name + "@acme.test",
			CompanyID: &co.ID,
			Type:      crm.ContactClient,
			OwnerID:   owner.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		require.NoError(t, contacts.Create(ctx, c))
		ids = append(ids, c.ID)
	}

	byCompany, err := contacts.ListByCompany(ctx, co.ID, owner.ID)
	require.NoError(t, err)
	assert.Len(t, byCompany, 2)

	require.NoError(t, companies.Delete(ctx, co.ID, owner.ID))

	_, err = companies.GetByID(ctx, co.ID)
	assert.True(t, errors.IsNotFound(err))
	for _, id := range ids {
		c, err := contacts.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, c.CompanyID)
	}

	assert.True(t, errors.IsNotFound(companies.Delete(ctx, co.ID, owner.ID)))
}

func TestContactRepository_SoftCompanyReference(t *testing.T) {
	db := testutil.NewTestDB(t)
	contacts := NewContactRepository(db)
	ctx := context.Background()

	owner := newTestUser("owner@example.com")
	require.NoError(t, NewUserRepository(db).Create(ctx, owner))

	now := time.Now().UTC().Truncate(time.Second)
	c := &crm.Contact{
		ID:        uuid.NewString(),
		FirstName: "Ann",
		LastName:  "Smith",
		Email:     "ann@example.com",
		CompanyID: testutil.Ptr("no-such-company"),
		Type:      crm.ContactLead,
		OwnerID:   owner.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, contacts.Create(ctx, c))

	c.Phone = testutil.Ptr("555-0100")
	c.Type = crm.ContactProspect
	require.NoError(t, contacts.Update(ctx, c))

	list, err := contacts.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, crm.ContactProspect, list[0].Type)
	assert.Equal(t, "555-0100", *list[0].Phone)
	assert.Equal(t, "no-such-company", *list[0].CompanyID)

	require.NoError(t, contacts.Delete(ctx, c.ID))
	_, err = contacts.GetByID(ctx, c.ID)
	assert.True(t, errors.IsNotFound(err))
}

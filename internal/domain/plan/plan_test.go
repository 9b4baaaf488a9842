package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogOrder(t *testing.T) {
	all := DefaultCatalog().All()
	require.Len(t, all, 4)

	ids := []ID{all[0].ID, all[1].ID, all[2].ID, all[3].ID}
	assert.Equal(t, []ID{FreeTrial, Basic, Premium, Enterprise}, ids)
}

func TestDefaultCatalogEntries(t *testing.T) {
	c := DefaultCatalog()

	tests := []struct {
		id        ID
		price     float64
		maxUsers  int
		storageGB int
		flags     bool
	}{
		{FreeTrial, 0, 5, 1, false},
		{Basic, 10, 5, 1, false},
		{Premium, 30, Unlimited, 10, true},
		{Enterprise, 0, Unlimited, Unlimited, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			p, ok := c.Get(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.price, p.PricePerUser)
			assert.Equal(t, tt.maxUsers, p.Limits.MaxUsers)
			assert.Equal(t, tt.storageGB, p.Limits.StorageGB)
			assert.Equal(t, tt.flags, p.Limits.HasAdvancedCRM)
			assert.Equal(t, tt.flags, p.Limits.HasIntegrations)
			assert.Equal(t, "USD", p.Currency)
		})
	}
}

func TestCatalogIsNotMutableThroughAll(t *testing.T) {
	c := DefaultCatalog()
	all := c.All()
	all[0].Name = "changed"

	p, _ := c.Get(FreeTrial)
	assert.Equal(t, "Free Trial", p.Name)
}

func TestIDValid(t *testing.T) {
	assert.True(t, Premium.Valid())
	assert.False(t, ID("gold").Valid())
	assert.False(t, FreeTrial.IsPaid())
	assert.True(t, Basic.IsPaid())
	assert.True(t, IsUnlimited(Unlimited))
}

func TestGetUnknown(t *testing.T) {
	_, ok := DefaultCatalog().Get("gold")
	assert.False(t, ok)
}

package repo

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/src/core/domain"
	"marketplace/src/infra/currency"
)

func TestMemoryClassifiedAdRepository_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	table := currency.NewTable()
	r := NewMemoryClassifiedAdRepository(table)
	ad := domain.NewClassifiedAd(domain.NewClassifiedAdID(uuid.New()), domain.NewUserID(uuid.New()), table)
	title, err := domain.NewClassifiedAdTitle("Selling bike")
	require.NoError(t, err)
	require.NoError(t, ad.SetTitle(title))
	price, err := domain.PriceFromDecimal(decimal.RequireFromString("12.50"), domain.CurrencyAUD, table)
	require.NoError(t, err)
	require.NoError(t, ad.UpdatePrice(price))

	drained, err := r.Save(ctx, ad)

	require.NoError(t, err)
	require.Len(t, drained, 3)
	assert.Equal(t, "ClassifiedAdCreated", drained[0].EventType())
	assert.Empty(t, ad.Changes())

	exists, err := r.Exists(ctx, ad.ID())
	require.NoError(t, err)
	assert.True(t, exists)

	loaded, err := r.Load(ctx, ad.ID())
	require.NoError(t, err)
	assert.Equal(t, ad.Snapshot(), loaded.Snapshot())
	assert.NotSame(t, ad, loaded)
	assert.Equal(t, drained, r.History(ad.ID()))
}

func TestMemoryClassifiedAdRepository_LoadMissing(t *testing.T) {
	r := NewMemoryClassifiedAdRepository(currency.NewTable())
	id := domain.NewClassifiedAdID(uuid.New())

	_, err := r.Load(context.Background(), id)
	assert.True(t, domain.IsNotFound(err))

	exists, err := r.Exists(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryClassifiedAdRepository_LoadedAdsAreIndependent(t *testing.T) {
	ctx := context.Background()
	table := currency.NewTable()
	r := NewMemoryClassifiedAdRepository(table)
	ad := domain.NewClassifiedAd(domain.NewClassifiedAdID(uuid.New()), domain.NewUserID(uuid.New()), table)
	_, err := r.Save(ctx, ad)
	require.NoError(t, err)

	first, err := r.Load(ctx, ad.ID())
	require.NoError(t, err)
	require.NoError(t, first.SetText(domain.NewClassifiedAdText("unsaved")))

	second, err := r.Load(ctx, ad.ID())
	require.NoError(t, err)
	_, ok := second.Text()
	assert.False(t, ok)
}

func TestMemoryUserProfileRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryUserProfileRepository()
	full, err := domain.NewFullName("Ada Lovelace")
	require.NoError(t, err)
	display, err := domain.NewDisplayName("ada")
	require.NoError(t, err)
	profile := &domain.UserProfile{}
	id := domain.NewUserID(uuid.New())
	require.NoError(t, profile.Register(id, full, display))

	drained, err := r.Save(ctx, profile)
	require.NoError(t, err)
	assert.Len(t, drained, 1)

	loaded, err := r.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, profile.Snapshot(), loaded.Snapshot())

	_, err = r.Save(ctx, &domain.UserProfile{})
	assert.True(t, domain.IsInvalidState(err))

	_, err = r.Load(ctx, domain.NewUserID(uuid.New()))
	assert.True(t, domain.IsNotFound(err))
}

package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAd(t *testing.T) (*ClassifiedAd, *stubLookup) {
	t.Helper()
	lookup := newStubLookup()
	ad := NewClassifiedAd(NewClassifiedAdID(uuid.New()), NewUserID(uuid.New()), lookup)
	return ad, lookup
}

func mustTitle(t *testing.T, s string) ClassifiedAdTitle {
	t.Helper()
	title, err := NewClassifiedAdTitle(s)
	require.NoError(t, err)
	return title
}

func mustPrice(t *testing.T, amount string, code CurrencyCode) Price {
	t.Helper()
	p, err := PriceFromDecimal(dec(amount), code, newStubLookup())
	require.NoError(t, err)
	return p
}

func TestNewClassifiedAd(t *testing.T) {
	id := NewClassifiedAdID(uuid.New())
	owner := NewUserID(uuid.New())

	ad := NewClassifiedAd(id, owner, newStubLookup())

	assert.Equal(t, id, ad.ID())
	assert.Equal(t, StateInActive, ad.State())
	gotOwner, ok := ad.OwnerID()
	assert.True(t, ok)
	assert.Equal(t, owner, gotOwner)

	_, ok = ad.Title()
	assert.False(t, ok)
	_, ok = ad.Text()
	assert.False(t, ok)
	_, ok = ad.Price()
	assert.False(t, ok)
	_, ok = ad.ApprovedBy()
	assert.False(t, ok)

	assert.Equal(t, []ClassifiedAdEvent{ClassifiedAdCreated{ID: id, OwnerID: owner}}, ad.Changes())
}

func TestNewClassifiedAdTitle_Length(t *testing.T) {
	_, err := NewClassifiedAdTitle(strings.Repeat("a", MaxTitleLength))
	require.NoError(t, err)

	// Multi-byte characters count once each.
	_, err = NewClassifiedAdTitle(strings.Repeat("ö", MaxTitleLength))
	require.NoError(t, err)

	_, err = NewClassifiedAdTitle(strings.Repeat("a", MaxTitleLength+1))
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestClassifiedAd_SetTitleRecordsEvent(t *testing.T) {
	ad, _ := newTestAd(t)
	ad.ClearChanges()

	require.NoError(t, ad.SetTitle(mustTitle(t, "Selling bike")))

	title, ok := ad.Title()
	require.True(t, ok)
	assert.Equal(t, "Selling bike", title.Value())
	assert.Equal(t, []ClassifiedAdEvent{
		ClassifiedAdTitleChanged{ID: ad.ID(), Title: "Selling bike"},
	}, ad.Changes())
}

func TestClassifiedAd_OverlongTitleEventRejected(t *testing.T) {
	ad, _ := newTestAd(t)
	require.NoError(t, ad.SetTitle(mustTitle(t, "Selling bike")))
	before := ad.Changes()

	// Bypass the value object to drive an invalid event straight into the pipeline.
	err := ad.apply(ClassifiedAdTitleChanged{ID: ad.ID(), Title: strings.Repeat("x", MaxTitleLength+1)})

	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, before, ad.Changes())
	title, _ := ad.Title()
	assert.Equal(t, "Selling bike", title.Value())
}

func TestClassifiedAd_SetText(t *testing.T) {
	ad, _ := newTestAd(t)
	long := strings.Repeat("word ", 1000)

	require.NoError(t, ad.SetText(NewClassifiedAdText(long)))

	text, ok := ad.Text()
	require.True(t, ok)
	assert.Equal(t, long, text.Value())
}

func TestClassifiedAd_UpdatePriceKeepsCurrency(t *testing.T) {
	ad, _ := newTestAd(t)

	require.NoError(t, ad.UpdatePrice(mustPrice(t, "100.00", CurrencyAUD)))

	price, ok := ad.Price()
	require.True(t, ok)
	assert.Equal(t, CurrencyAUD, price.Currency())
	assert.True(t, price.Amount().Equal(dec("100")))

	changes := ad.Changes()
	last, ok := changes[len(changes)-1].(ClassifiedAdPriceUpdated)
	require.True(t, ok)
	assert.Equal(t, CurrencyAUD, last.CurrencyCode)
}

func TestClassifiedAd_UpdatePriceRejectedByProjection(t *testing.T) {
	ad, lookup := newTestAd(t)
	require.NoError(t, ad.UpdatePrice(mustPrice(t, "10", CurrencyEUR)))
	pending := len(ad.Changes())

	// The currency was retired after the price was built.
	lookup.currencies[CurrencyAUD] = CurrencyDetails{Code: CurrencyAUD, InUse: false, DecimalPlaces: 2}
	err := ad.UpdatePrice(mustPrice(t, "20", CurrencyAUD))

	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Len(t, ad.Changes(), pending)
	price, _ := ad.Price()
	assert.Equal(t, CurrencyEUR, price.Currency())
	assert.True(t, price.Amount().Equal(dec("10")))
}

func TestClassifiedAd_RequestToPublish(t *testing.T) {
	// Title, text and price set, then publish.
	ad, _ := newTestAd(t)
	require.NoError(t, ad.SetTitle(mustTitle(t, "Selling bike")))
	require.NoError(t, ad.SetText(NewClassifiedAdText("Barely used")))
	require.NoError(t, ad.UpdatePrice(mustPrice(t, "100.00", CurrencyEUR)))

	require.NoError(t, ad.RequestToPublish())

	assert.Equal(t, StatePendingReview, ad.State())
	changes := ad.Changes()
	assert.Equal(t, ClassifiedAdSentForReview{ID: ad.ID()}, changes[len(changes)-1])
	assert.Len(t, changes, 5)
}

func TestClassifiedAd_RequestToPublishPreconditions(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, ad *ClassifiedAd)
		field   string
		message string
	}{
		{
			name:    "missing title",
			setup:   func(t *testing.T, ad *ClassifiedAd) {},
			field:   "title",
			message: "title cannot be empty",
		},
		{
			name: "missing text",
			setup: func(t *testing.T, ad *ClassifiedAd) {
				require.NoError(t, ad.SetTitle(mustTitle(t, "Selling bike")))
			},
			field:   "text",
			message: "text cannot be empty",
		},
		{
			name: "missing price",
			setup: func(t *testing.T, ad *ClassifiedAd) {
				require.NoError(t, ad.SetTitle(mustTitle(t, "Selling bike")))
				require.NoError(t, ad.SetText(NewClassifiedAdText("Barely used")))
			},
			field:   "price",
			message: "price cannot be 0",
		},
		{
			name: "zero price",
			setup: func(t *testing.T, ad *ClassifiedAd) {
				require.NoError(t, ad.SetTitle(mustTitle(t, "Selling bike")))
				require.NoError(t, ad.SetText(NewClassifiedAdText("Barely used")))
				require.NoError(t, ad.UpdatePrice(mustPrice(t, "0", CurrencyEUR)))
			},
			field:   "price",
			message: "price cannot be 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ad, _ := newTestAd(t)
			tt.setup(t, ad)
			pending := len(ad.Changes())

			err := ad.RequestToPublish()

			require.Error(t, err)
			assert.True(t, IsPreconditionError(err))
			var de *DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.field, de.Field)
			assert.Equal(t, tt.message, de.Message)
			assert.Equal(t, StateInActive, ad.State())
			assert.Len(t, ad.Changes(), pending)
		})
	}
}

func TestClassifiedAd_EnsureValidStateIsPure(t *testing.T) {
	ad, _ := newTestAd(t)
	// Force an illegal combination: pending review without any details.
	ad.fields.state = StatePendingReview

	first := ad.EnsureValidState()
	second := ad.EnsureValidState()

	require.Error(t, first)
	assert.True(t, IsInvalidState(first))
	assert.Equal(t, first.Error(), second.Error())
	assert.Equal(t, StatePendingReview, ad.State())
}

func TestClassifiedAd_InvalidStateRollsBackProjection(t *testing.T) {
	ad, _ := newTestAd(t)
	require.NoError(t, ad.SetTitle(mustTitle(t, "Selling bike")))
	require.NoError(t, ad.SetText(NewClassifiedAdText("Barely used")))
	pending := ad.Changes()

	// Skipping the command's preconditions, the invariant still refuses the move.
	err := ad.apply(ClassifiedAdSentForReview{ID: ad.ID()})

	require.Error(t, err)
	assert.True(t, IsInvalidState(err))
	assert.Equal(t, StateInActive, ad.State())
	assert.Equal(t, pending, ad.Changes())
}

func TestClassifiedAd_StatesWithoutRequirements(t *testing.T) {
	for _, state := range []ClassifiedAdState{StateInActive, StateMarkedAsSold} {
		ad, _ := newTestAd(t)
		ad.fields.state = state
		assert.NoError(t, ad.EnsureValidState(), state)
	}
}

func TestClassifiedAd_SnapshotRoundTrip(t *testing.T) {
	ad, lookup := newTestAd(t)
	require.NoError(t, ad.SetTitle(mustTitle(t, "Selling bike")))
	require.NoError(t, ad.SetText(NewClassifiedAdText("Barely used")))
	require.NoError(t, ad.UpdatePrice(mustPrice(t, "100.50", CurrencyAUD)))
	require.NoError(t, ad.RequestToPublish())

	restored, err := RestoreClassifiedAd(ad.Snapshot(), lookup)

	require.NoError(t, err)
	assert.Equal(t, ad.Snapshot(), restored.Snapshot())
	assert.Empty(t, restored.Changes())
	assert.Equal(t, StatePendingReview, restored.State())
}

func TestClassifiedAd_Version(t *testing.T) {
	ad, lookup := newTestAd(t)
	assert.Equal(t, int64(1), ad.Version())

	require.NoError(t, ad.SetTitle(mustTitle(t, "Selling bike")))
	assert.Equal(t, int64(2), ad.Version())

	ad.ClearChanges()
	assert.Equal(t, int64(2), ad.Version())
	assert.Equal(t, int64(2), ad.Snapshot().Version)

	err := ad.RequestToPublish()
	require.Error(t, err)
	assert.Equal(t, int64(2), ad.Version())

	restored, err := RestoreClassifiedAd(ad.Snapshot(), lookup)
	require.NoError(t, err)
	require.NoError(t, restored.SetText(NewClassifiedAdText("Barely used")))
	assert.Equal(t, int64(3), restored.Version())
	assert.Len(t, restored.Changes(), 1)
}

func TestRestoreClassifiedAd_ActiveRequiresApprover(t *testing.T) {
	ad, lookup := newTestAd(t)
	require.NoError(t, ad.SetTitle(mustTitle(t, "Selling bike")))
	require.NoError(t, ad.SetText(NewClassifiedAdText("Barely used")))
	require.NoError(t, ad.UpdatePrice(mustPrice(t, "100", CurrencyEUR)))

	snap := ad.Snapshot()
	snap.State = StateActive

	_, err := RestoreClassifiedAd(snap, lookup)
	require.Error(t, err)
	assert.True(t, IsInvalidState(err))

	approver := uuid.New()
	snap.ApprovedBy = &approver
	restored, err := RestoreClassifiedAd(snap, lookup)
	require.NoError(t, err)
	got, ok := restored.ApprovedBy()
	assert.True(t, ok)
	assert.Equal(t, approver, got.Value())
}

func TestRestoreClassifiedAd_UnknownState(t *testing.T) {
	ad, lookup := newTestAd(t)
	snap := ad.Snapshot()
	snap.State = "ARCHIVED"

	_, err := RestoreClassifiedAd(snap, lookup)

	assert.True(t, IsValidationError(err))
}

package domain

import (
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"marketplace/src/core/aggregate"
)

// ClassifiedAdTitle is a title of at most MaxTitleLength characters.
type ClassifiedAdTitle struct {
	value string
}

// NewClassifiedAdTitle validates title.
func NewClassifiedAdTitle(title string) (ClassifiedAdTitle, error) {
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ClassifiedAdTitle{}, NewValidationError("title",
			fmt.Sprintf("title cannot be longer than %d characters", MaxTitleLength))
	}
	return ClassifiedAdTitle{value: title}, nil
}

// Value returns the raw title.
func (t ClassifiedAdTitle) Value() string  { return t.value }
func (t ClassifiedAdTitle) String() string { return t.value }

// ClassifiedAdText is the free-form body of an ad.
type ClassifiedAdText struct {
	value string
}

// NewClassifiedAdText wraps text. Any text is accepted, including the empty string.
func NewClassifiedAdText(text string) ClassifiedAdText {
	return ClassifiedAdText{value: text}
}

func (t ClassifiedAdText) Value() string  { return t.value }
func (t ClassifiedAdText) String() string { return t.value }

// ClassifiedAdState is the lifecycle state of an ad.
type ClassifiedAdState string

const (
	StateInActive      ClassifiedAdState = "INACTIVE"
	StatePendingReview ClassifiedAdState = "PENDING_REVIEW"
	StateActive        ClassifiedAdState = "ACTIVE"
	StateMarkedAsSold  ClassifiedAdState = "MARKED_AS_SOLD"
)

// ParseClassifiedAdState maps a stored state name back to the enum.
func ParseClassifiedAdState(s string) (ClassifiedAdState, error) {
	switch st := ClassifiedAdState(s); st {
	case StateInActive, StatePendingReview, StateActive, StateMarkedAsSold:
		return st, nil
	}
	return "", NewValidationError("state", fmt.Sprintf("unknown state %q", s))
}

// classifiedAdFields is the projected state; optional fields are nil until set.
type classifiedAdFields struct {
	id         ClassifiedAdID
	ownerID    *UserID
	approvedBy *UserID
	title      *ClassifiedAdTitle
	text       *ClassifiedAdText
	price      *Price
	state      ClassifiedAdState
}

// ClassifiedAd is the aggregate root for a single listing.
//
// Fields change only through the command methods, each of which raises an event
// and runs it through aggregate.Apply. A ClassifiedAd is not safe for concurrent
// use; callers serialize access.
type ClassifiedAd struct {
	fields  classifiedAdFields
	changes []ClassifiedAdEvent
	// saved counts the events persisted before the pending changes.
	saved  int64
	lookup CurrencyLookup
}

var (
	_ aggregate.Root[ClassifiedAdEvent] = (*ClassifiedAd)(nil)
	_ aggregate.Checkpointer            = (*ClassifiedAd)(nil)
)

// NewClassifiedAd creates an inactive ad owned by ownerID and records
// ClassifiedAdCreated as its first pending change. lookup must not be nil; it is
// used whenever a price is projected.
func NewClassifiedAd(id ClassifiedAdID, ownerID UserID, lookup CurrencyLookup) *ClassifiedAd {
	ad := &ClassifiedAd{lookup: lookup}
	// Created only sets id, owner and state, so the pipeline cannot reject it.
	if err := aggregate.Apply[ClassifiedAdEvent](ad, ClassifiedAdCreated{ID: id, OwnerID: ownerID}); err != nil {
		panic(fmt.Sprintf("domain: creating classified ad %s: %v", id, err))
	}
	return ad
}

// SetTitle raises ClassifiedAdTitleChanged.
func (a *ClassifiedAd) SetTitle(title ClassifiedAdTitle) error {
	return a.apply(ClassifiedAdTitleChanged{ID: a.fields.id, Title: title.Value()})
}

// SetText raises ClassifiedAdTextUpdated.
func (a *ClassifiedAd) SetText(text ClassifiedAdText) error {
	return a.apply(ClassifiedAdTextUpdated{ID: a.fields.id, AdText: text.Value()})
}

// UpdatePrice raises ClassifiedAdPriceUpdated. The projection rebuilds the price
// through the currency lookup, which may still reject it.
func (a *ClassifiedAd) UpdatePrice(price Price) error {
	return a.apply(ClassifiedAdPriceUpdated{
		ID:           a.fields.id,
		Price:        price.Amount(),
		CurrencyCode: price.Currency(),
	})
}

// RequestToPublish sends the ad for review once title, text and a non-zero
// price are all set. No event is raised when a precondition fails.
func (a *ClassifiedAd) RequestToPublish() error {
	if a.fields.title == nil {
		return NewPreconditionError("title", "title cannot be empty")
	}
	if a.fields.text == nil {
		return NewPreconditionError("text", "text cannot be empty")
	}
	if a.fields.price == nil || a.fields.price.IsZero() {
		return NewPreconditionError("price", "price cannot be 0")
	}
	return a.apply(ClassifiedAdSentForReview{ID: a.fields.id})
}

func (a *ClassifiedAd) apply(event ClassifiedAdEvent) error {
	return aggregate.Apply[ClassifiedAdEvent](a, event)
}

// When projects event onto the ad's fields.
func (a *ClassifiedAd) When(event ClassifiedAdEvent) error {
	switch e := event.(type) {
	case ClassifiedAdCreated:
		owner := e.OwnerID
		a.fields.id = e.ID
		a.fields.ownerID = &owner
		a.fields.state = StateInActive
	case ClassifiedAdTitleChanged:
		title, err := NewClassifiedAdTitle(e.Title)
		if err != nil {
			return err
		}
		a.fields.title = &title
	case ClassifiedAdTextUpdated:
		text := NewClassifiedAdText(e.AdText)
		a.fields.text = &text
	case ClassifiedAdPriceUpdated:
		price, err := PriceFromDecimal(e.Price, e.CurrencyCode, a.lookup)
		if err != nil {
			return err
		}
		a.fields.price = &price
	case ClassifiedAdSentForReview:
		a.fields.state = StatePendingReview
	default:
		return fmt.Errorf("unknown event type for ClassifiedAd: %T", event)
	}
	return nil
}

// EnsureValidState checks the fields required by the current state.
func (a *ClassifiedAd) EnsureValidState() error {
	valid := a.fields.ownerID != nil
	switch a.fields.state {
	case StatePendingReview:
		valid = valid && a.hasListingDetails()
	case StateActive:
		valid = valid && a.hasListingDetails() && a.fields.approvedBy != nil
	}
	if !valid {
		return NewInvalidStateError(a.fields.state)
	}
	return nil
}

func (a *ClassifiedAd) hasListingDetails() bool {
	return a.fields.title != nil &&
		a.fields.text != nil &&
		a.fields.price != nil &&
		!a.fields.price.IsZero()
}

// StoreChanges appends event to the pending changes.
func (a *ClassifiedAd) StoreChanges(event ClassifiedAdEvent) {
	a.changes = append(a.changes, event)
}

// Checkpoint captures the projected fields so a rejected event can be undone.
// Every optional field points at an immutable value, so a shallow copy is enough.
func (a *ClassifiedAd) Checkpoint() func() {
	saved := a.fields
	return func() { a.fields = saved }
}

// ID returns the ad's identity.
func (a *ClassifiedAd) ID() ClassifiedAdID { return a.fields.id }

// State returns the lifecycle state.
func (a *ClassifiedAd) State() ClassifiedAdState { return a.fields.state }

// Version is the number of events applied to the ad, persisted or pending.
// It only grows, so a higher version is always a newer projection.
func (a *ClassifiedAd) Version() int64 { return a.saved + int64(len(a.changes)) }

// OwnerID returns the owner; false only for a zero ClassifiedAd.
func (a *ClassifiedAd) OwnerID() (UserID, bool) {
	if a.fields.ownerID == nil {
		return UserID{}, false
	}
	return *a.fields.ownerID, true
}

// ApprovedBy returns the reviewer who activated the ad, if any.
func (a *ClassifiedAd) ApprovedBy() (UserID, bool) {
	if a.fields.approvedBy == nil {
		return UserID{}, false
	}
	return *a.fields.approvedBy, true
}

// Title returns the title, if one has been set.
func (a *ClassifiedAd) Title() (ClassifiedAdTitle, bool) {
	if a.fields.title == nil {
		return ClassifiedAdTitle{}, false
	}
	return *a.fields.title, true
}

// Text returns the body text, if any.
func (a *ClassifiedAd) Text() (ClassifiedAdText, bool) {
	if a.fields.text == nil {
		return ClassifiedAdText{}, false
	}
	return *a.fields.text, true
}

// Price returns the asking price, if one has been set.
func (a *ClassifiedAd) Price() (Price, bool) {
	if a.fields.price == nil {
		return Price{}, false
	}
	return *a.fields.price, true
}

// Changes returns the events raised since the last ClearChanges.
func (a *ClassifiedAd) Changes() []ClassifiedAdEvent {
	out := make([]ClassifiedAdEvent, len(a.changes))
	copy(out, a.changes)
	return out
}

// ClearChanges drops the pending changes once they have been persisted.
// Version is unchanged.
func (a *ClassifiedAd) ClearChanges() {
	a.saved += int64(len(a.changes))
	a.changes = nil
}

// ClassifiedAdSnapshot is the persisted form of a ClassifiedAd's projected state.
type ClassifiedAdSnapshot struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	ApprovedBy *uuid.UUID
	Title      *string
	Text       *string
	Price      *decimal.Decimal
	Currency   CurrencyCode
	State      ClassifiedAdState
	Version    int64
}

// Snapshot returns the projected state as plain data. Pending changes are not included.
func (a *ClassifiedAd) Snapshot() ClassifiedAdSnapshot {
	s := ClassifiedAdSnapshot{
		ID:      a.fields.id.Value(),
		State:   a.fields.state,
		Version: a.Version(),
	}
	if a.fields.ownerID != nil {
		s.OwnerID = a.fields.ownerID.Value()
	}
	if a.fields.approvedBy != nil {
		v := a.fields.approvedBy.Value()
		s.ApprovedBy = &v
	}
	if a.fields.title != nil {
		v := a.fields.title.Value()
		s.Title = &v
	}
	if a.fields.text != nil {
		v := a.fields.text.Value()
		s.Text = &v
	}
	if a.fields.price != nil {
		v := a.fields.price.Amount()
		s.Price = &v
		s.Currency = a.fields.price.Currency()
	}
	return s
}

// RestoreClassifiedAd rebuilds an ad from a snapshot. Value objects are revalidated
// and the state invariant must hold. The result has no pending changes.
func RestoreClassifiedAd(s ClassifiedAdSnapshot, lookup CurrencyLookup) (*ClassifiedAd, error) {
	state, err := ParseClassifiedAdState(string(s.State))
	if err != nil {
		return nil, err
	}

	owner := NewUserID(s.OwnerID)
	fields := classifiedAdFields{
		id:      NewClassifiedAdID(s.ID),
		ownerID: &owner,
		state:   state,
	}
	if s.ApprovedBy != nil {
		approver := NewUserID(*s.ApprovedBy)
		fields.approvedBy = &approver
	}
	if s.Title != nil {
		title, err := NewClassifiedAdTitle(*s.Title)
		if err != nil {
			return nil, err
		}
		fields.title = &title
	}
	if s.Text != nil {
		text := NewClassifiedAdText(*s.Text)
		fields.text = &text
	}
	if s.Price != nil {
		price, err := PriceFromDecimal(*s.Price, s.Currency, lookup)
		if err != nil {
			return nil, err
		}
		fields.price = &price
	}

	ad := &ClassifiedAd{fields: fields, saved: s.Version, lookup: lookup}
	if err := ad.EnsureValidState(); err != nil {
		return nil, err
	}
	return ad, nil
}

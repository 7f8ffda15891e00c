package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"marketplace/src/core/aggregate"
)

// FullName is a user's legal name.
type FullName struct {
	value string
}

// NewFullName trims name and rejects a blank one.
func NewFullName(name string) (FullName, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return FullName{}, NewValidationError("full_name", "full name cannot be empty")
	}
	return FullName{value: name}, nil
}

// Value returns the trimmed name.
func (n FullName) Value() string { return n.value }

// DisplayName is the name shown next to a user's ads.
type DisplayName struct {
	value string
}

// NewDisplayName trims name and rejects a blank one.
func NewDisplayName(name string) (DisplayName, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DisplayName{}, NewValidationError("display_name", "display name cannot be empty")
	}
	return DisplayName{value: name}, nil
}

// Value returns the trimmed name.
func (n DisplayName) Value() string { return n.value }

// UserProfileEvent is the closed set of facts a UserProfile can raise.
type UserProfileEvent interface {
	EventType() string
	isUserProfileEvent()
}

// UserRegistered is raised once, when the profile is created.
type UserRegistered struct {
	ID          UserID `json:"id"`
	FullName    string `json:"full_name"`
	DisplayName string `json:"display_name"`
}

// UserFullNameUpdated carries the new full name.
type UserFullNameUpdated struct {
	ID       UserID `json:"id"`
	FullName string `json:"full_name"`
}

// UserDisplayNameUpdated carries the new display name.
type UserDisplayNameUpdated struct {
	ID          UserID `json:"id"`
	DisplayName string `json:"display_name"`
}

func (UserRegistered) EventType() string         { return "UserRegistered" }
func (UserFullNameUpdated) EventType() string    { return "UserFullNameUpdated" }
func (UserDisplayNameUpdated) EventType() string { return "UserDisplayNameUpdated" }

func (UserRegistered) isUserProfileEvent()         {}
func (UserFullNameUpdated) isUserProfileEvent()    {}
func (UserDisplayNameUpdated) isUserProfileEvent() {}

type userProfileFields struct {
	id          *UserID
	fullName    *FullName
	displayName *DisplayName
}

// UserProfile is the aggregate root for a marketplace user.
// The zero value is an unregistered profile ready for Register.
type UserProfile struct {
	fields  userProfileFields
	changes []UserProfileEvent
	saved   int64
}

var (
	_ aggregate.Root[UserProfileEvent] = (*UserProfile)(nil)
	_ aggregate.Checkpointer           = (*UserProfile)(nil)
)

// Register raises UserRegistered. A profile registers only once.
func (p *UserProfile) Register(id UserID, fullName FullName, displayName DisplayName) error {
	if p.fields.id != nil {
		return NewPreconditionError("id", "profile is already registered")
	}
	return p.apply(UserRegistered{
		ID:          id,
		FullName:    fullName.Value(),
		DisplayName: displayName.Value(),
	})
}

// UpdateFullName raises UserFullNameUpdated on a registered profile.
func (p *UserProfile) UpdateFullName(fullName FullName) error {
	id, _ := p.ID()
	return p.apply(UserFullNameUpdated{ID: id, FullName: fullName.Value()})
}

// UpdateDisplayName raises UserDisplayNameUpdated on a registered profile.
func (p *UserProfile) UpdateDisplayName(displayName DisplayName) error {
	id, _ := p.ID()
	return p.apply(UserDisplayNameUpdated{ID: id, DisplayName: displayName.Value()})
}

func (p *UserProfile) apply(event UserProfileEvent) error {
	return aggregate.Apply[UserProfileEvent](p, event)
}

// When projects event onto the profile.
func (p *UserProfile) When(event UserProfileEvent) error {
	switch e := event.(type) {
	case UserRegistered:
		fullName, err := NewFullName(e.FullName)
		if err != nil {
			return err
		}
		displayName, err := NewDisplayName(e.DisplayName)
		if err != nil {
			return err
		}
		id := e.ID
		p.fields.id = &id
		p.fields.fullName = &fullName
		p.fields.displayName = &displayName
	case UserFullNameUpdated:
		fullName, err := NewFullName(e.FullName)
		if err != nil {
			return err
		}
		p.fields.fullName = &fullName
	case UserDisplayNameUpdated:
		displayName, err := NewDisplayName(e.DisplayName)
		if err != nil {
			return err
		}
		p.fields.displayName = &displayName
	default:
		return fmt.Errorf("unknown event type for UserProfile: %T", event)
	}
	return nil
}

// EnsureValidState holds once the profile is registered.
func (p *UserProfile) EnsureValidState() error {
	if p.fields.id == nil || p.fields.fullName == nil || p.fields.displayName == nil {
		return &DomainError{Base: ErrInvalidState, Message: "user profile is not registered"}
	}
	return nil
}

// StoreChanges appends event to the pending changes.
func (p *UserProfile) StoreChanges(event UserProfileEvent) {
	p.changes = append(p.changes, event)
}

// Checkpoint captures the projected fields so a rejected event can be undone.
func (p *UserProfile) Checkpoint() func() {
	saved := p.fields
	return func() { p.fields = saved }
}

// ID returns the user id; false until registered.
func (p *UserProfile) ID() (UserID, bool) {
	if p.fields.id == nil {
		return UserID{}, false
	}
	return *p.fields.id, true
}

// FullName returns the full name; false until registered.
func (p *UserProfile) FullName() (FullName, bool) {
	if p.fields.fullName == nil {
		return FullName{}, false
	}
	return *p.fields.fullName, true
}

// DisplayName returns the display name; false until registered.
func (p *UserProfile) DisplayName() (DisplayName, bool) {
	if p.fields.displayName == nil {
		return DisplayName{}, false
	}
	return *p.fields.displayName, true
}

// Version is the number of events applied to the profile, persisted or pending.
func (p *UserProfile) Version() int64 { return p.saved + int64(len(p.changes)) }

// Changes returns the events raised since the last ClearChanges.
func (p *UserProfile) Changes() []UserProfileEvent {
	out := make([]UserProfileEvent, len(p.changes))
	copy(out, p.changes)
	return out
}

// ClearChanges drops the pending changes once they have been persisted.
func (p *UserProfile) ClearChanges() {
	p.saved += int64(len(p.changes))
	p.changes = nil
}

// UserProfileSnapshot is the persisted form of a registered profile.
type UserProfileSnapshot struct {
	ID          uuid.UUID
	FullName    string
	DisplayName string
	Version     int64
}

// Snapshot returns the profile as plain data. It is only meaningful once registered.
func (p *UserProfile) Snapshot() UserProfileSnapshot {
	s := UserProfileSnapshot{Version: p.Version()}
	if p.fields.id != nil {
		s.ID = p.fields.id.Value()
	}
	if p.fields.fullName != nil {
		s.FullName = p.fields.fullName.Value()
	}
	if p.fields.displayName != nil {
		s.DisplayName = p.fields.displayName.Value()
	}
	return s
}

// RestoreUserProfile rebuilds a registered profile without pending changes.
func RestoreUserProfile(s UserProfileSnapshot) (*UserProfile, error) {
	fullName, err := NewFullName(s.FullName)
	if err != nil {
		return nil, err
	}
	displayName, err := NewDisplayName(s.DisplayName)
	if err != nil {
		return nil, err
	}
	id := NewUserID(s.ID)
	return &UserProfile{
		fields: userProfileFields{
			id:          &id,
			fullName:    &fullName,
			displayName: &displayName,
		},
		saved: s.Version,
	}, nil
}

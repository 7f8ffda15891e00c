package domain

import (
	"github.com/google/uuid"
)

// ClassifiedAdID identifies a classified ad.
type ClassifiedAdID struct {
	value uuid.UUID
}

// NewClassifiedAdID wraps value.
func NewClassifiedAdID(value uuid.UUID) ClassifiedAdID {
	return ClassifiedAdID{value: value}
}

// ParseClassifiedAdID parses the textual form of an id.
func ParseClassifiedAdID(s string) (ClassifiedAdID, error) {
	v, err := uuid.Parse(s)
	if err != nil {
		return ClassifiedAdID{}, NewValidationError("id", "must be a valid uuid")
	}
	return ClassifiedAdID{value: v}, nil
}

// Value returns the wrapped uuid.
func (id ClassifiedAdID) Value() uuid.UUID { return id.value }

func (id ClassifiedAdID) String() string { return id.value.String() }

// IsZero reports whether id wraps the nil uuid.
func (id ClassifiedAdID) IsZero() bool { return id.value == uuid.Nil }

func (id ClassifiedAdID) MarshalText() ([]byte, error) {
	return id.value.MarshalText()
}

func (id *ClassifiedAdID) UnmarshalText(data []byte) error {
	return id.value.UnmarshalText(data)
}

// UserID identifies a user (ad owner or approver).
type UserID struct {
	value uuid.UUID
}

// NewUserID wraps value.
func NewUserID(value uuid.UUID) UserID {
	return UserID{value: value}
}

// ParseUserID parses the textual form of a user id.
func ParseUserID(s string) (UserID, error) {
	v, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, NewValidationError("owner_id", "must be a valid uuid")
	}
	return UserID{value: v}, nil
}

// Value returns the wrapped uuid.
func (id UserID) Value() uuid.UUID { return id.value }

func (id UserID) String() string { return id.value.String() }

// IsZero reports whether id wraps the nil uuid.
func (id UserID) IsZero() bool { return id.value == uuid.Nil }

func (id UserID) MarshalText() ([]byte, error) {
	return id.value.MarshalText()
}

func (id *UserID) UnmarshalText(data []byte) error {
	return id.value.UnmarshalText(data)
}

package domain

import (
	"errors"
	"fmt"
)

// Domain error types for consistent error handling across the application.
// Every failure the core reports wraps exactly one of these bases.

var (
	// ErrNotFound is returned when a requested aggregate does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when there's a conflict with the current state,
	// e.g. creating an aggregate whose id is already taken.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput is returned when a value object rejects its input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPreconditionFailed is returned when a command runs before the state it
	// depends on has been set.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrInvalidState is returned when an aggregate's fields are illegal for its
	// lifecycle state.
	ErrInvalidState = errors.New("invalid aggregate state")

	// ErrCurrencyLookup is returned when a currency code cannot be resolved.
	ErrCurrencyLookup = errors.New("currency lookup failed")
)

// DomainError wraps a base error with additional context.
// It provides a standard way to add details to domain errors.
type DomainError struct {
	// Base is the underlying error type (e.g., ErrInvalidInput)
	Base error

	// Message provides human-readable context
	Message string

	// Field indicates which field caused the error (for validation errors)
	Field string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Base.Error(), e.Message, e.Field)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Base.Error(), e.Message)
	}
	return e.Base.Error()
}

// Unwrap returns the base error for errors.Is/As support.
func (e *DomainError) Unwrap() error {
	return e.Base
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(resource string) *DomainError {
	return &DomainError{
		Base:    ErrNotFound,
		Message: resource,
	}
}

// NewConflictError creates a conflict error with context.
func NewConflictError(message string) *DomainError {
	return &DomainError{
		Base:    ErrConflict,
		Message: message,
	}
}

// NewValidationError creates a validation error for a specific field.
func NewValidationError(field, message string) *DomainError {
	return &DomainError{
		Base:    ErrInvalidInput,
		Message: message,
		Field:   field,
	}
}

// NewPreconditionError reports a command attempted without its required prior state.
func NewPreconditionError(field, message string) *DomainError {
	return &DomainError{
		Base:    ErrPreconditionFailed,
		Message: message,
		Field:   field,
	}
}

// NewInvalidStateError reports a field combination that is illegal in state.
func NewInvalidStateError(state ClassifiedAdState) *DomainError {
	return &DomainError{
		Base:    ErrInvalidState,
		Message: fmt.Sprintf("post-checks failed in state %s", state),
	}
}

// NewCurrencyLookupError reports a currency code the lookup could not resolve.
func NewCurrencyLookupError(code CurrencyCode) *DomainError {
	return &DomainError{
		Base:    ErrCurrencyLookup,
		Message: fmt.Sprintf("could not find currency with code %q", string(code)),
		Field:   "currency",
	}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if an error is a conflict error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsPreconditionError checks if an error is a failed command precondition.
func IsPreconditionError(err error) bool {
	return errors.Is(err, ErrPreconditionFailed)
}

// IsInvalidState checks if an error is a state-invariant violation.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// IsCurrencyLookupError checks if an error came from the currency lookup.
func IsCurrencyLookupError(err error) bool {
	return errors.Is(err, ErrCurrencyLookup)
}

// Package aggregate provides the mutation pipeline shared by every aggregate root.
//
// An aggregate is changed only by raising an event and handing it to Apply:
//
//	when(event)            project the event onto the in-memory fields
//	ensureValidState()     check the field combination is legal for the current state
//	storeChanges(event)    append the event to the pending-changes list
//
// Concrete aggregates supply the three steps; Apply sequences them.
package aggregate

// Root is implemented by every aggregate that mutates through Apply.
// E is the aggregate's canonical event type, usually a sealed interface.
type Root[E any] interface {
	// When projects the event onto the aggregate's fields. No validation.
	When(event E) error

	// EnsureValidState reports whether the current fields are legal for the
	// aggregate's current state. It must not mutate anything.
	EnsureValidState() error

	// StoreChanges appends the event to the pending-changes list.
	StoreChanges(event E)
}

// Checkpointer is implemented by roots that can checkpoint their projected state.
// Checkpoint returns a function that puts the state back as it was at the time
// of the call.
type Checkpointer interface {
	Checkpoint() (rollback func())
}

// Apply runs event through root's pipeline and returns the first failure.
//
// If root implements Checkpointer, a failure in When or EnsureValidState rolls the
// projected state back, so a rejected event is visible neither on the read side nor
// in the pending changes. Roots without a checkpoint keep whatever When wrote.
func Apply[E any](root Root[E], event E) error {
	rollback := func() {}
	if c, ok := any(root).(Checkpointer); ok {
		rollback = c.Checkpoint()
	}

	if err := root.When(event); err != nil {
		rollback()
		return err
	}
	if err := root.EnsureValidState(); err != nil {
		rollback()
		return err
	}

	root.StoreChanges(event)
	return nil
}

package aggregate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterEvent struct {
	delta int
}

// counter is a minimal root: its value must never go negative.
type counter struct {
	value    int
	changes  []counterEvent
	whenErr  error
	whenHits int
}

func (c *counter) When(e counterEvent) error {
	c.whenHits++
	if c.whenErr != nil {
		return c.whenErr
	}
	c.value += e.delta
	return nil
}

func (c *counter) EnsureValidState() error {
	if c.value < 0 {
		return errors.New("counter below zero")
	}
	return nil
}

func (c *counter) StoreChanges(e counterEvent) {
	c.changes = append(c.changes, e)
}

// checkpointCounter adds the rollback capability to counter.
type checkpointCounter struct {
	counter
}

func (c *checkpointCounter) Checkpoint() func() {
	saved := c.value
	return func() { c.value = saved }
}

func TestApply_StoresEventOnSuccess(t *testing.T) {
	c := &counter{}

	require.NoError(t, Apply[counterEvent](c, counterEvent{delta: 2}))
	require.NoError(t, Apply[counterEvent](c, counterEvent{delta: 3}))

	assert.Equal(t, 5, c.value)
	assert.Equal(t, []counterEvent{{delta: 2}, {delta: 3}}, c.changes)
}

func TestApply_WhenFailureSkipsValidationAndStore(t *testing.T) {
	c := &counter{whenErr: errors.New("boom")}

	err := Apply[counterEvent](c, counterEvent{delta: 1})

	require.EqualError(t, err, "boom")
	assert.Equal(t, 1, c.whenHits)
	assert.Empty(t, c.changes)
}

func TestApply_InvalidStateKeepsProjectionWithoutCheckpoint(t *testing.T) {
	c := &counter{value: 1}

	err := Apply[counterEvent](c, counterEvent{delta: -5})

	require.Error(t, err)
	assert.Empty(t, c.changes)
	// Without a checkpoint the projection keeps the rejected mutation.
	assert.Equal(t, -4, c.value)
}

func TestApply_InvalidStateRollsBackWithCheckpoint(t *testing.T) {
	c := &checkpointCounter{counter: counter{value: 1}}

	err := Apply[counterEvent](c, counterEvent{delta: -5})

	require.Error(t, err)
	assert.Empty(t, c.changes)
	assert.Equal(t, 1, c.value)
}

func TestApply_EnsureValidStateIsStable(t *testing.T) {
	c := &counter{value: -1}

	first := c.EnsureValidState()
	second := c.EnsureValidState()

	assert.Equal(t, first, second)
	assert.Equal(t, -1, c.value)
}

package store_test

import (
	"testing"

	"productkart/internal/store"

	"github.com/stretchr/testify/assert"
)

func TestSlice_InitialStateIsIterable(t *testing.T) {
	s := store.NewSlice([]string{})

	state := s.Snapshot()
	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)
	assert.False(t, state.Success)
	assert.NotNil(t, state.Data)
	assert.Len(t, state.Data, 0)
}

func TestSlice_LoadingStrictlyBetweenBeginAndResolve(t *testing.T) {
	s := store.NewSlice("")

	assert.False(t, s.Snapshot().Loading)

	ticket := s.Begin()
	assert.True(t, s.Snapshot().Loading)

	s.Succeed(ticket, "payload")
	assert.False(t, s.Snapshot().Loading)
}

func TestSlice_SucceedClearsErrorAndStoresData(t *testing.T) {
	s := store.NewSlice("")

	ticket := s.Begin()
	s.Fail(ticket, "boom")
	state := s.Snapshot()
	assert.Equal(t, "boom", state.Error)

	ticket = s.Begin()
	// Starting a new request already cleared the previous error.
	assert.Empty(t, s.Snapshot().Error)

	applied := s.Succeed(ticket, "payload")
	assert.True(t, applied)

	state = s.Snapshot()
	assert.Empty(t, state.Error)
	assert.True(t, state.Success)
	assert.Equal(t, "payload", state.Data)
}

func TestSlice_FailKeepsStaleData(t *testing.T) {
	s := store.NewSlice("")

	ticket := s.Begin()
	s.Succeed(ticket, "first")

	ticket = s.Begin()
	s.Fail(ticket, "network down")

	state := s.Snapshot()
	assert.Equal(t, "network down", state.Error)
	assert.Equal(t, "first", state.Data, "failed request must not clobber prior data")
}

func TestSlice_StaleTicketDiscarded(t *testing.T) {
	s := store.NewSlice("")

	old := s.Begin()
	fresh := s.Begin()

	assert.True(t, s.Succeed(fresh, "new"))
	// The older request resolves late; its outcome must be dropped.
	assert.False(t, s.Succeed(old, "old"))
	assert.False(t, s.Fail(old, "old error"))

	state := s.Snapshot()
	assert.Equal(t, "new", state.Data)
	assert.Empty(t, state.Error)
}

func TestSlice_ResetClearsFlagsOnly(t *testing.T) {
	s := store.NewSlice("")

	ticket := s.Begin()
	s.Succeed(ticket, "created")

	s.Reset()

	state := s.Snapshot()
	assert.False(t, state.Success)
	assert.Empty(t, state.Error)
	assert.Equal(t, "created", state.Data)
}

func TestSlice_ReplaceOverwritesData(t *testing.T) {
	s := store.NewSlice("something")
	s.Replace("")
	assert.Equal(t, "", s.Snapshot().Data)
}

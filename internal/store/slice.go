package store

import "sync"

// Ticket identifies one request begun on a Slice. Outcomes reported with
// a stale ticket are discarded, so a slow older request resolving after
// a newer one cannot overwrite its result.
type Ticket uint64

// State is an immutable snapshot of a Slice, safe to hand to rendering
// code.
type State[T any] struct {
	Loading bool
	Error   string
	Success bool
	Data    T
}

// Slice tracks the request lifecycle of one resource concern: exactly
// one outstanding request's outcome at a time, with
// {loading, error, data, success} transitions. List-shaped data should
// be constructed non-nil so consumers can always iterate.
type Slice[T any] struct {
	mu      sync.Mutex
	seq     uint64
	loading bool
	err     string
	success bool
	data    T
}

// NewSlice creates a Slice holding initial as its pre-request data.
func NewSlice[T any](initial T) *Slice[T] {
	return &Slice[T]{data: initial}
}

// Begin starts a new request: loading turns on, any previous error and
// success flags are cleared, and prior data stays visible. The returned
// ticket must be passed to Succeed or Fail.
func (s *Slice[T]) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.loading = true
	s.err = ""
	s.success = false
	return Ticket(s.seq)
}

// Succeed resolves the request identified by t with data. It reports
// whether the outcome was applied; a stale ticket is dropped.
func (s *Slice[T]) Succeed(t Ticket, data T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if uint64(t) != s.seq {
		return false
	}
	s.loading = false
	s.err = ""
	s.success = true
	s.data = data
	return true
}

// Fail resolves the request identified by t with an error message. Prior
// data is left untouched so screens can keep rendering stale-but-visible
// state. It reports whether the outcome was applied.
func (s *Slice[T]) Fail(t Ticket, msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if uint64(t) != s.seq {
		return false
	}
	s.loading = false
	s.err = msg
	return true
}

// Reset clears the success and error flags without refetching, used
// after navigating away from a create/update/delete flow so its outcome
// does not re-trigger effects.
func (s *Slice[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
	s.success = false
}

// Replace overwrites the slice's data outside the request lifecycle,
// e.g. to drop a created draft alongside Reset.
func (s *Slice[T]) Replace(data T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
}

// Snapshot returns the current state.
func (s *Slice[T]) Snapshot() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State[T]{
		Loading: s.loading,
		Error:   s.err,
		Success: s.success,
		Data:    s.data,
	}
}

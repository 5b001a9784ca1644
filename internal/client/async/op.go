// Package async implements a single-slot holder for one in-flight request,
// with last-request-wins supersession. Every user-triggered operation in the
// client (sign-in, profile load/save, image upload) runs through one of
// these slots, so loading/error/success handling is implemented once.
package async

import "sync"

// State describes the lifecycle of the operation currently occupying a slot.
type State int

const (
	Idle State = iota
	Pending
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Op is a slot holding at most one live operation of a given kind.
//
// Start issues a handle and moves the slot to Pending. Exactly one terminal
// transition (Resolve or Reject) is honored per handle, and only while that
// handle is still the current one: once a newer Start has been issued on the
// same slot, transitions from older handles are silently ignored. A stale
// resolution therefore can never overwrite state produced by a newer request.
//
// The zero value is an Idle slot ready for use.
type Op[T any] struct {
	mu    sync.Mutex
	seq   uint64
	state State
	value T
	err   error
}

// Handle identifies one started operation on its slot.
type Handle[T any] struct {
	op  *Op[T]
	seq uint64
}

// Start supersedes any outstanding operation and moves the slot to Pending.
// The previous value or error is discarded.
func (o *Op[T]) Start() *Handle[T] {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seq++
	o.state = Pending
	var zero T
	o.value = zero
	o.err = nil
	return &Handle[T]{op: o, seq: o.seq}
}

// Reset invalidates any outstanding handle and returns the slot to Idle.
func (o *Op[T]) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seq++
	o.state = Idle
	var zero T
	o.value = zero
	o.err = nil
}

// State returns the current slot state.
func (o *Op[T]) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Value returns the result of the last succeeded operation, if any.
func (o *Op[T]) Value() (T, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value, o.state == Succeeded
}

// Err returns the error of the last failed operation, or nil.
func (o *Op[T]) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != Failed {
		return nil
	}
	return o.err
}

// Resolve completes the operation successfully. It reports whether the
// transition was applied; a stale or already-terminated handle is a no-op.
func (h *Handle[T]) Resolve(value T) bool {
	o := h.op
	o.mu.Lock()
	defer o.mu.Unlock()
	if h.seq != o.seq || o.state != Pending {
		return false
	}
	o.state = Succeeded
	o.value = value
	o.err = nil
	return true
}

// Reject completes the operation with an error. Same staleness rules as
// Resolve.
func (h *Handle[T]) Reject(err error) bool {
	o := h.op
	o.mu.Lock()
	defer o.mu.Unlock()
	if h.seq != o.seq || o.state != Pending {
		return false
	}
	o.state = Failed
	var zero T
	o.value = zero
	o.err = err
	return true
}

// Current reports whether the handle still controls the slot.
func (h *Handle[T]) Current() bool {
	o := h.op
	o.mu.Lock()
	defer o.mu.Unlock()
	return h.seq == o.seq
}

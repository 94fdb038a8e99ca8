package lazy

import (
	"sync"
	"sync/atomic"
)

// State describes where a gate is in its lifecycle. States only move
// forward: StateUninitialized to StateRunning to StateComplete, or to
// StatePoisoned if the guarded function fails. No state ever returns to
// StateUninitialized.
type State uint32

const (
	// StateUninitialized means no call has claimed the gate yet.
	StateUninitialized State = iota
	// StateRunning means one caller is executing the guarded function.
	StateRunning
	// StateComplete means the guarded function returned successfully.
	StateComplete
	// StatePoisoned means the guarded function returned an error or
	// panicked. The gate will never run anything again.
	StatePoisoned
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateComplete:
		return "complete"
	case StatePoisoned:
		return "poisoned"
	default:
		return "invalid"
	}
}

// Once is a one-shot gate: it runs a fallible function at most once across
// any number of goroutines. Unlike sync.Once, a failed run poisons the gate
// instead of leaving it reusable, because a function that failed partway may
// have committed side effects that make a retry unsafe.
//
// The zero value is ready to use. A Once must not be copied after first use.
type Once struct {
	state atomic.Uint32
	mu    sync.Mutex
}

// Do runs f if no call has completed or poisoned the gate yet. Exactly one
// caller executes f; concurrent callers block until that execution settles.
//
// If f returns nil, Do returns nil to every caller, now and later. If f
// returns an error, the caller that ran f receives that error and the gate
// is poisoned: every other call returns ErrPoisoned. If f panics, the gate
// is poisoned and the panic propagates to the caller that ran f.
//
// All memory writes made by f happen before any call to Do returns.
//
// f must not call Do on the same gate; that deadlocks.
func (o *Once) Do(f func() error) error {
	// Hot path: one atomic load once the gate has settled.
	switch State(o.state.Load()) {
	case StateComplete:
		return nil
	case StatePoisoned:
		return ErrPoisoned
	}
	return o.doSlow(f)
}

func (o *Once) doSlow(f func() error) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	// A racing caller may have settled the gate while we waited.
	switch State(o.state.Load()) {
	case StateComplete:
		return nil
	case StatePoisoned:
		return ErrPoisoned
	}

	o.state.Store(uint32(StateRunning))
	completed := false
	defer func() {
		// Runs before the mutex is released, so waiters wake to a settled
		// state. A panic in f lands here with completed still false and
		// poisons the gate on its way up the stack.
		if completed {
			o.state.Store(uint32(StateComplete))
		} else {
			o.state.Store(uint32(StatePoisoned))
		}
	}()

	if err := f(); err != nil {
		return err
	}
	completed = true
	return nil
}

// State reports the gate's current state. It is a snapshot: by the time the
// caller acts on it, a concurrent Do may have moved the gate forward.
func (o *Once) State() State {
	return State(o.state.Load())
}

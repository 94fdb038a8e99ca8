package lazy

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Registry holds named lazily initialized values for the life of the
// process. Each key behaves like an independent Value: its producer runs at
// most once, the resulting pointer is stable forever, and a failed producer
// poisons the key permanently.
//
// A Registry has no teardown. Declared values are process-wide singletons
// and stay resolvable until the process exits.
type Registry struct {
	group    singleflight.Group
	mu       sync.RWMutex
	store    map[string]entry
	observer Observer
}

// entry is the settled outcome for a key: a stable *T, or the poison marker
// if the producer failed. Entries are written once and never replaced.
type entry struct {
	ptr      any
	poisoned bool
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{store: make(map[string]entry)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Default is the process-wide registry used when Get is passed a nil
// registry.
var Default = NewRegistry()

func (r *Registry) emit(event Event, key string) {
	if r.observer == nil {
		return
	}
	r.observer.On(EventData{Event: event, Key: key})
}

func (r *Registry) lookup(key string) (entry, bool) {
	r.mu.RLock()
	e, ok := r.store[key]
	r.mu.RUnlock()
	return e, ok
}

func (r *Registry) poison(key string) {
	r.mu.Lock()
	r.store[key] = entry{poisoned: true}
	r.mu.Unlock()
}

// Get returns a pointer to the value for key, running fn to produce it if
// no call has done so yet. Passing a nil registry uses Default.
//
// Concurrent first callers for the same key share a single producer run.
// The caller whose producer ran gets the producer's own error (or its
// re-raised panic) on failure; sharers and all later callers get an error
// wrapping ErrPoisoned instead, and the key stays poisoned forever. On
// success the same pointer is returned for every call, so the same key must
// always be used with the same type T.
//
// fn must not call Get with the same key on the same registry; that
// deadlocks.
func Get[T any](r *Registry, key Key[T], fn func() (T, error)) (*T, error) {
	if r == nil {
		r = Default
	}
	k := key.name

	// Fast path: the key already settled.
	if e, ok := r.lookup(k); ok {
		return settled[T](r, k, e)
	}

	// Slow path: coalesce racing first calls into one flight. Only the
	// flight winner executes this closure, so ranProducer and panicked
	// stay false/nil for every sharer.
	var (
		ranProducer bool
		panicked    any
	)
	v, err, _ := r.group.Do(k, func() (_ any, err error) {
		// Re-check: the key may have settled while this call raced in.
		if e, ok := r.lookup(k); ok {
			if e.poisoned {
				return nil, poisonedKeyError(k)
			}
			return e.ptr, nil
		}

		ranProducer = true
		defer func() {
			if p := recover(); p != nil {
				panicked = p
				r.poison(k)
				err = poisonedKeyError(k)
			}
		}()

		val, err := fn()
		if err != nil {
			r.poison(k)
			return nil, err
		}

		ptr := &val
		r.mu.Lock()
		r.store[k] = entry{ptr: ptr}
		r.mu.Unlock()
		return ptr, nil
	})

	if panicked != nil {
		// Re-raise the producer's panic to the caller that ran it. Sharers
		// received the poison error from the flight instead.
		r.emit(EventPoisoned, k)
		panic(panicked)
	}
	if err != nil {
		r.emit(EventPoisoned, k)
		if ranProducer {
			return nil, err
		}
		// This call did not run the producer, so it has no claim on the
		// original failure.
		return nil, poisonedKeyError(k)
	}

	if ranProducer {
		r.emit(EventInit, k)
	} else {
		r.emit(EventShared, k)
	}
	return v.(*T), nil
}

func settled[T any](r *Registry, key string, e entry) (*T, error) {
	if e.poisoned {
		r.emit(EventPoisoned, key)
		return nil, poisonedKeyError(key)
	}
	r.emit(EventHit, key)
	return e.ptr.(*T), nil
}

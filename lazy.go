package lazy

// Value is a cell holding a single lazily initialized value of type T. The
// zero value is an empty cell, so a Value can be declared as a package-level
// variable with no init-time setup at all.
//
// Once a producer has filled the cell, the value never changes and is read
// without locking, so T must be safe to share across goroutines once
// constructed. The cell guarantees the construction is fully visible to
// every reader; it does not make a mutable T safe to mutate afterward.
//
// A Value must not be copied after first use.
type Value[T any] struct {
	once Once
	val  T
}

// Get returns a pointer to the cell's value, running fn to produce it if no
// call has done so yet. The pointer is stable: every successful Get on the
// same cell returns the same address for the life of the process.
//
// Only the first caller's fn is ever invoked. Later callers' fn arguments
// are ignored even if they differ, so all call sites for one cell should
// pass the same producer. If fn returns an error the winning caller gets
// that error back and the cell is poisoned; every other call, concurrent or
// future, returns ErrPoisoned. A panic in fn poisons the cell and propagates
// to the winning caller.
//
// fn must not call Get on the same cell; that deadlocks.
func (v *Value[T]) Get(fn func() (T, error)) (*T, error) {
	err := v.once.Do(func() error {
		val, err := fn()
		if err != nil {
			return err
		}
		v.val = val
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &v.val, nil
}

// State reports the state of the cell's gate.
func (v *Value[T]) State() State {
	return v.once.State()
}

// Func binds fn to a fresh cell and returns its accessor. This is the
// declaration-site form: each call to Func creates an independent value.
//
//	var schema = lazy.Func(compileSchema)
//	...
//	s, err := schema()
func Func[T any](fn func() (T, error)) func() (*T, error) {
	var v Value[T]
	return func() (*T, error) {
		return v.Get(fn)
	}
}

// MustFunc is Func for producers that cannot fail. If fn panics on the
// first call, the winning caller's panic propagates and the cell is
// poisoned; every later call panics with ErrPoisoned.
func MustFunc[T any](fn func() T) func() *T {
	get := Func(func() (T, error) {
		return fn(), nil
	})
	return func() *T {
		p, err := get()
		if err != nil {
			panic(err)
		}
		return p
	}
}

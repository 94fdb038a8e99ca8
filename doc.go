// Package lazy provides process-wide values that are initialized on first
// use, exactly once, no matter how many goroutines race to read them.
//
// Some values cannot be built as compile-time constants: they need heap
// allocation or function calls to construct. Declaring them as package-level
// variables forces the work into program startup, whether or not the value is
// ever used. lazy defers that work to the first read, while guaranteeing that
// the producer runs once and that every reader, including the one that ran
// it, sees the same fully constructed value for the rest of the process.
//
// Declare a value with [Func], which binds a producer to a fresh cell and
// returns the accessor:
//
//	var config = lazy.Func(func() (*Config, error) {
//		return loadConfig("config.yaml")
//	})
//
//	cfg, err := config()
//
// Every call to config() returns a pointer to the same Config. The loader
// runs on the first call only; concurrent first callers block until it
// finishes. [Value] is the underlying cell for cases where the producer is
// chosen at the call site, and [Once] is the bare gate for side effects that
// produce no value.
//
// For a set of named values resolved through one place, use a [Registry]
// with typed [Key]s:
//
//	var poolKey = lazy.NewKey[*Pool]("db")
//
//	pool, err := lazy.Get(nil, poolKey, connect)
//
// If a producer returns an error or panics, its cell is poisoned: the caller
// that ran the producer observes the original failure, and every other
// caller, then and forever, gets [ErrPoisoned]. A poisoned cell cannot be
// reset; treat poisoning as a startup bug, not a retryable condition.
//
// A producer must not read its own cell, directly or through another
// package. The reading goroutine is also the one every waiter is blocked
// on, so it deadlocks against itself.
package lazy

package lazy

// Option configures a Registry created by NewRegistry.
type Option func(*Registry)

// WithObserver attaches an Observer that receives hit, init, shared, and
// poisoned events for the lifetime of the registry.
func WithObserver(o Observer) Option {
	return func(r *Registry) {
		r.observer = o
	}
}

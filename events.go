package lazy

// Observer receives registry lifecycle events. Implementations must be safe
// for concurrent use when the registry is accessed from multiple goroutines.
type Observer interface {
	On(eventData EventData)
}

// Event represents a registry event type.
type Event int

const (
	// EventHit is emitted when a Get call finds an already initialized
	// value.
	EventHit Event = iota
	// EventInit is emitted by the call whose producer ran to completion.
	EventInit
	// EventShared is emitted when a concurrent caller shares an in-flight
	// producer run instead of starting its own.
	EventShared
	// EventPoisoned is emitted when a Get call fails because the key's
	// producer failed, on this call or a previous one.
	EventPoisoned
)

// EventData carries the details of a registry event.
type EventData struct {
	Event Event
	Key   string
}

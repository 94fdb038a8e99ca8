package lazy

import "fmt"

// Key names a value in a Registry. The type parameter T is encoded into the
// underlying key name, so different types declared under the same name will
// not collide.
type Key[T any] struct {
	name string
}

// NewKey creates a new typed registry key.
func NewKey[T any](name string) Key[T] {
	var zero T
	return Key[T]{name: fmt.Sprintf("%T:%s", zero, name)}
}

// String returns the full type-qualified key name, as reported in events
// and errors.
func (k Key[T]) String() string {
	return k.name
}

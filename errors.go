package lazy

import (
	"errors"
	"fmt"
)

// ErrPoisoned reports that a producer failed on an earlier call, leaving its
// cell permanently unusable. Only the caller whose producer actually ran
// sees the original failure; everyone else gets this error, possibly wrapped
// with the key name. Test for it with errors.Is.
var ErrPoisoned = errors.New("lazy: value poisoned by failed producer")

func poisonedKeyError(key string) error {
	return fmt.Errorf("lazy: key %q: %w", key, ErrPoisoned)
}

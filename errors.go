package ferrohooks

import "fmt"

// ValidationError is returned by Register when a bundle field has the wrong
// shape. It is always raised before the registry mutates any state for the
// offending bundle.
type ValidationError struct {
	// Field names the offending bundle field ("key", "position", "setup",
	// "run", "teardown").
	Field string
	// Index is the position within a callback list, for per-element failures.
	Index int
	// Expected describes the acceptable shape.
	Expected string
	// Actual describes what was supplied.
	Actual string
}

func (e *ValidationError) Error() string {
	if e.Field == "setup" || e.Field == "run" || e.Field == "teardown" {
		if e.Actual == "nil" {
			return fmt.Sprintf("ferrohooks: invalid bundle: %s[%d]: expected %s, got %s", e.Field, e.Index, e.Expected, e.Actual)
		}
	}
	return fmt.Sprintf("ferrohooks: invalid bundle: %s: expected %s, got %s", e.Field, e.Expected, e.Actual)
}

// NotFoundError is returned by Run when no bundle has been registered under
// the requested key.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("ferrohooks: no hooks registered for extension point %q", e.Key)
}

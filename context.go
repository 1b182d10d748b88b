package ferrohooks

// SharedContext is the process-lifetime mutable state visible to every
// callback across all extension points and phases. Its identity is fixed at
// registry construction: it is only ever mutated, never replaced.
//
// There is no access-control discipline: any callback may read or write any
// entry, including entries written by callbacks registered under other keys.
// This is the intended communication channel between hooks. Sequential
// invocation is the only synchronization; see the Registry concurrency
// contract.
type SharedContext struct {
	// Values holds the shared state. Seeded by New, then owned cooperatively
	// by the callbacks.
	Values map[string]any

	registry *Registry
}

// Registry returns a non-owning reference to the registry that owns this
// context, so a run callback can recursively invoke Run on another key.
func (c *SharedContext) Registry() *Registry { return c.registry }

// PhaseContext is the short-lived mutable state scoped to a single phase
// invocation: one per key during Setup and Teardown, one per Run call. It is
// discarded afterwards and never merged back into the shared context.
type PhaseContext struct {
	// Key is the extension point this phase invocation belongs to.
	Key string
	// Values holds state scoped to this one invocation.
	Values map[string]any
}

func newPhaseContext(key string) *PhaseContext {
	return &PhaseContext{Key: key, Values: make(map[string]any)}
}

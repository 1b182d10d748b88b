package ferrohooks

import "context"

// SetupFunc is invoked once per extension point during Setup. It receives
// the process-lifetime shared context and a per-key phase context that is
// discarded when the key's setup sequence finishes.
type SetupFunc func(ctx context.Context, shared *SharedContext, phase *PhaseContext) error

// RunFunc is invoked for each Run call on its extension point. acc is the
// accumulator produced by the previous callback in the chain (absent for the
// first), data is the caller-supplied argument, and the returned value
// becomes the accumulator for the next callback.
type RunFunc func(ctx context.Context, acc Value, data any, shared *SharedContext, phase *PhaseContext) (any, error)

// TeardownFunc is invoked once per extension point during Teardown.
type TeardownFunc func(ctx context.Context, shared *SharedContext, phase *PhaseContext) error

// Position controls how a bundle's callbacks merge with callbacks already
// registered under the same key.
type Position string

// Position constants define the supported ordering directives.
const (
	// PositionAfter appends the bundle after previously registered bundles.
	// This is the default when Position is left empty.
	PositionAfter Position = "after"
	// PositionBefore prepends the bundle ahead of previously registered bundles.
	PositionBefore Position = "before"
	// PositionClear discards everything previously registered under the key.
	// The clearing bundle's own callbacks take effect immediately.
	PositionClear Position = "clear"
)

// Bundle is one registration's contributed callbacks for one extension point.
type Bundle struct {
	// Name is an optional display name used in logs and the inspect API.
	Name string
	// Description is optional free-form documentation.
	Description string
	// Version is an optional version tag for the contributing hook.
	Version string
	// Key identifies the extension point the bundle attaches to. Required.
	Key string
	// Position is the ordering directive. Empty means PositionAfter.
	Position Position
	// Setup callbacks run once per key during Registry.Setup. Optional.
	Setup []SetupFunc
	// Run callbacks execute on every Registry.Run for Key. At least one is
	// required.
	Run []RunFunc
	// Teardown callbacks run once per key during Registry.Teardown. Optional.
	Teardown []TeardownFunc
}

// validate checks the bundle shape before any registry state is touched, so
// a failing bundle contributes nothing.
func (b Bundle) validate() error {
	if b.Key == "" {
		return &ValidationError{Field: "key", Expected: "non-empty string", Actual: "empty string"}
	}
	switch b.Position {
	case "", PositionAfter, PositionBefore, PositionClear:
	default:
		return &ValidationError{
			Field:    "position",
			Expected: `one of "before", "after", "clear"`,
			Actual:   string(b.Position),
		}
	}
	if len(b.Run) == 0 {
		return &ValidationError{Field: "run", Expected: "at least one callback", Actual: "none"}
	}
	for i, fn := range b.Setup {
		if fn == nil {
			return &ValidationError{Field: "setup", Index: i, Expected: "callable", Actual: "nil"}
		}
	}
	for i, fn := range b.Run {
		if fn == nil {
			return &ValidationError{Field: "run", Index: i, Expected: "callable", Actual: "nil"}
		}
	}
	for i, fn := range b.Teardown {
		if fn == nil {
			return &ValidationError{Field: "teardown", Index: i, Expected: "callable", Actual: "nil"}
		}
	}
	return nil
}

// position returns the effective ordering directive with the default applied.
func (b Bundle) position() Position {
	if b.Position == "" {
		return PositionAfter
	}
	return b.Position
}

// Value is the accumulator threaded through a key's run callbacks. The zero
// Value is absent, which is distinct from Some(nil): a callback may
// deliberately produce nil, while an absent Value means no callback has run.
type Value struct {
	present bool
	v       any
}

// Some wraps v in a present Value.
func Some(v any) Value { return Value{present: true, v: v} }

// Present reports whether any run callback has produced a value.
func (v Value) Present() bool { return v.present }

// Interface returns the wrapped value, or nil if the Value is absent.
func (v Value) Interface() any { return v.v }

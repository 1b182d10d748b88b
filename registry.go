// Package ferrohooks provides a generic extension-point registry: callers
// register named hook bundles against a string key, then drive three
// lifecycle phases (setup, run, teardown) across everything registered for
// that key.
//
// The Registry type is the main entry point: create one with New, register
// bundles with Register (or load them from config with LoadHooks), run Setup
// once, invoke Run per extension point as the host reaches it, and finish
// with Teardown.
//
// Bundles registered under the same key merge according to a positional
// directive (before, after, clear) and execute strictly sequentially, with
// Run threading an accumulator through the chain. All callbacks share a
// process-lifetime [SharedContext] plus a fresh [PhaseContext] per phase
// invocation.
//
// Built-in hooks live in the internal/hooks/* packages and are registered by
// importing them with a blank import (e.g.
// _ "github.com/ferro-labs/ferrohooks/internal/hooks/logger").
package ferrohooks

import (
	"context"
	"fmt"
	"maps"
	"time"
)

// Phase identifies a lifecycle phase when the registry notifies its Observer.
type Phase string

// Phase constants name the three lifecycle phases.
const (
	PhaseSetup    Phase = "setup"
	PhaseRun      Phase = "run"
	PhaseTeardown Phase = "teardown"
)

// entry is the per-key aggregate: callback lists are kept per bundle until
// the one-time flattening pass, so before/after/clear operate on whole
// bundles. A bundle's setup/run/teardown lists always occupy congruent
// positions across the three slices.
type entry struct {
	setup    [][]SetupFunc
	run      [][]RunFunc
	teardown [][]TeardownFunc

	flattened    bool
	flatSetup    []SetupFunc
	flatRun      []RunFunc
	flatTeardown []TeardownFunc
}

func (e *entry) flatten() {
	if e.flattened {
		return
	}
	for _, fns := range e.setup {
		e.flatSetup = append(e.flatSetup, fns...)
	}
	for _, fns := range e.run {
		e.flatRun = append(e.flatRun, fns...)
	}
	for _, fns := range e.teardown {
		e.flatTeardown = append(e.flatTeardown, fns...)
	}
	e.flattened = true
}

// Registry owns the key→bundle mapping and drives the three lifecycle
// phases. All phase methods execute callbacks strictly sequentially and the
// registry itself takes no locks: it assumes a single cooperative caller,
// which is what lets hooks rely on side effects of earlier hooks in the same
// phase. Hosts issuing overlapping Run calls from multiple goroutines get no
// ordering or race guarantees.
type Registry struct {
	shared   *SharedContext
	entries  map[string]*entry
	keys     []string // first-registration order, drives Setup/Teardown iteration
	observer Observer
}

// New creates a Registry. The seed map is shallow-copied into the shared
// context, which also receives a back-reference to the registry so callbacks
// can recursively invoke Run on other keys.
func New(seed map[string]any) *Registry {
	r := &Registry{
		entries:  make(map[string]*entry),
		observer: NopObserver{},
	}
	values := make(map[string]any, len(seed))
	maps.Copy(values, seed)
	r.shared = &SharedContext{Values: values, registry: r}
	return r
}

// SetObserver replaces the registry's observability hook. The default is
// NopObserver. Pass nil to restore it.
func (r *Registry) SetObserver(o Observer) {
	if o == nil {
		o = NopObserver{}
	}
	r.observer = o
}

// SharedContext returns the process-lifetime shared context.
func (r *Registry) SharedContext() *SharedContext { return r.shared }

// Register validates each bundle and merges it into its extension point
// according to the bundle's position directive. A bundle that fails
// validation contributes nothing; earlier bundles in the same call that
// already passed remain registered.
func (r *Registry) Register(bundles ...Bundle) error {
	for _, b := range bundles {
		if err := b.validate(); err != nil {
			return err
		}
		e, ok := r.entries[b.Key]
		if !ok {
			e = &entry{}
			r.entries[b.Key] = e
			r.keys = append(r.keys, b.Key)
		}
		switch b.position() {
		case PositionBefore:
			e.setup = append([][]SetupFunc{b.Setup}, e.setup...)
			e.run = append([][]RunFunc{b.Run}, e.run...)
			e.teardown = append([][]TeardownFunc{b.Teardown}, e.teardown...)
		case PositionClear:
			e.setup = [][]SetupFunc{b.Setup}
			e.run = [][]RunFunc{b.Run}
			e.teardown = [][]TeardownFunc{b.Teardown}
		default: // PositionAfter
			e.setup = append(e.setup, b.Setup)
			e.run = append(e.run, b.Run)
			e.teardown = append(e.teardown, b.Teardown)
		}
		r.observer.HookRegistered(b.Key, b)
	}
	return nil
}

// Has reports whether any bundle has been registered under key. It does not
// require Setup to have run.
func (r *Registry) Has(key string) bool {
	_, ok := r.entries[key]
	return ok
}

// Keys returns the registered extension-point keys in first-registration
// order. The slice is a copy.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Setup flattens every key's bundle lists into single callback sequences,
// then invokes all setup callbacks: keys in first-registration order, and
// within a key strictly in flattened order, each awaited to completion.
// Every key gets one fresh phase context shared by its setup callbacks.
//
// A callback error aborts setup immediately, including all remaining keys.
// Registrations made after Setup are only reflected for keys that were not
// yet flattened.
func (r *Registry) Setup(ctx context.Context) error {
	for _, e := range r.entries {
		e.flatten()
	}
	for _, key := range r.keys {
		e := r.entries[key]
		if len(e.flatSetup) == 0 {
			continue
		}
		pc := newPhaseContext(key)
		r.observer.PhaseStarted(PhaseSetup, key)
		start := time.Now()
		for _, fn := range e.flatSetup {
			if err := fn(ctx, r.shared, pc); err != nil {
				r.observer.PhaseCompleted(PhaseSetup, key, time.Since(start), err)
				return fmt.Errorf("setup %s: %w", key, err)
			}
		}
		r.observer.PhaseCompleted(PhaseSetup, key, time.Since(start), nil)
	}
	return nil
}

// Run invokes the run callbacks registered under key, strictly in order,
// threading an accumulator: each callback receives the previous callback's
// return value and its own return becomes the next accumulator. The final
// accumulator is returned; it is absent only if the key's run sequence is
// empty, which registration validation rules out.
//
// A fresh phase context is created per call and discarded afterwards. A
// callback error aborts the remaining chain and propagates unretried.
// Run for an unregistered key returns a *NotFoundError.
func (r *Registry) Run(ctx context.Context, key string, data any) (Value, error) {
	e, ok := r.entries[key]
	if !ok {
		return Value{}, &NotFoundError{Key: key}
	}
	e.flatten()

	pc := newPhaseContext(key)
	r.observer.PhaseStarted(PhaseRun, key)
	start := time.Now()

	var acc Value
	for _, fn := range e.flatRun {
		out, err := fn(ctx, acc, data, r.shared, pc)
		if err != nil {
			r.observer.PhaseCompleted(PhaseRun, key, time.Since(start), err)
			return Value{}, fmt.Errorf("run %s: %w", key, err)
		}
		acc = Some(out)
	}
	r.observer.PhaseCompleted(PhaseRun, key, time.Since(start), nil)
	return acc, nil
}

// Teardown mirrors Setup: every key in first-registration order, one fresh
// phase context per key, teardown callbacks invoked sequentially. Keys
// without teardown callbacks are skipped. A callback error aborts the
// remaining keys.
func (r *Registry) Teardown(ctx context.Context) error {
	for _, key := range r.keys {
		if err := r.teardownKey(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// TeardownKey tears down a single extension point. Hosts that retire one
// key at a time use this instead of the full Teardown sweep.
func (r *Registry) TeardownKey(ctx context.Context, key string) error {
	if _, ok := r.entries[key]; !ok {
		return &NotFoundError{Key: key}
	}
	return r.teardownKey(ctx, key)
}

func (r *Registry) teardownKey(ctx context.Context, key string) error {
	e := r.entries[key]
	e.flatten()
	if len(e.flatTeardown) == 0 {
		return nil
	}
	pc := newPhaseContext(key)
	r.observer.PhaseStarted(PhaseTeardown, key)
	start := time.Now()
	for _, fn := range e.flatTeardown {
		if err := fn(ctx, r.shared, pc); err != nil {
			r.observer.PhaseCompleted(PhaseTeardown, key, time.Since(start), err)
			return fmt.Errorf("teardown %s: %w", key, err)
		}
	}
	r.observer.PhaseCompleted(PhaseTeardown, key, time.Since(start), nil)
	return nil
}

// HookCount returns the number of run callbacks that will execute for key
// (after flattening). Used by the inspect API.
func (r *Registry) HookCount(key string) int {
	e, ok := r.entries[key]
	if !ok {
		return 0
	}
	if e.flattened {
		return len(e.flatRun)
	}
	n := 0
	for _, fns := range e.run {
		n += len(fns)
	}
	return n
}

package ferrohooks

import (
	"fmt"
	"sort"
)

// Factory builds a Bundle from the settings map in a hook manifest. The
// returned bundle's Key and Position are overwritten by LoadHooks with the
// values from the manifest.
type Factory func(settings map[string]interface{}) (Bundle, error)

// hookFactories is the global registry of hook factories.
var hookFactories = map[string]Factory{}

// RegisterFactory registers a hook factory by name.
func RegisterFactory(name string, factory Factory) {
	hookFactories[name] = factory
}

// GetFactory returns a hook factory by name.
func GetFactory(name string) (Factory, bool) {
	f, ok := hookFactories[name]
	return f, ok
}

// RegisteredHooks returns the names of all registered hook factories, sorted.
func RegisteredHooks() []string {
	names := make([]string, 0, len(hookFactories))
	for name := range hookFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadHooks builds and registers bundles for every enabled hook in the
// manifest. Hooks attach to their extension point's key with the configured
// position directive.
func (r *Registry) LoadHooks(cfg Config) error {
	for _, ep := range cfg.ExtensionPoints {
		for _, hc := range ep.Hooks {
			if !hc.Enabled {
				continue
			}
			factory, ok := GetFactory(hc.Name)
			if !ok {
				return fmt.Errorf("unknown hook: %s", hc.Name)
			}
			b, err := factory(hc.Settings)
			if err != nil {
				return fmt.Errorf("hook %s build failed: %w", hc.Name, err)
			}
			b.Key = ep.Key
			b.Position = Position(hc.Position)
			if b.Name == "" {
				b.Name = hc.Name
			}
			if err := r.Register(b); err != nil {
				return fmt.Errorf("hook %s register failed: %w", hc.Name, err)
			}
		}
	}
	return nil
}

package ferrohooks

// Config holds the hook manifest for a registry: which named hooks attach to
// which extension points, and where in the chain they sit.
type Config struct {
	// ExtensionPoints lists the configured extension points.
	ExtensionPoints []ExtensionPointConfig `json:"extension_points" yaml:"extension_points"`
}

// ExtensionPointConfig configures the hooks attached to one extension point.
type ExtensionPointConfig struct {
	// Key is the extension-point key bundles register under.
	Key string `json:"key" yaml:"key"`
	// Hooks are applied in the order listed, each with its own position
	// directive.
	Hooks []HookConfig `json:"hooks" yaml:"hooks"`
}

// HookConfig configures one hook instance built from a registered factory.
type HookConfig struct {
	// Name selects the factory (see RegisterFactory).
	Name string `json:"name" yaml:"name"`
	// Position is the ordering directive: before, after (default), or clear.
	Position string `json:"position,omitempty" yaml:"position,omitempty"`
	// Enabled gates the hook; disabled hooks are skipped by LoadHooks.
	Enabled bool `json:"enabled" yaml:"enabled"`
	// Settings is passed verbatim to the factory.
	Settings map[string]interface{} `json:"settings,omitempty" yaml:"settings,omitempty"`
}

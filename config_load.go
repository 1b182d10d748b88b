package ferrohooks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads and parses a hook manifest from the given path.
// Supported formats: JSON (.json), YAML (.yaml, .yml). The document is
// checked against the manifest schema before unmarshalling.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var doc interface{}
	var cfg Config
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing YAML config: %w", err)
		}
		if err := ValidateConfigSchema(doc); err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing JSON config: %w", err)
		}
		if err := ValidateConfigSchema(doc); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q: use .json, .yaml, or .yml", ext)
	}

	return &cfg, nil
}

// ValidateConfig validates a Config for correctness beyond what the schema
// expresses: duplicate keys and unknown position directives.
func ValidateConfig(cfg Config) error {
	if len(cfg.ExtensionPoints) == 0 {
		return fmt.Errorf("at least one extension point is required")
	}

	seen := make(map[string]bool, len(cfg.ExtensionPoints))
	for _, ep := range cfg.ExtensionPoints {
		if ep.Key == "" {
			return fmt.Errorf("extension point key must not be empty")
		}
		if seen[ep.Key] {
			return fmt.Errorf("duplicate extension point key: %q", ep.Key)
		}
		seen[ep.Key] = true

		if len(ep.Hooks) == 0 {
			return fmt.Errorf("extension point %q has no hooks", ep.Key)
		}
		for _, hc := range ep.Hooks {
			if hc.Name == "" {
				return fmt.Errorf("extension point %q: hook name must not be empty", ep.Key)
			}
			switch Position(hc.Position) {
			case "", PositionBefore, PositionAfter, PositionClear:
			default:
				return fmt.Errorf("extension point %q: hook %q has unknown position %q", ep.Key, hc.Name, hc.Position)
			}
		}
	}

	return nil
}

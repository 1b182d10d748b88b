package ferrohooks

import (
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// configSchema is the structural contract for hook manifests. Semantic rules
// (duplicate keys, known positions) live in ValidateConfig.
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["extension_points"],
  "properties": {
    "extension_points": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["key", "hooks"],
        "properties": {
          "key": {"type": "string", "minLength": 1},
          "hooks": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["name"],
              "properties": {
                "name": {"type": "string", "minLength": 1},
                "position": {"enum": ["before", "after", "clear"]},
                "enabled": {"type": "boolean"},
                "settings": {"type": "object"}
              }
            }
          }
        }
      }
    }
  }
}`

var compiledConfigSchema = jsonschema.MustCompileString("manifest.schema.json", configSchema)

// ValidateConfigSchema checks a decoded manifest document (the result of
// unmarshalling YAML or JSON into interface{}) against the manifest schema.
func ValidateConfigSchema(doc interface{}) error {
	if err := compiledConfigSchema.Validate(doc); err != nil {
		return fmt.Errorf("config schema validation: %w", err)
	}
	return nil
}

package inventory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	vverrors "github.com/opsforge/vaultvars/internal/errors"
)

// File is the on-disk inventory document. The entities list is ordered;
// position is precedence.
type File struct {
	Entities []Entry `yaml:"entities" json:"entities"`
}

// Entry is one inventory item, exactly one of Group or Host.
type Entry struct {
	Group string         `yaml:"group,omitempty" json:"group,omitempty"`
	Host  string         `yaml:"host,omitempty" json:"host,omitempty"`
	Vars  map[string]any `yaml:"vars,omitempty" json:"vars,omitempty"`
}

// inventorySchema validates JSON inventory documents before decoding.
const inventorySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["entities"],
  "properties": {
    "entities": {
      "type": "array",
      "items": {
        "type": "object",
        "oneOf": [
          {
            "required": ["group"],
            "properties": {"group": {"type": "string", "minLength": 1}},
            "not": {"required": ["host"]}
          },
          {
            "required": ["host"],
            "properties": {
              "host": {"type": "string", "minLength": 1},
              "vars": {"type": "object"}
            },
            "not": {"required": ["group"]}
          }
        ]
      }
    }
  }
}`

// Load reads an inventory file (YAML or JSON by extension) and returns the
// ordered entity list.
func Load(path string) ([]Entity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, vverrors.ConfigError{
				Field:      "inventory",
				Value:      path,
				Message:    "inventory file not found",
				Suggestion: "Check the path passed via --inventory or the config file",
			}
		}
		return nil, vverrors.UserError{
			Message:    "Failed to read inventory file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	var file File
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := validateJSONInventory(data); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, vverrors.ConfigError{
				Field:      "inventory",
				Value:      path,
				Message:    "invalid JSON in inventory file",
				Suggestion: "Validate the document against the inventory schema",
			}
		}
	} else {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, vverrors.ConfigError{
				Field:      "inventory",
				Value:      path,
				Message:    "invalid YAML syntax in inventory file",
				Suggestion: "Check for indentation errors, missing quotes, or invalid characters",
			}
		}
	}

	return file.ToEntities()
}

// validateJSONInventory checks a JSON document against the inventory schema.
func validateJSONInventory(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(inventorySchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var messages []string
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}
		return vverrors.ConfigError{
			Field:      "inventory",
			Message:    "inventory document failed schema validation:\n  - " + strings.Join(messages, "\n  - "),
			Suggestion: "Each entry needs exactly one of 'group' or 'host'; 'vars' is only valid on hosts",
		}
	}

	return nil
}

// ToEntities converts the decoded file into the ordered entity list,
// validating that each entry names exactly one of group or host.
func (f *File) ToEntities() ([]Entity, error) {
	entities := make([]Entity, 0, len(f.Entities))
	for i, entry := range f.Entities {
		switch {
		case entry.Group != "" && entry.Host != "":
			return nil, vverrors.ConfigError{
				Field:      fmt.Sprintf("entities[%d]", i),
				Message:    "entry names both a group and a host",
				Suggestion: "Split it into two entries, one 'group:' and one 'host:'",
			}
		case entry.Group != "":
			if len(entry.Vars) > 0 {
				return nil, vverrors.ConfigError{
					Field:      fmt.Sprintf("entities[%d]", i),
					Value:      entry.Group,
					Message:    "groups do not carry vars",
					Suggestion: "Move the vars onto the host entries that need them",
				}
			}
			entities = append(entities, &Group{Name: entry.Group})
		case entry.Host != "":
			entities = append(entities, &Host{Name: entry.Host, Vars: entry.Vars})
		default:
			return nil, vverrors.ConfigError{
				Field:      fmt.Sprintf("entities[%d]", i),
				Message:    "entry names neither a group nor a host",
				Suggestion: "Add a 'group: name' or 'host: name' key to the entry",
			}
		}
	}
	return entities, nil
}

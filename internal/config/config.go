// Package config loads the vaultvars.yaml runtime configuration.
//
// The config file is optional: with no file present the store defaults to
// HashiCorp Vault configured entirely from VAULT_* environment variables,
// matching how the tool is used from automation.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	vverrors "github.com/opsforge/vaultvars/internal/errors"
	"github.com/opsforge/vaultvars/internal/logging"
)

// DefaultPath is the config file looked for when --config is not given.
const DefaultPath = "vaultvars.yaml"

// Config holds the runtime configuration.
type Config struct {
	Path           string
	Logger         *logging.Logger
	NonInteractive bool
	Definition     *Definition
}

// Definition represents the vaultvars.yaml structure.
type Definition struct {
	Version   int         `yaml:"version"`
	Store     StoreConfig `yaml:"store"`
	Root      string      `yaml:"root,omitempty"`      // lookup base path, default secret/ansible
	Inventory string      `yaml:"inventory,omitempty"` // default inventory file
	Metrics   bool        `yaml:"metrics,omitempty"`   // register Prometheus collectors
}

// StoreConfig holds the store type plus its backend-specific configuration.
type StoreConfig struct {
	Type   string         `yaml:"type"`
	Config map[string]any `yaml:",inline"`
}

// Load reads and parses the config file. A missing file yields the default
// definition (vault store, environment-driven) rather than an error.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			c.Definition = &Definition{Store: StoreConfig{Type: "vault"}}
			return nil
		}
		return vverrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return vverrors.ConfigError{
			Message:    "invalid YAML syntax in configuration file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters",
		}
	}

	if def.Version != 0 {
		return vverrors.ConfigError{
			Field:      "version",
			Value:      def.Version,
			Message:    "unsupported configuration version",
			Suggestion: "Set 'version: 0' at the top of your vaultvars.yaml file",
		}
	}

	if def.Store.Type == "" {
		def.Store.Type = "vault"
	}

	c.Definition = &def
	return nil
}

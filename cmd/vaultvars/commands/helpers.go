package commands

import (
	"fmt"
	"strings"

	"github.com/opsforge/vaultvars/internal/config"
	vverrors "github.com/opsforge/vaultvars/internal/errors"
	"github.com/opsforge/vaultvars/internal/inventory"
	"github.com/opsforge/vaultvars/internal/store"
)

// buildStore constructs the configured store backend.
func buildStore(cfg *config.Config) (store.Store, error) {
	registry := store.NewRegistry()
	storeConfig := cfg.Definition.Store

	if !registry.IsSupported(storeConfig.Type) {
		return nil, vverrors.ConfigError{
			Field:      "store.type",
			Value:      storeConfig.Type,
			Message:    "unknown store type",
			Suggestion: fmt.Sprintf("Supported types: %s", strings.Join(registry.SupportedTypes(), ", ")),
		}
	}

	return registry.Create(storeConfig.Type, storeConfig.Config, cfg.Logger)
}

// buildEntities assembles the ordered entity list from an inventory file or
// from the --group/--host flags. Flag-built lists put groups first in the
// order given, the host last, so the host's layers take precedence.
func buildEntities(cfg *config.Config, inventoryPath string, groups []string, host string, hostVars []string) ([]inventory.Entity, error) {
	if inventoryPath == "" {
		inventoryPath = cfg.Definition.Inventory
	}

	if inventoryPath != "" {
		if len(groups) > 0 || host != "" {
			return nil, vverrors.UserError{
				Message:    "Both an inventory file and --group/--host flags were given",
				Suggestion: "Use either --inventory or the entity flags, not both",
			}
		}
		return inventory.Load(inventoryPath)
	}

	if len(groups) == 0 && host == "" {
		return nil, vverrors.UserError{
			Message:    "No entities to resolve",
			Suggestion: "Pass --inventory <file>, or --group/--host flags",
		}
	}

	entities := make([]inventory.Entity, 0, len(groups)+1)
	for _, name := range groups {
		entities = append(entities, &inventory.Group{Name: name})
	}
	if host != "" {
		vars, err := parseHostVars(hostVars)
		if err != nil {
			return nil, err
		}
		entities = append(entities, &inventory.Host{Name: host, Vars: vars})
	} else if len(hostVars) > 0 {
		return nil, vverrors.UserError{
			Message:    "--host-var given without --host",
			Suggestion: "Host vars only apply to a host entity",
		}
	}
	return entities, nil
}

// parseHostVars turns repeated key=value flags into a vars map.
func parseHostVars(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	vars := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, vverrors.UserError{
				Message:    fmt.Sprintf("Invalid --host-var %q", pair),
				Suggestion: "Use the form --host-var key=value",
			}
		}
		vars[key] = value
	}
	return vars, nil
}

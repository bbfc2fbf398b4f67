package store

import (
	"fmt"
	"sort"

	"github.com/opsforge/vaultvars/internal/logging"
	"github.com/opsforge/vaultvars/internal/store/vault"
)

// Factory creates a store instance from its inline configuration.
type Factory func(storeConfig map[string]any, logger *logging.Logger) (Store, error)

// Registry manages store creation and registration.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates a registry with the built-in store backends.
func NewRegistry() *Registry {
	registry := &Registry{
		factories: make(map[string]Factory),
	}

	registry.RegisterFactory("vault", func(cfg map[string]any, logger *logging.Logger) (Store, error) {
		return vault.New(vault.ConfigFromMap(cfg), logger)
	})
	registry.RegisterFactory("aws.secretsmanager", func(cfg map[string]any, logger *logging.Logger) (Store, error) {
		return NewAWSSecretsManagerStore(cfg)
	})
	registry.RegisterFactory("gcp.secretmanager", func(cfg map[string]any, logger *logging.Logger) (Store, error) {
		return NewGCPSecretManagerStore(cfg)
	})
	registry.RegisterFactory("azure.keyvault", func(cfg map[string]any, logger *logging.Logger) (Store, error) {
		return NewAzureKeyVaultStore(cfg)
	})
	registry.RegisterFactory("static", func(cfg map[string]any, logger *logging.Logger) (Store, error) {
		return newSeededStaticStore(cfg)
	})

	return registry
}

// RegisterFactory registers a store factory for a given type.
func (r *Registry) RegisterFactory(storeType string, factory Factory) {
	r.factories[storeType] = factory
}

// Create builds a store instance of the given type.
func (r *Registry) Create(storeType string, storeConfig map[string]any, logger *logging.Logger) (Store, error) {
	factory, exists := r.factories[storeType]
	if !exists {
		return nil, fmt.Errorf("unknown store type: %s", storeType)
	}
	return factory(storeConfig, logger)
}

// SupportedTypes returns the sorted list of registered store types.
func (r *Registry) SupportedTypes() []string {
	types := make([]string, 0, len(r.factories))
	for storeType := range r.factories {
		types = append(types, storeType)
	}
	sort.Strings(types)
	return types
}

// IsSupported checks if a store type is registered.
func (r *Registry) IsSupported(storeType string) bool {
	_, exists := r.factories[storeType]
	return exists
}

// newSeededStaticStore builds a static store, optionally pre-seeded from a
// "secrets" map in the inline config (path → record). Used for dry runs.
func newSeededStaticStore(storeConfig map[string]any) (*StaticStore, error) {
	s := NewStaticStore()
	seeds, ok := storeConfig["secrets"].(map[string]any)
	if !ok {
		return s, nil
	}
	for path, raw := range seeds {
		record, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("static store secret %q is not a mapping", path)
		}
		s.SetSecret(path, record)
	}
	return s, nil
}

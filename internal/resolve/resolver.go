// Package resolve implements the precedence-resolution engine.
//
// An ordered entity list is folded left to right into one variable mapping.
// Groups get a single flat lookup; hosts get connection defaults plus a
// root-to-leaf domain-suffix lookup chain. Later layers override earlier
// ones on key collision (overlay merge).
package resolve

import (
	"context"
	"fmt"

	"github.com/opsforge/vaultvars/internal/cache"
	vverrors "github.com/opsforge/vaultvars/internal/errors"
	"github.com/opsforge/vaultvars/internal/inventory"
	"github.com/opsforge/vaultvars/internal/logging"
)

// Resolver folds entity lookup layers into a merged variable mapping. It
// holds no state between calls beyond the shared lookup cache, so repeated
// runs against unchanged store contents are deterministic.
type Resolver struct {
	cache  *cache.Cache
	logger *logging.Logger
}

// New creates a resolver reading through the given cache.
func New(c *cache.Cache, logger *logging.Logger) *Resolver {
	return &Resolver{cache: c, logger: logger}
}

// Resolve processes the entities in order and returns the merged mapping.
// Any failure aborts the whole batch; there is no partial-result mode.
func (r *Resolver) Resolve(ctx context.Context, entities []inventory.Entity) (map[string]any, error) {
	acc := make(map[string]any)
	for _, entity := range entities {
		if err := r.resolveEntity(ctx, acc, entity); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// resolveEntity merges one entity's layers into the accumulator.
func (r *Resolver) resolveEntity(ctx context.Context, acc map[string]any, entity inventory.Entity) error {
	switch e := entity.(type) {
	case *inventory.Group:
		record, err := r.cache.Get(ctx, GroupsFolder, e.Name)
		if err != nil {
			return err
		}
		Overlay(acc, record)

	case *inventory.Host:
		defaults := ResolveConnectionDefaults(e.Vars)
		if defaults.HasPort {
			acc[VarPort] = defaults.Port
		}
		acc[VarConnection] = defaults.Connection

		keys, err := HostLookupKeys(e.Name, defaults.Connection)
		if err != nil {
			return err
		}
		for _, key := range keys {
			record, err := r.cache.Get(ctx, key.Folder, key.Name)
			if err != nil {
				return err
			}
			Overlay(acc, record)
		}

	default:
		return vverrors.InternalError{
			Message: fmt.Sprintf("unrecognised entity type %T in resolver", entity),
		}
	}
	return nil
}

// Overlay merges src into dst, src winning on key collision. Keys absent
// from src are untouched.
func Overlay(dst, src map[string]any) {
	for k, v := range src {
		dst[k] = v
	}
}

// EntityPlan describes the lookups an entity would trigger, without touching
// the store. Connection and the port fields are only set for hosts.
type EntityPlan struct {
	Entity     string
	Kind       string
	Connection string
	Port       int
	HasPort    bool
	Keys       []LookupKey
}

// PlanEntity computes the lookup sequence for one entity.
func PlanEntity(entity inventory.Entity) (EntityPlan, error) {
	switch e := entity.(type) {
	case *inventory.Group:
		return EntityPlan{
			Entity: e.Name,
			Kind:   "group",
			Keys:   []LookupKey{{Folder: GroupsFolder, Name: e.Name}},
		}, nil

	case *inventory.Host:
		defaults := ResolveConnectionDefaults(e.Vars)
		keys, err := HostLookupKeys(e.Name, defaults.Connection)
		if err != nil {
			return EntityPlan{}, err
		}
		return EntityPlan{
			Entity:     e.Name,
			Kind:       "host",
			Connection: defaults.Connection,
			Port:       defaults.Port,
			HasPort:    defaults.HasPort,
			Keys:       keys,
		}, nil

	default:
		return EntityPlan{}, vverrors.InternalError{
			Message: fmt.Sprintf("unrecognised entity type %T in resolver", entity),
		}
	}
}

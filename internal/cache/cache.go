// Package cache memoizes secret store reads for the life of the process.
//
// Entries are write-once: a key's record is populated by the first read and
// never mutated afterwards. Concurrent misses on the same key issue exactly
// one store read. Failed reads are not cached.
package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/opsforge/vaultvars/internal/logging"
	"github.com/opsforge/vaultvars/internal/metrics"
	"github.com/opsforge/vaultvars/internal/store"
)

// DefaultRoot is the fixed base path all lookups live under.
const DefaultRoot = "secret/ansible"

// Cache is a process-wide memo of store reads keyed by folder/name.
type Cache struct {
	store  store.Store
	root   string
	logger *logging.Logger

	mu      sync.RWMutex
	entries map[string]map[string]any
	group   singleflight.Group
}

// New creates a cache reading through to s under the given root path. An
// empty root selects DefaultRoot.
func New(s store.Store, root string, logger *logging.Logger) *Cache {
	if root == "" {
		root = DefaultRoot
	}
	return &Cache{
		store:   s,
		root:    root,
		logger:  logger,
		entries: make(map[string]map[string]any),
	}
}

// Get returns the record for folder/name, reading through to the store on
// first access. A store miss is cached as an empty record. Callers must not
// mutate the returned map.
func (c *Cache) Get(ctx context.Context, folder, name string) (map[string]any, error) {
	key := folder + "/" + name

	c.mu.RLock()
	record, hit := c.entries[key]
	c.mu.RUnlock()
	if hit {
		metrics.CacheHit()
		c.logger.Debug("Cache hit for %s", key)
		return record, nil
	}
	metrics.CacheMiss()

	// singleflight collapses concurrent misses on one key into one read
	value, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		record, hit := c.entries[key]
		c.mu.RUnlock()
		if hit {
			return record, nil
		}

		path := c.root + "/" + key
		c.logger.Debug("Cache miss for %s, reading %s", key, path)
		metrics.StoreRead(c.store.Name())

		record, err := c.store.Read(ctx, path)
		if err != nil {
			metrics.StoreError(c.store.Name())
			return nil, err
		}
		if record == nil {
			record = map[string]any{}
		}

		c.mu.Lock()
		c.entries[key] = record
		c.mu.Unlock()
		return record, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(map[string]any), nil
}

// Len reports the number of cached keys.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

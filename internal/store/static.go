package store

import (
	"context"
	"sync"
)

// StaticStore serves secrets from an in-memory map. It backs tests and dry
// runs of the resolution pipeline without any external system.
type StaticStore struct {
	mu       sync.Mutex
	secrets  map[string]map[string]any
	failures map[string]error
	reads    map[string]int
}

// NewStaticStore creates an empty static store.
func NewStaticStore() *StaticStore {
	return &StaticStore{
		secrets:  make(map[string]map[string]any),
		failures: make(map[string]error),
		reads:    make(map[string]int),
	}
}

// Name returns the backend type identifier.
func (s *StaticStore) Name() string { return "static" }

// Read returns the mapping stored at path, or (nil, nil) when absent.
func (s *StaticStore) Read(ctx context.Context, path string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reads[path]++
	if err, exists := s.failures[path]; exists {
		return nil, err
	}
	record, exists := s.secrets[path]
	if !exists {
		return nil, nil
	}
	return record, nil
}

// Check always succeeds; a static store needs no connectivity.
func (s *StaticStore) Check(ctx context.Context) error { return ctx.Err() }

// SetSecret stores a record under path.
func (s *StaticStore) SetSecret(path string, record map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[path] = record
}

// SetFailure makes reads of path fail with err.
func (s *StaticStore) SetFailure(path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = err
}

// ReadCount reports how many times path has been read. Used by cache tests.
func (s *StaticStore) ReadCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads[path]
}

// TotalReads reports the total number of Read calls across all paths.
func (s *StaticStore) TotalReads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.reads {
		total += n
	}
	return total
}

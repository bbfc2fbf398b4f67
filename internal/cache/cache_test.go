package cache_test

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsforge/vaultvars/internal/cache"
	"github.com/opsforge/vaultvars/internal/logging"
	"github.com/opsforge/vaultvars/internal/store"
)

func newTestCache(st *store.StaticStore) *cache.Cache {
	return cache.New(st, "", logging.NewWithWriter(io.Discard, false, true))
}

func TestGetReadsThroughOnce(t *testing.T) {
	t.Parallel()

	st := store.NewStaticStore()
	st.SetSecret("secret/ansible/groups/all", map[string]any{"x": 1})
	c := newTestCache(st)

	for i := 0; i < 5; i++ {
		record, err := c.Get(context.Background(), "groups", "all")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"x": 1}, record)
	}

	assert.Equal(t, 1, st.ReadCount("secret/ansible/groups/all"))
	assert.Equal(t, 1, c.Len())
}

func TestGetCachesMissesAsEmptyRecord(t *testing.T) {
	t.Parallel()

	st := store.NewStaticStore()
	c := newTestCache(st)

	record, err := c.Get(context.Background(), "ssh/hosts", "unknown")
	require.NoError(t, err)
	assert.Empty(t, record)
	assert.NotNil(t, record)

	_, err = c.Get(context.Background(), "ssh/hosts", "unknown")
	require.NoError(t, err)
	assert.Equal(t, 1, st.ReadCount("secret/ansible/ssh/hosts/unknown"))
}

func TestGetDoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	st := store.NewStaticStore()
	st.SetFailure("secret/ansible/groups/flaky", assert.AnError)
	c := newTestCache(st)

	_, err := c.Get(context.Background(), "groups", "flaky")
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())

	// A later attempt reaches the store again
	_, err = c.Get(context.Background(), "groups", "flaky")
	require.Error(t, err)
	assert.Equal(t, 2, st.ReadCount("secret/ansible/groups/flaky"))
}

func TestGetConcurrentMissesIssueOneRead(t *testing.T) {
	t.Parallel()

	st := store.NewStaticStore()
	st.SetSecret("secret/ansible/groups/all", map[string]any{"x": 1})
	c := newTestCache(st)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record, err := c.Get(context.Background(), "groups", "all")
			assert.NoError(t, err)
			assert.Equal(t, map[string]any{"x": 1}, record)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, st.ReadCount("secret/ansible/groups/all"))
}

func TestCustomRootPrefixesLookupPaths(t *testing.T) {
	t.Parallel()

	st := store.NewStaticStore()
	st.SetSecret("kv/inventory/groups/all", map[string]any{"x": 1})
	c := cache.New(st, "kv/inventory", logging.NewWithWriter(io.Discard, false, true))

	record, err := c.Get(context.Background(), "groups", "all")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": 1}, record)
}

func TestDistinctFoldersAreDistinctKeys(t *testing.T) {
	t.Parallel()

	st := store.NewStaticStore()
	st.SetSecret("secret/ansible/ssh/hosts/db", map[string]any{"conn": "ssh"})
	st.SetSecret("secret/ansible/winrm/hosts/db", map[string]any{"conn": "winrm"})
	c := newTestCache(st)

	sshRecord, err := c.Get(context.Background(), "ssh/hosts", "db")
	require.NoError(t, err)
	winrmRecord, err := c.Get(context.Background(), "winrm/hosts", "db")
	require.NoError(t, err)

	assert.Equal(t, "ssh", sshRecord["conn"])
	assert.Equal(t, "winrm", winrmRecord["conn"])
	assert.Equal(t, 2, c.Len())
}

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrySupportedTypes(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()

	assert.Equal(t, []string{
		"aws.secretsmanager",
		"azure.keyvault",
		"gcp.secretmanager",
		"static",
		"vault",
	}, registry.SupportedTypes())

	assert.True(t, registry.IsSupported("vault"))
	assert.False(t, registry.IsSupported("consul"))
}

func TestRegistryUnknownType(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry().Create("consul", nil, nil)
	assert.ErrorContains(t, err, "unknown store type")
}

func TestRegistryCreateSeededStatic(t *testing.T) {
	t.Parallel()

	s, err := NewRegistry().Create("static", map[string]any{
		"secrets": map[string]any{
			"secret/ansible/groups/all": map[string]any{"x": 1},
		},
	}, nil)
	require.NoError(t, err)

	record, err := s.Read(context.Background(), "secret/ansible/groups/all")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": 1}, record)
}

func TestRegistryCreateSeededStaticRejectsNonMapping(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry().Create("static", map[string]any{
		"secrets": map[string]any{
			"secret/ansible/groups/all": "not-a-mapping",
		},
	}, nil)
	assert.ErrorContains(t, err, "not a mapping")
}

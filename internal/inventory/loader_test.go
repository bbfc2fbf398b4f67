package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vverrors "github.com/opsforge/vaultvars/internal/errors"
)

func writeInventory(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAMLPreservesOrder(t *testing.T) {
	t.Parallel()

	path := writeInventory(t, "inventory.yaml", `
entities:
  - group: all
  - group: webservers
  - host: hosta.example.com
    vars:
      ansible_port: 5986
`)

	entities, err := Load(path)
	require.NoError(t, err)
	require.Len(t, entities, 3)

	assert.Equal(t, &Group{Name: "all"}, entities[0])
	assert.Equal(t, &Group{Name: "webservers"}, entities[1])

	host, ok := entities[2].(*Host)
	require.True(t, ok)
	assert.Equal(t, "hosta.example.com", host.Name)
	assert.Equal(t, 5986, host.Vars["ansible_port"])
}

func TestLoadJSONValidatesAgainstSchema(t *testing.T) {
	t.Parallel()

	path := writeInventory(t, "inventory.json", `{
  "entities": [
    {"group": "all"},
    {"host": "hosta.example.com", "vars": {"ansible_connection": "ssh"}}
  ]
}`)

	entities, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, entities, 2)
}

func TestLoadJSONRejectsSchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "entry with both group and host",
			content: `{"entities": [{"group": "all", "host": "hosta"}]}`,
		},
		{
			name:    "entry with neither",
			content: `{"entities": [{"vars": {"x": 1}}]}`,
		},
		{
			name:    "missing entities key",
			content: `{"hosts": []}`,
		},
		{
			name:    "empty group name",
			content: `{"entities": [{"group": ""}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeInventory(t, "inventory.json", tt.content)
			_, err := Load(path)
			require.Error(t, err)

			var configErr vverrors.ConfigError
			assert.ErrorAs(t, err, &configErr)
		})
	}
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	t.Parallel()

	path := writeInventory(t, "inventory.yaml", "entities: [unclosed")
	_, err := Load(path)

	var configErr vverrors.ConfigError
	assert.ErrorAs(t, err, &configErr)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	var configErr vverrors.ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "inventory", configErr.Field)
}

func TestToEntitiesValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    File
		wantErr string
	}{
		{
			name:    "both group and host",
			file:    File{Entities: []Entry{{Group: "all", Host: "hosta"}}},
			wantErr: "both a group and a host",
		},
		{
			name:    "neither group nor host",
			file:    File{Entities: []Entry{{Vars: map[string]any{"x": 1}}}},
			wantErr: "neither a group nor a host",
		},
		{
			name:    "group with vars",
			file:    File{Entities: []Entry{{Group: "all", Vars: map[string]any{"x": 1}}}},
			wantErr: "groups do not carry vars",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := tt.file.ToEntities()
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

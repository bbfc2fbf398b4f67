package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGCPSecretManagerRequiresProjectID(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")

	_, err := NewGCPSecretManagerStore(map[string]any{})
	assert.ErrorContains(t, err, "project_id is required")
}

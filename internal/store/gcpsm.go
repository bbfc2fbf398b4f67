package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	vverrors "github.com/opsforge/vaultvars/internal/errors"
)

// GCPSecretManagerStore reads variable records from Google Cloud Secret
// Manager. Secret IDs cannot contain slashes, so lookup paths are mapped by
// replacing "/" with "_" (secret/ansible/groups/all →
// secret_ansible_groups_all).
type GCPSecretManagerStore struct {
	client    *secretmanager.Client
	projectID string
}

// NewGCPSecretManagerStore creates a store backed by GCP Secret Manager.
func NewGCPSecretManagerStore(storeConfig map[string]any) (*GCPSecretManagerStore, error) {
	projectID, _ := storeConfig["project_id"].(string)
	if projectID == "" {
		projectID = os.Getenv("GOOGLE_CLOUD_PROJECT")
	}
	if projectID == "" {
		return nil, vverrors.ConfigError{
			Field:      "project_id",
			Message:    "project_id is required for GCP Secret Manager",
			Suggestion: "Set project_id in the store config or the GOOGLE_CLOUD_PROJECT environment variable",
		}
	}

	var clientOptions []option.ClientOption
	if keyPath, ok := storeConfig["service_account_key_path"].(string); ok && keyPath != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(keyPath))
	}

	client, err := secretmanager.NewClient(context.Background(), clientOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCP Secret Manager client: %w", err)
	}

	return &GCPSecretManagerStore{client: client, projectID: projectID}, nil
}

// Name returns the backend type identifier.
func (s *GCPSecretManagerStore) Name() string { return "gcp.secretmanager" }

// Read fetches the latest version of the secret mapped from path and decodes
// its JSON object payload.
func (s *GCPSecretManagerStore) Read(ctx context.Context, path string) (map[string]any, error) {
	secretID := strings.ReplaceAll(path, "/", "_")
	resourceName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", s.projectID, secretID)

	result, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: resourceName,
	})
	if err != nil {
		if strings.Contains(err.Error(), "NotFound") {
			return nil, nil
		}
		return nil, vverrors.StoreError(s.Name(), "read", err)
	}

	if result.Payload == nil || result.Payload.Data == nil {
		return nil, nil
	}

	record := make(map[string]any)
	if err := json.Unmarshal(result.Payload.Data, &record); err != nil {
		return nil, vverrors.UserError{
			Message:    fmt.Sprintf("Secret '%s' is not a JSON object", secretID),
			Details:    err.Error(),
			Suggestion: "vaultvars secrets must be JSON objects mapping variable names to values",
		}
	}
	return record, nil
}

// Check verifies credentials by starting a secret listing.
func (s *GCPSecretManagerStore) Check(ctx context.Context) error {
	it := s.client.ListSecrets(ctx, &secretmanagerpb.ListSecretsRequest{
		Parent:   fmt.Sprintf("projects/%s", s.projectID),
		PageSize: 1,
	})

	if _, err := it.Next(); err != nil && err != iterator.Done {
		return vverrors.StoreError(s.Name(), "check", err)
	}
	return nil
}

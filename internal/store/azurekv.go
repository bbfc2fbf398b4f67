package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"

	vverrors "github.com/opsforge/vaultvars/internal/errors"
)

// AzureSecretsAPI defines the Azure Key Vault operations used by the store.
// This allows for mocking in tests.
type AzureSecretsAPI interface {
	GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
	NewListSecretPropertiesPager(options *azsecrets.ListSecretPropertiesOptions) *runtime.Pager[azsecrets.ListSecretPropertiesResponse]
}

// AzureKeyVaultStore reads variable records from Azure Key Vault. Secret
// names cannot contain slashes, so lookup paths are mapped by replacing "/"
// with "-" (secret/ansible/groups/all → secret-ansible-groups-all).
type AzureKeyVaultStore struct {
	client   AzureSecretsAPI
	vaultURL string
}

// AzureStoreOption is a functional option for configuring the Azure store.
type AzureStoreOption func(*AzureKeyVaultStore)

// WithAzureSecretsClient sets a custom Key Vault client (for testing).
func WithAzureSecretsClient(client AzureSecretsAPI) AzureStoreOption {
	return func(s *AzureKeyVaultStore) {
		s.client = client
	}
}

// NewAzureKeyVaultStore creates a store backed by Azure Key Vault.
func NewAzureKeyVaultStore(storeConfig map[string]any, opts ...AzureStoreOption) (*AzureKeyVaultStore, error) {
	vaultURL, _ := storeConfig["vault_url"].(string)
	if vaultURL == "" {
		return nil, vverrors.ConfigError{
			Field:      "vault_url",
			Message:    "vault_url is required for Azure Key Vault",
			Suggestion: "Provide the Key Vault URL (e.g., https://my-vault.vault.azure.net/)",
		}
	}
	if _, err := url.Parse(vaultURL); err != nil {
		return nil, vverrors.ConfigError{
			Field:      "vault_url",
			Message:    "invalid vault_url format",
			Suggestion: "Use format: https://vault-name.vault.azure.net/",
		}
	}

	s := &AzureKeyVaultStore{vaultURL: vaultURL}

	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		client, err := createAzureSecretsClient(vaultURL, storeConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Key Vault client: %w", err)
		}
		s.client = client
	}

	return s, nil
}

// createAzureSecretsClient creates an azsecrets client with appropriate
// authentication: service principal when a client secret is configured,
// DefaultAzureCredential otherwise (covers CLI login and managed identity).
func createAzureSecretsClient(vaultURL string, storeConfig map[string]any) (*azsecrets.Client, error) {
	var cred azcore.TokenCredential
	var err error

	tenantID, _ := storeConfig["tenant_id"].(string)
	clientID, _ := storeConfig["client_id"].(string)
	clientSecret, _ := storeConfig["client_secret"].(string)

	if clientSecret != "" {
		cred, err = azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret, nil)
	} else {
		cred, err = azidentity.NewDefaultAzureCredential(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	return azsecrets.NewClient(vaultURL, cred, nil)
}

// Name returns the backend type identifier.
func (s *AzureKeyVaultStore) Name() string { return "azure.keyvault" }

// Read fetches the secret mapped from path and decodes its JSON object value.
func (s *AzureKeyVaultStore) Read(ctx context.Context, path string) (map[string]any, error) {
	secretName := strings.ReplaceAll(path, "/", "-")

	resp, err := s.client.GetSecret(ctx, secretName, "", nil)
	if err != nil {
		if isAzureNotFoundError(err) {
			return nil, nil
		}
		return nil, vverrors.StoreError(s.Name(), "read", err)
	}

	if resp.Value == nil {
		return nil, nil
	}

	record := make(map[string]any)
	if err := json.Unmarshal([]byte(*resp.Value), &record); err != nil {
		return nil, vverrors.UserError{
			Message:    fmt.Sprintf("Secret '%s' is not a JSON object", secretName),
			Details:    err.Error(),
			Suggestion: "vaultvars secrets must be JSON objects mapping variable names to values",
		}
	}
	return record, nil
}

// Check verifies connectivity and authentication by fetching the first page
// of the secret listing.
func (s *AzureKeyVaultStore) Check(ctx context.Context) error {
	pager := s.client.NewListSecretPropertiesPager(nil)
	if pager.More() {
		if _, err := pager.NextPage(ctx); err != nil {
			return vverrors.StoreError(s.Name(), "check", err)
		}
	}
	return nil
}

// isAzureNotFoundError checks if the error indicates a secret was not found
func isAzureNotFoundError(err error) bool {
	return strings.Contains(err.Error(), "SecretNotFound") || strings.Contains(err.Error(), "404")
}

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAzureSecretsClient struct {
	getSecret func(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
	listErr   error
}

func (m *mockAzureSecretsClient) GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error) {
	return m.getSecret(ctx, name, version, options)
}

func (m *mockAzureSecretsClient) NewListSecretPropertiesPager(options *azsecrets.ListSecretPropertiesOptions) *runtime.Pager[azsecrets.ListSecretPropertiesResponse] {
	return runtime.NewPager(runtime.PagingHandler[azsecrets.ListSecretPropertiesResponse]{
		More: func(page azsecrets.ListSecretPropertiesResponse) bool {
			return false
		},
		Fetcher: func(ctx context.Context, page *azsecrets.ListSecretPropertiesResponse) (azsecrets.ListSecretPropertiesResponse, error) {
			if m.listErr != nil {
				return azsecrets.ListSecretPropertiesResponse{}, m.listErr
			}
			return azsecrets.ListSecretPropertiesResponse{}, nil
		},
	})
}

func TestAzureKeyVaultRequiresVaultURL(t *testing.T) {
	t.Parallel()

	_, err := NewAzureKeyVaultStore(map[string]any{})
	assert.ErrorContains(t, err, "vault_url is required")
}

func TestAzureKeyVaultReadMapsPathToSecretName(t *testing.T) {
	t.Parallel()

	mock := &mockAzureSecretsClient{
		getSecret: func(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error) {
			assert.Equal(t, "secret-ansible-groups-all", name)
			value := `{"x": 1}`
			return azsecrets.GetSecretResponse{
				Secret: azsecrets.Secret{Value: &value},
			}, nil
		},
	}

	s, err := NewAzureKeyVaultStore(
		map[string]any{"vault_url": "https://unit.vault.azure.net/"},
		WithAzureSecretsClient(mock),
	)
	require.NoError(t, err)

	record, err := s.Read(context.Background(), "secret/ansible/groups/all")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": float64(1)}, record)
}

func TestAzureKeyVaultReadNotFound(t *testing.T) {
	t.Parallel()

	mock := &mockAzureSecretsClient{
		getSecret: func(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error) {
			return azsecrets.GetSecretResponse{}, errors.New("SecretNotFound: no secret by that name")
		},
	}

	s, err := NewAzureKeyVaultStore(
		map[string]any{"vault_url": "https://unit.vault.azure.net/"},
		WithAzureSecretsClient(mock),
	)
	require.NoError(t, err)

	record, err := s.Read(context.Background(), "secret/ansible/groups/missing")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestAzureKeyVaultCheck(t *testing.T) {
	t.Parallel()

	s, err := NewAzureKeyVaultStore(
		map[string]any{"vault_url": "https://unit.vault.azure.net/"},
		WithAzureSecretsClient(&mockAzureSecretsClient{}),
	)
	require.NoError(t, err)
	assert.NoError(t, s.Check(context.Background()))
}

func TestAzureKeyVaultCheckFailsOnAuthError(t *testing.T) {
	t.Parallel()

	mock := &mockAzureSecretsClient{listErr: errors.New("authentication failed")}

	s, err := NewAzureKeyVaultStore(
		map[string]any{"vault_url": "https://unit.vault.azure.net/"},
		WithAzureSecretsClient(mock),
	)
	require.NoError(t, err)

	err = s.Check(context.Background())
	assert.ErrorContains(t, err, "azure.keyvault store error during check")
}

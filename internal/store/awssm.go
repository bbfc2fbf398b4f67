package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"

	vverrors "github.com/opsforge/vaultvars/internal/errors"
)

// SecretsManagerAPI defines the AWS Secrets Manager operations used by the
// store. This allows for mocking in tests.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	ListSecrets(ctx context.Context, params *secretsmanager.ListSecretsInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretsOutput, error)
}

// AWSSecretsManagerStore reads variable records from AWS Secrets Manager.
// Lookup paths are used verbatim as secret names (Secrets Manager allows
// slashes); each secret's payload must be a JSON object.
type AWSSecretsManagerStore struct {
	client SecretsManagerAPI
	region string
}

// AWSStoreOption is a functional option for configuring the AWS store.
type AWSStoreOption func(*AWSSecretsManagerStore)

// WithSecretsManagerClient sets a custom Secrets Manager client (for testing).
func WithSecretsManagerClient(client SecretsManagerAPI) AWSStoreOption {
	return func(s *AWSSecretsManagerStore) {
		s.client = client
	}
}

// NewAWSSecretsManagerStore creates a store backed by AWS Secrets Manager.
func NewAWSSecretsManagerStore(storeConfig map[string]any, opts ...AWSStoreOption) (*AWSSecretsManagerStore, error) {
	region := "us-east-1"
	if r, ok := storeConfig["region"].(string); ok && r != "" {
		region = r
	}

	var endpoint string
	if e, ok := storeConfig["endpoint"].(string); ok && e != "" {
		endpoint = e
	}

	var accessKeyID, secretAccessKey string
	if ak, ok := storeConfig["access_key_id"].(string); ok && ak != "" {
		accessKeyID = ak
	}
	if sk, ok := storeConfig["secret_access_key"].(string); ok && sk != "" {
		secretAccessKey = sk
	}

	s := &AWSSecretsManagerStore{region: region}

	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		var configOpts []func(*config.LoadOptions) error
		configOpts = append(configOpts, config.WithRegion(region))

		// Static credentials are for LocalStack/testing only
		if accessKeyID != "" && secretAccessKey != "" {
			configOpts = append(configOpts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
			))
		}

		cfg, err := config.LoadDefaultConfig(context.Background(), configOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		var clientOpts []func(*secretsmanager.Options)
		if endpoint != "" {
			clientOpts = append(clientOpts, func(o *secretsmanager.Options) {
				o.BaseEndpoint = &endpoint
			})
		}
		s.client = secretsmanager.NewFromConfig(cfg, clientOpts...)
	}

	return s, nil
}

// Name returns the backend type identifier.
func (s *AWSSecretsManagerStore) Name() string { return "aws.secretsmanager" }

// Read fetches the secret named by path and decodes its JSON object payload.
func (s *AWSSecretsManagerStore) Read(ctx context.Context, path string) (map[string]any, error) {
	input := &secretsmanager.GetSecretValueInput{
		SecretId: &path,
	}

	result, err := s.client.GetSecretValue(ctx, input)
	if err != nil {
		if isAWSNotFoundError(err) {
			return nil, nil
		}
		return nil, vverrors.StoreError(s.Name(), "read", err)
	}

	var payload string
	if result.SecretString != nil {
		payload = *result.SecretString
	} else if result.SecretBinary != nil {
		payload = string(result.SecretBinary)
	} else {
		return nil, nil
	}

	record := make(map[string]any)
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, vverrors.UserError{
			Message:    fmt.Sprintf("Secret '%s' is not a JSON object", path),
			Details:    err.Error(),
			Suggestion: "vaultvars secrets must be JSON objects mapping variable names to values",
		}
	}
	return record, nil
}

// Check verifies credentials by listing secrets with a limit of one.
func (s *AWSSecretsManagerStore) Check(ctx context.Context) error {
	one := int32(1)
	input := &secretsmanager.ListSecretsInput{MaxResults: &one}

	if _, err := s.client.ListSecrets(ctx, input); err != nil {
		return vverrors.StoreError(s.Name(), "check", err)
	}
	return nil
}

func isAWSNotFoundError(err error) bool {
	var resourceNotFound *types.ResourceNotFoundException
	return errors.As(err, &resourceNotFound)
}

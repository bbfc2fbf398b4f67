// Package vault implements the primary secret store backend on top of the
// official HashiCorp Vault client.
//
// The token is resolved from the store config, then the VAULT_TOKEN
// environment variable, then the OS keyring entry written by
// 'vaultvars login'. An unauthenticated client is a precondition failure:
// construction fails before any resolution starts.
package vault

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/vault/api"
	"github.com/zalando/go-keyring"

	vverrors "github.com/opsforge/vaultvars/internal/errors"
	"github.com/opsforge/vaultvars/internal/logging"
	"github.com/opsforge/vaultvars/internal/secure"
)

const (
	// DefaultAddress matches the Vault client's own default.
	DefaultAddress = "https://127.0.0.1:8200"

	// KeyringService and KeyringUser locate the token stored by
	// 'vaultvars login'.
	KeyringService = "vaultvars"
	KeyringUser    = "vault-token"
)

// Config holds Vault-specific configuration.
type Config struct {
	Address    string `yaml:"address"`
	Token      string `yaml:"token"` // discouraged, use VAULT_TOKEN or the keyring
	Namespace  string `yaml:"namespace"`
	CACert     string `yaml:"ca_cert"`
	ClientCert string `yaml:"client_cert"`
	ClientKey  string `yaml:"client_key"`
	TLSSkip    bool   `yaml:"tls_skip"`
	KVVersion  int    `yaml:"kv_version"` // 1 (default) or 2
}

// ConfigFromMap builds a Config from the inline store configuration and
// applies environment variable overrides.
func ConfigFromMap(storeConfig map[string]any) Config {
	var cfg Config
	cfg.Address = DefaultAddress
	cfg.KVVersion = 1

	if addr, ok := storeConfig["address"].(string); ok && addr != "" {
		cfg.Address = addr
	}
	if token, ok := storeConfig["token"].(string); ok {
		cfg.Token = token
	}
	if namespace, ok := storeConfig["namespace"].(string); ok {
		cfg.Namespace = namespace
	}
	if caCert, ok := storeConfig["ca_cert"].(string); ok {
		cfg.CACert = caCert
	}
	if clientCert, ok := storeConfig["client_cert"].(string); ok {
		cfg.ClientCert = clientCert
	}
	if clientKey, ok := storeConfig["client_key"].(string); ok {
		cfg.ClientKey = clientKey
	}
	if tlsSkip, ok := storeConfig["tls_skip"].(bool); ok {
		cfg.TLSSkip = tlsSkip
	}
	if kvVersion, ok := storeConfig["kv_version"].(int); ok && kvVersion != 0 {
		cfg.KVVersion = kvVersion
	}

	// Environment overrides, matching the vault CLI's conventions
	if addr := os.Getenv("VAULT_ADDR"); addr != "" {
		cfg.Address = addr
	}
	if token := os.Getenv("VAULT_TOKEN"); token != "" {
		cfg.Token = token
	}
	if namespace := os.Getenv("VAULT_NAMESPACE"); namespace != "" {
		cfg.Namespace = namespace
	}
	if caCert := os.Getenv("VAULT_CACERT"); caCert != "" {
		cfg.CACert = caCert
	}
	if skip := os.Getenv("VAULT_SKIP_VERIFY"); skip == "1" || strings.EqualFold(skip, "true") {
		cfg.TLSSkip = true
	}

	return cfg
}

// VaultStore reads variable records from HashiCorp Vault.
type VaultStore struct {
	client    *api.Client
	kvVersion int
	logger    *logging.Logger
}

// New creates a Vault store. It fails when no token can be resolved from
// config, environment, or the OS keyring.
func New(cfg Config, logger *logging.Logger) (*VaultStore, error) {
	apiConfig := api.DefaultConfig()
	apiConfig.Address = cfg.Address

	tlsConfig := &api.TLSConfig{
		CACert:     cfg.CACert,
		ClientCert: cfg.ClientCert,
		ClientKey:  cfg.ClientKey,
		Insecure:   cfg.TLSSkip,
	}
	if err := apiConfig.ConfigureTLS(tlsConfig); err != nil {
		return nil, fmt.Errorf("failed to configure TLS: %w", err)
	}

	client, err := api.NewClient(apiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	token, err := resolveToken(cfg)
	if err != nil {
		return nil, err
	}
	if err := token.Use(func(t string) error {
		if t == "" {
			return vverrors.UserError{
				Message:    "No Vault token found",
				Suggestion: "Run 'vaultvars login', set VAULT_TOKEN, or set 'token' in the store config",
			}
		}
		client.SetToken(t)
		return nil
	}); err != nil {
		return nil, err
	}
	token.Destroy()

	return &VaultStore{
		client:    client,
		kvVersion: cfg.KVVersion,
		logger:    logger,
	}, nil
}

// resolveToken finds the token in config, then the keyring, sealed into a
// memguard enclave. Env overrides were already folded into cfg.Token.
func resolveToken(cfg Config) (*secure.TokenBuffer, error) {
	if cfg.Token != "" {
		return secure.NewTokenBuffer(cfg.Token), nil
	}

	stored, err := keyring.Get(KeyringService, KeyringUser)
	if err != nil {
		if err == keyring.ErrNotFound {
			return secure.NewTokenBuffer(""), nil
		}
		return nil, fmt.Errorf("failed to read token from keyring: %w", err)
	}
	return secure.NewTokenBuffer(stored), nil
}

// Name returns the backend type identifier.
func (s *VaultStore) Name() string { return "vault" }

// Read returns the record stored at path, or (nil, nil) when the path has no
// data. For KV v2 mounts the path is rewritten to the data endpoint and the
// response envelope unwrapped.
func (s *VaultStore) Read(ctx context.Context, path string) (map[string]any, error) {
	readPath := path
	if s.kvVersion == 2 {
		readPath = kv2DataPath(path)
	}

	s.logger.Debug("Reading Vault path %s", readPath)

	secret, err := s.client.Logical().ReadWithContext(ctx, readPath)
	if err != nil {
		return nil, vverrors.StoreError(s.Name(), "read", err)
	}
	if secret == nil || secret.Data == nil {
		return nil, nil
	}

	if s.kvVersion == 2 {
		inner, ok := secret.Data["data"].(map[string]any)
		if !ok {
			return nil, nil
		}
		return inner, nil
	}
	return secret.Data, nil
}

// Check verifies the token with a lookup-self call. Resolution must not
// start when this fails.
func (s *VaultStore) Check(ctx context.Context) error {
	if _, err := s.client.Auth().Token().LookupSelfWithContext(ctx); err != nil {
		return vverrors.StoreError(s.Name(), "check", err)
	}
	return nil
}

// kv2DataPath rewrites mount/rest to mount/data/rest for KV v2 reads.
func kv2DataPath(path string) string {
	mount, rest, found := strings.Cut(path, "/")
	if !found {
		return path
	}
	return mount + "/data/" + rest
}

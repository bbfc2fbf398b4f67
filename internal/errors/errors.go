package errors

import (
	"fmt"
	"strings"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// InternalError represents a condition that indicates a bug in vaultvars or a
// malformed input that should never reach the resolution engine. Internal
// errors abort the whole resolution batch.
type InternalError struct {
	Message string
	Err     error
}

func (e InternalError) Error() string {
	msg := "Internal error: " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e InternalError) Unwrap() error {
	return e.Err
}

// StoreError enhances store-specific errors with context
func StoreError(store string, operation string, err error) error {
	return UserError{
		Message:    fmt.Sprintf("%s store error during %s", store, operation),
		Suggestion: getStoreSuggestion(store, err),
		Err:        err,
	}
}

// getStoreSuggestion returns helpful suggestions based on store type and error
func getStoreSuggestion(store string, err error) string {
	errStr := strings.ToLower(err.Error())

	switch store {
	case "vault":
		switch {
		case strings.Contains(errStr, "connection refused"):
			return "Check that the Vault server is running and VAULT_ADDR points at it"
		case strings.Contains(errStr, "permission denied"):
			return "Check your Vault token's policy for the secret/ansible/ paths"
		case strings.Contains(errStr, "invalid token") || strings.Contains(errStr, "missing client token"):
			return "Your Vault token may be expired or missing. Run 'vaultvars login' or set VAULT_TOKEN"
		case strings.Contains(errStr, "tls") || strings.Contains(errStr, "certificate"):
			return "Check TLS configuration, or set VAULT_SKIP_VERIFY=1 for testing"
		}

	case "aws.secretsmanager":
		if strings.Contains(errStr, "credentials") || strings.Contains(errStr, "authorization") {
			return "Configure AWS credentials: 'aws configure' or set AWS_PROFILE"
		}
		if strings.Contains(errStr, "accessdenied") {
			return "Check IAM permissions for secretsmanager:GetSecretValue"
		}

	case "gcp.secretmanager":
		if strings.Contains(errStr, "could not find default credentials") {
			return "Run 'gcloud auth application-default login' or set GOOGLE_APPLICATION_CREDENTIALS"
		}

	case "azure.keyvault":
		if strings.Contains(errStr, "authentication") || strings.Contains(errStr, "credential") {
			return "Run 'az login' or configure a service principal / managed identity"
		}
	}

	if strings.Contains(errStr, "timeout") {
		return "The operation timed out. Check your network connection and try again"
	}
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "no such host") {
		return "Unable to connect. Check your network and store configuration"
	}

	return "Check your store configuration. Run 'vaultvars doctor' for diagnostics"
}

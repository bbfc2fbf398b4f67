// Package store abstracts the secret stores vaultvars can read from.
//
// The resolution engine only needs a key-value read primitive keyed by path.
// HashiCorp Vault is the primary backend; the AWS, GCP and Azure backends map
// the same hierarchical paths onto their flat secret namespaces so an
// inventory can resolve against any of them unchanged.
package store

import "context"

// Store is a read-only secret store keyed by slash-separated paths such as
// "secret/ansible/groups/all".
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Name returns the backend type identifier, e.g. "vault".
	Name() string

	// Read returns the mapping stored at path. A missing path is not an
	// error: Read returns (nil, nil) and the caller treats it as an empty
	// mapping. Transport and permission failures are returned as errors.
	Read(ctx context.Context, path string) (map[string]any, error)

	// Check verifies connectivity and authentication. It is called once
	// before any resolution starts; a failure is a precondition violation.
	Check(ctx context.Context) error
}

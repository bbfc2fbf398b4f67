// Package secure keeps the store authentication token encrypted in memory
// between configuration load and store client construction. memguard encrypts
// the token at rest and mlocks the plaintext while it is in use.
package secure

import (
	"sync"

	"github.com/awnumar/memguard"
)

// TokenBuffer holds an authentication token in a memguard enclave.
type TokenBuffer struct {
	enclave *memguard.Enclave
	mu      sync.Mutex
	// destroyed allows idempotent Destroy() calls and prevents use after
	// destroy
	destroyed bool
}

// NewTokenBuffer seals the given token into a protected enclave. The caller
// should drop its own copy of the token as soon as possible. An empty token
// yields a buffer that behaves as already destroyed: memguard cannot seal a
// zero-length payload, and Use sees an empty token either way.
func NewTokenBuffer(token string) *TokenBuffer {
	if token == "" {
		return &TokenBuffer{destroyed: true}
	}
	return &TokenBuffer{enclave: memguard.NewEnclave([]byte(token))}
}

// Use decrypts the token into a locked buffer, invokes fn with the plaintext,
// and wipes the plaintext before returning. The token passed to fn must not
// be retained beyond the call.
func (t *TokenBuffer) Use(fn func(token string) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.destroyed {
		return fn("")
	}

	locked, err := t.enclave.Open()
	if err != nil {
		return err
	}
	defer locked.Destroy()

	return fn(locked.String())
}

// Destroy marks the buffer as destroyed. After Destroy, Use sees an empty
// token. Idempotent. For full cleanup of all memguard state at process exit,
// call memguard.Purge from main.
func (t *TokenBuffer) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.destroyed {
		return
	}
	t.enclave = nil
	t.destroyed = true
}

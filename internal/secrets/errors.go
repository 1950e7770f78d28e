package secrets

import (
	"errors"
	"fmt"
)

// ErrSecretStore matches any *SecretStoreError via errors.Is.
var ErrSecretStore = errors.New("secret store error")

// ErrMissingSecret matches any *MissingSecretError via errors.Is.
var ErrMissingSecret = errors.New("missing secret")

// SecretStoreError reports that the remote store could not be reached, the
// identifier was rejected, or the payload was not a JSON object of strings.
type SecretStoreError struct {
	Provider string
	Op       string
	Err      error
}

func (e *SecretStoreError) Error() string {
	return fmt.Sprintf("%s secret store: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *SecretStoreError) Unwrap() error { return e.Err }

func (e *SecretStoreError) Is(target error) bool { return target == ErrSecretStore }

// MissingSecretError reports that a fetched bundle lacks an expected key.
type MissingSecretError struct {
	Key string
}

func (e *MissingSecretError) Error() string {
	return fmt.Sprintf("secret %q not present in bundle", e.Key)
}

func (e *MissingSecretError) Is(target error) bool { return target == ErrMissingSecret }

func storeError(provider, op string, err error) error {
	return &SecretStoreError{Provider: provider, Op: op, Err: err}
}

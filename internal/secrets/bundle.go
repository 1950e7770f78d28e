package secrets

import (
	"encoding/json"
	"errors"
	"maps"
)

// Bundle maps secret names to values as returned by the store.
type Bundle map[string]string

// Get returns the value under key or a *MissingSecretError.
func (b Bundle) Get(key string) (string, error) {
	v, ok := b[key]
	if !ok {
		return "", &MissingSecretError{Key: key}
	}
	return v, nil
}

// Clone returns an independent copy so cached bundles cannot be mutated by
// callers.
func (b Bundle) Clone() Bundle {
	if b == nil {
		return nil
	}
	return maps.Clone(b)
}

// ParseBundle decodes a JSON object of string values. Anything else,
// including JSON null, is a *SecretStoreError.
func ParseBundle(provider string, raw []byte) (Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, storeError(provider, "decode payload", err)
	}
	if b == nil {
		return nil, storeError(provider, "decode payload", errors.New("payload is not a JSON object"))
	}
	return b, nil
}

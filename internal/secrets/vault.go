package secrets

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/vault/api"
)

// VaultStore reads a secret from a Vault logical path. Both KV v1 and KV v2
// mounts are supported; for v2 the path must include the data/ segment.
type VaultStore struct {
	client *api.Client
	path   string
}

// NewVaultStore creates a Vault client. An empty addr or token falls back to
// VAULT_ADDR and VAULT_TOKEN as read by the client itself.
func NewVaultStore(addr, token, path string) (*VaultStore, error) {
	cfg := api.DefaultConfig()
	if addr != "" {
		cfg.Address = addr
	}
	cfg.Timeout = 10 * time.Second

	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	if token != "" {
		client.SetToken(token)
	}
	return &VaultStore{client: client, path: path}, nil
}

// Fetch reads the path and flattens it into a Bundle.
func (v *VaultStore) Fetch(ctx context.Context) (Bundle, error) {
	secret, err := v.client.Logical().ReadWithContext(ctx, v.path)
	if err != nil {
		return nil, storeError(ProviderVault, "read", err)
	}
	if secret == nil || secret.Data == nil {
		return nil, storeError(ProviderVault, "read", fmt.Errorf("secret not found at path %s", v.path))
	}

	data := secret.Data
	// KV v2 nests the payload under "data" next to "metadata".
	if inner, ok := data["data"].(map[string]interface{}); ok {
		if _, hasMeta := data["metadata"]; hasMeta {
			data = inner
		}
	}

	b := make(Bundle, len(data))
	for k, raw := range data {
		s, ok := raw.(string)
		if !ok {
			return nil, storeError(ProviderVault, "decode payload", fmt.Errorf("value for key %s is not a string", k))
		}
		b[k] = s
	}
	return b, nil
}

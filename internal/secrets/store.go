// Package secrets retrieves secret bundles from a remote secret store.
//
// Every Fetch is a fresh round-trip unless the store is wrapped by a Cache.
// Errors coming out of a Store match ErrSecretStore; lookups of absent keys
// on a Bundle match ErrMissingSecret.
package secrets

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/secret-greeter/internal/config"
	"github.com/iliyamo/secret-greeter/internal/metrics"
)

// Provider names, also used as metric labels.
const (
	ProviderAWS   = config.ProviderAWS
	ProviderVault = config.ProviderVault
	ProviderEnv   = config.ProviderEnv
)

// Store fetches the whole secret bundle.
type Store interface {
	Fetch(ctx context.Context) (Bundle, error)
}

// StoreFunc adapts a function to Store.
type StoreFunc func(ctx context.Context) (Bundle, error)

func (f StoreFunc) Fetch(ctx context.Context) (Bundle, error) { return f(ctx) }

// New creates the store selected by cfg.Provider and instruments it.
func New(cfg config.SecretsConfig, logger *zap.SugaredLogger) (Store, error) {
	var (
		store Store
		err   error
	)
	switch cfg.Provider {
	case ProviderAWS, "":
		store, err = NewAWSStore(cfg.Region, cfg.SecretID)
	case ProviderVault:
		store, err = NewVaultStore(cfg.VaultAddr, cfg.VaultToken, cfg.VaultPath)
	case ProviderEnv:
		store = NewEnvStore(cfg.EnvPrefix)
	default:
		return nil, fmt.Errorf("unsupported secret provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	provider := cfg.Provider
	if provider == "" {
		provider = ProviderAWS
	}
	logger.Infow("secret store configured", "provider", provider)
	return Instrument(provider, store), nil
}

// Instrument counts fetches by provider and result.
func Instrument(provider string, s Store) Store {
	return StoreFunc(func(ctx context.Context) (Bundle, error) {
		b, err := s.Fetch(ctx)
		if err != nil {
			metrics.SecretFetches.WithLabelValues(provider, metrics.ResultError).Inc()
			return nil, err
		}
		metrics.SecretFetches.WithLabelValues(provider, metrics.ResultSuccess).Inc()
		return b, nil
	})
}

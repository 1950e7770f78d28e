package config

import "time"

// SecretCacheConfig controls the optional in-process secret cache. TTL is the
// staleness window: a fetched bundle may be served for at most TTL before the
// store is asked again. A zero TTL disables the cache so every request hits
// the secret store.
type SecretCacheConfig struct {
    TTL  time.Duration `validate:"gte=0"`
    Size int           `validate:"gt=0"`
}

// Enabled reports whether a positive staleness window was configured.
func (c SecretCacheConfig) Enabled() bool { return c.TTL > 0 }

// LoadSecretCacheConfig reads SECRET_CACHE_TTL and SECRET_CACHE_SIZE.
func LoadSecretCacheConfig() SecretCacheConfig {
    return SecretCacheConfig{
        TTL:  envDur("SECRET_CACHE_TTL", 0),
        Size: envInt("SECRET_CACHE_SIZE", 16),
    }
}

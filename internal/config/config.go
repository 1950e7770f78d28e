// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Secret store providers understood by the secrets package.
const (
	ProviderAWS   = "aws"
	ProviderVault = "vault"
	ProviderEnv   = "env"
)

// Database drivers registered through blank imports in the database package.
const (
	DriverPostgres = "pgx"
	DriverMySQL    = "mysql"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable; rate limiting, Redis and the secret cache live in
// their own loaders next to this file.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        `validate:"required,numeric"` // HTTP port to listen on
	LogLevel        string        // zap level name
	APIKeyName      string        `validate:"required"` // bundle key rendered by the greeting
	HealthTimeout   time.Duration `validate:"gt=0"`     // budget for the liveness query
	ShutdownTimeout time.Duration `validate:"gt=0"`     // budget for draining in-flight requests
	Secrets         SecretsConfig
	DB              DBConfig
	Cache           SecretCacheConfig
}

// SecretsConfig selects and addresses the remote secret store.
type SecretsConfig struct {
	Provider   string `validate:"oneof=aws vault env"`
	Region     string `validate:"required_if=Provider aws"` // AWS region of the secret
	SecretID   string `validate:"required_if=Provider aws"` // ARN or name of the secret
	VaultAddr  string // empty means the Vault client default / VAULT_ADDR
	VaultToken string // empty means VAULT_TOKEN is picked up by the client
	VaultPath  string `validate:"required_if=Provider vault"`
	EnvPrefix  string // prefix used by the env provider
}

// DBConfig describes how to reach the database. The password never lives
// here; it is read from the secret bundle under PasswordKey at bootstrap.
type DBConfig struct {
	Driver          string `validate:"oneof=pgx mysql"`
	Endpoint        string `validate:"required"` // host:port, only the host part is used
	Port            int    `validate:"gt=0,lte=65535"`
	User            string `validate:"required"`
	Name            string `validate:"required"`
	SSLMode         string
	PasswordKey     string `validate:"required"`
	PingOnStart     bool
	MaxOpenConns    int `validate:"gte=0"`
	MaxIdleConns    int `validate:"gte=0"`
	ConnMaxLifetime time.Duration
}

var validate = validator.New()

// Load reads configuration values from environment variables and returns a
// Config. Defaults mirror the historical deployment: port 3000, database
// user "admin" and database "postgres" on port 5432.
func Load() (Config, error) {
	cfg := Config{
		Env:             envStr("APP_ENV", "dev"),
		Port:            envStr("APP_PORT", "3000"),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		APIKeyName:      envStr("API_KEY_NAME", "API_KEY"),
		HealthTimeout:   envDur("HEALTH_TIMEOUT", 2*time.Second),
		ShutdownTimeout: envDur("SHUTDOWN_TIMEOUT", 10*time.Second),
		Secrets: SecretsConfig{
			Provider:   envStr("SECRETS_PROVIDER", ProviderAWS),
			Region:     envStr("AWS_REGION", ""),
			SecretID:   envStr("SECRETS_ARN", ""),
			VaultAddr:  envStr("VAULT_ADDR", ""),
			VaultToken: envStr("VAULT_TOKEN", ""),
			VaultPath:  envStr("VAULT_SECRET_PATH", ""),
			EnvPrefix:  envStr("SECRETS_ENV_PREFIX", "SECRET_"),
		},
		DB: DBConfig{
			Driver:          envStr("DB_DRIVER", DriverPostgres),
			Endpoint:        envStr("RDS_ENDPOINT", ""),
			Port:            envInt("DB_PORT", 5432),
			User:            envStr("DB_USER", "admin"),
			Name:            envStr("DB_NAME", "postgres"),
			SSLMode:         envStr("DB_SSLMODE", "prefer"),
			PasswordKey:     envStr("DB_PASSWORD_KEY", "DB_PASSWORD"),
			PingOnStart:     envBool("DB_PING_ON_START", false),
			MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: envDur("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Cache: LoadSecretCacheConfig(),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints, including the provider-specific ones.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// IsProduction reports whether the service runs with production defaults.
func (c Config) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}

// Package bootstrap runs the startup sequence: fetch secrets, derive the
// database configuration, open the pool. It must finish before the HTTP
// listener is started.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/secret-greeter/internal/config"
	"github.com/iliyamo/secret-greeter/internal/database"
	"github.com/iliyamo/secret-greeter/internal/secrets"
)

var (
	pingTimeout = 5 * time.Second
	openDB      = database.Open
)

// InitializeDatabase fetches the secret bundle, extracts the password and
// opens the pool described by cfg. Unless cfg.PingOnStart is set the pool
// is lazy and connectivity is first exercised by the health endpoint.
func InitializeDatabase(ctx context.Context, cfg config.DBConfig, store secrets.Store, logger *zap.SugaredLogger) (*sql.DB, error) {
	bundle, err := store.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch secrets: %w", err)
	}

	password, err := bundle.Get(cfg.PasswordKey)
	if err != nil {
		return nil, fmt.Errorf("database password: %w", err)
	}

	opts := database.Options{
		Driver:          cfg.Driver,
		Host:            database.HostFromEndpoint(cfg.Endpoint),
		Port:            cfg.Port,
		User:            cfg.User,
		Password:        password,
		Name:            cfg.Name,
		SSLMode:         cfg.SSLMode,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}
	if cfg.Driver == config.DriverMySQL {
		opts.SSLMode = ""
	}

	db, err := openDB(opts)
	if err != nil {
		return nil, err
	}

	if cfg.PingOnStart {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := database.Ping(pingCtx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	logger.Infow("database pool ready",
		"driver", opts.Driver,
		"host", opts.Host,
		"port", opts.Port,
		"database", opts.Name,
		"verified", cfg.PingOnStart,
	)
	return db, nil
}

package config

// Redis backs the distributed rate limiter. It is optional: when REDIS_ADDR
// (or REDIS_HOST/REDIS_PORT) is unset, or the server does not answer the
// startup ping, NewRedisClient returns nil and rate limiting is disabled.

import (
    "context"
    "crypto/tls"
    "strings"
    "time"

    "github.com/redis/go-redis/v9"
)

// RedisConfig holds connection settings for the rate limiter store.
type RedisConfig struct {
    Addr        string
    Password    string
    DB          int
    TLS         bool
    PingTimeout time.Duration
}

// LoadRedisConfig reads REDIS_ADDR, or REDIS_HOST and REDIS_PORT (which take
// precedence), REDIS_PASSWORD, REDIS_DB and REDIS_TLS.
func LoadRedisConfig() RedisConfig {
    addr := envStr("REDIS_ADDR", "")
    host, port := envStr("REDIS_HOST", ""), envStr("REDIS_PORT", "")
    if host != "" && port != "" {
        addr = host + ":" + port
    }
    tlsEnv := envStr("REDIS_TLS", "")
    return RedisConfig{
        Addr:        addr,
        Password:    envStr("REDIS_PASSWORD", ""),
        DB:          envInt("REDIS_DB", 0),
        TLS:         strings.EqualFold(tlsEnv, "true") || tlsEnv == "1",
        PingTimeout: envDur("REDIS_PING_TIMEOUT", 2*time.Second),
    }
}

// Configured reports whether an address was provided at all.
func (c RedisConfig) Configured() bool { return c.Addr != "" }

// NewRedisClient instantiates a Redis client and pings it. The returned
// client is nil when Redis is not configured or cannot be reached, and the
// error explains which.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
    if !cfg.Configured() {
        return nil, nil
    }
    var tlsConf *tls.Config
    if cfg.TLS {
        tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
    }
    client := redis.NewClient(&redis.Options{
        Addr:      cfg.Addr,
        Password:  cfg.Password,
        DB:        cfg.DB,
        TLSConfig: tlsConf,
    })
    timeout := cfg.PingTimeout
    if timeout <= 0 {
        timeout = 2 * time.Second
    }
    pingCtx, cancel := context.WithTimeout(ctx, timeout)
    defer cancel()
    if err := client.Ping(pingCtx).Err(); err != nil {
        _ = client.Close()
        return nil, err
    }
    return client, nil
}

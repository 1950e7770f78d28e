// Package database opens the shared connection pool and runs the liveness
// query used by the health endpoint.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// LivenessQuery is the trivial statement used to confirm a live connection.
const LivenessQuery = "SELECT 1"

// ErrDatabase wraps every connectivity or query failure reported by Ping.
var ErrDatabase = errors.New("database error")

// ErrNotInitialized is returned by Ping when no pool has been created yet.
var ErrNotInitialized = fmt.Errorf("%w: pool not initialized", ErrDatabase)

var openFn = sql.Open

// Options is the connection configuration assembled at bootstrap.
type Options struct {
	Driver          string // "pgx" or "mysql"
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string // PostgreSQL only
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// HostFromEndpoint returns the part of a host:port endpoint before the first
// colon. An endpoint without a colon is returned unchanged.
func HostFromEndpoint(endpoint string) string {
	host, _, _ := strings.Cut(endpoint, ":")
	return host
}

// DSN renders the driver-specific connection string.
func (o Options) DSN() (string, error) {
	addr := net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
	switch o.Driver {
	case "pgx", "":
		u := &url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(o.User, o.Password),
			Host:   addr,
			Path:   "/" + o.Name,
		}
		if o.SSLMode != "" {
			u.RawQuery = url.Values{"sslmode": []string{o.SSLMode}}.Encode()
		}
		return u.String(), nil
	case "mysql":
		c := mysql.NewConfig()
		c.User = o.User
		c.Passwd = o.Password
		c.Net = "tcp"
		c.Addr = addr
		c.DBName = o.Name
		c.ParseTime = true
		c.Loc = time.UTC
		return c.FormatDSN(), nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", o.Driver)
	}
}

// Open creates the pool without dialing. The first real connection is made
// lazily by the first query, so a successful Open does not prove
// connectivity; call Ping for that.
func Open(o Options) (*sql.DB, error) {
	dsn, err := o.DSN()
	if err != nil {
		return nil, err
	}
	driver := o.Driver
	if driver == "" {
		driver = "pgx"
	}

	db, err := openFn(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s pool: %w", driver, err)
	}

	// Pool settings
	if o.MaxOpenConns > 0 {
		db.SetMaxOpenConns(o.MaxOpenConns)
	}
	if o.MaxIdleConns > 0 {
		db.SetMaxIdleConns(o.MaxIdleConns)
	}
	if o.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(o.ConnMaxLifetime)
	}
	return db, nil
}

// Ping runs the liveness query. Any failure, including a nil pool, matches
// ErrDatabase.
func Ping(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return ErrNotInitialized
	}
	var one int
	if err := db.QueryRowContext(ctx, LivenessQuery).Scan(&one); err != nil {
		return fmt.Errorf("%w: liveness query: %w", ErrDatabase, err)
	}
	return nil
}

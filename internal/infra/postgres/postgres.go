package postgres

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/cliplink/cliplink/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dialTimeout = 5 * time.Second

// NewPool opens a pgx connection pool and verifies connectivity with a
// ping. The pool backs the health endpoint only; data access goes through
// GORM.
func NewPool(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(ConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}
	applyPoolLimits(poolCfg, cfg)

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(dialCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, dialTimeout)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return pool, nil
}

// applyPoolLimits copies the configured knobs onto the pool config,
// leaving pgx defaults in place for anything unset or unparsable.
func applyPoolLimits(poolCfg *pgxpool.Config, cfg config.PostgresConfig) {
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if d := parseDuration(cfg.MaxConnLifetime); d > 0 {
		poolCfg.MaxConnLifetime = d
	}
	if d := parseDuration(cfg.MaxConnIdleTime); d > 0 {
		poolCfg.MaxConnIdleTime = d
	}
	if d := parseDuration(cfg.HealthCheckPeriod); d > 0 {
		poolCfg.HealthCheckPeriod = d
	}
}

func parseDuration(value string) time.Duration {
	if value == "" {
		return 0
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

// ConnString renders the config as a postgres URL, defaulting the host,
// port, and sslmode for local development.
func ConnString(cfg config.PostgresConfig) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     fmt.Sprintf("%s:%d", host, port),
		Path:     "/" + cfg.Database,
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}
	if cfg.Password != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	} else {
		u.User = url.User(cfg.User)
	}
	return u.String()
}

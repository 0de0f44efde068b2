package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	// PostgreSQL
	Postgres PostgresConfig `mapstructure:"postgres"`

	// NATS
	NATS NATSConfig `mapstructure:"nats"`

	// Prometheus
	Prometheus PrometheusConfig `mapstructure:"prometheus"`

	// Auth tokens
	Auth AuthConfig `mapstructure:"auth"`

	// HTTP server
	Server ServerConfig `mapstructure:"server"`
}

type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	Database          string `mapstructure:"database"`
	Port              int    `mapstructure:"port"`
	SSLMode           string `mapstructure:"sslmode"`
	MaxConns          int32  `mapstructure:"max_conns"`
	MinConns          int32  `mapstructure:"min_conns"`
	MaxConnLifetime   string `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   string `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod string `mapstructure:"health_check_period"`
}

type NATSConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	MonitorPort int    `mapstructure:"monitor_port"`
}

type PrometheusConfig struct {
	Port           int    `mapstructure:"port"`
	Retention      string `mapstructure:"retention"`
	ScrapeInterval string `mapstructure:"scrape_interval"`
	Target         string `mapstructure:"target"`
}

// AuthConfig carries the signing secrets and lifetimes for access and
// refresh tokens. TTL values are Go duration strings ("15m", "168h").
type AuthConfig struct {
	AccessSecret  string `mapstructure:"access_secret"`
	AccessTTL     string `mapstructure:"access_ttl"`
	RefreshSecret string `mapstructure:"refresh_secret"`
	RefreshTTL    string `mapstructure:"refresh_ttl"`
	CookieSecure  bool   `mapstructure:"cookie_secure"`
}

type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	AllowOrigin string `mapstructure:"allow_origin"`
}

func Load() (*Config, error) {
	// Load local .env for development (ignored when missing).
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	// Search for config/config.yaml (plus root for overrides).
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Allow environment variables to override YAML entries.
	v.SetEnvPrefix("")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Preserve legacy env variable names.
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// PostgreSQL
	v.BindEnv("postgres.host", "PG_HOST")
	v.BindEnv("postgres.user", "PG_USER")
	v.BindEnv("postgres.password", "PG_PASSWORD")
	v.BindEnv("postgres.database", "PG_DB")
	v.BindEnv("postgres.port", "PG_PORT")
	v.BindEnv("postgres.sslmode", "PG_SSLMODE")

	// NATS
	v.BindEnv("nats.host", "NATS_HOST")
	v.BindEnv("nats.port", "NATS_PORT")
	v.BindEnv("nats.user", "NATS_USER")
	v.BindEnv("nats.password", "NATS_PASSWORD")
	v.BindEnv("nats.monitor_port", "NATS_MONITOR_PORT")

	// Prometheus
	v.BindEnv("prometheus.port", "PROM_PORT")
	v.BindEnv("prometheus.retention", "PROM_RETENTION")
	v.BindEnv("prometheus.scrape_interval", "PROM_SCRAPE_INTERVAL")
	v.BindEnv("prometheus.target", "PROM_TARGET")

	// Auth (env names kept from the original deployment)
	v.BindEnv("auth.access_secret", "JWT_ACCESS_SECRET")
	v.BindEnv("auth.access_ttl", "JWT_ACCESS_EXPIRE")
	v.BindEnv("auth.refresh_secret", "JWT_REFRESH_SECRET")
	v.BindEnv("auth.refresh_ttl", "JWT_REFRESH_EXPIRE")
	v.BindEnv("auth.cookie_secure", "COOKIE_SECURE")

	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.allow_origin", "CLIENT_URL")
}

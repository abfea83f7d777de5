// Package config loads the API configuration from an optional YAML file,
// the environment, and a local .env file.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Log        LogConfig        `yaml:"log"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Projection ProjectionConfig `yaml:"projection"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"localhost"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"3000"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// TrustedProxies is a comma-separated list; empty trusts none.
	TrustedProxies string `yaml:"trusted_proxies" env:"SERVER_TRUSTED_PROXIES"`
}

// Addr is host:port for http.Server.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DB_URL"                      env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"4m"`
	// SimpleProtocol avoids server-side prepared statement caches that break
	// after schema changes on pooled Postgres providers.
	SimpleProtocol bool `yaml:"simple_protocol" env:"DATABASE_SIMPLE_PROTOCOL" env-default:"true"`
}

// RedisConfig holds the result cache settings. The cache is optional.
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"  env:"REDIS_ENABLED"  env-default:"false"`
	Address  string        `yaml:"address"  env:"REDIS_ADDRESS"  env-default:"localhost:6379"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db"       env:"REDIS_DB"       env-default:"0"`
	PoolSize int           `yaml:"pool_size" env:"REDIS_POOL_SIZE" env-default:"10"`
	TTL      time.Duration `yaml:"ttl"      env:"REDIS_TTL"      env-default:"15m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
	Path    string `yaml:"path"    env:"METRICS_PATH"    env-default:"/metrics"`
}

// ProjectionConfig bounds the weekly series the API returns.
type ProjectionConfig struct {
	DefaultHorizonWeeks int `yaml:"default_horizon_weeks" env:"PROJECTION_DEFAULT_HORIZON_WEEKS" env-default:"12"`
	MaxHorizonWeeks     int `yaml:"max_horizon_weeks"     env:"PROJECTION_MAX_HORIZON_WEEKS"     env-default:"52"`
}

package config

import (
	"fmt"
	"slices"
	"strings"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Validate checks the rules env tags cannot express. Load calls it.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) exceeds max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}
	if c.Redis.Enabled && c.Redis.TTL <= 0 {
		return fmt.Errorf("redis.ttl must be > 0 when redis is enabled (got %s)", c.Redis.TTL)
	}
	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("log.level must be one of %s (got %q)", strings.Join(logLevels, ", "), c.Log.Level)
	}
	if !slices.Contains(logFormats, strings.ToLower(c.Log.Format)) {
		return fmt.Errorf("log.format must be one of %s (got %q)", strings.Join(logFormats, ", "), c.Log.Format)
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with / (got %q)", c.Metrics.Path)
	}
	if err := c.Projection.validate(); err != nil {
		return fmt.Errorf("projection: %w", err)
	}
	return nil
}

func (p *ProjectionConfig) validate() error {
	if p.MaxHorizonWeeks <= 0 {
		return fmt.Errorf("max_horizon_weeks must be > 0 (got %d)", p.MaxHorizonWeeks)
	}
	if p.DefaultHorizonWeeks < 0 || p.DefaultHorizonWeeks > p.MaxHorizonWeeks {
		return fmt.Errorf("default_horizon_weeks must be in 0..%d (got %d)", p.MaxHorizonWeeks, p.DefaultHorizonWeeks)
	}
	return nil
}

// TrustedProxyList splits TrustedProxies, dropping blanks. A nil result
// means no proxy is trusted.
func (s ServerConfig) TrustedProxyList() []string {
	var out []string
	for _, p := range strings.Split(s.TrustedProxies, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

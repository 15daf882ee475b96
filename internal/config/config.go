package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	MetricsPort int    `toml:"metrics_port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// postgres
	PostgresHost     string `toml:"postgres_host"`
	PostgresPort     string `toml:"postgres_port"`
	PostgresDBName   string `toml:"postgres_db_name"`
	PostgresUser     string `toml:"postgres_user"`
	PostgresMaxConns int32  `toml:"postgres_max_conns"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// diary
	TargetTimezone      string   `toml:"target_timezone"`
	QueryTimeoutSeconds int      `toml:"query_timeout_seconds"`
	CatalogCacheSeconds int      `toml:"catalog_cache_seconds"`
	RateLimitPerMinute  int      `toml:"rate_limit_per_minute"`
	AllowedOrigins      []string `toml:"allowed_origins"`
	// identity
	AuthMode           string `toml:"auth_mode"` // jwt | session
	JWTIssuer          string `toml:"jwt_issuer"`
	SessionTTLHours    int    `toml:"session_ttl_hours"`
	GracefulTimeoutSec int    `toml:"graceful_timeout_seconds"`

	location *time.Location
}

const (
	AuthModeJWT     = "jwt"
	AuthModeSession = "session"
)

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path, picks the table for env, applies defaults
// and validates the result.
func Load(env, path string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.DecodeFile(path, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return fromToml(&tomlConfig, env)
}

// Parse is Load for an in-memory TOML document.
func Parse(env, data string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.Decode(data, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return fromToml(&tomlConfig, env)
}

func fromToml(tomlConfig *Toml, env string) (*Config, error) {
	cfg, err := tomlConfig.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config for env: %s", env)
	}

	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", env, err)
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 9000
	}
	if c.MetricsPort == 0 {
		c.MetricsPort = 2112
	}
	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
	if c.PostgresDBName == "" {
		c.PostgresDBName = "lifting_diary"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.TargetTimezone == "" {
		c.TargetTimezone = "UTC"
	}
	if c.QueryTimeoutSeconds == 0 {
		c.QueryTimeoutSeconds = 5
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 120
	}
	if c.AuthMode == "" {
		c.AuthMode = AuthModeJWT
	}
	if c.SessionTTLHours == 0 {
		c.SessionTTLHours = 24 * 7
	}
	if c.GracefulTimeoutSec == 0 {
		c.GracefulTimeoutSec = 10
	}
}

func (c *Config) validate() error {
	loc, err := time.LoadLocation(c.TargetTimezone)
	if err != nil {
		return fmt.Errorf("target timezone [%s]: %w", c.TargetTimezone, err)
	}
	c.location = loc

	if c.PostgresHost == "" {
		return errors.New("postgres host not set")
	}
	if c.Port < 0 || c.Port > 65535 || c.MetricsPort < 0 || c.MetricsPort > 65535 {
		return errors.New("port out of range")
	}
	if c.QueryTimeoutSeconds < 0 {
		return errors.New("query timeout must not be negative")
	}
	switch c.AuthMode {
	case AuthModeJWT, AuthModeSession:
	default:
		return fmt.Errorf("unknown auth mode: %s", c.AuthMode)
	}
	return nil
}

// Location is the zone calendar dates are interpreted in.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutSeconds) * time.Second
}

func (c *Config) CatalogCacheTTL() time.Duration {
	return time.Duration(c.CatalogCacheSeconds) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func (c *Config) GracefulTimeout() time.Duration {
	return time.Duration(c.GracefulTimeoutSec) * time.Second
}

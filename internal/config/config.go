// Gesco | 2026
// config.go

package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App       AppConfig       `koanf:"app"`
	API       APIConfig       `koanf:"api"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	JWT       JWTConfig       `koanf:"jwt"`
	Security  SecurityConfig  `koanf:"security"`
	Auth      AuthConfig      `koanf:"auth"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	CORS      CORSConfig      `koanf:"cors"`
	Log       LogConfig       `koanf:"log"`
	Otel      OtelConfig      `koanf:"otel"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type APIConfig struct {
	Prefix string `koanf:"prefix"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	PoolSize        int           `koanf:"pool_size"`
	MaxOverflow     int           `koanf:"max_overflow"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
}

// MaxOpenConns is the pool ceiling: the steady pool plus the overflow
// connections the engine may open under load.
func (d *DatabaseConfig) MaxOpenConns() int {
	return d.PoolSize + d.MaxOverflow
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

type JWTConfig struct {
	SecretKey           string `koanf:"secret_key"`
	Algorithm           string `koanf:"algorithm"`
	AccessExpireMinutes int    `koanf:"access_expire_minutes"`
	RefreshExpireDays   int    `koanf:"refresh_expire_days"`
}

func (j *JWTConfig) AccessTokenTTL() time.Duration {
	return time.Duration(j.AccessExpireMinutes) * time.Minute
}

func (j *JWTConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(j.RefreshExpireDays) * 24 * time.Hour
}

type SecurityConfig struct {
	BcryptRounds int `koanf:"bcrypt_rounds"`
}

type AuthConfig struct {
	// ClosedByDefault flips the legacy "role with zero grants passes every
	// permission check" rule to default-deny. Keep false until every role
	// has explicit grants provisioned.
	ClosedByDefault bool `koanf:"closed_by_default"`
}

type RateLimitConfig struct {
	PerMinute int `koanf:"per_minute"`
	Burst     int `koanf:"burst"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

var (
	cfg  *Config
	once sync.Once
)

func Load(configPath string) (*Config, error) {
	var loadErr error

	once.Do(func() {
		k := koanf.New(".")

		if err := loadDefaults(k); err != nil {
			loadErr = fmt.Errorf("load defaults: %w", err)
			return
		}

		if configPath != "" {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				if !os.IsNotExist(err) {
					loadErr = fmt.Errorf("load config file: %w", err)
					return
				}
			}
		}

		if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
			loadErr = fmt.Errorf("load env vars: %w", err)
			return
		}

		cfg = &Config{}
		if err := k.Unmarshal("", cfg); err != nil {
			loadErr = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		if err := validate(cfg); err != nil {
			loadErr = fmt.Errorf("validate config: %w", err)
			return
		}
	})

	if loadErr != nil {
		return nil, loadErr
	}

	return cfg, nil
}

func Get() *Config {
	if cfg == nil {
		panic("config not loaded: call Load() first")
	}
	return cfg
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "Gesco",
		"app.version":     "1.0.0",
		"app.environment": "development",

		"api.prefix": "/api/v1",

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",

		"database.pool_size":          10,
		"database.max_overflow":       5,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",

		"redis.pool_size":      10,
		"redis.min_idle_conns": 5,

		"jwt.algorithm":             "HS256",
		"jwt.access_expire_minutes": 60,
		"jwt.refresh_expire_days":   7,

		"security.bcrypt_rounds": 12,

		"auth.closed_by_default": false,

		"rate_limit.per_minute": 120,
		"rate_limit.burst":      20,

		"cors.allowed_origins": []string{"http://localhost:3000"},
		"cors.allowed_methods": []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
		},
		"cors.allowed_headers": []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		},
		"cors.allow_credentials": true,
		"cors.max_age":           300,

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "gesco",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"DATABASE_URL":                  "database.url",
	"DATABASE_POOL_SIZE":            "database.pool_size",
	"DATABASE_MAX_OVERFLOW":         "database.max_overflow",
	"REDIS_URL":                     "redis.url",
	"ENVIRONMENT":                   "app.environment",
	"HOST":                          "server.host",
	"PORT":                          "server.port",
	"API_PREFIX":                    "api.prefix",
	"LOG_LEVEL":                     "log.level",
	"LOG_FORMAT":                    "log.format",
	"SECRET_KEY":                    "jwt.secret_key",
	"ALGORITHM":                     "jwt.algorithm",
	"ACCESS_TOKEN_EXPIRE_MINUTES":   "jwt.access_expire_minutes",
	"REFRESH_TOKEN_EXPIRE_DAYS":     "jwt.refresh_expire_days",
	"BCRYPT_ROUNDS":                 "security.bcrypt_rounds",
	"PERMISSIONS_CLOSED_BY_DEFAULT": "auth.closed_by_default",
	"RATE_LIMIT_PER_MINUTE":         "rate_limit.per_minute",
	"RATE_LIMIT_BURST":              "rate_limit.burst",
	"OTEL_ENDPOINT":                 "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT":   "otel.endpoint",
	"OTEL_SERVICE_NAME":             "otel.service_name",
	"OTEL_ENABLED":                  "otel.enabled",
	"OTEL_INSECURE":                 "otel.insecure",
	"OTEL_SAMPLE_RATE":              "otel.sample_rate",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

const minSecretKeyLength = 32

func validate(c *Config) error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if len(c.JWT.SecretKey) < minSecretKeyLength {
		return fmt.Errorf(
			"SECRET_KEY must be at least %d characters",
			minSecretKeyLength,
		)
	}

	if c.JWT.Algorithm != "HS256" {
		return fmt.Errorf(
			"unsupported ALGORITHM %q: only HS256 is supported",
			c.JWT.Algorithm,
		)
	}

	if c.JWT.AccessExpireMinutes <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}

	if c.JWT.RefreshExpireDays <= 0 {
		return fmt.Errorf("REFRESH_TOKEN_EXPIRE_DAYS must be positive")
	}

	if c.Security.BcryptRounds < 4 || c.Security.BcryptRounds > 18 {
		return fmt.Errorf(
			"BCRYPT_ROUNDS must be in [4,18], got %d",
			c.Security.BcryptRounds,
		)
	}

	if c.CORS.AllowCredentials {
		for _, origin := range c.CORS.AllowedOrigins {
			if origin == "*" {
				return fmt.Errorf(
					"CORS wildcard '*' cannot be used with AllowCredentials",
				)
			}
		}
	}

	if c.App.Environment == "production" {
		if c.Otel.Enabled && c.Otel.Insecure {
			return fmt.Errorf("OTEL_INSECURE must be false in production")
		}
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

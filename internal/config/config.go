package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/modelgate/admin-api/internal/mapping"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Mapping   MappingConfig   `mapstructure:"mapping"`
	Auth      AuthConfig      `mapstructure:"auth"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

type DatabaseConfig struct {
	// DSN for the sqlite admin store, e.g.
	// "file:admin.db?cache=shared&mode=rwc&_journal_mode=WAL&_busy_timeout=5000"
	DSN string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type MappingConfig struct {
	// MatcherCacheSize bounds the compiled-rule LRU cache.
	MatcherCacheSize int `mapstructure:"matcher_cache_size"`
	// PreviewCacheTTLSeconds bounds how long derived preview results live in
	// the shared cache.
	PreviewCacheTTLSeconds int `mapstructure:"preview_cache_ttl_seconds"`
}

type AuthConfig struct {
	// StaticKeys are admin tokens accepted without a store lookup,
	// intended for local development and CI.
	StaticKeys []string `mapstructure:"static_keys"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig() (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	v := viper.New()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Default Values
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("database.dsn", "file:admin.db?cache=shared&mode=rwc&_journal_mode=WAL&_busy_timeout=5000")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("mapping.matcher_cache_size", mapping.DefaultMatcherCacheSize)
	v.SetDefault("mapping.preview_cache_ttl_seconds", 60)

	// Environment Variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &cfg, nil
}

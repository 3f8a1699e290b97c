package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds all dishcache configuration.
type Config struct {
	DBPath   string         `yaml:"db_path"`
	Store    StoreConfig    `yaml:"store"`
	Cache    CacheConfig    `yaml:"cache"`
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	Log      LogConfig      `yaml:"log"`
}

// StoreConfig selects the key-value backend.
type StoreConfig struct {
	Backend string      `yaml:"backend"`
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig is used when Backend is "redis".
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	Namespace string `yaml:"namespace"`
}

// CacheConfig controls the dish analysis cache.
type CacheConfig struct {
	TTL         time.Duration `yaml:"ttl"`
	RecentLimit int           `yaml:"recent_limit"`
	TimeSaved   time.Duration `yaml:"time_saved"`
}

// AnalyzerConfig points at the remote analysis service.
type AnalyzerConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig controls zap output.
// Format is "console" (default) or "json".
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		DBPath: "dishcache.db",
		Store: StoreConfig{
			Backend: BackendSQLite,
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				Namespace: "dishcache",
			},
		},
		Cache: CacheConfig{
			TTL:         7 * 24 * time.Hour,
			RecentLimit: 10,
			TimeSaved:   2 * time.Second,
		},
		Analyzer: AnalyzerConfig{
			Timeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("validate config: db_path is required for the sqlite backend")
		}
	case BackendRedis:
		if c.Store.Redis.Addr == "" {
			return fmt.Errorf("validate config: store.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("validate config: unknown store backend %q", c.Store.Backend)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("validate config: cache.ttl must be positive")
	}
	if c.Cache.RecentLimit <= 0 {
		return fmt.Errorf("validate config: cache.recent_limit must be positive")
	}
	return nil
}

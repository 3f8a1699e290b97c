package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Store.Backend != BackendSQLite {
		t.Errorf("expected sqlite backend, got %s", cfg.Store.Backend)
	}
	if cfg.Cache.TTL != 7*24*time.Hour {
		t.Errorf("expected 7 day TTL, got %v", cfg.Cache.TTL)
	}
	if cfg.Cache.RecentLimit != 10 {
		t.Errorf("expected recent limit 10, got %d", cfg.Cache.RecentLimit)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_ANALYZER_KEY", "ak-test-123")
	t.Setenv("TEST_REDIS_PASSWORD", "hunter2")

	path := writeConfig(t, `
store:
  backend: redis
  redis:
    addr: redis:6380
    password: ${TEST_REDIS_PASSWORD}
    db: 2
cache:
  ttl: 48h
  time_saved: 1500ms
analyzer:
  base_url: http://localhost:9000
  api_key: ${TEST_ANALYZER_KEY}
log:
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Store.Backend != BackendRedis || cfg.Store.Redis.Addr != "redis:6380" || cfg.Store.Redis.DB != 2 {
		t.Errorf("unexpected store config %+v", cfg.Store)
	}
	if cfg.Store.Redis.Password != "hunter2" {
		t.Errorf("env var not expanded: got %s", cfg.Store.Redis.Password)
	}
	if cfg.Store.Redis.Namespace != "dishcache" {
		t.Errorf("expected default namespace, got %s", cfg.Store.Redis.Namespace)
	}
	if cfg.Analyzer.APIKey != "ak-test-123" {
		t.Errorf("env var not expanded: got %s", cfg.Analyzer.APIKey)
	}
	if cfg.Cache.TTL != 48*time.Hour {
		t.Errorf("expected 48h TTL, got %v", cfg.Cache.TTL)
	}
	if cfg.Cache.TimeSaved != 1500*time.Millisecond {
		t.Errorf("expected 1.5s time saved, got %v", cfg.Cache.TimeSaved)
	}
	if cfg.Cache.RecentLimit != 10 {
		t.Errorf("expected default recent limit, got %d", cfg.Cache.RecentLimit)
	}
	if cfg.Log.Format != "json" || cfg.Log.Level != "info" {
		t.Errorf("unexpected log config %+v", cfg.Log)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown backend", "store:\n  backend: memcached\n", "unknown store backend"},
		{"zero ttl", "cache:\n  ttl: 0s\n", "cache.ttl"},
		{"negative limit", "cache:\n  recent_limit: -1\n", "cache.recent_limit"},
		{"empty redis addr", "store:\n  backend: redis\n  redis:\n    addr: \"\"\n", "store.redis.addr"},
		{"bad yaml", "cache: [", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Error("expected error for missing file")
	}
}

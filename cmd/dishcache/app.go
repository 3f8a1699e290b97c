package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/pario-ai/dishcache/pkg/analyzer"
	"github.com/pario-ai/dishcache/pkg/cache"
	"github.com/pario-ai/dishcache/pkg/config"
	"github.com/pario-ai/dishcache/pkg/kv"
	"github.com/pario-ai/dishcache/pkg/kv/redis"
	"github.com/pario-ai/dishcache/pkg/kv/sqlite"
	"github.com/pario-ai/dishcache/pkg/logging"
	"github.com/pario-ai/dishcache/pkg/metrics"
)

// app bundles what every command that touches the cache needs.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	kv    kv.Store
	cache *cache.Store
}

// loadConfig reads path, falling back to defaults when the default path
// does not exist.
func loadConfig(path string, explicit bool) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !explicit {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func openKV(ctx context.Context, cfg *config.Config) (kv.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		return redis.New(ctx, redis.Options{
			Addr:      cfg.Store.Redis.Addr,
			Password:  cfg.Store.Redis.Password,
			DB:        cfg.Store.Redis.DB,
			Namespace: cfg.Store.Redis.Namespace,
		})
	default:
		return sqlite.New(cfg.DBPath)
	}
}

func openApp(ctx context.Context, configPath string, explicit bool) (*app, error) {
	cfg, err := loadConfig(configPath, explicit)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	store, err := openKV(ctx, cfg)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	logger.Debug("opened store", zap.String("backend", cfg.Store.Backend))

	c := cache.New(store, metrics.New(), logger, cache.Options{
		TTL:         cfg.Cache.TTL,
		RecentLimit: cfg.Cache.RecentLimit,
		TimeSaved:   cfg.Cache.TimeSaved,
	})
	return &app{cfg: cfg, log: logger, kv: store, cache: c}, nil
}

// analyzer returns a client for the configured service, or nil when no
// base URL is set.
func (a *app) analyzer() *analyzer.Client {
	if a.cfg.Analyzer.BaseURL == "" {
		return nil
	}
	return analyzer.New(analyzer.Options{
		BaseURL: a.cfg.Analyzer.BaseURL,
		APIKey:  a.cfg.Analyzer.APIKey,
		Timeout: a.cfg.Analyzer.Timeout,
	}, a.log)
}

func (a *app) Close() {
	if err := a.kv.Close(); err != nil {
		a.log.Warn("close store", zap.Error(err))
	}
	_ = a.log.Sync()
}

// readPayload reads a JSON document from path, or stdin when path is "-".
func readPayload(path string, stdin io.Reader) (json.RawMessage, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("read payload: %s is not valid JSON", path)
	}
	return json.RawMessage(data), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Package cache is a best-effort, TTL-bounded cache of dish analyses with a
// recent-searches list, layered on a kv.Store.
//
// Storage failures never reach the caller: they are logged and degrade to a
// miss or a no-op.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pario-ai/dishcache/pkg/dishkey"
	"github.com/pario-ai/dishcache/pkg/kv"
	"github.com/pario-ai/dishcache/pkg/metrics"
	"github.com/pario-ai/dishcache/pkg/models"
)

const (
	// KeyPrefix prefixes every dish record key.
	KeyPrefix = "dish_cache:"
	// RecentKey holds the recent searches list as one JSON array.
	RecentKey = "dish_recent_searches"

	DefaultTTL         = 7 * 24 * time.Hour
	DefaultRecentLimit = 10
)

// Options tunes a Store. Zero values select the defaults.
type Options struct {
	TTL         time.Duration
	RecentLimit int
	TimeSaved   time.Duration
}

// Store caches dish analyses.
type Store struct {
	kv          kv.Store
	metrics     *metrics.Recorder
	log         *zap.Logger
	ttl         time.Duration
	recentLimit int
	timeSaved   time.Duration
	now         func() time.Time
}

// New creates a Store over kvs. rec and logger may be nil.
func New(kvs kv.Store, rec *metrics.Recorder, logger *zap.Logger, opts Options) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = DefaultRecentLimit
	}
	if opts.TimeSaved <= 0 {
		opts.TimeSaved = metrics.DefaultTimeSaved
	}
	return &Store{
		kv:          kvs,
		metrics:     rec,
		log:         logger.Named("cache"),
		ttl:         opts.TTL,
		recentLimit: opts.RecentLimit,
		timeSaved:   opts.TimeSaved,
		now:         time.Now,
	}
}

// Metrics returns the recorder the store reports to.
func (s *Store) Metrics() *metrics.Recorder {
	return s.metrics
}

func recordKey(dishName, placeID string) string {
	composite := dishkey.Composite(dishName, placeID)
	if composite == "" {
		return ""
	}
	return KeyPrefix + composite
}

// Put stores analysis for dishName, overwriting any record under the same
// name and place. Failures are logged, never returned.
func (s *Store) Put(ctx context.Context, dishName string, analysis json.RawMessage, opts models.PutOptions) {
	key := recordKey(dishName, opts.PlaceID)
	if key == "" {
		s.log.Warn("skipping put for unsearchable dish name", zap.String("dish", dishName))
		return
	}

	source := opts.Source
	if source == "" {
		source = models.SourceStandalone
		if opts.PlaceID != "" || opts.RestaurantName != "" {
			source = models.SourceRestaurant
		}
	}

	rec := models.CacheRecord{
		DishName:          dishName,
		NormalizedName:    dishkey.Normalize(dishName),
		RestaurantName:    opts.RestaurantName,
		RestaurantAddress: opts.RestaurantAddress,
		PlaceID:           opts.PlaceID,
		Analysis:          analysis,
		ImageURL:          opts.ImageURL,
		Source:            source,
		CachedAt:          s.now().UTC(),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		s.log.Warn("encode cache record", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		s.log.Warn("store cache record", zap.String("key", key), zap.Error(err))
		return
	}

	s.metrics.RecordStore(dishName)
	s.log.Debug("cached dish analysis", zap.String("key", key), zap.String("source", string(source)))
}

// Get returns the live record for dishName at placeID, recording a hit or miss.
func (s *Store) Get(ctx context.Context, dishName, placeID string) (*models.CacheRecord, bool) {
	rec, ok := s.lookup(ctx, dishName, placeID)
	if !ok {
		s.metrics.RecordMiss(dishName)
		return nil, false
	}
	s.metrics.RecordHit(dishName, s.timeSaved)
	return rec, true
}

// lookup reads and validates a record without touching metrics. Expired
// records are deleted.
func (s *Store) lookup(ctx context.Context, dishName, placeID string) (*models.CacheRecord, bool) {
	key := recordKey(dishName, placeID)
	if key == "" {
		return nil, false
	}

	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.log.Warn("read cache record", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var rec models.CacheRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		s.log.Debug("malformed cache record", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	if s.expired(rec) {
		s.evict(ctx, key)
		return nil, false
	}
	return &rec, true
}

func (s *Store) expired(rec models.CacheRecord) bool {
	return s.now().Sub(rec.CachedAt) >= s.ttl
}

func (s *Store) evict(ctx context.Context, key string) {
	if err := s.kv.Remove(ctx, key); err != nil {
		s.log.Warn("evict expired cache record", zap.String("key", key), zap.Error(err))
		return
	}
	s.log.Debug("evicted expired cache record", zap.String("key", key))
}

// Search returns live records whose normalized name contains the normalized
// query, most recently cached first. An unsearchable query matches nothing.
func (s *Store) Search(ctx context.Context, query string) []models.CacheRecord {
	q := dishkey.Normalize(query)
	if q == "" {
		return []models.CacheRecord{}
	}

	keys, err := s.kv.Keys(ctx)
	if err != nil {
		s.log.Warn("list cache keys", zap.Error(err))
		return []models.CacheRecord{}
	}

	matches := []models.CacheRecord{}
	for _, key := range keys {
		if !strings.HasPrefix(key, KeyPrefix) {
			continue
		}
		raw, err := s.kv.Get(ctx, key)
		if err != nil {
			continue
		}
		var rec models.CacheRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			continue
		}
		if s.expired(rec) {
			s.evict(ctx, key)
			continue
		}
		if strings.Contains(dishkey.Normalize(rec.DishName), q) {
			matches = append(matches, rec)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CachedAt.After(matches[j].CachedAt)
	})
	return matches
}

// ClearAll removes every dish record and the recent searches list. It
// returns the number of keys removed.
func (s *Store) ClearAll(ctx context.Context) int {
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		s.log.Warn("list cache keys", zap.Error(err))
		return 0
	}

	var doomed []string
	for _, key := range keys {
		if strings.HasPrefix(key, KeyPrefix) || key == RecentKey {
			doomed = append(doomed, key)
		}
	}
	if err := s.kv.RemoveMany(ctx, doomed); err != nil {
		s.log.Warn("clear cache", zap.Int("keys", len(doomed)), zap.Error(err))
		return 0
	}
	s.log.Info("cleared dish cache", zap.Int("keys", len(doomed)))
	return len(doomed)
}

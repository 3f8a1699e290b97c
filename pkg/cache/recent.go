package cache

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/pario-ai/dishcache/pkg/dishkey"
	"github.com/pario-ai/dishcache/pkg/kv"
	"github.com/pario-ai/dishcache/pkg/models"
)

// AddRecentSearch moves dishName to the front of the recent searches list,
// dropping any earlier entry with the same normalized name and trimming the
// list to its limit. The list is rewritten as a single value, so concurrent
// calls may lose an entry.
func (s *Store) AddRecentSearch(ctx context.Context, dishName string, opts models.RecentOptions) {
	norm := dishkey.Normalize(dishName)
	if norm == "" {
		return
	}

	entries := s.loadRecent(ctx)
	kept := make([]models.RecentSearchEntry, 0, len(entries)+1)
	kept = append(kept, models.RecentSearchEntry{
		DishName:          dishName,
		RestaurantName:    opts.RestaurantName,
		RestaurantAddress: opts.RestaurantAddress,
		PlaceID:           opts.PlaceID,
		HasCache:          opts.HasCache,
		SearchedAt:        s.now().UTC(),
	})
	for _, e := range entries {
		if dishkey.Normalize(e.DishName) != norm {
			kept = append(kept, e)
		}
	}
	if len(kept) > s.recentLimit {
		kept = kept[:s.recentLimit]
	}

	data, err := json.Marshal(kept)
	if err != nil {
		s.log.Warn("encode recent searches", zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, RecentKey, string(data)); err != nil {
		s.log.Warn("store recent searches", zap.Error(err))
	}
}

// RecentSearches returns the recent searches, newest first. HasCache is
// recomputed against the cache rather than trusted from storage.
func (s *Store) RecentSearches(ctx context.Context) []models.RecentSearchEntry {
	entries := s.loadRecent(ctx)
	for i := range entries {
		_, entries[i].HasCache = s.lookup(ctx, entries[i].DishName, entries[i].PlaceID)
	}
	return entries
}

func (s *Store) loadRecent(ctx context.Context) []models.RecentSearchEntry {
	raw, err := s.kv.Get(ctx, RecentKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.log.Warn("read recent searches", zap.Error(err))
		}
		return []models.RecentSearchEntry{}
	}
	var entries []models.RecentSearchEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.log.Debug("malformed recent searches", zap.Error(err))
		return []models.RecentSearchEntry{}
	}
	if entries == nil {
		entries = []models.RecentSearchEntry{}
	}
	return entries
}

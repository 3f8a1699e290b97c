package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pario-ai/dishcache/pkg/dishkey"
	"github.com/pario-ai/dishcache/pkg/models"
)

// ErrNotSearchable is returned by Lookup for a dish name with nothing left
// after normalization.
var ErrNotSearchable = errors.New("dish name is not searchable")

// Fetcher produces a fresh analysis for a dish.
type Fetcher interface {
	Analyze(ctx context.Context, req models.AnalyzeRequest) (json.RawMessage, error)
}

// LookupResult is the outcome of Lookup.
type LookupResult struct {
	Record    models.CacheRecord
	FromCache bool
}

// Lookup returns the cached analysis for dishName, fetching and caching a
// fresh one on a miss. Every searchable lookup is recorded as a recent
// search. Only ErrNotSearchable and fetch errors are returned.
func (s *Store) Lookup(ctx context.Context, f Fetcher, dishName string, opts models.PutOptions) (LookupResult, error) {
	if dishkey.Normalize(dishName) == "" {
		return LookupResult{}, fmt.Errorf("lookup %q: %w", dishName, ErrNotSearchable)
	}

	recent := models.RecentOptions{
		RestaurantName:    opts.RestaurantName,
		RestaurantAddress: opts.RestaurantAddress,
		PlaceID:           opts.PlaceID,
	}

	if rec, ok := s.Get(ctx, dishName, opts.PlaceID); ok {
		recent.HasCache = true
		s.AddRecentSearch(ctx, dishName, recent)
		return LookupResult{Record: *rec, FromCache: true}, nil
	}

	analysis, err := f.Analyze(ctx, models.AnalyzeRequest{
		DishName:          dishName,
		RestaurantName:    opts.RestaurantName,
		RestaurantAddress: opts.RestaurantAddress,
		PlaceID:           opts.PlaceID,
	})
	if err != nil {
		s.AddRecentSearch(ctx, dishName, recent)
		return LookupResult{}, fmt.Errorf("analyze %q: %w", dishName, err)
	}

	s.Put(ctx, dishName, analysis, opts)
	rec, ok := s.lookup(ctx, dishName, opts.PlaceID)
	recent.HasCache = ok
	s.AddRecentSearch(ctx, dishName, recent)

	if !ok {
		// Storage failed; the caller still gets the fresh analysis.
		rec = &models.CacheRecord{
			DishName:          dishName,
			RestaurantName:    opts.RestaurantName,
			RestaurantAddress: opts.RestaurantAddress,
			PlaceID:           opts.PlaceID,
			Analysis:          analysis,
			ImageURL:          opts.ImageURL,
			Source:            opts.Source,
			CachedAt:          s.now().UTC(),
		}
	}
	return LookupResult{Record: *rec}, nil
}

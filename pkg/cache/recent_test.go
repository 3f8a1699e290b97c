package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/pario-ai/dishcache/pkg/models"
)

func TestAddRecentSearchDedupes(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()

	s.AddRecentSearch(ctx, "Pad Thai", models.RecentOptions{RestaurantName: "Thai Place"})
	clock.advance(time.Minute)
	s.AddRecentSearch(ctx, "Green Curry", models.RecentOptions{})
	clock.advance(time.Minute)
	s.AddRecentSearch(ctx, "pad thai!", models.RecentOptions{})

	got := s.RecentSearches(ctx)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(got), got)
	}
	if got[0].DishName != "pad thai!" {
		t.Errorf("expected re-added dish at front, got %s", got[0].DishName)
	}
	if !got[0].SearchedAt.Equal(clock.t) {
		t.Errorf("expected latest timestamp, got %v", got[0].SearchedAt)
	}
	if got[0].RestaurantName != "" {
		t.Errorf("re-added entry should replace the old one, got restaurant %q", got[0].RestaurantName)
	}
	if got[1].DishName != "Green Curry" {
		t.Errorf("expected Green Curry second, got %s", got[1].DishName)
	}
}

func TestAddRecentSearchCapped(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 11; i++ {
		s.AddRecentSearch(ctx, fmt.Sprintf("Dish %d", i), models.RecentOptions{})
		clock.advance(time.Second)
	}

	got := s.RecentSearches(ctx)
	if len(got) != DefaultRecentLimit {
		t.Fatalf("expected %d entries, got %d", DefaultRecentLimit, len(got))
	}
	if got[0].DishName != "Dish 10" {
		t.Errorf("expected newest first, got %s", got[0].DishName)
	}
	for _, e := range got {
		if e.DishName == "Dish 0" {
			t.Error("oldest entry should have been dropped")
		}
	}
}

func TestRecentSearchesRecomputesHasCache(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()

	s.Put(ctx, "Lasagna", json.RawMessage(`{}`), models.PutOptions{})
	s.Put(ctx, "Gnocchi", json.RawMessage(`{}`), models.PutOptions{PlaceID: "p1"})

	// Stored flags are deliberately wrong.
	s.AddRecentSearch(ctx, "Lasagna", models.RecentOptions{HasCache: false})
	s.AddRecentSearch(ctx, "Risotto", models.RecentOptions{HasCache: true})
	s.AddRecentSearch(ctx, "Gnocchi", models.RecentOptions{PlaceID: "p1"})

	got := s.RecentSearches(ctx)
	want := map[string]bool{"Lasagna": true, "Risotto": false, "Gnocchi": true}
	for _, e := range got {
		if e.HasCache != want[e.DishName] {
			t.Errorf("%s: has_cache = %v, want %v", e.DishName, e.HasCache, want[e.DishName])
		}
	}

	clock.advance(DefaultTTL)
	for _, e := range s.RecentSearches(ctx) {
		if e.HasCache {
			t.Errorf("%s: expected has_cache false once the record expired", e.DishName)
		}
	}
}

func TestRecentSearchesDoNotTouchMetrics(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	s.AddRecentSearch(ctx, "Paella", models.RecentOptions{})
	s.RecentSearches(ctx)

	if snap := s.Metrics().Snapshot(); snap.Hits != 0 || snap.Misses != 0 {
		t.Errorf("recent searches probing should not count lookups: %+v", snap)
	}
}

func TestRecentSearchesMalformedList(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.kv.Set(ctx, RecentKey, "not a list"); err != nil {
		t.Fatal(err)
	}
	if got := s.RecentSearches(ctx); len(got) != 0 {
		t.Errorf("expected empty list, got %+v", got)
	}

	s.AddRecentSearch(ctx, "Bibimbap", models.RecentOptions{})
	if got := s.RecentSearches(ctx); len(got) != 1 {
		t.Errorf("expected add to recover the list, got %+v", got)
	}
}

func TestAddRecentSearchIgnoresUnsearchable(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	s.AddRecentSearch(ctx, "  ", models.RecentOptions{})
	if got := s.RecentSearches(ctx); len(got) != 0 {
		t.Errorf("expected nothing recorded, got %+v", got)
	}
}

func TestCustomRecentLimit(t *testing.T) {
	s := New(newTestKV(t), nil, nil, Options{RecentLimit: 3})
	ctx := context.Background()

	for _, d := range []string{"a", "b", "c", "d"} {
		s.AddRecentSearch(ctx, d, models.RecentOptions{})
	}
	if got := s.RecentSearches(ctx); len(got) != 3 || got[0].DishName != "d" {
		t.Errorf("unexpected list: %+v", got)
	}
}

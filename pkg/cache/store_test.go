package cache

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/pario-ai/dishcache/pkg/kv"
	"github.com/pario-ai/dishcache/pkg/kv/sqlite"
	"github.com/pario-ai/dishcache/pkg/metrics"
	"github.com/pario-ai/dishcache/pkg/models"
)

// fakeClock is a settable time source.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestKV(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(filepath.Join(t.TempDir(), "cache_test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	s := New(newTestKV(t), metrics.New(), nil, Options{})
	s.now = clock.now
	return s, clock
}

func jsonEqual(t *testing.T, a, b []byte) bool {
	t.Helper()
	var va, vb any
	if err := json.Unmarshal(a, &va); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(b, &vb); err != nil {
		t.Fatal(err)
	}
	return reflect.DeepEqual(va, vb)
}

func TestPutAndGet(t *testing.T) {
	s := New(newTestKV(t), metrics.New(), nil, Options{})
	ctx := context.Background()
	payload := json.RawMessage(`{"allergen_flags": [{"allergen": "milk", "present": "yes"}], "nutrition_summary": {"energy_kcal": 420}}`)

	start := time.Now()
	s.Put(ctx, "Grilled Chicken", payload, models.PutOptions{})
	end := time.Now()

	rec, ok := s.Get(ctx, "grilled chicken!", "")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if !jsonEqual(t, rec.Analysis, payload) {
		t.Errorf("analysis mismatch: %s", rec.Analysis)
	}
	if rec.CachedAt.Before(start.Add(-time.Millisecond)) || rec.CachedAt.After(end.Add(time.Millisecond)) {
		t.Errorf("cached_at %v outside [%v, %v]", rec.CachedAt, start, end)
	}
	if rec.Source != models.SourceStandalone {
		t.Errorf("expected standalone source, got %s", rec.Source)
	}
	if rec.NormalizedName != "grilled_chicken" {
		t.Errorf("unexpected normalized name %s", rec.NormalizedName)
	}
}

func TestPlaceIDKeepsRecordsApart(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	s.Put(ctx, "Grilled Chicken", json.RawMessage(`{"v":1}`), models.PutOptions{PlaceID: "p1", RestaurantName: "One"})
	s.Put(ctx, "Grilled Chicken", json.RawMessage(`{"v":2}`), models.PutOptions{PlaceID: "p2"})

	r1, ok := s.Get(ctx, "Grilled Chicken", "p1")
	if !ok {
		t.Fatal("expected hit for p1")
	}
	r2, ok := s.Get(ctx, "Grilled Chicken", "p2")
	if !ok {
		t.Fatal("expected hit for p2")
	}
	if string(r1.Analysis) != `{"v":1}` || string(r2.Analysis) != `{"v":2}` {
		t.Errorf("records mixed up: %s / %s", r1.Analysis, r2.Analysis)
	}
	if r1.Source != models.SourceRestaurant || r1.RestaurantName != "One" {
		t.Errorf("unexpected p1 record: %+v", r1)
	}

	if _, ok := s.Get(ctx, "Grilled Chicken", ""); ok {
		t.Error("place-less lookup should not see place-scoped records")
	}
}

func TestPutOverwrites(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()

	s.Put(ctx, "Ramen", json.RawMessage(`{"v":1}`), models.PutOptions{})
	clock.advance(time.Hour)
	s.Put(ctx, "ramen", json.RawMessage(`{"v":2}`), models.PutOptions{})

	rec, ok := s.Get(ctx, "Ramen", "")
	if !ok {
		t.Fatal("expected hit")
	}
	if string(rec.Analysis) != `{"v":2}` {
		t.Errorf("expected overwritten analysis, got %s", rec.Analysis)
	}
	if !rec.CachedAt.Equal(clock.t) {
		t.Errorf("expected cached_at %v, got %v", clock.t, rec.CachedAt)
	}
}

func TestTTLExpiration(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()

	s.Put(ctx, "Pho", json.RawMessage(`{}`), models.PutOptions{})

	clock.advance(DefaultTTL - time.Second)
	if _, ok := s.Get(ctx, "Pho", ""); !ok {
		t.Fatal("expected hit just before TTL")
	}

	clock.advance(2 * time.Second)
	if _, ok := s.Get(ctx, "Pho", ""); ok {
		t.Fatal("expected miss after TTL")
	}

	if _, err := s.kv.Get(ctx, KeyPrefix+"pho"); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("expected expired record to be deleted on read, got %v", err)
	}
}

func TestCustomTTL(t *testing.T) {
	s := New(newTestKV(t), nil, nil, Options{TTL: time.Minute})
	clock := &fakeClock{t: time.Now()}
	s.now = clock.now
	ctx := context.Background()

	s.Put(ctx, "Toast", json.RawMessage(`{}`), models.PutOptions{})
	clock.advance(2 * time.Minute)
	if _, ok := s.Get(ctx, "Toast", ""); ok {
		t.Error("expected miss after custom TTL")
	}
}

func TestGetRecordsMetrics(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	s.Put(ctx, "Tacos", json.RawMessage(`{}`), models.PutOptions{})
	s.Get(ctx, "Tacos", "")
	s.Get(ctx, "Tacos", "")
	s.Get(ctx, "Burrito", "")

	snap := s.Metrics().Snapshot()
	if snap.Hits != 2 || snap.Misses != 1 {
		t.Errorf("expected 2 hits and 1 miss, got %+v", snap)
	}
	if snap.HitRate != 67 {
		t.Errorf("expected 67%% hit rate, got %d", snap.HitRate)
	}
	if snap.TotalTimeSavedMs != 4000 {
		t.Errorf("expected 4000ms saved, got %d", snap.TotalTimeSavedMs)
	}
	last := snap.Operations[len(snap.Operations)-1]
	if last.Type != models.OpStore || last.DishName != "Tacos" {
		t.Errorf("expected oldest op to be the store, got %+v", last)
	}
}

func TestUnsearchableName(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	s.Put(ctx, "!!!", json.RawMessage(`{}`), models.PutOptions{})
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 0 {
		t.Errorf("expected nothing stored, got %v", keys)
	}
	if _, ok := s.Get(ctx, "!!!", ""); ok {
		t.Error("expected miss")
	}
}

func TestMalformedRecordIsMiss(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.kv.Set(ctx, KeyPrefix+"soup", "{not json"); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Get(ctx, "Soup", ""); ok {
		t.Error("expected malformed record to read as a miss")
	}

	s.Put(ctx, "Soup", json.RawMessage(`{"ok":true}`), models.PutOptions{})
	if _, ok := s.Get(ctx, "Soup", ""); !ok {
		t.Error("expected put to overwrite the malformed record")
	}
}

func TestSearch(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()

	s.Put(ctx, "Grilled Chicken", json.RawMessage(`{}`), models.PutOptions{})
	clock.advance(time.Minute)
	s.Put(ctx, "Chicken Tikka Masala", json.RawMessage(`{}`), models.PutOptions{PlaceID: "p9"})
	clock.advance(time.Minute)
	s.Put(ctx, "Beef Stew", json.RawMessage(`{}`), models.PutOptions{})
	clock.advance(time.Minute)
	s.Put(ctx, "Fried CHICKEN sandwich", json.RawMessage(`{}`), models.PutOptions{})

	got := s.Search(ctx, "CHICKEN")
	var names []string
	for _, r := range got {
		names = append(names, r.DishName)
	}
	want := []string{"Fried CHICKEN sandwich", "Chicken Tikka Masala", "Grilled Chicken"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("search = %v, want %v", names, want)
	}

	if got := s.Search(ctx, "tikka masala"); len(got) != 1 {
		t.Errorf("expected normalized multi-word match, got %d", len(got))
	}
	if got := s.Search(ctx, "pizza"); len(got) != 0 {
		t.Errorf("expected no matches, got %d", len(got))
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	s.Put(ctx, "Salad", json.RawMessage(`{}`), models.PutOptions{})

	for _, q := range []string{"", "   ", "?!"} {
		got := s.Search(ctx, q)
		if got == nil || len(got) != 0 {
			t.Errorf("Search(%q) = %v, want empty slice", q, got)
		}
	}
}

func TestSearchEvictsExpiredAndSkipsMalformed(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()

	s.Put(ctx, "Old Curry", json.RawMessage(`{}`), models.PutOptions{})
	clock.advance(DefaultTTL)
	s.Put(ctx, "New Curry", json.RawMessage(`{}`), models.PutOptions{})
	if err := s.kv.Set(ctx, KeyPrefix+"bad_curry", "nope"); err != nil {
		t.Fatal(err)
	}

	got := s.Search(ctx, "curry")
	if len(got) != 1 || got[0].DishName != "New Curry" {
		t.Fatalf("expected only New Curry, got %+v", got)
	}
	if _, err := s.kv.Get(ctx, KeyPrefix+"old_curry"); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("expected expired record removed during search, got %v", err)
	}
}

func TestClearAll(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	s.Put(ctx, "A", json.RawMessage(`{}`), models.PutOptions{})
	s.Put(ctx, "B", json.RawMessage(`{}`), models.PutOptions{PlaceID: "x"})
	s.AddRecentSearch(ctx, "A", models.RecentOptions{})
	if err := s.kv.Set(ctx, "unrelated", "keep"); err != nil {
		t.Fatal(err)
	}

	if n := s.ClearAll(ctx); n != 3 {
		t.Errorf("expected 3 keys removed, got %d", n)
	}

	keys, _ := s.kv.Keys(ctx)
	if len(keys) != 1 || keys[0] != "unrelated" {
		t.Errorf("expected only unrelated key left, got %v", keys)
	}
	if len(s.RecentSearches(ctx)) != 0 {
		t.Error("expected recent searches cleared")
	}
}

// failingStore fails every operation.
type failingStore struct{}

var errBoom = errors.New("boom")

func (failingStore) Get(context.Context, string) (string, error) { return "", errBoom }
func (failingStore) Set(context.Context, string, string) error   { return errBoom }
func (failingStore) Remove(context.Context, string) error        { return errBoom }
func (failingStore) RemoveMany(context.Context, []string) error  { return errBoom }
func (failingStore) Keys(context.Context) ([]string, error)      { return nil, errBoom }
func (failingStore) Close() error                                { return nil }

func TestStorageFailuresDegrade(t *testing.T) {
	rec := metrics.New()
	s := New(failingStore{}, rec, nil, Options{})
	ctx := context.Background()

	s.Put(ctx, "Pasta", json.RawMessage(`{}`), models.PutOptions{})
	if _, ok := s.Get(ctx, "Pasta", ""); ok {
		t.Error("expected miss on failing store")
	}
	if got := s.Search(ctx, "pasta"); len(got) != 0 {
		t.Errorf("expected empty search, got %v", got)
	}
	s.AddRecentSearch(ctx, "Pasta", models.RecentOptions{})
	if got := s.RecentSearches(ctx); len(got) != 0 {
		t.Errorf("expected empty recent list, got %v", got)
	}
	if n := s.ClearAll(ctx); n != 0 {
		t.Errorf("expected 0 cleared, got %d", n)
	}

	snap := rec.Snapshot()
	if snap.Misses != 1 {
		t.Errorf("expected failed read to count as a miss, got %+v", snap)
	}
	for _, op := range snap.Operations {
		if op.Type == models.OpStore {
			t.Error("failed put should not be recorded as a store")
		}
	}
}

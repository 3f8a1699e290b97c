package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pario-ai/dishcache/pkg/kv"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "kv_test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSetAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "a", "1"); err != nil {
		t.Fatal(err)
	}
	v, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if v != "1" {
		t.Errorf("expected 1, got %q", v)
	}

	// Overwrite
	if err := s.Set(ctx, "a", "2"); err != nil {
		t.Fatal(err)
	}
	v, _ = s.Get(ctx, "a")
	if v != "2" {
		t.Errorf("expected 2 after overwrite, got %q", v)
	}
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveAndKeys(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, k := range []string{"b", "a", "c", "d"} {
		if err := s.Set(ctx, k, "x"); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.Remove(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove(ctx, "not-there"); err != nil {
		t.Errorf("removing a missing key should not fail: %v", err)
	}
	if err := s.RemoveMany(ctx, []string{"b", "c"}); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveMany(ctx, nil); err != nil {
		t.Errorf("empty RemoveMany should be a no-op: %v", err)
	}

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 1 || keys[0] != "d" {
		t.Errorf("expected [d], got %v", keys)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "kv_reopen.db")
	ctx := context.Background()

	s, err := New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "k", "v"); err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	s2, err := New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	v, err := s2.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if v != "v" {
		t.Errorf("expected v, got %q", v)
	}
}

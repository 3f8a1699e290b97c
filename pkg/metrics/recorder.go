// Package metrics records dish cache hits, misses and stores for the
// lifetime of a process.
package metrics

import (
	"math"
	"sync"
	"time"

	"github.com/pario-ai/dishcache/pkg/models"
)

const (
	// DefaultTimeSaved is the estimated latency of a remote analysis that a hit avoids.
	DefaultTimeSaved = 2 * time.Second
	// MaxOperations caps the recent operations log.
	MaxOperations = 50
)

// Recorder counts cache operations. A nil *Recorder discards everything.
type Recorder struct {
	mu        sync.Mutex
	hits      int64
	misses    int64
	timeSaved time.Duration
	ops       []models.CacheOperation
	now       func() time.Time
}

// New creates an empty Recorder.
func New() *Recorder {
	return &Recorder{now: time.Now}
}

// RecordHit counts a hit that saved roughly saved. Non-positive values use DefaultTimeSaved.
func (r *Recorder) RecordHit(dishName string, saved time.Duration) {
	if r == nil {
		return
	}
	if saved <= 0 {
		saved = DefaultTimeSaved
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits++
	r.timeSaved += saved
	r.push(models.CacheOperation{
		Type:        models.OpHit,
		DishName:    dishName,
		Timestamp:   r.now(),
		TimeSavedMs: saved.Milliseconds(),
	})
}

// RecordMiss counts a miss.
func (r *Recorder) RecordMiss(dishName string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.misses++
	r.push(models.CacheOperation{Type: models.OpMiss, DishName: dishName, Timestamp: r.now()})
}

// RecordStore logs a store. It does not affect the hit rate.
func (r *Recorder) RecordStore(dishName string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.push(models.CacheOperation{Type: models.OpStore, DishName: dishName, Timestamp: r.now()})
}

// push prepends op and drops the oldest entries past MaxOperations. Caller holds mu.
func (r *Recorder) push(op models.CacheOperation) {
	r.ops = append([]models.CacheOperation{op}, r.ops...)
	if len(r.ops) > MaxOperations {
		r.ops = r.ops[:MaxOperations]
	}
}

// HitRate returns the rounded hit percentage, or 0 before any lookup.
func (r *Recorder) HitRate() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hitRate()
}

func (r *Recorder) hitRate() int {
	total := r.hits + r.misses
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(r.hits) / float64(total)))
}

// Snapshot returns a copy of the current counters and operations log.
func (r *Recorder) Snapshot() models.CacheMetrics {
	if r == nil {
		return models.CacheMetrics{Operations: []models.CacheOperation{}}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ops := make([]models.CacheOperation, len(r.ops))
	copy(ops, r.ops)
	return models.CacheMetrics{
		Hits:             r.hits,
		Misses:           r.misses,
		TotalTimeSavedMs: r.timeSaved.Milliseconds(),
		HitRate:          r.hitRate(),
		Operations:       ops,
	}
}

// Reset zeroes all counters and empties the log.
func (r *Recorder) Reset() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits = 0
	r.misses = 0
	r.timeSaved = 0
	r.ops = nil
}

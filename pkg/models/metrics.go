package models

import "time"

// OperationType names a cache operation in the metrics log.
type OperationType string

const (
	OpHit   OperationType = "hit"
	OpMiss  OperationType = "miss"
	OpStore OperationType = "store"
)

// CacheOperation is a single entry in the recent operations log.
type CacheOperation struct {
	Type        OperationType `json:"type"`
	DishName    string        `json:"dish_name"`
	Timestamp   time.Time     `json:"timestamp"`
	TimeSavedMs int64         `json:"time_saved_ms,omitempty"`
}

// CacheMetrics reports cache performance for the current process.
type CacheMetrics struct {
	Hits             int64            `json:"hits"`
	Misses           int64            `json:"misses"`
	TotalTimeSavedMs int64            `json:"total_time_saved_ms"`
	HitRate          int              `json:"hit_rate"`
	Operations       []CacheOperation `json:"operations"`
}

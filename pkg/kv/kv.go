// Package kv defines the string-keyed storage contract the dish cache is built on.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("kv: key not found")

// Store is a durable string-keyed, string-valued store.
// It enforces no size limits and no expiry.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
	// RemoveMany deletes all keys in one operation.
	RemoveMany(ctx context.Context, keys []string) error
	// Keys lists every stored key.
	Keys(ctx context.Context) ([]string, error)
	// Close releases resources.
	Close() error
}

package models

import (
	"encoding/json"
	"time"
)

// Source tags where a cached analysis came from.
type Source string

const (
	SourceRestaurant Source = "restaurant"
	SourceStandalone Source = "standalone"
)

// CacheRecord stores one analyzed dish, keyed by normalized name and optional place id.
type CacheRecord struct {
	DishName          string          `json:"dish_name"`
	NormalizedName    string          `json:"normalized_name"`
	RestaurantName    string          `json:"restaurant_name,omitempty"`
	RestaurantAddress string          `json:"restaurant_address,omitempty"`
	PlaceID           string          `json:"place_id,omitempty"`
	Analysis          json.RawMessage `json:"analysis"`
	ImageURL          string          `json:"image_url,omitempty"`
	Source            Source          `json:"source"`
	CachedAt          time.Time       `json:"cached_at"`
}

// PutOptions carries the optional context stored alongside an analysis.
type PutOptions struct {
	RestaurantName    string
	RestaurantAddress string
	PlaceID           string
	ImageURL          string
	Source            Source
}

// RecentSearchEntry is one dish search event in the recent searches list.
type RecentSearchEntry struct {
	DishName          string    `json:"dish_name"`
	RestaurantName    string    `json:"restaurant_name,omitempty"`
	RestaurantAddress string    `json:"restaurant_address,omitempty"`
	PlaceID           string    `json:"place_id,omitempty"`
	HasCache          bool      `json:"has_cache"`
	SearchedAt        time.Time `json:"searched_at"`
}

// RecentOptions carries the optional context of a recorded search.
type RecentOptions struct {
	RestaurantName    string
	RestaurantAddress string
	PlaceID           string
	HasCache          bool
}

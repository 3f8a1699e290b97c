package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pario-ai/dishcache/pkg/models"
	"github.com/pario-ai/dishcache/pkg/reconcile"
)

// Tool argument structs.

type dishArgs struct {
	DishName          string   `json:"dish_name"`
	PlaceID           string   `json:"place_id"`
	RestaurantName    string   `json:"restaurant_name"`
	RestaurantAddress string   `json:"restaurant_address"`
	Allergens         []string `json:"allergens"`
}

type searchArgs struct {
	Query string `json:"query"`
}

// toolHandler is a function that handles a tool call.
type toolHandler func(ctx context.Context, s *Server, args json.RawMessage) ToolCallResult

// toolHandlers maps tool names to their handlers.
var toolHandlers = map[string]toolHandler{
	"dish_cache_lookup":    handleLookup,
	"dish_cache_search":    handleSearch,
	"dish_recent_searches": handleRecent,
	"dish_cache_metrics":   handleMetrics,
	"dish_analysis_view":   handleView,
	"dish_cache_clear":     handleClear,
}

var dishProperties = map[string]any{
	"dish_name": map[string]any{
		"type":        "string",
		"description": "Dish name as shown on the menu",
	},
	"place_id": map[string]any{
		"type":        "string",
		"description": "Restaurant place identifier (optional)",
	},
	"restaurant_name": map[string]any{
		"type":        "string",
		"description": "Restaurant name (optional)",
	},
	"restaurant_address": map[string]any{
		"type":        "string",
		"description": "Restaurant address (optional)",
	},
}

// allTools is the list of tool definitions exposed via tools/list.
var allTools = []ToolDefinition{
	{
		Name:        "dish_cache_lookup",
		Description: "Look up the cached analysis for a dish, fetching a fresh one on a miss when an analyzer is configured.",
		InputSchema: map[string]any{
			"type":       "object",
			"required":   []string{"dish_name"},
			"properties": dishProperties,
		},
	},
	{
		Name:        "dish_cache_search",
		Description: "Search cached dishes by name substring, most recently cached first.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"query"},
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Part of a dish name",
				},
			},
		},
	},
	{
		Name:        "dish_recent_searches",
		Description: "List recent dish searches with their current cache status.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
	{
		Name:        "dish_cache_metrics",
		Description: "Show cache hits, misses, hit rate, estimated time saved and recent operations.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
	{
		Name:        "dish_analysis_view",
		Description: "Render the reconciled analysis view of a cached dish for a user's allergens.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"dish_name"},
			"properties": map[string]any{
				"dish_name": dishProperties["dish_name"],
				"place_id":  dishProperties["place_id"],
				"allergens": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "The user's allergens (optional)",
				},
			},
		},
	},
	{
		Name:        "dish_cache_clear",
		Description: "Remove every cached dish and the recent searches list.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
}

func textResult(text string) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
	}
}

func errorResult(text string) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
		IsError: true,
	}
}

func parseDishArgs(rawArgs json.RawMessage) (dishArgs, bool) {
	var args dishArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	return args, args.DishName != ""
}

func handleLookup(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	args, ok := parseDishArgs(rawArgs)
	if !ok {
		return errorResult("dish_name is required")
	}

	if s.fetcher == nil {
		rec, hit := s.cache.Get(ctx, args.DishName, args.PlaceID)
		s.cache.AddRecentSearch(ctx, args.DishName, models.RecentOptions{
			RestaurantName:    args.RestaurantName,
			RestaurantAddress: args.RestaurantAddress,
			PlaceID:           args.PlaceID,
			HasCache:          hit,
		})
		if !hit {
			return textResult(fmt.Sprintf("%q is not cached.", args.DishName))
		}
		return textResult(formatRecord(*rec, true))
	}

	res, err := s.cache.Lookup(ctx, s.fetcher, args.DishName, models.PutOptions{
		RestaurantName:    args.RestaurantName,
		RestaurantAddress: args.RestaurantAddress,
		PlaceID:           args.PlaceID,
	})
	if err != nil {
		return errorResult("Error analyzing dish: " + err.Error())
	}
	return textResult(formatRecord(res.Record, res.FromCache))
}

func handleSearch(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args searchArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	if args.Query == "" {
		return errorResult("query is required")
	}
	return textResult(formatRecords(s.cache.Search(ctx, args.Query)))
}

func handleRecent(ctx context.Context, s *Server, _ json.RawMessage) ToolCallResult {
	return textResult(formatRecent(s.cache.RecentSearches(ctx)))
}

func handleMetrics(_ context.Context, s *Server, _ json.RawMessage) ToolCallResult {
	if s.cache.Metrics() == nil {
		return textResult("Metrics are not configured.")
	}
	return textResult(formatMetrics(s.cache.Metrics().Snapshot()))
}

func handleView(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	args, ok := parseDishArgs(rawArgs)
	if !ok {
		return errorResult("dish_name is required")
	}
	rec, hit := s.cache.Get(ctx, args.DishName, args.PlaceID)
	if !hit {
		return errorResult(fmt.Sprintf("%q is not cached.", args.DishName))
	}
	vm := reconcile.Reconcile(rec.Analysis, args.Allergens)
	data, err := json.MarshalIndent(vm, "", "  ")
	if err != nil {
		return errorResult("Error rendering view: " + err.Error())
	}
	return textResult(string(data))
}

func handleClear(ctx context.Context, s *Server, _ json.RawMessage) ToolCallResult {
	n := s.cache.ClearAll(ctx)
	return textResult(fmt.Sprintf("Removed %d cache keys.", n))
}

package mcp

import (
	"fmt"
	"strings"

	"github.com/pario-ai/dishcache/pkg/models"
)

const timeLayout = "2006-01-02 15:04:05"

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// formatRecord describes a single cache record.
func formatRecord(rec models.CacheRecord, fromCache bool) string {
	var b strings.Builder
	origin := "fresh analysis"
	if fromCache {
		origin = "cache hit"
	}
	fmt.Fprintf(&b, "%s (%s)\n", rec.DishName, origin)
	if rec.RestaurantName != "" {
		fmt.Fprintf(&b, "  Restaurant: %s\n", rec.RestaurantName)
	}
	if rec.RestaurantAddress != "" {
		fmt.Fprintf(&b, "  Address:    %s\n", rec.RestaurantAddress)
	}
	if rec.PlaceID != "" {
		fmt.Fprintf(&b, "  Place ID:   %s\n", rec.PlaceID)
	}
	fmt.Fprintf(&b, "  Source:     %s\n", rec.Source)
	fmt.Fprintf(&b, "  Cached at:  %s\n", rec.CachedAt.Format(timeLayout))
	fmt.Fprintf(&b, "  Analysis:   %d bytes\n", len(rec.Analysis))
	return b.String()
}

// formatRecords formats search matches as a text table.
func formatRecords(recs []models.CacheRecord) string {
	if len(recs) == 0 {
		return "No cached dishes found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-30s %-25s %-11s %-20s\n", "Dish", "Restaurant", "Source", "Cached At")
	b.WriteString(strings.Repeat("-", 89) + "\n")
	for _, r := range recs {
		fmt.Fprintf(&b, "%-30s %-25s %-11s %-20s\n",
			truncate(r.DishName, 30), truncate(r.RestaurantName, 25), r.Source,
			r.CachedAt.Format(timeLayout))
	}
	return b.String()
}

// formatRecent formats the recent searches list as a text table.
func formatRecent(entries []models.RecentSearchEntry) string {
	if len(entries) == 0 {
		return "No recent searches."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-30s %-25s %-6s %-20s\n", "Dish", "Restaurant", "Cached", "Searched At")
	b.WriteString(strings.Repeat("-", 84) + "\n")
	for _, e := range entries {
		cached := "no"
		if e.HasCache {
			cached = "yes"
		}
		fmt.Fprintf(&b, "%-30s %-25s %-6s %-20s\n",
			truncate(e.DishName, 30), truncate(e.RestaurantName, 25), cached,
			e.SearchedAt.Format(timeLayout))
	}
	return b.String()
}

// formatMetrics formats cache metrics and the recent operations log.
func formatMetrics(m models.CacheMetrics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cache Metrics\n"+
		"  Hits:       %d\n"+
		"  Misses:     %d\n"+
		"  Hit Rate:   %d%%\n"+
		"  Time Saved: %.1fs\n",
		m.Hits, m.Misses, m.HitRate, float64(m.TotalTimeSavedMs)/1000)
	if len(m.Operations) == 0 {
		return b.String()
	}
	b.WriteString("\nRecent Operations\n")
	for _, op := range m.Operations {
		fmt.Fprintf(&b, "  %s  %-5s %s\n", op.Timestamp.Format(timeLayout), op.Type, op.DishName)
	}
	return b.String()
}

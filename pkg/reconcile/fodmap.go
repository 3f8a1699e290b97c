package reconcile

import (
	"strings"

	"github.com/pario-ai/dishcache/pkg/models"
)

// fodmapPhrase describes a FODMAP level when the payload gives no reason.
func fodmapPhrase(level string) string {
	l := strings.ToLower(level)
	switch {
	case strings.Contains(l, "high"):
		return "Likely high in FODMAPs."
	case strings.Contains(l, "moderate"), strings.Contains(l, "medium"):
		return "Moderate FODMAP content."
	case strings.Contains(l, "low"):
		return "Likely low in FODMAPs."
	}
	return ""
}

func fodmapView(flag LevelFlag) models.FodmapView {
	v := models.FodmapView{
		Level:    strings.ToLower(flag.Level),
		Triggers: []string{},
	}
	sentence := flag.Reason
	if sentence == "" {
		sentence = fodmapPhrase(flag.Level)
	}
	if sentence != "" {
		v.Sentence = &sentence
	}
	return v
}

// fodmapTriggers lists ingredients with at least one "fodmap" lexical hit,
// deduplicated case-insensitively in first-seen order.
func fodmapTriggers(a *Analysis) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, h := range a.IngredientHits {
		key := strings.ToLower(h.Ingredient)
		if seen[key] {
			continue
		}
		for _, k := range h.Kinds {
			if k == "fodmap" {
				seen[key] = true
				out = append(out, h.Ingredient)
				break
			}
		}
	}
	return out
}

func resolveFodmap(a *Analysis) models.FodmapView {
	flag, _, ok := resolve(a, fodmapSources)
	v := models.FodmapView{Triggers: []string{}}
	if ok {
		v = fodmapView(flag)
	}
	v.Triggers = fodmapTriggers(a)
	return v
}

package reconcile

import (
	"regexp"
	"strings"

	"github.com/pario-ai/dishcache/pkg/models"
)

const (
	presentYes   = "yes"
	presentMaybe = "maybe"

	highLactosePill = "High lactose"
)

// allergenSynonyms lists names that match each other in both directions.
var allergenSynonyms = map[string]string{
	"milk":      "dairy",
	"dairy":     "milk",
	"peanut":    "peanuts",
	"peanuts":   "peanut",
	"tree nut":  "tree nuts",
	"tree nuts": "tree nut",
	"gluten":    "wheat",
	"wheat":     "gluten",
}

func canonicalAllergen(name string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(name, "_", " ")))
}

// allergensMatch reports whether two allergen names refer to the same allergen.
func allergensMatch(a, b string) bool {
	a, b = canonicalAllergen(a), canonicalAllergen(b)
	if a == "" || b == "" {
		return false
	}
	return a == b || allergenSynonyms[a] == b
}

func isUserAllergen(name string, user []string) bool {
	for _, u := range user {
		if allergensMatch(name, u) {
			return true
		}
	}
	return false
}

type knownAllergen struct {
	name string
	re   *regexp.Regexp
}

// knownAllergens are recognized in legacy free-text messages, in order.
var knownAllergens = func() []knownAllergen {
	names := []string{
		"milk", "dairy", "egg", "shellfish", "fish", "tree nut", "peanut",
		"wheat", "gluten", "soy", "sesame", "mustard", "celery", "sulphite",
	}
	out := make([]knownAllergen, len(names))
	for i, n := range names {
		out[i] = knownAllergen{name: n, re: regexp.MustCompile(`\b` + regexp.QuoteMeta(n) + `s?\b`)}
	}
	return out
}()

var hedgeWords = regexp.MustCompile(`\b(may|might|trace|traces|possible|possibly)\b`)

// legacyAllergenFlags rebuilds flags from the summary allergen list plus any
// known allergens mentioned in free-text messages.
func legacyAllergenFlags(a *Analysis) ([]AllergenFlag, bool) {
	var listed []string
	if a.Legacy != nil {
		listed = a.Legacy.Allergens
	}
	if listed == nil && len(a.AllergenMessages) == 0 {
		return nil, false
	}

	flags := []AllergenFlag{}
	seen := func(name string) bool {
		for _, f := range flags {
			if allergensMatch(f.Name, name) {
				return true
			}
		}
		return false
	}
	for _, name := range listed {
		if !seen(name) {
			flags = append(flags, AllergenFlag{Name: name, Present: presentYes})
		}
	}
	for _, msg := range a.AllergenMessages {
		lower := strings.ToLower(msg)
		present := presentYes
		if hedgeWords.MatchString(lower) {
			present = presentMaybe
		}
		for _, k := range knownAllergens {
			if k.re.MatchString(lower) && !seen(k.name) {
				flags = append(flags, AllergenFlag{Name: k.name, Present: present, Message: msg})
			}
		}
	}
	return flags, true
}

// allergenPills keeps yes/maybe flags, dedupes by name and tags user matches.
// The result is never nil.
func allergenPills(flags []AllergenFlag, user []string) []models.AllergenPill {
	pills := []models.AllergenPill{}
	seen := map[string]bool{}
	for _, f := range flags {
		if f.Present != presentYes && f.Present != presentMaybe {
			continue
		}
		key := canonicalAllergen(f.Name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		pills = append(pills, models.AllergenPill{
			Name:      f.Name,
			UserMatch: isUserAllergen(f.Name, user),
			Present:   f.Present,
		})
	}
	return pills
}

func userFlagsMilk(user []string) bool {
	return isUserAllergen("milk", user)
}

// structuredAllergenSentence groups pills by certainty.
func structuredAllergenSentence(pills []models.AllergenPill) string {
	var yes, maybe []string
	for _, p := range pills {
		switch p.Present {
		case presentYes:
			yes = append(yes, p.Name)
		case presentMaybe:
			maybe = append(maybe, p.Name)
		}
	}
	var parts []string
	if len(yes) > 0 {
		parts = append(parts, "Contains "+strings.Join(yes, ", ")+".")
	}
	if len(maybe) > 0 {
		parts = append(parts, "May contain "+strings.Join(maybe, ", ")+" based on recipe ingredients.")
	}
	return strings.Join(parts, " ")
}

func legacyMessageSentence(msgs []string) string {
	var parts []string
	for _, m := range msgs {
		if m = strings.TrimSpace(m); m != "" {
			parts = append(parts, m)
		}
	}
	return strings.Join(parts, " ")
}

func pillSentence(pills []models.AllergenPill) string {
	if len(pills) == 0 {
		return ""
	}
	names := make([]string, len(pills))
	for i, p := range pills {
		names[i] = p.Name
	}
	return "Contains " + strings.Join(names, ", ") + "."
}

// resolveAllergens builds the pill list and sentence for the whole plate.
func resolveAllergens(a *Analysis, user []string) ([]models.AllergenPill, *string) {
	flags, src, _ := resolve(a, allergenSources)
	pills := allergenPills(flags, user)

	var sentence string
	if src == srcSelectionDefault || src == srcAllergenFlags {
		sentence = structuredAllergenSentence(pills)
	}
	if sentence == "" {
		sentence = legacyMessageSentence(a.AllergenMessages)
	}
	if sentence == "" {
		sentence = pillSentence(pills)
	}

	if lactose, _, ok := resolve(a, lactoseSources); ok && userFlagsMilk(user) && isHigh(lactose.Level) {
		pills = append(pills, models.AllergenPill{Name: highLactosePill, UserMatch: true, Present: presentYes})
	}

	if sentence == "" {
		return pills, nil
	}
	return pills, &sentence
}

func isHigh(level string) bool {
	return strings.EqualFold(strings.TrimSpace(level), "high")
}

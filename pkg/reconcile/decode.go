package reconcile

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Variant identifies which backend code path produced a payload.
type Variant int

const (
	// VariantDish is the menu/dish analysis shape.
	VariantDish Variant = iota
	// VariantRecipe carries a nested recipe block with its own nutrition.
	VariantRecipe
)

func (v Variant) String() string {
	if v == VariantRecipe {
		return "recipe"
	}
	return "dish"
}

// Analysis is the canonical form of a raw analysis payload. A nil pointer or
// nil slice means the payload did not carry that field; an empty non-nil
// slice means it carried an empty list.
type Analysis struct {
	Variant Variant

	Selection Selection

	AllergenFlags []AllergenFlag
	Fodmap        *LevelFlag
	Lactose       *LevelFlag

	Legacy           *Legacy
	AllergenMessages []string

	Organs []OrganEntry

	NutritionSummary *Nutrition
	NutritionSource  string
	Recipe           *Recipe

	DietTags       []string
	Lifestyle      *Lifestyle
	LifestyleCodes []string

	Portion *Portion

	PlateComponents []PlateComponent
	PlateBreakdown  []BreakdownEntry

	IngredientHits []IngredientHit
}

// Selection holds the pre-combined whole-plate and per-component resolutions.
type Selection struct {
	Default    *SelectionEntry
	Components []SelectionEntry
}

// SelectionEntry is one resolution of allergens, FODMAP, lactose and nutrition.
type SelectionEntry struct {
	ComponentID     string
	AllergenFlags   []AllergenFlag
	Fodmap          *LevelFlag
	Lactose         *LevelFlag
	Nutrition       *Nutrition
	NutritionSource string
	ShareRatio      *float64
}

// AllergenFlag is one reported allergen. Present is "yes", "maybe" or "no".
type AllergenFlag struct {
	Name    string
	Present string
	Message string
}

// LevelFlag is a level with an optional explanation, used for FODMAP and lactose.
type LevelFlag struct {
	Level  string
	Reason string
}

// Legacy is the older summary block.
type Legacy struct {
	Allergens   []string
	FodmapLevel string
	Organs      map[string]LegacyOrgan
}

// LegacyOrgan is a summary organ entry without reasons.
type LegacyOrgan struct {
	Score *float64
	Level string
}

// OrganEntry is the modern per-organ entry.
type OrganEntry struct {
	Key     string
	Score   *float64
	Level   string
	Reasons []string
}

// Nutrition is a raw nutrition block.
type Nutrition struct {
	Energy  *float64
	Protein *float64
	Carbs   *float64
	Fat     *float64
	Sugar   *float64
	Fiber   *float64
	Sodium  *float64
}

func (n *Nutrition) empty() bool {
	return n == nil || (n.Energy == nil && n.Protein == nil && n.Carbs == nil &&
		n.Fat == nil && n.Sugar == nil && n.Fiber == nil && n.Sodium == nil)
}

// Recipe is the nested block of VariantRecipe payloads.
type Recipe struct {
	Nutrition       *Nutrition
	OutputNutrition *Nutrition
}

// Lifestyle holds rule inputs for diet tag adjustment.
type Lifestyle struct {
	ContainsRedMeat bool
	Vegetarian      bool
	Vegan           bool
}

// Portion holds portion multipliers as reported.
type Portion struct {
	Manual    *float64
	AI        *float64
	Effective *float64
}

// PlateComponent is one detected item on the plate.
type PlateComponent struct {
	ID        string
	Label     string
	Role      string
	Category  string
	AreaRatio *float64
}

// BreakdownEntry is an index-aligned flat per-component nutrition entry.
type BreakdownEntry struct {
	Nutrition  *Nutrition
	ShareRatio *float64
}

// IngredientHit lists the lexical hit kinds found for one ingredient.
type IngredientHit struct {
	Ingredient string
	Kinds      []string
}

// Decode maps a raw payload into an Analysis. It never fails: invalid JSON
// or a non-object payload yields an empty Analysis.
func Decode(raw []byte) *Analysis {
	a := &Analysis{}
	if !gjson.ValidBytes(raw) {
		return a
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return a
	}

	if recipe := root.Get("recipe"); recipe.IsObject() {
		a.Variant = VariantRecipe
		a.Recipe = &Recipe{
			Nutrition:       decodeNutrition(recipe.Get("nutrition")),
			OutputNutrition: decodeNutrition(recipe.Get("output.nutrition")),
		}
	}

	if def := root.Get("selection.default"); def.IsObject() {
		e := decodeSelectionEntry(def)
		a.Selection.Default = &e
	}
	for _, c := range root.Get("selection.components").Array() {
		if c.IsObject() {
			a.Selection.Components = append(a.Selection.Components, decodeSelectionEntry(c))
		}
	}

	a.AllergenFlags = decodeAllergenFlags(root.Get("allergen_flags"))
	a.Fodmap = decodeLevelFlag(root.Get("fodmap"))
	a.Lactose = decodeLevelFlag(root.Get("lactose"))

	if summary := root.Get("summary"); summary.IsObject() {
		a.Legacy = decodeLegacy(summary)
	}
	a.AllergenMessages = messageList(root.Get("allergen_messages"))

	a.Organs = decodeOrgans(root.Get("organs"))

	a.NutritionSummary = decodeNutrition(root.Get("nutrition_summary"))
	a.NutritionSource = str(root.Get("nutrition_source"))

	a.DietTags = stringList(root.Get("diet_tags"))
	if lc := root.Get("lifestyle_checks"); lc.IsObject() {
		a.Lifestyle = &Lifestyle{
			ContainsRedMeat: boolean(lc.Get("contains_red_meat")),
			Vegetarian:      boolean(lc.Get("vegetarian")),
			Vegan:           boolean(lc.Get("vegan")),
		}
	}
	a.LifestyleCodes = stringList(root.Get("lifestyle_tags"))

	if p := root.Get("portion"); p.IsObject() {
		a.Portion = &Portion{
			Manual:    num(p.Get("manual_factor")),
			AI:        num(p.Get("ai_factor")),
			Effective: num(p.Get("effective_factor")),
		}
	}

	for _, c := range root.Get("plate_components").Array() {
		if !c.IsObject() {
			continue
		}
		a.PlateComponents = append(a.PlateComponents, PlateComponent{
			ID:        str(c.Get("id")),
			Label:     str(c.Get("label")),
			Role:      str(c.Get("role")),
			Category:  str(c.Get("category")),
			AreaRatio: num(c.Get("area_ratio")),
		})
	}
	for _, b := range root.Get("plate_breakdown").Array() {
		// Keep non-object entries as empty placeholders so indices stay aligned.
		a.PlateBreakdown = append(a.PlateBreakdown, BreakdownEntry{
			Nutrition:  decodeNutrition(b.Get("nutrition")),
			ShareRatio: num(b.Get("share_ratio")),
		})
	}

	for _, h := range root.Get("debug.ingredient_hits").Array() {
		ing := str(h.Get("ingredient"))
		if ing == "" {
			continue
		}
		hit := IngredientHit{Ingredient: ing}
		for _, lh := range h.Get("hits").Array() {
			if k := strings.ToLower(str(lh.Get("kind"))); k != "" {
				hit.Kinds = append(hit.Kinds, k)
			}
		}
		a.IngredientHits = append(a.IngredientHits, hit)
	}

	return a
}

func decodeSelectionEntry(r gjson.Result) SelectionEntry {
	return SelectionEntry{
		ComponentID:     str(r.Get("component_id")),
		AllergenFlags:   decodeAllergenFlags(r.Get("allergen_flags")),
		Fodmap:          decodeLevelFlag(r.Get("fodmap")),
		Lactose:         decodeLevelFlag(r.Get("lactose")),
		Nutrition:       decodeNutrition(r.Get("nutrition")),
		NutritionSource: str(r.Get("nutrition_source")),
		ShareRatio:      num(r.Get("share_ratio")),
	}
}

// decodeAllergenFlags returns nil when r is not an array.
func decodeAllergenFlags(r gjson.Result) []AllergenFlag {
	if !r.IsArray() {
		return nil
	}
	flags := []AllergenFlag{}
	for _, f := range r.Array() {
		if !f.IsObject() {
			continue
		}
		name := str(f.Get("allergen"))
		if name == "" {
			name = str(f.Get("name"))
		}
		if name == "" {
			continue
		}
		flags = append(flags, AllergenFlag{
			Name:    name,
			Present: presence(f.Get("present")),
			Message: str(f.Get("message")),
		})
	}
	return flags
}

func presence(r gjson.Result) string {
	switch r.Type {
	case gjson.True:
		return "yes"
	case gjson.False:
		return "no"
	case gjson.String:
		return strings.ToLower(strings.TrimSpace(r.Str))
	}
	return ""
}

func decodeLevelFlag(r gjson.Result) *LevelFlag {
	switch {
	case r.IsObject():
		level := str(r.Get("level"))
		if level == "" {
			return nil
		}
		return &LevelFlag{Level: level, Reason: str(r.Get("reason"))}
	case r.Type == gjson.String && strings.TrimSpace(r.Str) != "":
		return &LevelFlag{Level: strings.TrimSpace(r.Str)}
	}
	return nil
}

func decodeLegacy(r gjson.Result) *Legacy {
	l := &Legacy{
		Allergens:   stringList(r.Get("allergens")),
		FodmapLevel: str(r.Get("fodmap_level")),
	}
	organs := r.Get("organs")
	if organs.IsObject() {
		l.Organs = map[string]LegacyOrgan{}
		organs.ForEach(func(k, v gjson.Result) bool {
			key := organKey(k.String())
			switch {
			case v.IsObject():
				l.Organs[key] = LegacyOrgan{Score: num(v.Get("score")), Level: str(v.Get("level"))}
			case num(v) != nil:
				l.Organs[key] = LegacyOrgan{Score: num(v)}
			case v.Type == gjson.String:
				l.Organs[key] = LegacyOrgan{Level: str(v)}
			}
			return true
		})
	}
	return l
}

// decodeOrgans accepts either a list of entries or an object keyed by organ.
func decodeOrgans(r gjson.Result) []OrganEntry {
	var out []OrganEntry
	entry := func(key string, v gjson.Result) {
		if key == "" || !v.IsObject() {
			return
		}
		out = append(out, OrganEntry{
			Key:     organKey(key),
			Score:   num(v.Get("score")),
			Level:   str(v.Get("level")),
			Reasons: stringList(v.Get("reasons")),
		})
	}
	switch {
	case r.IsArray():
		for _, v := range r.Array() {
			key := str(v.Get("organ"))
			if key == "" {
				key = str(v.Get("key"))
			}
			entry(key, v)
		}
	case r.IsObject():
		r.ForEach(func(k, v gjson.Result) bool {
			entry(k.String(), v)
			return true
		})
	}
	return out
}

func decodeNutrition(r gjson.Result) *Nutrition {
	if !r.IsObject() {
		return nil
	}
	n := &Nutrition{
		Energy:  firstNum(r, "energy_kcal", "calories", "energy"),
		Protein: firstNum(r, "protein_g", "protein"),
		Carbs:   firstNum(r, "carbs_g", "carbs", "carbohydrates_g"),
		Fat:     firstNum(r, "fat_g", "fat"),
		Sugar:   firstNum(r, "sugar_g", "sugar"),
		Fiber:   firstNum(r, "fiber_g", "fiber"),
		Sodium:  firstNum(r, "sodium_mg", "sodium"),
	}
	if n.empty() {
		return nil
	}
	return n
}

func firstNum(r gjson.Result, keys ...string) *float64 {
	for _, k := range keys {
		if v := num(r.Get(k)); v != nil {
			return v
		}
	}
	return nil
}

// num reads a finite number, accepting numeric strings.
func num(r gjson.Result) *float64 {
	var f float64
	switch r.Type {
	case gjson.Number:
		f = r.Num
	case gjson.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func str(r gjson.Result) string {
	if r.Type != gjson.String {
		return ""
	}
	return strings.TrimSpace(r.Str)
}

func boolean(r gjson.Result) bool {
	switch r.Type {
	case gjson.True:
		return true
	case gjson.String:
		s := strings.ToLower(strings.TrimSpace(r.Str))
		return s == "true" || s == "yes"
	}
	return false
}

// messageList reads an array of free-text messages or a single message. A
// single string is kept whole; commas are part of the sentence.
func messageList(r gjson.Result) []string {
	if r.Type == gjson.String {
		if s := strings.TrimSpace(r.Str); s != "" {
			return []string{s}
		}
		return []string{}
	}
	return stringList(r)
}

// stringList reads an array of strings or a comma-separated string. It
// returns nil when r carries neither.
func stringList(r gjson.Result) []string {
	switch {
	case r.IsArray():
		out := []string{}
		for _, v := range r.Array() {
			if s := str(v); s != "" {
				out = append(out, s)
			}
		}
		return out
	case r.Type == gjson.String:
		out := []string{}
		for _, part := range strings.Split(r.Str, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

package reconcile

// source is one candidate for an output field. get reports false when the
// payload does not carry it.
type source[C, T any] struct {
	name string
	get  func(C) (T, bool)
}

// resolve returns the value of the first source present in c and the name
// of that source.
func resolve[C, T any](c C, sources []source[C, T]) (T, string, bool) {
	for _, s := range sources {
		if v, ok := s.get(c); ok {
			return v, s.name, true
		}
	}
	var zero T
	return zero, "", false
}

const (
	srcSelectionDefault   = "selection_default"
	srcSelectionComponent = "selection_component"
	srcAllergenFlags      = "allergen_flags"
	srcFodmap             = "fodmap"
	srcLactose            = "lactose"
	srcLegacy             = "legacy"
	srcModern             = "modern"
	srcNutritionSummary   = "nutrition_summary"
	srcRecipe             = "recipe"
	srcRecipeOutput       = "recipe_output"
	srcNutritionSource    = "nutrition_source"
	srcPlateBreakdown     = "plate_breakdown"
	srcAreaRatio          = "area_ratio"
)

var allergenSources = []source[*Analysis, []AllergenFlag]{
	{srcSelectionDefault, func(a *Analysis) ([]AllergenFlag, bool) {
		if d := a.Selection.Default; d != nil && d.AllergenFlags != nil {
			return d.AllergenFlags, true
		}
		return nil, false
	}},
	{srcAllergenFlags, func(a *Analysis) ([]AllergenFlag, bool) {
		return a.AllergenFlags, a.AllergenFlags != nil
	}},
	{srcLegacy, legacyAllergenFlags},
}

var fodmapSources = []source[*Analysis, LevelFlag]{
	{srcSelectionDefault, func(a *Analysis) (LevelFlag, bool) {
		if d := a.Selection.Default; d != nil && d.Fodmap != nil {
			return *d.Fodmap, true
		}
		return LevelFlag{}, false
	}},
	{srcFodmap, func(a *Analysis) (LevelFlag, bool) {
		if a.Fodmap != nil {
			return *a.Fodmap, true
		}
		return LevelFlag{}, false
	}},
	{srcLegacy, func(a *Analysis) (LevelFlag, bool) {
		if a.Legacy != nil && a.Legacy.FodmapLevel != "" {
			return LevelFlag{Level: a.Legacy.FodmapLevel}, true
		}
		return LevelFlag{}, false
	}},
}

var lactoseSources = []source[*Analysis, LevelFlag]{
	{srcSelectionDefault, func(a *Analysis) (LevelFlag, bool) {
		if d := a.Selection.Default; d != nil && d.Lactose != nil {
			return *d.Lactose, true
		}
		return LevelFlag{}, false
	}},
	{srcLactose, func(a *Analysis) (LevelFlag, bool) {
		if a.Lactose != nil {
			return *a.Lactose, true
		}
		return LevelFlag{}, false
	}},
}

var nutritionSources = []source[*Analysis, *Nutrition]{
	{srcSelectionDefault, func(a *Analysis) (*Nutrition, bool) {
		if d := a.Selection.Default; d != nil && !d.Nutrition.empty() {
			return d.Nutrition, true
		}
		return nil, false
	}},
	{srcNutritionSummary, func(a *Analysis) (*Nutrition, bool) {
		return a.NutritionSummary, !a.NutritionSummary.empty()
	}},
	{srcRecipe, func(a *Analysis) (*Nutrition, bool) {
		if a.Variant == VariantRecipe && a.Recipe != nil && !a.Recipe.Nutrition.empty() {
			return a.Recipe.Nutrition, true
		}
		return nil, false
	}},
	{srcRecipeOutput, func(a *Analysis) (*Nutrition, bool) {
		if a.Variant == VariantRecipe && a.Recipe != nil && !a.Recipe.OutputNutrition.empty() {
			return a.Recipe.OutputNutrition, true
		}
		return nil, false
	}},
}

var nutritionTagSources = []source[*Analysis, string]{
	{srcSelectionDefault, func(a *Analysis) (string, bool) {
		if d := a.Selection.Default; d != nil && d.NutritionSource != "" {
			return d.NutritionSource, true
		}
		return "", false
	}},
	{srcNutritionSource, func(a *Analysis) (string, bool) {
		return a.NutritionSource, a.NutritionSource != ""
	}},
}

// organQuery asks for one organ of an analysis.
type organQuery struct {
	a   *Analysis
	key string
}

// organReading is an organ entry from either the modern or the legacy path.
type organReading struct {
	score   *float64
	level   string
	reasons []string
}

var organSources = []source[organQuery, organReading]{
	{srcModern, func(q organQuery) (organReading, bool) {
		for _, o := range q.a.Organs {
			if o.Key == q.key && (o.Score != nil || o.Level != "" || len(o.Reasons) > 0) {
				return organReading{score: o.Score, level: o.Level, reasons: o.Reasons}, true
			}
		}
		return organReading{}, false
	}},
	{srcLegacy, func(q organQuery) (organReading, bool) {
		if q.a.Legacy == nil {
			return organReading{}, false
		}
		o, ok := q.a.Legacy.Organs[q.key]
		if !ok || (o.Score == nil && o.Level == "") {
			return organReading{}, false
		}
		return organReading{score: o.Score, level: o.Level}, true
	}},
}

// componentQuery asks for one plate component of an analysis.
type componentQuery struct {
	a     *Analysis
	index int
	comp  PlateComponent
	sel   *SelectionEntry
}

func (q componentQuery) breakdown() (BreakdownEntry, bool) {
	if q.index < len(q.a.PlateBreakdown) {
		return q.a.PlateBreakdown[q.index], true
	}
	return BreakdownEntry{}, false
}

var componentNutritionSources = []source[componentQuery, *Nutrition]{
	{srcSelectionComponent, func(q componentQuery) (*Nutrition, bool) {
		if q.sel != nil && !q.sel.Nutrition.empty() {
			return q.sel.Nutrition, true
		}
		return nil, false
	}},
	{srcPlateBreakdown, func(q componentQuery) (*Nutrition, bool) {
		if b, ok := q.breakdown(); ok && !b.Nutrition.empty() {
			return b.Nutrition, true
		}
		return nil, false
	}},
}

var componentShareSources = []source[componentQuery, float64]{
	{srcSelectionComponent, func(q componentQuery) (float64, bool) {
		if q.sel != nil && q.sel.ShareRatio != nil {
			return *q.sel.ShareRatio, true
		}
		return 0, false
	}},
	{srcPlateBreakdown, func(q componentQuery) (float64, bool) {
		if b, ok := q.breakdown(); ok && b.ShareRatio != nil {
			return *b.ShareRatio, true
		}
		return 0, false
	}},
	{srcAreaRatio, func(q componentQuery) (float64, bool) {
		if q.comp.AreaRatio != nil {
			return *q.comp.AreaRatio, true
		}
		return 0, false
	}},
}

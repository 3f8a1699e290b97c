package models

// Severity is the classified impact of a dish on one organ.
type Severity string

const (
	SeverityNeutral Severity = "neutral"
	SeverityLow     Severity = "low"
	SeverityMedium  Severity = "medium"
	SeverityHigh    Severity = "high"
)

// AnalysisViewModel is the canonical, render-ready shape of a dish analysis.
type AnalysisViewModel struct {
	Allergens        []AllergenPill  `json:"allergens"`
	AllergenSentence *string         `json:"allergen_sentence"`
	Fodmap           FodmapView      `json:"fodmap"`
	Organs           []OrganView     `json:"organs"`
	Nutrition        Macros          `json:"nutrition"`
	NutritionSource  *string         `json:"nutrition_source"`
	DietTags         []string        `json:"diet_tags"`
	Portion          *PortionView    `json:"portion,omitempty"`
	PlateSummary     string          `json:"plate_summary,omitempty"`
	Components       []ComponentView `json:"components,omitempty"`
}

// AllergenPill is one allergen shown to the user.
type AllergenPill struct {
	Name      string `json:"name"`
	UserMatch bool   `json:"user_match"`
	Present   string `json:"present"`
}

// FodmapView summarizes the FODMAP load of a dish.
type FodmapView struct {
	Level    string   `json:"level,omitempty"`
	Sentence *string  `json:"sentence"`
	Triggers []string `json:"triggers"`
}

// LactoseView summarizes the lactose level of a plate component.
type LactoseView struct {
	Level  string `json:"level"`
	Reason string `json:"reason,omitempty"`
}

// OrganView is the per-organ entry of the view model.
type OrganView struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Score    *float64 `json:"score"`
	Level    string   `json:"level,omitempty"`
	Severity Severity `json:"severity"`
	Sentence string   `json:"sentence"`
}

// Macros holds calories plus macro- and micronutrients. Grams except sodium (mg).
type Macros struct {
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein_g"`
	Carbs    *float64 `json:"carbs_g"`
	Fat      *float64 `json:"fat_g"`
	Sugar    *float64 `json:"sugar_g"`
	Fiber    *float64 `json:"fiber_g"`
	Sodium   *float64 `json:"sodium_mg"`
}

// PortionView reports the portion multipliers applied to nutrition.
type PortionView struct {
	Manual    float64 `json:"manual"`
	AI        float64 `json:"ai"`
	Effective float64 `json:"effective"`
}

// ComponentView is one detected plate component with its own sub-results.
type ComponentView struct {
	ID         string         `json:"id,omitempty"`
	Label      string         `json:"label"`
	Role       string         `json:"role"`
	Category   string         `json:"category,omitempty"`
	ShareRatio *float64       `json:"share_ratio"`
	Nutrition  Macros         `json:"nutrition"`
	Allergens  []AllergenPill `json:"allergens"`
	Fodmap     *FodmapView    `json:"fodmap"`
	Lactose    *LactoseView   `json:"lactose"`
}

// AnalyzeRequest is sent to the remote analysis service.
type AnalyzeRequest struct {
	DishName          string `json:"dish_name"`
	RestaurantName    string `json:"restaurant_name,omitempty"`
	RestaurantAddress string `json:"restaurant_address,omitempty"`
	PlaceID           string `json:"place_id,omitempty"`
}

package reconcile

import (
	"strings"

	"github.com/pario-ai/dishcache/pkg/models"
)

func macros(n *Nutrition) models.Macros {
	if n == nil {
		return models.Macros{}
	}
	return models.Macros{
		Calories: n.Energy,
		Protein:  n.Protein,
		Carbs:    n.Carbs,
		Fat:      n.Fat,
		Sugar:    n.Sugar,
		Fiber:    n.Fiber,
		Sodium:   n.Sodium,
	}
}

func resolveNutrition(a *Analysis) models.Macros {
	n, _, _ := resolve(a, nutritionSources)
	return macros(n)
}

// nutritionSourceLabels maps source tags to the sentence shown to users.
var nutritionSourceLabels = map[string]string{
	"restaurant_label":                 "Nutrition from the restaurant's published label.",
	"restaurant_label_recipe_estimate": "Restaurant label, supplemented by a recipe-based estimate.",
	"recipe_provider":                  "Estimated from a matched recipe.",
	"nutrition_database":               "Estimated from a nutrition database match.",
	"ingredient_estimate":              "Estimated from individual ingredients.",
	"usda":                             "Estimated using USDA FoodData Central.",
}

const genericNutritionLabel = "Estimated nutrition."

func resolveNutritionSource(a *Analysis) *string {
	tag, _, ok := resolve(a, nutritionTagSources)
	if !ok {
		return nil
	}
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(tag)), "-", "_")
	label, known := nutritionSourceLabels[key]
	if !known {
		label = genericNutritionLabel
	}
	return &label
}

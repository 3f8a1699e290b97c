package reconcile

import (
	"slices"
	"sort"
	"strings"
)

// lifestyleLabels maps coded lifestyle tags to display labels.
var lifestyleLabels = map[string]string{
	"red_meat":           "Red meat",
	"processed_meat":     "Processed meat",
	"comfort_food":       "Comfort food",
	"high_sugar_dessert": "High-sugar dessert",
	"plant_forward":      "Plant-forward",
	"poultry":            "Poultry",
	"pork":               "Pork",
	"fish":               "Fish",
	"shellfish":          "Shellfish",
	"vegetarian":         "Vegetarian",
	"vegan":              "Vegan",
	"red_meat_free":      "Red meat free",
	"gluten_free":        "Gluten free",
	"dairy_free":         "Dairy free",
}

// dietPriority orders labels; unlisted labels follow in their original order.
var dietPriority = []string{
	"red meat",
	"processed meat",
	"comfort food",
	"high-sugar dessert",
	"plant-forward",
	"poultry",
	"pork",
	"fish",
	"shellfish",
}

// redMeatExcluded are removed when the dish contains red meat.
var redMeatExcluded = []string{"vegetarian", "vegan", "red meat free"}

func hasLabel(tags []string, label string) bool {
	return slices.ContainsFunc(tags, func(t string) bool { return strings.EqualFold(t, label) })
}

func dietRank(label string) int {
	if i := slices.Index(dietPriority, strings.ToLower(label)); i >= 0 {
		return i
	}
	return len(dietPriority)
}

func resolveDietTags(a *Analysis) []string {
	tags := []string{}
	for _, t := range a.DietTags {
		if !hasLabel(tags, t) {
			tags = append(tags, t)
		}
	}

	if lc := a.Lifestyle; lc != nil {
		if lc.ContainsRedMeat {
			tags = slices.DeleteFunc(tags, func(t string) bool {
				return slices.Contains(redMeatExcluded, strings.ToLower(t))
			})
		} else {
			if lc.Vegetarian && !hasLabel(tags, "Vegetarian") {
				tags = append(tags, "Vegetarian")
			}
			if lc.Vegan && !hasLabel(tags, "Vegan") {
				tags = append(tags, "Vegan")
			}
		}
	}

	for _, code := range a.LifestyleCodes {
		label, ok := lifestyleLabels[strings.ToLower(strings.TrimSpace(code))]
		if ok && !hasLabel(tags, label) {
			tags = append(tags, label)
		}
	}

	sort.SliceStable(tags, func(i, j int) bool {
		return dietRank(tags[i]) < dietRank(tags[j])
	})
	return tags
}

// Package reconcile turns raw dish analysis payloads, whatever backend path
// produced them, into one render-ready view model.
//
// Every output field is resolved through an ordered table of candidate
// sources in precedence.go; the first source the payload carries wins.
// Nothing here returns an error: missing or malformed input degrades to
// nil, empty or neutral values.
package reconcile

import "github.com/pario-ai/dishcache/pkg/models"

// Reconcile decodes raw and builds the view model for a user with the given
// allergens.
func Reconcile(raw []byte, userAllergens []string) models.AnalysisViewModel {
	return ReconcileAnalysis(Decode(raw), userAllergens)
}

// ReconcileAnalysis builds the view model from an already decoded analysis.
func ReconcileAnalysis(a *Analysis, userAllergens []string) models.AnalysisViewModel {
	if a == nil {
		a = &Analysis{}
	}

	vm := models.AnalysisViewModel{
		Fodmap:          resolveFodmap(a),
		Organs:          resolveOrgans(a),
		Nutrition:       resolveNutrition(a),
		NutritionSource: resolveNutritionSource(a),
		DietTags:        resolveDietTags(a),
		Portion:         resolvePortion(a),
	}
	vm.Allergens, vm.AllergenSentence = resolveAllergens(a, userAllergens)
	vm.Components, vm.PlateSummary = resolveComponents(a, userAllergens)

	if vm.PlateSummary != "" {
		clause := wholePlateClause(vm.PlateSummary)
		if vm.AllergenSentence != nil {
			s := *vm.AllergenSentence + clause
			vm.AllergenSentence = &s
		}
		if vm.Fodmap.Sentence != nil {
			s := *vm.Fodmap.Sentence + clause
			vm.Fodmap.Sentence = &s
		}
	}
	return vm
}

package reconcile

import (
	"fmt"
	"math"
	"strings"

	"github.com/pario-ai/dishcache/pkg/models"
)

const unknownRole = "unknown"

func factor(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 1
	}
	return *v
}

func resolvePortion(a *Analysis) *models.PortionView {
	if a.Portion == nil {
		return nil
	}
	p := &models.PortionView{
		Manual: factor(a.Portion.Manual),
		AI:     factor(a.Portion.AI),
	}
	p.Effective = p.Manual * p.AI
	if a.Portion.Effective != nil {
		p.Effective = *a.Portion.Effective
	}
	return p
}

// componentSelection finds the selection entry for the component at index:
// by id when the component has one, else by position.
func componentSelection(a *Analysis, index int, comp PlateComponent) *SelectionEntry {
	comps := a.Selection.Components
	if comp.ID != "" {
		for i := range comps {
			if comps[i].ComponentID == comp.ID {
				return &comps[i]
			}
		}
	}
	if index < len(comps) && comps[index].ComponentID == "" {
		return &comps[index]
	}
	return nil
}

func resolveComponents(a *Analysis, user []string) ([]models.ComponentView, string) {
	if len(a.PlateComponents) == 0 {
		return nil, ""
	}

	views := make([]models.ComponentView, 0, len(a.PlateComponents))
	summary := make([]string, 0, len(a.PlateComponents))
	for i, comp := range a.PlateComponents {
		q := componentQuery{a: a, index: i, comp: comp, sel: componentSelection(a, i, comp)}

		v := models.ComponentView{
			ID:        comp.ID,
			Label:     comp.Label,
			Role:      comp.Role,
			Category:  comp.Category,
			Allergens: []models.AllergenPill{},
		}
		if v.Label == "" {
			v.Label = comp.Category
		}
		if v.Label == "" {
			v.Label = fmt.Sprintf("Component %d", i+1)
		}
		if v.Role == "" {
			v.Role = comp.Category
		}
		if v.Role == "" {
			v.Role = unknownRole
		}

		n, _, _ := resolve(q, componentNutritionSources)
		v.Nutrition = macros(n)
		if share, _, ok := resolve(q, componentShareSources); ok {
			v.ShareRatio = &share
		}

		if q.sel != nil {
			v.Allergens = allergenPills(q.sel.AllergenFlags, user)
			if q.sel.Fodmap != nil {
				fv := fodmapView(*q.sel.Fodmap)
				v.Fodmap = &fv
			}
			if q.sel.Lactose != nil {
				v.Lactose = &models.LactoseView{
					Level:  strings.ToLower(q.sel.Lactose.Level),
					Reason: q.sel.Lactose.Reason,
				}
			}
		}

		views = append(views, v)
		if strings.EqualFold(v.Role, unknownRole) {
			summary = append(summary, v.Label)
		} else {
			summary = append(summary, fmt.Sprintf("%s (%s)", v.Label, v.Role))
		}
	}
	return views, strings.Join(summary, ", ")
}

// wholePlateClause is appended to sentences that describe a multi-component plate.
func wholePlateClause(summary string) string {
	return " This considers the whole plate, including: " + summary + "."
}

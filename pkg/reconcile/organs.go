package reconcile

import (
	"fmt"
	"strings"

	"github.com/pario-ai/dishcache/pkg/models"
)

type organDef struct {
	key     string
	label   string
	subject string
}

// coreOrgans are always reported, in this order.
var coreOrgans = []organDef{
	{"gut", "Gut", "gut"},
	{"liver", "Liver", "liver"},
	{"heart", "Heart", "heart"},
	{"metabolic", "Metabolic", "metabolism"},
	{"immune", "Immune", "immune system"},
	{"brain", "Brain", "brain"},
	{"kidney", "Kidneys", "kidneys"},
}

// extendedOrgans are reported after the core set when the payload covers any of them.
var extendedOrgans = []organDef{
	{"eyes", "Eyes", "eyes"},
	{"skin", "Skin", "skin"},
	{"bones", "Bones", "bones"},
	{"thyroid", "Thyroid", "thyroid"},
}

var organAliases = map[string]string{
	"kidneys":    "kidney",
	"eye":        "eyes",
	"bone":       "bones",
	"metabolism": "metabolic",
}

func organKey(raw string) string {
	k := strings.ToLower(strings.TrimSpace(raw))
	if alias, ok := organAliases[k]; ok {
		return alias
	}
	return k
}

// canonicalOrgans returns the organ set reported for a.
func canonicalOrgans(a *Analysis) []organDef {
	mentioned := map[string]bool{}
	for _, o := range a.Organs {
		mentioned[o.Key] = true
	}
	if a.Legacy != nil {
		for k := range a.Legacy.Organs {
			mentioned[k] = true
		}
	}
	for _, def := range extendedOrgans {
		if mentioned[def.key] {
			out := make([]organDef, 0, len(coreOrgans)+len(extendedOrgans))
			out = append(out, coreOrgans...)
			return append(out, extendedOrgans...)
		}
	}
	return coreOrgans
}

// classifyLevel maps a modern organ level to a severity. "mild" is medium here.
// A non-empty level it does not recognise is low, never neutral.
func classifyLevel(level string) models.Severity {
	l := strings.ToLower(strings.TrimSpace(level))
	switch {
	case l == "" || l == "neutral":
		return models.SeverityNeutral
	case strings.Contains(l, "high"), strings.Contains(l, "severe"):
		return models.SeverityHigh
	case strings.Contains(l, "moderate"), strings.Contains(l, "mild"), strings.Contains(l, "medium"):
		return models.SeverityMedium
	}
	// "low" and any other labelled level the table does not know.
	return models.SeverityLow
}

// classifyLegacyLevel maps a legacy summary level to a severity. "mild" is
// low here, unlike classifyLevel; existing clients depend on both.
func classifyLegacyLevel(level string) models.Severity {
	l := strings.ToLower(strings.TrimSpace(level))
	switch {
	case l == "" || l == "neutral":
		return models.SeverityNeutral
	case strings.Contains(l, "high"), strings.Contains(l, "severe"):
		return models.SeverityHigh
	case strings.Contains(l, "moderate"), strings.Contains(l, "medium"):
		return models.SeverityMedium
	}
	// "mild", "low" and unknown labels.
	return models.SeverityLow
}

func organSentence(def organDef, score *float64, sev models.Severity) string {
	switch {
	case score != nil && *score < 0:
		switch sev {
		case models.SeverityHigh:
			return fmt.Sprintf("May put significant stress on the %s.", def.subject)
		case models.SeverityMedium:
			return fmt.Sprintf("May put moderate stress on the %s.", def.subject)
		}
		return fmt.Sprintf("May put mild stress on the %s.", def.subject)
	case score != nil && *score > 0:
		switch sev {
		case models.SeverityHigh:
			return fmt.Sprintf("Strongly supports the %s.", def.subject)
		case models.SeverityMedium:
			return fmt.Sprintf("Supports the %s.", def.subject)
		}
		return fmt.Sprintf("Offers mild support for the %s.", def.subject)
	}
	return fmt.Sprintf("No notable effect on the %s.", def.subject)
}

func resolveOrgans(a *Analysis) []models.OrganView {
	defs := canonicalOrgans(a)
	out := make([]models.OrganView, 0, len(defs))
	for _, def := range defs {
		v := models.OrganView{Key: def.key, Label: def.label, Severity: models.SeverityNeutral}
		reading, src, ok := resolve(organQuery{a: a, key: def.key}, organSources)
		if ok {
			v.Score = reading.score
			v.Level = reading.level
			if src == srcModern {
				v.Severity = classifyLevel(reading.level)
			} else {
				v.Severity = classifyLegacyLevel(reading.level)
			}
		}
		v.Sentence = organSentence(def, v.Score, v.Severity)
		for _, r := range reading.reasons {
			if r = strings.TrimSpace(r); r != "" {
				v.Sentence = r
				break
			}
		}
		out = append(out, v)
	}
	return out
}

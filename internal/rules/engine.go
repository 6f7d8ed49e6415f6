// Package rules holds the shared rule-evaluation helpers used by the
// ingest matcher and the config distributor: bound checking against an
// observation, triggering-face selection, and CV config normalization.
package rules

import "github.com/your-org/vigil/internal/models"

// Matches reports whether every non-nil bound of r holds for the
// observation's aggregate counts. All comparisons are inclusive: >= for
// min bounds, <= for max bounds. A nil bound is satisfied trivially.
func Matches(r *models.Rule, obs *models.AudienceProfile) bool {
	if !intInBounds(obs.PeopleCount, r.MinPeople, r.MaxPeople) {
		return false
	}
	if !intInBounds(obs.MaleCount, r.MinMales, r.MaxMales) {
		return false
	}
	if !intInBounds(obs.FemaleCount, r.MinFemales, r.MaxFemales) {
		return false
	}
	if !floatInBounds(obs.AvgAge, r.MinAvgAge, r.MaxAvgAge) {
		return false
	}
	if !floatInBounds(obs.DwellTimeSec, r.MinDwellSec, r.MaxDwellSec) {
		return false
	}
	return true
}

// FirstMatch walks rules in the given order (the store returns them
// priority-descending, rule id ascending) and returns the first full
// match, or nil when no rule matches.
func FirstMatch(rules []models.Rule, obs *models.AudienceProfile) *models.Rule {
	for i := range rules {
		if Matches(&rules[i], obs) {
			return &rules[i]
		}
	}
	return nil
}

// SelectTriggeringFace picks the face whose cooldown gates a trigger:
// a newly-seen face with an external id is preferred, then any face with
// an external id. Returns nil when no face carries an external id.
func SelectTriggeringFace(faces []models.Face) *models.Face {
	var fallback *models.Face
	for i := range faces {
		f := &faces[i]
		if f.ExternalID == "" {
			continue
		}
		if f.IsNew {
			return f
		}
		if fallback == nil {
			fallback = f
		}
	}
	return fallback
}

func intInBounds(v int, min, max *int) bool {
	if min != nil && v < *min {
		return false
	}
	if max != nil && v > *max {
		return false
	}
	return true
}

func floatInBounds(v float64, min, max *float64) bool {
	if min != nil && v < *min {
		return false
	}
	if max != nil && v > *max {
		return false
	}
	return true
}

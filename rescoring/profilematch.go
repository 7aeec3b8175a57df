package rescoring

import (
	"strings"

	"github.com/poiesic/clinrank/core"
	"github.com/poiesic/clinrank/retrieval"
)

// matchProfile scores a candidate against a structured ideal profile and
// fills in the profile breakdown counts. Hits add by criterion level, a
// missed required criterion subtracts RequiredMiss, and avoid-list hits
// subtract AvoidHit. A candidate matching nothing and avoiding nothing
// scores exactly zero.
func (e *Engine) matchProfile(id core.ID, normDoc string, c *core.Candidate, profile *core.IdealProfile, bd *core.Breakdown) float64 {
	w := e.cfg.Profile
	score := 0.0

	criteria := make([]core.Criterion, 0,
		len(profile.Subspecialties)+len(profile.Procedures)+len(profile.Conditions)+
			len(profile.ExpertiseAreas)+len(profile.DescriptionKeywords)+len(profile.Qualifications))
	criteria = append(criteria, profile.Subspecialties...)
	criteria = append(criteria, profile.Procedures...)
	criteria = append(criteria, profile.Conditions...)
	criteria = append(criteria, profile.ExpertiseAreas...)
	criteria = append(criteria, profile.DescriptionKeywords...)
	criteria = append(criteria, profile.Qualifications...)

	for _, criterion := range criteria {
		if criterionMatches(normDoc, c, criterion.Value) {
			switch criterion.Level {
			case core.LevelRequired:
				bd.ProfileRequiredHits++
				score += w.RequiredHit
			case core.LevelPreferred:
				bd.ProfilePreferredHits++
				score += w.PreferredHit
			default:
				bd.ProfileOptionalHits++
				score += w.OptionalHit
			}
			continue
		}
		if criterion.Level == core.LevelRequired {
			bd.ProfileMissedRequired++
			score -= w.RequiredMiss
		}
	}

	// Soft demographic preferences count as optional hits.
	if profile.AgeGroup != "" && matchesList(c.AgeGroups, profile.AgeGroup) {
		bd.ProfileOptionalHits++
		score += w.OptionalHit
	}
	for _, lang := range profile.Languages {
		if matchesList(c.Languages, lang) {
			bd.ProfileOptionalHits++
			score += w.OptionalHit
		}
	}
	if profile.Gender != "" && strings.EqualFold(strings.TrimSpace(c.Gender), strings.TrimSpace(profile.Gender)) {
		bd.ProfileOptionalHits++
		score += w.OptionalHit
	}

	hits := bd.ProfileRequiredHits + bd.ProfilePreferredHits + bd.ProfileOptionalHits
	if hits > 0 {
		e.monitor.BoostApplied(id, CategoryProfile, hits, score)
	}
	if bd.ProfileMissedRequired > 0 {
		e.monitor.PenaltyApplied(id, CategoryProfile, bd.ProfileMissedRequired, -w.RequiredMiss*float64(bd.ProfileMissedRequired))
	}

	for _, avoid := range profile.Avoid {
		if criterionMatches(normDoc, c, avoid) {
			bd.ProfileAvoidHits++
			score -= w.AvoidHit
		}
	}
	if bd.ProfileAvoidHits > 0 {
		e.monitor.PenaltyApplied(id, CategoryAvoid, bd.ProfileAvoidHits, -w.AvoidHit*float64(bd.ProfileAvoidHits))
	}

	return score
}

// criterionMatches is the fuzzy matching primitive for profile scoring.
// Short values (under four characters once normalized) match the
// projected text on word boundaries only, which keeps two-letter
// abbreviations from firing inside unrelated longer words. Longer values
// match by containment against the projected text, or either-direction
// containment against the candidate's discrete list fields.
func criterionMatches(normDoc string, c *core.Candidate, value string) bool {
	normVal := retrieval.NormalizeText(value)
	if normVal == "" {
		return false
	}
	if len(normVal) < 4 {
		return strings.Contains(" "+normDoc+" ", " "+normVal+" ")
	}
	if strings.Contains(normDoc, normVal) {
		return true
	}
	if c == nil {
		return false
	}
	fields := make([]string, 0, 8)
	fields = append(fields, c.Subspecialties...)
	fields = append(fields, c.ProcedureGroups...)
	fields = append(fields, c.Memberships...)
	if c.Checklist != nil {
		fields = append(fields, c.Checklist.Procedures...)
		fields = append(fields, c.Checklist.Conditions...)
		fields = append(fields, c.Checklist.Interests...)
	}
	for _, f := range fields {
		normField := retrieval.NormalizeText(f)
		if normField == "" {
			continue
		}
		if strings.Contains(normField, normVal) || strings.Contains(normVal, normField) {
			return true
		}
	}
	return false
}

// matchesList reports a case-insensitive, substring-tolerant match of
// want against any entry in the list.
func matchesList(list []string, want string) bool {
	wantNorm := strings.ToLower(strings.TrimSpace(want))
	if wantNorm == "" {
		return false
	}
	for _, item := range list {
		itemNorm := strings.ToLower(strings.TrimSpace(item))
		if itemNorm == "" {
			continue
		}
		if strings.Contains(itemNorm, wantNorm) || strings.Contains(wantNorm, itemNorm) {
			return true
		}
	}
	return false
}

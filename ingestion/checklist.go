package ingestion

import (
	"github.com/poiesic/clinrank/core"
	"github.com/poiesic/clinrank/retrieval"
)

// BuildChecklist precomputes the checklist profile for a candidate from its
// structured expertise blob and procedure groups. Values are normalized so
// downstream matchers can compare without re-normalizing. Returns nil when
// the profile carries no checklist-worthy data.
func BuildChecklist(c *core.Candidate) *core.ChecklistProfile {
	parts, ok := retrieval.ParseExpertise(c.ClinicalExpertise)

	checklist := &core.ChecklistProfile{}
	if ok {
		checklist.Procedures = normalizeAll(parts.Procedures)
		checklist.Conditions = normalizeAll(parts.Conditions)
		checklist.Interests = normalizeAll(parts.Interests)
	}
	checklist.Procedures = append(checklist.Procedures, normalizeAll(c.ProcedureGroups)...)

	if len(checklist.Procedures) == 0 && len(checklist.Conditions) == 0 && len(checklist.Interests) == 0 {
		return nil
	}
	return checklist
}

func normalizeAll(values []string) []string {
	var out []string
	for _, v := range values {
		if normalized := retrieval.NormalizeText(v); normalized != "" {
			out = append(out, normalized)
		}
	}
	return out
}

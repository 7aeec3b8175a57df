package retrieval

import (
	"sort"
	"strings"
)

// maxAliasExpansions caps how many aliases a single query may receive.
const maxAliasExpansions = 2

// AppliedAlias records one alias expansion applied to a query.
type AppliedAlias struct {
	From string
	To   string
}

// NormalizedQuery is the result of bounded alias expansion. Expanded always
// contains the original query text; expansions are appended, never
// substituted, so the original phrasing keeps its full lexical weight.
type NormalizedQuery struct {
	Original string
	Expanded string
	Applied  []AppliedAlias
}

// NormalizeQuery expands a raw query with at most two equivalence aliases
// from the fixed table. Matching is case-insensitive, punctuation-normalized
// and word-boundary only. When more aliases match than the cap allows, the
// longer matched term wins, then the lower priority tier, then table order.
func NormalizeQuery(raw string) NormalizedQuery {
	result := NormalizedQuery{Original: raw, Expanded: raw}
	norm := NormalizeText(raw)
	if norm == "" {
		return result
	}
	padded := " " + norm + " "

	present := func(phrase string) bool {
		return strings.Contains(padded, " "+NormalizeText(phrase)+" ")
	}
	gateOpen := func(e aliasEntry) bool {
		if len(e.requires) == 0 {
			return true
		}
		for _, companion := range e.requires {
			if present(companion) {
				return true
			}
		}
		return false
	}

	type application struct {
		alias      AppliedAlias
		matchedLen int
		priority   int
	}
	var candidates []application

	for _, e := range aliasTable {
		switch {
		case present(e.term) && !present(e.expansion) && gateOpen(e):
			candidates = append(candidates, application{
				alias:      AppliedAlias{From: e.term, To: e.expansion},
				matchedLen: len(e.term),
				priority:   e.priority,
			})
		case present(e.expansion) && !present(e.term):
			candidates = append(candidates, application{
				alias:      AppliedAlias{From: e.expansion, To: e.term},
				matchedLen: len(e.expansion),
				priority:   e.priority,
			})
		}
	}

	// Specificity first (longer matched term), then priority tier; stable
	// keeps table order for exact ties.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].matchedLen != candidates[j].matchedLen {
			return candidates[i].matchedLen > candidates[j].matchedLen
		}
		return candidates[i].priority < candidates[j].priority
	})

	if len(candidates) > maxAliasExpansions {
		candidates = candidates[:maxAliasExpansions]
	}

	for _, c := range candidates {
		result.Applied = append(result.Applied, c.alias)
		result.Expanded += " " + c.alias.To
	}
	return result
}

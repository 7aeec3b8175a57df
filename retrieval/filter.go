// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package retrieval

import (
	"strings"

	"github.com/poiesic/clinrank/core"
)

// paediatricTerms are treated as one synonym group when matching the
// age-group constraint against a candidate's declared age groups.
var paediatricTerms = map[string]bool{
	"children":    true,
	"child":       true,
	"kids":        true,
	"paediatric":  true,
	"pediatric":   true,
	"paediatrics": true,
	"pediatrics":  true,
}

// ApplyFilters returns the candidates from pool that satisfy every
// constraint in f. Empty constraint fields match everything. The input
// slice is never mutated; the result is a fresh slice and may be empty.
func ApplyFilters(pool []*core.Candidate, f core.Filters) []*core.Candidate {
	out := make([]*core.Candidate, 0, len(pool))
	for _, c := range pool {
		if c == nil {
			continue
		}
		if !matchesAgeGroup(c, f.AgeGroup) {
			continue
		}
		if !matchesLanguages(c, f.Languages) {
			continue
		}
		if !matchesGender(c, f.Gender) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matchesAgeGroup(c *core.Candidate, want string) bool {
	if want == "" {
		return true
	}
	wantNorm := strings.ToLower(strings.TrimSpace(want))
	wantPaed := paediatricTerms[wantNorm]
	for _, g := range c.AgeGroups {
		gNorm := strings.ToLower(strings.TrimSpace(g))
		if gNorm == wantNorm {
			return true
		}
		if wantPaed && paediatricTerms[gNorm] {
			return true
		}
	}
	return false
}

// matchesLanguages requires every requested language to be spoken by the
// candidate. Matching is case-insensitive and substring-tolerant in both
// directions so "English" pairs with "English (native)".
func matchesLanguages(c *core.Candidate, want []string) bool {
	for _, w := range want {
		wNorm := strings.ToLower(strings.TrimSpace(w))
		if wNorm == "" {
			continue
		}
		found := false
		for _, l := range c.Languages {
			lNorm := strings.ToLower(strings.TrimSpace(l))
			if lNorm == "" {
				continue
			}
			if strings.Contains(lNorm, wNorm) || strings.Contains(wNorm, lNorm) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func matchesGender(c *core.Candidate, want string) bool {
	if want == "" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(c.Gender), strings.TrimSpace(want))
}

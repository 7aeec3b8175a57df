package retrieval

import (
	"math"
	"sort"
	"strings"
)

// ScoredDocument is a projected document together with its Stage A score
// and the exact-match signals that contributed to it.
type ScoredDocument struct {
	Document
	Score         float64
	ExactMatch    bool
	BigramMatches int
}

// QualityWeights control the multiplicative boost applied to the BM25
// score based on a candidate's rating, review volume, experience, and
// verification status. The tiers within each signal are mutually
// exclusive; the factor is 1 plus the sum of the applicable increments.
type QualityWeights struct {
	RatingTier1 float64 // rating >= 4.8 and reviews >= 50
	RatingTier2 float64 // rating >= 4.5 and reviews >= 20
	RatingTier3 float64 // rating >= 4.0 and reviews >= 5
	Veteran     float64 // years of experience >= 20
	Experienced float64 // years of experience >= 10
	Verified    float64
}

// DefaultQualityWeights returns the standard quality boost tiers.
func DefaultQualityWeights() QualityWeights {
	return QualityWeights{
		RatingTier1: 0.15,
		RatingTier2: 0.10,
		RatingTier3: 0.05,
		Veteran:     0.05,
		Experienced: 0.03,
		Verified:    0.02,
	}
}

// Factor computes the quality multiplier for a candidate's signals.
func (q QualityWeights) Factor(rating float64, reviews, years int, verified bool) float64 {
	boost := 0.0
	switch {
	case rating >= 4.8 && reviews >= 50:
		boost += q.RatingTier1
	case rating >= 4.5 && reviews >= 20:
		boost += q.RatingTier2
	case rating >= 4.0 && reviews >= 5:
		boost += q.RatingTier3
	}
	switch {
	case years >= 20:
		boost += q.Veteran
	case years >= 10:
		boost += q.Experienced
	}
	if verified {
		boost += q.Verified
	}
	return 1.0 + boost
}

// ExactMatchWeights control the additive bonuses for whole-query and
// bigram phrase matches against the projected document text.
type ExactMatchWeights struct {
	ExactQueryBonus float64
	BigramBonus     float64
	BigramCap       float64
}

// DefaultExactMatchWeights returns the standard exact-match bonuses.
func DefaultExactMatchWeights() ExactMatchWeights {
	return ExactMatchWeights{
		ExactQueryBonus: 1.0,
		BigramBonus:     0.25,
		BigramCap:       1.0,
	}
}

// Scorer ranks projected documents against a query using BM25 over the
// weight-duplicated text, adjusted by quality boosts and exact-match
// bonuses. A Scorer is immutable after construction and safe for
// concurrent use.
type Scorer struct {
	k1      float64
	b       float64
	quality QualityWeights
	exact   ExactMatchWeights
}

// NewScorer constructs a Scorer with the given BM25 parameters.
func NewScorer(k1, b float64, quality QualityWeights, exact ExactMatchWeights) *Scorer {
	return &Scorer{k1: k1, b: b, quality: quality, exact: exact}
}

// Rank scores every document against the query and returns them in
// descending score order. Ties preserve input order. The result always
// has exactly one entry per input document and every score is >= 0.
func (s *Scorer) Rank(docs []Document, query string) []ScoredDocument {
	out := make([]ScoredDocument, 0, len(docs))
	if len(docs) == 0 {
		return out
	}

	queryTokens := uniqueTokens(tokenize(query))
	rawQueryTokens := tokenize(query)
	normQuery := strings.Join(rawQueryTokens, " ")

	docTokens := make([][]string, len(docs))
	totalLen := 0
	for i, d := range docs {
		docTokens[i] = tokenize(d.Text)
		totalLen += len(docTokens[i])
	}
	avgdl := float64(totalLen) / float64(len(docs))

	// Document frequency per query term, computed once over the pool.
	df := make(map[string]float64, len(queryTokens))
	for _, dt := range docTokens {
		present := make(map[string]bool, len(queryTokens))
		for _, t := range dt {
			present[t] = true
		}
		for _, q := range queryTokens {
			if present[q] {
				df[q]++
			}
		}
	}

	n := float64(len(docs))
	for i, d := range docs {
		sd := ScoredDocument{Document: d}

		base := 0.0
		if avgdl > 0 && len(queryTokens) > 0 {
			base = s.bm25(docTokens[i], queryTokens, df, n, avgdl)
		}

		factor := 1.0
		if d.Candidate != nil {
			factor = s.quality.Factor(
				d.Candidate.Rating,
				d.Candidate.ReviewCount,
				d.Candidate.YearsExperience,
				d.Candidate.Verified,
			)
		}

		normDoc := strings.Join(docTokens[i], " ")
		sd.ExactMatch, sd.BigramMatches = exactSignals(normDoc, normQuery, rawQueryTokens)

		bonus := 0.0
		if sd.ExactMatch {
			bonus += s.exact.ExactQueryBonus
		}
		bigramBonus := float64(sd.BigramMatches) * s.exact.BigramBonus
		if bigramBonus > s.exact.BigramCap {
			bigramBonus = s.exact.BigramCap
		}
		bonus += bigramBonus

		score := base*factor + bonus
		if score < 0 {
			score = 0
		}
		sd.Score = score
		out = append(out, sd)
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Score > out[b].Score
	})
	return out
}

func (s *Scorer) bm25(tokens, queryTokens []string, df map[string]float64, n, avgdl float64) float64 {
	tf := make(map[string]float64, len(queryTokens))
	for _, t := range tokens {
		tf[t]++
	}
	dl := float64(len(tokens))

	score := 0.0
	for _, q := range queryTokens {
		f := tf[q]
		if f == 0 {
			continue
		}
		// Clamped so terms appearing in most documents contribute
		// nothing rather than a negative amount.
		idf := math.Log((n - df[q] + 0.5) / (df[q] + 0.5))
		if idf < 0 {
			idf = 0
		}
		score += idf * (f * (s.k1 + 1)) / (f + s.k1*(1-s.b+s.b*dl/avgdl))
	}
	return score
}

// exactSignals reports whether the whole normalized query appears as a
// phrase in the document and how many query bigrams appear.
func exactSignals(normDoc, normQuery string, queryTokens []string) (bool, int) {
	padded := " " + normDoc + " "

	exact := false
	if normQuery != "" && strings.Contains(padded, " "+normQuery+" ") {
		exact = true
	}

	bigrams := 0
	for i := 0; i+1 < len(queryTokens); i++ {
		if strings.Contains(padded, " "+queryTokens[i]+" "+queryTokens[i+1]+" ") {
			bigrams++
		}
	}
	return exact, bigrams
}

func uniqueTokens(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

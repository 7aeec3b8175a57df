package rank

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/clinrank/core"
)

func svtFixturePool() []*core.Candidate {
	return []*core.Candidate{
		{
			Id:                1,
			Name:              "Dr Arrhythmia",
			Specialty:         "Cardiology",
			Subspecialties:    []string{"Electrophysiology"},
			ClinicalExpertise: "Procedures: SVT ablation, catheter ablation; Conditions: supraventricular tachycardia",
			Description:       "Specialist in electrophysiology and SVT ablation.",
		},
		{
			Id:          2,
			Name:        "Dr Coronary",
			Specialty:   "Cardiology",
			Description: "Performs coronary angiography and stenting.",
		},
		{
			Id:          3,
			Name:        "Dr Unrelated",
			Specialty:   "Dermatology",
			Description: "Treats acne and eczema.",
		},
	}
}

func svtBundle() *core.QueryBundle {
	return &core.QueryBundle{
		PatientQuery:  "SVT ablation",
		AnchorPhrases: []string{"SVT ablation"},
		NegativeTerms: []string{"coronary angiography"},
		Strategy:      core.StrategyTermBoost,
	}
}

func newTestRanker(t *testing.T, opts ...Option) *Ranker {
	t.Helper()
	r, err := NewRanker(DefaultWeights(), opts...)
	require.NoError(t, err)
	return r
}

func TestRanker_Rank_SVTScenario(t *testing.T) {
	r := newTestRanker(t)
	out, diag, err := r.Rank(context.Background(), svtFixturePool(), svtBundle(), 0)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, core.ID(1), out[0].Candidate.Id)
	assert.Equal(t, core.ID(2), out[1].Candidate.Id)
	assert.Equal(t, core.ID(3), out[2].Candidate.Id)

	assert.GreaterOrEqual(t, out[0].Breakdown.AnchorMatches, 1)
	assert.GreaterOrEqual(t, out[1].Breakdown.NegativeMatches, 1)
	assert.Zero(t, out[2].Breakdown.AnchorMatches)
	assert.Zero(t, out[2].Breakdown.NegativeMatches)
	assert.Greater(t, out[0].FinalScore, out[1].FinalScore)
	assert.GreaterOrEqual(t, out[1].FinalScore, out[2].FinalScore)

	require.NotNil(t, diag)
	assert.Equal(t, 3, diag.PoolSize)
	require.Len(t, diag.AppliedAliases, 1)
	assert.Equal(t, "svt", diag.AppliedAliases[0].From)
}

func TestRanker_Rank_Idempotent(t *testing.T) {
	r := newTestRanker(t)
	pool := svtFixturePool()
	bundle := svtBundle()

	first, _, err := r.Rank(context.Background(), pool, bundle, 0)
	require.NoError(t, err)
	second, _, err := r.Rank(context.Background(), pool, bundle, 0)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Candidate.Id, second[i].Candidate.Id)
		assert.Equal(t, first[i].FinalScore, second[i].FinalScore)
		assert.Equal(t, first[i].LexicalScore, second[i].LexicalScore)
		assert.Equal(t, first[i].Breakdown, second[i].Breakdown)
	}
}

func TestRanker_Rank(t *testing.T) {
	t.Run("rejects invalid bundle", func(t *testing.T) {
		r := newTestRanker(t)
		_, _, err := r.Rank(context.Background(), svtFixturePool(), &core.QueryBundle{}, 0)
		assert.ErrorIs(t, err, core.ErrEmptyPatientQuery)
	})

	t.Run("rejects cancelled context", func(t *testing.T) {
		r := newTestRanker(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := r.Rank(ctx, svtFixturePool(), svtBundle(), 0)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("limit truncates", func(t *testing.T) {
		r := newTestRanker(t)
		out, _, err := r.Rank(context.Background(), svtFixturePool(), svtBundle(), 1)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, core.ID(1), out[0].Candidate.Id)
	})

	t.Run("empty pool is valid", func(t *testing.T) {
		r := newTestRanker(t)
		out, diag, err := r.Rank(context.Background(), nil, svtBundle(), 0)
		require.NoError(t, err)
		assert.Empty(t, out)
		assert.Zero(t, diag.PoolSize)
	})

	t.Run("filters applied before scoring", func(t *testing.T) {
		pool := svtFixturePool()
		pool[0].Gender = "female"
		pool[1].Gender = "male"
		pool[2].Gender = "male"

		r := newTestRanker(t)
		bundle := svtBundle()
		bundle.Filters = core.Filters{Gender: "female"}
		out, diag, err := r.Rank(context.Background(), pool, bundle, 0)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, core.ID(1), out[0].Candidate.Id)
		assert.Equal(t, 1, diag.FilteredSize)
	})

	t.Run("no signals falls back to lexical order", func(t *testing.T) {
		r := newTestRanker(t)
		bundle := &core.QueryBundle{PatientQuery: "SVT ablation"}
		out, _, err := r.Rank(context.Background(), svtFixturePool(), bundle, 0)
		require.NoError(t, err)
		require.Len(t, out, 3)
		assert.Equal(t, core.ID(1), out[0].Candidate.Id)
		for _, res := range out {
			assert.Nil(t, res.RescoreScore)
			assert.Equal(t, res.LexicalScore, res.FinalScore)
		}
	})

	t.Run("pool not mutated", func(t *testing.T) {
		pool := svtFixturePool()
		snapshot := make([]core.Candidate, len(pool))
		for i, c := range pool {
			snapshot[i] = *c
		}
		r := newTestRanker(t)
		_, _, err := r.Rank(context.Background(), pool, svtBundle(), 0)
		require.NoError(t, err)
		for i, c := range pool {
			assert.Equal(t, snapshot[i], *c)
		}
	})
}

func TestRanker_Retrieve(t *testing.T) {
	t.Run("stage A truncation", func(t *testing.T) {
		w := DefaultWeights()
		w.StageATopN = 2
		r, err := NewRanker(w)
		require.NoError(t, err)

		docs, diag := r.Retrieve(svtFixturePool(), svtBundle())
		assert.Len(t, docs, 2)
		assert.Equal(t, 2, diag.RetrievedSize)
	})

	t.Run("safe lane terms capped in retrieval query", func(t *testing.T) {
		r := newTestRanker(t)
		bundle := svtBundle()
		bundle.SafeLaneTerms = []string{"palpitations", "racing heart", "dizziness"}
		_, diag := r.Retrieve(svtFixturePool(), bundle)
		assert.Contains(t, diag.RetrievalQuery, "palpitations")
		assert.Contains(t, diag.RetrievalQuery, "racing heart")
		assert.NotContains(t, diag.RetrievalQuery, "dizziness")
	})

	t.Run("intent terms excluded from retrieval by default", func(t *testing.T) {
		r := newTestRanker(t)
		bundle := svtBundle()
		bundle.IntentTerms = []string{"electrophysiology"}
		_, diag := r.Retrieve(svtFixturePool(), bundle)
		assert.NotContains(t, diag.RetrievalQuery, "electrophysiology")
		assert.Contains(t, diag.RescoringTerms, "electrophysiology")
	})

	t.Run("retrieval negative penalty can reorder stage A", func(t *testing.T) {
		w := DefaultWeights()
		w.RetrievalNegativePenalty = 100
		r, err := NewRanker(w)
		require.NoError(t, err)

		docs, _ := r.Retrieve(svtFixturePool(), svtBundle())
		require.NotEmpty(t, docs)
		for _, d := range docs {
			if d.Candidate.Id == 2 {
				assert.Zero(t, d.Score)
			}
		}
	})

	t.Run("union retrieval keeps best score per candidate", func(t *testing.T) {
		w := DefaultWeights()
		w.UnionRetrieval = true
		r, err := NewRanker(w)
		require.NoError(t, err)

		bundle := svtBundle()
		bundle.IntentTerms = []string{"coronary angiography"}
		docs, _ := r.Retrieve(svtFixturePool(), bundle)
		require.Len(t, docs, 3)
		// The union pass must never lower anyone's score; Dr Coronary
		// gains from the second query while Dr Arrhythmia keeps the
		// first-pass score.
		single, _ := newTestRanker(t).Retrieve(svtFixturePool(), svtBundle())
		byID := map[core.ID]float64{}
		for _, d := range single {
			byID[d.Candidate.Id] = d.Score
		}
		for _, d := range docs {
			assert.GreaterOrEqual(t, d.Score, byID[d.Candidate.Id])
		}
	})
}

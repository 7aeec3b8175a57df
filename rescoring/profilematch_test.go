package rescoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/clinrank/core"
	"github.com/poiesic/clinrank/retrieval"
)

func profileBundle(profile *core.IdealProfile) *core.QueryBundle {
	return &core.QueryBundle{
		PatientQuery: "q",
		IdealProfile: profile,
		Strategy:     core.StrategyIdealProfileMatch,
	}
}

func TestEngine_Rescore_IdealProfile(t *testing.T) {
	e := newTestEngine(t)

	t.Run("required hits outscore preferred", func(t *testing.T) {
		docs := []retrieval.ScoredDocument{
			scoredDoc(1, "required", "cardiac electrophysiology service", 1.0),
			scoredDoc(2, "preferred", "heart rhythm follow up clinic", 1.0),
		}
		profile := &core.IdealProfile{
			Subspecialties: []core.Criterion{
				{Value: "electrophysiology", Level: core.LevelRequired},
			},
			DescriptionKeywords: []core.Criterion{
				{Value: "heart rhythm", Level: core.LevelPreferred},
			},
		}
		out := e.Rescore(docs, profileBundle(profile))
		require.Len(t, out, 2)
		assert.Equal(t, core.ID(1), out[0].Candidate.Id)
		assert.Equal(t, 1, out[0].Breakdown.ProfileRequiredHits)
		assert.Equal(t, 1, out[1].Breakdown.ProfilePreferredHits)
	})

	t.Run("missed required is a penalty", func(t *testing.T) {
		docs := []retrieval.ScoredDocument{
			scoredDoc(1, "a", "dermatology clinic", 2.0),
		}
		profile := &core.IdealProfile{
			Procedures: []core.Criterion{
				{Value: "catheter ablation", Level: core.LevelRequired},
			},
		}
		out := e.Rescore(docs, profileBundle(profile))
		require.NotNil(t, out[0].RescoreScore)
		assert.InDelta(t, -0.75, *out[0].RescoreScore, 1e-9)
		assert.InDelta(t, 2.0-0.75, out[0].FinalScore, 1e-9)
		assert.Equal(t, 1, out[0].Breakdown.ProfileMissedRequired)
	})

	t.Run("avoid hits subtract", func(t *testing.T) {
		docs := []retrieval.ScoredDocument{
			scoredDoc(1, "a", "cosmetic surgery practice", 3.0),
		}
		profile := &core.IdealProfile{
			Avoid: []string{"cosmetic surgery"},
		}
		out := e.Rescore(docs, profileBundle(profile))
		assert.Equal(t, 1, out[0].Breakdown.ProfileAvoidHits)
		assert.InDelta(t, 3.0-1.0, out[0].FinalScore, 1e-9)
	})

	t.Run("zero matches and no avoid scores exactly lexical", func(t *testing.T) {
		docs := []retrieval.ScoredDocument{
			scoredDoc(1, "a", "dermatology clinic", 2.5),
		}
		profile := &core.IdealProfile{
			Conditions: []core.Criterion{
				{Value: "atrial fibrillation", Level: core.LevelOptional},
			},
			Avoid: []string{"cosmetic surgery"},
		}
		out := e.Rescore(docs, profileBundle(profile))
		require.NotNil(t, out[0].RescoreScore)
		assert.Zero(t, *out[0].RescoreScore)
		assert.InDelta(t, 2.5, out[0].FinalScore, 1e-9)
	})

	t.Run("soft demographic preferences count as optional hits", func(t *testing.T) {
		c := &core.Candidate{
			Id:        1,
			Name:      "a",
			Gender:    "female",
			Languages: []string{"Spanish"},
			AgeGroups: []string{"adults"},
		}
		docs := []retrieval.ScoredDocument{
			{Document: retrieval.Document{Candidate: c, Text: "general practice"}, Score: 1.0},
		}
		profile := &core.IdealProfile{
			Gender:    "Female",
			Languages: []string{"spanish"},
			AgeGroup:  "adults",
		}
		out := e.Rescore(docs, profileBundle(profile))
		assert.Equal(t, 3, out[0].Breakdown.ProfileOptionalHits)
		assert.InDelta(t, 1.0+3*0.25, out[0].FinalScore, 1e-9)
	})

	t.Run("either direction containment against list fields", func(t *testing.T) {
		c := &core.Candidate{
			Id:             1,
			Name:           "a",
			Subspecialties: []string{"Paediatric cardiology and congenital heart disease"},
		}
		docs := []retrieval.ScoredDocument{
			{Document: retrieval.Document{Candidate: c, Text: "clinic"}, Score: 0},
		}
		profile := &core.IdealProfile{
			Subspecialties: []core.Criterion{
				{Value: "paediatric cardiology", Level: core.LevelPreferred},
			},
		}
		out := e.Rescore(docs, profileBundle(profile))
		assert.Equal(t, 1, out[0].Breakdown.ProfilePreferredHits)
	})

	t.Run("short values need word boundaries", func(t *testing.T) {
		docs := []retrieval.ScoredDocument{
			scoredDoc(1, "a", "massage therapy practice", 1.0),
		}
		profile := &core.IdealProfile{
			ExpertiseAreas: []core.Criterion{
				{Value: "ms", Level: core.LevelOptional},
			},
		}
		out := e.Rescore(docs, profileBundle(profile))
		assert.Zero(t, out[0].Breakdown.ProfileOptionalHits)
	})

	t.Run("missing profile falls back to term boost", func(t *testing.T) {
		docs := []retrieval.ScoredDocument{
			scoredDoc(1, "a", "catheter ablation", 1.0),
		}
		bundle := &core.QueryBundle{
			PatientQuery: "q",
			IntentTerms:  []string{"ablation"},
			Strategy:     core.StrategyIdealProfileMatch,
		}
		out := e.Rescore(docs, bundle)
		require.Len(t, out, 1)
		assert.Nil(t, out[0].RescoreScore)
		assert.InDelta(t, 3.0, out[0].FinalScore, 1e-9)
	})
}

func TestCriterionMatches(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		c     *core.Candidate
		value string
		want  bool
	}{
		{"containment in text", "catheter ablation service", nil, "ablation", true},
		{"no match", "dermatology clinic", nil, "ablation", false},
		{"short value word boundary blocks substring", "massage clinic", nil, "ms", false},
		{"short value word boundary matches token", "ms clinic", nil, "ms", true},
		{"empty value", "anything", nil, "", false},
		{
			"checklist fields searched",
			"clinic",
			&core.Candidate{Checklist: &core.ChecklistProfile{Procedures: []string{"catheter ablation for svt"}}},
			"catheter ablation",
			true,
		},
		{
			"checklist miss",
			"clinic",
			&core.Candidate{Checklist: &core.ChecklistProfile{Procedures: []string{"knee arthroscopy"}}},
			"catheter ablation",
			false,
		},
		{
			"field contained in value",
			"clinic",
			&core.Candidate{ProcedureGroups: []string{"ablation"}},
			"catheter ablation",
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := criterionMatches(retrieval.NormalizeText(tt.doc), tt.c, tt.value)
			assert.Equal(t, tt.want, got)
		})
	}
}

package clinrank

import (
	"context"
	"testing"

	"github.com/poiesic/clinrank/ai"
	"github.com/poiesic/clinrank/ai/mock"
	"github.com/poiesic/clinrank/core"
	"github.com/poiesic/clinrank/progressive"
	"github.com/poiesic/clinrank/rank"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDirectory(t *testing.T) *Directory {
	t.Helper()
	dir, err := NewDirectory(t.TempDir(), WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	t.Cleanup(func() { dir.Close() })
	return dir
}

func seedProfiles(t *testing.T, dir *Directory) {
	t.Helper()
	pipeline, err := dir.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	profiles := []*core.Candidate{
		{
			Name:              "Dr Rhythm",
			Specialty:         "Cardiology",
			Subspecialties:    []string{"Electrophysiology"},
			ClinicalExpertise: "Procedures: catheter ablation; Conditions: SVT, atrial fibrillation",
			Description:       "Arrhythmia and ablation specialist.",
			Rating:            4.9,
			ReviewCount:       120,
		},
		{
			Name:              "Dr Vessel",
			Specialty:         "Cardiology",
			ClinicalExpertise: "Procedures: coronary angiography; Conditions: angina",
			Description:       "Interventional cardiologist.",
			Rating:            4.6,
			ReviewCount:       60,
		},
		{
			Name:        "Dr Skin",
			Specialty:   "Dermatology",
			Description: "Acne and eczema clinics.",
			Rating:      4.2,
			ReviewCount: 30,
		},
	}
	require.NoError(t, pipeline.IngestProfiles(context.Background(), profiles...))
}

func TestDirectoryRank(t *testing.T) {
	dir := newTestDirectory(t)
	seedProfiles(t, dir)

	bundle := &core.QueryBundle{
		PatientQuery:  "SVT ablation specialist",
		AnchorPhrases: []string{"ablation"},
		Strategy:      core.StrategyTermBoost,
	}

	results, diagnostics, err := dir.Rank(context.Background(), bundle, rank.DefaultWeights(), 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "Dr Rhythm", results[0].Candidate.Name)
	assert.Equal(t, 3, diagnostics.PoolSize)
	assert.Positive(t, results[0].FinalScore)
}

func TestDirectoryRank_InvalidBundle(t *testing.T) {
	dir := newTestDirectory(t)
	seedProfiles(t, dir)

	_, _, err := dir.Rank(context.Background(), &core.QueryBundle{}, rank.DefaultWeights(), 10)
	assert.ErrorIs(t, err, core.ErrEmptyPatientQuery)
}

func TestDirectoryShortlist(t *testing.T) {
	dir := newTestDirectory(t)
	seedProfiles(t, dir)

	bundle := &core.QueryBundle{
		PatientQuery: "SVT ablation specialist",
		Strategy:     core.StrategyTermBoost,
	}

	outcome, err := dir.Shortlist(context.Background(), bundle, rank.DefaultWeights(), progressive.DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.NotEmpty(t, outcome.Shortlist)
	assert.Equal(t, progressive.TerminationPoolExhausted, outcome.Reason)
}

func TestDirectoryExtractQuery(t *testing.T) {
	dir := newTestDirectory(t)

	t.Run("default strategy is term boost", func(t *testing.T) {
		bundle, err := dir.ExtractQuery(context.Background(), "knee replacement surgeon")
		require.NoError(t, err)
		assert.Equal(t, "knee replacement surgeon", bundle.PatientQuery)
		assert.Equal(t, core.StrategyTermBoost, bundle.Strategy)
	})

	t.Run("ambiguous query selects ambiguity primary", func(t *testing.T) {
		provider := mock.NewMockProviderWithServices(mock.NewMockFitJudge(), &mock.MockIntentExtractor{
			ExtractIntentFunc: func(ctx context.Context, query string) (*ai.Intent, error) {
				return &ai.Intent{PatientQuery: query, Ambiguous: true}, nil
			},
		})
		ambiguous, err := NewDirectory(t.TempDir(), WithAIProvider(provider))
		require.NoError(t, err)
		defer ambiguous.Close()

		bundle, err := ambiguous.ExtractQuery(context.Background(), "chest pain when running")
		require.NoError(t, err)
		assert.Equal(t, core.StrategyAmbiguityPrimary, bundle.Strategy)
	})
}

func TestDirectoryProfileRepository(t *testing.T) {
	dir := newTestDirectory(t)
	seedProfiles(t, dir)

	count, err := dir.ProfileRepository().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	bySpecialty, err := dir.ProfileRepository().GetProfilesBySpecialty(context.Background(), "cardiology")
	require.NoError(t, err)
	assert.Len(t, bySpecialty, 2)
}

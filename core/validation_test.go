package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCandidate() *Candidate {
	return &Candidate{
		Name:            "Dr. Jane Doe",
		Specialty:       "Cardiology",
		Rating:          4.7,
		ReviewCount:     42,
		YearsExperience: 15,
	}
}

func TestValidateCandidate(t *testing.T) {
	t.Run("valid candidate", func(t *testing.T) {
		require.NoError(t, ValidateCandidate(validCandidate()))
	})

	t.Run("nil candidate", func(t *testing.T) {
		err := ValidateCandidate(nil)
		assert.ErrorIs(t, err, ErrInvalidCandidate)
	})

	t.Run("empty name", func(t *testing.T) {
		c := validCandidate()
		c.Name = ""
		err := ValidateCandidate(c)
		assert.ErrorIs(t, err, ErrEmptyCandidateName)
	})

	t.Run("rating too high", func(t *testing.T) {
		c := validCandidate()
		c.Rating = 5.5
		err := ValidateCandidate(c)
		assert.ErrorIs(t, err, ErrInvalidRating)
	})

	t.Run("negative rating", func(t *testing.T) {
		c := validCandidate()
		c.Rating = -1
		err := ValidateCandidate(c)
		assert.ErrorIs(t, err, ErrInvalidRating)
	})

	t.Run("negative review count", func(t *testing.T) {
		c := validCandidate()
		c.ReviewCount = -3
		assert.ErrorIs(t, ValidateCandidate(c), ErrInvalidCandidate)
	})

	t.Run("zero ID is valid", func(t *testing.T) {
		c := validCandidate()
		c.Id = 0
		assert.NoError(t, ValidateCandidate(c))
	})
}

func TestValidateQueryBundle(t *testing.T) {
	t.Run("minimal valid bundle", func(t *testing.T) {
		b := &QueryBundle{PatientQuery: "palpitations and dizziness"}
		require.NoError(t, ValidateQueryBundle(b))
	})

	t.Run("nil bundle", func(t *testing.T) {
		assert.ErrorIs(t, ValidateQueryBundle(nil), ErrInvalidQueryBundle)
	})

	t.Run("empty patient query", func(t *testing.T) {
		b := &QueryBundle{}
		assert.ErrorIs(t, ValidateQueryBundle(b), ErrEmptyPatientQuery)
	})

	t.Run("empty signal lists are not errors", func(t *testing.T) {
		b := &QueryBundle{
			PatientQuery:  "knee pain",
			SafeLaneTerms: []string{},
			IntentTerms:   nil,
		}
		assert.NoError(t, ValidateQueryBundle(b))
	})

	t.Run("unknown strategy", func(t *testing.T) {
		b := &QueryBundle{PatientQuery: "knee pain", Strategy: RescoringStrategy(42)}
		assert.ErrorIs(t, ValidateQueryBundle(b), ErrInvalidStrategy)
	})

	t.Run("ideal-profile strategy without profile", func(t *testing.T) {
		b := &QueryBundle{PatientQuery: "knee pain", Strategy: StrategyIdealProfileMatch}
		assert.ErrorIs(t, ValidateQueryBundle(b), ErrMissingIdealProfile)
	})

	t.Run("ideal-profile strategy with profile", func(t *testing.T) {
		b := &QueryBundle{
			PatientQuery: "knee pain",
			Strategy:     StrategyIdealProfileMatch,
			IdealProfile: &IdealProfile{
				Procedures: []Criterion{{Value: "knee arthroscopy", Level: LevelRequired}},
			},
		}
		assert.NoError(t, ValidateQueryBundle(b))
	})

	t.Run("unknown negative mode", func(t *testing.T) {
		b := &QueryBundle{PatientQuery: "knee pain", NegativeMode: NegativeMode(7)}
		assert.ErrorIs(t, ValidateQueryBundle(b), ErrInvalidNegativeMode)
	})

	t.Run("confidence out of range", func(t *testing.T) {
		b := &QueryBundle{
			PatientQuery:         "knee pain",
			LikelySubspecialties: []SubspecialtyHint{{Name: "sports medicine", Confidence: 1.2}},
		}
		assert.ErrorIs(t, ValidateQueryBundle(b), ErrInvalidConfidence)
	})
}

package core

import (
	"testing"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/stretchr/testify/assert"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		id1 := IDFromContent("Dr. Jane Doe|Cardiology|Leeds")
		id2 := IDFromContent("Dr. Jane Doe|Cardiology|Leeds")
		assert.Equal(t, id1, id2)
	})

	t.Run("different content different ID", func(t *testing.T) {
		id1 := IDFromContent("Dr. Jane Doe|Cardiology|Leeds")
		id2 := IDFromContent("Dr. John Doe|Cardiology|Leeds")
		assert.NotEqual(t, id1, id2)
	})

	t.Run("empty content is valid", func(t *testing.T) {
		id := IDFromContent("")
		assert.NotEqual(t, ID(0), id)
	})
}

func TestParseFitCategory(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  FitCategory
		ok    bool
	}{
		{"excellent", "excellent", FitExcellent, true},
		{"good", "good", FitGood, true},
		{"ill-fit", "ill-fit", FitIllFit, true},
		{"ill_fit variant", "ill_fit", FitIllFit, true},
		{"poor variant", "poor", FitIllFit, true},
		{"unknown", "amazing", FitUnclassified, false},
		{"empty", "", FitUnclassified, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseFitCategory(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestFitCategoryString_RoundTrip(t *testing.T) {
	for _, fit := range []FitCategory{FitExcellent, FitGood, FitIllFit} {
		parsed, ok := ParseFitCategory(fit.String())
		assert.True(t, ok)
		assert.Equal(t, fit, parsed)
	}
}

func TestRescoringStrategyString(t *testing.T) {
	assert.Equal(t, "term-boost", StrategyTermBoost.String())
	assert.Equal(t, "ambiguity-primary", StrategyAmbiguityPrimary.String())
	assert.Equal(t, "ideal-profile-match", StrategyIdealProfileMatch.String())
	assert.Equal(t, "unknown", RescoringStrategy(99).String())
}

func TestCandidateUnmarshal_CorruptStringCount(t *testing.T) {
	// ID plus name, title and specialty, ending right where the
	// subspecialties count is decoded.
	header := make([]byte, 64)
	n := IDMUS.Marshal(ID(1), header)
	for _, s := range []string{"Dr. A", "Consultant", "Cardiology"} {
		n += ord.String.Marshal(s, header[n:])
	}

	t.Run("negative count", func(t *testing.T) {
		bs := make([]byte, n+varint.Int.Size(-3))
		copy(bs, header[:n])
		varint.Int.Marshal(-3, bs[n:])

		_, _, err := CandidateMUS.Unmarshal(bs)
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("count exceeding remaining input", func(t *testing.T) {
		count := 1 << 30
		bs := make([]byte, n+varint.Int.Size(count))
		copy(bs, header[:n])
		varint.Int.Marshal(count, bs[n:])

		_, _, err := CandidateMUS.Unmarshal(bs)
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})
}

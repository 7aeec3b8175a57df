package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()
	require.NoError(t, w.Validate())
	assert.Equal(t, 150, w.StageATopN)
	assert.InDelta(t, 1.4, w.K1, 1e-9)
	assert.InDelta(t, 0.75, w.B, 1e-9)
}

func TestWeights_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Weights)
	}{
		{"zero k1", func(w *Weights) { w.K1 = 0 }},
		{"b above one", func(w *Weights) { w.B = 1.5 }},
		{"zero pool size", func(w *Weights) { w.StageATopN = 0 }},
		{"negative safe lane cap", func(w *Weights) { w.SafeLaneRetrievalCap = -1 }},
		{"positive negative penalty", func(w *Weights) { w.Rescoring.Negative1 = 0.5 }},
		{"negative boost", func(w *Weights) { w.Rescoring.HighSignal1 = -1 }},
		{"factor above one", func(w *Weights) { w.Rescoring.NegativeFactor2 = 1.2 }},
		{"zero factor", func(w *Weights) { w.Rescoring.NegativeFactor4 = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := DefaultWeights()
			tt.mutate(&w)
			assert.ErrorIs(t, w.Validate(), ErrInvalidWeights)
		})
	}
}

func TestWeights_MergeJSON(t *testing.T) {
	t.Run("partial override", func(t *testing.T) {
		w, err := DefaultWeights().MergeJSON([]byte(`{
			"k1": 1.2,
			"high_signal_1": 2.5,
			"field_weights": {"specialty": 3.0}
		}`))
		require.NoError(t, err)
		assert.InDelta(t, 1.2, w.K1, 1e-9)
		assert.InDelta(t, 2.5, w.Rescoring.HighSignal1, 1e-9)
		assert.InDelta(t, 3.0, w.FieldWeights.Specialty, 1e-9)
		// Untouched fields keep their defaults.
		assert.InDelta(t, 0.75, w.B, 1e-9)
		assert.InDelta(t, 3.8, w.Rescoring.HighSignal2, 1e-9)
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		_, err := DefaultWeights().MergeJSON([]byte(`{"hgih_signal_1": 2.5}`))
		assert.ErrorIs(t, err, ErrInvalidWeights)
	})

	t.Run("out of range override rejected", func(t *testing.T) {
		_, err := DefaultWeights().MergeJSON([]byte(`{"b": 2.0}`))
		assert.ErrorIs(t, err, ErrInvalidWeights)
	})

	t.Run("malformed json rejected", func(t *testing.T) {
		_, err := DefaultWeights().MergeJSON([]byte(`{`))
		assert.ErrorIs(t, err, ErrInvalidWeights)
	})

	t.Run("original untouched", func(t *testing.T) {
		base := DefaultWeights()
		_, err := base.MergeJSON([]byte(`{"k1": 9.9}`))
		require.NoError(t, err)
		assert.InDelta(t, 1.4, base.K1, 1e-9)
	})
}

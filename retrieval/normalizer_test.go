package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeQuery(t *testing.T) {
	t.Run("abbreviation expands", func(t *testing.T) {
		nq := NormalizeQuery("SVT treatment")
		require.Len(t, nq.Applied, 1)
		assert.Equal(t, "svt", nq.Applied[0].From)
		assert.Equal(t, "supraventricular tachycardia", nq.Applied[0].To)
		assert.Equal(t, "SVT treatment supraventricular tachycardia", nq.Expanded)
	})

	t.Run("original text always preserved", func(t *testing.T) {
		nq := NormalizeQuery("afib specialist")
		assert.Contains(t, nq.Expanded, "afib specialist")
		assert.Equal(t, "afib specialist", nq.Original)
	})

	t.Run("long form maps back to abbreviation", func(t *testing.T) {
		nq := NormalizeQuery("irritable bowel syndrome clinic")
		require.Len(t, nq.Applied, 1)
		assert.Equal(t, "ibs", nq.Applied[0].To)
	})

	t.Run("at most two expansions", func(t *testing.T) {
		nq := NormalizeQuery("svt afib uti ibs")
		assert.Len(t, nq.Applied, 2)
	})

	t.Run("gated alias needs companion word", func(t *testing.T) {
		blocked := NormalizeQuery("ms in my knee")
		assert.Empty(t, blocked.Applied)

		allowed := NormalizeQuery("ms numbness episodes")
		require.Len(t, allowed.Applied, 1)
		assert.Equal(t, "multiple sclerosis", allowed.Applied[0].To)
	})

	t.Run("word boundary only", func(t *testing.T) {
		nq := NormalizeQuery("a gift for my aunt")
		// "af" occurs inside no standalone token here.
		assert.Empty(t, nq.Applied)
	})

	t.Run("no double expansion when both sides present", func(t *testing.T) {
		nq := NormalizeQuery("svt supraventricular tachycardia")
		assert.Empty(t, nq.Applied)
	})

	t.Run("spelling variant", func(t *testing.T) {
		nq := NormalizeQuery("paediatric asthma")
		require.Len(t, nq.Applied, 1)
		assert.Equal(t, "pediatric", nq.Applied[0].To)
	})

	t.Run("longer match wins the cap", func(t *testing.T) {
		// Three candidates match; the two longest matched terms survive.
		nq := NormalizeQuery("svt adhd uti")
		require.Len(t, nq.Applied, 2)
		froms := []string{nq.Applied[0].From, nq.Applied[1].From}
		assert.Contains(t, froms, "adhd")
	})

	t.Run("punctuation insensitive", func(t *testing.T) {
		nq := NormalizeQuery("S.V.T. episodes")
		assert.Empty(t, nq.Applied) // dots split into single-letter tokens
	})

	t.Run("empty query", func(t *testing.T) {
		nq := NormalizeQuery("")
		assert.Equal(t, "", nq.Expanded)
		assert.Empty(t, nq.Applied)
	})

	t.Run("idempotent on expanded output", func(t *testing.T) {
		first := NormalizeQuery("svt ablation")
		second := NormalizeQuery(first.Expanded)
		assert.Empty(t, second.Applied)
		assert.Equal(t, first.Expanded, second.Expanded)
	})
}

func TestContainsPhrase(t *testing.T) {
	assert.True(t, ContainsPhrase("catheter ablation for SVT", "svt"))
	assert.True(t, ContainsPhrase("gastro-oesophageal reflux", "gastro oesophageal"))
	assert.False(t, ContainsPhrase("massive improvement", "ms"))
	assert.False(t, ContainsPhrase("anything", ""))
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/clinrank/core"
	"github.com/poiesic/clinrank/rank"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		input    string
		expected core.RescoringStrategy
		wantErr  bool
	}{
		{"term-boost", core.StrategyTermBoost, false},
		{"", core.StrategyTermBoost, false},
		{"  Term-Boost  ", core.StrategyTermBoost, false},
		{"ambiguity-primary", core.StrategyAmbiguityPrimary, false},
		{"ideal-profile", 0, true},
		{"nonsense", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			strategy, err := parseStrategy(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, strategy)
		})
	}
}

func TestLoadWeights(t *testing.T) {
	t.Run("empty path uses defaults", func(t *testing.T) {
		weights, err := loadWeights("")
		require.NoError(t, err)
		assert.Equal(t, rank.DefaultWeights(), weights)
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := loadWeights("/nonexistent/weights.json")
		assert.Error(t, err)
	})

	t.Run("overrides merge onto defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "weights.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"k1": 1.5, "stage_a_top_n": 30}`), 0644))

		weights, err := loadWeights(path)
		require.NoError(t, err)
		assert.Equal(t, 1.5, weights.K1)
		assert.Equal(t, 30, weights.StageATopN)
		assert.Equal(t, rank.DefaultWeights().B, weights.B)
	})

	t.Run("unknown key fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "weights.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"k_one": 1.5}`), 0644))

		_, err := loadWeights(path)
		assert.Error(t, err)
	})
}

func TestSetupLogger(t *testing.T) {
	newApp := func(level string) *cli.App {
		return &cli.App{
			Name: "clinrank",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "log-level", Value: level},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}
	}

	t.Run("accepts known levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
			assert.NoError(t, newApp(level).Run([]string{"clinrank"}), level)
		}
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		assert.Error(t, newApp("verbose").Run([]string{"clinrank"}))
	})
}

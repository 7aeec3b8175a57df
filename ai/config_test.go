package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "http://localhost:11434/v1", cfg.JudgeHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.IntentHost)
	assert.Equal(t, "qwen2.5:3b", cfg.JudgeModel)
	assert.Equal(t, "qwen2.5:3b", cfg.IntentModel)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.NotNil(t, cfg)
		// Should have default values
		assert.Equal(t, "http://localhost:11434/v1", cfg.JudgeHost)
		assert.Equal(t, "http://localhost:11434/v1", cfg.IntentHost)
	})

	t.Run("with custom host", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://custom:8080/v1"))

		assert.Equal(t, "http://custom:8080/v1", cfg.JudgeHost)
		assert.Equal(t, "http://custom:8080/v1", cfg.IntentHost)
	})

	t.Run("with separate hosts", func(t *testing.T) {
		cfg := NewConfig(
			WithJudgeHost("http://judge:8080/v1"),
			WithIntentHost("http://intent:9090/v1"),
		)

		assert.Equal(t, "http://judge:8080/v1", cfg.JudgeHost)
		assert.Equal(t, "http://intent:9090/v1", cfg.IntentHost)
	})

	t.Run("with custom models", func(t *testing.T) {
		cfg := NewConfig(
			WithJudgeModel("gpt-4o-mini"),
			WithIntentModel("llama3.1:8b"),
		)

		assert.Equal(t, "gpt-4o-mini", cfg.JudgeModel)
		assert.Equal(t, "llama3.1:8b", cfg.IntentModel)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		expected string
	}{
		{"adds v1 suffix", "http://localhost:11434", "http://localhost:11434/v1"},
		{"strips trailing slash first", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"leaves v1 suffix alone", "http://localhost:11434/v1", "http://localhost:11434/v1"},
		{"leaves empty host alone", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{JudgeHost: tt.host, IntentHost: tt.host}
			cfg.Normalize()
			assert.Equal(t, tt.expected, cfg.JudgeHost)
			assert.Equal(t, tt.expected, cfg.IntentHost)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().Validate())
	})

	t.Run("normalizes before validating", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434"))
		assert.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:11434/v1", cfg.JudgeHost)
	})

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing judge host", func(c *Config) { c.JudgeHost = "" }},
		{"missing intent host", func(c *Config) { c.IntentHost = "" }},
		{"missing judge model", func(c *Config) { c.JudgeModel = "" }},
		{"missing intent model", func(c *Config) { c.IntentModel = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

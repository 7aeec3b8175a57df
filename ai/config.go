// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// JudgeHost is the base URL for the fit-classification service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	JudgeHost string

	// IntentHost is the base URL for the query-understanding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	IntentHost string

	// JudgeModel is the model identifier used for fit classification.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	JudgeModel string

	// IntentModel is the model identifier used for intent extraction.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	IntentModel string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithJudgeHost sets the fit-classification service host URL.
func WithJudgeHost(host string) ConfigOption {
	return func(c *Config) {
		c.JudgeHost = host
	}
}

// WithIntentHost sets the query-understanding service host URL.
func WithIntentHost(host string) ConfigOption {
	return func(c *Config) {
		c.IntentHost = host
	}
}

// WithHost sets both judge and intent hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.JudgeHost = host
		c.IntentHost = host
	}
}

// WithJudgeModel sets the fit-classification model identifier.
func WithJudgeModel(model string) ConfigOption {
	return func(c *Config) {
		c.JudgeModel = model
	}
}

// WithIntentModel sets the intent-extraction model identifier.
func WithIntentModel(model string) ConfigOption {
	return func(c *Config) {
		c.IntentModel = model
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services. By default, both services use the same host.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		JudgeHost:   defaultHost,
		IntentHost:  defaultHost,
		JudgeModel:  "qwen2.5:3b",
		IntentModel: "qwen2.5:3b",
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
// This is the recommended way to create a Config with custom settings.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("http://localhost:11434/v1"),
//	    WithJudgeModel("gpt-4o-mini"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to hosts if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.JudgeHost != "" && !strings.HasSuffix(c.JudgeHost, "/v1") {
		c.JudgeHost = strings.TrimSuffix(c.JudgeHost, "/") + "/v1"
	}
	if c.IntentHost != "" && !strings.HasSuffix(c.IntentHost, "/v1") {
		c.IntentHost = strings.TrimSuffix(c.IntentHost, "/") + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.JudgeHost == "" {
		return errors.New("ai config: JudgeHost is required")
	}
	if c.IntentHost == "" {
		return errors.New("ai config: IntentHost is required")
	}
	if c.JudgeModel == "" {
		return errors.New("ai config: JudgeModel is required")
	}
	if c.IntentModel == "" {
		return errors.New("ai config: IntentModel is required")
	}
	return nil
}

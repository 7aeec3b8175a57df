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

package openai

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/poiesic/clinrank/ai"
	"github.com/poiesic/clinrank/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// IntentExtractor implements ai.IntentExtractor using OpenAI-compatible chat APIs.
type IntentExtractor struct {
	client llms.Model
	logger *slog.Logger
}

// subspecialtyHint is an internal type used for JSON unmarshaling.
type subspecialtyHint struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// intentResponse is the wrapper structure for the LLM's JSON response.
type intentResponse struct {
	PatientQuery         string             `json:"patient_query"`
	SafeLaneTerms        []string           `json:"safe_lane_terms"`
	IntentTerms          []string           `json:"intent_terms"`
	AnchorPhrases        []string           `json:"anchor_phrases"`
	NegativeTerms        []string           `json:"negative_terms"`
	LikelySubspecialties []subspecialtyHint `json:"likely_subspecialties"`
	Ambiguous            bool               `json:"ambiguous"`
}

// newIntentExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newIntentExtractor(config *ai.Config) (*IntentExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.IntentHost),
		openai.WithToken("none"),
		openai.WithModel(config.IntentModel),
	)
	if err != nil {
		return nil, err
	}

	return &IntentExtractor{
		client: client,
		logger: slog.Default().With("component", "openai-intent"),
	}, nil
}

// NewIntentExtractor creates a new intent extractor using the provided configuration.
//
// Returns ai.IntentExtractor interface to enforce abstraction.
func NewIntentExtractor(config *ai.Config) (ai.IntentExtractor, error) {
	return newIntentExtractor(config)
}

// ExtractIntent turns a raw patient query into structured ranking
// signals using an LLM.
func (e *IntentExtractor) ExtractIntent(ctx context.Context, query string) (*ai.Intent, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildIntentPrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(query),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result intentResponse
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return &ai.Intent{PatientQuery: query}, nil
		}

		responseText := repairJSON(stripFences(response.Choices[0].Content))
		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			e.logger.Warn("error parsing intent response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		e.logger.Error("failed to parse intent response after retries", "err", lastErr)
		return nil, lastErr
	}

	intent := &ai.Intent{
		PatientQuery:  result.PatientQuery,
		SafeLaneTerms: result.SafeLaneTerms,
		IntentTerms:   result.IntentTerms,
		AnchorPhrases: result.AnchorPhrases,
		NegativeTerms: result.NegativeTerms,
		Ambiguous:     result.Ambiguous,
	}
	if intent.PatientQuery == "" {
		intent.PatientQuery = query
	}
	for _, hint := range result.LikelySubspecialties {
		if hint.Name == "" {
			continue
		}
		// Clamp confidences the model pushed out of range instead of
		// failing the whole extraction.
		if hint.Confidence < 0 {
			hint.Confidence = 0
		}
		if hint.Confidence > 1 {
			hint.Confidence = 1
		}
		intent.LikelySubspecialties = append(intent.LikelySubspecialties, core.SubspecialtyHint{
			Name:       hint.Name,
			Confidence: hint.Confidence,
		})
	}

	e.logger.Debug("extracted intent",
		"intent_terms", len(intent.IntentTerms),
		"anchors", len(intent.AnchorPhrases),
		"ambiguous", intent.Ambiguous)
	return intent, nil
}

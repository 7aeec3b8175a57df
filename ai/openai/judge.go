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

// FitJudge implements ai.FitJudge using OpenAI-compatible chat APIs.
type FitJudge struct {
	client llms.Model
	logger *slog.Logger
}

// judgment is an internal type used for JSON unmarshaling.
// It matches the structure expected from the LLM.
type judgment struct {
	Candidate int    `json:"candidate"`
	Fit       string `json:"fit"`
}

// judgeResponse is the wrapper structure for the LLM's JSON response.
type judgeResponse struct {
	Judgments []judgment `json:"judgments"`
}

// newFitJudge is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newFitJudge(config *ai.Config) (*FitJudge, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.JudgeHost),
		openai.WithToken("none"),
		openai.WithModel(config.JudgeModel),
	)
	if err != nil {
		return nil, err
	}

	return &FitJudge{
		client: client,
		logger: slog.Default().With("component", "openai-judge"),
	}, nil
}

// NewFitJudge creates a new fit judge using the provided configuration.
//
// Returns ai.FitJudge interface to enforce abstraction.
func NewFitJudge(config *ai.Config) (ai.FitJudge, error) {
	return newFitJudge(config)
}

// ClassifyFit judges the profiles against the query using an LLM.
// Per-candidate entries that cannot be interpreted degrade to "good" or
// are omitted; only a transport or whole-response parse failure is an
// error.
func (j *FitJudge) ClassifyFit(ctx context.Context, query string, profiles []ai.ProfileSummary) ([]ai.FitJudgment, error) {
	if len(profiles) == 0 {
		return []ai.FitJudgment{}, nil
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildJudgePrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildJudgeInput(query, profiles)),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result judgeResponse
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := j.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			j.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			j.logger.Debug("no choices returned from model")
			return []ai.FitJudgment{}, nil
		}

		responseText := repairJSON(stripFences(response.Choices[0].Content))
		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			j.logger.Warn("error parsing judge response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		j.logger.Error("failed to parse judge response after retries", "err", lastErr)
		return nil, lastErr
	}

	return j.convertJudgments(result, profiles), nil
}

// convertJudgments maps the model's numbered judgments back to candidate
// identifiers. Entries with an out-of-range candidate number are
// dropped; entries with an unknown fit label degrade to "good".
func (j *FitJudge) convertJudgments(result judgeResponse, profiles []ai.ProfileSummary) []ai.FitJudgment {
	out := make([]ai.FitJudgment, 0, len(result.Judgments))
	for _, entry := range result.Judgments {
		idx := entry.Candidate - 1
		if idx < 0 || idx >= len(profiles) {
			j.logger.Warn("judge referenced unknown candidate", "candidate", entry.Candidate)
			continue
		}
		fit, ok := core.ParseFitCategory(entry.Fit)
		if !ok {
			j.logger.Warn("unknown fit label, treating as good", "fit", entry.Fit)
			fit = core.FitGood
		}
		out = append(out, ai.FitJudgment{
			CandidateId: profiles[idx].Id,
			Fit:         fit,
		})
	}
	return out
}

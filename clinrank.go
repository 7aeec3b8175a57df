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


package clinrank

import (
	"context"
	"log/slog"

	"github.com/poiesic/clinrank/ai"
	"github.com/poiesic/clinrank/ai/openai"
	"github.com/poiesic/clinrank/core"
	"github.com/poiesic/clinrank/ingestion"
	"github.com/poiesic/clinrank/progressive"
	"github.com/poiesic/clinrank/rank"
	"github.com/poiesic/clinrank/storage"
	"github.com/poiesic/clinrank/storage/badger"
)

// Directory is the top-level handle on a clinician directory: profile
// storage plus the AI services used for intent extraction and shortlist
// judging.
type Directory struct {
	backend     *badger.Backend
	profileRepo storage.ProfileRepository
	provider    ai.Provider
	logger      *slog.Logger
}

// DirectoryOption configures a Directory.
type DirectoryOption func(*directoryOptions)

type directoryOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
}

// WithAIConfig sets the AI service configuration used to build the default
// provider. Ignored when WithAIProvider is also given.
func WithAIConfig(config *ai.Config) DirectoryOption {
	return func(o *directoryOptions) {
		o.aiConfig = config
	}
}

// WithAIProvider injects a pre-built provider, bypassing the default
// OpenAI-compatible one. Useful for tests with the mock provider.
func WithAIProvider(provider ai.Provider) DirectoryOption {
	return func(o *directoryOptions) {
		o.provider = provider
	}
}

// NewDirectory opens (or creates) a clinician directory at filePath.
func NewDirectory(filePath string, opts ...DirectoryOption) (*Directory, error) {
	options := &directoryOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	profileRepo, err := badger.NewProfileRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			profileRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Directory{
		backend:     backend,
		profileRepo: profileRepo,
		provider:    provider,
		logger:      slog.Default(),
	}, nil
}

func (d *Directory) Close() error {
	// Close AI provider first
	if err := d.provider.Close(); err != nil {
		d.logger.Error("error closing AI provider", "err", err)
	}

	if err := d.profileRepo.Close(); err != nil {
		d.logger.Error("error closing profile repository", "err", err)
		return err
	}

	if err := d.backend.Close(); err != nil {
		d.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (d *Directory) ProfileRepository() storage.ProfileRepository {
	return d.profileRepo
}

func (d *Directory) Provider() ai.Provider {
	return d.provider
}

func (d *Directory) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(d.profileRepo, opts...)
}

// ExtractQuery runs intent extraction on a raw patient query and assembles
// a ranking request from the result. An ambiguous reading selects the
// ambiguity-primary strategy; otherwise the term-boost default applies.
func (d *Directory) ExtractQuery(ctx context.Context, query string) (*core.QueryBundle, error) {
	intent, err := d.provider.IntentExtractor().ExtractIntent(ctx, query)
	if err != nil {
		return nil, err
	}

	bundle := &core.QueryBundle{
		PatientQuery:         intent.PatientQuery,
		SafeLaneTerms:        intent.SafeLaneTerms,
		IntentTerms:          intent.IntentTerms,
		AnchorPhrases:        intent.AnchorPhrases,
		NegativeTerms:        intent.NegativeTerms,
		LikelySubspecialties: intent.LikelySubspecialties,
		Strategy:             core.StrategyTermBoost,
	}
	if intent.Ambiguous {
		bundle.Strategy = core.StrategyAmbiguityPrimary
	}
	return bundle, nil
}

// Rank runs the full retrieval and rescoring pipeline over every stored
// profile and returns up to limit results with per-result breakdowns.
func (d *Directory) Rank(ctx context.Context, bundle *core.QueryBundle, weights rank.Weights, limit int) ([]core.ScoredResult, *rank.Diagnostics, error) {
	pool, err := d.profileRepo.AllProfiles(ctx)
	if err != nil {
		return nil, nil, err
	}

	ranker, err := rank.NewRanker(weights, rank.WithLogger(d.logger))
	if err != nil {
		return nil, nil, err
	}

	return ranker.Rank(ctx, pool, bundle, limit)
}

// Shortlist runs progressive shortlist building over every stored profile,
// using the provider's fit judge to classify candidates.
func (d *Directory) Shortlist(ctx context.Context, bundle *core.QueryBundle, weights rank.Weights, opts progressive.Options) (*progressive.Outcome, error) {
	pool, err := d.profileRepo.AllProfiles(ctx)
	if err != nil {
		return nil, err
	}

	ranker, err := rank.NewRanker(weights, rank.WithLogger(d.logger))
	if err != nil {
		return nil, err
	}

	session, err := progressive.NewSession(ranker, d.provider.FitJudge(), pool, bundle, opts)
	if err != nil {
		return nil, err
	}

	return session.Run(ctx)
}

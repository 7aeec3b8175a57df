// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rank

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/clinrank/core"
	"github.com/poiesic/clinrank/rescoring"
	"github.com/poiesic/clinrank/retrieval"
)

// Diagnostics describes what a ranking call actually did with the
// query: how it was normalized, which aliases fired, and which terms
// reached retrieval versus rescoring. Diagnostics are for observability
// only; nothing downstream consumes them.
type Diagnostics struct {
	NormalizedQuery string
	AppliedAliases  []retrieval.AppliedAlias
	RetrievalQuery  string
	RetrievalTerms  []string
	RescoringTerms  []string
	PoolSize        int
	FilteredSize    int
	RetrievedSize   int
}

// Ranker runs the full two-stage pipeline: filter, project, retrieve
// lexically, then rescore. A Ranker is immutable after construction and
// safe for concurrent use; each call works entirely on caller-supplied
// data.
type Ranker struct {
	weights   Weights
	projector *retrieval.Projector
	scorer    *retrieval.Scorer
	engine    *rescoring.Engine
	logger    *slog.Logger
}

// Option configures a Ranker.
type Option func(*rankerConfig) error

type rankerConfig struct {
	logger  *slog.Logger
	monitor rescoring.Monitor
}

// WithLogger sets the logger for ranking diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *rankerConfig) error {
		if l == nil {
			return ErrNilLogger
		}
		c.logger = l
		return nil
	}
}

// WithMonitor installs a rescoring telemetry callback.
func WithMonitor(m rescoring.Monitor) Option {
	return func(c *rankerConfig) error {
		if m == nil {
			return ErrNilMonitor
		}
		c.monitor = m
		return nil
	}
}

// NewRanker validates the weights and builds the pipeline.
func NewRanker(weights Weights, opts ...Option) (*Ranker, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	cfg := rankerConfig{
		logger: slog.Default().With("component", "ranker"),
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	engineOpts := []rescoring.Option{rescoring.WithLogger(cfg.logger)}
	if cfg.monitor != nil {
		engineOpts = append(engineOpts, rescoring.WithMonitor(cfg.monitor))
	}
	engine, err := rescoring.NewEngine(weights.Rescoring, engineOpts...)
	if err != nil {
		return nil, err
	}

	return &Ranker{
		weights:   weights,
		projector: retrieval.NewProjector(weights.FieldWeights),
		scorer:    retrieval.NewScorer(weights.K1, weights.B, weights.Quality, weights.ExactMatch),
		engine:    engine,
		logger:    cfg.logger,
	}, nil
}

// Rank runs the full pipeline over the pool and returns at most limit
// results in final order, together with query diagnostics. A limit of
// zero or less returns the whole Stage A pool rescored.
func (r *Ranker) Rank(ctx context.Context, pool []*core.Candidate, bundle *core.QueryBundle, limit int) ([]core.ScoredResult, *Diagnostics, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if err := core.ValidateQueryBundle(bundle); err != nil {
		return nil, nil, fmt.Errorf("ranking rejected: %w", err)
	}

	docs, diag := r.Retrieve(pool, bundle)
	results := r.Rescore(docs, bundle)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	r.logger.Debug("ranking complete",
		"pool", diag.PoolSize,
		"filtered", diag.FilteredSize,
		"retrieved", diag.RetrievedSize,
		"returned", len(results))
	return results, diag, nil
}

// Retrieve runs Stage A: filtering, projection, query normalization,
// and lexical scoring, truncated to the configured pool size. Exposed
// separately so the progressive ranker can fetch in waves.
func (r *Ranker) Retrieve(pool []*core.Candidate, bundle *core.QueryBundle) ([]retrieval.ScoredDocument, *Diagnostics) {
	diag := &Diagnostics{PoolSize: len(pool)}

	filtered := retrieval.ApplyFilters(pool, bundle.Filters)
	diag.FilteredSize = len(filtered)
	docs := r.projector.ProjectAll(filtered)

	nq := retrieval.NormalizeQuery(bundle.PatientQuery)
	diag.NormalizedQuery = nq.Expanded
	diag.AppliedAliases = nq.Applied

	terms := []string{nq.Expanded}
	terms = append(terms, capTerms(bundle.SafeLaneTerms, r.weights.SafeLaneRetrievalCap)...)
	terms = append(terms, capTerms(bundle.IntentTerms, r.weights.IntentRetrievalCap)...)
	query := strings.Join(terms, " ")
	diag.RetrievalQuery = query
	diag.RetrievalTerms = terms
	diag.RescoringTerms = rescoringTerms(bundle)

	ranked := r.scorer.Rank(docs, query)
	if r.weights.UnionRetrieval && len(bundle.IntentTerms) > 0 {
		second := r.scorer.Rank(docs, strings.Join(bundle.IntentTerms, " "))
		ranked = mergeByMaxScore(docs, ranked, second)
	}
	if r.weights.RetrievalNegativePenalty > 0 && len(bundle.NegativeTerms) > 0 {
		ranked = r.applyRetrievalNegatives(ranked, bundle.NegativeTerms)
	}

	if len(ranked) > r.weights.StageATopN {
		ranked = ranked[:r.weights.StageATopN]
	}
	diag.RetrievedSize = len(ranked)
	return ranked, diag
}

// Rescore runs Stage B over an already-retrieved document list.
func (r *Ranker) Rescore(docs []retrieval.ScoredDocument, bundle *core.QueryBundle) []core.ScoredResult {
	return r.engine.Rescore(docs, bundle)
}

// Weights returns the configuration the ranker was built with.
func (r *Ranker) Weights() Weights {
	return r.weights
}

func capTerms(terms []string, limit int) []string {
	if limit <= 0 || len(terms) == 0 {
		return nil
	}
	if len(terms) > limit {
		return terms[:limit]
	}
	return terms
}

func rescoringTerms(bundle *core.QueryBundle) []string {
	out := make([]string, 0, len(bundle.IntentTerms)+len(bundle.AnchorPhrases)+len(bundle.SafeLaneTerms)+len(bundle.NegativeTerms))
	out = append(out, bundle.IntentTerms...)
	out = append(out, bundle.AnchorPhrases...)
	out = append(out, bundle.SafeLaneTerms...)
	out = append(out, bundle.NegativeTerms...)
	return out
}

// mergeByMaxScore combines two rankings over the same document set,
// keeping each document's best score. Exact-match signals are taken
// from whichever pass scored higher. Results are rebuilt in projection
// order so ties stay deterministic.
func mergeByMaxScore(docs []retrieval.Document, first, second []retrieval.ScoredDocument) []retrieval.ScoredDocument {
	best := make(map[*core.Candidate]retrieval.ScoredDocument, len(first))
	for _, sd := range first {
		best[sd.Candidate] = sd
	}
	for _, sd := range second {
		if prev, ok := best[sd.Candidate]; !ok || sd.Score > prev.Score {
			best[sd.Candidate] = sd
		}
	}

	merged := make([]retrieval.ScoredDocument, 0, len(docs))
	for _, d := range docs {
		if sd, ok := best[d.Candidate]; ok {
			merged = append(merged, sd)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	return merged
}

// applyRetrievalNegatives subtracts a per-match penalty from retrieval
// scores before Stage A truncation, so heavily penalized candidates can
// fall out of the pool instead of merely sinking within it.
func (r *Ranker) applyRetrievalNegatives(ranked []retrieval.ScoredDocument, negatives []string) []retrieval.ScoredDocument {
	out := make([]retrieval.ScoredDocument, len(ranked))
	copy(out, ranked)
	for i := range out {
		normDoc := retrieval.NormalizeText(out[i].Text)
		matches := 0
		for _, term := range negatives {
			if retrieval.ContainsPhrase(normDoc, term) {
				matches++
			}
		}
		if matches > 0 {
			out[i].Score -= r.weights.RetrievalNegativePenalty * float64(matches)
			if out[i].Score < 0 {
				out[i].Score = 0
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

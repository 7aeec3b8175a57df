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

package rescoring

import (
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/poiesic/clinrank/core"
	"github.com/poiesic/clinrank/retrieval"
)

// scoreEpsilon is the precision at which two scores count as tied.
const scoreEpsilon = 1e-4

// ProfileWeights control ideal-profile matching. Hits add by criterion
// level, a missed required criterion subtracts RequiredMiss, and each
// avoid-list hit subtracts AvoidHit.
type ProfileWeights struct {
	RequiredHit  float64
	PreferredHit float64
	OptionalHit  float64
	RequiredMiss float64
	AvoidHit     float64
}

// Config holds the numeric constants for every boost and penalty the
// engine can apply. All boosts are positive; the Negative1/2/4 additive
// penalties are negative values, and the NegativeFactor1/2/4
// multiplicative factors are in (0, 1].
type Config struct {
	// Intent-term tiers. One high-signal match applies HighSignal1,
	// two or more apply HighSignal2. Pathway matches of 1, 2, and 3+
	// map to Pathway1/2/3. Every other intent term adds
	// ProcedurePerMatch.
	HighSignal1       float64
	HighSignal2       float64
	Pathway1          float64
	Pathway2          float64
	Pathway3          float64
	ProcedurePerMatch float64

	// Anchor phrases add AnchorPerMatch each, capped at AnchorCap.
	AnchorPerMatch float64
	AnchorCap      float64

	// Safe-lane term matches of 1, 2, and 3+ map to these tiers.
	SafeLane1       float64
	SafeLane2       float64
	SafeLane3OrMore float64

	// Subspecialty hints add confidence*SubspecialtyFactor each,
	// capped at SubspecialtyCap.
	SubspecialtyFactor float64
	SubspecialtyCap    float64

	// Negative-term penalties for 1, 2-3, and 4+ matches.
	Negative1 float64
	Negative2 float64
	Negative4 float64

	// Multiplicative equivalents used in NegativeModeMultiplicative.
	NegativeFactor1 float64
	NegativeFactor2 float64
	NegativeFactor4 float64

	Profile ProfileWeights
}

// DefaultConfig returns the tuned baseline constants.
func DefaultConfig() Config {
	return Config{
		HighSignal1:        2.0,
		HighSignal2:        3.8,
		Pathway1:           1.1,
		Pathway2:           2.2,
		Pathway3:           3.1,
		ProcedurePerMatch:  0.5,
		AnchorPerMatch:     0.3,
		AnchorCap:          0.9,
		SafeLane1:          1.0,
		SafeLane2:          1.9,
		SafeLane3OrMore:    2.8,
		SubspecialtyFactor: 0.4,
		SubspecialtyCap:    0.6,
		Negative1:          -0.8,
		Negative2:          -1.6,
		Negative4:          -2.6,
		NegativeFactor1:    0.85,
		NegativeFactor2:    0.7,
		NegativeFactor4:    0.5,
		Profile: ProfileWeights{
			RequiredHit:  1.0,
			PreferredHit: 0.5,
			OptionalHit:  0.25,
			RequiredMiss: 0.75,
			AvoidHit:     1.0,
		},
	}
}

// Engine re-scores lexically retrieved candidates. An Engine is
// immutable after construction and safe for concurrent use.
type Engine struct {
	cfg     Config
	monitor Monitor
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithMonitor installs a telemetry callback receiving every boost and
// penalty the engine applies.
func WithMonitor(m Monitor) Option {
	return func(e *Engine) error {
		if m == nil {
			return ErrNilMonitor
		}
		e.monitor = m
		return nil
	}
}

// WithLogger sets the logger used for degraded-signal warnings.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) error {
		if l == nil {
			return ErrNilLogger
		}
		e.logger = l
		return nil
	}
}

// NewEngine creates a rescoring engine with the given constants.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg:     cfg,
		monitor: noopMonitor{},
		logger:  slog.Default().With("component", "rescoring"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Rescore re-orders the lexically scored documents according to the
// bundle's strategy. The input is never mutated. When the bundle carries
// no rescoring signal at all, the result degrades to the lexical order
// with zero adjustments.
func (e *Engine) Rescore(docs []retrieval.ScoredDocument, bundle *core.QueryBundle) []core.ScoredResult {
	strategy := bundle.Strategy
	if strategy == 0 {
		strategy = core.StrategyTermBoost
	}
	if strategy == core.StrategyIdealProfileMatch && bundle.IdealProfile == nil {
		e.logger.Warn("ideal profile missing, falling back to term boost")
		strategy = core.StrategyTermBoost
	}
	mode := resolveNegativeMode(bundle.NegativeMode, strategy)

	e.monitor.Start(strategy, len(docs))

	results := make([]core.ScoredResult, 0, len(docs))
	for _, doc := range docs {
		results = append(results, e.scoreOne(doc, bundle, strategy, mode))
	}

	e.sortResults(results, strategy)
	e.monitor.Finish(results)
	return results
}

// resolveNegativeMode maps the default mode to the strategy's natural
// combination: additive when the boost score is the primary key,
// multiplicative when the boosts adjust the lexical score.
func resolveNegativeMode(mode core.NegativeMode, strategy core.RescoringStrategy) core.NegativeMode {
	if mode != core.NegativeModeDefault {
		return mode
	}
	if strategy == core.StrategyAmbiguityPrimary {
		return core.NegativeModeAdditive
	}
	return core.NegativeModeMultiplicative
}

func (e *Engine) scoreOne(doc retrieval.ScoredDocument, bundle *core.QueryBundle, strategy core.RescoringStrategy, mode core.NegativeMode) core.ScoredResult {
	res := core.ScoredResult{
		Candidate:    doc.Candidate,
		LexicalScore: doc.Score,
		Breakdown: core.Breakdown{
			ExactQueryMatch: doc.ExactMatch,
			BigramMatches:   doc.BigramMatches,
		},
	}
	normDoc := retrieval.NormalizeText(doc.Text)
	id := candidateID(doc.Candidate)

	if strategy == core.StrategyIdealProfileMatch {
		profileScore := e.matchProfile(id, normDoc, doc.Candidate, bundle.IdealProfile, &res.Breakdown)
		res.RescoreScore = &profileScore
		res.FinalScore = clampScore(res.LexicalScore + profileScore)
		return res
	}

	boost := e.termBoost(id, normDoc, bundle, &res.Breakdown)
	negMatches := countMatches(normDoc, bundle.NegativeTerms)
	res.Breakdown.NegativeMatches = negMatches

	switch strategy {
	case core.StrategyAmbiguityPrimary:
		rescore := boost
		if negMatches > 0 {
			switch mode {
			case core.NegativeModeMultiplicative:
				factor := e.negativeFactor(negMatches)
				e.monitor.PenaltyApplied(id, CategoryNegative, negMatches, factor)
				rescore *= factor
			default:
				penalty := e.negativePenalty(negMatches)
				e.monitor.PenaltyApplied(id, CategoryNegative, negMatches, penalty)
				rescore += penalty
			}
		}
		res.RescoreScore = &rescore
		res.FinalScore = clampScore(rescore)
	default:
		score := res.LexicalScore + boost
		if negMatches > 0 {
			switch mode {
			case core.NegativeModeAdditive:
				penalty := e.negativePenalty(negMatches)
				e.monitor.PenaltyApplied(id, CategoryNegative, negMatches, penalty)
				score += penalty
			default:
				factor := e.negativeFactor(negMatches)
				e.monitor.PenaltyApplied(id, CategoryNegative, negMatches, factor)
				score *= factor
			}
		}
		res.FinalScore = clampScore(score)
	}
	return res
}

// termBoost computes the positive adjustments shared by the TermBoost
// and AmbiguityPrimary strategies and fills in the breakdown counts.
func (e *Engine) termBoost(id core.ID, normDoc string, bundle *core.QueryBundle, bd *core.Breakdown) float64 {
	boost := 0.0

	var highSignal, pathway, procedure int
	for _, term := range bundle.IntentTerms {
		if !termMatches(normDoc, term) {
			continue
		}
		switch classifyIntentTerm(term) {
		case tierHighSignal:
			highSignal++
		case tierPathway:
			pathway++
		default:
			procedure++
		}
	}
	bd.HighSignalMatches = highSignal
	bd.PathwayMatches = pathway
	bd.ProcedureMatches = procedure

	if highSignal > 0 {
		delta := e.cfg.HighSignal1
		if highSignal >= 2 {
			delta = e.cfg.HighSignal2
		}
		e.monitor.BoostApplied(id, CategoryHighSignal, highSignal, delta)
		boost += delta
	}
	if pathway > 0 {
		var delta float64
		switch {
		case pathway >= 3:
			delta = e.cfg.Pathway3
		case pathway == 2:
			delta = e.cfg.Pathway2
		default:
			delta = e.cfg.Pathway1
		}
		e.monitor.BoostApplied(id, CategoryPathway, pathway, delta)
		boost += delta
	}
	if procedure > 0 {
		delta := float64(procedure) * e.cfg.ProcedurePerMatch
		e.monitor.BoostApplied(id, CategoryProcedure, procedure, delta)
		boost += delta
	}

	anchors := countMatches(normDoc, bundle.AnchorPhrases)
	bd.AnchorMatches = anchors
	if anchors > 0 {
		delta := math.Min(float64(anchors)*e.cfg.AnchorPerMatch, e.cfg.AnchorCap)
		e.monitor.BoostApplied(id, CategoryAnchor, anchors, delta)
		boost += delta
	}

	safeLane := countMatches(normDoc, bundle.SafeLaneTerms)
	bd.SafeLaneMatches = safeLane
	if safeLane > 0 {
		var delta float64
		switch {
		case safeLane >= 3:
			delta = e.cfg.SafeLane3OrMore
		case safeLane == 2:
			delta = e.cfg.SafeLane2
		default:
			delta = e.cfg.SafeLane1
		}
		e.monitor.BoostApplied(id, CategorySafeLane, safeLane, delta)
		boost += delta
	}

	subBoost := 0.0
	subMatches := 0
	for _, hint := range bundle.LikelySubspecialties {
		if !termMatches(normDoc, hint.Name) {
			continue
		}
		subMatches++
		subBoost += hint.Confidence * e.cfg.SubspecialtyFactor
	}
	if subBoost > e.cfg.SubspecialtyCap {
		subBoost = e.cfg.SubspecialtyCap
	}
	bd.SubspecialtyBoost = subBoost
	if subMatches > 0 && subBoost > 0 {
		e.monitor.BoostApplied(id, CategorySubspecialty, subMatches, subBoost)
		boost += subBoost
	}

	return boost
}

func (e *Engine) negativePenalty(matches int) float64 {
	switch {
	case matches >= 4:
		return e.cfg.Negative4
	case matches >= 2:
		return e.cfg.Negative2
	default:
		return e.cfg.Negative1
	}
}

func (e *Engine) negativeFactor(matches int) float64 {
	switch {
	case matches >= 4:
		return e.cfg.NegativeFactor4
	case matches >= 2:
		return e.cfg.NegativeFactor2
	default:
		return e.cfg.NegativeFactor1
	}
}

// sortResults orders by final score, breaking near-ties (within
// scoreEpsilon) by the secondary score, then by input order.
func (e *Engine) sortResults(results []core.ScoredResult, strategy core.RescoringStrategy) {
	secondary := func(r core.ScoredResult) float64 {
		if strategy == core.StrategyAmbiguityPrimary {
			return r.LexicalScore
		}
		if r.RescoreScore != nil {
			return *r.RescoreScore
		}
		return r.LexicalScore
	}
	sort.SliceStable(results, func(i, j int) bool {
		di := results[i].FinalScore - results[j].FinalScore
		if math.Abs(di) > scoreEpsilon {
			return di > 0
		}
		ds := secondary(results[i]) - secondary(results[j])
		if math.Abs(ds) > scoreEpsilon {
			return ds > 0
		}
		return false
	})
}

// termMatches reports whether a signal term occurs in the normalized
// document text. Short terms (under four characters once normalized)
// match on word boundaries only; longer terms match by containment.
func termMatches(normDoc, term string) bool {
	normTerm := retrieval.NormalizeText(term)
	if normTerm == "" {
		return false
	}
	if len(normTerm) < 4 {
		return strings.Contains(" "+normDoc+" ", " "+normTerm+" ")
	}
	return strings.Contains(normDoc, normTerm)
}

func countMatches(normDoc string, terms []string) int {
	n := 0
	for _, t := range terms {
		if termMatches(normDoc, t) {
			n++
		}
	}
	return n
}

func clampScore(score float64) float64 {
	if score < 0 || math.IsNaN(score) {
		return 0
	}
	return score
}

func candidateID(c *core.Candidate) core.ID {
	if c == nil {
		return 0
	}
	return c.Id
}

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

package progressive

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/clinrank/ai"
	"github.com/poiesic/clinrank/core"
	"github.com/poiesic/clinrank/rank"
	"github.com/poiesic/clinrank/retrieval"
)

// Options bound a progressive ranking session.
type Options struct {
	// BatchSize is how many top candidates are sent to the judge per
	// Evaluating step.
	BatchSize int

	// TargetTopK is the quality bar: terminate once the top K results
	// are all classified excellent.
	TargetTopK int

	// MaxIterations caps the number of fetch/evaluate rounds.
	MaxIterations int

	// MaxProfilesReviewed caps the total distinct profiles sent to the
	// judge across the whole session.
	MaxProfilesReviewed int

	// ShortlistSize is how many results the session returns.
	ShortlistSize int

	// FetchSize is how many new candidates each Fetching step pulls
	// from the lexical ordering.
	FetchSize int
}

// DefaultOptions returns the standard session budgets.
func DefaultOptions() Options {
	return Options{
		BatchSize:           12,
		TargetTopK:          3,
		MaxIterations:       5,
		MaxProfilesReviewed: 60,
		ShortlistSize:       12,
		FetchSize:           25,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.BatchSize <= 0 {
		o.BatchSize = d.BatchSize
	}
	if o.TargetTopK <= 0 {
		o.TargetTopK = d.TargetTopK
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	if o.MaxProfilesReviewed <= 0 {
		o.MaxProfilesReviewed = d.MaxProfilesReviewed
	}
	if o.ShortlistSize <= 0 {
		o.ShortlistSize = d.ShortlistSize
	}
	if o.FetchSize <= 0 {
		o.FetchSize = d.FetchSize
	}
	return o
}

// TerminationReason records which budget or quality bar ended a session.
type TerminationReason int

const (
	TerminationUnknown TerminationReason = iota
	TerminationTopKExcellent
	TerminationMaxIterations
	TerminationMaxProfilesReviewed
	TerminationPoolExhausted
)

// String returns the canonical reason label.
func (r TerminationReason) String() string {
	switch r {
	case TerminationTopKExcellent:
		return "top-K-excellent"
	case TerminationMaxIterations:
		return "max-iterations"
	case TerminationMaxProfilesReviewed:
		return "max-profiles-reviewed"
	case TerminationPoolExhausted:
		return "pool-exhausted"
	default:
		return "unknown"
	}
}

// ShortlistEntry is one shortlisted result annotated with its fit
// classification and the iteration that first fetched it.
type ShortlistEntry struct {
	Result           core.ScoredResult
	Fit              core.FitCategory
	FoundInIteration int
}

// Outcome is the observable result of a finished session.
type Outcome struct {
	Shortlist        []ShortlistEntry
	Reason           TerminationReason
	Iterations       int
	ProfilesReviewed int
}

// Session runs one progressive ranking loop: fetch a wave of lexically
// ranked candidates, rescore the accumulated pool, submit the top batch
// to the external judge, and decide whether to expand further. Sessions
// are single-use and not safe for concurrent use; independent sessions
// share no mutable state.
type Session struct {
	ranker *rank.Ranker
	judge  ai.FitJudge
	pool   []*core.Candidate
	bundle *core.QueryBundle
	opts   Options
	logger *slog.Logger
}

// NewSession validates the inputs and prepares a session. Zero-valued
// option fields take their defaults.
func NewSession(ranker *rank.Ranker, judge ai.FitJudge, pool []*core.Candidate, bundle *core.QueryBundle, opts Options) (*Session, error) {
	if ranker == nil {
		return nil, ErrNilRanker
	}
	if judge == nil {
		return nil, ErrNilJudge
	}
	if err := core.ValidateQueryBundle(bundle); err != nil {
		return nil, fmt.Errorf("session rejected: %w", err)
	}
	return &Session{
		ranker: ranker,
		judge:  judge,
		pool:   pool,
		bundle: bundle,
		opts:   opts.withDefaults(),
		logger: slog.Default().With("component", "progressive"),
	}, nil
}

type classification struct {
	fit       core.FitCategory
	iteration int
}

// Run executes the loop to termination. Cancellation is honored between
// iterations; a judge failure is logged and never fails the session.
func (s *Session) Run(ctx context.Context) (*Outcome, error) {
	ordered, _ := s.ranker.Retrieve(s.pool, s.bundle)

	var (
		accumulated []retrieval.ScoredDocument
		results     []core.ScoredResult
		offset      int
		iteration   int
		reviewed    = make(map[core.ID]bool)
		classified  = make(map[core.ID]classification)
		firstSeen   = make(map[core.ID]int)
		reason      TerminationReason
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		iteration++

		// Fetching: pull the next unseen wave and rescore the whole
		// accumulated pool.
		end := offset + s.opts.FetchSize
		if end > len(ordered) {
			end = len(ordered)
		}
		for _, doc := range ordered[offset:end] {
			accumulated = append(accumulated, doc)
			if doc.Candidate != nil {
				if _, seen := firstSeen[doc.Candidate.Id]; !seen {
					firstSeen[doc.Candidate.Id] = iteration
				}
			}
		}
		offset = end
		results = s.ranker.Rescore(accumulated, s.bundle)

		// Evaluating: judge the current top batch. Only profiles the
		// judge has not seen before consume review budget.
		batch := results
		if len(batch) > s.opts.BatchSize {
			batch = batch[:s.opts.BatchSize]
		}
		s.evaluate(ctx, batch, iteration, reviewed, classified)

		// Deciding.
		if s.topKExcellent(results, classified) {
			reason = TerminationTopKExcellent
			break
		}
		if iteration >= s.opts.MaxIterations {
			reason = TerminationMaxIterations
			break
		}
		if len(reviewed) >= s.opts.MaxProfilesReviewed {
			reason = TerminationMaxProfilesReviewed
			break
		}
		if offset >= len(ordered) {
			reason = TerminationPoolExhausted
			break
		}
	}

	s.logger.Info("session terminated",
		"reason", reason.String(),
		"iterations", iteration,
		"reviewed", len(reviewed))

	return s.buildOutcome(results, classified, firstSeen, reason, iteration, len(reviewed)), nil
}

// evaluate submits the batch to the judge and merges the judgments.
// The first classification a candidate receives wins; later batches
// never overwrite it. A judge error leaves the batch unclassified.
func (s *Session) evaluate(ctx context.Context, batch []core.ScoredResult, iteration int, reviewed map[core.ID]bool, classified map[core.ID]classification) {
	summaries := make([]ai.ProfileSummary, 0, len(batch))
	for _, r := range batch {
		if r.Candidate == nil {
			continue
		}
		summaries = append(summaries, summarize(r.Candidate))
		reviewed[r.Candidate.Id] = true
	}
	if len(summaries) == 0 {
		return
	}

	judgments, err := s.judge.ClassifyFit(ctx, s.bundle.PatientQuery, summaries)
	if err != nil {
		s.logger.Warn("judge call failed, continuing unclassified",
			"iteration", iteration,
			"batch", len(summaries),
			"err", err)
		return
	}
	for _, j := range judgments {
		if _, done := classified[j.CandidateId]; done {
			continue
		}
		classified[j.CandidateId] = classification{fit: j.Fit, iteration: iteration}
	}
}

// topKExcellent reports whether the top TargetTopK results all carry an
// excellent classification. Fewer results than K can never satisfy it.
func (s *Session) topKExcellent(results []core.ScoredResult, classified map[core.ID]classification) bool {
	if len(results) < s.opts.TargetTopK {
		return false
	}
	for _, r := range results[:s.opts.TargetTopK] {
		if r.Candidate == nil {
			return false
		}
		c, ok := classified[r.Candidate.Id]
		if !ok || c.fit != core.FitExcellent {
			return false
		}
	}
	return true
}

func (s *Session) buildOutcome(results []core.ScoredResult, classified map[core.ID]classification, firstSeen map[core.ID]int, reason TerminationReason, iterations, reviewedCount int) *Outcome {
	size := s.opts.ShortlistSize
	if size > len(results) {
		size = len(results)
	}
	shortlist := make([]ShortlistEntry, 0, size)
	for _, r := range results[:size] {
		entry := ShortlistEntry{Result: r, Fit: core.FitGood}
		if r.Candidate != nil {
			if c, ok := classified[r.Candidate.Id]; ok {
				entry.Fit = c.fit
			}
			entry.FoundInIteration = firstSeen[r.Candidate.Id]
		}
		shortlist = append(shortlist, entry)
	}
	return &Outcome{
		Shortlist:        shortlist,
		Reason:           reason,
		Iterations:       iterations,
		ProfilesReviewed: reviewedCount,
	}
}

// summarize condenses a candidate into the judge's profile view.
func summarize(c *core.Candidate) ai.ProfileSummary {
	parts := make([]string, 0, 3)
	if c.ClinicalExpertise != "" {
		parts = append(parts, c.ClinicalExpertise)
	}
	if len(c.ProcedureGroups) > 0 {
		parts = append(parts, strings.Join(c.ProcedureGroups, ", "))
	}
	if c.Description != "" {
		parts = append(parts, c.Description)
	}
	summary := strings.Join(parts, " | ")
	if len(summary) > 400 {
		summary = summary[:400]
	}
	return ai.ProfileSummary{
		Id:        c.Id,
		Name:      c.Name,
		Specialty: c.Specialty,
		Summary:   summary,
	}
}

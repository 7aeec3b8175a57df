// Copyright 2026 Poiesic Systems
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


package core

import "fmt"

// ValidateCandidate validates a Candidate according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - Rating must be within [0, 5]
//   - ReviewCount and YearsExperience must not be negative
//
// NOT validated (populated by processors):
//   - Checklist (can be nil until ingestion precomputes it)
//   - ID (0 is valid; ingestion assigns content-hash IDs)
func ValidateCandidate(c *Candidate) error {
	if c == nil {
		return fmt.Errorf("%w: candidate is nil", ErrInvalidCandidate)
	}

	if c.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, ErrEmptyCandidateName)
	}

	if c.Rating < 0 || c.Rating > 5 {
		return fmt.Errorf("%w: %w: %g", ErrInvalidCandidate, ErrInvalidRating, c.Rating)
	}

	if c.ReviewCount < 0 {
		return fmt.Errorf("%w: review count cannot be negative", ErrInvalidCandidate)
	}

	if c.YearsExperience < 0 {
		return fmt.Errorf("%w: years of experience cannot be negative", ErrInvalidCandidate)
	}

	return nil
}

// ValidateQueryBundle validates a ranking request. A malformed bundle rejects
// the whole call synchronously; absent or empty rescoring signals are not
// errors (the engine degrades to lexical-only ranking).
//
// Validation rules:
//   - PatientQuery must not be empty
//   - Strategy must be zero (defaulted) or a known value
//   - StrategyIdealProfileMatch requires a non-nil IdealProfile
//   - NegativeMode must be a known value
//   - Subspecialty confidences must be within [0, 1]
func ValidateQueryBundle(b *QueryBundle) error {
	if b == nil {
		return fmt.Errorf("%w: bundle is nil", ErrInvalidQueryBundle)
	}

	if b.PatientQuery == "" {
		return fmt.Errorf("%w: %w", ErrInvalidQueryBundle, ErrEmptyPatientQuery)
	}

	if err := ValidateStrategy(b.Strategy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidQueryBundle, err)
	}

	if b.Strategy == StrategyIdealProfileMatch && b.IdealProfile == nil {
		return fmt.Errorf("%w: %w", ErrInvalidQueryBundle, ErrMissingIdealProfile)
	}

	switch b.NegativeMode {
	case NegativeModeDefault, NegativeModeAdditive, NegativeModeMultiplicative:
	default:
		return fmt.Errorf("%w: %w: value %d", ErrInvalidQueryBundle, ErrInvalidNegativeMode, b.NegativeMode)
	}

	for _, hint := range b.LikelySubspecialties {
		if hint.Confidence < 0 || hint.Confidence > 1 {
			return fmt.Errorf("%w: %w: %q has %g", ErrInvalidQueryBundle, ErrInvalidConfidence, hint.Name, hint.Confidence)
		}
	}

	return nil
}

// ValidateStrategy validates that a RescoringStrategy has a known value.
// Zero is accepted; the ranker defaults it to StrategyTermBoost.
func ValidateStrategy(s RescoringStrategy) error {
	switch s {
	case 0, StrategyTermBoost, StrategyAmbiguityPrimary, StrategyIdealProfileMatch:
		return nil
	default:
		return fmt.Errorf("%w: value %d", ErrInvalidStrategy, s)
	}
}

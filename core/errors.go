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

import "errors"

// Domain validation errors
var (
	// ErrInvalidCandidate indicates a Candidate failed validation.
	ErrInvalidCandidate = errors.New("invalid candidate")

	// ErrInvalidQueryBundle indicates a QueryBundle failed validation.
	// Callers receive this synchronously with no partial results.
	ErrInvalidQueryBundle = errors.New("invalid query bundle")

	// ErrEmptyCandidateName indicates the Name field is empty.
	ErrEmptyCandidateName = errors.New("candidate name cannot be empty")

	// ErrInvalidRating indicates a rating outside the 0-5 range.
	ErrInvalidRating = errors.New("rating must be between 0 and 5")

	// ErrEmptyPatientQuery indicates the PatientQuery field is empty.
	ErrEmptyPatientQuery = errors.New("patient query cannot be empty")

	// ErrInvalidStrategy indicates an unrecognized RescoringStrategy value.
	ErrInvalidStrategy = errors.New("invalid rescoring strategy")

	// ErrInvalidNegativeMode indicates an unrecognized NegativeMode value.
	ErrInvalidNegativeMode = errors.New("invalid negative mode")

	// ErrMissingIdealProfile indicates StrategyIdealProfileMatch was selected
	// without an IdealProfile in the bundle.
	ErrMissingIdealProfile = errors.New("ideal-profile strategy requires an ideal profile")

	// ErrInvalidConfidence indicates a subspecialty confidence outside [0,1].
	ErrInvalidConfidence = errors.New("subspecialty confidence must be between 0 and 1")

	// ErrMalformedRecord indicates serialized bytes that cannot decode into
	// a valid record.
	ErrMalformedRecord = errors.New("malformed serialized record")
)

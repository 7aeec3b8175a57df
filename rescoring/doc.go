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

// Package rescoring implements Stage B of the ranking pipeline: taking
// the lexically retrieved candidates and re-ordering them with one of
// three strategies.
//
// TermBoost counts intent-term, anchor-phrase, safe-lane, and
// subspecialty matches against each candidate's projected text and
// adjusts the lexical score with tiered boosts and penalties.
// AmbiguityPrimary computes the same boosts but sorts by the boost score
// first, using the lexical score only to break ties. IdealProfileMatch
// scores candidates against a structured target profile instead of
// counting query terms.
//
// The engine is pure and synchronous. Inputs are never mutated; every
// call produces new result records with a per-candidate breakdown of
// which match categories fired.
package rescoring

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

// Package ai provides abstractions for the AI services used in Clinrank.
//
// This package defines interfaces for the two AI capabilities the ranking
// pipeline consumes: fit classification of shortlisted candidates and
// structured intent extraction from raw patient queries. The ranking
// engine depends only on these abstractions, never on a concrete service.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - FitJudge: Classifies candidate fit against a patient query
//   - IntentExtractor: Turns a raw query into structured ranking signals
//   - Provider: Aggregates AI services for convenient initialization
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewFitJudge, etc.) return
// INTERFACE types to enforce abstraction and prevent accidental coupling to
// concrete implementations.
//
//	provider, err := openai.NewProvider(config)  // returns ai.Provider
//
// Test utility constructors (mock.NewMockFitJudge, mock.NewMockIntentExtractor)
// return CONCRETE types to enable test assertions and behavior injection via
// the mock's public methods (CallCount, WithXFunc, Reset, etc.).
//
// # Failure Semantics
//
// A FitJudge error is never fatal to a ranking session: the progressive
// ranker logs it and continues with candidates left unclassified. Malformed
// per-candidate entries in a judge response degrade to "good"/unclassified
// rather than failing the whole batch.
package ai

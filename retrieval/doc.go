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


// Package retrieval implements Stage A of the ranking pipeline: hard filter
// predicates, field-weighted document projection, bounded query alias
// expansion, and a BM25 lexical scorer with quality and exact-match
// adjustments.
//
// Everything in this package is a pure, synchronous computation over the
// candidate pool held in memory. Inputs are never mutated; filtering and
// scoring always produce new slices.
package retrieval

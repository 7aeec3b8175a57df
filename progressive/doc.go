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

// Package progressive implements the iterative ranking loop: fetch a
// wave of lexically ranked candidates, rescore the accumulated pool,
// submit the top batch to an external fit judge, and keep expanding
// until a quality bar or a budget is reached.
//
// Within one session iterations are strictly sequential. The only
// asynchronous boundary is the judge call, whose failure is never fatal:
// the affected candidates stay unclassified and the loop continues.
// Cancellation is checked at the top of every iteration.
package progressive

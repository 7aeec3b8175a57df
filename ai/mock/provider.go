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

package mock

import "github.com/poiesic/clinrank/ai"

// MockProvider is a test double for ai.Provider.
// It aggregates mock judge and extractor instances.
type MockProvider struct {
	judge     *MockFitJudge
	extractor *MockIntentExtractor
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.Provider interface for consistency with production constructors.
// Use GetMockJudge()/GetMockExtractor() to access concrete types for test assertions.
func NewMockProvider() ai.Provider {
	return &MockProvider{
		judge:     NewMockFitJudge(),
		extractor: NewMockIntentExtractor(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service.
func NewMockProviderWithServices(judge *MockFitJudge, extractor *MockIntentExtractor) ai.Provider {
	return &MockProvider{
		judge:     judge,
		extractor: extractor,
	}
}

// FitJudge returns the mock fit judge.
func (p *MockProvider) FitJudge() ai.FitJudge {
	return p.judge
}

// IntentExtractor returns the mock intent extractor.
func (p *MockProvider) IntentExtractor() ai.IntentExtractor {
	return p.extractor
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockJudge returns the underlying mock judge for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockJudge() *MockFitJudge {
	return p.judge
}

// GetMockExtractor returns the underlying mock extractor for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockExtractor() *MockIntentExtractor {
	return p.extractor
}

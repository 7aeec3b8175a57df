package mock

import (
	"context"
	"strings"

	"github.com/poiesic/clinrank/ai"
)

// MockIntentExtractor is a test double for ai.IntentExtractor.
// It allows custom behavior injection via function fields.
type MockIntentExtractor struct {
	// ExtractIntentFunc is called by ExtractIntent if set.
	// If nil, uses a simple word-based default.
	ExtractIntentFunc func(ctx context.Context, query string) (*ai.Intent, error)

	callCount int
}

// NewMockIntentExtractor creates a mock intent extractor with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockExtractor().
func NewMockIntentExtractor() *MockIntentExtractor {
	return &MockIntentExtractor{}
}

// ExtractIntent builds a trivial intent from the query words unless a
// custom function is injected: the query passes through unchanged and
// words longer than three characters become intent terms.
func (m *MockIntentExtractor) ExtractIntent(ctx context.Context, query string) (*ai.Intent, error) {
	m.callCount++

	if m.ExtractIntentFunc != nil {
		return m.ExtractIntentFunc(ctx, query)
	}

	intent := &ai.Intent{PatientQuery: query}
	for _, word := range strings.Fields(strings.ToLower(query)) {
		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if len(word) > 3 {
			intent.IntentTerms = append(intent.IntentTerms, word)
		}
	}
	return intent, nil
}

// CallCount returns the number of times ExtractIntent was called.
func (m *MockIntentExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockIntentExtractor) Reset() {
	m.callCount = 0
	m.ExtractIntentFunc = nil
}

package mock

import (
	"context"

	"github.com/poiesic/clinrank/ai"
	"github.com/poiesic/clinrank/core"
)

// MockFitJudge is a test double for ai.FitJudge.
// It allows custom behavior injection via function fields.
type MockFitJudge struct {
	// ClassifyFitFunc is called by ClassifyFit if set.
	// If nil, every profile is classified as "good".
	ClassifyFitFunc func(ctx context.Context, query string, profiles []ai.ProfileSummary) ([]ai.FitJudgment, error)

	callCount int
}

// NewMockFitJudge creates a mock fit judge with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockJudge().
func NewMockFitJudge() *MockFitJudge {
	return &MockFitJudge{}
}

// ClassifyFit classifies every profile as "good" unless a custom
// function is injected.
func (m *MockFitJudge) ClassifyFit(ctx context.Context, query string, profiles []ai.ProfileSummary) ([]ai.FitJudgment, error) {
	m.callCount++

	if m.ClassifyFitFunc != nil {
		return m.ClassifyFitFunc(ctx, query, profiles)
	}

	judgments := make([]ai.FitJudgment, 0, len(profiles))
	for _, p := range profiles {
		judgments = append(judgments, ai.FitJudgment{
			CandidateId: p.Id,
			Fit:         core.FitGood,
		})
	}
	return judgments, nil
}

// CallCount returns the number of times ClassifyFit was called.
func (m *MockFitJudge) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockFitJudge) Reset() {
	m.callCount = 0
	m.ClassifyFitFunc = nil
}

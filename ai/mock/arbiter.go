package mock

import (
	"context"

	"github.com/poiesic/vehiclematch/ai"
	"github.com/poiesic/vehiclematch/core"
)

// MockArbiter is a test double for ai.Arbiter.
// It allows custom behavior injection via function fields.
type MockArbiter struct {
	// DecideFunc is called by Decide if set.
	// If nil, uses default deterministic behavior.
	DecideFunc func(ctx context.Context, query string, options []core.Option) (ai.Verdict, error)

	callCount int
}

// NewMockArbiter creates a mock arbiter with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockArbiter().
func NewMockArbiter() *MockArbiter {
	return &MockArbiter{}
}

// Decide returns a deterministic verdict.
// Default behavior: selects the option when exactly one is offered, declines
// when the choice is ambiguous or no options are given.
func (m *MockArbiter) Decide(ctx context.Context, query string, options []core.Option) (ai.Verdict, error) {
	m.callCount++

	if m.DecideFunc != nil {
		return m.DecideFunc(ctx, query, options)
	}

	if len(options) == 1 {
		return ai.Verdict{
			SelectedID: options[0].ID,
			Confidence: 0.9,
			Reasoning:  "single option offered",
		}, nil
	}

	return ai.Verdict{
		Confidence: 0.0,
		Reasoning:  "ambiguous options",
	}, nil
}

// CallCount returns the number of times Decide was called.
func (m *MockArbiter) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockArbiter) Reset() {
	m.callCount = 0
	m.DecideFunc = nil
}

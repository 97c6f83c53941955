// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Arbiter,
// and ai.Provider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	vector, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	mockArbiter := mock.NewMockArbiter()
//	mockArbiter.DecideFunc = func(ctx context.Context, query string, options []core.Option) (ai.Verdict, error) {
//	    return ai.Verdict{SelectedID: options[0].ID, Confidence: 0.95}, nil
//	}
//
//	// Check call counts
//	count := mockArbiter.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockArbiter: Selects the single option when exactly one is offered,
//     declines otherwise
//   - MockProvider: Aggregates mock embedder and arbiter
package mock

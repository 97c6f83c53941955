package ai

import (
	"context"

	"github.com/poiesic/vehiclematch/core"
)

// Embedder generates vector embeddings from text for similarity retrieval.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in
	// a batch, in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Arbiter is the semantic-arbitration oracle. Given a partner's free-text
// description and a set of catalog options, it either selects the option
// that describes the same vehicle or declines to choose.
// Implementations must be thread-safe for concurrent use.
type Arbiter interface {
	// Decide selects the best-matching option for the query, or returns a
	// verdict with an empty SelectedID when no confident choice exists.
	// The oracle's null/non-null decision is authoritative; callers must
	// not re-threshold its confidence.
	Decide(ctx context.Context, query string, options []core.Option) (Verdict, error)
}

// Verdict is the arbiter's decision. An empty SelectedID means the oracle
// declined to choose (option identifiers are validated non-empty, so the
// empty string is unambiguous).
type Verdict struct {
	// SelectedID is the identifier of the chosen option, or "" for no match.
	SelectedID string

	// Confidence is the oracle's self-reported confidence in [0,1].
	Confidence float64

	// Reasoning is the oracle's free-text rationale, kept for logging.
	Reasoning string
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Arbiter returns the semantic arbitration service.
	// The returned Arbiter is safe for concurrent use.
	Arbiter() Arbiter

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}

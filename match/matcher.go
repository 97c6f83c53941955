package match

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/vehiclematch/ai"
	"github.com/poiesic/vehiclematch/core"
	"github.com/poiesic/vehiclematch/normalize"
	"github.com/poiesic/vehiclematch/storage"
)

// Default configuration values for the decision pipeline.
const (
	DefaultHighThreshold       = 0.85
	DefaultBestEffortThreshold = 0.70
	DefaultTopK                = 10
)

// Matcher runs the matching pipeline for partner vehicle descriptions.
// It is stateless across requests and safe for concurrent use.
type Matcher struct {
	vehicles storage.VehicleRepository
	index    storage.VectorIndex
	embedder ai.Embedder
	arbiter  ai.Arbiter

	highThreshold       float32
	bestEffortThreshold float32
	topK                int
	logger              *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// WithThresholds sets the confidence band boundaries. Candidates scoring at
// or above high are auto-acceptable; candidates below bestEffort are
// discarded. Requires 0 < bestEffort <= high <= 1.
func WithThresholds(high, bestEffort float32) Option {
	return func(m *Matcher) error {
		if bestEffort <= 0 || high > 1 || bestEffort > high {
			return ErrInvalidThresholds
		}
		m.highThreshold = high
		m.bestEffortThreshold = bestEffort
		return nil
	}
}

// WithTopK sets the retrieval depth.
// Default is DefaultTopK.
func WithTopK(topK int) Option {
	return func(m *Matcher) error {
		if topK < 1 {
			return ErrInvalidTopK
		}
		m.topK = topK
		return nil
	}
}

// NewMatcher creates a new matcher.
func NewMatcher(
	vehicles storage.VehicleRepository,
	index storage.VectorIndex,
	provider ai.Provider,
	opts ...Option,
) (*Matcher, error) {
	if vehicles == nil {
		return nil, ErrVehicleRepositoryRequired
	}
	if index == nil {
		return nil, ErrVectorIndexRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	m := &Matcher{
		vehicles:            vehicles,
		index:               index,
		embedder:            provider.Embedder(),
		arbiter:             provider.Arbiter(),
		highThreshold:       DefaultHighThreshold,
		bestEffortThreshold: DefaultBestEffortThreshold,
		topK:                DefaultTopK,
		logger:              slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Match runs the pipeline for a single query. A zero-value outcome (nil
// Record, BandNone) is a confident no-match; collaborator failures are
// returned as errors and never converted to a no-match.
func (m *Matcher) Match(ctx context.Context, query core.MatchQuery) (core.MatchOutcome, error) {
	normalized := normalize.Normalize(query.Description, true)
	if normalized == "" {
		m.logger.Debug("empty description after normalization")
		return core.MatchOutcome{}, nil
	}

	candidates, err := m.Retrieve(ctx, normalized, m.topK)
	if err != nil {
		return core.MatchOutcome{}, err
	}

	if len(candidates) == 0 {
		m.logger.Debug("retrieval returned no candidates", "query", normalized)
		return core.MatchOutcome{}, nil
	}

	b := triageCandidates(candidates, m.highThreshold, m.bestEffortThreshold)
	if b.empty() {
		m.logger.Debug("all candidates below best-effort threshold",
			"candidates", len(candidates))
		return core.MatchOutcome{}, nil
	}

	if candidate, ok := b.fastPath(query.Strict); ok {
		return m.fastAccept(ctx, candidate)
	}

	return m.arbitrate(ctx, query.Description, b.arbitrationSet(query.Strict))
}

// fastAccept fetches the single high-confidence candidate's record. A
// retrieval hit whose identifier is missing from storage means the catalog
// and the index have drifted; that downgrades to a no-match with a warning
// rather than failing the request.
func (m *Matcher) fastAccept(ctx context.Context, candidate core.Candidate) (core.MatchOutcome, error) {
	record, err := m.vehicles.GetVehicle(ctx, candidate.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			m.logger.Warn("fast-path candidate missing from storage",
				"id", candidate.ID,
				"score", candidate.Score)
			return core.MatchOutcome{}, nil
		}
		m.logger.Error("error fetching fast-path record", "id", candidate.ID, "err", err)
		return core.MatchOutcome{}, err
	}

	m.logger.Debug("fast-path accept", "id", candidate.ID, "score", candidate.Score)

	return core.MatchOutcome{
		Record:     record,
		Band:       core.BandHigh,
		Arbitrated: false,
	}, nil
}

// BatchResult holds the outcome of one batch item. Err is set when that
// item's collaborators failed; other items are unaffected.
type BatchResult struct {
	Outcome core.MatchOutcome
	Err     error
}

// MatchBatch matches each query independently with bounded parallelism.
// Results are aligned to the input order. parallelism values below 1 fall
// back to half the CPU count.
func (m *Matcher) MatchBatch(ctx context.Context, queries []core.MatchQuery, parallelism int) ([]BatchResult, error) {
	if parallelism < 1 {
		parallelism = runtime.NumCPU() / 2
		if parallelism < 1 {
			parallelism = 1
		}
	}

	pool, err := ants.NewPool(parallelism)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	results := make([]BatchResult, len(queries))
	var wg sync.WaitGroup

	for i, query := range queries {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			outcome, matchErr := m.Match(ctx, query)
			results[i] = BatchResult{Outcome: outcome, Err: matchErr}
		})
		if submitErr != nil {
			wg.Done()
			results[i] = BatchResult{Err: submitErr}
		}
	}

	wg.Wait()
	return results, nil
}

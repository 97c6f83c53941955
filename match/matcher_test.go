package match

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/vehiclematch/ai"
	"github.com/poiesic/vehiclematch/ai/mock"
	"github.com/poiesic/vehiclematch/core"
	"github.com/poiesic/vehiclematch/storage"
	"github.com/poiesic/vehiclematch/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHarness wires a matcher to an in-memory store and mock AI services.
// Vector entries use the first component as the similarity score against
// the fixed query vector {1, 0}.
type testHarness struct {
	matcher  *Matcher
	vehicles storage.VehicleRepository
	index    storage.VectorIndex
	embedder *mock.MockEmbedder
	arbiter  *mock.MockArbiter
}

func newTestHarness(t *testing.T, opts ...Option) *testHarness {
	t.Helper()

	vehicles, index, backend, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1.0, 0.0}, nil
	}
	arbiter := mock.NewMockArbiter()

	matcher, err := NewMatcher(vehicles, index, mock.NewMockProviderWithServices(embedder, arbiter), opts...)
	require.NoError(t, err)

	return &testHarness{
		matcher:  matcher,
		vehicles: vehicles,
		index:    index,
		embedder: embedder,
		arbiter:  arbiter,
	}
}

// seed stores a catalog record and indexes it so a query scores it at the
// given similarity.
func (h *testHarness) seed(t *testing.T, id, description string, score float32) {
	t.Helper()
	ctx := context.Background()

	_, err := h.vehicles.AddVehicle(ctx, id, description)
	require.NoError(t, err)

	require.NoError(t, h.index.Upsert(ctx, &storage.VectorEntry{
		ID:          id,
		Vector:      []float32{score, 0.0},
		Fingerprint: core.Fingerprint(description),
		Description: description,
	}))
}

// seedIndexOnly indexes a vector without a backing catalog record,
// simulating catalog/index drift.
func (h *testHarness) seedIndexOnly(t *testing.T, id string, score float32) {
	t.Helper()
	require.NoError(t, h.index.Upsert(context.Background(), &storage.VectorEntry{
		ID:     id,
		Vector: []float32{score, 0.0},
	}))
}

func TestNewMatcher_RequiredDependencies(t *testing.T) {
	vehicles, index, backend, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer backend.Close()

	provider := mock.NewMockProvider()

	_, err = NewMatcher(nil, index, provider)
	assert.ErrorIs(t, err, ErrVehicleRepositoryRequired)

	_, err = NewMatcher(vehicles, nil, provider)
	assert.ErrorIs(t, err, ErrVectorIndexRequired)

	_, err = NewMatcher(vehicles, index, nil)
	assert.ErrorIs(t, err, ErrAIProviderRequired)
}

func TestNewMatcher_InvalidOptions(t *testing.T) {
	vehicles, index, backend, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer backend.Close()

	_, err = NewMatcher(vehicles, index, mock.NewMockProvider(), WithThresholds(0.7, 0.85))
	assert.ErrorIs(t, err, ErrInvalidThresholds)

	_, err = NewMatcher(vehicles, index, mock.NewMockProvider(), WithTopK(0))
	assert.ErrorIs(t, err, ErrInvalidTopK)
}

func TestMatch_EmptyRetrievalIsConfidentNoMatch(t *testing.T) {
	h := newTestHarness(t)

	outcome, err := h.matcher.Match(context.Background(), core.MatchQuery{
		Description: "RENAULT MEGANE 1.6 COMFORT MT 2009",
	})
	require.NoError(t, err)

	assert.False(t, outcome.Matched())
	assert.Equal(t, core.BandNone, outcome.Band)
	assert.False(t, outcome.Arbitrated)
	assert.Equal(t, 0, h.arbiter.CallCount())
}

func TestMatch_EmptyDescription(t *testing.T) {
	h := newTestHarness(t)

	outcome, err := h.matcher.Match(context.Background(), core.MatchQuery{Description: "  ,, "})
	require.NoError(t, err)

	assert.False(t, outcome.Matched())
	assert.Equal(t, 0, h.embedder.CallCount())
}

func TestMatch_SingleHighFastPath(t *testing.T) {
	h := newTestHarness(t)
	h.seed(t, "VM-1", "RENAULT MEGANE COMFORT 1.6 MT 2009", 0.92)
	h.seed(t, "VM-2", "RENAULT MEGANE EXPRESSION 1.6 MT 2009", 0.60)

	outcome, err := h.matcher.Match(context.Background(), core.MatchQuery{
		Description: "RENAULT MEGANE 1.6 COMFORT MT 2009",
	})
	require.NoError(t, err)

	require.True(t, outcome.Matched())
	assert.Equal(t, "VM-1", outcome.Record.ID)
	assert.Equal(t, core.BandHigh, outcome.Band)
	assert.False(t, outcome.Arbitrated)
	assert.Equal(t, 0, h.arbiter.CallCount())
}

func TestMatch_TwoHighCandidatesArbitrateHighBandOnly(t *testing.T) {
	h := newTestHarness(t)
	h.seed(t, "VM-1", "TOYOTA COROLLA LE 1.8 AT 2020", 0.90)
	h.seed(t, "VM-2", "TOYOTA COROLLA XLE 1.8 AT 2020", 0.88)
	h.seed(t, "VM-3", "TOYOTA COROLLA LE 1.8 AT 2019", 0.75)

	var offered []core.Option
	h.arbiter.DecideFunc = func(ctx context.Context, query string, options []core.Option) (ai.Verdict, error) {
		offered = options
		return ai.Verdict{SelectedID: "VM-2", Confidence: 0.9}, nil
	}

	outcome, err := h.matcher.Match(context.Background(), core.MatchQuery{
		Description: "COROLLA 2020 automatico 1800cc",
	})
	require.NoError(t, err)

	require.True(t, outcome.Matched())
	assert.Equal(t, "VM-2", outcome.Record.ID)
	assert.Equal(t, core.BandHigh, outcome.Band)
	assert.True(t, outcome.Arbitrated)

	require.Len(t, offered, 2)
	assert.Equal(t, "VM-1", offered[0].ID)
	assert.Equal(t, "VM-2", offered[1].ID)
}

func TestMatch_StrictForcesArbitration(t *testing.T) {
	h := newTestHarness(t)
	h.seed(t, "VM-1", "FORD MUSTANG GT 5.0 V8 2021", 0.95)

	h.arbiter.DecideFunc = func(ctx context.Context, query string, options []core.Option) (ai.Verdict, error) {
		return ai.Verdict{SelectedID: "VM-1", Confidence: 0.97}, nil
	}

	outcome, err := h.matcher.Match(context.Background(), core.MatchQuery{
		Description: "MUSTANG GT 5.0 2021 COUPE",
		Strict:      true,
	})
	require.NoError(t, err)

	require.True(t, outcome.Matched())
	assert.Equal(t, "VM-1", outcome.Record.ID)
	assert.True(t, outcome.Arbitrated)
	assert.Equal(t, 1, h.arbiter.CallCount())
}

func TestMatch_ArbiterReceivesOriginalDescription(t *testing.T) {
	h := newTestHarness(t)
	h.seed(t, "VM-1", "NISSAN VERSA SENSE 1.6 MT 2019", 0.80)

	raw := "nissan versa 2019 manual, sedan, sedan"
	var seenQuery string
	h.arbiter.DecideFunc = func(ctx context.Context, query string, options []core.Option) (ai.Verdict, error) {
		seenQuery = query
		return ai.Verdict{}, nil
	}

	_, err := h.matcher.Match(context.Background(), core.MatchQuery{Description: raw})
	require.NoError(t, err)

	assert.Equal(t, raw, seenQuery)
}

func TestMatch_NullVerdictIsConfidentNoMatch(t *testing.T) {
	h := newTestHarness(t)
	h.seed(t, "VM-1", "NISSAN VERSA SENSE 1.6 MT 2019", 0.90)
	h.seed(t, "VM-2", "NISSAN VERSA ADVANCE 1.6 MT 2019", 0.89)

	h.arbiter.DecideFunc = func(ctx context.Context, query string, options []core.Option) (ai.Verdict, error) {
		return ai.Verdict{Reasoning: "ambiguous between trims"}, nil
	}

	outcome, err := h.matcher.Match(context.Background(), core.MatchQuery{
		Description: "NISSAN VERSA 2019 MANUAL",
	})
	require.NoError(t, err)

	assert.False(t, outcome.Matched())
	assert.Equal(t, core.BandNone, outcome.Band)
}

func TestMatch_OutOfOptionsVerdictIsConfidentNoMatch(t *testing.T) {
	h := newTestHarness(t)
	h.seed(t, "VM-1", "KIA RIO LX 1.6 AT 2022", 0.90)
	h.seed(t, "VM-2", "KIA RIO EX 1.6 AT 2022", 0.88)

	h.arbiter.DecideFunc = func(ctx context.Context, query string, options []core.Option) (ai.Verdict, error) {
		return ai.Verdict{SelectedID: "VM-999", Confidence: 0.9}, nil
	}

	outcome, err := h.matcher.Match(context.Background(), core.MatchQuery{
		Description: "KIA RIO 2022 AUTOMATICO",
	})
	require.NoError(t, err)

	assert.False(t, outcome.Matched())
	assert.Nil(t, outcome.Record)
}

func TestMatch_BestEffortArbitratedBand(t *testing.T) {
	h := newTestHarness(t)
	h.seed(t, "VM-1", "CHEVROLET ONIX LT 1.0 MT 2021", 0.78)
	h.seed(t, "VM-2", "CHEVROLET ONIX PREMIER 1.0 AT 2021", 0.72)

	h.arbiter.DecideFunc = func(ctx context.Context, query string, options []core.Option) (ai.Verdict, error) {
		return ai.Verdict{SelectedID: "VM-1", Confidence: 0.8}, nil
	}

	outcome, err := h.matcher.Match(context.Background(), core.MatchQuery{
		Description: "ONIX LT 2021 MANUAL",
	})
	require.NoError(t, err)

	require.True(t, outcome.Matched())
	assert.Equal(t, core.BandBestEffort, outcome.Band)
	assert.True(t, outcome.Arbitrated)
}

func TestMatch_AllBelowBestEffortThreshold(t *testing.T) {
	h := newTestHarness(t)
	h.seed(t, "VM-1", "HONDA CIVIC EX 2.0 CVT 2020", 0.50)
	h.seed(t, "VM-2", "HONDA CIVIC LX 2.0 CVT 2020", 0.45)

	outcome, err := h.matcher.Match(context.Background(), core.MatchQuery{
		Description: "MAZDA 3 2018",
	})
	require.NoError(t, err)

	assert.False(t, outcome.Matched())
	assert.Equal(t, 0, h.arbiter.CallCount())
}

func TestMatch_FastPathMissingRecordDowngrades(t *testing.T) {
	h := newTestHarness(t)
	h.seedIndexOnly(t, "VM-GHOST", 0.93)

	outcome, err := h.matcher.Match(context.Background(), core.MatchQuery{
		Description: "VW GOLF GTI 2.0 2018",
	})
	require.NoError(t, err)

	assert.False(t, outcome.Matched())
	assert.Equal(t, core.BandNone, outcome.Band)
}

func TestMatch_ArbitrationAllCandidatesUnresolvable(t *testing.T) {
	h := newTestHarness(t)
	h.seedIndexOnly(t, "VM-G1", 0.90)
	h.seedIndexOnly(t, "VM-G2", 0.88)

	outcome, err := h.matcher.Match(context.Background(), core.MatchQuery{
		Description: "SEAT IBIZA 1.6 2015",
	})
	require.NoError(t, err)

	assert.False(t, outcome.Matched())
	assert.Equal(t, 0, h.arbiter.CallCount())
}

func TestMatch_EmbedderFailurePropagates(t *testing.T) {
	h := newTestHarness(t)
	h.seed(t, "VM-1", "FIAT MOBI TREKKING 1.0 MT 2024", 0.90)

	embedFail := errors.New("embedding service unavailable")
	h.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, embedFail
	}

	_, err := h.matcher.Match(context.Background(), core.MatchQuery{
		Description: "FIAT MOBI 2024",
	})
	assert.ErrorIs(t, err, embedFail)
}

func TestMatch_ArbiterFailurePropagates(t *testing.T) {
	h := newTestHarness(t)
	h.seed(t, "VM-1", "PEUGEOT 208 ACTIVE 1.2 2022", 0.90)
	h.seed(t, "VM-2", "PEUGEOT 208 ALLURE 1.2 2022", 0.88)

	oracleFail := errors.New("oracle unavailable")
	h.arbiter.DecideFunc = func(ctx context.Context, query string, options []core.Option) (ai.Verdict, error) {
		return ai.Verdict{}, oracleFail
	}

	_, err := h.matcher.Match(context.Background(), core.MatchQuery{
		Description: "PEUGEOT 208 2022",
	})
	assert.ErrorIs(t, err, oracleFail)
}

func TestMatchBatch_OrderPreservingAndIsolated(t *testing.T) {
	h := newTestHarness(t)
	h.seed(t, "VM-1", "RENAULT KWID ICONIC 1.0 MT 2023", 0.92)

	embedFail := errors.New("embedding service unavailable")
	h.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if text == "BROKEN" {
			return nil, embedFail
		}
		return []float32{1.0, 0.0}, nil
	}

	queries := []core.MatchQuery{
		{Description: "RENAULT KWID 2023"},
		{Description: "BROKEN"},
		{Description: "RENAULT KWID ICONIC"},
	}

	results, err := h.matcher.MatchBatch(context.Background(), queries, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.NoError(t, results[0].Err)
	assert.Equal(t, "VM-1", results[0].Outcome.Record.ID)

	assert.ErrorIs(t, results[1].Err, embedFail)

	require.NoError(t, results[2].Err)
	assert.Equal(t, "VM-1", results[2].Outcome.Record.ID)
}

func TestMatchBatch_EmptyInput(t *testing.T) {
	h := newTestHarness(t)

	results, err := h.matcher.MatchBatch(context.Background(), nil, 4)
	require.NoError(t, err)
	assert.Empty(t, results)
}

package ingest

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/vehiclematch/ai"
	"github.com/poiesic/vehiclematch/core"
	"github.com/poiesic/vehiclematch/normalize"
	"github.com/poiesic/vehiclematch/storage"
)

// Loader bulk-loads vehicle rows into the catalog and the vector index.
type Loader struct {
	vehicles  storage.VehicleRepository
	index     storage.VectorIndex
	embedder  ai.Embedder
	pool      *ants.Pool
	batchSize int
	logger    *slog.Logger
}

// Stats summarizes one load run.
type Stats struct {
	Total            int // rows offered to the loader
	Added            int // new catalog records created
	Duplicates       int // rows whose identifier already existed
	Embedded         int // vectors computed and upserted
	SkippedUnchanged int // vectors skipped via fingerprint match
	Invalid          int // rows rejected before storage
}

// Option configures a Loader.
type Option func(*Loader) error

// WithBatchSize sets how many descriptions are embedded per request.
// Default is 50.
func WithBatchSize(size int) Option {
	return func(l *Loader) error {
		if size < 1 {
			size = 1
		}
		l.batchSize = size
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent embedding batches.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(l *Loader) error {
		if size < 1 {
			size = 1
		}
		if l.pool != nil {
			l.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		l.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewLoader creates a new loader.
func NewLoader(
	vehicles storage.VehicleRepository,
	index storage.VectorIndex,
	provider ai.Provider,
	opts ...Option,
) (*Loader, error) {
	if vehicles == nil {
		return nil, ErrVehicleRepositoryRequired
	}
	if index == nil {
		return nil, ErrVectorIndexRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	l := &Loader{
		vehicles:  vehicles,
		index:     index,
		embedder:  provider.Embedder(),
		pool:      pool,
		batchSize: 50,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			l.Release()
			return nil, err
		}
	}

	return l, nil
}

// LoadFile reads a CSV file and loads its rows.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, skipped, err := ReadCSV(f, l.logger)
	if err != nil {
		return nil, err
	}

	stats, err := l.Load(ctx, rows)
	if stats != nil {
		stats.Invalid += skipped
		stats.Total += skipped
	}
	return stats, err
}

// Load stores the rows and indexes their embeddings. Rows whose identifier
// already exists keep the stored record (duplicates are logged, not
// overwritten); rows whose indexed fingerprint matches the current
// description skip re-embedding entirely. Storage and embedding failures
// abort the run.
func (l *Loader) Load(ctx context.Context, rows []Row) (*Stats, error) {
	stats := &Stats{Total: len(rows)}

	pending := make([]Row, 0, len(rows))
	for _, row := range rows {
		if row.ID == "" || row.Description == "" {
			stats.Invalid++
			l.logger.Warn("skipping invalid row", "id", row.ID)
			continue
		}

		_, err := l.vehicles.AddVehicle(ctx, row.ID, row.Description)
		switch {
		case err == nil:
			stats.Added++
		case errors.Is(err, storage.ErrDuplicateKey):
			stats.Duplicates++
			l.logger.Warn("duplicate identifier, keeping existing record", "id", row.ID)
		default:
			return stats, err
		}

		entry, err := l.index.Get(ctx, row.ID)
		if err == nil && entry.Fingerprint == core.Fingerprint(row.Description) {
			stats.SkippedUnchanged++
			continue
		}
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return stats, err
		}

		pending = append(pending, row)
	}

	if len(pending) == 0 {
		l.logger.Info("nothing to embed", "rows", len(rows), "unchanged", stats.SkippedUnchanged)
		return stats, nil
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error

	for start := 0; start < len(pending); start += l.batchSize {
		end := min(start+l.batchSize, len(pending))
		batch := pending[start:end]

		wg.Add(1)
		submitErr := l.pool.Submit(func() {
			defer wg.Done()
			if err := l.embedBatch(ctx, batch); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return
			}
			mu.Lock()
			stats.Embedded += len(batch)
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			errs = append(errs, submitErr)
			mu.Unlock()
		}
	}

	wg.Wait()

	if len(errs) > 0 {
		return stats, errors.Join(errs...)
	}

	l.logger.Info("load complete",
		"rows", stats.Total,
		"added", stats.Added,
		"duplicates", stats.Duplicates,
		"embedded", stats.Embedded,
		"unchanged", stats.SkippedUnchanged)
	return stats, nil
}

// embedBatch computes one batch of embeddings and upserts the vectors with
// description metadata and content fingerprints.
func (l *Loader) embedBatch(ctx context.Context, batch []Row) error {
	// Embed the normalized form so stored vectors live in the same space
	// as normalized match queries.
	texts := make([]string, len(batch))
	for i, row := range batch {
		texts[i] = normalize.Normalize(row.Description, true)
	}

	l.logger.Debug("embedding batch", "size", len(texts))
	vectors, err := l.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		l.logger.Error("error embedding batch", "size", len(texts), "err", err)
		return err
	}
	if len(vectors) != len(batch) {
		return errors.New("embedding result count mismatch")
	}

	for i, row := range batch {
		entry := &storage.VectorEntry{
			ID:          row.ID,
			Vector:      vectors[i],
			Fingerprint: core.Fingerprint(row.Description),
			Description: row.Description,
		}
		if err := l.index.Upsert(ctx, entry); err != nil {
			l.logger.Error("error upserting vector", "id", row.ID, "err", err)
			return err
		}
	}

	return nil
}

// Release releases the worker pool.
// The loader should not be used after calling Release.
func (l *Loader) Release() {
	if l.pool != nil {
		l.pool.Release()
	}
}

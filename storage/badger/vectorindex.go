package badger

import (
	"context"
	"errors"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/vehiclematch/core"
	"github.com/poiesic/vehiclematch/storage"
)

// VectorIndex implements storage.VectorIndex for BadgerDB.
//
// Similarity queries are a linear scan over all stored vectors with a
// dot-product score. The catalog is small enough that a scan beats the
// operational cost of a dedicated ANN service for this embedded deployment.
type VectorIndex struct {
	backend *Backend
}

var _ storage.VectorIndex = (*VectorIndex)(nil)

// NewVectorIndex creates a new VectorIndex.
func NewVectorIndex(backend *Backend) *VectorIndex {
	return &VectorIndex{backend: backend}
}

// Close is a no-op; the shared backend owns the database handle.
func (x *VectorIndex) Close() error {
	return nil
}

// Upsert inserts or replaces the vector entry for entry.ID.
func (x *VectorIndex) Upsert(ctx context.Context, entry *storage.VectorEntry) error {
	if entry == nil || entry.ID == "" {
		return storage.ErrInvalidQuery
	}

	return x.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeVectorKey(entry.ID), storage.MarshalVectorEntry(entry)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Get retrieves the stored entry for an identifier.
func (x *VectorIndex) Get(ctx context.Context, id string) (*storage.VectorEntry, error) {
	var entry *storage.VectorEntry

	err := x.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeVectorKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			entry, err = storage.UnmarshalVectorEntry(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// Query returns up to topK candidates ranked by similarity, highest first.
func (x *VectorIndex) Query(ctx context.Context, vector []float32, topK int, includeMetadata bool) ([]core.Candidate, error) {
	if topK < 1 {
		return nil, storage.ErrInvalidQuery
	}

	candidates := make([]core.Candidate, 0, topK)

	err := x.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(vectorEntryPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entry *storage.VectorEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalVectorEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			if entry == nil || len(entry.Vector) == 0 {
				continue
			}

			candidate := core.Candidate{
				ID: entry.ID,
				// Dot product equals cosine similarity for normalized vectors
				Score: dotProduct(vector, entry.Vector),
			}
			if includeMetadata {
				candidate.Metadata = map[string]string{
					"description": entry.Description,
				}
			}
			candidates = append(candidates, candidate)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(candidates, func(a, b core.Candidate) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	return candidates, nil
}

// Delete removes the entry for an identifier.
func (x *VectorIndex) Delete(ctx context.Context, id string) error {
	return x.backend.WithTx(func(tx *badger.Txn) error {
		key := makeVectorKey(id)
		if _, err := tx.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

package storage

import (
	"context"

	"github.com/poiesic/vehiclematch/core"
)

// VehicleRepository provides operations for managing catalog records.
// Implementations must be thread-safe and support concurrent access.
type VehicleRepository interface {
	// AddVehicle creates a new catalog record with the given partner
	// identifier and description. Sets InsertedAt on creation.
	// Returns ErrDuplicateKey if the identifier already exists.
	AddVehicle(ctx context.Context, id, description string) (*core.VehicleRecord, error)

	// GetVehicle retrieves a single record by identifier.
	// Returns ErrNotFound if the record doesn't exist.
	GetVehicle(ctx context.Context, id string) (*core.VehicleRecord, error)

	// GetVehicles retrieves multiple records by identifier.
	// Returns only the records that exist (no error for missing members).
	GetVehicles(ctx context.Context, ids ...string) ([]*core.VehicleRecord, error)

	// CountVehicles returns the number of records in the catalog.
	CountVehicles(ctx context.Context) (int, error)

	// Close releases resources held by the repository.
	Close() error
}

// VectorIndex provides similarity retrieval over embedded descriptions.
// Implementations must be thread-safe and support concurrent access.
type VectorIndex interface {
	// Upsert inserts or replaces the vector entry for entry.ID.
	Upsert(ctx context.Context, entry *VectorEntry) error

	// Get retrieves the stored entry for an identifier.
	// Returns ErrNotFound if no entry exists.
	Get(ctx context.Context, id string) (*VectorEntry, error)

	// Query returns up to topK candidates ranked by similarity to the
	// given vector, highest first. An empty result is not an error.
	// When includeMetadata is true, candidates carry the entry metadata.
	Query(ctx context.Context, vector []float32, topK int, includeMetadata bool) ([]core.Candidate, error)

	// Delete removes the entry for an identifier.
	// Returns ErrNotFound if no entry exists.
	Delete(ctx context.Context, id string) error

	// Close releases resources held by the index.
	Close() error
}

// VectorEntry is the stored form of one vector index entry. Fingerprint is
// the BLAKE2b digest of the description that was embedded; the bulk loader
// compares it on reload to skip re-embedding unchanged rows.
type VectorEntry struct {
	ID          string
	Vector      []float32
	Fingerprint uint64
	Description string
}

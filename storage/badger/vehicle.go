package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/vehiclematch/core"
	"github.com/poiesic/vehiclematch/storage"
)

// VehicleRepository implements storage.VehicleRepository for BadgerDB.
type VehicleRepository struct {
	backend *Backend
}

var _ storage.VehicleRepository = (*VehicleRepository)(nil)

// NewVehicleRepository creates a new VehicleRepository.
func NewVehicleRepository(backend *Backend) *VehicleRepository {
	return &VehicleRepository{backend: backend}
}

// Close is a no-op; the shared backend owns the database handle.
func (r *VehicleRepository) Close() error {
	return nil
}

// AddVehicle creates a new catalog record.
func (r *VehicleRepository) AddVehicle(ctx context.Context, id, description string) (*core.VehicleRecord, error) {
	record := &core.VehicleRecord{
		ID:          id,
		Description: description,
	}
	if err := core.ValidateVehicleRecord(record); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeVehicleKey(id)

		// Partner identifiers are unique; reject duplicates.
		_, err := tx.Get(key)
		if err == nil {
			return storage.ErrDuplicateKey
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		record.InsertedAt = time.Now().UTC()
		if err := tx.Set(key, storage.MarshalVehicleRecord(record)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return record, nil
}

// GetVehicle retrieves a single record by identifier.
func (r *VehicleRepository) GetVehicle(ctx context.Context, id string) (*core.VehicleRecord, error) {
	var record *core.VehicleRecord

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		record, err = r.readVehicle(tx, id)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, storage.ErrNotFound
	}

	return record, nil
}

// GetVehicles retrieves multiple records by identifier.
// Missing identifiers are skipped without error.
func (r *VehicleRepository) GetVehicles(ctx context.Context, ids ...string) ([]*core.VehicleRecord, error) {
	records := make([]*core.VehicleRecord, 0, len(ids))

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			record, err := r.readVehicle(tx, id)
			if err != nil {
				return err
			}
			if record != nil {
				records = append(records, record)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// CountVehicles returns the number of records in the catalog.
func (r *VehicleRepository) CountVehicles(ctx context.Context) (int, error) {
	var count int

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(vehicleRecordPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// readVehicle reads a record within a transaction.
// Returns (nil, nil) when the key does not exist.
func (r *VehicleRepository) readVehicle(tx *badger.Txn, id string) (*core.VehicleRecord, error) {
	item, err := tx.Get(makeVehicleKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var record *core.VehicleRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalVehicleRecord(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

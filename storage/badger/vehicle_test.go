package badger

import (
	"context"
	"testing"

	"github.com/poiesic/vehiclematch/core"
	"github.com/poiesic/vehiclematch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVehicleRepository_AddAndGet(t *testing.T) {
	vehicles, _, backend, err := NewMemoryStore()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	record, err := vehicles.AddVehicle(ctx, "FM-100", "FIAT MOBI 2024 TREKKING, L4, 1.0L, 69 CP, 5 PUERTAS, AUT")
	require.NoError(t, err)
	assert.Equal(t, "FM-100", record.ID)
	assert.False(t, record.InsertedAt.IsZero())

	got, err := vehicles.GetVehicle(ctx, "FM-100")
	require.NoError(t, err)
	assert.Equal(t, record.Description, got.Description)
	assert.Equal(t, record.ID, got.ID)
}

func TestVehicleRepository_AddDuplicate(t *testing.T) {
	vehicles, _, backend, err := NewMemoryStore()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	_, err = vehicles.AddVehicle(ctx, "FM-100", "FIAT MOBI 2024 TREKKING")
	require.NoError(t, err)

	_, err = vehicles.AddVehicle(ctx, "FM-100", "FIAT MOBI 2024 LIKE")
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestVehicleRepository_AddInvalid(t *testing.T) {
	vehicles, _, backend, err := NewMemoryStore()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	_, err = vehicles.AddVehicle(ctx, "", "FIAT MOBI 2024 TREKKING")
	assert.ErrorIs(t, err, core.ErrEmptyID)

	_, err = vehicles.AddVehicle(ctx, "FM-100", "")
	assert.ErrorIs(t, err, core.ErrEmptyDescription)
}

func TestVehicleRepository_GetMissing(t *testing.T) {
	vehicles, _, backend, err := NewMemoryStore()
	require.NoError(t, err)
	defer backend.Close()

	_, err = vehicles.GetVehicle(context.Background(), "NOPE-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestVehicleRepository_GetVehicles_SubsetOnly(t *testing.T) {
	vehicles, _, backend, err := NewMemoryStore()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	_, err = vehicles.AddVehicle(ctx, "FM-100", "FIAT MOBI 2024 TREKKING")
	require.NoError(t, err)
	_, err = vehicles.AddVehicle(ctx, "NV-200", "NISSAN VERSA SENSE 1.6 MT 2019")
	require.NoError(t, err)

	records, err := vehicles.GetVehicles(ctx, "FM-100", "MISSING-1", "NV-200", "MISSING-2")
	require.NoError(t, err)
	require.Len(t, records, 2)

	ids := []string{records[0].ID, records[1].ID}
	assert.Contains(t, ids, "FM-100")
	assert.Contains(t, ids, "NV-200")
}

func TestVehicleRepository_GetVehicles_Empty(t *testing.T) {
	vehicles, _, backend, err := NewMemoryStore()
	require.NoError(t, err)
	defer backend.Close()

	records, err := vehicles.GetVehicles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestVehicleRepository_CountVehicles(t *testing.T) {
	vehicles, _, backend, err := NewMemoryStore()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	count, err := vehicles.CountVehicles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = vehicles.AddVehicle(ctx, "FM-100", "FIAT MOBI 2024 TREKKING")
	require.NoError(t, err)
	_, err = vehicles.AddVehicle(ctx, "NV-200", "NISSAN VERSA SENSE 1.6 MT 2019")
	require.NoError(t, err)

	count, err = vehicles.CountVehicles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

package vehiclematch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/vehiclematch/ai/mock"
	"github.com/poiesic/vehiclematch/core"
	"github.com/poiesic/vehiclematch/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog(t *testing.T) {
	t.Run("create new catalog", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_catalog")
		catalog, err := NewCatalog(tmpDir, WithProvider(mock.NewMockProvider()))
		require.NoError(t, err)
		require.NotNil(t, catalog)
		defer catalog.Close()

		assert.NotNil(t, catalog.Vehicles())
		assert.NotNil(t, catalog.Index())
		assert.NotNil(t, catalog.Provider())
	})

	t.Run("in-memory storage", func(t *testing.T) {
		catalog, err := NewCatalog("", WithInMemoryStorage(), WithProvider(mock.NewMockProvider()))
		require.NoError(t, err)
		require.NotNil(t, catalog)
		defer catalog.Close()
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// A file path instead of a directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		catalog, err := NewCatalog(tmpFile, WithProvider(mock.NewMockProvider()))
		assert.Error(t, err)
		assert.Nil(t, catalog)
	})
}

func TestCatalog_Close(t *testing.T) {
	catalog, err := NewCatalog("", WithInMemoryStorage(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)

	assert.NoError(t, catalog.Close())
}

func TestCatalog_FactoryMethods(t *testing.T) {
	catalog, err := NewCatalog("", WithInMemoryStorage(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer catalog.Close()

	t.Run("can create matcher", func(t *testing.T) {
		matcher, err := catalog.NewMatcher()
		require.NoError(t, err)
		require.NotNil(t, matcher)
	})

	t.Run("can create loader", func(t *testing.T) {
		loader, err := catalog.NewLoader()
		require.NoError(t, err)
		require.NotNil(t, loader)
		loader.Release()
	})
}

func TestCatalog_EndToEnd(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	arbiter := mock.NewMockArbiter()
	catalog, err := NewCatalog("", WithInMemoryStorage(),
		WithProvider(mock.NewMockProviderWithServices(embedder, arbiter)))
	require.NoError(t, err)
	defer catalog.Close()

	ctx := context.Background()

	loader, err := catalog.NewLoader()
	require.NoError(t, err)
	defer loader.Release()

	// The mock embedder is deterministic, so loading and querying the same
	// description retrieves it with a perfect score.
	description := "FIAT MOBI 2024 TREKKING, L4, 1.0L, 69 CP, 5 PUERTAS, AUT"
	stats, err := loader.Load(ctx, []ingest.Row{{ID: "FM-100", Description: description}})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Added)

	matcher, err := catalog.NewMatcher()
	require.NoError(t, err)

	outcome, err := matcher.Match(ctx, core.MatchQuery{Description: description})
	require.NoError(t, err)
	require.True(t, outcome.Matched())
	assert.Equal(t, "FM-100", outcome.Record.ID)
}

package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmorton/folio/internal/common"
	"github.com/bmorton/folio/internal/models"
	"github.com/bmorton/folio/internal/search"
	"github.com/bmorton/folio/internal/storage/userdb"
)

func testService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	logger := common.NewSilentLogger()

	users, err := userdb.NewStore(filepath.Join(dir, "folio.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { users.Close() })

	idx, err := search.NewIndex(filepath.Join(dir, "catalog.bleve"), logger)
	require.NoError(t, err)

	svc, err := NewService(users, idx, logger)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestImportAndSearch(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	require.NoError(t, svc.Import(ctx, []models.CatalogEntry{
		{Symbol: "AAPL", Name: "Apple Inc", Exchange: "NASDAQ", Sector: "Technology"},
		{Symbol: "KO", Name: "Coca-Cola Company", Exchange: "NYSE", Sector: "Consumer Defensive"},
	}))

	results, err := svc.Search(ctx, "coca")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "KO", results[0].Symbol)
}

func TestGet(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	require.NoError(t, svc.Import(ctx, []models.CatalogEntry{
		{Symbol: "AAPL", Name: "Apple Inc", Exchange: "NASDAQ"},
	}))

	entry, err := svc.Get(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc", entry.Name)

	_, err = svc.Get(ctx, "ZZZZ")
	assert.ErrorIs(t, err, ErrSymbolNotFound)
}

func TestReindexOnStartup(t *testing.T) {
	dir := t.TempDir()
	logger := common.NewSilentLogger()
	ctx := context.Background()

	users, err := userdb.NewStore(filepath.Join(dir, "folio.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { users.Close() })

	// Seed the store directly, then build the service against a fresh index.
	require.NoError(t, users.UpsertCatalog(ctx, []models.CatalogEntry{
		{Symbol: "MSFT", Name: "Microsoft Corporation", Exchange: "NASDAQ"},
	}))

	idx, err := search.NewIndex(filepath.Join(dir, "catalog.bleve"), logger)
	require.NoError(t, err)

	svc, err := NewService(users, idx, logger)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	entry, err := svc.Get(ctx, "MSFT")
	require.NoError(t, err)
	assert.Equal(t, "Microsoft Corporation", entry.Name)
}

func TestImportEmpty(t *testing.T) {
	svc := testService(t)

	require.NoError(t, svc.Import(context.Background(), nil))
}

func TestSearchCancelledContext(t *testing.T) {
	svc := testService(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Search(ctx, "apple")
	assert.ErrorIs(t, err, context.Canceled)
}

package search

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmorton/folio/internal/common"
	"github.com/bmorton/folio/internal/models"
)

func testIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewIndex(filepath.Join(t.TempDir(), "catalog.bleve"), common.NewSilentLogger())
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	require.NoError(t, idx.IndexEntries([]models.CatalogEntry{
		{Symbol: "AAPL", Name: "Apple Inc", Exchange: "NASDAQ", Sector: "Technology", Industry: "Consumer Electronics"},
		{Symbol: "AAP", Name: "Advance Auto Parts", Exchange: "NYSE", Sector: "Consumer Cyclical", Industry: "Auto Parts"},
		{Symbol: "MSFT", Name: "Microsoft Corporation", Exchange: "NASDAQ", Sector: "Technology", Industry: "Software"},
		{Symbol: "JPM", Name: "JPMorgan Chase", Exchange: "NYSE", Sector: "Financial Services", Industry: "Banks"},
	}))
	return idx
}

func TestSearchExactSymbolRanksFirst(t *testing.T) {
	idx := testIndex(t)

	results, err := idx.Search("AAP", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	// Exact symbol match outranks the prefix match on AAPL.
	assert.Equal(t, "AAP", results[0].Symbol)
}

func TestSearchByName(t *testing.T) {
	idx := testIndex(t)

	results, err := idx.Search("microsoft", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "MSFT", results[0].Symbol)
	assert.Equal(t, "Microsoft Corporation", results[0].Name)
}

func TestSearchSubstring(t *testing.T) {
	idx := testIndex(t)

	results, err := idx.Search("organ", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "JPM", results[0].Symbol)
}

func TestSearchEmptyQuery(t *testing.T) {
	idx := testIndex(t)

	results, err := idx.Search("   ", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchLimit(t *testing.T) {
	idx := testIndex(t)

	results, err := idx.Search("a", 1)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), 1)
}

func TestGetBySymbol(t *testing.T) {
	idx := testIndex(t)

	entry, err := idx.Get("aapl")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "AAPL", entry.Symbol)
	assert.Equal(t, "Technology", entry.Sector)

	missing, err := idx.Get("ZZZZ")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestReindexReplacesEntry(t *testing.T) {
	idx := testIndex(t)

	require.NoError(t, idx.IndexEntries([]models.CatalogEntry{
		{Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NASDAQ", Sector: "Technology", Industry: "Hardware"},
	}))

	entry, err := idx.Get("AAPL")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "Hardware", entry.Industry)

	count, err := idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), count)
}

func TestDeleteSymbol(t *testing.T) {
	idx := testIndex(t)

	require.NoError(t, idx.Delete("JPM"))

	entry, err := idx.Get("JPM")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

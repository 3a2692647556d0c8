// Package search provides full-text symbol lookup over the catalog using Bleve.
package search

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/bmorton/folio/internal/common"
	"github.com/bmorton/folio/internal/models"
)

// Index wraps a Bleve index over catalog entries.
type Index struct {
	index  bleve.Index
	logger *common.Logger
}

// NewIndex opens the index at path, creating it if it does not exist.
func NewIndex(path string, logger *common.Logger) (*Index, error) {
	index, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		index, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create search index: %w", err)
		}
		logger.Info().Str("path", path).Msg("Search index created")
	} else if err != nil {
		return nil, fmt.Errorf("failed to open search index: %w", err)
	} else {
		logger.Debug().Str("path", path).Msg("Search index opened")
	}

	return &Index{index: index, logger: logger}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	entryMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Store = true
	textFieldMapping.Index = true
	for _, field := range []string{"symbol", "name", "exchange", "sector", "industry"} {
		entryMapping.AddFieldMappingsAt(field, textFieldMapping)
	}
	indexMapping.AddDocumentMapping("_default", entryMapping)

	return indexMapping
}

// IndexEntries adds or replaces catalog entries in a single batch.
func (x *Index) IndexEntries(entries []models.CatalogEntry) error {
	batch := x.index.NewBatch()
	for _, entry := range entries {
		if entry.Symbol == "" {
			continue
		}
		if err := batch.Index(entry.Symbol, entry); err != nil {
			return fmt.Errorf("failed to batch catalog entry %s: %w", entry.Symbol, err)
		}
	}
	if err := x.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to index catalog batch: %w", err)
	}

	x.logger.Debug().Int("count", len(entries)).Msg("Catalog entries indexed")
	return nil
}

// Search ranks catalog entries against the query. Exact symbol matches rank
// first, then symbol prefixes, then name matches, then substring matches.
func (x *Index) Search(query string, limit int) ([]models.CatalogEntry, error) {
	if limit <= 0 {
		limit = 25
	}
	lowered := strings.ToLower(strings.TrimSpace(query))
	if lowered == "" {
		return nil, nil
	}

	exactSymbol := bleve.NewTermQuery(lowered)
	exactSymbol.SetField("symbol")
	exactSymbol.SetBoost(10.0)

	prefixSymbol := bleve.NewPrefixQuery(lowered)
	prefixSymbol.SetField("symbol")
	prefixSymbol.SetBoost(5.0)

	nameMatch := bleve.NewMatchQuery(query)
	nameMatch.SetField("name")
	nameMatch.SetBoost(3.0)

	wildcardSymbol := bleve.NewWildcardQuery("*" + lowered + "*")
	wildcardSymbol.SetField("symbol")
	wildcardSymbol.SetBoost(2.0)

	wildcardName := bleve.NewWildcardQuery("*" + lowered + "*")
	wildcardName.SetField("name")
	wildcardName.SetBoost(1.5)

	searchQuery := bleve.NewDisjunctionQuery(
		exactSymbol,
		prefixSymbol,
		nameMatch,
		wildcardSymbol,
		wildcardName,
	)

	request := bleve.NewSearchRequest(searchQuery)
	request.Fields = []string{"symbol", "name", "exchange", "sector", "industry"}
	request.Size = limit

	results, err := x.index.Search(request)
	if err != nil {
		return nil, fmt.Errorf("failed to search catalog: %w", err)
	}

	entries := make([]models.CatalogEntry, 0, len(results.Hits))
	for _, hit := range results.Hits {
		entries = append(entries, entryFromFields(hit.Fields))
	}
	return entries, nil
}

// Get returns the catalog entry for an exact symbol, or nil when absent.
func (x *Index) Get(symbol string) (*models.CatalogEntry, error) {
	termQuery := bleve.NewTermQuery(strings.ToLower(symbol))
	termQuery.SetField("symbol")

	request := bleve.NewSearchRequest(termQuery)
	request.Fields = []string{"symbol", "name", "exchange", "sector", "industry"}
	request.Size = 1

	results, err := x.index.Search(request)
	if err != nil {
		return nil, fmt.Errorf("failed to look up symbol %s: %w", symbol, err)
	}
	if len(results.Hits) == 0 {
		return nil, nil
	}

	entry := entryFromFields(results.Hits[0].Fields)
	return &entry, nil
}

// Delete removes a symbol from the index. Removing an absent symbol is a no-op.
func (x *Index) Delete(symbol string) error {
	if err := x.index.Delete(symbol); err != nil {
		return fmt.Errorf("failed to delete symbol %s from index: %w", symbol, err)
	}
	return nil
}

// DocCount returns the number of indexed entries.
func (x *Index) DocCount() (uint64, error) {
	return x.index.DocCount()
}

func (x *Index) Close() error {
	return x.index.Close()
}

func entryFromFields(fields map[string]interface{}) models.CatalogEntry {
	getString := func(key string) string {
		if val, ok := fields[key].(string); ok {
			return val
		}
		return ""
	}
	return models.CatalogEntry{
		Symbol:   getString("symbol"),
		Name:     getString("name"),
		Exchange: getString("exchange"),
		Sector:   getString("sector"),
		Industry: getString("industry"),
	}
}

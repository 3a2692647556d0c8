package interfaces

import (
	"context"

	"github.com/bmorton/folio/internal/models"
)

// CatalogService manages the symbol catalog and its search index.
type CatalogService interface {
	// Search finds catalog entries matching a free-text query, best
	// matches first.
	Search(ctx context.Context, query string) ([]models.CatalogEntry, error)

	// Get retrieves a single catalog entry by exact symbol.
	Get(ctx context.Context, symbol string) (*models.CatalogEntry, error)

	// Import stores catalog entries and rebuilds the search index.
	Import(ctx context.Context, entries []models.CatalogEntry) error

	Close() error
}

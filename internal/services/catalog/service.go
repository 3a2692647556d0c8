// Package catalog manages the listed-symbol catalog and its search index.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/bmorton/folio/internal/common"
	"github.com/bmorton/folio/internal/interfaces"
	"github.com/bmorton/folio/internal/models"
	"github.com/bmorton/folio/internal/search"
)

// ErrSymbolNotFound is returned by Get for symbols absent from the catalog.
var ErrSymbolNotFound = errors.New("symbol not found in catalog")

const defaultSearchLimit = 25

// Service keeps catalog rows in the relational store and serves queries
// from the search index. The store is the source of truth; the index is
// rebuilt from it on startup.
type Service struct {
	users  interfaces.UserStore
	index  *search.Index
	logger *common.Logger
}

// NewService builds the catalog service and seeds the search index from
// the stored catalog rows.
func NewService(users interfaces.UserStore, index *search.Index, logger *common.Logger) (*Service, error) {
	s := &Service{
		users:  users,
		index:  index,
		logger: logger,
	}
	if err := s.reindex(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) reindex(ctx context.Context) error {
	entries, err := s.users.ListCatalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog for indexing: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}
	if err := s.index.IndexEntries(entries); err != nil {
		return fmt.Errorf("failed to rebuild catalog index: %w", err)
	}

	s.logger.Info().Int("count", len(entries)).Msg("Catalog index rebuilt")
	return nil
}

func (s *Service) Search(ctx context.Context, query string) ([]models.CatalogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.index.Search(query, defaultSearchLimit)
}

func (s *Service) Get(ctx context.Context, symbol string) (*models.CatalogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entry, err := s.index.Get(symbol)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
	}
	return entry, nil
}

// Import persists entries to the store first, then indexes them. A failed
// store write leaves the index untouched.
func (s *Service) Import(ctx context.Context, entries []models.CatalogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	if err := s.users.UpsertCatalog(ctx, entries); err != nil {
		return fmt.Errorf("failed to store catalog entries: %w", err)
	}
	if err := s.index.IndexEntries(entries); err != nil {
		return fmt.Errorf("failed to index catalog entries: %w", err)
	}

	s.logger.Info().Int("count", len(entries)).Msg("Catalog entries imported")
	return nil
}

func (s *Service) Close() error {
	return s.index.Close()
}

// Compile-time check
var _ interfaces.CatalogService = (*Service)(nil)

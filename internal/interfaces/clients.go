// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"
	"errors"

	"github.com/bmorton/folio/internal/models"
)

// ErrLookupFailed indicates the market-data provider did not return usable
// data for a symbol — unknown symbol or upstream failure. The design makes
// no distinction between transient and permanent failures; any failure is
// terminal for that call.
var ErrLookupFailed = errors.New("symbol lookup failed")

// PriceOracle provides market prices and company metadata by symbol.
// Implementations must wrap failures with ErrLookupFailed so callers can
// test with errors.Is.
type PriceOracle interface {
	// GetQuote retrieves the current market price for a symbol.
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)

	// GetOverview retrieves company metadata for a symbol.
	GetOverview(ctx context.Context, symbol string) (*models.Overview, error)

	// GetHistory retrieves up to size daily bars for a symbol, in the
	// order the provider returned them.
	GetHistory(ctx context.Context, symbol string, size int) ([]models.Candle, error)
}

// QuoteService is the collaborator-boundary wrapper the rest of the system
// talks to: a PriceOracle plus rate limiting, per-call timeouts, and the
// combined lookup operation.
type QuoteService interface {
	PriceOracle

	// Lookup combines overview metadata with the latest price.
	Lookup(ctx context.Context, symbol string) (*models.StockInfo, error)
}

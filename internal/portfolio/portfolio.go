// Package portfolio implements the in-memory holdings and cash bookkeeping
// for one user session.
//
// A Portfolio is exclusively owned by a single session worker; it provides
// no internal locking. Cash and holdings are only mutated together —
// operations validate inputs and fetch prices before touching any state, so
// a failed call never leaves a partial mutation.
package portfolio

import (
	"context"
	"fmt"

	"github.com/bmorton/folio/internal/common"
	"github.com/bmorton/folio/internal/interfaces"
	"github.com/bmorton/folio/internal/models"
)

// Portfolio holds the live cash balance and holdings for one user.
type Portfolio struct {
	userID   int64
	cash     float64
	holdings map[string]*models.Holding
	oracle   interfaces.PriceOracle
	logger   *common.Logger
}

// New creates an empty portfolio for a user with the given starting cash.
// The oracle is consulted on buy/sell/watch/refresh; it must not be nil.
func New(userID int64, startingCash float64, oracle interfaces.PriceOracle, logger *common.Logger) *Portfolio {
	if startingCash < 0 {
		startingCash = 0
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Portfolio{
		userID:   userID,
		cash:     startingCash,
		holdings: make(map[string]*models.Holding),
		oracle:   oracle,
		logger:   logger,
	}
}

// UserID returns the owning user's ID.
func (p *Portfolio) UserID() int64 {
	return p.userID
}

// CashBalance returns the current cash balance.
func (p *Portfolio) CashBalance() float64 {
	return p.cash
}

// ChargeFunds adds amount to the cash balance.
// Returns ErrInvalidAmount when amount is negative.
func (p *Portfolio) ChargeFunds(amount float64) error {
	if amount < 0 {
		return fmt.Errorf("charge funds: %w", ErrInvalidAmount)
	}
	p.cash += amount

	p.logger.Info().
		Int64("user_id", p.userID).
		Float64("amount", amount).
		Float64("cash_balance", p.cash).
		Msg("Funds charged")
	return nil
}

// Buy purchases quantity shares of symbol at the current oracle price.
// The cash debit and the holding update happen together or not at all: the
// quantity check, price fetch, and funds check all precede any mutation.
func (p *Portfolio) Buy(ctx context.Context, symbol string, quantity int64) error {
	if quantity < 1 {
		return fmt.Errorf("buy %s: %w", symbol, ErrInvalidQuantity)
	}

	quote, err := p.oracle.GetQuote(ctx, symbol)
	if err != nil {
		return fmt.Errorf("buy %s: %w", symbol, err)
	}

	cost := quote.Price * float64(quantity)
	if cost > p.cash {
		return fmt.Errorf("buy %s: %w: need %.2f, have %.2f", symbol, ErrInsufficientFunds, cost, p.cash)
	}

	held, ok := p.holdings[symbol]
	if ok {
		held.Quantity += quantity
		held.CurrentPrice = quote.Price
	} else {
		// New position — fetch metadata before committing anything.
		overview, err := p.oracle.GetOverview(ctx, symbol)
		if err != nil {
			return fmt.Errorf("buy %s: %w", symbol, err)
		}
		p.holdings[symbol] = &models.Holding{
			Symbol:       symbol,
			Name:         overview.Name,
			CurrentPrice: quote.Price,
			Description:  overview.Description,
			Sector:       overview.Sector,
			Industry:     overview.Industry,
			MarketCap:    overview.MarketCap,
			Quantity:     quantity,
		}
	}
	p.cash -= cost

	p.logger.Info().
		Int64("user_id", p.userID).
		Str("symbol", symbol).
		Int64("quantity", quantity).
		Float64("price", quote.Price).
		Float64("cash_balance", p.cash).
		Msg("Shares bought")
	return nil
}

// Sell disposes quantity shares of symbol at the current oracle price and
// credits the proceeds to cash. The holding is retained even when the
// resulting quantity is zero — removal is only ever explicit via Unwatch.
func (p *Portfolio) Sell(ctx context.Context, symbol string, quantity int64) error {
	if quantity < 1 {
		return fmt.Errorf("sell %s: %w", symbol, ErrInvalidQuantity)
	}

	held, ok := p.holdings[symbol]
	if !ok {
		return fmt.Errorf("sell %s: %w", symbol, ErrNotHeld)
	}
	if held.Quantity < quantity {
		return fmt.Errorf("sell %s: %w: own %d, requested %d", symbol, ErrInsufficientShares, held.Quantity, quantity)
	}

	quote, err := p.oracle.GetQuote(ctx, symbol)
	if err != nil {
		return fmt.Errorf("sell %s: %w", symbol, err)
	}

	held.Quantity -= quantity
	held.CurrentPrice = quote.Price
	p.cash += quote.Price * float64(quantity)

	p.logger.Info().
		Int64("user_id", p.userID).
		Str("symbol", symbol).
		Int64("quantity", quantity).
		Float64("price", quote.Price).
		Float64("cash_balance", p.cash).
		Msg("Shares sold")
	return nil
}

// Watch adds symbol to the portfolio with quantity zero.
// Returns ErrAlreadyWatched when the symbol is already present, whether
// watched or owned.
func (p *Portfolio) Watch(ctx context.Context, symbol string) error {
	if _, ok := p.holdings[symbol]; ok {
		return fmt.Errorf("watch %s: %w", symbol, ErrAlreadyWatched)
	}

	overview, err := p.oracle.GetOverview(ctx, symbol)
	if err != nil {
		return fmt.Errorf("watch %s: %w", symbol, err)
	}
	quote, err := p.oracle.GetQuote(ctx, symbol)
	if err != nil {
		return fmt.Errorf("watch %s: %w", symbol, err)
	}

	p.holdings[symbol] = &models.Holding{
		Symbol:       symbol,
		Name:         overview.Name,
		CurrentPrice: quote.Price,
		Description:  overview.Description,
		Sector:       overview.Sector,
		Industry:     overview.Industry,
		MarketCap:    overview.MarketCap,
		Quantity:     0,
	}

	p.logger.Info().
		Int64("user_id", p.userID).
		Str("symbol", symbol).
		Msg("Symbol watched")
	return nil
}

// Unwatch removes symbol from the portfolio. Any shares still held are
// sold first at the current oracle price, so the cash credit reuses Sell's
// behavior; the entry is only deleted once the sale has committed.
func (p *Portfolio) Unwatch(ctx context.Context, symbol string) error {
	held, ok := p.holdings[symbol]
	if !ok {
		return fmt.Errorf("unwatch %s: %w", symbol, ErrNotHeld)
	}

	if held.Quantity > 0 {
		if err := p.Sell(ctx, symbol, held.Quantity); err != nil {
			return fmt.Errorf("unwatch %s: %w", symbol, err)
		}
	}
	delete(p.holdings, symbol)

	p.logger.Info().
		Int64("user_id", p.userID).
		Str("symbol", symbol).
		Msg("Symbol unwatched")
	return nil
}

// RefreshPrice fetches the current price for symbol, updates the stored
// price when the symbol is held, and returns the fetched price either way.
func (p *Portfolio) RefreshPrice(ctx context.Context, symbol string) (float64, error) {
	quote, err := p.oracle.GetQuote(ctx, symbol)
	if err != nil {
		return 0, fmt.Errorf("refresh price %s: %w", symbol, err)
	}
	if held, ok := p.holdings[symbol]; ok {
		held.CurrentPrice = quote.Price
	}
	return quote.Price, nil
}

// TotalValue returns cash plus the market value of all holdings at their
// cached prices. No oracle calls are made.
func (p *Portfolio) TotalValue() float64 {
	return p.cash + p.AssetValue()
}

// AssetValue returns the market value of all holdings at their cached
// prices, excluding cash.
func (p *Portfolio) AssetValue() float64 {
	var total float64
	for _, h := range p.holdings {
		total += h.MarketValue()
	}
	return total
}

// Clear empties the holdings and resets cash to zero.
func (p *Portfolio) Clear() {
	p.holdings = make(map[string]*models.Holding)
	p.cash = 0
}

// LoadHolding upserts a holding during session hydration: when the symbol
// is already present its quantity is incremented and price and market cap
// are overwritten; otherwise the holding is inserted as-is.
func (p *Portfolio) LoadHolding(h models.Holding) {
	if held, ok := p.holdings[h.Symbol]; ok {
		held.Quantity += h.Quantity
		held.CurrentPrice = h.CurrentPrice
		held.MarketCap = h.MarketCap
		return
	}
	clone := h
	p.holdings[h.Symbol] = &clone
}

// Holdings returns a copy of the holdings map keyed by symbol.
func (p *Portfolio) Holdings() map[string]models.Holding {
	out := make(map[string]models.Holding, len(p.holdings))
	for sym, h := range p.holdings {
		out[sym] = *h
	}
	return out
}

// Holding returns the holding for symbol, or false when absent.
func (p *Portfolio) Holding(symbol string) (models.Holding, bool) {
	h, ok := p.holdings[symbol]
	if !ok {
		return models.Holding{}, false
	}
	return *h, true
}

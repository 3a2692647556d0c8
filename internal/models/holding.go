// Package models defines data structures for Folio
package models

import "fmt"

// Holding represents a single tracked security in a portfolio.
// Quantity zero means the symbol is watched but not owned.
type Holding struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	CurrentPrice float64 `json:"current_price"`
	Description  string  `json:"description"`
	Sector       string  `json:"sector"`
	Industry     string  `json:"industry"`
	MarketCap    string  `json:"market_cap"` // opaque display string from the provider
	Quantity     int64   `json:"quantity"`
}

// Validate checks the Holding invariants: non-empty symbol,
// non-negative price and quantity.
func (h *Holding) Validate() error {
	if h.Symbol == "" {
		return fmt.Errorf("holding symbol must not be empty")
	}
	if h.CurrentPrice < 0 {
		return fmt.Errorf("holding price must be non-negative, got %f", h.CurrentPrice)
	}
	if h.Quantity < 0 {
		return fmt.Errorf("holding quantity must be non-negative, got %d", h.Quantity)
	}
	return nil
}

// MarketValue returns current price × quantity.
func (h *Holding) MarketValue() float64 {
	return h.CurrentPrice * float64(h.Quantity)
}

// SessionSnapshot is the persisted form of a portfolio: one document per
// user, overwritten wholesale at logout and read wholesale at login.
type SessionSnapshot struct {
	UserID      int64              `json:"user_id"`
	CashBalance float64            `json:"cash_balance"`
	Holdings    map[string]Holding `json:"holdings"`
}

// NewEmptySnapshot returns the snapshot created the first time a user's
// session is touched: no holdings, zero cash.
func NewEmptySnapshot(userID int64) *SessionSnapshot {
	return &SessionSnapshot{
		UserID:      userID,
		CashBalance: 0,
		Holdings:    map[string]Holding{},
	}
}

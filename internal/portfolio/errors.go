package portfolio

import "errors"

// Precondition failures surfaced directly to the caller. None are retried
// internally and none are fatal to the process.
var (
	ErrInvalidAmount      = errors.New("amount must be non-negative")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("not enough shares to sell")
	ErrNotHeld            = errors.New("symbol not in portfolio")
	ErrAlreadyWatched     = errors.New("symbol already in portfolio")
)

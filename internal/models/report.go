package models

// HoldingSummary is one row of a portfolio summary report.
type HoldingSummary struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Quantity     int64   `json:"quantity"`
	CurrentPrice float64 `json:"current_price"`
	TotalValue   float64 `json:"total_value"`
}

// PortfolioSummary aggregates holding rows with the portfolio totals.
type PortfolioSummary struct {
	UserID      int64            `json:"user_id"`
	Holdings    []HoldingSummary `json:"holdings"`
	AssetValue  float64          `json:"asset_value"`
	CashBalance float64          `json:"cash_balance"`
	TotalValue  float64          `json:"total_value"`
}

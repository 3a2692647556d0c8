package models

// Quote is the current market price for a symbol.
type Quote struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

// Overview holds company metadata for a symbol as returned by the
// market-data provider.
type Overview struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Sector      string `json:"sector"`
	Industry    string `json:"industry"`
	MarketCap   string `json:"market_cap"`
}

// Candle is one daily price bar. History responses keep the provider's
// ordering — callers must not re-sort.
type Candle struct {
	Date  string  `json:"date"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// StockInfo combines overview metadata with the latest price, the shape
// returned by a full symbol lookup.
type StockInfo struct {
	Overview
	CurrentPrice float64 `json:"current_price"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the only thing the core asks of a market-data provider.
type Quote struct {
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
}

// PositionView is a position marked to market for a snapshot.
type PositionView struct {
	Symbol           string          `json:"symbol"`
	Quantity         int64           `json:"quantity"`
	AvgEntryPrice    decimal.Decimal `json:"avg_entry_price"`
	CurrentPrice     decimal.Decimal `json:"current_price"`
	MarketValue      decimal.Decimal `json:"market_value"`
	UnrealizedPnL    decimal.Decimal `json:"unrealized_pnl"`
	UnrealizedPnLPct decimal.Decimal `json:"unrealized_pnl_pct"`
	// StaleQuote marks a position valued at its entry price because no
	// quote was available for the symbol.
	StaleQuote bool `json:"stale_quote"`
}

// PortfolioSnapshot is a consistent, read-only view of the account marked to
// market. It never feeds back into ledger state.
type PortfolioSnapshot struct {
	AsOf             time.Time       `json:"as_of"`
	CashBalance      decimal.Decimal `json:"cash_balance"`
	Positions        []PositionView  `json:"positions"`
	CostBasis        decimal.Decimal `json:"cost_basis"`
	TotalValue       decimal.Decimal `json:"total_value"`
	UnrealizedPnL    decimal.Decimal `json:"unrealized_pnl"`
	RealizedPnLTotal decimal.Decimal `json:"realized_pnl_total"`
}

// Package models defines the canonical data types shared by the parser,
// ledger, policy engine, and persistence layers.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of a trade intent.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// TradeIntent is a single canonical trade event. It is produced by the
// trade-text parser (or entered directly) and consumed exactly once by the
// ledger. Intents are never mutated after creation.
type TradeIntent struct {
	Symbol     string          `json:"symbol"`
	Side       Side            `json:"side"`
	Quantity   int64           `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Commission decimal.Decimal `json:"commission"`
	ExecutedAt time.Time       `json:"executed_at"`
}

// TotalValue returns quantity x price, before commission.
func (t TradeIntent) TotalValue() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(t.Quantity))
}

// Position is an open holding owned by the ledger. Quantity is always
// positive; a position that reaches zero shares is removed, never retained.
type Position struct {
	Symbol        string          `json:"symbol"`
	Quantity      int64           `json:"quantity"`
	AvgEntryPrice decimal.Decimal `json:"avg_entry_price"`
	OpenedAt      time.Time       `json:"opened_at"`
}

// CostBasis returns quantity x average entry price.
func (p Position) CostBasis() decimal.Decimal {
	return p.AvgEntryPrice.Mul(decimal.NewFromInt(p.Quantity))
}

// RealizedTrade is the append-only record created by every SELL.
type RealizedTrade struct {
	Symbol         string          `json:"symbol"`
	Quantity       int64           `json:"quantity"`
	ExitPrice      decimal.Decimal `json:"exit_price"`
	Commission     decimal.Decimal `json:"commission"`
	EntryBasis     decimal.Decimal `json:"entry_price_basis"`
	RealizedPnL    decimal.Decimal `json:"realized_pnl"`
	RealizedPnLPct decimal.Decimal `json:"realized_pnl_pct"`
	ExecutedAt     time.Time       `json:"executed_at"`
}

// BenchmarkState accumulates the running totals of the benchmark co-tracker:
// how much cash went into the account's own buys, and how many shares of each
// reference instrument that cash could have bought at the time.
type BenchmarkState struct {
	TotalInvested decimal.Decimal            `json:"total_invested"`
	Shares        map[string]decimal.Decimal `json:"reference_shares"`
}

// PortfolioState is the persisted form of the single account this system
// tracks. It matches the JSON state file schema.
type PortfolioState struct {
	Version          string                     `json:"version"`
	UpdatedAt        string                     `json:"updated_at"`
	StartingCash     decimal.Decimal            `json:"starting_cash"`
	CashBalance      decimal.Decimal            `json:"cash_balance"`
	Positions        []Position                 `json:"positions"`
	RealizedTrades   []RealizedTrade            `json:"realized_trades"`
	RealizedPnLTotal decimal.Decimal            `json:"realized_pnl_total"`
	Benchmark        BenchmarkState             `json:"benchmark"`
	StopFloors       map[string]decimal.Decimal `json:"stop_floors"`
}

// Strategy names the stop-loss tier the policy engine selected.
type Strategy string

const (
	StrategyProtectCapital Strategy = "PROTECT_CAPITAL"
	StrategyTightStop      Strategy = "TIGHT_STOP"
	StrategyFibonacci      Strategy = "FIBONACCI_STOP"
	StrategyTrail          Strategy = "TRAIL_STOP"
	StrategyTightTrail     Strategy = "TIGHT_TRAIL"
)

// Trailing reports whether the strategy ratchets: once active, its stop floor
// may only move up on later recommendations.
func (s Strategy) Trailing() bool {
	return s == StrategyTrail || s == StrategyTightTrail
}

// FibLevels are the retracement reference prices between entry and current.
type FibLevels struct {
	Current decimal.Decimal `json:"current"`
	R236    decimal.Decimal `json:"fib_236"`
	R382    decimal.Decimal `json:"fib_382"`
	R500    decimal.Decimal `json:"fib_500"`
	R618    decimal.Decimal `json:"fib_618"`
	R786    decimal.Decimal `json:"fib_786"`
	Entry   decimal.Decimal `json:"entry"`
}

// StopRecommendation is the protective-order suggestion for one open
// position. It is derived on demand and superseded entirely by the next run.
type StopRecommendation struct {
	Symbol       string          `json:"symbol"`
	Quantity     int64           `json:"quantity"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	EntryPrice   decimal.Decimal `json:"entry_price"`
	StopPrice    decimal.Decimal `json:"stop_price"`
	LimitPrice   decimal.Decimal `json:"limit_price"`
	Strategy     Strategy        `json:"strategy"`
	Reason       string          `json:"reason"`
	PnLPct       decimal.Decimal `json:"pnl_percent"`
	DistancePct  decimal.Decimal `json:"distance_percent"`
	RiskDollars  decimal.Decimal `json:"risk_dollars"`
	Volatility   decimal.Decimal `json:"daily_volatility"`
	FibLevels    FibLevels       `json:"fib_levels"`
}

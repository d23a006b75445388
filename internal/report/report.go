// Package report renders ledger snapshots, stop recommendations, and
// benchmark comparisons as console text. It is a pure formatting layer; any
// other consumer of the core's outputs could replace it.
package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/SteppieD/tradinggame/internal/benchmark"
	"github.com/SteppieD/tradinggame/internal/ledger"
	"github.com/SteppieD/tradinggame/internal/models"
	"github.com/SteppieD/tradinggame/internal/parser"
)

const rule = "=================================================="

// Snapshot renders a mark-to-market view of the account.
func Snapshot(snap models.PortfolioSnapshot) string {
	var sb strings.Builder

	sb.WriteString("💼 PORTFOLIO STATUS\n")
	sb.WriteString(rule + "\n")
	fmt.Fprintf(&sb, "Cash Balance: $%s\n", snap.CashBalance.StringFixed(2))

	if len(snap.Positions) == 0 {
		sb.WriteString("No open positions.\n")
	}
	for _, p := range snap.Positions {
		stale := ""
		if p.StaleQuote {
			stale = " (no quote, valued at entry)"
		}
		fmt.Fprintf(&sb, "• %s: %d @ $%s | now $%s%s | value $%s | P&L $%s (%s%%)\n",
			p.Symbol, p.Quantity,
			p.AvgEntryPrice.StringFixed(2), p.CurrentPrice.StringFixed(2), stale,
			p.MarketValue.StringFixed(2),
			p.UnrealizedPnL.StringFixed(2), p.UnrealizedPnLPct.StringFixed(1))
	}

	sb.WriteString(rule + "\n")
	fmt.Fprintf(&sb, "Cost Basis: $%s\n", snap.CostBasis.StringFixed(2))
	fmt.Fprintf(&sb, "Unrealized P&L: $%s\n", snap.UnrealizedPnL.StringFixed(2))
	fmt.Fprintf(&sb, "Realized P&L: $%s\n", snap.RealizedPnLTotal.StringFixed(2))
	fmt.Fprintf(&sb, "Total Value: $%s\n", snap.TotalValue.StringFixed(2))

	return sb.String()
}

// RealizedTail renders the most recent realized trades, newest last.
func RealizedTail(trades []models.RealizedTrade, n int) string {
	if len(trades) == 0 {
		return ""
	}
	if n > 0 && len(trades) > n {
		trades = trades[len(trades)-n:]
	}

	var sb strings.Builder
	sb.WriteString("Recent Sells:\n")
	for _, tr := range trades {
		fmt.Fprintf(&sb, "• %s: sold %d @ $%s (basis $%s) | P&L $%s (%s%%)\n",
			tr.Symbol, tr.Quantity,
			tr.ExitPrice.StringFixed(2), tr.EntryBasis.StringFixed(2),
			tr.RealizedPnL.StringFixed(2), tr.RealizedPnLPct.StringFixed(1))
	}
	return sb.String()
}

// StopOrders renders broker-ready stop-limit instructions, one block per
// open position.
func StopOrders(recs []models.StopRecommendation) string {
	var sb strings.Builder

	sb.WriteString("🛡️ STOP-LOSS RECOMMENDATIONS\n")
	sb.WriteString(rule + "\n")

	if len(recs) == 0 {
		sb.WriteString("No open positions.\n")
		return sb.String()
	}

	for _, r := range recs {
		fmt.Fprintf(&sb, "\n%s (%d shares)\n", r.Symbol, r.Quantity)
		fmt.Fprintf(&sb, "  Current: $%s (entry $%s, P&L %s%%)\n",
			r.CurrentPrice.StringFixed(2), r.EntryPrice.StringFixed(2), r.PnLPct.StringFixed(1))
		fmt.Fprintf(&sb, "  Daily Volatility: ±%s%%\n", r.Volatility.StringFixed(1))
		fmt.Fprintf(&sb, "  Strategy: %s\n", r.Strategy)
		fmt.Fprintf(&sb, "  Stop: $%s | Limit: $%s\n",
			r.StopPrice.StringFixed(2), r.LimitPrice.StringFixed(2))
		fmt.Fprintf(&sb, "  Distance: -%s%% from current | Risk: $%s\n",
			r.DistancePct.StringFixed(1), r.RiskDollars.StringFixed(2))
		fmt.Fprintf(&sb, "  Reason: %s\n", r.Reason)
		fmt.Fprintf(&sb, "  Key Levels: 38.2%% $%s | 50%% $%s | 61.8%% $%s\n",
			r.FibLevels.R382.StringFixed(2), r.FibLevels.R500.StringFixed(2),
			r.FibLevels.R618.StringFixed(2))
	}

	return sb.String()
}

// Benchmark renders the account-vs-reference comparison.
func Benchmark(cmp benchmark.Comparison, accountValue decimal.Decimal) string {
	var sb strings.Builder

	sb.WriteString("📊 BENCHMARK COMPARISON\n")
	sb.WriteString(rule + "\n")
	fmt.Fprintf(&sb, "Total Invested: $%s\n", cmp.TotalInvested.StringFixed(2))
	fmt.Fprintf(&sb, "Account Value: $%s (return %s%%)\n",
		accountValue.StringFixed(2), cmp.AccountReturnPct.StringFixed(2))

	for _, ref := range cmp.References {
		fmt.Fprintf(&sb, "\n%s:\n", ref.Symbol)
		fmt.Fprintf(&sb, "  Current Price: $%s\n", ref.CurrentPrice.StringFixed(2))
		fmt.Fprintf(&sb, "  Equivalent Shares: %s\n", ref.Shares.StringFixed(3))
		fmt.Fprintf(&sb, "  Current Value: $%s\n", ref.CurrentValue.StringFixed(2))
		fmt.Fprintf(&sb, "  Return: $%s (%s%%)\n",
			ref.ReturnAmount.StringFixed(2), ref.ReturnPct.StringFixed(2))
		fmt.Fprintf(&sb, "  Alpha vs %s: %s%%\n", ref.Symbol, ref.Alpha.StringFixed(2))
	}

	return sb.String()
}

// Applied renders the outcome of an ingestion run: what was booked, what was
// rejected by the ledger, and which lines the parser could not read.
func Applied(effects []ledger.AppliedEffect, rejected []error, skipped []parser.Diagnostic) string {
	var sb strings.Builder

	sb.WriteString("📋 TRADE INGESTION\n")
	sb.WriteString(rule + "\n")

	for _, e := range effects {
		fmt.Fprintf(&sb, "✅ %s %d %s @ $%s",
			e.Intent.Side, e.Intent.Quantity, e.Intent.Symbol, e.Intent.Price)
		if e.Realized != nil {
			fmt.Fprintf(&sb, " | realized $%s (%s%%)",
				e.Realized.RealizedPnL.StringFixed(2), e.Realized.RealizedPnLPct.StringFixed(1))
		}
		fmt.Fprintf(&sb, " | cash $%s\n", e.CashBalance.StringFixed(2))
	}

	for _, err := range rejected {
		fmt.Fprintf(&sb, "❌ rejected: %v\n", err)
	}
	for _, d := range skipped {
		fmt.Fprintf(&sb, "⚠️  line %d not understood: %s\n", d.Line, d.Text)
	}

	fmt.Fprintf(&sb, "%s\nApplied %d, rejected %d, skipped %d\n",
		rule, len(effects), len(rejected), len(skipped))

	return sb.String()
}

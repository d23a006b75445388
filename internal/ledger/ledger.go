// Package ledger is the authoritative state of the account: cash balance,
// open positions, and the append-only realized-trade log. It is mutated only
// through Apply, one intent at a time, each all-or-nothing.
package ledger

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SteppieD/tradinggame/internal/models"
)

var hundred = decimal.NewFromInt(100)

// AppliedEffect describes what a successful Apply did.
type AppliedEffect struct {
	Intent models.TradeIntent
	// Position is the resulting holding, nil when the SELL closed it out.
	Position *models.Position
	// Realized is the trade record appended by a SELL, nil on BUY.
	Realized *models.RealizedTrade
	// CashBalance is the balance after the intent.
	CashBalance decimal.Decimal
}

// Ledger holds the mutable account state. Reads always see either the pre-
// or post-mutation state of an Apply, never a partially applied trade.
type Ledger struct {
	mu sync.RWMutex

	startingCash  decimal.Decimal
	cash          decimal.Decimal
	positions     map[string]*models.Position
	realized      []models.RealizedTrade
	realizedTotal decimal.Decimal
}

// New creates an empty ledger seeded with starting cash.
func New(startingCash decimal.Decimal) *Ledger {
	return &Ledger{
		startingCash: startingCash,
		cash:         startingCash,
		positions:    make(map[string]*models.Position),
	}
}

// FromState rebuilds a ledger from a persisted portfolio state.
func FromState(s models.PortfolioState) *Ledger {
	l := &Ledger{
		startingCash:  s.StartingCash,
		cash:          s.CashBalance,
		positions:     make(map[string]*models.Position, len(s.Positions)),
		realized:      append([]models.RealizedTrade(nil), s.RealizedTrades...),
		realizedTotal: s.RealizedPnLTotal,
	}
	for i := range s.Positions {
		p := s.Positions[i]
		l.positions[p.Symbol] = &p
	}
	return l
}

// Apply consumes one trade intent. On error nothing was changed; the caller
// decides whether to skip, retry, or abort the batch.
func (l *Ledger) Apply(intent models.TradeIntent) (AppliedEffect, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch intent.Side {
	case models.SideSell:
		return l.applySell(intent)
	default:
		return l.applyBuy(intent)
	}
}

func (l *Ledger) applyBuy(intent models.TradeIntent) (AppliedEffect, error) {
	cost := intent.TotalValue().Add(intent.Commission)
	if cost.GreaterThan(l.cash) {
		return AppliedEffect{}, &InsufficientCashError{
			Symbol:    intent.Symbol,
			Required:  cost,
			Available: l.cash,
		}
	}

	pos, ok := l.positions[intent.Symbol]
	if ok {
		// Averaging-in: the entry price becomes the quantity-weighted
		// mean of the old and new cost. No lot tracking.
		combined := pos.CostBasis().Add(intent.TotalValue())
		pos.Quantity += intent.Quantity
		pos.AvgEntryPrice = combined.Div(decimal.NewFromInt(pos.Quantity))
	} else {
		pos = &models.Position{
			Symbol:        intent.Symbol,
			Quantity:      intent.Quantity,
			AvgEntryPrice: intent.Price,
			OpenedAt:      intent.ExecutedAt,
		}
		l.positions[intent.Symbol] = pos
	}

	l.cash = l.cash.Sub(cost)

	result := *pos
	return AppliedEffect{
		Intent:      intent,
		Position:    &result,
		CashBalance: l.cash,
	}, nil
}

func (l *Ledger) applySell(intent models.TradeIntent) (AppliedEffect, error) {
	pos, ok := l.positions[intent.Symbol]
	if !ok {
		return AppliedEffect{}, &PositionNotFoundError{Symbol: intent.Symbol}
	}
	if intent.Quantity > pos.Quantity {
		return AppliedEffect{}, &InsufficientQuantityError{
			Symbol:    intent.Symbol,
			Requested: intent.Quantity,
			Held:      pos.Quantity,
		}
	}

	proceeds := intent.TotalValue().Sub(intent.Commission)
	basis := pos.AvgEntryPrice.Mul(decimal.NewFromInt(intent.Quantity))
	pnl := proceeds.Sub(basis)

	pnlPct := decimal.Zero
	if basis.IsPositive() {
		pnlPct = pnl.Div(basis).Mul(hundred)
	}

	trade := models.RealizedTrade{
		Symbol:         intent.Symbol,
		Quantity:       intent.Quantity,
		ExitPrice:      intent.Price,
		Commission:     intent.Commission,
		EntryBasis:     pos.AvgEntryPrice,
		RealizedPnL:    pnl,
		RealizedPnLPct: pnlPct,
		ExecutedAt:     intent.ExecutedAt,
	}

	l.cash = l.cash.Add(proceeds)
	l.realized = append(l.realized, trade)
	l.realizedTotal = l.realizedTotal.Add(pnl)

	effect := AppliedEffect{
		Intent:      intent,
		Realized:    &trade,
		CashBalance: l.cash,
	}

	if intent.Quantity == pos.Quantity {
		// A position never lingers at zero quantity.
		delete(l.positions, intent.Symbol)
	} else {
		pos.Quantity -= intent.Quantity
		result := *pos
		effect.Position = &result
	}

	return effect, nil
}

// MarkToMarket values the account against the given quotes. It is a pure
// read. A held symbol with no quote is valued at its average entry price and
// flagged stale rather than failing the snapshot.
func (l *Ledger) MarkToMarket(quotes map[string]models.Quote) models.PortfolioSnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snap := models.PortfolioSnapshot{
		AsOf:             time.Now(),
		CashBalance:      l.cash,
		CostBasis:        decimal.Zero,
		TotalValue:       l.cash,
		UnrealizedPnL:    decimal.Zero,
		RealizedPnLTotal: l.realizedTotal,
	}

	for _, pos := range l.sortedPositions() {
		view := models.PositionView{
			Symbol:        pos.Symbol,
			Quantity:      pos.Quantity,
			AvgEntryPrice: pos.AvgEntryPrice,
		}

		q, ok := quotes[pos.Symbol]
		if ok && q.Price.IsPositive() {
			view.CurrentPrice = q.Price
		} else {
			view.CurrentPrice = pos.AvgEntryPrice
			view.StaleQuote = true
		}

		qty := decimal.NewFromInt(pos.Quantity)
		view.MarketValue = view.CurrentPrice.Mul(qty)
		view.UnrealizedPnL = view.MarketValue.Sub(pos.CostBasis())
		if pos.AvgEntryPrice.IsPositive() {
			view.UnrealizedPnLPct = view.CurrentPrice.Sub(pos.AvgEntryPrice).
				Div(pos.AvgEntryPrice).Mul(hundred)
		}

		snap.Positions = append(snap.Positions, view)
		snap.CostBasis = snap.CostBasis.Add(pos.CostBasis())
		snap.TotalValue = snap.TotalValue.Add(view.MarketValue)
		snap.UnrealizedPnL = snap.UnrealizedPnL.Add(view.UnrealizedPnL)
	}

	return snap
}

// Cash returns the current cash balance.
func (l *Ledger) Cash() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cash
}

// StartingCash returns the seed balance the account opened with.
func (l *Ledger) StartingCash() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.startingCash
}

// Position returns a copy of the holding for symbol, if any.
func (l *Ledger) Position(symbol string) (models.Position, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	pos, ok := l.positions[symbol]
	if !ok {
		return models.Position{}, false
	}
	return *pos, true
}

// Positions returns copies of all open holdings, sorted by symbol.
func (l *Ledger) Positions() []models.Position {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.Position, 0, len(l.positions))
	for _, pos := range l.sortedPositions() {
		out = append(out, *pos)
	}
	return out
}

// RealizedTrades returns a copy of the append-only realized-trade log.
func (l *Ledger) RealizedTrades() []models.RealizedTrade {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]models.RealizedTrade(nil), l.realized...)
}

// RealizedTotal returns the cumulative realized P&L.
func (l *Ledger) RealizedTotal() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.realizedTotal
}

// sortedPositions returns the live position pointers in symbol order.
// Callers must hold at least the read lock.
func (l *Ledger) sortedPositions() []*models.Position {
	symbols := make([]string, 0, len(l.positions))
	for s := range l.positions {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	out := make([]*models.Position, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, l.positions[s])
	}
	return out
}

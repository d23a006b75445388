// Package benchmark co-tracks reference instruments alongside the account's
// own buys: every invested dollar is also notionally invested in each
// reference at its price at that moment, so the account's return can later be
// compared against simply having bought the index.
package benchmark

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/SteppieD/tradinggame/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Tracker accumulates invested cash and equivalent reference-instrument
// share counts.
type Tracker struct {
	mu      sync.Mutex
	symbols []string
	state   models.BenchmarkState
}

// New creates an empty tracker for the given reference symbols.
func New(symbols []string) *Tracker {
	return &Tracker{
		symbols: symbols,
		state: models.BenchmarkState{
			TotalInvested: decimal.Zero,
			Shares:        make(map[string]decimal.Decimal, len(symbols)),
		},
	}
}

// FromState rebuilds a tracker from persisted running totals.
func FromState(symbols []string, s models.BenchmarkState) *Tracker {
	t := New(symbols)
	t.state.TotalInvested = s.TotalInvested
	for sym, shares := range s.Shares {
		t.state.Shares[sym] = shares
	}
	return t
}

// RecordBuy accumulates one buy: amount is the full cash outlay including
// commission, quotes must cover every reference symbol. A missing or
// non-positive reference quote skips the whole record and returns an error;
// the running totals are never partially updated.
func (t *Tracker) RecordBuy(amount decimal.Decimal, quotes map[string]models.Quote) error {
	if !amount.IsPositive() {
		return fmt.Errorf("benchmark: amount must be positive, got %s", amount)
	}

	// Validate before touching any total.
	shares := make(map[string]decimal.Decimal, len(t.symbols))
	for _, sym := range t.symbols {
		q, ok := quotes[sym]
		if !ok || !q.Price.IsPositive() {
			return fmt.Errorf("benchmark: no usable quote for %s, trade not co-tracked", sym)
		}
		shares[sym] = amount.Div(q.Price).Round(6)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.state.TotalInvested = t.state.TotalInvested.Add(amount).Round(2)
	for sym, n := range shares {
		t.state.Shares[sym] = t.state.Shares[sym].Add(n).Round(6)
	}
	return nil
}

// ReferenceReturn is the would-have-been outcome for one reference.
type ReferenceReturn struct {
	Symbol       string
	CurrentPrice decimal.Decimal
	Shares       decimal.Decimal
	CurrentValue decimal.Decimal
	ReturnAmount decimal.Decimal
	ReturnPct    decimal.Decimal
	// Alpha is the account's return percent minus this reference's.
	Alpha decimal.Decimal
}

// Comparison is the read-path result.
type Comparison struct {
	TotalInvested    decimal.Decimal
	AccountReturnPct decimal.Decimal
	References       []ReferenceReturn
}

// Compare values the accumulated reference shares at current quotes and sets
// each reference's return and alpha against the account's return percent.
func (t *Tracker) Compare(quotes map[string]models.Quote, accountReturnPct decimal.Decimal) (Comparison, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.state.TotalInvested.IsPositive() {
		return Comparison{}, fmt.Errorf("benchmark: nothing invested yet")
	}

	cmp := Comparison{
		TotalInvested:    t.state.TotalInvested,
		AccountReturnPct: accountReturnPct.Round(2),
	}

	for _, sym := range t.symbols {
		q, ok := quotes[sym]
		if !ok || !q.Price.IsPositive() {
			return Comparison{}, fmt.Errorf("benchmark: no usable quote for %s", sym)
		}

		shares := t.state.Shares[sym]
		value := shares.Mul(q.Price)
		ret := value.Sub(t.state.TotalInvested)
		retPct := ret.Div(t.state.TotalInvested).Mul(hundred)

		cmp.References = append(cmp.References, ReferenceReturn{
			Symbol:       sym,
			CurrentPrice: q.Price,
			Shares:       shares,
			CurrentValue: value.Round(2),
			ReturnAmount: ret.Round(2),
			ReturnPct:    retPct.Round(2),
			Alpha:        accountReturnPct.Sub(retPct).Round(2),
		})
	}

	return cmp, nil
}

// State returns a copy of the running totals for persistence.
func (t *Tracker) State() models.BenchmarkState {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := models.BenchmarkState{
		TotalInvested: t.state.TotalInvested,
		Shares:        make(map[string]decimal.Decimal, len(t.state.Shares)),
	}
	for sym, shares := range t.state.Shares {
		out.Shares[sym] = shares
	}
	return out
}

// Symbols returns the reference symbols in report order.
func (t *Tracker) Symbols() []string {
	return append([]string(nil), t.symbols...)
}

package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InsufficientCashError rejects a BUY that would drive the cash balance
// negative. Nothing is applied.
type InsufficientCashError struct {
	Symbol    string
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientCashError) Error() string {
	short := e.Required.Sub(e.Available)
	return fmt.Sprintf("insufficient cash for %s: need $%s, have $%s (would drive cash negative by $%s)",
		e.Symbol, e.Required.StringFixed(2), e.Available.StringFixed(2), short.StringFixed(2))
}

// PositionNotFoundError rejects a SELL of a symbol the account does not hold.
type PositionNotFoundError struct {
	Symbol string
}

func (e *PositionNotFoundError) Error() string {
	return fmt.Sprintf("no open position for %s", e.Symbol)
}

// InsufficientQuantityError rejects a SELL of more shares than are held.
// This ledger is long-only by construction; it never creates a short.
type InsufficientQuantityError struct {
	Symbol    string
	Requested int64
	Held      int64
}

func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("cannot sell %d %s: only %d held", e.Requested, e.Symbol, e.Held)
}

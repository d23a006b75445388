package stops

import "github.com/shopspring/decimal"

// VolatilityModel supplies a daily volatility fraction for a symbol at a
// price. Callers with measured historical volatility can plug it in through
// VolatilityFunc; the default is a small-cap estimator.
type VolatilityModel interface {
	DailyVolatility(symbol string, price decimal.Decimal) decimal.Decimal
}

// VolatilityFunc adapts a plain function to a VolatilityModel.
type VolatilityFunc func(symbol string, price decimal.Decimal) decimal.Decimal

func (f VolatilityFunc) DailyVolatility(symbol string, price decimal.Decimal) decimal.Decimal {
	return f(symbol, price)
}

// Estimator is a table-driven volatility estimate. Percentage volatility runs
// inversely to nominal price for small caps, so lower-priced instruments get
// a wider band.
type Estimator struct {
	// Base holds per-symbol daily volatility fractions.
	Base map[string]decimal.Decimal
	// Fallback is used for symbols not in the table.
	Fallback decimal.Decimal
}

// DefaultEstimator carries the tuned bases for the small-cap clean-energy
// names this account has traded, with a 5% fallback.
func DefaultEstimator() *Estimator {
	return &Estimator{
		Base: map[string]decimal.Decimal{
			"CHPT": decimal.NewFromFloat(0.045),
			"EVGO": decimal.NewFromFloat(0.055),
			"FCEL": decimal.NewFromFloat(0.060),
		},
		Fallback: decimal.NewFromFloat(0.05),
	}
}

var (
	five         = decimal.NewFromInt(5)
	ten          = decimal.NewFromInt(10)
	multLowPrice = decimal.NewFromFloat(1.3)
	multMidPrice = decimal.NewFromFloat(1.1)
)

func (e *Estimator) DailyVolatility(symbol string, price decimal.Decimal) decimal.Decimal {
	base, ok := e.Base[symbol]
	if !ok {
		base = e.Fallback
	}

	switch {
	case price.LessThan(five):
		return base.Mul(multLowPrice)
	case price.LessThan(ten):
		return base.Mul(multMidPrice)
	default:
		return base
	}
}

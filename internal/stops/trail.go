package stops

import (
	"github.com/shopspring/decimal"

	"github.com/SteppieD/tradinggame/internal/models"
)

// ApplyFloor enforces trailing monotonicity across invocations. Recommend is
// pure, so ratcheting is the caller's contract: it persists the last
// recommended stop per position ("floor") and passes it back in here before
// acting on a fresh recommendation.
//
// While a trailing-style tier is active, a newly computed stop never drops
// below the previous one: a price dip must not let the stop retreat. The
// returned floor is the value to persist; it only ever moves up.
func (e *Engine) ApplyFloor(rec models.StopRecommendation, floor decimal.Decimal) (models.StopRecommendation, decimal.Decimal) {
	if !rec.Strategy.Trailing() {
		return rec, floor
	}

	if rec.StopPrice.LessThan(floor) {
		rec.StopPrice = floor
		rec.LimitPrice = e.roundTick(floor.Mul(e.Policy.LimitFrac))
		rec.DistancePct = rec.CurrentPrice.Sub(rec.StopPrice).
			Div(rec.CurrentPrice).Mul(hundred).Round(1)
		rec.RiskDollars = rec.CurrentPrice.Sub(rec.StopPrice).
			Mul(decimal.NewFromInt(rec.Quantity)).Round(2)
	}

	return rec, decimal.Max(floor, rec.StopPrice)
}

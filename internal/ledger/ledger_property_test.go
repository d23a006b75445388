package ledger

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"github.com/SteppieD/tradinggame/internal/models"
)

var propSymbols = []string{"CHPT", "EVGO", "FCEL"}

// Averaging-in divides at decimal's default 16-digit precision, so identities
// that pass through an averaged entry price hold to a hair under exact.
var tolerance = decimal.New(1, -9)

func closeEnough(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}

// decodeOp turns one random seed into a trade intent. Prices are generated in
// whole cents so every expected value is exact in decimal arithmetic.
func decodeOp(seed int) models.TradeIntent {
	side := models.SideBuy
	if seed%2 == 1 {
		side = models.SideSell
	}
	symbol := propSymbols[(seed/2)%len(propSymbols)]
	qty := int64(1 + (seed/6)%50)
	cents := int64(50 + (seed/300)%5000)

	return models.TradeIntent{
		Symbol:     symbol,
		Side:       side,
		Quantity:   qty,
		Price:      decimal.New(cents, -2),
		Commission: decimal.NewFromFloat(6.95),
		ExecutedAt: time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC),
	}
}

// Property: cash plus the cost basis of all open positions always equals
// starting cash, minus the commissions of applied buys, plus cumulative
// realized P&L. Rejected intents must not disturb the identity.
func TestProperty_CashConservation(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	opsGen := gen.SliceOf(gen.IntRange(0, 1<<30))

	properties.Property("cash + open basis = start - buy fees + realized", prop.ForAll(
		func(seeds []int) bool {
			start := decimal.NewFromInt(10000)
			l := New(start)

			buyFees := decimal.Zero
			for _, seed := range seeds {
				in := decodeOp(seed)
				eff, err := l.Apply(in)
				if err != nil {
					continue
				}
				if eff.Intent.Side == models.SideBuy {
					buyFees = buyFees.Add(in.Commission)
				}
			}

			openBasis := decimal.Zero
			for _, pos := range l.Positions() {
				openBasis = openBasis.Add(pos.CostBasis())
			}

			want := start.Sub(buyFees).Add(l.RealizedTotal())
			got := l.Cash().Add(openBasis)
			if !closeEnough(got, want) {
				t.Logf("FAILED: cash+basis=%s, expected %s (fees %s, realized %s)",
					got, want, buyFees, l.RealizedTotal())
				return false
			}
			return true
		},
		opsGen,
	))

	properties.TestingRun(t)
}

// Property: after any sequence of buys in a single symbol, the average entry
// price stays within the range of the executed buy prices, and the cost basis
// matches the sum of the buy totals.
func TestProperty_WeightedAverageBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	buysGen := gen.SliceOfN(5, gen.IntRange(0, 1<<30))

	properties.Property("avg entry bounded by buy prices, basis preserved", prop.ForAll(
		func(seeds []int) bool {
			l := New(decimal.NewFromInt(1000000))

			var minPx, maxPx, totalCost decimal.Decimal
			applied := 0
			for _, seed := range seeds {
				in := decodeOp(seed)
				in.Side = models.SideBuy
				in.Symbol = "CHPT"
				if _, err := l.Apply(in); err != nil {
					t.Logf("FAILED: unexpected rejection: %v", err)
					return false
				}
				if applied == 0 || in.Price.LessThan(minPx) {
					minPx = in.Price
				}
				if applied == 0 || in.Price.GreaterThan(maxPx) {
					maxPx = in.Price
				}
				totalCost = totalCost.Add(in.TotalValue())
				applied++
			}

			pos, ok := l.Position("CHPT")
			if !ok {
				t.Log("FAILED: position missing after buys")
				return false
			}
			if pos.AvgEntryPrice.LessThan(minPx) || pos.AvgEntryPrice.GreaterThan(maxPx) {
				t.Logf("FAILED: avg entry %s outside [%s, %s]", pos.AvgEntryPrice, minPx, maxPx)
				return false
			}
			if !closeEnough(pos.CostBasis(), totalCost) {
				t.Logf("FAILED: basis %s, expected %s", pos.CostBasis(), totalCost)
				return false
			}
			return true
		},
		buysGen,
	))

	properties.TestingRun(t)
}

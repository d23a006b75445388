package stops

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"github.com/SteppieD/tradinggame/internal/models"
)

func newTestEngine() *Engine {
	return NewEngine(DefaultPolicy(), nil)
}

func position(symbol string, qty int64, entry string) models.Position {
	return models.Position{
		Symbol:        symbol,
		Quantity:      qty,
		AvgEntryPrice: decimal.RequireFromString(entry),
	}
}

func mustRecommend(t *testing.T, e *Engine, pos models.Position, current string) models.StopRecommendation {
	t.Helper()
	rec, err := e.Recommend(pos, decimal.RequireFromString(current))
	if err != nil {
		t.Fatalf("Recommend(%s @ %s) failed: %v", pos.Symbol, current, err)
	}
	return rec
}

// XYZ is not in the volatility table, so above $10 it gets the plain 5%
// fallback: atr stop = current * (1 - 0.05*1.5) = current * 0.925.

func TestRecommend_LossTier(t *testing.T) {
	e := newTestEngine()

	rec := mustRecommend(t, e, position("XYZ", 100, "10"), "9.50")

	if rec.Strategy != models.StrategyProtectCapital {
		t.Errorf("Expected PROTECT_CAPITAL, got %s", rec.Strategy)
	}
	// 10 * 0.90
	if !rec.StopPrice.Equal(decimal.RequireFromString("9.00")) {
		t.Errorf("Expected stop 9.00, got %s", rec.StopPrice)
	}
	// 9.00 * 0.995 = 8.955, rounded to tick
	if !rec.LimitPrice.Equal(decimal.RequireFromString("8.96")) {
		t.Errorf("Expected limit 8.96, got %s", rec.LimitPrice)
	}
	if !rec.PnLPct.Equal(decimal.RequireFromString("-5")) {
		t.Errorf("Expected pnl -5%%, got %s", rec.PnLPct)
	}
	if !rec.RiskDollars.Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("Expected risk 50.00, got %s", rec.RiskDollars)
	}
}

func TestRecommend_TightTier(t *testing.T) {
	e := newTestEngine()

	rec := mustRecommend(t, e, position("XYZ", 100, "10"), "10.10")

	if rec.Strategy != models.StrategyTightStop {
		t.Errorf("Expected TIGHT_STOP, got %s", rec.Strategy)
	}
	// max(10*0.95, 10.10*0.925) = max(9.50, 9.3425) = 9.50.
	// The tight tier sits below entry; only the higher tiers guarantee
	// breakeven.
	if !rec.StopPrice.Equal(decimal.RequireFromString("9.50")) {
		t.Errorf("Expected stop 9.50, got %s", rec.StopPrice)
	}
}

func TestRecommend_FibonacciTier(t *testing.T) {
	e := newTestEngine()

	rec := mustRecommend(t, e, position("XYZ", 100, "10"), "10.30")

	if rec.Strategy != models.StrategyFibonacci {
		t.Errorf("Expected FIBONACCI_STOP, got %s", rec.Strategy)
	}
	// 61.8% retracement: 10.30 - 0.30*0.618 = 10.1146, above both entry and
	// the atr stop, rounded to 10.11.
	if !rec.StopPrice.Equal(decimal.RequireFromString("10.11")) {
		t.Errorf("Expected stop 10.11, got %s", rec.StopPrice)
	}
	if !rec.LimitPrice.Equal(decimal.RequireFromString("10.06")) {
		t.Errorf("Expected limit 10.06, got %s", rec.LimitPrice)
	}
	if rec.StopPrice.LessThan(rec.EntryPrice) {
		t.Errorf("Fibonacci stop %s below entry %s", rec.StopPrice, rec.EntryPrice)
	}
}

func TestRecommend_TrailTier(t *testing.T) {
	e := newTestEngine()

	rec := mustRecommend(t, e, position("XYZ", 100, "10"), "10.70")

	if rec.Strategy != models.StrategyTrail {
		t.Errorf("Expected TRAIL_STOP, got %s", rec.Strategy)
	}
	// max(38.2% retracement 10.4326, 10.70*0.95, 10*1.02) = 10.4326 -> 10.43
	if !rec.StopPrice.Equal(decimal.RequireFromString("10.43")) {
		t.Errorf("Expected stop 10.43, got %s", rec.StopPrice)
	}
	if !rec.Strategy.Trailing() {
		t.Error("TRAIL_STOP must report as trailing")
	}
}

func TestRecommend_TightTrailTier(t *testing.T) {
	e := newTestEngine()

	rec := mustRecommend(t, e, position("XYZ", 100, "10"), "11.20")

	if rec.Strategy != models.StrategyTightTrail {
		t.Errorf("Expected TIGHT_TRAIL, got %s", rec.Strategy)
	}
	// max(11.20*0.97, 10*1.05) = max(10.864, 10.50) -> 10.86
	if !rec.StopPrice.Equal(decimal.RequireFromString("10.86")) {
		t.Errorf("Expected stop 10.86, got %s", rec.StopPrice)
	}
}

func TestRecommend_TierBoundaries(t *testing.T) {
	e := newTestEngine()

	cases := []struct {
		current string
		want    models.Strategy
	}{
		{"10.00", models.StrategyTightStop},  // 0% sits in the tight tier, not loss
		{"10.20", models.StrategyFibonacci},  // exactly 2%
		{"10.50", models.StrategyTrail},      // exactly 5%
		{"11.00", models.StrategyTightTrail}, // exactly 10%
	}
	for _, tc := range cases {
		rec := mustRecommend(t, e, position("XYZ", 10, "10"), tc.current)
		if rec.Strategy != tc.want {
			t.Errorf("At %s: expected %s, got %s", tc.current, tc.want, rec.Strategy)
		}
	}
}

func TestRecommend_RejectsInvalidInputs(t *testing.T) {
	e := newTestEngine()

	if _, err := e.Recommend(position("XYZ", 0, "10"), decimal.NewFromInt(10)); err == nil {
		t.Error("Expected error for zero quantity")
	}
	if _, err := e.Recommend(position("XYZ", 10, "0"), decimal.NewFromInt(10)); err == nil {
		t.Error("Expected error for zero entry price")
	}
	if _, err := e.Recommend(position("XYZ", 10, "10"), decimal.Zero); err == nil {
		t.Error("Expected error for zero current price")
	}
}

func TestRecommend_Deterministic(t *testing.T) {
	e := newTestEngine()
	pos := position("CHPT", 26, "10.7845")
	px := decimal.RequireFromString("11.42")

	first, err := e.Recommend(pos, px)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	second, err := e.Recommend(pos, px)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if !first.StopPrice.Equal(second.StopPrice) || first.Strategy != second.Strategy {
		t.Errorf("Recommendations differ across calls: %s/%s vs %s/%s",
			first.StopPrice, first.Strategy, second.StopPrice, second.Strategy)
	}
}

func TestFibonacciLevels(t *testing.T) {
	fib := FibonacciLevels(decimal.NewFromInt(10), decimal.NewFromInt(12))

	cases := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"R236", fib.R236, "11.528"},
		{"R382", fib.R382, "11.236"},
		{"R500", fib.R500, "11"},
		{"R618", fib.R618, "10.764"},
		{"R786", fib.R786, "10.428"},
	}
	for _, tc := range cases {
		if !tc.got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, tc.got)
		}
	}
	if !fib.Entry.Equal(decimal.NewFromInt(10)) || !fib.Current.Equal(decimal.NewFromInt(12)) {
		t.Errorf("Anchors mismatch: entry %s current %s", fib.Entry, fib.Current)
	}
}

func TestEstimator_PriceBands(t *testing.T) {
	est := DefaultEstimator()

	// FCEL base 6%, under $5: 0.060 * 1.3
	got := est.DailyVolatility("FCEL", decimal.RequireFromString("4.05"))
	if !got.Equal(decimal.RequireFromString("0.078")) {
		t.Errorf("Expected 0.078, got %s", got)
	}

	// CHPT base 4.5%, $5-$10 band: 0.045 * 1.1
	got = est.DailyVolatility("CHPT", decimal.RequireFromString("9.50"))
	if !got.Equal(decimal.RequireFromString("0.0495")) {
		t.Errorf("Expected 0.0495, got %s", got)
	}

	// Unknown symbol above $10: plain fallback.
	got = est.DailyVolatility("XYZ", decimal.RequireFromString("25"))
	if !got.Equal(decimal.RequireFromString("0.05")) {
		t.Errorf("Expected 0.05, got %s", got)
	}
}

func TestRecommend_CustomVolatilityModel(t *testing.T) {
	// A flat 1% model pulls the atr stop close to current, which should win
	// the tight-tier max over entry*0.95.
	flat := VolatilityFunc(func(string, decimal.Decimal) decimal.Decimal {
		return decimal.RequireFromString("0.01")
	})
	e := NewEngine(DefaultPolicy(), flat)

	rec := mustRecommend(t, e, position("XYZ", 10, "10"), "10.10")

	// atr = 10.10 * (1 - 0.015) = 9.9485 -> 9.95, above 9.50.
	if !rec.StopPrice.Equal(decimal.RequireFromString("9.95")) {
		t.Errorf("Expected stop 9.95, got %s", rec.StopPrice)
	}
}

// Property: in every profit tier above the tight one, the stop never sits
// below the average entry price, whatever the inputs.
func TestProperty_StopNeverBelowBreakeven(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	entryCentsGen := gen.Int64Range(50, 100000)
	gainBpGen := gen.Int64Range(200, 5000) // 2% to 50% in basis points

	properties.Property("profit-tier stop >= entry", prop.ForAll(
		func(entryCents, gainBp int64) bool {
			entry := decimal.New(entryCents, -2)
			current := entry.Mul(decimal.New(10000+gainBp, -4))

			e := newTestEngine()
			rec, err := e.Recommend(models.Position{
				Symbol:        "XYZ",
				Quantity:      10,
				AvgEntryPrice: entry,
			}, current)
			if err != nil {
				t.Logf("FAILED: unexpected error: %v", err)
				return false
			}
			if rec.Strategy == models.StrategyTightStop || rec.Strategy == models.StrategyProtectCapital {
				// Rounding of pnl never demotes a >=2% gain below the
				// fibonacci tier.
				t.Logf("FAILED: %s basis points landed in %s", decimal.New(gainBp, 0), rec.Strategy)
				return false
			}
			if rec.StopPrice.LessThan(entry) {
				t.Logf("FAILED: stop %s below entry %s (gain %sbp, %s)",
					rec.StopPrice, entry, decimal.New(gainBp, 0), rec.Strategy)
				return false
			}
			return true
		},
		entryCentsGen,
		gainBpGen,
	))

	properties.TestingRun(t)
}

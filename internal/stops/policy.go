// Package stops derives protective-order recommendations for open positions.
// Recommend is a pure function of (entry, current, quantity, symbol): no
// hidden state, deterministic, and safe to call repeatedly.
package stops

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/SteppieD/tradinggame/internal/models"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)

	fibRatios = struct {
		r236, r382, r500, r618, r786 decimal.Decimal
	}{
		r236: decimal.NewFromFloat(0.236),
		r382: decimal.NewFromFloat(0.382),
		r500: decimal.NewFromFloat(0.5),
		r618: decimal.NewFromFloat(0.618),
		r786: decimal.NewFromFloat(0.786),
	}
)

// Policy collects every tunable threshold of the stop derivation. The numbers
// are hand-tuned strategy opinion, not system invariants, so they live here
// rather than as constants.
type Policy struct {
	// Tier breakpoints on unrealized P&L percent, low to high.
	TightTierMaxPct decimal.Decimal // below: tight stop        (default 2)
	FibTierMaxPct   decimal.Decimal // below: fibonacci stop    (default 5)
	TrailTierMaxPct decimal.Decimal // below: trailing stop     (default 10)

	DisasterStopFrac decimal.Decimal // of entry, loss tier      (default 0.90)
	TightStopFrac    decimal.Decimal // of entry, tight tier     (default 0.95)
	TrailStopFrac    decimal.Decimal // of current, trail tier   (default 0.95)
	TightTrailFrac   decimal.Decimal // of current, tight trail  (default 0.97)
	TrailLockFrac    decimal.Decimal // of entry, trail tier     (default 1.02)
	TightLockFrac    decimal.Decimal // of entry, tight trail    (default 1.05)

	// ATRMultiple widens the volatility stop band.
	ATRMultiple decimal.Decimal // default 1.5

	// LimitFrac is the fixed slippage allowance below the stop trigger.
	LimitFrac decimal.Decimal // default 0.995

	// PriceTick is the instrument's minimum price increment.
	PriceTick decimal.Decimal // default 0.01
}

// DefaultPolicy returns the hand-tuned thresholds.
func DefaultPolicy() Policy {
	return Policy{
		TightTierMaxPct:  decimal.NewFromInt(2),
		FibTierMaxPct:    decimal.NewFromInt(5),
		TrailTierMaxPct:  decimal.NewFromInt(10),
		DisasterStopFrac: decimal.NewFromFloat(0.90),
		TightStopFrac:    decimal.NewFromFloat(0.95),
		TrailStopFrac:    decimal.NewFromFloat(0.95),
		TightTrailFrac:   decimal.NewFromFloat(0.97),
		TrailLockFrac:    decimal.NewFromFloat(1.02),
		TightLockFrac:    decimal.NewFromFloat(1.05),
		ATRMultiple:      decimal.NewFromFloat(1.5),
		LimitFrac:        decimal.NewFromFloat(0.995),
		PriceTick:        decimal.NewFromFloat(0.01),
	}
}

// Engine computes stop recommendations under a policy and volatility model.
type Engine struct {
	Policy     Policy
	Volatility VolatilityModel
}

// NewEngine builds an engine. A nil volatility model falls back to the
// built-in estimator.
func NewEngine(p Policy, vol VolatilityModel) *Engine {
	if vol == nil {
		vol = DefaultEstimator()
	}
	return &Engine{Policy: p, Volatility: vol}
}

// FibonacciLevels computes the retracement reference prices between entry and
// current: current - range*ratio for the standard ratios. The range is
// signed, so the levels work below as well as above entry.
func FibonacciLevels(entry, current decimal.Decimal) models.FibLevels {
	r := current.Sub(entry)
	return models.FibLevels{
		Current: current,
		R236:    current.Sub(r.Mul(fibRatios.r236)),
		R382:    current.Sub(r.Mul(fibRatios.r382)),
		R500:    current.Sub(r.Mul(fibRatios.r500)),
		R618:    current.Sub(r.Mul(fibRatios.r618)),
		R786:    current.Sub(r.Mul(fibRatios.r786)),
		Entry:   entry,
	}
}

// Recommend derives the protective order for one position at the given price.
// It rejects non-positive inputs and never fails otherwise.
func (e *Engine) Recommend(pos models.Position, current decimal.Decimal) (models.StopRecommendation, error) {
	if pos.Quantity <= 0 {
		return models.StopRecommendation{}, fmt.Errorf("stops: %s: quantity must be positive, got %d", pos.Symbol, pos.Quantity)
	}
	if !pos.AvgEntryPrice.IsPositive() {
		return models.StopRecommendation{}, fmt.Errorf("stops: %s: entry price must be positive, got %s", pos.Symbol, pos.AvgEntryPrice)
	}
	if !current.IsPositive() {
		return models.StopRecommendation{}, fmt.Errorf("stops: %s: current price must be positive, got %s", pos.Symbol, current)
	}

	entry := pos.AvgEntryPrice
	pnlPct := current.Sub(entry).Div(entry).Mul(hundred)
	fib := FibonacciLevels(entry, current)

	vol := e.Volatility.DailyVolatility(pos.Symbol, current)
	atrStop := current.Mul(one.Sub(vol.Mul(e.Policy.ATRMultiple)))

	var (
		stop     decimal.Decimal
		strategy models.Strategy
		reason   string
	)

	switch {
	case pnlPct.IsNegative():
		stop = entry.Mul(e.Policy.DisasterStopFrac)
		strategy = models.StrategyProtectCapital
		reason = fmt.Sprintf("position at a loss (%s%%) - disaster stop below entry", pnlPct.StringFixed(1))

	case pnlPct.LessThan(e.Policy.TightTierMaxPct):
		stop = decimal.Max(entry.Mul(e.Policy.TightStopFrac), atrStop)
		strategy = models.StrategyTightStop
		reason = fmt.Sprintf("small gain (%s%%) - tight stop near entry", pnlPct.StringFixed(1))

	case pnlPct.LessThan(e.Policy.FibTierMaxPct):
		// Never below breakeven once in profit territory.
		stop = decimal.Max(fib.R618, entry, atrStop)
		strategy = models.StrategyFibonacci
		reason = fmt.Sprintf("moderate gain (%s%%) - stop at 61.8%% retracement or breakeven", pnlPct.StringFixed(1))

	case pnlPct.LessThan(e.Policy.TrailTierMaxPct):
		stop = decimal.Max(fib.R382, current.Mul(e.Policy.TrailStopFrac), entry.Mul(e.Policy.TrailLockFrac))
		strategy = models.StrategyTrail
		reason = fmt.Sprintf("good gain (%s%%) - trailing at 38.2%% retracement", pnlPct.StringFixed(1))

	default:
		stop = decimal.Max(current.Mul(e.Policy.TightTrailFrac), entry.Mul(e.Policy.TightLockFrac))
		strategy = models.StrategyTightTrail
		reason = fmt.Sprintf("excellent gain (%s%%) - tight trail", pnlPct.StringFixed(1))
	}

	stop = e.roundStop(stop, entry, strategy)
	limit := e.roundTick(stop.Mul(e.Policy.LimitFrac))

	qty := decimal.NewFromInt(pos.Quantity)
	return models.StopRecommendation{
		Symbol:       pos.Symbol,
		Quantity:     pos.Quantity,
		CurrentPrice: current,
		EntryPrice:   entry,
		StopPrice:    stop,
		LimitPrice:   limit,
		Strategy:     strategy,
		Reason:       reason,
		PnLPct:       pnlPct.Round(2),
		DistancePct:  current.Sub(stop).Div(current).Mul(hundred).Round(1),
		RiskDollars:  current.Sub(stop).Mul(qty).Round(2),
		Volatility:   vol.Mul(hundred).Round(1),
		FibLevels:    roundFib(fib),
	}, nil
}

// roundStop quantizes the stop to the price tick. The fibonacci and trailing
// tiers guarantee a stop at or above entry, so a result that rounding pushed
// below entry is bumped to the next tick at or above it. The loss and tight
// tiers may sit below entry and round plainly.
func (e *Engine) roundStop(stop, entry decimal.Decimal, strategy models.Strategy) decimal.Decimal {
	rounded := e.roundTick(stop)
	breakevenGuarded := strategy == models.StrategyFibonacci || strategy.Trailing()
	if breakevenGuarded && rounded.LessThan(entry) {
		rounded = e.ceilTick(entry)
	}
	return rounded
}

func (e *Engine) roundTick(p decimal.Decimal) decimal.Decimal {
	return p.Div(e.Policy.PriceTick).Round(0).Mul(e.Policy.PriceTick)
}

func (e *Engine) ceilTick(p decimal.Decimal) decimal.Decimal {
	return p.Div(e.Policy.PriceTick).Ceil().Mul(e.Policy.PriceTick)
}

func roundFib(f models.FibLevels) models.FibLevels {
	return models.FibLevels{
		Current: f.Current.Round(2),
		R236:    f.R236.Round(2),
		R382:    f.R382.Round(2),
		R500:    f.R500.Round(2),
		R618:    f.R618.Round(2),
		R786:    f.R786.Round(2),
		Entry:   f.Entry.Round(2),
	}
}

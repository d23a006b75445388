package market

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/SteppieD/tradinggame/internal/models"
)

// fakeProvider implements QuoteProvider from a fixed price table.
type fakeProvider struct {
	prices map[string]decimal.Decimal
}

func (f *fakeProvider) GetQuote(symbol string) (*models.Quote, error) {
	p, ok := f.prices[symbol]
	if !ok {
		return nil, fmt.Errorf("quote not found for %s", symbol)
	}
	return &models.Quote{Symbol: symbol, Price: p}, nil
}

func TestFetch_PartialMissesDoNotAbort(t *testing.T) {
	p := &fakeProvider{prices: map[string]decimal.Decimal{
		"CHPT": decimal.RequireFromString("11.42"),
		"EVGO": decimal.RequireFromString("3.80"),
	}}

	quotes, missing := Fetch(p, []string{"CHPT", "GONE", "EVGO"})

	if len(quotes) != 2 {
		t.Fatalf("Expected 2 quotes, got %d", len(quotes))
	}
	if !quotes["CHPT"].Price.Equal(decimal.RequireFromString("11.42")) {
		t.Errorf("CHPT price mismatch: %s", quotes["CHPT"].Price)
	}
	if len(missing) != 1 || missing[0] != "GONE" {
		t.Errorf("Expected [GONE] missing, got %v", missing)
	}
}

func TestFetch_RejectsNonPositivePrices(t *testing.T) {
	p := &fakeProvider{prices: map[string]decimal.Decimal{
		"HALT": decimal.Zero,
	}}

	quotes, missing := Fetch(p, []string{"HALT"})
	if len(quotes) != 0 {
		t.Errorf("Expected no quotes for a zero price, got %v", quotes)
	}
	if len(missing) != 1 || missing[0] != "HALT" {
		t.Errorf("Expected [HALT] missing, got %v", missing)
	}
}

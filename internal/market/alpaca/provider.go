// Package alpaca implements the quote-source contract against the Alpaca
// market-data API.
package alpaca

import (
	"fmt"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"

	"github.com/SteppieD/tradinggame/internal/market"
	"github.com/SteppieD/tradinggame/internal/models"
)

// Provider fetches latest-trade prices from Alpaca. Credentials come from
// the standard APCA_* environment variables the client reads on its own.
type Provider struct {
	mdClient *marketdata.Client
}

var _ market.QuoteProvider = (*Provider)(nil)

// NewProvider returns an Alpaca-backed quote provider.
func NewProvider() *Provider {
	return &Provider{
		mdClient: marketdata.NewClient(marketdata.ClientOpts{}),
	}
}

// GetQuote returns the latest trade for the symbol as a quote.
func (p *Provider) GetQuote(symbol string) (*models.Quote, error) {
	trade, err := p.mdClient.GetLatestTrade(symbol, marketdata.GetLatestTradeRequest{})
	if err != nil {
		return nil, fmt.Errorf("alpaca: latest trade for %s: %w", symbol, err)
	}
	if trade == nil {
		return nil, fmt.Errorf("alpaca: no trade found for %s", symbol)
	}

	return &models.Quote{
		Symbol:    symbol,
		Price:     decimal.NewFromFloat(trade.Price),
		Timestamp: trade.Timestamp,
	}, nil
}

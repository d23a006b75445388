// Package market defines the quote-source contract the core depends on.
// Implementations live in subpackages; the core never retries or blocks on
// them beyond a single call.
package market

import "github.com/SteppieD/tradinggame/internal/models"

// QuoteProvider supplies the latest known price for a symbol. An error means
// the quote is unavailable; callers fall back per their documented rules
// instead of failing outright.
type QuoteProvider interface {
	GetQuote(symbol string) (*models.Quote, error)
}

// Fetch best-effort collects quotes for the given symbols. It returns what it
// could get plus the symbols that failed; it never aborts on a single miss.
func Fetch(p QuoteProvider, symbols []string) (map[string]models.Quote, []string) {
	quotes := make(map[string]models.Quote, len(symbols))
	var missing []string

	for _, sym := range symbols {
		q, err := p.GetQuote(sym)
		if err != nil || q == nil || !q.Price.IsPositive() {
			missing = append(missing, sym)
			continue
		}
		quotes[sym] = *q
	}
	return quotes, missing
}

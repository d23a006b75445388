// Package parser turns free-form pasted trade text into canonical trade
// intents. Brokers and humans write fills in a handful of shapes; each shape
// is an explicit grammar tried in priority order, first match wins.
package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SteppieD/tradinggame/internal/config"
	"github.com/SteppieD/tradinggame/internal/models"
)

// MarketOpen is the execution time assigned when a line carries no time
// token. Assigning market open is a policy decision, not a parse failure.
const MarketOpen = "09:30 AM"

// Diagnostic reports a non-blank line that matched no grammar. Skipped lines
// never abort processing of the rest of the paste.
type Diagnostic struct {
	Line int    `json:"line"`
	Text string `json:"text"`
}

// match is the uniform result a grammar extracts from a line.
type match struct {
	side     models.Side
	symbol   string
	quantity int64
	price    decimal.Decimal
	timeTok  string // inline execution time, if the grammar captured one
}

// grammar is one recognized surface form. Extract returns false when the
// compiled pattern did not match the line.
type grammar struct {
	name    string
	re      *regexp.Regexp
	extract func(groups []string) (match, bool)
}

// The grammar table, most specific first. Patterns are mutually exclusive
// once ordered; a line is claimed by the first one that matches.
var grammars = []grammar{
	{
		// "BUY 26 CHPT @ 10.7845" / "Sold 25 TSLA at $800.50"
		name: "verb-first",
		re:   regexp.MustCompile(`((?i:buy|bought|sell|sold))\s+(\d+)\s+([A-Z]+)\s+(?:@|(?i:at))\s*\$?(\d+(?:\.\d+)?)`),
		extract: func(g []string) (match, bool) {
			return newMatch(g[1], g[3], g[2], g[4], "")
		},
	},
	{
		// "AAPL 50 shares bought at 150.25"
		name: "shares-phrase",
		re:   regexp.MustCompile(`([A-Z]+)\s+(\d+)\s+(?i:shares?)\s+((?i:bought|sold))\s+(?i:at)\s*\$?(\d+(?:\.\d+)?)`),
		extract: func(g []string) (match, bool) {
			return newMatch(g[3], g[1], g[2], g[4], "")
		},
	},
	{
		// "50 AAPL 150.25 BUY"
		name: "trailing-action",
		re:   regexp.MustCompile(`(\d+)\s+([A-Z]+)\s+\$?(\d+(?:\.\d+)?)\s+((?i:buy|sell))\b`),
		extract: func(g []string) (match, bool) {
			return newMatch(g[4], g[2], g[1], g[3], "")
		},
	},
	{
		// "Filled Buy 50 AAPL @ $150.25 at 09:35 AM", the broker fill
		// confirmation. The only grammar with an inline time capture.
		name: "fill-confirmation",
		re:   regexp.MustCompile(`(?:(?i:filled)\s+)?((?i:buy|sell))\s+(\d+)\s+([A-Z]+)\s+@\s*\$?(\d+(?:\.\d+)?)(?:\s+(?i:at)\s+(\d{1,2}:\d{2}\s*(?i:AM|PM)))?`),
		extract: func(g []string) (match, bool) {
			return newMatch(g[1], g[3], g[2], g[4], g[5])
		},
	},
	{
		// "AAPL BUY 50 150.25"
		name: "symbol-first",
		re:   regexp.MustCompile(`([A-Z]+)\s+((?i:buy|sell))\s+(\d+)\s+\$?(\d+(?:\.\d+)?)`),
		extract: func(g []string) (match, bool) {
			return newMatch(g[2], g[1], g[3], g[4], "")
		},
	},
}

// timeRe finds a clock token anywhere in a line, for grammars that do not
// capture one inline.
var timeRe = regexp.MustCompile(`(\d{1,2}:\d{2})\s*((?i:AM|PM))`)

// Parser converts pasted text into trade intents.
type Parser struct {
	// DefaultCommission is stamped on every intent; the paste format never
	// carries fees.
	DefaultCommission decimal.Decimal

	// Now supplies the trade date; overridable in tests.
	Now func() time.Time
}

// New returns a parser that stamps the given commission on every intent.
func New(defaultCommission decimal.Decimal) *Parser {
	return &Parser{
		DefaultCommission: defaultCommission,
		Now:               time.Now,
	}
}

// Parse processes text line by line. Blank lines are ignored; lines that
// match no grammar are reported as diagnostics and skipped. Output preserves
// input line order.
func (p *Parser) Parse(text string) ([]models.TradeIntent, []Diagnostic) {
	var intents []models.TradeIntent
	var skipped []Diagnostic

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		m, ok := p.matchLine(line)
		if !ok {
			skipped = append(skipped, Diagnostic{Line: i + 1, Text: line})
			continue
		}

		intents = append(intents, models.TradeIntent{
			Symbol:     m.symbol,
			Side:       m.side,
			Quantity:   m.quantity,
			Price:      m.price,
			Commission: p.DefaultCommission,
			ExecutedAt: p.executedAt(m.timeTok, line),
		})
	}

	return intents, skipped
}

// matchLine tries each grammar in order and returns the first valid match.
func (p *Parser) matchLine(line string) (match, bool) {
	for _, g := range grammars {
		groups := g.re.FindStringSubmatch(line)
		if groups == nil {
			continue
		}
		if m, ok := g.extract(groups); ok {
			return m, true
		}
	}
	return match{}, false
}

// executedAt resolves the execution timestamp on the trade date: the inline
// token if the grammar captured one, otherwise any clock token elsewhere in
// the line, otherwise market open.
func (p *Parser) executedAt(inline, line string) time.Time {
	tok := inline
	if tok == "" {
		if g := timeRe.FindStringSubmatch(line); g != nil {
			tok = g[1] + " " + g[2]
		}
	}
	if tok == "" {
		tok = MarketOpen
	}

	clock, err := parseClock(tok)
	if err != nil {
		clock, _ = parseClock(MarketOpen)
	}

	day := p.Now().In(config.EasternTime)
	return time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), 0, 0, config.EasternTime)
}

func parseClock(tok string) (time.Time, error) {
	// Normalize "09:35AM" and odd casing before parsing.
	tok = strings.ToUpper(strings.TrimSpace(tok))
	tok = strings.Replace(tok, "AM", " AM", 1)
	tok = strings.Replace(tok, "PM", " PM", 1)
	return time.Parse("3:04 PM", strings.Join(strings.Fields(tok), " "))
}

// newMatch normalizes raw grammar captures. Zero quantities and prices are
// rejected so the grammar falls through to a diagnostic.
func newMatch(action, symbol, qty, price, timeTok string) (match, bool) {
	quantity, err := strconv.ParseInt(qty, 10, 64)
	if err != nil || quantity <= 0 {
		return match{}, false
	}
	px, err := decimal.NewFromString(price)
	if err != nil || !px.IsPositive() {
		return match{}, false
	}

	return match{
		side:     normalizeSide(action),
		symbol:   strings.ToUpper(symbol),
		quantity: quantity,
		price:    px,
		timeTok:  timeTok,
	}, true
}

func normalizeSide(action string) models.Side {
	switch strings.ToUpper(action) {
	case "SELL", "SOLD":
		return models.SideSell
	default: // BUY, BOUGHT
		return models.SideBuy
	}
}

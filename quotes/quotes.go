// Package quotes is the seam to whatever supplies market data. The rest of
// the app only sees the Provider interface; the bundled provider serves a
// small static table so the API is usable without an upstream feed.
package quotes

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
)

// ErrUnknownSymbol is returned when the provider has no data for a ticker.
var ErrUnknownSymbol = errors.New("symbol not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode("SYMBOL_NOT_FOUND")

// Quote is a point-in-time snapshot for one symbol.
type Quote struct {
	Symbol        string    `json:"symbol"`
	CompanyName   string    `json:"company_name"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	AsOf          time.Time `json:"as_of"`
}

// Provider supplies quotes for symbols.
type Provider interface {
	Lookup(ctx context.Context, symbol string) (*Quote, error)
}

// StaticProvider serves from a fixed table. It backs local development and
// tests; a real deployment swaps in a provider talking to a market feed.
type StaticProvider struct {
	table map[string]Quote
}

// NewStaticProvider returns a provider preloaded with a handful of large
// caps, or with the given quotes when any are passed.
func NewStaticProvider(seed ...Quote) *StaticProvider {
	p := &StaticProvider{table: map[string]Quote{}}

	if len(seed) == 0 {
		seed = defaultQuotes
	}

	for _, q := range seed {
		p.table[strings.ToUpper(q.Symbol)] = q
	}

	return p
}

func (p *StaticProvider) Lookup(ctx context.Context, symbol string) (*Quote, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	q, ok := p.table[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return nil, ErrUnknownSymbol
	}

	q.AsOf = time.Now()
	return &q, nil
}

var defaultQuotes = []Quote{
	{Symbol: "AAPL", CompanyName: "Apple Inc.", Price: 227.52, Change: 1.12, ChangePercent: 0.49},
	{Symbol: "MSFT", CompanyName: "Microsoft Corporation", Price: 415.30, Change: -2.05, ChangePercent: -0.49},
	{Symbol: "GOOGL", CompanyName: "Alphabet Inc.", Price: 166.48, Change: 0.87, ChangePercent: 0.53},
	{Symbol: "AMZN", CompanyName: "Amazon.com, Inc.", Price: 183.21, Change: 1.44, ChangePercent: 0.79},
	{Symbol: "TSLA", CompanyName: "Tesla, Inc.", Price: 242.68, Change: -5.31, ChangePercent: -2.14},
	{Symbol: "NVDA", CompanyName: "NVIDIA Corporation", Price: 118.90, Change: 2.66, ChangePercent: 2.29},
	{Symbol: "META", CompanyName: "Meta Platforms, Inc.", Price: 527.34, Change: 3.12, ChangePercent: 0.60},
	{Symbol: "BRK.B", CompanyName: "Berkshire Hathaway Inc.", Price: 448.70, Change: 0.22, ChangePercent: 0.05},
}

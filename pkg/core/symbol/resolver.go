// Package symbol resolves free-text company names to ticker symbols.
package symbol

import (
	"context"
	"log"
	"strings"

	"company_research/pkg/core/providers"
)

// commonTickers shortcuts symbol search for well-known companies, avoiding a
// rate-limited network call.
var commonTickers = map[string]string{
	"tesla":     "TSLA",
	"apple":     "AAPL",
	"microsoft": "MSFT",
	"amazon":    "AMZN",
	"google":    "GOOGL",
	"alphabet":  "GOOGL",
	"meta":      "META",
	"facebook":  "META",
	"netflix":   "NFLX",
	"nvidia":    "NVDA",
}

// Resolver turns a company name into a queryable identifier. Resolution never
// hard-errors: when search finds nothing (or fails), the raw name itself is
// returned and the rest of the pipeline must tolerate a non-ticker
// identifier.
type Resolver struct {
	search providers.SymbolSearcher
}

func NewResolver(search providers.SymbolSearcher) *Resolver {
	return &Resolver{search: search}
}

// Resolve returns the ticker for companyName. Order: static alias table,
// then provider symbol search, then the name itself.
func (r *Resolver) Resolve(ctx context.Context, companyName string) string {
	normalized := strings.ToLower(strings.TrimSpace(companyName))
	if ticker, ok := commonTickers[normalized]; ok {
		log.Printf("[symbol] %q resolved via alias table: %s", companyName, ticker)
		return ticker
	}

	if r.search != nil {
		ticker, err := r.search.SearchSymbol(ctx, companyName)
		if err != nil {
			log.Printf("[symbol] search failed for %q: %v", companyName, err)
		} else if ticker != "" {
			log.Printf("[symbol] %q resolved via search: %s", companyName, ticker)
			return strings.ToUpper(ticker)
		} else {
			log.Printf("[symbol] no match for %q, using name as identifier", companyName)
		}
	}

	return companyName
}

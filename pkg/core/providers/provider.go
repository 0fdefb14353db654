// Package providers contains thin adapters around each external data source.
// Every adapter exposes a uniform capability interface so the fallback
// resolver stays provider-agnostic.
package providers

import (
	"context"
	"errors"
)

// RawRecord is a provider-specific key/value payload. It is owned by the
// provider that produced it and discarded after normalization; keys keep the
// provider's native naming.
type RawRecord map[string]interface{}

// RawArticle is one article summary as returned by a news source, before
// normalization.
type RawArticle struct {
	Title       string
	Description string
	URL         string
	PublishedAt string
	Source      string
}

// ErrRateLimited marks a provider-side rate limit. Some providers signal it
// inside a 200 body, so adapters detect and wrap it explicitly; the fallback
// resolver treats it like any other provider failure.
var ErrRateLimited = errors.New("provider rate limited")

// ErrEmptyPayload marks a well-formed transport result carrying no usable
// data.
var ErrEmptyPayload = errors.New("empty provider payload")

// IsRateLimited reports whether err stems from a provider rate limit.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// MarketDataProvider serves the "company financials" capability.
type MarketDataProvider interface {
	Name() string
	// FetchCompanyData returns the provider's raw view of a company keyed by
	// ticker symbol.
	FetchCompanyData(ctx context.Context, symbol string) (RawRecord, error)
}

// SymbolSearcher resolves a free-text company name to a ticker symbol.
type SymbolSearcher interface {
	SearchSymbol(ctx context.Context, keywords string) (string, error)
}

// NewsProvider serves the "company news" capability.
type NewsProvider interface {
	Name() string
	// SearchNews returns up to limit article summaries for a keyword query.
	SearchNews(ctx context.Context, query string, limit int) ([]RawArticle, error)
}

// Merge shallow-merges src into dst: only keys src explicitly provides
// override dst. Used when a provider combines several endpoint responses
// (overview + quote + income statement) into one raw record.
func Merge(dst RawRecord, src RawRecord) {
	for k, v := range src {
		dst[k] = v
	}
}

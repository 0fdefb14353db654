package fallback

import (
	"context"
	"fmt"
	"log"
	"strings"

	"company_research/pkg/core/providers"
)

// Capability names used in logs and exhausted errors.
const (
	CapabilityFinancials = "company financials"
	CapabilityNews       = "company news"
)

// ExhaustedError is the terminal failure of a capability: every provider in
// the chain was retried to its limit. It records the last error per provider
// so total failures are never swallowed silently.
type ExhaustedError struct {
	Capability string
	Attempts   int
	LastErrors map[string]error
}

func (e *ExhaustedError) Error() string {
	parts := make([]string, 0, len(e.LastErrors))
	for name, err := range e.LastErrors {
		parts = append(parts, fmt.Sprintf("%s: %v", name, err))
	}
	return fmt.Sprintf("all providers exhausted for %s after %d attempts (%s)",
		e.Capability, e.Attempts, strings.Join(parts, "; "))
}

// Resolver walks an ordered provider list per capability. Each provider gets
// up to Policy.MaxAttempts calls with exponential backoff between them; the
// first success returns immediately and no later provider is called.
type Resolver struct {
	policy Policy
	sleep  SleepFunc

	market []providers.MarketDataProvider
	news   []providers.NewsProvider
}

func NewResolver(policy Policy, market []providers.MarketDataProvider, news []providers.NewsProvider) *Resolver {
	if policy.MaxAttempts <= 0 {
		policy = DefaultPolicy()
	}
	return &Resolver{
		policy: policy,
		sleep:  ContextSleep,
		market: market,
		news:   news,
	}
}

// SetSleep replaces the backoff sleeper. Tests only.
func (r *Resolver) SetSleep(sleep SleepFunc) { r.sleep = sleep }

// ResolveMarketData fetches a raw company record through the market-data
// chain. Returns the record and the name of the provider that produced it.
func (r *Resolver) ResolveMarketData(ctx context.Context, symbol string) (providers.RawRecord, string, error) {
	var (
		record   providers.RawRecord
		provider string
	)
	err := r.walk(ctx, CapabilityFinancials, len(r.market), func(i int) (string, error) {
		p := r.market[i]
		raw, err := p.FetchCompanyData(ctx, symbol)
		if err != nil {
			return p.Name(), err
		}
		if len(raw) == 0 {
			return p.Name(), providers.ErrEmptyPayload
		}
		record, provider = raw, p.Name()
		return p.Name(), nil
	})
	if err != nil {
		return nil, "", err
	}
	return record, provider, nil
}

// ResolveNews fetches up to limit articles through the news chain.
func (r *Resolver) ResolveNews(ctx context.Context, query string, limit int) ([]providers.RawArticle, string, error) {
	var (
		articles []providers.RawArticle
		provider string
	)
	err := r.walk(ctx, CapabilityNews, len(r.news), func(i int) (string, error) {
		p := r.news[i]
		found, err := p.SearchNews(ctx, query, limit)
		if err != nil {
			return p.Name(), err
		}
		if len(found) == 0 {
			return p.Name(), providers.ErrEmptyPayload
		}
		articles, provider = found, p.Name()
		return p.Name(), nil
	})
	if err != nil {
		return nil, "", err
	}
	return articles, provider, nil
}

// walk runs the retry-then-next-provider loop. attempt returns the provider
// name along with its result so failures can be attributed.
func (r *Resolver) walk(ctx context.Context, capability string, numProviders int, attempt func(i int) (string, error)) error {
	lastErrors := map[string]error{}
	attempts := 0

	for i := 0; i < numProviders; i++ {
		for k := 0; k < r.policy.MaxAttempts; k++ {
			if k > 0 {
				delay := r.policy.Delay(k)
				log.Printf("[fallback] %s: retrying in %v (attempt %d/%d)", capability, delay, k+1, r.policy.MaxAttempts)
				if err := r.sleep(ctx, delay); err != nil {
					lastErrors["context"] = err
					return &ExhaustedError{Capability: capability, Attempts: attempts, LastErrors: lastErrors}
				}
			}

			attempts++
			name, err := attempt(i)
			if err == nil {
				return nil
			}
			lastErrors[name] = err

			if providers.IsRateLimited(err) {
				log.Printf("[fallback] %s: %s rate limited", capability, name)
			} else {
				log.Printf("[fallback] %s: %s failed: %v", capability, name, err)
			}

			if ctx.Err() != nil {
				lastErrors["context"] = ctx.Err()
				return &ExhaustedError{Capability: capability, Attempts: attempts, LastErrors: lastErrors}
			}
		}
	}

	return &ExhaustedError{Capability: capability, Attempts: attempts, LastErrors: lastErrors}
}

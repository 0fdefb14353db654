package fallback

import (
	"context"
	"errors"
	"testing"
	"time"

	"company_research/pkg/core/providers"
)

// --- Mocks ---

type mockMarketProvider struct {
	name  string
	calls int
	fetch func() (providers.RawRecord, error)
}

func (m *mockMarketProvider) Name() string { return m.name }

func (m *mockMarketProvider) FetchCompanyData(ctx context.Context, symbol string) (providers.RawRecord, error) {
	m.calls++
	if m.fetch != nil {
		return m.fetch()
	}
	return providers.RawRecord{"Symbol": symbol}, nil
}

type mockNewsProvider struct {
	name   string
	calls  int
	search func() ([]providers.RawArticle, error)
}

func (m *mockNewsProvider) Name() string { return m.name }

func (m *mockNewsProvider) SearchNews(ctx context.Context, query string, limit int) ([]providers.RawArticle, error) {
	m.calls++
	if m.search != nil {
		return m.search()
	}
	return []providers.RawArticle{{Title: "t", URL: "u"}}, nil
}

func noSleep() (SleepFunc, *[]time.Duration) {
	var delays []time.Duration
	return func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}, &delays
}

func failing(name string) *mockMarketProvider {
	return &mockMarketProvider{
		name:  name,
		fetch: func() (providers.RawRecord, error) { return nil, errors.New("boom") },
	}
}

func testPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: 12 * time.Second, Multiplier: 2}
}

// --- Tests ---

func TestResolveMarketData_StopsAtFirstSuccess(t *testing.T) {
	p1 := failing("p1")
	p2 := &mockMarketProvider{name: "p2"}
	p3 := &mockMarketProvider{name: "p3"}

	r := NewResolver(testPolicy(), []providers.MarketDataProvider{p1, p2, p3}, nil)
	sleep, _ := noSleep()
	r.SetSleep(sleep)

	record, provider, err := r.ResolveMarketData(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider != "p2" {
		t.Errorf("expected provider p2, got %s", provider)
	}
	if record["Symbol"] != "AAPL" {
		t.Errorf("unexpected record: %v", record)
	}

	// p1 exhausted, p2 succeeded first try, p3 never called.
	if p1.calls != 3 {
		t.Errorf("p1 calls = %d, want 3", p1.calls)
	}
	if p2.calls != 1 {
		t.Errorf("p2 calls = %d, want 1", p2.calls)
	}
	if p3.calls != 0 {
		t.Errorf("p3 calls = %d, want 0", p3.calls)
	}
}

func TestResolveMarketData_AllExhausted(t *testing.T) {
	p1 := failing("p1")
	p2 := failing("p2")

	r := NewResolver(testPolicy(), []providers.MarketDataProvider{p1, p2}, nil)
	sleep, delays := noSleep()
	r.SetSleep(sleep)

	_, _, err := r.ResolveMarketData(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("expected exhausted error")
	}

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected *ExhaustedError, got %T", err)
	}
	if exhausted.Capability != CapabilityFinancials {
		t.Errorf("capability = %q", exhausted.Capability)
	}
	// Exactly N providers * MaxAttempts attempts.
	if exhausted.Attempts != 6 {
		t.Errorf("attempts = %d, want 6", exhausted.Attempts)
	}
	if _, ok := exhausted.LastErrors["p1"]; !ok {
		t.Error("missing last error for p1")
	}
	if _, ok := exhausted.LastErrors["p2"]; !ok {
		t.Error("missing last error for p2")
	}

	// Backoff schedule per provider: base*2^1, base*2^2.
	expected := []time.Duration{24 * time.Second, 48 * time.Second, 24 * time.Second, 48 * time.Second}
	if len(*delays) != len(expected) {
		t.Fatalf("delays = %v, want %v", *delays, expected)
	}
	for i, d := range expected {
		if (*delays)[i] != d {
			t.Errorf("delay[%d] = %v, want %v", i, (*delays)[i], d)
		}
	}
}

func TestResolveNews_EmptyResultAdvancesChain(t *testing.T) {
	empty := &mockNewsProvider{
		name:   "empty",
		search: func() ([]providers.RawArticle, error) { return nil, nil },
	}
	stub := &mockNewsProvider{name: "stub"}

	r := NewResolver(testPolicy(), nil, []providers.NewsProvider{empty, stub})
	sleep, _ := noSleep()
	r.SetSleep(sleep)

	articles, provider, err := r.ResolveNews(context.Background(), "Apple", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider != "stub" {
		t.Errorf("expected stub provider, got %s", provider)
	}
	if len(articles) != 1 {
		t.Errorf("articles = %d, want 1", len(articles))
	}
}

func TestResolve_RateLimitCountsAsFailure(t *testing.T) {
	limited := &mockMarketProvider{
		name:  "limited",
		fetch: func() (providers.RawRecord, error) { return nil, providers.ErrRateLimited },
	}
	ok := &mockMarketProvider{name: "ok"}

	r := NewResolver(testPolicy(), []providers.MarketDataProvider{limited, ok}, nil)
	sleep, _ := noSleep()
	r.SetSleep(sleep)

	_, provider, err := r.ResolveMarketData(context.Background(), "TSLA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider != "ok" {
		t.Errorf("expected ok provider, got %s", provider)
	}
	if limited.calls != 3 {
		t.Errorf("limited calls = %d, want 3", limited.calls)
	}
}

func TestResolve_ContextCancelStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	p := &mockMarketProvider{
		name: "p",
		fetch: func() (providers.RawRecord, error) {
			cancel() // fail and cancel: no further attempts should run
			return nil, errors.New("boom")
		},
	}
	never := &mockMarketProvider{name: "never"}

	r := NewResolver(testPolicy(), []providers.MarketDataProvider{p, never}, nil)
	sleep, _ := noSleep()
	r.SetSleep(sleep)

	_, _, err := r.ResolveMarketData(ctx, "AAPL")
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	if p.calls != 1 {
		t.Errorf("p calls = %d, want 1", p.calls)
	}
	if never.calls != 0 {
		t.Errorf("never calls = %d, want 0", never.calls)
	}
}

func TestPolicyDelay(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: 10 * time.Second, Multiplier: 2}

	if d := p.Delay(0); d != 0 {
		t.Errorf("Delay(0) = %v, want 0", d)
	}
	if d := p.Delay(1); d != 20*time.Second {
		t.Errorf("Delay(1) = %v, want 20s", d)
	}
	if d := p.Delay(2); d != 40*time.Second {
		t.Errorf("Delay(2) = %v, want 40s", d)
	}
}

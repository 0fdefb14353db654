package symbol

import (
	"context"
	"errors"
	"testing"
)

type mockSearcher struct {
	calls  int
	symbol string
	err    error
}

func (m *mockSearcher) SearchSymbol(ctx context.Context, keywords string) (string, error) {
	m.calls++
	return m.symbol, m.err
}

func TestResolve_AliasTableSkipsNetwork(t *testing.T) {
	search := &mockSearcher{symbol: "WRONG"}
	r := NewResolver(search)

	tests := []struct {
		input    string
		expected string
	}{
		{"Apple", "AAPL"},
		{"apple", "AAPL"},
		{"  Tesla  ", "TSLA"},
		{"FACEBOOK", "META"},
	}
	for _, tc := range tests {
		if got := r.Resolve(context.Background(), tc.input); got != tc.expected {
			t.Errorf("Resolve(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
	if search.calls != 0 {
		t.Errorf("alias resolution must not hit the search provider, got %d calls", search.calls)
	}
}

func TestResolve_SearchFallback(t *testing.T) {
	r := NewResolver(&mockSearcher{symbol: "shop"})
	if got := r.Resolve(context.Background(), "Shopify"); got != "SHOP" {
		t.Errorf("Resolve = %q, want SHOP", got)
	}
}

func TestResolve_NoMatchReturnsName(t *testing.T) {
	r := NewResolver(&mockSearcher{symbol: ""})
	if got := r.Resolve(context.Background(), "Some Obscure Startup"); got != "Some Obscure Startup" {
		t.Errorf("Resolve = %q, want the raw name", got)
	}
}

func TestResolve_SearchErrorReturnsName(t *testing.T) {
	r := NewResolver(&mockSearcher{err: errors.New("rate limited")})
	if got := r.Resolve(context.Background(), "Acme Corp"); got != "Acme Corp" {
		t.Errorf("Resolve = %q, want the raw name", got)
	}
}

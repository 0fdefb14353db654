package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newAlphaVantageTestServer(handler http.HandlerFunc) (*AlphaVantageClient, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewAlphaVantageClient("test-key")
	client.SetBaseURL(server.URL)
	return client, server
}

func TestAlphaVantageFetchCompanyData_MergesEndpoints(t *testing.T) {
	client, server := newAlphaVantageTestServer(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("function") {
		case "OVERVIEW":
			w.Write([]byte(`{"Symbol":"AAPL","Description":"Apple designs smartphones.","Sector":"Technology","PERatio":"28.5","RevenueTTM":"391000000000"}`))
		case "GLOBAL_QUOTE":
			w.Write([]byte(`{"Global Quote":{"05. price":"230.5000","10. change percent":"1.25%","06. volume":"51234567"}}`))
		case "INCOME_STATEMENT":
			w.Write([]byte(`{"annualReports":[{"totalRevenue":"391035000000","grossProfit":"180683000000","operatingIncome":"123216000000","netIncome":"93736000000"}]}`))
		default:
			t.Errorf("unexpected function %q", r.URL.Query().Get("function"))
		}
	})
	defer server.Close()

	record, err := client.FetchCompanyData(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Keys from all three endpoints must be present in the merged record.
	for _, key := range []string{"Description", "Sector", "PERatio", "05. price", "06. volume", "totalRevenue", "netIncome"} {
		if _, ok := record[key]; !ok {
			t.Errorf("merged record missing key %q", key)
		}
	}
}

func TestAlphaVantageFetchCompanyData_RateLimitMarker(t *testing.T) {
	client, server := newAlphaVantageTestServer(func(w http.ResponseWriter, r *http.Request) {
		// The free tier reports throttling in a 200 body.
		w.Write([]byte(`{"Note":"Thank you for using Alpha Vantage! Our standard API rate limit is 5 requests per minute."}`))
	})
	defer server.Close()

	_, err := client.FetchCompanyData(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("expected rate limit error")
	}
	if !IsRateLimited(err) {
		t.Errorf("expected IsRateLimited, got: %v", err)
	}
}

func TestAlphaVantageFetchCompanyData_EmptyOverview(t *testing.T) {
	client, server := newAlphaVantageTestServer(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	defer server.Close()

	_, err := client.FetchCompanyData(context.Background(), "NOPE")
	if err == nil {
		t.Fatal("expected empty payload error")
	}
}

func TestAlphaVantageSearchSymbol(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "best match wins",
			body:     `{"bestMatches":[{"1. symbol":"TSLA","2. name":"Tesla Inc"},{"1. symbol":"TL0.DEX","2. name":"Tesla Inc"}]}`,
			expected: "TSLA",
		},
		{
			name:     "zero matches",
			body:     `{"bestMatches":[]}`,
			expected: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, server := newAlphaVantageTestServer(func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("function"); got != "SYMBOL_SEARCH" {
					t.Errorf("expected SYMBOL_SEARCH, got %q", got)
				}
				w.Write([]byte(tc.body))
			})
			defer server.Close()

			symbol, err := client.SearchSymbol(context.Background(), "tesla")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if symbol != tc.expected {
				t.Errorf("SearchSymbol = %q, want %q", symbol, tc.expected)
			}
		})
	}
}

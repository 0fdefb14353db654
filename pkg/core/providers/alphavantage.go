package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
)

const AlphaVantageName = "alphavantage"

// alphaVantageBaseURL is a var so tests can point the client at a local
// server.
var alphaVantageBaseURL = "https://www.alphavantage.co/query"

// AlphaVantageClient is the primary market-data provider: symbol search,
// company overview, real-time quote and income statement. The free tier is
// hard rate limited (5 requests/minute) and signals limits inside a 200 body,
// which FetchCompanyData surfaces as ErrRateLimited.
type AlphaVantageClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ MarketDataProvider = (*AlphaVantageClient)(nil)
var _ SymbolSearcher = (*AlphaVantageClient)(nil)

func NewAlphaVantageClient(apiKey string) *AlphaVantageClient {
	if apiKey == "" {
		apiKey = os.Getenv("ALPHA_VANTAGE_API_KEY")
	}
	return &AlphaVantageClient{
		apiKey:  apiKey,
		baseURL: alphaVantageBaseURL,
		client:  http.DefaultClient,
	}
}

// SetBaseURL overrides the API endpoint. Tests only.
func (c *AlphaVantageClient) SetBaseURL(u string) { c.baseURL = u }

func (c *AlphaVantageClient) Name() string { return AlphaVantageName }

// FetchCompanyData combines OVERVIEW, GLOBAL_QUOTE and INCOME_STATEMENT into
// one raw record. The merge is shallow: later calls override earlier ones
// only for keys they explicitly provide.
func (c *AlphaVantageClient) FetchCompanyData(ctx context.Context, symbol string) (RawRecord, error) {
	record := RawRecord{}

	overview, err := c.query(ctx, map[string]string{"function": "OVERVIEW", "symbol": symbol})
	if err != nil {
		return nil, fmt.Errorf("alpha vantage overview: %w", err)
	}
	Merge(record, overview)

	quote, err := c.query(ctx, map[string]string{"function": "GLOBAL_QUOTE", "symbol": symbol})
	if err != nil {
		return nil, fmt.Errorf("alpha vantage quote: %w", err)
	}
	if gq, ok := quote["Global Quote"].(map[string]interface{}); ok {
		Merge(record, RawRecord(gq))
	}

	income, err := c.query(ctx, map[string]string{"function": "INCOME_STATEMENT", "symbol": symbol})
	if err != nil {
		return nil, fmt.Errorf("alpha vantage income statement: %w", err)
	}
	if reports, ok := income["annualReports"].([]interface{}); ok && len(reports) > 0 {
		if latest, ok := reports[0].(map[string]interface{}); ok {
			Merge(record, RawRecord{
				"totalRevenue":    latest["totalRevenue"],
				"grossProfit":     latest["grossProfit"],
				"operatingIncome": latest["operatingIncome"],
				"netIncome":       latest["netIncome"],
			})
		}
	}

	// An overview with no Symbol key means the API returned an empty object
	// for an unknown ticker.
	if _, ok := record["Symbol"]; !ok {
		if _, ok := record["Description"]; !ok {
			return nil, fmt.Errorf("alpha vantage: no data for %q: %w", symbol, ErrEmptyPayload)
		}
	}

	return record, nil
}

// SearchSymbol resolves keywords to the best-matching ticker via
// SYMBOL_SEARCH. Zero matches return an empty symbol and no error; the caller
// decides the fallback.
func (c *AlphaVantageClient) SearchSymbol(ctx context.Context, keywords string) (string, error) {
	data, err := c.query(ctx, map[string]string{"function": "SYMBOL_SEARCH", "keywords": keywords})
	if err != nil {
		return "", fmt.Errorf("alpha vantage symbol search: %w", err)
	}

	matches, ok := data["bestMatches"].([]interface{})
	if !ok || len(matches) == 0 {
		return "", nil
	}
	best, ok := matches[0].(map[string]interface{})
	if !ok {
		return "", nil
	}
	symbol, _ := best["1. symbol"].(string)
	return symbol, nil
}

func (c *AlphaVantageClient) query(ctx context.Context, params map[string]string) (RawRecord, error) {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var data RawRecord
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("malformed payload: %v", err)
	}

	// The free tier reports throttling inside a 200 body under "Note" (or
	// "Information" on newer responses).
	if _, throttled := data["Note"]; throttled {
		return nil, ErrRateLimited
	}
	if _, throttled := data["Information"]; throttled {
		return nil, ErrRateLimited
	}

	return data, nil
}

package providers

import (
	"context"
	"fmt"

	"github.com/piquette/finance-go/equity"
)

const YahooFinanceName = "yahoo"

// YahooFinanceClient is the secondary market-data provider, backed by Yahoo
// Finance through piquette/finance-go. It serves a flatter record than Alpha
// Vantage (no income statement), which is fine: normalization fills the gaps
// with sentinels.
type YahooFinanceClient struct{}

var _ MarketDataProvider = (*YahooFinanceClient)(nil)

func NewYahooFinanceClient() *YahooFinanceClient { return &YahooFinanceClient{} }

func (c *YahooFinanceClient) Name() string { return YahooFinanceName }

func (c *YahooFinanceClient) FetchCompanyData(ctx context.Context, symbol string) (RawRecord, error) {
	// finance-go has no context plumbing; honor cancellation before the call.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q, err := equity.Get(symbol)
	if err != nil {
		return nil, fmt.Errorf("yahoo finance quote for %q: %w", symbol, err)
	}
	if q == nil || q.Symbol == "" {
		return nil, fmt.Errorf("yahoo finance: no quote for %q: %w", symbol, ErrEmptyPayload)
	}

	record := RawRecord{
		"symbol":                     q.Symbol,
		"shortName":                  q.ShortName,
		"longName":                   q.LongName,
		"regularMarketPrice":         q.RegularMarketPrice,
		"regularMarketChangePercent": q.RegularMarketChangePercent,
		"regularMarketVolume":        q.RegularMarketVolume,
		"fiftyTwoWeekHigh":           q.FiftyTwoWeekHigh,
		"fiftyTwoWeekLow":            q.FiftyTwoWeekLow,
	}
	if q.MarketCap > 0 {
		record["marketCap"] = q.MarketCap
	}
	if q.TrailingPE > 0 {
		record["trailingPE"] = q.TrailingPE
	}
	if q.EpsTrailingTwelveMonths != 0 {
		record["epsTrailingTwelveMonths"] = q.EpsTrailingTwelveMonths
	}

	return record, nil
}

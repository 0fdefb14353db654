// Package models defines the canonical data shapes shared by the research
// pipeline: the normalized company record, news items, and the stage outputs.
package models

import (
	"encoding/json"
	"fmt"
)

// Sentinel is the explicit "value unavailable" marker. Every string field of
// the canonical record carries it instead of being absent or null, so
// downstream stages never need presence checks.
const Sentinel = "N/A"

// Metric is a tagged sentinel value for financial fields that may be
// unavailable. It serializes as its plain string value ("N/A" when
// unavailable), keeping the wire shape flat while letting Go code branch on
// Available instead of comparing strings.
type Metric struct {
	Value     string
	Available bool
}

// NA returns the unavailable metric.
func NA() Metric {
	return Metric{Value: Sentinel}
}

// MetricOf wraps a raw provider string. Empty strings and provider-side
// "None"/"N/A" markers collapse to the sentinel.
func MetricOf(s string) Metric {
	switch s {
	case "", "None", "none", "null", Sentinel:
		return NA()
	}
	return Metric{Value: s, Available: true}
}

func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Available {
		return json.Marshal(Sentinel)
	}
	return json.Marshal(m.Value)
}

func (m *Metric) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Tolerate bare numbers from older payloads.
		var f float64
		if err2 := json.Unmarshal(data, &f); err2 != nil {
			return err
		}
		s = fmt.Sprintf("%v", f)
	}
	*m = MetricOf(s)
	return nil
}

func (m Metric) String() string {
	if !m.Available {
		return Sentinel
	}
	return m.Value
}

// CompanyInfo identifies the company under research.
type CompanyInfo struct {
	Name        string `json:"name"`
	Ticker      string `json:"ticker"`
	Description string `json:"description"`
	Sector      string `json:"sector"`
	Industry    string `json:"industry"`
}

// FinancialData holds fundamentals. Display-oriented fields are Metrics
// (value or "N/A"); live quote fields are typed numbers defaulting to zero
// when the source could not be parsed.
type FinancialData struct {
	Revenue         Metric `json:"revenue"`
	GrossProfit     Metric `json:"gross_profit"`
	OperatingMargin Metric `json:"operating_margin"`
	ProfitMargin    Metric `json:"profit_margin"`
	PERatio         Metric `json:"pe_ratio"`
	EPS             Metric `json:"eps"`
	MarketCap       Metric `json:"market_cap"`
	ReturnOnEquity  Metric `json:"return_on_equity"`
	ReturnOnAssets  Metric `json:"return_on_assets"`
	TotalRevenue    Metric `json:"total_revenue"`
	OperatingIncome Metric `json:"operating_income"`
	NetIncome       Metric `json:"net_income"`

	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
}

// MarketData is the live trading snapshot.
type MarketData struct {
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
	Week52High    Metric  `json:"week_52_high"`
	Week52Low     Metric  `json:"week_52_low"`
}

// NewsItem is one normalized article summary.
type NewsItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
	Source      string `json:"source"`
}

// CanonicalRecord is the single normalized shape all pipeline stages consume,
// independent of which provider supplied the data. Produced once by the
// normalizer and shared read-only downstream.
type CanonicalRecord struct {
	CompanyInfo   CompanyInfo   `json:"company_info"`
	FinancialData FinancialData `json:"financial_data"`
	MarketData    MarketData    `json:"market_data"`
	NewsItems     []NewsItem    `json:"news_data"`
}

// EmptyRecord returns a sentinel-filled record for a company. Used when every
// market-data provider was exhausted but the pipeline still proceeds.
func EmptyRecord(companyName, ticker string) CanonicalRecord {
	return CanonicalRecord{
		CompanyInfo: CompanyInfo{
			Name:        companyName,
			Ticker:      ticker,
			Description: "Detailed company information temporarily unavailable. Please try again later.",
			Sector:      Sentinel,
			Industry:    Sentinel,
		},
		FinancialData: FinancialData{
			Revenue:         NA(),
			GrossProfit:     NA(),
			OperatingMargin: NA(),
			ProfitMargin:    NA(),
			PERatio:         NA(),
			EPS:             NA(),
			MarketCap:       NA(),
			ReturnOnEquity:  NA(),
			ReturnOnAssets:  NA(),
			TotalRevenue:    NA(),
			OperatingIncome: NA(),
			NetIncome:       NA(),
		},
		MarketData: MarketData{
			Week52High: NA(),
			Week52Low:  NA(),
		},
		NewsItems: []NewsItem{},
	}
}

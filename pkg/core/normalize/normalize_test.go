package normalize

import (
	"encoding/json"
	"reflect"
	"testing"

	"company_research/pkg/core/providers"
	"company_research/pkg/models"
)

func TestRecord_AllFieldsPresentForArbitraryInput(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		raw      providers.RawRecord
	}{
		{"nil raw record", providers.AlphaVantageName, nil},
		{"empty raw record", providers.AlphaVantageName, providers.RawRecord{}},
		{"unknown provider", "something-else", providers.RawRecord{"weird": 1}},
		{"garbage values", providers.AlphaVantageName, providers.RawRecord{
			"PERatio":   []int{1, 2},
			"05. price": map[string]string{"nested": "junk"},
			"Sector":    42,
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			record := Record("Acme", "ACME", tc.provider, tc.raw, nil)

			// Serialize and check schema presence: every declared key must
			// exist even when the source had nothing.
			data, err := json.Marshal(record)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var out map[string]map[string]interface{}
			if err := json.Unmarshal(data, &out); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			for _, key := range []string{"revenue", "gross_profit", "operating_margin", "pe_ratio", "market_cap", "price", "change_percent", "volume"} {
				if _, ok := out["financial_data"][key]; !ok {
					t.Errorf("financial_data missing key %q", key)
				}
			}
			for _, key := range []string{"name", "ticker", "description", "sector", "industry"} {
				if _, ok := out["company_info"][key]; !ok {
					t.Errorf("company_info missing key %q", key)
				}
			}
			if record.FinancialData.Revenue.Available {
				t.Error("unavailable revenue must carry the sentinel")
			}
			if record.NewsItems == nil {
				t.Error("news items must be an empty list, not nil")
			}
		})
	}
}

func TestRecord_AlphaVantageMapping(t *testing.T) {
	raw := providers.RawRecord{
		"Description":        "Apple designs smartphones.",
		"Sector":             "Technology",
		"Industry":           "Consumer Electronics",
		"RevenueTTM":         "391035000000",
		"PERatio":            "28.5",
		"05. price":          "230.5000",
		"10. change percent": "1.25%",
		"06. volume":         "51234567",
		"52WeekHigh":         "237.23",
		"52WeekLow":          "164.08",
	}

	record := Record("Apple", "AAPL", providers.AlphaVantageName, raw, nil)

	if record.CompanyInfo.Sector != "Technology" {
		t.Errorf("sector = %q", record.CompanyInfo.Sector)
	}
	if record.FinancialData.Price != 230.5 {
		t.Errorf("price = %v, want 230.5", record.FinancialData.Price)
	}
	if record.FinancialData.ChangePercent != 1.25 {
		t.Errorf("change_percent = %v, want 1.25 (%% suffix stripped)", record.FinancialData.ChangePercent)
	}
	if record.FinancialData.Volume != 51234567 {
		t.Errorf("volume = %v", record.FinancialData.Volume)
	}
	if !record.FinancialData.PERatio.Available || record.FinancialData.PERatio.Value != "28.5" {
		t.Errorf("pe_ratio = %+v", record.FinancialData.PERatio)
	}
	if record.MarketData.Week52High.String() != "237.23" {
		t.Errorf("week_52_high = %v", record.MarketData.Week52High)
	}
	// Fields Alpha Vantage never served stay sentinel.
	if record.FinancialData.NetIncome.Available {
		t.Errorf("net_income should be N/A, got %+v", record.FinancialData.NetIncome)
	}
}

func TestRecord_YahooMapping(t *testing.T) {
	raw := providers.RawRecord{
		"longName":                   "Tesla, Inc.",
		"regularMarketPrice":         412.37,
		"regularMarketChangePercent": -2.1,
		"regularMarketVolume":        88123456,
		"fiftyTwoWeekHigh":           488.54,
		"fiftyTwoWeekLow":            138.80,
		"trailingPE":                 112.4,
	}

	record := Record("Tesla", "TSLA", providers.YahooFinanceName, raw, nil)

	if record.FinancialData.Price != 412.37 {
		t.Errorf("price = %v", record.FinancialData.Price)
	}
	if record.MarketData.ChangePercent != -2.1 {
		t.Errorf("change_percent = %v", record.MarketData.ChangePercent)
	}
	// Yahoo has no description; sentinel-backed default applies.
	if record.CompanyInfo.Description == "" {
		t.Error("description must never be empty")
	}
	if record.FinancialData.Revenue.Available {
		t.Error("revenue unavailable from yahoo quote, expected sentinel")
	}
}

func TestRecord_Idempotent(t *testing.T) {
	raw := providers.RawRecord{
		"Description": "desc",
		"PERatio":     "31.2",
		"05. price":   "99.5",
	}
	articles := []providers.RawArticle{{Title: "t", URL: "http://x", Source: "s"}}

	first := Record("Acme", "ACME", providers.AlphaVantageName, raw, articles)
	second := Record("Acme", "ACME", providers.AlphaVantageName, raw, articles)

	if !reflect.DeepEqual(first, second) {
		t.Error("Record is not deterministic for identical input")
	}

	b1, _ := json.Marshal(first)
	b2, _ := json.Marshal(second)
	if string(b1) != string(b2) {
		t.Error("serialized records differ between calls")
	}
}

func TestNews_CapsAtLimit(t *testing.T) {
	articles := make([]providers.RawArticle, 8)
	for i := range articles {
		articles[i] = providers.RawArticle{Title: "t", URL: "u"}
	}
	items := News(articles, 5)
	if len(items) != 5 {
		t.Errorf("len = %d, want 5", len(items))
	}
}

func TestCoerceFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected float64
	}{
		{"plain float", 3.14, 3.14},
		{"numeric string", "230.50", 230.5},
		{"percent suffix", "1.25%", 1.25},
		{"dollar prefix", "$1,234.56", 1234.56},
		{"thousands separators", "51,234,567", 51234567},
		{"garbage string", "not-a-number", 0},
		{"sentinel", models.Sentinel, 0},
		{"nil", nil, 0},
		{"wrong type", []string{"x"}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CoerceFloat(tc.input); got != tc.expected {
				t.Errorf("CoerceFloat(%v) = %v, want %v", tc.input, got, tc.expected)
			}
		})
	}
}

// Package normalize maps provider-specific raw records into the canonical
// record shape. Each provider has a fixed field-mapping table; canonical
// fields the provider cannot serve are filled with the sentinel (strings) or
// zero values (numerics) so downstream stages index fields unconditionally.
package normalize

import (
	"company_research/pkg/core/providers"
	"company_research/pkg/models"
)

// Canonical field keys, shared by every provider mapping table.
const (
	fieldDescription     = "description"
	fieldSector          = "sector"
	fieldIndustry        = "industry"
	fieldRevenue         = "revenue"
	fieldGrossProfit     = "gross_profit"
	fieldOperatingMargin = "operating_margin"
	fieldProfitMargin    = "profit_margin"
	fieldPERatio         = "pe_ratio"
	fieldEPS             = "eps"
	fieldMarketCap       = "market_cap"
	fieldReturnOnEquity  = "return_on_equity"
	fieldReturnOnAssets  = "return_on_assets"
	fieldTotalRevenue    = "total_revenue"
	fieldOperatingIncome = "operating_income"
	fieldNetIncome       = "net_income"
	fieldPrice           = "price"
	fieldChangePercent   = "change_percent"
	fieldVolume          = "volume"
	fieldWeek52High      = "week_52_high"
	fieldWeek52Low       = "week_52_low"
)

// fieldMap maps canonical keys to a provider's raw keys.
type fieldMap map[string]string

var fieldMaps = map[string]fieldMap{
	providers.AlphaVantageName: {
		fieldDescription:     "Description",
		fieldSector:          "Sector",
		fieldIndustry:        "Industry",
		fieldRevenue:         "RevenueTTM",
		fieldGrossProfit:     "GrossProfitTTM",
		fieldOperatingMargin: "OperatingMarginTTM",
		fieldProfitMargin:    "ProfitMargin",
		fieldPERatio:         "PERatio",
		fieldEPS:             "EPS",
		fieldMarketCap:       "MarketCapitalization",
		fieldReturnOnEquity:  "ReturnOnEquityTTM",
		fieldReturnOnAssets:  "ReturnOnAssetsTTM",
		fieldTotalRevenue:    "totalRevenue",
		fieldOperatingIncome: "operatingIncome",
		fieldNetIncome:       "netIncome",
		fieldPrice:           "05. price",
		fieldChangePercent:   "10. change percent",
		fieldVolume:          "06. volume",
		fieldWeek52High:      "52WeekHigh",
		fieldWeek52Low:       "52WeekLow",
	},
	providers.YahooFinanceName: {
		fieldPERatio:       "trailingPE",
		fieldEPS:           "epsTrailingTwelveMonths",
		fieldMarketCap:     "marketCap",
		fieldPrice:         "regularMarketPrice",
		fieldChangePercent: "regularMarketChangePercent",
		fieldVolume:        "regularMarketVolume",
		fieldWeek52High:    "fiftyTwoWeekHigh",
		fieldWeek52Low:     "fiftyTwoWeekLow",
	},
}

// Record builds the canonical record for a company from whichever provider
// succeeded, plus the resolved news articles. Pure function: the same inputs
// always produce an identical record.
func Record(companyName, ticker, providerName string, raw providers.RawRecord, articles []providers.RawArticle) models.CanonicalRecord {
	fm := fieldMaps[providerName] // nil map reads are fine: every lookup misses

	lookup := func(canonical string) interface{} {
		rawKey, ok := fm[canonical]
		if !ok {
			return nil
		}
		return raw[rawKey]
	}

	record := models.CanonicalRecord{
		CompanyInfo: models.CompanyInfo{
			Name:        companyName,
			Ticker:      ticker,
			Description: stringOr(lookup(fieldDescription), "Company overview not available"),
			Sector:      stringOr(lookup(fieldSector), models.Sentinel),
			Industry:    stringOr(lookup(fieldIndustry), models.Sentinel),
		},
		FinancialData: models.FinancialData{
			Revenue:         CoerceMetric(lookup(fieldRevenue)),
			GrossProfit:     CoerceMetric(lookup(fieldGrossProfit)),
			OperatingMargin: CoerceMetric(lookup(fieldOperatingMargin)),
			ProfitMargin:    CoerceMetric(lookup(fieldProfitMargin)),
			PERatio:         CoerceMetric(lookup(fieldPERatio)),
			EPS:             CoerceMetric(lookup(fieldEPS)),
			MarketCap:       CoerceMetric(lookup(fieldMarketCap)),
			ReturnOnEquity:  CoerceMetric(lookup(fieldReturnOnEquity)),
			ReturnOnAssets:  CoerceMetric(lookup(fieldReturnOnAssets)),
			TotalRevenue:    CoerceMetric(lookup(fieldTotalRevenue)),
			OperatingIncome: CoerceMetric(lookup(fieldOperatingIncome)),
			NetIncome:       CoerceMetric(lookup(fieldNetIncome)),
			Price:           CoerceFloat(lookup(fieldPrice)),
			ChangePercent:   CoerceFloat(lookup(fieldChangePercent)),
			Volume:          CoerceInt64(lookup(fieldVolume)),
		},
		MarketData: models.MarketData{
			Price:         CoerceFloat(lookup(fieldPrice)),
			ChangePercent: CoerceFloat(lookup(fieldChangePercent)),
			Volume:        CoerceInt64(lookup(fieldVolume)),
			Week52High:    CoerceMetric(lookup(fieldWeek52High)),
			Week52Low:     CoerceMetric(lookup(fieldWeek52Low)),
		},
		NewsItems: News(articles, 5),
	}

	return record
}

// News normalizes raw articles, capping the list at limit.
func News(articles []providers.RawArticle, limit int) []models.NewsItem {
	items := make([]models.NewsItem, 0, limit)
	for _, a := range articles {
		if len(items) == limit {
			break
		}
		items = append(items, models.NewsItem{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
			Source:      a.Source,
		})
	}
	return items
}

func stringOr(v interface{}, fallback string) string {
	if s, ok := v.(string); ok && s != "" && s != "None" {
		return s
	}
	return fallback
}

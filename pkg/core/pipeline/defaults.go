package pipeline

import (
	"fmt"

	"company_research/pkg/core/stage"
	"company_research/pkg/models"
)

// Stage output contracts. The executor validates generative output against
// these before a stage result is accepted; any violation substitutes the
// matching default below.
var (
	planSchema = stage.Schema{
		"financial_metrics": stage.StringList,
		"news_categories":   stage.StringList,
		"risk_factors":      stage.StringList,
		"market_position":   stage.StringList,
	}
	analysisSchema = stage.Schema{
		"financial_health":     stage.String,
		"market_position":      stage.String,
		"growth_potential":     stage.String,
		"key_metrics_analysis": stage.String,
	}
	riskSchema = stage.Schema{
		"risks": stage.StringList,
	}
	reportSchema = stage.Schema{
		"company_name":      stage.String,
		"overview":          stage.String,
		"financial_metrics": stage.StringMap,
		"potential_risks":   stage.StringList,
		"sources":           stage.StringList,
	}
)

// DefaultPlan is the plan used when the Plan stage output is unusable.
func DefaultPlan() models.ResearchPlan {
	return models.ResearchPlan{
		FinancialMetrics: []string{
			"revenue",
			"net_income",
			"operating_margin",
			"cash_flow",
			"debt_to_equity",
			"market_cap",
		},
		NewsCategories: []string{
			"earnings",
			"management",
			"products",
			"competition",
			"regulatory",
		},
		RiskFactors: []string{
			"financial_stability",
			"market_competition",
			"regulatory_compliance",
			"operational_efficiency",
		},
		MarketPosition: []string{
			"market_share",
			"brand_strength",
			"competitive_advantage",
			"growth_potential",
		},
	}
}

// DefaultAnalysis is substituted when the Analyze stage output is unusable.
func DefaultAnalysis() models.FinancialAnalysis {
	return models.FinancialAnalysis{
		FinancialHealth:    "Financial health analysis unavailable due to data processing error",
		MarketPosition:     "Market position analysis unavailable due to data processing error",
		GrowthPotential:    "Growth potential analysis unavailable due to data processing error",
		KeyMetricsAnalysis: "Key metrics analysis unavailable due to data processing error",
	}
}

// DefaultRisks is substituted when the AssessRisk stage output is unusable.
func DefaultRisks() models.RiskAssessment {
	return models.RiskAssessment{
		Risks: []string{
			"Financial data analysis incomplete - risk assessment limited",
			"Market position analysis unavailable",
			"Regulatory compliance status unknown",
		},
	}
}

// FallbackReport builds the report from already-gathered data when the
// Report stage output is unusable. The record's metrics and the risk list
// carry through unchanged so the caller still gets real data.
func FallbackReport(record models.CanonicalRecord, risks models.RiskAssessment) models.Report {
	metrics := map[string]string{
		"revenue":          record.FinancialData.Revenue.String(),
		"gross_profit":     record.FinancialData.GrossProfit.String(),
		"operating_margin": record.FinancialData.OperatingMargin.String(),
		"pe_ratio":         record.FinancialData.PERatio.String(),
		"market_cap":       record.FinancialData.MarketCap.String(),
		"eps":              record.FinancialData.EPS.String(),
		"net_income":       record.FinancialData.NetIncome.String(),
	}
	sources := make([]string, 0, len(record.NewsItems))
	for _, article := range record.NewsItems {
		if article.URL != "" {
			sources = append(sources, article.URL)
		}
	}
	return models.Report{
		CompanyName:      record.CompanyInfo.Name,
		Overview:         "Report generation failed. Please try again later.",
		FinancialMetrics: metrics,
		PotentialRisks:   risks.Risks,
		Sources:          sources,
	}
}

// ErrorResponse is the single structured shape returned when the pipeline
// fails fatally. It is a complete, well-formed response: every field is
// populated with sentinel or plain-language content, never left absent.
func ErrorResponse(companyName string, requestID string, cause error) *models.ResearchResponse {
	record := models.EmptyRecord(companyName, "")
	record.CompanyInfo.Description = "Report generation failed. Please try again later."
	return &models.ResearchResponse{
		CompanyName:      companyName,
		Overview:         "Report generation failed. Please try again later.",
		FinancialMetrics: map[string]string{},
		PotentialRisks: []string{
			fmt.Sprintf("Error during analysis: %v", cause),
			"Financial data analysis incomplete",
			"Market position analysis unavailable",
			"Regulatory compliance status unknown",
		},
		Sources:       []string{},
		CompanyInfo:   record.CompanyInfo,
		FinancialData: record.FinancialData,
		MarketData:    record.MarketData,
		NewsData:      []models.NewsItem{},
		FinancialAnalysis: models.FinancialAnalysis{
			FinancialHealth:    "Analysis failed",
			MarketPosition:     "Analysis failed",
			GrowthPotential:    "Analysis failed",
			KeyMetricsAnalysis: "Analysis failed",
		},
		RequestID: requestID,
	}
}

package models

// ResearchPlan is the Plan stage output: what to look at for this company.
type ResearchPlan struct {
	FinancialMetrics []string `json:"financial_metrics"`
	NewsCategories   []string `json:"news_categories"`
	RiskFactors      []string `json:"risk_factors"`
	MarketPosition   []string `json:"market_position"`
}

// FinancialAnalysis is the Analyze stage output. All fields are prose.
type FinancialAnalysis struct {
	FinancialHealth    string `json:"financial_health"`
	MarketPosition     string `json:"market_position"`
	GrowthPotential    string `json:"growth_potential"`
	KeyMetricsAnalysis string `json:"key_metrics_analysis"`
}

// RiskAssessment is the AssessRisk stage output.
type RiskAssessment struct {
	Risks []string `json:"risks"`
}

// Report is the final stage output.
type Report struct {
	CompanyName      string            `json:"company_name"`
	Overview         string            `json:"overview"`
	FinancialMetrics map[string]string `json:"financial_metrics"`
	PotentialRisks   []string          `json:"potential_risks"`
	Sources          []string          `json:"sources"`
}

// ResearchResponse is the externally documented response shape: the report
// fields plus the raw normalized substructures the report was built from.
type ResearchResponse struct {
	CompanyName      string            `json:"company_name"`
	Overview         string            `json:"overview"`
	FinancialMetrics map[string]string `json:"financial_metrics"`
	PotentialRisks   []string          `json:"potential_risks"`
	Sources          []string          `json:"sources"`

	CompanyInfo       CompanyInfo       `json:"company_info"`
	FinancialData     FinancialData     `json:"financial_data"`
	MarketData        MarketData        `json:"market_data"`
	NewsData          []NewsItem        `json:"news_data"`
	FinancialAnalysis FinancialAnalysis `json:"financial_analysis"`

	RequestID string `json:"request_id,omitempty"`
}

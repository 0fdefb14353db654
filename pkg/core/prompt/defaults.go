package prompt

// PromptIDs contains all known prompt identifiers
var PromptIDs = struct {
	ResearchPlan    string
	ResearchAnalyze string
	ResearchRisk    string
	ResearchReport  string
}{
	ResearchPlan:    "research.plan",
	ResearchAnalyze: "research.analyze",
	ResearchRisk:    "research.risk",
	ResearchReport:  "research.report",
}

// GetResearchPrompt returns a research stage's system prompt by stage name
func GetResearchPrompt(stage string) (string, error) {
	id := "research." + stage
	return Get().GetSystemPrompt(id)
}

// defaults are the compiled-in stage templates. A JSON file with the same
// ID under the resources directory replaces the matching entry at startup.
var defaults = []*PromptTemplate{
	{
		ID:          "research.plan",
		Name:        "Research Plan",
		Category:    "research",
		Description: "Builds the research plan that scopes the rest of the pipeline",
		SystemPrompt: "You are a senior equity research analyst. You design focused " +
			"research plans that identify which metrics, news themes, risk factors " +
			"and market position questions matter most for a given company.",
		UserPromptTmpl: "Create a research plan for {{.CompanyName}} (ticker: {{.Ticker}}).\n" +
			"Identify the financial metrics to examine, the news categories to monitor, " +
			"the risk factors to investigate, and the aspects of market position to assess.",
		Version: "1.0",
	},
	{
		ID:          "research.analyze",
		Name:        "Financial Analysis",
		Category:    "research",
		Description: "Analyzes the gathered financial data",
		SystemPrompt: "You are a financial analyst. You write concise, factual " +
			"assessments grounded only in the data you are given. When a value " +
			"reads N/A, treat it as unavailable rather than zero.",
		UserPromptTmpl: "Analyze the financial profile of {{.CompanyName}} ({{.Ticker}}).\n\n" +
			"Research focus areas: {{.FocusAreas}}\n\n" +
			"Financial data:\n{{.FinancialData}}",
		Version: "1.0",
	},
	{
		ID:          "research.risk",
		Name:        "Risk Assessment",
		Category:    "research",
		Description: "Extracts the principal risks from data, news and analysis",
		SystemPrompt: "You are a risk analyst. You identify the most material risks " +
			"facing a company, drawing on its financial data, recent news coverage " +
			"and the analysis you are given. Be specific, not generic.",
		UserPromptTmpl: "Assess the principal risks facing {{.CompanyName}} ({{.Ticker}}).\n\n" +
			"Financial data:\n{{.FinancialData}}\n\n" +
			"Recent news:\n{{.NewsData}}\n\n" +
			"Prior analysis:\n{{.Analysis}}",
		Version: "1.0",
	},
	{
		ID:          "research.report",
		Name:        "Research Report",
		Category:    "research",
		Description: "Composes the final company research report",
		SystemPrompt: "You are an equity research writer. You compose clear, " +
			"well-structured company research reports in plain prose. Carry " +
			"unavailable values through as N/A, never invent figures.",
		UserPromptTmpl: "Write a research report on {{.CompanyName}} ({{.Ticker}}).\n\n" +
			"Financial data:\n{{.FinancialData}}\n\n" +
			"Recent news:\n{{.NewsData}}\n\n" +
			"Analysis:\n{{.Analysis}}\n\n" +
			"Risk assessment:\n{{.Risks}}",
		Version: "1.0",
	},
}

func registerDefaults(r *Registry) {
	for _, pt := range defaults {
		// IDs are compile-time constants, Register cannot fail here.
		_ = r.Register(pt)
	}
}

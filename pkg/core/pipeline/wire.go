package pipeline

import (
	"os"

	"company_research/pkg/core/agent"
	"company_research/pkg/core/fallback"
	"company_research/pkg/core/providers"
	"company_research/pkg/core/stage"
	"company_research/pkg/core/symbol"
)

// NewDefaultOrchestrator wires the production provider chains around the
// given agent manager. Chain order is fixed: the richest source first, the
// never-failing stub last so the news capability cannot exhaust.
func NewDefaultOrchestrator(manager *agent.Manager) *Orchestrator {
	alphaVantage := providers.NewAlphaVantageClient(os.Getenv("ALPHA_VANTAGE_API_KEY"))

	resolver := fallback.NewResolver(fallback.DefaultPolicy(),
		[]providers.MarketDataProvider{
			alphaVantage,
			providers.NewYahooFinanceClient(),
		},
		[]providers.NewsProvider{
			providers.NewNewsAPIClient(os.Getenv("NEWS_API_KEY")),
			providers.NewYahooNewsClient(),
			providers.NewWebSearchStub(),
		})

	return NewOrchestrator(
		stage.NewExecutor(manager),
		resolver,
		symbol.NewResolver(alphaVantage),
	)
}

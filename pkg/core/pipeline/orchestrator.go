// Package pipeline runs the fixed research sequence for one company:
// Plan -> Gather -> Analyze -> AssessRisk -> Report. Stages never abort the
// sequence on malformed generative output; each substitutes its default and
// proceeds. The only fatal paths are total provider failure in Gather and
// the request-level timeout.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"company_research/pkg/core/fallback"
	"company_research/pkg/core/normalize"
	"company_research/pkg/core/prompt"
	"company_research/pkg/core/providers"
	"company_research/pkg/core/stage"
	"company_research/pkg/core/symbol"
	"company_research/pkg/models"
)

// ErrTimeout reports that the wrapping request deadline expired before the
// pipeline finished. Provider backoff delays stack, so an unbounded request
// could otherwise run for many minutes.
var ErrTimeout = errors.New("research request timed out")

const (
	// DefaultTimeout bounds one full pipeline run including all provider
	// retries and backend calls.
	DefaultTimeout = 5 * time.Minute

	// DefaultNewsLimit caps articles carried into the canonical record.
	DefaultNewsLimit = 5
)

// Orchestrator owns one research request end to end. Instances hold no
// per-request state and may be shared across concurrent requests.
type Orchestrator struct {
	executor *stage.Executor
	resolver *fallback.Resolver
	symbols  *symbol.Resolver

	timeout   time.Duration
	newsLimit int
}

func NewOrchestrator(executor *stage.Executor, resolver *fallback.Resolver, symbols *symbol.Resolver) *Orchestrator {
	return &Orchestrator{
		executor:  executor,
		resolver:  resolver,
		symbols:   symbols,
		timeout:   DefaultTimeout,
		newsLimit: DefaultNewsLimit,
	}
}

// SetTimeout overrides the wrapping request deadline.
func (o *Orchestrator) SetTimeout(d time.Duration) { o.timeout = d }

// Research runs the full pipeline for a company name. The returned response
// is always well formed: under total provider failure it is the structured
// error shape, under timeout it is the timeout shape plus ErrTimeout so the
// transport layer can map it to the right status.
func (o *Orchestrator) Research(ctx context.Context, companyName string) (*models.ResearchResponse, error) {
	requestID := uuid.NewString()
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	log.Printf("[pipeline] %s: starting research for %q", requestID, companyName)
	start := time.Now()

	ticker := o.symbols.Resolve(ctx, companyName)
	log.Printf("[pipeline] %s: resolved %q -> %s", requestID, companyName, ticker)

	// Stage 1: Plan.
	plan := o.plan(ctx, companyName, ticker)
	if err := o.deadline(ctx); err != nil {
		return o.timeoutResponse(companyName, requestID), err
	}

	// Stage 2: Gather. Financial and news resolution are independent and
	// run concurrently; both must settle before the stage returns.
	record, gatherErr := o.gather(ctx, companyName, ticker)
	if err := o.deadline(ctx); err != nil {
		return o.timeoutResponse(companyName, requestID), err
	}
	if gatherErr != nil {
		log.Printf("[pipeline] %s: gather failed fatally: %v", requestID, gatherErr)
		return ErrorResponse(companyName, requestID, gatherErr), nil
	}

	// Stage 3: Analyze.
	analysis := o.analyze(ctx, record, plan)
	if err := o.deadline(ctx); err != nil {
		return o.timeoutResponse(companyName, requestID), err
	}

	// Stage 4: AssessRisk.
	risks := o.assessRisk(ctx, record, analysis)
	if err := o.deadline(ctx); err != nil {
		return o.timeoutResponse(companyName, requestID), err
	}

	// Stage 5: Report.
	report := o.report(ctx, record, analysis, risks)

	log.Printf("[pipeline] %s: completed in %v", requestID, time.Since(start).Round(time.Millisecond))
	return &models.ResearchResponse{
		CompanyName:       report.CompanyName,
		Overview:          report.Overview,
		FinancialMetrics:  report.FinancialMetrics,
		PotentialRisks:    report.PotentialRisks,
		Sources:           report.Sources,
		CompanyInfo:       record.CompanyInfo,
		FinancialData:     record.FinancialData,
		MarketData:        record.MarketData,
		NewsData:          record.NewsItems,
		FinancialAnalysis: analysis,
		RequestID:         requestID,
	}, nil
}

func (o *Orchestrator) deadline(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	return nil
}

func (o *Orchestrator) timeoutResponse(companyName string, requestID string) *models.ResearchResponse {
	resp := ErrorResponse(companyName, requestID, ErrTimeout)
	resp.Overview = "Research request timed out before completing. Please try again later."
	return resp
}

func (o *Orchestrator) plan(ctx context.Context, companyName string, ticker string) models.ResearchPlan {
	user, system, err := prompt.Render(prompt.PromptIDs.ResearchPlan,
		prompt.NewContext().Set("CompanyName", companyName).Set("Ticker", ticker))
	if err != nil {
		log.Printf("[pipeline] plan: prompt render failed: %v", err)
		return DefaultPlan()
	}

	data, err := o.executor.Execute(ctx, "plan", user, system, planSchema)
	if err != nil {
		log.Printf("[pipeline] plan: using default plan: %v", err)
		return DefaultPlan()
	}
	return models.ResearchPlan{
		FinancialMetrics: stage.StrList(data, "financial_metrics"),
		NewsCategories:   stage.StrList(data, "news_categories"),
		RiskFactors:      stage.StrList(data, "risk_factors"),
		MarketPosition:   stage.StrList(data, "market_position"),
	}
}

// gather resolves financial data and news concurrently and normalizes the
// result into the canonical record. A capability with every provider
// exhausted degrades to sentinel content; the stage fails fatally only when
// both capabilities are exhausted.
func (o *Orchestrator) gather(ctx context.Context, companyName string, ticker string) (models.CanonicalRecord, error) {
	var (
		wg sync.WaitGroup

		raw        providers.RawRecord
		dataOrigin string
		dataErr    error

		articles []providers.RawArticle
		newsErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		raw, dataOrigin, dataErr = o.resolver.ResolveMarketData(ctx, ticker)
	}()
	go func() {
		defer wg.Done()
		articles, _, newsErr = o.resolver.ResolveNews(ctx, companyName, o.newsLimit)
	}()
	wg.Wait()

	if dataErr != nil && newsErr != nil {
		return models.CanonicalRecord{}, fmt.Errorf("all providers failed: financial: %w; news: %v", dataErr, newsErr)
	}
	if dataErr != nil {
		log.Printf("[pipeline] gather: financial data unavailable, continuing with sentinels: %v", dataErr)
		record := models.EmptyRecord(companyName, ticker)
		record.NewsItems = normalize.News(articles, o.newsLimit)
		return record, nil
	}
	if newsErr != nil {
		log.Printf("[pipeline] gather: news unavailable, continuing without articles: %v", newsErr)
		articles = nil
	}

	return normalize.Record(companyName, ticker, dataOrigin, raw, articles), nil
}

func (o *Orchestrator) analyze(ctx context.Context, record models.CanonicalRecord, plan models.ResearchPlan) models.FinancialAnalysis {
	user, system, err := prompt.Render(prompt.PromptIDs.ResearchAnalyze,
		prompt.NewContext().
			Set("CompanyName", record.CompanyInfo.Name).
			Set("Ticker", record.CompanyInfo.Ticker).
			Set("FocusAreas", strings.Join(append(plan.FinancialMetrics, plan.MarketPosition...), ", ")).
			Set("FinancialData", renderJSON(record.FinancialData, record.MarketData)))
	if err != nil {
		log.Printf("[pipeline] analyze: prompt render failed: %v", err)
		return DefaultAnalysis()
	}

	data, err := o.executor.Execute(ctx, "analyze", user, system, analysisSchema)
	if err != nil {
		log.Printf("[pipeline] analyze: using default analysis: %v", err)
		return DefaultAnalysis()
	}
	return models.FinancialAnalysis{
		FinancialHealth:    stage.Str(data, "financial_health"),
		MarketPosition:     stage.Str(data, "market_position"),
		GrowthPotential:    stage.Str(data, "growth_potential"),
		KeyMetricsAnalysis: stage.Str(data, "key_metrics_analysis"),
	}
}

func (o *Orchestrator) assessRisk(ctx context.Context, record models.CanonicalRecord, analysis models.FinancialAnalysis) models.RiskAssessment {
	user, system, err := prompt.Render(prompt.PromptIDs.ResearchRisk,
		prompt.NewContext().
			Set("CompanyName", record.CompanyInfo.Name).
			Set("Ticker", record.CompanyInfo.Ticker).
			Set("FinancialData", renderJSON(record.FinancialData, record.MarketData)).
			Set("NewsData", renderHeadlines(record.NewsItems)).
			Set("Analysis", renderJSON(analysis)))
	if err != nil {
		log.Printf("[pipeline] risk: prompt render failed: %v", err)
		return DefaultRisks()
	}

	data, err := o.executor.Execute(ctx, "risk", user, system, riskSchema)
	if err != nil {
		log.Printf("[pipeline] risk: using default risks: %v", err)
		return DefaultRisks()
	}
	risks := stage.StrList(data, "risks")
	if len(risks) == 0 {
		return DefaultRisks()
	}
	return models.RiskAssessment{Risks: risks}
}

func (o *Orchestrator) report(ctx context.Context, record models.CanonicalRecord, analysis models.FinancialAnalysis, risks models.RiskAssessment) models.Report {
	user, system, err := prompt.Render(prompt.PromptIDs.ResearchReport,
		prompt.NewContext().
			Set("CompanyName", record.CompanyInfo.Name).
			Set("Ticker", record.CompanyInfo.Ticker).
			Set("FinancialData", renderJSON(record.FinancialData, record.MarketData)).
			Set("NewsData", renderHeadlines(record.NewsItems)).
			Set("Analysis", renderJSON(analysis)).
			Set("Risks", strings.Join(risks.Risks, "; ")))
	if err != nil {
		log.Printf("[pipeline] report: prompt render failed: %v", err)
		return FallbackReport(record, risks)
	}

	data, err := o.executor.Execute(ctx, "report", user, system, reportSchema)
	if err != nil {
		log.Printf("[pipeline] report: using fallback report: %v", err)
		return FallbackReport(record, risks)
	}

	metrics, convErr := stage.AsStringMap(data["financial_metrics"])
	if convErr != nil {
		metrics = FallbackReport(record, risks).FinancialMetrics
	}
	report := models.Report{
		CompanyName:      stage.Str(data, "company_name"),
		Overview:         stage.Str(data, "overview"),
		FinancialMetrics: metrics,
		PotentialRisks:   stage.StrList(data, "potential_risks"),
		Sources:          stage.StrList(data, "sources"),
	}
	// The backend sometimes rewrites the company name; keep the caller's.
	if report.CompanyName == "" || !strings.EqualFold(report.CompanyName, record.CompanyInfo.Name) {
		report.CompanyName = record.CompanyInfo.Name
	}
	if len(report.PotentialRisks) == 0 {
		report.PotentialRisks = risks.Risks
	}
	if len(report.Sources) == 0 {
		for _, article := range record.NewsItems {
			if article.URL != "" {
				report.Sources = append(report.Sources, article.URL)
			}
		}
	}
	return report
}

// renderJSON marshals the given values as one indented JSON document for
// prompt embedding. Marshal cannot fail for these plain model structs.
func renderJSON(values ...interface{}) string {
	var parts []string
	for _, v := range values {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			continue
		}
		parts = append(parts, string(b))
	}
	return strings.Join(parts, "\n")
}

func renderHeadlines(news []models.NewsItem) string {
	if len(news) == 0 {
		return "No recent news available."
	}
	var b strings.Builder
	for _, item := range news {
		fmt.Fprintf(&b, "- %s (%s)\n", item.Title, item.Source)
	}
	return b.String()
}

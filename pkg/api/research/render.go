package research

import (
	"fmt"
	"sort"
	"strings"

	"company_research/pkg/core/utils"
	"company_research/pkg/models"
)

// RenderReportHTML turns a research response into a standalone HTML
// fragment via the shared markdown renderer.
func RenderReportHTML(resp *models.ResearchResponse) (string, error) {
	return utils.RenderHTML(reportMarkdown(resp))
}

func reportMarkdown(resp *models.ResearchResponse) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s Research Report\n\n", resp.CompanyName)
	fmt.Fprintf(&b, "%s\n\n", resp.Overview)

	b.WriteString("## Financial Metrics\n\n")
	if len(resp.FinancialMetrics) == 0 {
		b.WriteString("No financial metrics available.\n\n")
	} else {
		keys := make([]string, 0, len(resp.FinancialMetrics))
		for k := range resp.FinancialMetrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- **%s**: %s\n", strings.ReplaceAll(k, "_", " "), resp.FinancialMetrics[k])
		}
		b.WriteString("\n")
	}

	b.WriteString("## Analysis\n\n")
	fmt.Fprintf(&b, "**Financial Health**: %s\n\n", resp.FinancialAnalysis.FinancialHealth)
	fmt.Fprintf(&b, "**Market Position**: %s\n\n", resp.FinancialAnalysis.MarketPosition)
	fmt.Fprintf(&b, "**Growth Potential**: %s\n\n", resp.FinancialAnalysis.GrowthPotential)
	fmt.Fprintf(&b, "**Key Metrics**: %s\n\n", resp.FinancialAnalysis.KeyMetricsAnalysis)

	b.WriteString("## Potential Risks\n\n")
	for _, risk := range resp.PotentialRisks {
		fmt.Fprintf(&b, "- %s\n", risk)
	}
	b.WriteString("\n")

	if len(resp.NewsData) > 0 {
		b.WriteString("## Recent News\n\n")
		for _, item := range resp.NewsData {
			if item.URL != "" {
				fmt.Fprintf(&b, "- [%s](%s) (%s)\n", item.Title, item.URL, item.Source)
			} else {
				fmt.Fprintf(&b, "- %s (%s)\n", item.Title, item.Source)
			}
		}
		b.WriteString("\n")
	}

	if len(resp.Sources) > 0 {
		b.WriteString("## Sources\n\n")
		for _, src := range resp.Sources {
			fmt.Fprintf(&b, "- %s\n", src)
		}
	}

	return b.String()
}

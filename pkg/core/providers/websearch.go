package providers

import (
	"context"
	"fmt"
	"net/url"
)

const WebSearchStubName = "websearch-stub"

// WebSearchStub is the last-resort news source. It never fails: it returns a
// single deterministic pointer to an external news search so the pipeline
// always has at least one source to cite.
type WebSearchStub struct{}

var _ NewsProvider = (*WebSearchStub)(nil)

func NewWebSearchStub() *WebSearchStub { return &WebSearchStub{} }

func (s *WebSearchStub) Name() string { return WebSearchStubName }

func (s *WebSearchStub) SearchNews(ctx context.Context, query string, limit int) ([]RawArticle, error) {
	return []RawArticle{
		{
			Title:       fmt.Sprintf("Recent news coverage for %s", query),
			Description: "Live news sources were unavailable. See external news search for the latest coverage.",
			URL:         "https://news.google.com/search?q=" + url.QueryEscape(query),
			Source:      "web search",
		},
	}, nil
}

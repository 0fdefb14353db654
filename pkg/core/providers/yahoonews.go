package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const YahooNewsName = "yahoo-news"

var yahooNewsBaseURL = "https://news.search.yahoo.com/search"

// YahooNewsClient is the secondary news source: a headline scrape of Yahoo
// News search results. Best effort only; layout changes degrade it to an
// empty-payload failure, which sends the resolver to the next provider.
type YahooNewsClient struct {
	baseURL string
	client  *http.Client
}

var _ NewsProvider = (*YahooNewsClient)(nil)

func NewYahooNewsClient() *YahooNewsClient {
	return &YahooNewsClient{baseURL: yahooNewsBaseURL, client: http.DefaultClient}
}

// SetBaseURL overrides the search endpoint. Tests only.
func (c *YahooNewsClient) SetBaseURL(u string) { c.baseURL = u }

func (c *YahooNewsClient) Name() string { return YahooNewsName }

func (c *YahooNewsClient) SearchNews(ctx context.Context, query string, limit int) ([]RawArticle, error) {
	if limit <= 0 || limit > 5 {
		limit = 5
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?p="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko)")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo news request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("yahoo news: %w", ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo news: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo news: malformed page: %v", err)
	}

	var articles []RawArticle
	doc.Find("div.NewsArticle").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		link := s.Find("h4 a").First()
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		if title == "" || href == "" {
			return true
		}
		articles = append(articles, RawArticle{
			Title:       title,
			Description: strings.TrimSpace(s.Find("p").First().Text()),
			URL:         href,
			PublishedAt: strings.TrimSpace(s.Find("span.fc-2nd").First().Text()),
			Source:      strings.TrimSpace(s.Find("span.s-source").First().Text()),
		})
		return len(articles) < limit
	})

	if len(articles) == 0 {
		return nil, fmt.Errorf("yahoo news: no headlines for %q: %w", query, ErrEmptyPayload)
	}
	return articles, nil
}

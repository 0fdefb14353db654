package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
)

const NewsAPIName = "newsapi"

var newsAPIBaseURL = "https://newsapi.org/v2/everything"

// NewsAPIClient is the primary news provider (newsapi.org keyword search).
type NewsAPIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ NewsProvider = (*NewsAPIClient)(nil)

func NewNewsAPIClient(apiKey string) *NewsAPIClient {
	if apiKey == "" {
		apiKey = os.Getenv("NEWS_API_KEY")
	}
	return &NewsAPIClient{
		apiKey:  apiKey,
		baseURL: newsAPIBaseURL,
		client:  http.DefaultClient,
	}
}

// SetBaseURL overrides the API endpoint. Tests only.
func (c *NewsAPIClient) SetBaseURL(u string) { c.baseURL = u }

func (c *NewsAPIClient) Name() string { return NewsAPIName }

func (c *NewsAPIClient) SearchNews(ctx context.Context, query string, limit int) ([]RawArticle, error) {
	if limit <= 0 || limit > 5 {
		limit = 5
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("language", "en")
	q.Set("sortBy", "relevancy")
	q.Set("pageSize", fmt.Sprintf("%d", limit))
	q.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("newsapi: %w", ErrRateLimited)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Status   string `json:"status"`
		Code     string `json:"code"`
		Message  string `json:"message"`
		Articles []struct {
			Source struct {
				Name string `json:"name"`
			} `json:"source"`
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
			PublishedAt string `json:"publishedAt"`
		} `json:"articles"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("newsapi: malformed payload: %v", err)
	}

	if parsed.Status == "error" {
		if parsed.Code == "rateLimited" {
			return nil, fmt.Errorf("newsapi: %w", ErrRateLimited)
		}
		return nil, fmt.Errorf("newsapi error %s: %s", parsed.Code, parsed.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi: status %d", resp.StatusCode)
	}

	if len(parsed.Articles) == 0 {
		return nil, fmt.Errorf("newsapi: %w", ErrEmptyPayload)
	}

	articles := make([]RawArticle, 0, limit)
	for _, a := range parsed.Articles {
		if len(articles) == limit {
			break
		}
		articles = append(articles, RawArticle{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
			Source:      a.Source.Name,
		})
	}
	return articles, nil
}

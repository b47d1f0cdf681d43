package live

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/seo-optimizer/insights/analyzer"
)

const DefaultCustomSearchEndpoint = "https://www.googleapis.com/customsearch/v1"

// CustomSearchConfig configures a CustomSearchClient
type CustomSearchConfig struct {
	Endpoint string
	APIKey   string
	EngineID string
}

// CustomSearchClient queries a Custom Search style JSON API
type CustomSearchClient struct {
	cfg       CustomSearchConfig
	client    *http.Client
	userAgent string
}

func NewCustomSearchClient(cfg CustomSearchConfig, client *http.Client) (*CustomSearchClient, error) {
	if cfg.APIKey == "" || cfg.EngineID == "" {
		return nil, fmt.Errorf("custom search: %w", ErrNotConfigured)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultCustomSearchEndpoint
	}
	if client == nil {
		client = NewHTTPClient(DefaultHTTPConfig())
	}
	return &CustomSearchClient{cfg: cfg, client: client, userAgent: DefaultHTTPConfig().UserAgent}, nil
}

type customSearchPayload struct {
	SearchInformation *struct {
		TotalResults string `json:"totalResults"`
	} `json:"searchInformation"`
	Items []struct {
		Title       string `json:"title"`
		DisplayLink string `json:"displayLink"`
		Link        string `json:"link"`
	} `json:"items"`
}

// Search implements analyzer.KeywordSearcher
func (c *CustomSearchClient) Search(ctx context.Context, keyword string) (*analyzer.SearchResponse, error) {
	q := url.Values{}
	q.Set("key", c.cfg.APIKey)
	q.Set("cx", c.cfg.EngineID)
	q.Set("q", keyword)

	body, err := fetch(ctx, c.client, c.userAgent, c.cfg.Endpoint+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("custom search: %w", err)
	}
	return decodeCustomSearch(body)
}

func decodeCustomSearch(body []byte) (*analyzer.SearchResponse, error) {
	var payload customSearchPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("custom search: decode: %v: %w", err, analyzer.ErrMalformedPayload)
	}

	resp := &analyzer.SearchResponse{Items: make([]analyzer.SearchItem, 0, len(payload.Items))}
	if payload.SearchInformation != nil {
		// totalResults arrives as a decimal string; an unparseable value is
		// treated as unknown
		if n, err := strconv.ParseInt(strings.TrimSpace(payload.SearchInformation.TotalResults), 10, 64); err == nil && n > 0 {
			resp.TotalResults = n
		}
	}
	for _, it := range payload.Items {
		resp.Items = append(resp.Items, analyzer.SearchItem{
			Title:       it.Title,
			DisplayLink: it.DisplayLink,
			Link:        it.Link,
		})
	}
	return resp, nil
}

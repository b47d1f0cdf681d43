package live

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/seo-optimizer/insights/analyzer"
)

// HTMLSearchConfig describes how to query and scrape an HTML results page
type HTMLSearchConfig struct {
	Endpoint   string // results page, the keyword is sent as QueryParam
	QueryParam string
	MaxItems   int

	ResultSelector  string
	TitleSelector   string
	LinkSelector    string
	DisplaySelector string
	// TotalSelector points at an element whose text holds the total result
	// count, e.g. "About 1,230,000 results". Optional.
	TotalSelector string
}

// DefaultHTMLSearchConfig targets the DuckDuckGo HTML endpoint
func DefaultHTMLSearchConfig() HTMLSearchConfig {
	return HTMLSearchConfig{
		Endpoint:        "https://html.duckduckgo.com/html/",
		QueryParam:      "q",
		MaxItems:        10,
		ResultSelector:  ".result",
		TitleSelector:   ".result__title",
		LinkSelector:    "a.result__a",
		DisplaySelector: ".result__url",
	}
}

// HTMLSearchClient scrapes an HTML results page with goquery
type HTMLSearchClient struct {
	cfg       HTMLSearchConfig
	client    *http.Client
	userAgent string
}

func NewHTMLSearchClient(cfg HTMLSearchConfig, client *http.Client) (*HTMLSearchClient, error) {
	def := DefaultHTMLSearchConfig()
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("html search: %w", ErrNotConfigured)
	}
	if cfg.QueryParam == "" {
		cfg.QueryParam = def.QueryParam
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = def.MaxItems
	}
	if cfg.ResultSelector == "" {
		cfg.ResultSelector = def.ResultSelector
		cfg.TitleSelector = def.TitleSelector
		cfg.LinkSelector = def.LinkSelector
		cfg.DisplaySelector = def.DisplaySelector
	}
	if client == nil {
		client = NewHTTPClient(DefaultHTTPConfig())
	}
	return &HTMLSearchClient{cfg: cfg, client: client, userAgent: DefaultHTTPConfig().UserAgent}, nil
}

// Search implements analyzer.KeywordSearcher
func (c *HTMLSearchClient) Search(ctx context.Context, keyword string) (*analyzer.SearchResponse, error) {
	q := url.Values{}
	q.Set(c.cfg.QueryParam, keyword)

	sep := "?"
	if strings.Contains(c.cfg.Endpoint, "?") {
		sep = "&"
	}
	body, err := fetch(ctx, c.client, c.userAgent, c.cfg.Endpoint+sep+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("html search: %w", err)
	}
	return c.parse(body)
}

func (c *HTMLSearchClient) parse(body []byte) (*analyzer.SearchResponse, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("html search: parse: %v: %w", err, analyzer.ErrMalformedPayload)
	}

	resp := &analyzer.SearchResponse{}
	if c.cfg.TotalSelector != "" {
		resp.TotalResults = parseCount(doc.Find(c.cfg.TotalSelector).First().Text())
	}

	doc.Find(c.cfg.ResultSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		title := collapse(s.Find(c.cfg.TitleSelector).First().Text())
		if title == "" {
			return true
		}
		item := analyzer.SearchItem{
			Title: title,
			Link:  strings.TrimSpace(s.Find(c.cfg.LinkSelector).First().AttrOr("href", "")),
		}
		if c.cfg.DisplaySelector != "" {
			item.DisplayLink = collapse(s.Find(c.cfg.DisplaySelector).First().Text())
		}
		if item.DisplayLink == "" && item.Link != "" {
			if u, err := url.Parse(item.Link); err == nil {
				item.DisplayLink = u.Host
			}
		}
		resp.Items = append(resp.Items, item)
		return len(resp.Items) < c.cfg.MaxItems
	})
	return resp, nil
}

var digitRun = regexp.MustCompile(`\d[\d,.\s]*`)

// parseCount extracts the first number from text like "About 1,230,000 results"
func parseCount(text string) int64 {
	m := digitRun.FindString(text)
	if m == "" {
		return 0
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, m)
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

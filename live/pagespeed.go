package live

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/seo-optimizer/insights/analyzer"
)

const DefaultPageSpeedEndpoint = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

var pageSpeedCategories = []string{"performance", "seo", "accessibility", "best-practices"}

// PageSpeedConfig configures a PageSpeedClient
type PageSpeedConfig struct {
	Endpoint string
	APIKey   string
	Strategy string // mobile or desktop
}

// PageSpeedClient measures a site through a PageSpeed Insights style API
type PageSpeedClient struct {
	cfg       PageSpeedConfig
	client    *http.Client
	userAgent string
}

// NewPageSpeedClient returns a client, or ErrNotConfigured when no API key is set
func NewPageSpeedClient(cfg PageSpeedConfig, client *http.Client) (*PageSpeedClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("pagespeed: %w", ErrNotConfigured)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultPageSpeedEndpoint
	}
	if cfg.Strategy == "" {
		cfg.Strategy = "mobile"
	}
	if client == nil {
		client = NewHTTPClient(DefaultHTTPConfig())
	}
	return &PageSpeedClient{cfg: cfg, client: client, userAgent: DefaultHTTPConfig().UserAgent}, nil
}

type pageSpeedPayload struct {
	LighthouseResult *struct {
		Categories map[string]struct {
			Score *float64 `json:"score"`
		} `json:"categories"`
		Audits map[string]struct {
			Title        string   `json:"title"`
			Score        *float64 `json:"score"`
			NumericValue *float64 `json:"numericValue"`
			DisplayValue string   `json:"displayValue"`
		} `json:"audits"`
	} `json:"lighthouseResult"`
}

// Measure implements analyzer.SiteMeasurer
func (c *PageSpeedClient) Measure(ctx context.Context, target string) (*analyzer.MeasurementReport, error) {
	q := url.Values{}
	q.Set("url", target)
	q.Set("strategy", c.cfg.Strategy)
	q.Set("key", c.cfg.APIKey)
	for _, cat := range pageSpeedCategories {
		q.Add("category", cat)
	}

	body, err := fetch(ctx, c.client, c.userAgent, c.cfg.Endpoint+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("pagespeed: %w", err)
	}
	return decodePageSpeed(body)
}

func decodePageSpeed(body []byte) (*analyzer.MeasurementReport, error) {
	var payload pageSpeedPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("pagespeed: decode: %v: %w", err, analyzer.ErrMalformedPayload)
	}
	if payload.LighthouseResult == nil {
		return nil, fmt.Errorf("pagespeed: missing lighthouseResult: %w", analyzer.ErrMalformedPayload)
	}

	lr := payload.LighthouseResult
	report := &analyzer.MeasurementReport{
		Categories: analyzer.CategoryFractions{
			SEO:           lr.Categories["seo"].Score,
			Performance:   lr.Categories["performance"].Score,
			Accessibility: lr.Categories["accessibility"].Score,
			BestPractices: lr.Categories["best-practices"].Score,
		},
		Audits: make(map[string]analyzer.Audit, len(lr.Audits)),
	}
	for id, a := range lr.Audits {
		report.Audits[id] = analyzer.Audit{
			Title:        a.Title,
			Score:        a.Score,
			NumericValue: a.NumericValue,
			DisplayValue: a.DisplayValue,
		}
	}
	return report, nil
}

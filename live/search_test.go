package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seo-optimizer/insights/analyzer"
)

func TestCustomSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "k", q.Get("key"))
		assert.Equal(t, "cx1", q.Get("cx"))
		assert.Equal(t, "seo tools", q.Get("q"))
		_, _ = w.Write([]byte(`{
			"searchInformation": {"totalResults": "1000000"},
			"items": [
				{"title": "Free SEO Tools Compared", "displayLink": "moz.com", "link": "https://moz.com/tools"},
				{"title": "", "displayLink": "empty.com"}
			]
		}`))
	}))
	defer srv.Close()

	c, err := NewCustomSearchClient(CustomSearchConfig{Endpoint: srv.URL, APIKey: "k", EngineID: "cx1"}, srv.Client())
	require.NoError(t, err)

	resp, err := c.Search(context.Background(), "seo tools")
	require.NoError(t, err)
	assert.EqualValues(t, 1_000_000, resp.TotalResults)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "moz.com", resp.Items[0].DisplayLink)

	report, err := analyzer.New(analyzer.WithKeywordSearcher(c)).AnalyzeKeyword(context.Background(), "seo tools")
	require.NoError(t, err)
	assert.Equal(t, analyzer.SourceLive, report.Source)
	assert.Equal(t, 1000, report.Primary.Volume)
}

func TestCustomSearchBadTotal(t *testing.T) {
	resp, err := decodeCustomSearch([]byte(`{"searchInformation": {"totalResults": "lots"}, "items": []}`))
	require.NoError(t, err)
	assert.Zero(t, resp.TotalResults)
	assert.Empty(t, resp.Items)

	_, err = decodeCustomSearch([]byte(`not json`))
	assert.ErrorIs(t, err, analyzer.ErrMalformedPayload)

	_, err = NewCustomSearchClient(CustomSearchConfig{APIKey: "k"}, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

const resultsPage = `<html><body>
<div id="stats">About 12,400 results</div>
<div class="result">
  <h2 class="result__title"><a class="result__a" href="https://ahrefs.com/blog/rank-tracker">Rank Tracker   Review</a></h2>
  <span class="result__url"> ahrefs.com </span>
</div>
<div class="result">
  <h2 class="result__title"></h2>
</div>
<div class="result">
  <h2 class="result__title"><a class="result__a" href="https://example.org/seo">Local SEO Basics</a></h2>
</div>
</body></html>`

func TestHTMLSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "seo", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(resultsPage))
	}))
	defer srv.Close()

	cfg := DefaultHTMLSearchConfig()
	cfg.Endpoint = srv.URL
	cfg.TotalSelector = "#stats"
	c, err := NewHTMLSearchClient(cfg, srv.Client())
	require.NoError(t, err)

	resp, err := c.Search(context.Background(), "seo")
	require.NoError(t, err)
	assert.EqualValues(t, 12400, resp.TotalResults)
	assert.Equal(t, []analyzer.SearchItem{
		{Title: "Rank Tracker Review", DisplayLink: "ahrefs.com", Link: "https://ahrefs.com/blog/rank-tracker"},
		{Title: "Local SEO Basics", DisplayLink: "example.org", Link: "https://example.org/seo"},
	}, resp.Items)
}

func TestHTMLSearchMaxItems(t *testing.T) {
	cfg := DefaultHTMLSearchConfig()
	cfg.MaxItems = 1
	c, err := NewHTMLSearchClient(cfg, nil)
	require.NoError(t, err)

	resp, err := c.parse([]byte(resultsPage))
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Zero(t, resp.TotalResults)
}

func TestParseCount(t *testing.T) {
	assert.EqualValues(t, 1230000, parseCount("About 1,230,000 results"))
	assert.EqualValues(t, 0, parseCount("No results"))
	assert.EqualValues(t, 42, parseCount("42"))
}

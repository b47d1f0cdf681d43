package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/seo-optimizer/insights/analyzer"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	missing := filepath.Join(t.TempDir(), "none.env")
	root.SetArgs(append(args, "--env-file", missing))
	err := root.Execute()
	return out.String(), err
}

func TestAnalyzeJSON(t *testing.T) {
	out, err := run(t, "analyze", "example.com", "--output", "json")
	require.NoError(t, err)

	var res analyzer.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "https://example.com", res.URL)
	assert.Equal(t, analyzer.SourceSimulated, res.Source)

	want, err := analyzer.New().Simulate("example.com")
	require.NoError(t, err)
	assert.Equal(t, want.Scores, res.Scores)
}

func TestAnalyzeText(t *testing.T) {
	out, err := run(t, "analyze", "http://my-shop-site.info/a/b/c/d")
	require.NoError(t, err)
	assert.Contains(t, out, "http://my-shop-site.info/a/b/c/d  (simulated)")
	assert.Contains(t, out, "[critical] No HTTPS implementation")
	assert.Contains(t, out, "Recommendations")
}

func TestAnalyzeInvalid(t *testing.T) {
	_, err := run(t, "analyze", "ftp://example.com")
	assert.ErrorIs(t, err, analyzer.ErrInvalidInput)

	_, err = run(t, "analyze", "example.com", "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestKeywordsYAML(t *testing.T) {
	out, err := run(t, "keywords", "seo", "tools", "-o", "yaml")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "source: simulated\n"), out)

	var decoded struct {
		Primary struct {
			Keyword string `yaml:"keyword"`
		} `yaml:"primary"`
		Related []map[string]any `yaml:"related"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "seo tools", decoded.Primary.Keyword)
	assert.LessOrEqual(t, len(decoded.Related), analyzer.MaxRelatedKeywords)
}

func TestKeywordsText(t *testing.T) {
	out, err := run(t, "keywords", "best running shoes")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[2], "best running shoes")
}

func TestToYAMLKeepsFieldOrder(t *testing.T) {
	data, err := toYAML(struct {
		B int    `json:"b"`
		A string `json:"a"`
	}{B: 1, A: "x"})
	require.NoError(t, err)
	assert.Equal(t, "b: 1\na: x\n", string(data))
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/seo-optimizer/insights/analyzer"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func validOutput(format string) error {
	switch format {
	case outputText, outputJSON, outputYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
}

// toYAML renders v with its JSON field names and order
func toYAML(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	resetStyle(&node)
	return yaml.Marshal(&node)
}

func resetStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		resetStyle(c)
	}
}

func write(w io.Writer, format string, v any, text func(io.Writer)) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		data, err := toYAML(v)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		text(w)
		return nil
	}
}

func formatAnalysis(w io.Writer, res *analyzer.AnalysisResult) {
	fmt.Fprintf(w, "%s  (%s)\n", res.URL, res.Source)
	fmt.Fprintf(w, "  overall %d │ seo %d │ performance %d │ accessibility %d │ best practices %d\n",
		res.OverallScore, res.Scores.SEO, res.Scores.Performance, res.Scores.Accessibility, res.Scores.BestPractices)
	fmt.Fprintf(w, "  load %.1fs │ fcp %.1fs │ %d KB │ %d requests │ ttfb %dms\n",
		res.Metrics.LoadTime, res.Metrics.FirstContentfulPaint, res.Metrics.PageWeightKB, res.Metrics.Requests, res.Metrics.TimeToFirstByteMs)

	if len(res.Issues) > 0 {
		fmt.Fprintln(w, "\nIssues")
		for _, is := range res.Issues {
			fmt.Fprintf(w, "  [%s] %s (%s)\n", is.Severity, is.Text, is.Category)
		}
	}
	fmt.Fprintln(w, "\nRecommendations")
	for _, r := range res.Recommendations {
		fmt.Fprintf(w, "  - %s: %s\n", r.Title, r.Description)
	}
}

func formatKeywords(w io.Writer, report *analyzer.KeywordReport) {
	fmt.Fprintf(w, "%-32s %8s %10s %6s  %-8s %s   (%s)\n", "keyword", "volume", "difficulty", "cpc", "comp", "intent", report.Source)
	fmt.Fprintln(w, strings.Repeat("─", 80))
	for _, k := range report.Keywords() {
		fmt.Fprintf(w, "%-32s %8d %10d %6.2f  %-8s %s\n", k.Keyword, k.Volume, k.Difficulty, k.CPC, k.Competition, k.Intent)
	}
}

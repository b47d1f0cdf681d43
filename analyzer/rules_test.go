package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hasIssue(issues []Issue, text string, sev Severity) bool {
	for _, is := range issues {
		if is.Text == text && is.Severity == sev {
			return true
		}
	}
	return false
}

func issueTexts(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, is := range issues {
		out = append(out, is.Text)
	}
	return out
}

func TestDeriveIssues(t *testing.T) {
	t.Run("HTTPSHasNoHTTPSIssue", func(t *testing.T) {
		f := mustFeatures(t, "https://example.com")
		issues := DeriveIssues(ComputeScores(DeriveSeed(f.NormalizedURL), f), f)
		assert.NotContains(t, issueTexts(issues), IssueNoHTTPS)
	})

	t.Run("PlainHTTPIsCritical", func(t *testing.T) {
		f := mustFeatures(t, "http://my-shop-site.info/a/b/c/d")
		issues := DeriveIssues(ComputeScores(DeriveSeed(f.NormalizedURL), f), f)
		assert.True(t, hasIssue(issues, IssueNoHTTPS, SeverityCritical), "issues: %v", issueTexts(issues))
		assert.Equal(t, IssueNoHTTPS, issues[0].Text, "security rule is evaluated first")
		assert.Contains(t, issueTexts(issues), "Hyphenated domain name reduces brand recall")
		assert.Contains(t, issueTexts(issues), "URL is long or deeply nested")
		assert.Contains(t, issueTexts(issues), "Uncommon top-level domain")
	})

	t.Run("HealthySiteHasNoIssues", func(t *testing.T) {
		f := mustFeatures(t, "https://example.com")
		issues := DeriveIssues(URLScores{SEO: 95, Performance: 95, Accessibility: 95, BestPractices: 95}, f)
		assert.Empty(t, issues)
	})

	t.Run("ThresholdsAreExclusive", func(t *testing.T) {
		f := mustFeatures(t, "https://example.com")
		issues := DeriveIssues(URLScores{SEO: 40, Performance: 40, Accessibility: 95, BestPractices: 95}, f)
		assert.Equal(t, []string{"Slow page load time", "Missing meta description and title tags"}, issueTexts(issues))
		for _, is := range issues {
			assert.Equal(t, SeverityCritical, is.Severity)
		}
	})

	t.Run("StableOrder", func(t *testing.T) {
		f := mustFeatures(t, "http://my-shop-site.info/a/b/c/d")
		s := URLScores{SEO: 55, Performance: 60, Accessibility: 65, BestPractices: 60}
		assert.Equal(t, DeriveIssues(s, f), DeriveIssues(s, f))
	})
}

func TestDeriveRecommendations(t *testing.T) {
	t.Run("NeverEmpty", func(t *testing.T) {
		for _, raw := range sampleURLs {
			f := mustFeatures(t, raw)
			s := ComputeScores(DeriveSeed(f.NormalizedURL), f)
			recs := DeriveRecommendations(s, f, DeriveIssues(s, f))
			assert.NotEmpty(t, recs, raw)
		}
	})

	t.Run("DefaultWhenNothingFires", func(t *testing.T) {
		f := mustFeatures(t, "https://example.com")
		s := URLScores{SEO: 95, Performance: 95, Accessibility: 95, BestPractices: 95}
		recs := DeriveRecommendations(s, f, DeriveIssues(s, f))
		require.Len(t, recs, 1)
		assert.Equal(t, DefaultRecommendation, recs[0])
	})

	t.Run("Thresholds", func(t *testing.T) {
		f := mustFeatures(t, "http://example.com")
		s := URLScores{SEO: 90, Performance: 80, Accessibility: 90, BestPractices: 90}
		recs := DeriveRecommendations(s, f, nil)
		titles := make([]string, 0, len(recs))
		for _, r := range recs {
			titles = append(titles, r.Title)
		}
		assert.Equal(t, []string{"Enable HTTPS", "Optimize images"}, titles)
	})

	t.Run("CriticalIssuesFirst", func(t *testing.T) {
		f := mustFeatures(t, "http://example.com")
		s := URLScores{SEO: 40, Performance: 40, Accessibility: 40, BestPractices: 40}
		recs := DeriveRecommendations(s, f, DeriveIssues(s, f))
		require.GreaterOrEqual(t, len(recs), 2)
		assert.Equal(t, "Enable HTTPS", recs[0].Title)
		assert.Equal(t, "Fix critical issues first", recs[1].Title)
	})

	t.Run("NoDuplicates", func(t *testing.T) {
		f := mustFeatures(t, "http://my-shop-site.info/a/b/c/d/e/f")
		s := URLScores{SEO: 20, Performance: 20, Accessibility: 20, BestPractices: 20}
		seen := make(map[string]bool)
		for _, r := range DeriveRecommendations(s, f, DeriveIssues(s, f)) {
			assert.False(t, seen[r.Title], "duplicate %q", r.Title)
			seen[r.Title] = true
		}
	})
}

package analyzer

// Issue categories
const (
	CategorySEO           = "SEO"
	CategoryPerformance   = "Performance"
	CategoryAccessibility = "Accessibility"
	CategoryBestPractices = "Best Practices"
	CategorySecurity      = "Security"
	CategoryStructure     = "Structure"
)

// IssueNoHTTPS is emitted whenever the scheme is not https
const IssueNoHTTPS = "No HTTPS implementation"

type issueRule struct {
	applies func(URLScores, Features) bool
	issue   Issue
}

// issueRules are evaluated in order; output order follows this table.
// Rules within a category are mutually exclusive where they share a metric.
var issueRules = []issueRule{
	{
		applies: func(_ URLScores, f Features) bool { return !f.HasHTTPS },
		issue:   Issue{Severity: SeverityCritical, Text: IssueNoHTTPS, Category: CategorySecurity},
	},
	{
		applies: func(s URLScores, _ Features) bool { return s.Performance < 50 },
		issue:   Issue{Severity: SeverityCritical, Text: "Slow page load time", Category: CategoryPerformance},
	},
	{
		applies: func(s URLScores, _ Features) bool { return s.Performance >= 50 && s.Performance < 75 },
		issue:   Issue{Severity: SeverityWarning, Text: "Render-blocking resources delay first paint", Category: CategoryPerformance},
	},
	{
		applies: func(s URLScores, _ Features) bool { return s.SEO < 60 },
		issue:   Issue{Severity: SeverityCritical, Text: "Missing meta description and title tags", Category: CategorySEO},
	},
	{
		applies: func(s URLScores, _ Features) bool { return s.SEO >= 60 && s.SEO < 80 },
		issue:   Issue{Severity: SeverityWarning, Text: "Meta descriptions could be improved", Category: CategorySEO},
	},
	{
		applies: func(s URLScores, _ Features) bool { return s.Accessibility < 70 },
		issue:   Issue{Severity: SeverityWarning, Text: "Images missing alt attributes", Category: CategoryAccessibility},
	},
	{
		applies: func(s URLScores, _ Features) bool { return s.Accessibility >= 70 && s.Accessibility < 85 },
		issue:   Issue{Severity: SeverityInfo, Text: "Low color contrast on some elements", Category: CategoryAccessibility},
	},
	{
		applies: func(s URLScores, _ Features) bool { return s.BestPractices < 70 },
		issue:   Issue{Severity: SeverityWarning, Text: "Outdated JavaScript libraries detected", Category: CategoryBestPractices},
	},
	{
		applies: func(_ URLScores, f Features) bool { return f.HasDash },
		issue:   Issue{Severity: SeverityInfo, Text: "Hyphenated domain name reduces brand recall", Category: CategoryStructure},
	},
	{
		applies: func(_ URLScores, f Features) bool { return f.DomainLength > 20 },
		issue:   Issue{Severity: SeverityInfo, Text: "Domain name is long and hard to remember", Category: CategoryStructure},
	},
	{
		applies: func(_ URLScores, f Features) bool { return f.PathLength > 30 || f.PathDepth > 3 },
		issue:   Issue{Severity: SeverityInfo, Text: "URL is long or deeply nested", Category: CategoryStructure},
	},
	{
		applies: func(_ URLScores, f Features) bool { return f.TLDClass != TLDPremium },
		issue:   Issue{Severity: SeverityInfo, Text: "Uncommon top-level domain", Category: CategoryStructure},
	},
}

// DeriveIssues evaluates the issue rules against scores and features
func DeriveIssues(s URLScores, f Features) []Issue {
	issues := make([]Issue, 0, 4)
	for _, rule := range issueRules {
		if rule.applies(s, f) {
			issues = append(issues, rule.issue)
		}
	}
	return issues
}

type recommendationRule struct {
	applies        func(URLScores, Features, []Issue) bool
	recommendation Recommendation
}

// DefaultRecommendation is emitted when no other recommendation applies
var DefaultRecommendation = Recommendation{
	Title:       "Maintain current strategy",
	Description: "Your site performs well across all categories. Keep monitoring regularly to stay ahead.",
}

var recommendationRules = []recommendationRule{
	{
		applies: func(_ URLScores, f Features, _ []Issue) bool { return !f.HasHTTPS },
		recommendation: Recommendation{
			Title:       "Enable HTTPS",
			Description: "Install a TLS certificate and redirect all HTTP traffic to HTTPS to protect visitors and improve rankings.",
		},
	},
	{
		applies: func(_ URLScores, _ Features, issues []Issue) bool { return countSeverity(issues, SeverityCritical) > 1 },
		recommendation: Recommendation{
			Title:       "Fix critical issues first",
			Description: "Several critical problems were found. Resolve them before working on incremental improvements.",
		},
	},
	{
		applies: func(s URLScores, _ Features, _ []Issue) bool { return s.Performance < 85 },
		recommendation: Recommendation{
			Title:       "Optimize images",
			Description: "Compress images and serve modern formats such as WebP or AVIF to reduce page weight.",
		},
	},
	{
		applies: func(s URLScores, _ Features, _ []Issue) bool { return s.Performance < 70 },
		recommendation: Recommendation{
			Title:       "Minify CSS and JavaScript",
			Description: "Minify and defer non-critical assets to shorten the critical rendering path.",
		},
	},
	{
		applies: func(s URLScores, _ Features, _ []Issue) bool { return s.Performance < 60 },
		recommendation: Recommendation{
			Title:       "Enable browser caching",
			Description: "Set long cache lifetimes on static assets so repeat visits load faster.",
		},
	},
	{
		applies: func(s URLScores, _ Features, _ []Issue) bool { return s.SEO < 85 },
		recommendation: Recommendation{
			Title:       "Improve meta descriptions",
			Description: "Write unique, compelling meta descriptions between 120 and 160 characters for every page.",
		},
	},
	{
		applies: func(s URLScores, _ Features, _ []Issue) bool { return s.SEO < 75 },
		recommendation: Recommendation{
			Title:       "Add structured data",
			Description: "Mark up key content with schema.org structured data to qualify for rich results.",
		},
	},
	{
		applies: func(s URLScores, _ Features, _ []Issue) bool { return s.Accessibility < 85 },
		recommendation: Recommendation{
			Title:       "Add alt text to images",
			Description: "Describe every meaningful image with alt text and check color contrast ratios.",
		},
	},
	{
		applies: func(s URLScores, _ Features, _ []Issue) bool { return s.BestPractices < 80 },
		recommendation: Recommendation{
			Title:       "Update third-party libraries",
			Description: "Upgrade outdated JavaScript libraries and remove unused dependencies.",
		},
	},
	{
		applies: func(_ URLScores, f Features, _ []Issue) bool { return f.PathLength > 30 || f.PathDepth > 3 },
		recommendation: Recommendation{
			Title:       "Simplify URL structure",
			Description: "Use short, descriptive URLs with few nested segments.",
		},
	},
}

// DeriveRecommendations evaluates the recommendation rules. The result is
// de-duplicated by title and never empty.
func DeriveRecommendations(s URLScores, f Features, issues []Issue) []Recommendation {
	seen := make(map[string]bool, len(recommendationRules))
	recs := make([]Recommendation, 0, 4)
	for _, rule := range recommendationRules {
		if !rule.applies(s, f, issues) || seen[rule.recommendation.Title] {
			continue
		}
		seen[rule.recommendation.Title] = true
		recs = append(recs, rule.recommendation)
	}
	if len(recs) == 0 {
		recs = append(recs, DefaultRecommendation)
	}
	return recs
}

func countSeverity(issues []Issue, sev Severity) int {
	n := 0
	for _, is := range issues {
		if is.Severity == sev {
			n++
		}
	}
	return n
}

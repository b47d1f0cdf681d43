package analyzer

// Source tells whether a result came from a live collaborator or the seeded simulator
type Source string

const (
	SourceLive      Source = "live"
	SourceSimulated Source = "simulated"
)

// Severity tags an issue. URL analysis uses info/warning/critical, keyword
// competition uses low/medium/high.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"

	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// TLDClass groups top-level domains for scoring
type TLDClass string

const (
	TLDPremium TLDClass = "premium"
	TLDOther   TLDClass = "other"
)

// Features are the structural properties derived from a URL
type Features struct {
	NormalizedURL string   `json:"normalizedUrl"`
	Host          string   `json:"host"`
	Domain        string   `json:"domain"`
	DomainLength  int      `json:"domainLength"`
	HasDash       bool     `json:"hasDash"`
	HasWWW        bool     `json:"hasWww"`
	HasHTTPS      bool     `json:"hasHttps"`
	TLD           string   `json:"tld"`
	TLDClass      TLDClass `json:"tldClass"`
	PathLength    int      `json:"pathLength"`
	PathDepth     int      `json:"pathDepth"`
}

// KeywordFeatures are the structural properties derived from a keyword
type KeywordFeatures struct {
	Keyword           string   `json:"keyword"`
	Length            int      `json:"length"`
	WordCount         int      `json:"wordCount"`
	HasDigits         bool     `json:"hasDigits"`
	HasCommercialTerm bool     `json:"hasCommercialTerm"`
	CommercialTerms   []string `json:"commercialTerms,omitempty"`
}

// URLScores are the four headline category scores of a URL analysis
type URLScores struct {
	SEO           int `json:"seo"`
	Performance   int `json:"performance"`
	Accessibility int `json:"accessibility"`
	BestPractices int `json:"bestPractices"`
}

// Overall is the unweighted mean of the four categories
func (s URLScores) Overall() int {
	return (s.SEO + s.Performance + s.Accessibility + s.BestPractices + 2) / 4
}

// Issue is a detected problem produced by the rule engine
type Issue struct {
	Severity Severity `json:"severity"`
	Text     string   `json:"text"`
	Category string   `json:"category"`
}

// Recommendation is a suggested corrective action
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// PageMetrics are display metrics derived from the scores
type PageMetrics struct {
	LoadTime             float64 `json:"loadTime"`
	FirstContentfulPaint float64 `json:"firstContentfulPaint"`
	PageWeightKB         int     `json:"pageWeightKb"`
	Requests             int     `json:"requests"`
	TimeToFirstByteMs    int     `json:"timeToFirstByteMs"`
}

// AnalysisResult is the complete output of a URL analysis
type AnalysisResult struct {
	URL             string           `json:"url"`
	Source          Source           `json:"source"`
	Scores          URLScores        `json:"scores"`
	OverallScore    int              `json:"overallScore"`
	Issues          []Issue          `json:"issues"`
	Recommendations []Recommendation `json:"recommendations"`
	Metrics         PageMetrics      `json:"metrics"`
}

// KeywordMetrics are the search/competition estimates for one keyword
type KeywordMetrics struct {
	Keyword     string   `json:"keyword"`
	Volume      int      `json:"volume"`
	Difficulty  int      `json:"difficulty"`
	CPC         float64  `json:"cpc"`
	Competition Severity `json:"competition"`
	Intent      string   `json:"intent"`
}

// KeywordReport holds the primary keyword metrics plus up to four related terms
type KeywordReport struct {
	Source  Source           `json:"source"`
	Primary KeywordMetrics   `json:"primary"`
	Related []KeywordMetrics `json:"related"`
}

// Keywords flattens the report into the primary entry followed by the related ones
func (r *KeywordReport) Keywords() []KeywordMetrics {
	out := make([]KeywordMetrics, 0, len(r.Related)+1)
	out = append(out, r.Primary)
	return append(out, r.Related...)
}

// MeasurementReport is the partial payload of a live site-measurement call.
// Nil category fields and missing audits are legal and default to zero.
type MeasurementReport struct {
	Categories CategoryFractions `json:"categories"`
	Audits     map[string]Audit  `json:"audits"`
}

// CategoryFractions are category scores as 0-1 fractions
type CategoryFractions struct {
	SEO           *float64 `json:"seo,omitempty"`
	Performance   *float64 `json:"performance,omitempty"`
	Accessibility *float64 `json:"accessibility,omitempty"`
	BestPractices *float64 `json:"bestPractices,omitempty"`
}

func (c CategoryFractions) empty() bool {
	return c.SEO == nil && c.Performance == nil && c.Accessibility == nil && c.BestPractices == nil
}

// Audit is a single named audit of a live measurement
type Audit struct {
	Title        string   `json:"title,omitempty"`
	Score        *float64 `json:"score,omitempty"`
	NumericValue *float64 `json:"numericValue,omitempty"`
	DisplayValue string   `json:"displayValue,omitempty"`
	Details      []string `json:"details,omitempty"`
}

// SearchItem is one result of a live keyword search
type SearchItem struct {
	Title       string `json:"title"`
	DisplayLink string `json:"displayLink"`
	Link        string `json:"link,omitempty"`
}

// SearchResponse is the payload of a live keyword search
type SearchResponse struct {
	TotalResults int64        `json:"totalResults"`
	Items        []SearchItem `json:"items"`
}

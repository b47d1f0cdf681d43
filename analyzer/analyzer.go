package analyzer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
)

// SiteMeasurer is a live site-measurement collaborator
type SiteMeasurer interface {
	Measure(ctx context.Context, url string) (*MeasurementReport, error)
}

// KeywordSearcher is a live search collaborator
type KeywordSearcher interface {
	Search(ctx context.Context, keyword string) (*SearchResponse, error)
}

// Engine produces URL analyses and keyword metrics. It prefers a live
// collaborator when one is configured and falls back to the seeded simulator
// whenever the live attempt does not yield a usable payload.
//
// An Engine holds no mutable state and is safe for concurrent use.
type Engine struct {
	measurer SiteMeasurer
	searcher KeywordSearcher
	logger   *zap.Logger
	observer Observer
}

// Option configures an Engine
type Option func(*Engine)

// WithSiteMeasurer enables the live path for URL analysis
func WithSiteMeasurer(m SiteMeasurer) Option {
	return func(e *Engine) { e.measurer = m }
}

// WithKeywordSearcher enables the live path for keyword metrics
func WithKeywordSearcher(s KeywordSearcher) Option {
	return func(e *Engine) { e.searcher = s }
}

// WithLogger sets the logger used to report fallbacks
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver registers an observer for adapter transitions and failures
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// New creates a new Engine. Without options it always simulates.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:   zap.NewNop(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// HasLiveMeasurer reports whether a site-measurement collaborator is configured
func (e *Engine) HasLiveMeasurer() bool {
	return e.measurer != nil
}

// HasLiveSearcher reports whether a keyword search collaborator is configured
func (e *Engine) HasLiveSearcher() bool {
	return e.searcher != nil
}

// Simulate analyzes a URL on the seeded path only
func (e *Engine) Simulate(raw string) (*AnalysisResult, error) {
	f, err := ExtractFeatures(raw)
	if err != nil {
		return nil, err
	}
	return simulateURL(f), nil
}

func simulateURL(f Features) *AnalysisResult {
	seed := DeriveSeed(f.NormalizedURL)
	scores := ComputeScores(seed, f)
	issues := DeriveIssues(scores, f)
	return &AnalysisResult{
		URL:             f.NormalizedURL,
		Source:          SourceSimulated,
		Scores:          scores,
		OverallScore:    scores.Overall(),
		Issues:          issues,
		Recommendations: DeriveRecommendations(scores, f, issues),
		Metrics:         DeriveMetrics(seed, scores),
	}
}

// AnalyzeURL analyzes a URL. A live measurement is attempted once when a
// measurer is configured; any live failure, including cancellation of ctx,
// falls back to the simulated result. Only *InvalidInputError is returned.
func (e *Engine) AnalyzeURL(ctx context.Context, raw string) (*AnalysisResult, error) {
	f, err := ExtractFeatures(raw)
	if err != nil {
		return nil, err
	}

	r := newRun(InputURL, e.observer)
	if e.measurer != nil {
		r.to(StateAttempting)
		report, err := attemptLive(ctx, func(ctx context.Context) (*MeasurementReport, error) {
			return e.measurer.Measure(ctx, f.NormalizedURL)
		})
		if failure := checkMeasurement(report, err); failure != nil {
			e.logger.Warn("live measurement failed, using simulated analysis",
				zap.String("url", f.NormalizedURL),
				zap.String("reason", string(failure.Reason)),
				zap.Error(failure.Err))
			r.fail(failure)
		} else {
			r.to(StateSuccess)
			result := mapMeasurement(f, report)
			r.to(StateDone)
			return result, nil
		}
	}

	r.to(StateSimulated)
	result := simulateURL(f)
	r.to(StateDone)
	return result, nil
}

// SimulateKeyword estimates keyword metrics on the seeded path only
func (e *Engine) SimulateKeyword(keyword string) (*KeywordReport, error) {
	kf, err := ExtractKeywordFeatures(keyword)
	if err != nil {
		return nil, err
	}
	return simulateKeyword(kf), nil
}

func simulateKeyword(kf KeywordFeatures) *KeywordReport {
	seed := DeriveSeed(strings.ToLower(kf.Keyword))
	primary := ComputeKeywordMetrics(seed, kf)
	return &KeywordReport{
		Source:  SourceSimulated,
		Primary: primary,
		Related: RelatedMetrics(seed, primary, ExpandRelated(kf.Keyword, nil)),
	}
}

// AnalyzeKeyword estimates search metrics for a keyword and up to four
// related keywords, with the same live/simulated contract as AnalyzeURL.
func (e *Engine) AnalyzeKeyword(ctx context.Context, keyword string) (*KeywordReport, error) {
	kf, err := ExtractKeywordFeatures(keyword)
	if err != nil {
		return nil, err
	}

	r := newRun(InputKeyword, e.observer)
	if e.searcher != nil {
		r.to(StateAttempting)
		resp, err := attemptLive(ctx, func(ctx context.Context) (*SearchResponse, error) {
			return e.searcher.Search(ctx, kf.Keyword)
		})
		items, failure := checkSearch(resp, err)
		if failure != nil {
			e.logger.Warn("live keyword search failed, using simulated metrics",
				zap.String("keyword", kf.Keyword),
				zap.String("reason", string(failure.Reason)),
				zap.Error(failure.Err))
			r.fail(failure)
		} else {
			r.to(StateSuccess)
			report := mapSearch(kf, resp.TotalResults, items)
			r.to(StateDone)
			return report, nil
		}
	}

	r.to(StateSimulated)
	report := simulateKeyword(kf)
	r.to(StateDone)
	return report, nil
}

type outcome[T any] struct {
	val T
	err error
}

// attemptLive runs a single live call and returns as soon as either the call
// resolves or ctx is done. The call sees a derived context that is canceled
// on return, so an abandoned call does not stay outstanding.
func attemptLive[T any](ctx context.Context, call func(context.Context) (T, error)) (T, error) {
	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := make(chan outcome[T], 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				ch <- outcome[T]{err: fmt.Errorf("live collaborator panicked: %v", p)}
			}
		}()
		v, err := call(callCtx)
		ch <- outcome[T]{val: v, err: err}
	}()

	select {
	case o := <-ch:
		return o.val, o.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// temporary is implemented by collaborator errors that may clear on retry,
// such as rate limiting or a 5xx status
type temporary interface {
	Temporary() bool
}

func classify(kind InputKind, err error) *LiveAdapterFailure {
	reason := ReasonTransport
	var tmp temporary
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		reason = ReasonCanceled
	case errors.Is(err, ErrMalformedPayload):
		reason = ReasonMalformed
	case errors.As(err, &tmp) && tmp.Temporary():
		reason = ReasonUnavailable
	}
	return &LiveAdapterFailure{Kind: kind, Reason: reason, Err: err}
}

func checkMeasurement(report *MeasurementReport, err error) *LiveAdapterFailure {
	if err != nil {
		return classify(InputURL, err)
	}
	if report == nil || report.Categories.empty() {
		return &LiveAdapterFailure{Kind: InputURL, Reason: ReasonMalformed, Err: ErrMalformedPayload}
	}
	return nil
}

func checkSearch(resp *SearchResponse, err error) ([]SearchItem, *LiveAdapterFailure) {
	if err != nil {
		return nil, classify(InputKeyword, err)
	}
	if resp == nil {
		return nil, &LiveAdapterFailure{Kind: InputKeyword, Reason: ReasonMalformed, Err: ErrMalformedPayload}
	}
	items := make([]SearchItem, 0, len(resp.Items))
	for _, item := range resp.Items {
		if strings.TrimSpace(item.Title) == "" {
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, &LiveAdapterFailure{Kind: InputKeyword, Reason: ReasonNoData}
	}
	return items, nil
}

// liveAudit maps a named audit of a live measurement to an issue
type liveAudit struct {
	id       string
	text     string
	category string
}

// liveAudits are checked in this order. A missing audit counts as failed.
var liveAudits = []liveAudit{
	{id: "is-on-https", text: IssueNoHTTPS, category: CategorySecurity},
	{id: "document-title", text: "Document does not have a title element", category: CategorySEO},
	{id: "meta-description", text: "Document does not have a meta description", category: CategorySEO},
	{id: "render-blocking-resources", text: "Render-blocking resources delay first paint", category: CategoryPerformance},
	{id: "uses-optimized-images", text: "Images are not efficiently encoded", category: CategoryPerformance},
	{id: "image-alt", text: "Images missing alt attributes", category: CategoryAccessibility},
	{id: "color-contrast", text: "Low color contrast on some elements", category: CategoryAccessibility},
	{id: "errors-in-console", text: "Browser errors were logged to the console", category: CategoryBestPractices},
}

func fractionScore(p *float64) int {
	if p == nil || math.IsNaN(*p) {
		return 0
	}
	return clampInt(int(math.Round(*p*100)), 0, 100)
}

func mapMeasurement(f Features, report *MeasurementReport) *AnalysisResult {
	scores := URLScores{
		SEO:           fractionScore(report.Categories.SEO),
		Performance:   fractionScore(report.Categories.Performance),
		Accessibility: fractionScore(report.Categories.Accessibility),
		BestPractices: fractionScore(report.Categories.BestPractices),
	}

	issues := make([]Issue, 0, len(liveAudits))
	for _, la := range liveAudits {
		audit, ok := report.Audits[la.id]
		score := 0.0
		if ok && audit.Score != nil {
			score = *audit.Score
		}
		switch {
		case score >= 1:
			continue
		case score > 0:
			issues = append(issues, Issue{Severity: SeverityWarning, Text: la.text, Category: la.category})
		default:
			issues = append(issues, Issue{Severity: SeverityCritical, Text: la.text, Category: la.category})
		}
	}

	seed := DeriveSeed(f.NormalizedURL)
	metrics := DeriveMetrics(seed, scores)
	if v, ok := auditValue(report, "speed-index"); ok {
		metrics.LoadTime = round1(v / 1000)
	}
	if v, ok := auditValue(report, "first-contentful-paint"); ok {
		metrics.FirstContentfulPaint = round1(v / 1000)
	}
	if v, ok := auditValue(report, "total-byte-weight"); ok {
		metrics.PageWeightKB = int(math.Round(v / 1024))
	}
	if v, ok := auditValue(report, "network-requests"); ok {
		metrics.Requests = int(v)
	}
	if v, ok := auditValue(report, "server-response-time"); ok {
		metrics.TimeToFirstByteMs = int(math.Round(v))
	}

	return &AnalysisResult{
		URL:             f.NormalizedURL,
		Source:          SourceLive,
		Scores:          scores,
		OverallScore:    scores.Overall(),
		Issues:          issues,
		Recommendations: DeriveRecommendations(scores, f, issues),
		Metrics:         metrics,
	}
}

func auditValue(report *MeasurementReport, id string) (float64, bool) {
	audit, ok := report.Audits[id]
	if !ok || audit.NumericValue == nil || *audit.NumericValue < 0 || math.IsNaN(*audit.NumericValue) {
		return 0, false
	}
	return *audit.NumericValue, true
}

func mapSearch(kf KeywordFeatures, total int64, items []SearchItem) *KeywordReport {
	if total <= 0 {
		total = int64(len(items)) * 1000
	}
	seed := DeriveSeed(strings.ToLower(kf.Keyword))
	base := KeywordBase(kf)

	difficulty := clampInt(int(math.Round(math.Log10(float64(total)+1)*10)), 0, 100)
	primary := KeywordMetrics{
		Keyword:     kf.Keyword,
		Volume:      int(math.Round(math.Sqrt(float64(total)))),
		Difficulty:  difficulty,
		CPC:         round2(base.CPC + float64(difficulty)/100),
		Competition: CompetitionLevel(difficulty),
		Intent:      intentOf(kf),
	}
	return &KeywordReport{
		Source:  SourceLive,
		Primary: primary,
		Related: RelatedMetrics(seed, primary, ExpandRelated(kf.Keyword, items)),
	}
}

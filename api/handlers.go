package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seo-optimizer/insights/analyzer"
	"github.com/seo-optimizer/insights/history"
	"github.com/seo-optimizer/insights/middleware"
	"github.com/seo-optimizer/insights/stats"
)

const defaultHistoryLimit = 20

type analyzeRequest struct {
	URL string `json:"url"`
}

type keywordsRequest struct {
	Keyword string `json:"keyword"`
}

func (s *Server) respondWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// failAnalysis answers an analysis error. Invalid input is the only error the
// engine returns, anything else is unexpected.
func (s *Server) failAnalysis(c *gin.Context, kind analyzer.InputKind, err error) {
	var inv *analyzer.InvalidInputError
	if errors.As(err, &inv) {
		s.record(c.Request.Context(), stats.OutcomeInvalid)
		s.respondWithError(c, http.StatusBadRequest, inv.Error())
		return
	}
	s.deps.Logger.Error("analysis failed", zap.String("kind", string(kind)), zap.Error(err))
	s.respondWithError(c, http.StatusInternalServerError, "Failed to analyze input")
}

func (s *Server) record(ctx context.Context, o stats.Outcome) {
	if s.deps.Recorder == nil {
		return
	}
	if err := s.deps.Recorder.Record(ctx, o); err != nil {
		s.deps.Logger.Warn("could not record outcome", zap.String("outcome", string(o)), zap.Error(err))
	}
}

func (s *Server) remember(kind analyzer.InputKind, input string, source analyzer.Source, payload any) {
	if s.deps.History == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.deps.Logger.Warn("could not encode history payload", zap.Error(err))
		return
	}
	if _, err := s.deps.History.Save(history.Record{
		Kind:    string(kind),
		Input:   input,
		Source:  string(source),
		Payload: data,
	}); err != nil {
		s.deps.Logger.Warn("could not save history", zap.String("input", input), zap.Error(err))
	}
}

func (s *Server) finish(c *gin.Context, kind analyzer.InputKind, source analyzer.Source, liveConfigured bool, start time.Time) {
	s.record(c.Request.Context(), stats.Classify(source, liveConfigured))
	if s.deps.Metrics != nil {
		s.deps.Metrics.ObserveAnalysis(kind, source, time.Since(start))
	}
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondWithError(c, http.StatusBadRequest, "Invalid URL provided")
		return
	}
	c.Set(middleware.KeyAnalysisKind, string(analyzer.InputURL))
	c.Set(middleware.KeyAnalysisInput, req.URL)

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.LiveTimeout())
	defer cancel()

	start := time.Now()
	res, err := s.deps.Engine.AnalyzeURL(ctx, req.URL)
	if err != nil {
		s.failAnalysis(c, analyzer.InputURL, err)
		return
	}
	c.Set(middleware.KeyAnalysisInput, res.URL)
	s.finish(c, analyzer.InputURL, res.Source, s.deps.Engine.HasLiveMeasurer(), start)
	s.remember(analyzer.InputURL, res.URL, res.Source, res)

	c.JSON(http.StatusOK, res)
}

func (s *Server) handleKeywords(c *gin.Context) {
	var req keywordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondWithError(c, http.StatusBadRequest, "Invalid keyword provided")
		return
	}
	c.Set(middleware.KeyAnalysisKind, string(analyzer.InputKeyword))
	c.Set(middleware.KeyAnalysisInput, req.Keyword)

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.LiveTimeout())
	defer cancel()

	start := time.Now()
	report, err := s.deps.Engine.AnalyzeKeyword(ctx, req.Keyword)
	if err != nil {
		s.failAnalysis(c, analyzer.InputKeyword, err)
		return
	}
	c.Set(middleware.KeyAnalysisInput, report.Primary.Keyword)
	s.finish(c, analyzer.InputKeyword, report.Source, s.deps.Engine.HasLiveSearcher(), start)
	s.remember(analyzer.InputKeyword, historyKeyword(report.Primary.Keyword), report.Source, report)

	c.JSON(http.StatusOK, report)
}

func historyKeyword(kw string) string {
	return strings.ToLower(strings.Join(strings.Fields(kw), " "))
}

func (s *Server) handleHistory(c *gin.Context) {
	if s.deps.History == nil {
		s.respondWithError(c, http.StatusServiceUnavailable, "History is not enabled")
		return
	}

	kind := c.Query("kind")
	input := strings.TrimSpace(c.Query("input"))
	switch analyzer.InputKind(kind) {
	case analyzer.InputURL:
		if input != "" {
			u, err := analyzer.NormalizeURL(input)
			if err != nil {
				s.respondWithError(c, http.StatusBadRequest, err.Error())
				return
			}
			input = u.String()
		}
	case analyzer.InputKeyword:
		input = historyKeyword(input)
	case "":
		if input != "" {
			s.respondWithError(c, http.StatusBadRequest, "input requires kind")
			return
		}
	default:
		s.respondWithError(c, http.StatusBadRequest, "kind must be url or keyword")
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.respondWithError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	limit = min(limit, s.config.HistoryLimit)

	records, err := s.deps.History.List(kind, input, limit)
	if err != nil {
		s.deps.Logger.Error("failed to list history", zap.Error(err))
		s.respondWithError(c, http.StatusInternalServerError, "Could not retrieve history")
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (s *Server) handleStatistics(c *gin.Context) {
	out := gin.H{}
	if s.deps.Statistics != nil {
		for k, v := range s.deps.Statistics.Snapshot() {
			out[k] = v
		}
	}
	if s.deps.Recorder != nil {
		month, err := s.deps.Recorder.Current(c.Request.Context())
		if err != nil {
			s.deps.Logger.Warn("could not read monthly statistics", zap.Error(err))
		} else {
			out["currentMonth"] = month
		}
	}
	c.JSON(http.StatusOK, out)
}

type pinger interface {
	Ping(ctx context.Context) error
}

func (s *Server) handleHealth(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{
		"status": "ok",
		"live": gin.H{
			"measurement": s.deps.Engine.HasLiveMeasurer(),
			"search":      s.deps.Engine.HasLiveSearcher(),
		},
	}

	if p, ok := s.deps.Recorder.(pinger); ok {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			s.deps.Logger.Error("health check failed for stats backend", zap.Error(err))
			body["status"] = "degraded"
			body["stats"] = "unhealthy"
			status = http.StatusServiceUnavailable
		} else {
			body["stats"] = "healthy"
		}
	}
	c.JSON(status, body)
}

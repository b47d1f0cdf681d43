package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/seo-optimizer/insights/analyzer"
	"github.com/seo-optimizer/insights/config"
	"github.com/seo-optimizer/insights/history"
	"github.com/seo-optimizer/insights/logging"
	"github.com/seo-optimizer/insights/metrics"
	"github.com/seo-optimizer/insights/middleware"
	"github.com/seo-optimizer/insights/stats"
)

// HistoryStore is the part of history.Store the API needs
type HistoryStore interface {
	Save(rec history.Record) (history.Record, error)
	List(kind, input string, limit int) ([]history.Record, error)
}

// Deps are the collaborators of a Server. Engine and Logger are required.
type Deps struct {
	Engine     *analyzer.Engine
	Recorder   stats.Recorder
	History    HistoryStore
	Statistics *logging.Statistics
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
	Logger     *zap.Logger
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	config     *config.Config
	deps       Deps
	limiter    *middleware.RateLimiter
	router     *gin.Engine
	httpServer *http.Server
}

func NewServer(cfg *config.Config, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}
	s := &Server{
		config:  cfg,
		deps:    deps,
		limiter: middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst),
	}
	s.router = s.setupRouter()
	s.httpServer = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// a live attempt may use the whole live timeout
		WriteTimeout: cfg.LiveTimeout() + 10*time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called. It returns http.ErrServerClosed
// after a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	go s.limiter.SweepEvery(ctx, time.Minute)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

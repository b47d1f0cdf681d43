package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/seo-optimizer/insights/middleware"
)

func (s *Server) setupRouter() *gin.Engine {
	gin.SetMode(s.config.GinMode)

	r := gin.New()
	r.Use(middleware.RequestIDs())
	r.Use(middleware.Logger(s.deps.Logger))
	r.Use(middleware.ErrorHandler(s.deps.Logger))
	r.Use(middleware.CORS())
	if s.deps.Metrics != nil {
		r.Use(middleware.Metrics(s.deps.Metrics))
	}

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	{
		api.GET("/health", s.handleHealth)

		limited := api.Group("")
		limited.Use(s.limiter.RateLimit())
		if s.deps.Statistics != nil {
			limited.Use(middleware.Stats(s.deps.Statistics, s.deps.Logger))
		}
		limited.POST("/analyze", s.handleAnalyze)
		limited.POST("/keywords", s.handleKeywords)
		limited.GET("/history", s.handleHistory)

		api.GET("/statistics", s.handleStatistics)
	}
	return r
}

package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seo-optimizer/insights/logging"
)

// Context keys handlers use to describe the analysis they served
const (
	KeyAnalysisKind  = "analysis.kind"
	KeyAnalysisInput = "analysis.input"
)

// saveEvery is how many analyses pass between statistics snapshots
const saveEvery = 100

// Stats tracks visitors on every request and analyses on requests whose
// handler set KeyAnalysisKind
func Stats(stats *logging.Statistics, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		stats.TrackVisitor(c.ClientIP())

		c.Next()

		kind := c.GetString(KeyAnalysisKind)
		if kind == "" {
			return
		}
		stats.TrackAnalysis(kind, c.GetString(KeyAnalysisInput), time.Since(start), c.Writer.Status() >= 400)

		// Save periodically
		if stats.AnalysisCount()%saveEvery == 0 {
			go func() {
				if err := stats.Save(); err != nil {
					logger.Warn("could not save statistics", zap.Error(err))
				}
			}()
		}
	}
}

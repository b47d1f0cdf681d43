package stats

import (
	"context"
	"time"

	"github.com/seo-optimizer/insights/analyzer"
)

// Outcome classifies how a single analysis was answered
type Outcome string

const (
	OutcomeLive      Outcome = "live"
	OutcomeFallback  Outcome = "fallback"  // live was attempted and failed
	OutcomeSimulated Outcome = "simulated" // no live collaborator configured
	OutcomeInvalid   Outcome = "invalid"
)

// Classify maps a result source to an outcome
func Classify(source analyzer.Source, liveConfigured bool) Outcome {
	switch {
	case source == analyzer.SourceLive:
		return OutcomeLive
	case liveConfigured:
		return OutcomeFallback
	default:
		return OutcomeSimulated
	}
}

// MonthlyStats represents outcome counters for a specific month
type MonthlyStats struct {
	LiveHits      int       `json:"live_hits"`
	Fallbacks     int       `json:"fallbacks"`
	Simulated     int       `json:"simulated"`
	InvalidInputs int       `json:"invalid_inputs"`
	LastUpdated   time.Time `json:"last_updated"`
}

// Total returns the number of recorded analyses
func (m MonthlyStats) Total() int {
	return m.LiveHits + m.Fallbacks + m.Simulated + m.InvalidInputs
}

func (m *MonthlyStats) add(o Outcome, n int) {
	switch o {
	case OutcomeLive:
		m.LiveHits += n
	case OutcomeFallback:
		m.Fallbacks += n
	case OutcomeSimulated:
		m.Simulated += n
	case OutcomeInvalid:
		m.InvalidInputs += n
	}
}

// Recorder persists monthly outcome counters
type Recorder interface {
	Record(ctx context.Context, o Outcome) error
	Current(ctx context.Context) (MonthlyStats, error)
	Close() error
}

const monthLayout = "2006-01"

// monthKey returns the month key in YYYY-MM format
func monthKey(t time.Time) string {
	return t.Format(monthLayout)
}

package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/seo-optimizer/insights/analyzer"
)

const statisticsFile = "statistics.json"

// InputCount is one entry of the popular-inputs ranking
type InputCount struct {
	Kind  string `json:"kind"`
	Input string `json:"input"`
	Count int    `json:"count"`
}

// Statistics represents request statistics collected by the API
type Statistics struct {
	UniqueVisitors   map[string]time.Time `json:"uniqueVisitors"`   // IP -> Last Visit Time
	AnalysisRequests int                  `json:"analysisRequests"` // Total number of analysis requests
	RequestsByKind   map[string]int       `json:"requestsByKind"`
	ErrorCount       int                  `json:"errorCount"`
	PopularInputs    map[string]int       `json:"popularInputs"` // kind + "\x00" + input -> Count
	AverageLatencyMs float64              `json:"averageLatencyMs"`
	TotalLatencyMs   float64              `json:"totalLatencyMs"`
	LastPersisted    time.Time            `json:"lastPersisted"`

	dir     string
	devMode bool
	logger  *zap.Logger
	mutex   sync.RWMutex
}

// NewStatistics creates statistics persisted under dir and loads any
// previously saved state
func NewStatistics(dir string, devMode bool, logger *zap.Logger) *Statistics {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Statistics{
		UniqueVisitors: make(map[string]time.Time),
		RequestsByKind: make(map[string]int),
		PopularInputs:  make(map[string]int),
		dir:            dir,
		devMode:        devMode,
		logger:         logger,
	}
	if err := s.Load(); err != nil {
		logger.Warn("could not load existing statistics", zap.Error(err))
	}
	return s
}

// TrackVisitor records a unique visitor
func (s *Statistics) TrackVisitor(ip string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.UniqueVisitors[ip] = time.Now()
}

// cleanURL reduces a URL to scheme, host and path. Local and API URLs are
// not tracked.
func cleanURL(raw string) string {
	// same normalization the engine applies, so "example.com" and
	// "https://example.com" count as one input
	u, err := analyzer.NormalizeURL(raw)
	if err != nil {
		return ""
	}
	if strings.Contains(u.Host, "localhost") ||
		strings.Contains(u.Host, "127.0.0.1") ||
		strings.Contains(strings.ToLower(u.Path), "/api/") {
		return ""
	}

	clean := u.Scheme + "://" + u.Host
	if u.Path != "" && u.Path != "/" {
		clean += u.Path
	}
	return strings.TrimSuffix(clean, "/")
}

func cleanInput(kind, input string) string {
	if kind == "url" {
		return cleanURL(input)
	}
	return strings.ToLower(strings.Join(strings.Fields(input), " "))
}

// TrackAnalysis records an analysis request of the given kind
func (s *Statistics) TrackAnalysis(kind, input string, latency time.Duration, hasError bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.AnalysisRequests++
	s.RequestsByKind[kind]++

	// Only successful analyses count towards popular inputs
	if !hasError {
		if cleaned := cleanInput(kind, input); cleaned != "" {
			s.PopularInputs[kind+"\x00"+cleaned]++
		}
	} else {
		s.ErrorCount++
	}

	s.TotalLatencyMs += float64(latency) / float64(time.Millisecond)
	s.AverageLatencyMs = s.TotalLatencyMs / float64(s.AnalysisRequests)
}

// AnalysisCount returns the number of analysis requests tracked so far
func (s *Statistics) AnalysisCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.AnalysisRequests
}

// UniqueVisitorsCount returns the number of unique visitors in the last 24 hours
func (s *Statistics) UniqueVisitorsCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.uniqueVisitors()
}

func (s *Statistics) uniqueVisitors() int {
	count := 0
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, lastVisit := range s.UniqueVisitors {
		if lastVisit.After(cutoff) {
			count++
		}
	}
	return count
}

// TopInputs returns the n most requested inputs, most frequent first
func (s *Statistics) TopInputs(n int) []InputCount {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.topInputs(n)
}

func (s *Statistics) topInputs(n int) []InputCount {
	out := make([]InputCount, 0, len(s.PopularInputs))
	for key, count := range s.PopularInputs {
		kind, input, _ := strings.Cut(key, "\x00")
		out = append(out, InputCount{Kind: kind, Input: input, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Input < out[j].Input
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ErrorRate returns the error rate as a percentage
func (s *Statistics) ErrorRate() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.errorRate()
}

func (s *Statistics) errorRate() float64 {
	if s.AnalysisRequests == 0 {
		return 0
	}
	return float64(s.ErrorCount) / float64(s.AnalysisRequests) * 100
}

// Save persists the statistics to the data directory
func (s *Statistics) Save() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.LastPersisted = time.Now()

	// Create directory if it doesn't exist
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("could not create data directory: %w", err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("could not encode statistics: %w", err)
	}

	// Write to temporary file first, then swap it in
	path := filepath.Join(s.dir, statisticsFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("could not write statistics file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("could not replace statistics file: %w", err)
	}
	return nil
}

// Load reads the statistics from the data directory
func (s *Statistics) Load() error {
	data, err := os.ReadFile(filepath.Join(s.dir, statisticsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("could not open statistics file: %w", err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if err := json.Unmarshal(data, s); err != nil {
		return fmt.Errorf("could not decode statistics: %w", err)
	}

	// Files written by older versions may lack some maps
	if s.UniqueVisitors == nil {
		s.UniqueVisitors = make(map[string]time.Time)
	}
	if s.RequestsByKind == nil {
		s.RequestsByKind = make(map[string]int)
	}
	if s.PopularInputs == nil {
		s.PopularInputs = make(map[string]int)
	}
	return nil
}

// Snapshot returns the public view of the statistics. Popular inputs are only
// exposed in development mode.
func (s *Statistics) Snapshot() map[string]any {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	// Copy so callers never see the live map
	byKind := make(map[string]int, len(s.RequestsByKind))
	for k, v := range s.RequestsByKind {
		byKind[k] = v
	}
	out := map[string]any{
		"uniqueVisitors24h": s.uniqueVisitors(),
		"totalRequests":     s.AnalysisRequests,
		"requestsByKind":    byKind,
		"errorRate":         s.errorRate(),
		"averageLatencyMs":  s.AverageLatencyMs,
	}
	if s.devMode {
		out["popularInputs"] = s.topInputs(5)
	}
	return out
}

package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Storage keeps monthly statistics in memory and persists them to a JSON
// file from a background writer
type Storage struct {
	mutex       sync.RWMutex
	stats       map[string]*MonthlyStats // key: "YYYY-MM"
	filePath    string
	lastWrite   time.Time
	writeBuffer chan struct{}
	done        chan struct{}
	stopped     chan struct{}
	closeOnce   sync.Once
	logger      *zap.Logger
	now         func() time.Time
}

// NewStorage creates a new statistics storage instance
func NewStorage(dataDir string, logger *zap.Logger) (*Storage, error) {
	// Ensure data directory exists
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Storage{
		stats:       make(map[string]*MonthlyStats),
		filePath:    filepath.Join(dataDir, "stats.json"),
		writeBuffer: make(chan struct{}, 1),
		done:        make(chan struct{}),
		stopped:     make(chan struct{}),
		logger:      logger,
		now:         time.Now,
	}

	// A missing file just means a fresh start
	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	// Start background writer
	go s.backgroundWriter()

	return s, nil
}

// load reads statistics from file
func (s *Storage) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	return json.Unmarshal(data, &s.stats)
}

// save writes statistics to file
func (s *Storage) save() error {
	s.mutex.RLock()
	data, err := json.Marshal(s.stats)
	s.mutex.RUnlock()

	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	// Write to temporary file first
	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	// rename is atomic on the same filesystem
	if err := os.Rename(tempFile, s.filePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// backgroundWriter serializes all writes to disk until Close
func (s *Storage) backgroundWriter() {
	defer close(s.stopped)

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.writeBuffer:
			// Immediate write requested
			s.saveOrLog()
		case <-ticker.C:
			// Periodic write
			s.saveOrLog()
		case <-s.done:
			// Final write on shutdown
			s.saveOrLog()
			return
		}
	}
}

func (s *Storage) saveOrLog() {
	if err := s.save(); err != nil {
		s.logger.Error("failed to persist statistics", zap.String("path", s.filePath), zap.Error(err))
	}
}

// requestWrite signals that a write to disk is needed
func (s *Storage) requestWrite() {
	select {
	case s.writeBuffer <- struct{}{}:
	default:
		// write already pending
	}
}

// Record implements Recorder
func (s *Storage) Record(_ context.Context, o Outcome) error {
	s.Increment(o, 1)
	return nil
}

// Increment adds n to the counter of the given outcome for the current month
func (s *Storage) Increment(o Outcome, n int) {
	now := s.now()
	month := monthKey(now)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	stats, exists := s.stats[month]
	if !exists {
		stats = &MonthlyStats{}
		s.stats[month] = stats
	}
	stats.add(o, n)
	stats.LastUpdated = now

	// Request a write if enough time has passed
	if now.Sub(s.lastWrite) > time.Minute {
		s.requestWrite()
		s.lastWrite = now
	}
}

// Current implements Recorder
func (s *Storage) Current(_ context.Context) (MonthlyStats, error) {
	return s.CurrentStats(), nil
}

// CurrentStats returns statistics for the current month
func (s *Storage) CurrentStats() MonthlyStats {
	stats, _ := s.Month(monthKey(s.now()))
	return stats
}

// Cleanup removes statistics older than retainMonths, counting the current
// month as the first
func (s *Storage) Cleanup(retainMonths int) {
	if retainMonths < 1 {
		retainMonths = 1
	}
	// Count back from the first of the month so AddDate never skips a short month
	keep := make(map[string]bool, retainMonths)
	now := s.now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := 0; i < retainMonths; i++ {
		keep[monthKey(first.AddDate(0, -i, 0))] = true
	}

	s.mutex.Lock()
	removed := 0
	for key := range s.stats {
		if !keep[key] {
			delete(s.stats, key)
			removed++
		}
	}
	s.mutex.Unlock()

	// Persist the removal
	s.requestWrite()
	s.logger.Info("cleaned up monthly statistics", zap.Int("retained_months", retainMonths), zap.Int("removed", removed))
}

// Month returns statistics for a specific month
func (s *Storage) Month(yearMonth string) (MonthlyStats, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if stats, exists := s.stats[yearMonth]; exists {
		return *stats, true
	}
	return MonthlyStats{}, false
}

// Months returns all months that have statistics, newest first
func (s *Storage) Months() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	months := make([]string, 0, len(s.stats))
	for month := range s.stats {
		months = append(months, month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}

// Close stops the background writer after a final save
func (s *Storage) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		<-s.stopped
	})
	return nil
}

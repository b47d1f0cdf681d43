package stats

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/seo-optimizer/insights/analyzer"
)

func TestStorage(t *testing.T) {
	tempDir := t.TempDir()

	storage, err := NewStorage(tempDir, nil)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	defer storage.Close()

	t.Run("Increment", func(t *testing.T) {
		storage.Increment(OutcomeLive, 1)
		storage.Increment(OutcomeFallback, 2)
		storage.Increment(OutcomeSimulated, 3)
		if err := storage.Record(context.Background(), OutcomeInvalid); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		stats := storage.CurrentStats()

		if stats.LiveHits != 1 {
			t.Errorf("Expected 1 live hit, got %d", stats.LiveHits)
		}
		if stats.Fallbacks != 2 {
			t.Errorf("Expected 2 fallbacks, got %d", stats.Fallbacks)
		}
		if stats.Simulated != 3 {
			t.Errorf("Expected 3 simulated, got %d", stats.Simulated)
		}
		if stats.InvalidInputs != 1 {
			t.Errorf("Expected 1 invalid input, got %d", stats.InvalidInputs)
		}
		if stats.Total() != 7 {
			t.Errorf("Expected total 7, got %d", stats.Total())
		}
	})

	t.Run("Persistence", func(t *testing.T) {
		if err := storage.save(); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		storage2, err := NewStorage(tempDir, nil)
		if err != nil {
			t.Fatalf("Failed to create second storage: %v", err)
		}
		defer storage2.Close()

		stats, err := storage2.Current(context.Background())
		if err != nil {
			t.Fatalf("Current failed: %v", err)
		}
		if stats.LiveHits != 1 {
			t.Errorf("Expected 1 live hit after reload, got %d", stats.LiveHits)
		}
	})

	t.Run("Cleanup", func(t *testing.T) {
		now := time.Now()
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		oldMonth := first.AddDate(0, -2, 0).Format("2006-01")
		lastMonth := first.AddDate(0, -1, 0).Format("2006-01")
		storage.mutex.Lock()
		storage.stats[oldMonth] = &MonthlyStats{LiveHits: 100}
		storage.stats[lastMonth] = &MonthlyStats{LiveHits: 5}
		storage.mutex.Unlock()

		storage.Cleanup(2)

		if _, exists := storage.Month(oldMonth); exists {
			t.Error("Old stats should have been cleaned up")
		}
		if _, exists := storage.Month(lastMonth); !exists {
			t.Error("Previous month should have been retained")
		}
		if months := storage.Months(); len(months) != 2 || months[0] <= months[1] {
			t.Errorf("Expected two months newest first, got %v", months)
		}
	})

	t.Run("FileSize", func(t *testing.T) {
		if err := storage.save(); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		info, err := os.Stat(filepath.Join(tempDir, "stats.json"))
		if err != nil {
			t.Fatalf("Failed to stat file: %v", err)
		}
		if info.Size() > 1024 {
			t.Errorf("File size too large: %d bytes", info.Size())
		}
	})

	t.Run("ConcurrentAccess", func(t *testing.T) {
		before := storage.CurrentStats()
		done := make(chan bool)
		for i := 0; i < 10; i++ {
			go func() {
				for j := 0; j < 100; j++ {
					storage.Increment(OutcomeLive, 1)
					storage.Increment(OutcomeFallback, 1)
					storage.CurrentStats()
				}
				done <- true
			}()
		}
		for i := 0; i < 10; i++ {
			<-done
		}

		stats := storage.CurrentStats()
		if got := stats.LiveHits - before.LiveHits; got != 1000 {
			t.Errorf("Expected 1000 new live hits, got %d", got)
		}
		if got := stats.Fallbacks - before.Fallbacks; got != 1000 {
			t.Errorf("Expected 1000 new fallbacks, got %d", got)
		}
	})
}

func TestCloseWritesFinalState(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewStorage(dir, nil)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	storage.Increment(OutcomeSimulated, 4)
	if err := storage.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// second close is a no-op
	storage.Close()

	reloaded, err := NewStorage(dir, nil)
	if err != nil {
		t.Fatalf("Failed to reload storage: %v", err)
	}
	defer reloaded.Close()
	if got := reloaded.CurrentStats().Simulated; got != 4 {
		t.Errorf("Expected 4 simulated after close, got %d", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		source analyzer.Source
		live   bool
		want   Outcome
	}{
		{analyzer.SourceLive, true, OutcomeLive},
		{analyzer.SourceSimulated, true, OutcomeFallback},
		{analyzer.SourceSimulated, false, OutcomeSimulated},
	}
	for _, tt := range tests {
		if got := Classify(tt.source, tt.live); got != tt.want {
			t.Errorf("Classify(%s, %v) = %s, want %s", tt.source, tt.live, got, tt.want)
		}
	}
}

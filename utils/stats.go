package utils

import (
	"sync"
	"time"
)

// RunStats tracks counters across one scraping run. Counters only go up;
// a snapshot at end-of-run is the whole reporting surface.
type RunStats struct {
	mu      sync.Mutex
	start   time.Time
	pages   int
	items   int
	errors  int
	retries int
}

// StatsSummary is a point-in-time snapshot of a run's counters.
type StatsSummary struct {
	Started        time.Time
	Elapsed        time.Duration
	Pages          int
	Items          int
	Errors         int
	Retries        int
	ItemsPerSecond float64
}

// NewRunStats creates run statistics anchored at the current instant.
func NewRunStats() *RunStats {
	return &RunStats{start: time.Now()}
}

func (s *RunStats) AddPages(n int) {
	s.mu.Lock()
	s.pages += n
	s.mu.Unlock()
}

func (s *RunStats) AddItems(n int) {
	s.mu.Lock()
	s.items += n
	s.mu.Unlock()
}

func (s *RunStats) AddErrors(n int) {
	s.mu.Lock()
	s.errors += n
	s.mu.Unlock()
}

func (s *RunStats) AddRetries(n int) {
	s.mu.Lock()
	s.retries += n
	s.mu.Unlock()
}

func (s *RunStats) Errors() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors
}

// Summary returns the current snapshot including computed throughput.
func (s *RunStats) Summary() StatsSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed := time.Since(s.start)
	var rate float64
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(s.items) / secs
	}
	return StatsSummary{
		Started:        s.start,
		Elapsed:        elapsed,
		Pages:          s.pages,
		Items:          s.items,
		Errors:         s.errors,
		Retries:        s.retries,
		ItemsPerSecond: rate,
	}
}

// LogSummary writes the snapshot to the logger in the usual run-report shape.
func (s *RunStats) LogSummary(logger *Logger) {
	sum := s.Summary()
	logger.Info("================ RUN SUMMARY ================")
	logger.Info("Started:        %s", sum.Started.Format("2006-01-02 15:04:05"))
	logger.Info("Elapsed:        %s", sum.Elapsed.Round(time.Second))
	logger.Info("Pages:          %d", sum.Pages)
	logger.Info("Items:          %d", sum.Items)
	logger.Info("Errors:         %d", sum.Errors)
	logger.Info("Retries:        %d", sum.Retries)
	logger.Info("Items/second:   %.2f", sum.ItemsPerSecond)
	logger.Info("=============================================")
}

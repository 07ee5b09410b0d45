package metrics

import (
	"sync"
	"time"
)

// Metrics collects counters for the digest pipeline. All methods are safe on a nil receiver.
type Metrics struct {
	mu sync.RWMutex

	// Counters
	FeedsFetched       int64
	FeedErrors         int64
	MalformedFeeds     int64
	EntriesSeen        int64
	ArticlesMatched    int64
	SummariesGenerated int64
	SummariesFailed    int64
	SummariesSkipped   int64
	DigestsGenerated   int64

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
	ProcessingCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = New()

func New() *Metrics {
	return &Metrics{IsHealthy: true}
}

func (m *Metrics) add(field *int64, n int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	*field += int64(n)
}

func (m *Metrics) IncrementFeedsFetched() {
	if m == nil {
		return
	}
	m.add(&m.FeedsFetched, 1)
}

func (m *Metrics) IncrementFeedErrors() {
	if m == nil {
		return
	}
	m.add(&m.FeedErrors, 1)
}

func (m *Metrics) IncrementMalformedFeeds() {
	if m == nil {
		return
	}
	m.add(&m.MalformedFeeds, 1)
}

func (m *Metrics) AddEntriesSeen(n int) {
	if m == nil {
		return
	}
	m.add(&m.EntriesSeen, n)
}

func (m *Metrics) AddArticlesMatched(n int) {
	if m == nil {
		return
	}
	m.add(&m.ArticlesMatched, n)
}

func (m *Metrics) IncrementSummariesGenerated() {
	if m == nil {
		return
	}
	m.add(&m.SummariesGenerated, 1)
}

func (m *Metrics) IncrementSummariesFailed() {
	if m == nil {
		return
	}
	m.add(&m.SummariesFailed, 1)
}

func (m *Metrics) IncrementSummariesSkipped() {
	if m == nil {
		return
	}
	m.add(&m.SummariesSkipped, 1)
}

func (m *Metrics) IncrementDigestsGenerated() {
	if m == nil {
		return
	}
	m.add(&m.DigestsGenerated, 1)
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++

	if m.ProcessingCount > 0 {
		m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.ProcessingCount)
	}
}

func (m *Metrics) SetLastRun() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

// Healthy reports whether the last run finished without a fatal error.
func (m *Metrics) Healthy() bool {
	if m == nil {
		return true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.IsHealthy
}

func (m *Metrics) GetStats() map[string]interface{} {
	if m == nil {
		return map[string]interface{}{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"feeds_fetched":              m.FeedsFetched,
		"feed_errors":                m.FeedErrors,
		"malformed_feeds":            m.MalformedFeeds,
		"entries_seen":               m.EntriesSeen,
		"articles_matched":           m.ArticlesMatched,
		"summaries_generated":        m.SummariesGenerated,
		"summaries_failed":           m.SummariesFailed,
		"summaries_skipped":          m.SummariesSkipped,
		"digests_generated":          m.DigestsGenerated,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_run_time":              m.LastRunTime.Format(time.RFC3339),
		"last_error_time":            m.LastErrorTime.Format(time.RFC3339),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}

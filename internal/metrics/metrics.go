// Package metrics counts what happened during one run.
package metrics

import (
	"log/slog"
	"sync"
	"time"
)

type Metrics struct {
	mu sync.Mutex

	// Counters
	SourcesProcessed  int64
	SourcesFailed     int64
	EntriesProcessed  int64
	BelowThreshold    int64
	DuplicatesSkipped int64
	MessagesPosted    int64
	DeliveryFailures  int64
	IndexMessagesSent int64

	// Timings
	StartedAt time.Time
	Duration  time.Duration
}

func New() *Metrics {
	return &Metrics{StartedAt: time.Now()}
}

func (m *Metrics) IncrementSourcesProcessed() { m.add(&m.SourcesProcessed) }
func (m *Metrics) IncrementSourcesFailed()    { m.add(&m.SourcesFailed) }
func (m *Metrics) IncrementEntriesProcessed() { m.add(&m.EntriesProcessed) }
func (m *Metrics) IncrementBelowThreshold()   { m.add(&m.BelowThreshold) }
func (m *Metrics) IncrementDuplicates()       { m.add(&m.DuplicatesSkipped) }
func (m *Metrics) IncrementMessagesPosted()   { m.add(&m.MessagesPosted) }
func (m *Metrics) IncrementDeliveryFailures() { m.add(&m.DeliveryFailures) }
func (m *Metrics) IncrementIndexMessages()    { m.add(&m.IndexMessagesSent) }

func (m *Metrics) add(counter *int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*counter++
}

// Finish records the run duration.
func (m *Metrics) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Duration = time.Since(m.StartedAt)
}

// Snapshot is a copy of the counters safe to read without locking.
type Snapshot struct {
	SourcesProcessed  int64
	SourcesFailed     int64
	EntriesProcessed  int64
	BelowThreshold    int64
	DuplicatesSkipped int64
	MessagesPosted    int64
	DeliveryFailures  int64
	IndexMessagesSent int64
	Duration          time.Duration
}

func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		SourcesProcessed:  m.SourcesProcessed,
		SourcesFailed:     m.SourcesFailed,
		EntriesProcessed:  m.EntriesProcessed,
		BelowThreshold:    m.BelowThreshold,
		DuplicatesSkipped: m.DuplicatesSkipped,
		MessagesPosted:    m.MessagesPosted,
		DeliveryFailures:  m.DeliveryFailures,
		IndexMessagesSent: m.IndexMessagesSent,
		Duration:          m.Duration,
	}
}

// LogValue renders the snapshot as a slog group.
func (s Snapshot) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("sources", s.SourcesProcessed),
		slog.Int64("sources_failed", s.SourcesFailed),
		slog.Int64("entries", s.EntriesProcessed),
		slog.Int64("below_threshold", s.BelowThreshold),
		slog.Int64("duplicates", s.DuplicatesSkipped),
		slog.Int64("posted", s.MessagesPosted),
		slog.Int64("delivery_failures", s.DeliveryFailures),
		slog.Int64("index_messages", s.IndexMessagesSent),
		slog.Duration("duration", s.Duration),
	)
}

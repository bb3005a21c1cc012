// Package stats tracks cumulative counters for the interaction ledger's
// upsert behavior: how many recorded interactions created a fresh ledger
// entry versus re-stamping an existing one.
package stats

import (
	"fmt"
	"log/slog"
	"sync/atomic"
)

// UpsertStats tracks cumulative ledger upsert statistics.
// All operations are thread-safe using atomic counters.
type UpsertStats struct {
	inserted  int64 // Interactions that created a new ledger entry
	restamped int64 // Repeat interactions that re-stamped an existing entry
}

// NewUpsertStats creates a new UpsertStats instance.
func NewUpsertStats() *UpsertStats {
	return &UpsertStats{}
}

// RecordInsert increments the fresh-entry counter.
func (s *UpsertStats) RecordInsert() {
	atomic.AddInt64(&s.inserted, 1)
}

// RecordRestamp increments the repeat-interaction counter.
func (s *UpsertStats) RecordRestamp() {
	atomic.AddInt64(&s.restamped, 1)
}

// Inserted returns the total number of fresh ledger entries.
func (s *UpsertStats) Inserted() int64 {
	return atomic.LoadInt64(&s.inserted)
}

// Restamped returns the total number of re-stamped entries.
func (s *UpsertStats) Restamped() int64 {
	return atomic.LoadInt64(&s.restamped)
}

// Total returns the total number of recorded interactions.
func (s *UpsertStats) Total() int64 {
	return s.Inserted() + s.Restamped()
}

// Reset resets all counters to zero.
func (s *UpsertStats) Reset() {
	atomic.StoreInt64(&s.inserted, 0)
	atomic.StoreInt64(&s.restamped, 0)
}

// String returns a human-readable summary of the statistics.
func (s *UpsertStats) String() string {
	return fmt.Sprintf("inserted=%d restamped=%d total=%d", s.Inserted(), s.Restamped(), s.Total())
}

// LogSummary logs a summary of ledger upsert statistics at INFO level.
// Useful for periodic reporting.
func (s *UpsertStats) LogSummary(logger *slog.Logger) {
	logger.Info("ledger upsert statistics",
		"inserted", s.Inserted(),
		"restamped", s.Restamped(),
		"total", s.Total(),
	)
}

// Package metrics provides in-memory runtime statistics collection.
package metrics

import (
	"math"
	"sync"
	"time"
)

// Operation names for the collector.
const (
	OpEmbedding   = "embedding"
	OpLLMGenerate = "llm_generate"
	OpDBSearch    = "db_search"
	OpIngest      = "ingest"
	OpQuery       = "query"
)

// operation holds raw aggregates for one operation type.
type operation struct {
	count     int64
	totalTime time.Duration
	minTime   time.Duration
	maxTime   time.Duration
}

// OperationSnapshot provides computed stats from raw aggregates.
type OperationSnapshot struct {
	Count       int64   `json:"count"`
	TotalTimeMs int64   `json:"total_time_ms"`
	AvgTimeMs   float64 `json:"avg_time_ms"`
	MinTimeMs   int64   `json:"min_time_ms"`
	MaxTimeMs   int64   `json:"max_time_ms"`
}

// Snapshot represents the full service statistics at a point in time.
// Operations with no recorded data are omitted.
type Snapshot struct {
	UptimeSeconds float64                      `json:"uptime_seconds"`
	Operations    map[string]OperationSnapshot `json:"operations"`
}

// Collector aggregates in-memory runtime statistics.
// All methods are thread-safe.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	ops       map[string]*operation
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*operation),
	}
}

// RecordTiming records one completed operation.
func (c *Collector) RecordTiming(op string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.ops[op]
	if !ok {
		m = &operation{minTime: time.Duration(math.MaxInt64)}
		c.ops[op] = m
	}

	m.count++
	m.totalTime += duration
	if duration < m.minTime {
		m.minTime = duration
	}
	if duration > m.maxTime {
		m.maxTime = duration
	}
}

// Time runs fn and records its duration under op, passing the error through.
func (c *Collector) Time(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	c.RecordTiming(op, time.Since(start))
	return err
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{
		UptimeSeconds: time.Since(c.startTime).Seconds(),
		Operations:    make(map[string]OperationSnapshot, len(c.ops)),
	}
	for name, m := range c.ops {
		if m.count == 0 {
			continue
		}
		snap.Operations[name] = OperationSnapshot{
			Count:       m.count,
			TotalTimeMs: m.totalTime.Milliseconds(),
			AvgTimeMs:   float64(m.totalTime.Milliseconds()) / float64(m.count),
			MinTimeMs:   m.minTime.Milliseconds(),
			MaxTimeMs:   m.maxTime.Milliseconds(),
		}
	}
	return snap
}

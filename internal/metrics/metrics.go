package metrics

import (
	"sync"
	"time"
)

// Tracks request counts and operation latencies across the system
type Collector struct {
	mu           sync.RWMutex
	requestCount uint64
	errorCount   uint64

	// Maps operation name to list of latencies in nanoseconds
	operationTimes map[string][]int64

	systemStartTime time.Time
}

func NewCollector() *Collector {
	return &Collector{
		operationTimes:  make(map[string][]int64),
		systemStartTime: time.Now(),
	}
}

func (c *Collector) IncrementRequests() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requestCount++
}

func (c *Collector) IncrementErrors() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorCount++
}

func (c *Collector) AddOperationLatency(operationName string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.operationTimes[operationName] = append(
		c.operationTimes[operationName],
		duration.Nanoseconds(),
	)
}

// Snapshot is a point-in-time view of the collected metrics, served by
// the health endpoint.
type Snapshot struct {
	RequestCount  uint64                   `json:"requestCount"`
	ErrorCount    uint64                   `json:"errorCount"`
	UptimeSeconds float64                  `json:"uptimeSeconds"`
	Operations    map[string]OperationStat `json:"operations"`
}

type OperationStat struct {
	Count        int     `json:"count"`
	AvgLatencyMs float64 `json:"avgLatencyMs"`
}

func (c *Collector) GetSnapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ops := make(map[string]OperationStat, len(c.operationTimes))
	for name, latencies := range c.operationTimes {
		var total int64
		for _, ns := range latencies {
			total += ns
		}
		stat := OperationStat{Count: len(latencies)}
		if stat.Count > 0 {
			stat.AvgLatencyMs = float64(total) / float64(stat.Count) / 1e6
		}
		ops[name] = stat
	}

	return Snapshot{
		RequestCount:  c.requestCount,
		ErrorCount:    c.errorCount,
		UptimeSeconds: time.Since(c.systemStartTime).Seconds(),
		Operations:    ops,
	}
}

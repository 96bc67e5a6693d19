package metrics

import (
	"sync/atomic"
	"time"
)

// Collector counts requests across all handlers. Counters only ever grow;
// restarts reset them.
type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// Stats is a point-in-time read of the counters.
type Stats struct {
	RequestsTotal    uint64
	ErrorsTotal      uint64
	RateLimitedTotal uint64
	TotalDurationMs  uint64
	AvgDurationMs    float64
}

func (c *Collector) Snapshot() Stats {
	stats := Stats{
		RequestsTotal:    atomic.LoadUint64(&c.totalRequests),
		ErrorsTotal:      atomic.LoadUint64(&c.errorRequests),
		RateLimitedTotal: atomic.LoadUint64(&c.rateLimited),
		TotalDurationMs:  atomic.LoadUint64(&c.totalDurationMs),
	}
	if stats.RequestsTotal > 0 {
		stats.AvgDurationMs = float64(stats.TotalDurationMs) / float64(stats.RequestsTotal)
	}
	return stats
}

package metrics

import (
	"sync"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Collector records per-request outcomes in a thread-safe manner. It is the
// exclusive owner of the outcome collection; all statistics flow through it.
type Collector struct {
	mu        sync.Mutex
	outcomes  []Outcome
	hist      *hdrhistogram.Histogram
	successes int64
	failures  int64
}

// Snapshot is a cheap running view for live progress reporting. Its percentiles
// come from an HDR histogram and are approximate; the final report recomputes
// them exactly.
type Snapshot struct {
	Total       int64
	Successes   int64
	Failures    int64
	ApproxP50Ms float64
	ApproxP99Ms float64
}

func NewCollector() *Collector {
	// Track latencies from 1µs up to 60s with 3 significant figures.
	return &Collector{hist: hdrhistogram.New(1, 60_000_000, 3)}
}

// Record appends a single outcome. Each request id is recorded exactly once;
// outcomes are never mutated or removed afterward.
func (c *Collector) Record(o Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.outcomes = append(c.outcomes, o)
	if o.Failed() {
		c.failures++
		return
	}
	c.successes++

	us := int64(o.LatencyMs * 1000)
	if us < c.hist.LowestTrackableValue() {
		us = c.hist.LowestTrackableValue()
	}
	if us > c.hist.HighestTrackableValue() {
		us = c.hist.HighestTrackableValue()
	}
	_ = c.hist.RecordValue(us)
}

// Len returns the number of recorded outcomes.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.outcomes)
}

// Snapshot returns current running counts and approximate percentiles.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Total:     c.successes + c.failures,
		Successes: c.successes,
		Failures:  c.failures,
	}
	if c.hist.TotalCount() > 0 {
		s.ApproxP50Ms = float64(c.hist.ValueAtQuantile(50)) / 1000
		s.ApproxP99Ms = float64(c.hist.ValueAtQuantile(99)) / 1000
	}
	return s
}

// Report derives the aggregate statistics from everything recorded so far. It
// never mutates the collection and tolerates partial runs: taking a report
// after cancellation simply covers the outcomes recorded up to that point.
func (c *Collector) Report(targetRate int) Report {
	c.mu.Lock()
	outcomes := make([]Outcome, len(c.outcomes))
	copy(outcomes, c.outcomes)
	c.mu.Unlock()

	return buildReport(outcomes, targetRate)
}

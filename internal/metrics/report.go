package metrics

import (
	"math"
	"sort"
	"time"
)

// PercentileLadder lists the percentiles every report carries.
var PercentileLadder = []int{50, 75, 90, 95, 99}

// Latency bucket boundaries in milliseconds.
const (
	fastBoundMs = 100
	slowBoundMs = 500
)

// LatencyStats summarizes successful-request latencies in milliseconds.
type LatencyStats struct {
	Count       int             `json:"count"`
	MeanMs      float64         `json:"mean_ms"`
	MedianMs    float64         `json:"median_ms"`
	MinMs       float64         `json:"min_ms"`
	MaxMs       float64         `json:"max_ms"`
	StdDevMs    float64         `json:"stddev_ms"`
	Percentiles map[int]float64 `json:"percentiles"`
}

// LatencyBuckets counts all outcomes by coarse latency band.
type LatencyBuckets struct {
	Fast   int `json:"fast"`   // < 100ms
	Medium int `json:"medium"` // 100-500ms
	Slow   int `json:"slow"`   // >= 500ms
}

// Report represents aggregated run statistics. It is recomputed from the full
// outcome collection and never persisted.
type Report struct {
	NoData       bool          `json:"no_data,omitempty"`
	Total        int           `json:"total"`
	Successful   int           `json:"successful"`
	Failed       int           `json:"failed"`
	SuccessRate  float64       `json:"success_rate"`
	Duration     time.Duration `json:"-"`
	DurationSec  float64       `json:"duration_sec"`
	TargetRate   int           `json:"target_rate"`
	ObservedRate float64       `json:"observed_rate"`
	Efficiency   float64       `json:"throughput_efficiency"`

	Latency     *LatencyStats  `json:"latency,omitempty"`
	StatusCodes map[int]int    `json:"status_codes,omitempty"`
	ErrorKinds  map[string]int `json:"errors,omitempty"`
	Buckets     LatencyBuckets `json:"latency_buckets"`
}

func buildReport(outcomes []Outcome, targetRate int) Report {
	rep := Report{TargetRate: targetRate}
	if len(outcomes) == 0 {
		rep.NoData = true
		return rep
	}

	rep.Total = len(outcomes)
	rep.StatusCodes = make(map[int]int)
	rep.ErrorKinds = make(map[string]int)

	earliest := outcomes[0].ObservedAt
	latest := outcomes[0].ObservedAt
	successLatencies := make([]float64, 0, len(outcomes))

	for _, o := range outcomes {
		if o.ObservedAt.Before(earliest) {
			earliest = o.ObservedAt
		}
		if o.ObservedAt.After(latest) {
			latest = o.ObservedAt
		}

		if o.Failed() {
			rep.Failed++
			rep.ErrorKinds[o.ErrorKind.Label()]++
		} else {
			rep.Successful++
			rep.StatusCodes[o.StatusCode]++
			successLatencies = append(successLatencies, o.LatencyMs)
		}

		switch {
		case o.LatencyMs < fastBoundMs:
			rep.Buckets.Fast++
		case o.LatencyMs < slowBoundMs:
			rep.Buckets.Medium++
		default:
			rep.Buckets.Slow++
		}
	}

	rep.SuccessRate = float64(rep.Successful) / float64(rep.Total) * 100

	rep.Duration = latest.Sub(earliest)
	rep.DurationSec = rep.Duration.Seconds()
	if rep.Duration > 0 {
		rep.ObservedRate = float64(rep.Total) / rep.Duration.Seconds()
	}
	// Observed rate counts completions over the observed span, not issuances;
	// under concurrency this is a known approximation of the instantaneous rate.
	if targetRate > 0 {
		rep.Efficiency = rep.ObservedRate / float64(targetRate) * 100
	}

	if len(successLatencies) > 0 {
		rep.Latency = summarizeLatencies(successLatencies)
	}

	return rep
}

func summarizeLatencies(samples []float64) *LatencyStats {
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	n := len(sorted)

	stats := &LatencyStats{
		Count:       n,
		MinMs:       sorted[0],
		MaxMs:       sorted[n-1],
		MedianMs:    median(sorted),
		Percentiles: make(map[int]float64, len(PercentileLadder)),
	}

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	stats.MeanMs = sum / float64(n)

	if n > 1 {
		var squares float64
		for _, v := range sorted {
			d := v - stats.MeanMs
			squares += d * d
		}
		// Sample standard deviation; defined as 0 for a single observation.
		stats.StdDevMs = math.Sqrt(squares / float64(n-1))
	}

	for _, p := range PercentileLadder {
		stats.Percentiles[p] = NearestRank(sorted, p)
	}
	return stats
}

// NearestRank returns the value at index ceil(p/100*n)-1 (floored at 0) of the
// sorted sample. Taken at p=100 it coincides with the sample maximum.
func NearestRank(sorted []float64, p int) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	idx := int(math.Ceil(float64(p)/100*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

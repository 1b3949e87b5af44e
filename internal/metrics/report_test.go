package metrics_test

import (
	"math"
	"testing"
	"time"

	"github.com/pummelhq/pummel/internal/metrics"
)

func success(id, status int, latencyMs float64, at time.Time) metrics.Outcome {
	return metrics.Outcome{
		RequestID:  id,
		StatusCode: status,
		LatencyMs:  latencyMs,
		ObservedAt: at,
	}
}

func failure(id int, kind metrics.ErrorKind, latencyMs float64, at time.Time) metrics.Outcome {
	return metrics.Outcome{
		RequestID:   id,
		LatencyMs:   latencyMs,
		ErrorKind:   kind,
		ErrorDetail: "boom",
		ObservedAt:  at,
	}
}

func TestOutcomeRecordable(t *testing.T) {
	if !(metrics.Outcome{RequestID: 1, StatusCode: 200}).Recordable() {
		t.Errorf("a completed response is recordable")
	}
	if !(metrics.Outcome{RequestID: 1, ErrorKind: metrics.ErrorKindTimeout}).Recordable() {
		t.Errorf("a classified failure is recordable")
	}
	if (metrics.Outcome{RequestID: 1, LatencyMs: 12}).Recordable() {
		t.Errorf("an attempt with neither status nor error kind is not recordable")
	}
}

func TestReportEmptyCollection(t *testing.T) {
	c := metrics.NewCollector()

	rep := c.Report(100)

	if !rep.NoData {
		t.Errorf("expected NoData for empty collection")
	}
	if rep.Total != 0 || rep.Successful != 0 || rep.Failed != 0 {
		t.Errorf("expected zero counts, got %+v", rep)
	}
	if rep.Latency != nil {
		t.Errorf("expected nil latency stats, got %+v", rep.Latency)
	}
}

func TestNearestRankPercentile(t *testing.T) {
	sorted := []float64{10, 20, 30, 40}

	// index = ceil(0.5*4)-1 = 1
	if got := metrics.NearestRank(sorted, 50); got != 20 {
		t.Errorf("expected P50=20, got %v", got)
	}
	if got := metrics.NearestRank(sorted, 100); got != 40 {
		t.Errorf("expected P100=max=40, got %v", got)
	}
	if got := metrics.NearestRank(nil, 50); got != 0 {
		t.Errorf("expected 0 for empty sample, got %v", got)
	}
}

func TestReportLatencyStats(t *testing.T) {
	c := metrics.NewCollector()
	base := time.Now()

	latencies := []float64{10, 20, 30, 40, 50}
	for i, ms := range latencies {
		c.Record(success(i+1, 200, ms, base))
	}

	rep := c.Report(5)
	if rep.Latency == nil {
		t.Fatalf("expected latency stats")
	}
	lat := rep.Latency

	if lat.Count != 5 {
		t.Errorf("expected count 5, got %d", lat.Count)
	}
	if lat.MeanMs != 30 {
		t.Errorf("expected mean 30, got %v", lat.MeanMs)
	}
	if lat.MedianMs != 30 {
		t.Errorf("expected median 30, got %v", lat.MedianMs)
	}
	if lat.MinMs != 10 || lat.MaxMs != 50 {
		t.Errorf("expected min 10 max 50, got %v %v", lat.MinMs, lat.MaxMs)
	}
	// Sample standard deviation of {10..50 step 10} is sqrt(250).
	if math.Abs(lat.StdDevMs-math.Sqrt(250)) > 1e-9 {
		t.Errorf("expected stddev %.4f, got %v", math.Sqrt(250), lat.StdDevMs)
	}

	want := map[int]float64{50: 30, 75: 40, 90: 50, 95: 50, 99: 50}
	for p, expected := range want {
		if got := lat.Percentiles[p]; got != expected {
			t.Errorf("P%d: expected %v, got %v", p, expected, got)
		}
	}
}

func TestReportSingleSuccessStdDevZero(t *testing.T) {
	c := metrics.NewCollector()
	c.Record(success(1, 200, 42, time.Now()))

	rep := c.Report(1)
	if rep.Latency == nil {
		t.Fatalf("expected latency stats")
	}
	if rep.Latency.StdDevMs != 0 {
		t.Errorf("expected stddev 0 for single sample, got %v", rep.Latency.StdDevMs)
	}
	if rep.Latency.MedianMs != 42 {
		t.Errorf("expected median 42, got %v", rep.Latency.MedianMs)
	}
}

func TestReportAllFailed(t *testing.T) {
	c := metrics.NewCollector()
	base := time.Now()

	c.Record(failure(1, metrics.ErrorKindTimeout, 30000, base))
	c.Record(failure(2, metrics.ErrorKindTimeout, 30000, base))
	c.Record(failure(3, metrics.ErrorKindConnection, 5, base))

	rep := c.Report(10)

	if rep.Total != 3 || rep.Failed != 3 || rep.Successful != 0 {
		t.Errorf("unexpected counts: %+v", rep)
	}
	if rep.SuccessRate != 0 {
		t.Errorf("expected success rate 0, got %v", rep.SuccessRate)
	}
	if rep.Latency != nil {
		t.Errorf("expected latency stats skipped when no successes")
	}
	if rep.ErrorKinds["Timeout"] != 2 || rep.ErrorKinds["Connection Error"] != 1 {
		t.Errorf("unexpected error histogram: %v", rep.ErrorKinds)
	}
}

func TestReportStatusHistogramCountsErrorResponses(t *testing.T) {
	c := metrics.NewCollector()
	base := time.Now()

	c.Record(success(1, 200, 10, base))
	c.Record(success(2, 200, 10, base))
	c.Record(success(3, 404, 10, base))
	c.Record(success(4, 500, 10, base))

	rep := c.Report(4)

	// A completed response is a successful outcome even for 4xx/5xx.
	if rep.Successful != 4 {
		t.Errorf("expected 4 successful outcomes, got %d", rep.Successful)
	}
	if rep.StatusCodes[200] != 2 || rep.StatusCodes[404] != 1 || rep.StatusCodes[500] != 1 {
		t.Errorf("unexpected status histogram: %v", rep.StatusCodes)
	}
}

func TestThroughputEfficiency(t *testing.T) {
	c := metrics.NewCollector()
	base := time.Now()

	// 80 outcomes over an observed span of exactly one second.
	for i := 1; i < 80; i++ {
		c.Record(success(i, 200, 10, base))
	}
	c.Record(success(80, 200, 10, base.Add(time.Second)))

	rep := c.Report(100)

	if math.Abs(rep.ObservedRate-80) > 1e-9 {
		t.Errorf("expected observed rate 80, got %v", rep.ObservedRate)
	}
	if math.Abs(rep.Efficiency-80.0) > 1e-9 {
		t.Errorf("expected efficiency 80.0, got %v", rep.Efficiency)
	}
}

func TestReportZeroDuration(t *testing.T) {
	c := metrics.NewCollector()
	at := time.Now()

	c.Record(success(1, 200, 5, at))
	c.Record(success(2, 200, 5, at))

	rep := c.Report(10)

	if rep.ObservedRate != 0 {
		t.Errorf("expected observed rate 0 when all outcomes share a timestamp, got %v", rep.ObservedRate)
	}
	if rep.Efficiency != 0 {
		t.Errorf("expected efficiency 0, got %v", rep.Efficiency)
	}
}

func TestLatencyBucketsCoverAllOutcomes(t *testing.T) {
	c := metrics.NewCollector()
	base := time.Now()

	c.Record(success(1, 200, 50, base))
	c.Record(success(2, 200, 100, base))
	c.Record(success(3, 200, 499, base))
	c.Record(success(4, 200, 500, base))
	c.Record(failure(5, metrics.ErrorKindTimeout, 30000, base))

	rep := c.Report(5)

	if rep.Buckets.Fast != 1 {
		t.Errorf("expected 1 fast outcome, got %d", rep.Buckets.Fast)
	}
	if rep.Buckets.Medium != 2 {
		t.Errorf("expected 2 medium outcomes, got %d", rep.Buckets.Medium)
	}
	// Failed outcomes count toward the distribution too.
	if rep.Buckets.Slow != 2 {
		t.Errorf("expected 2 slow outcomes, got %d", rep.Buckets.Slow)
	}
}

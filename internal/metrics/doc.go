// Package metrics provides outcome collection and aggregation for load test runs.
//
// The metrics package owns the stream of per-request outcomes produced during a
// run and turns it into summary statistics on demand.
//
// # Collector
//
// The central [Collector] type is the only shared mutable state in a run. Request
// workers hand it one [Outcome] per request id:
//
//	collector := metrics.NewCollector()
//
//	// Record an outcome (safe from many goroutines)
//	collector.Record(outcome)
//
//	// Derive the final statistics
//	report := collector.Report(targetRate)
//
// # Report
//
// The [Report] type is a pure function of the recorded outcomes and can be taken
// at any time, including mid-run or after cancellation:
//   - Request counts (total, successful, failed) and success rate
//   - Observed duration, observed rate and throughput efficiency
//   - Latency statistics over successful outcomes (mean, median, min, max,
//     standard deviation) and the nearest-rank percentile ladder
//     (P50, P75, P90, P95, P99)
//   - Status-code, error-kind and latency-bucket histograms
//
// # Live Snapshots
//
// [Collector.Snapshot] returns cheap running counts plus approximate percentiles
// backed by an HDR histogram, intended for progress reporting while the run is
// still in flight. The final Report always recomputes exact percentiles from the
// full sample.
//
// # Thread Safety
//
// Record, Snapshot and Report are all safe for concurrent use. Outcomes are
// immutable once recorded and are never removed.
package metrics

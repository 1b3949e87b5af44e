// Package threshold evaluates performance assertions against a finished run's
// report, so CI pipelines can fail a build on regressions.
package threshold

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pummelhq/pummel/internal/metrics"
)

// Threshold represents a performance assertion that can pass or fail.
type Threshold struct {
	Metric    string  // e.g., "http_req_duration", "http_req_failed"
	Aggregate string  // e.g., "p95", "p99", "avg", "max", "rate"
	Operator  string  // e.g., "<", "<=", ">", ">=", "=="
	Value     float64 // the value to compare against
	Raw       string  // original threshold string for display
}

// Result represents the outcome of evaluating a threshold.
type Result struct {
	Threshold Threshold
	Actual    float64
	Pass      bool
	Message   string
}

var thresholdPattern = regexp.MustCompile(`^([a-z_]+):([a-z0-9]+)\s*([<>=!]+)\s*([0-9.]+)$`)

// Parse parses a threshold string.
// Supported formats:
//   - "http_req_duration:p95 < 500"  (latency percentile in ms)
//   - "http_req_duration:avg < 200"  (mean latency in ms)
//   - "http_req_duration:max < 1000" (max latency in ms)
//   - "http_req_failed:rate < 0.01"  (failure rate as decimal)
//   - "http_req_failed:count < 10"   (failure count)
//   - "http_requests:rate > 100"     (observed requests per second)
func Parse(s string) (Threshold, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Threshold{}, fmt.Errorf("empty threshold string")
	}

	matches := thresholdPattern.FindStringSubmatch(s)
	if matches == nil {
		return Threshold{}, fmt.Errorf("invalid threshold format: %q (expected metric:aggregate operator value, e.g. 'http_req_duration:p95 < 500')", s)
	}

	metric, aggregate, operator, valueStr := matches[1], matches[2], matches[3], matches[4]

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return Threshold{}, fmt.Errorf("invalid threshold value %q: %v", valueStr, err)
	}

	if !isValidMetric(metric) {
		return Threshold{}, fmt.Errorf("unsupported metric: %q (supported: http_req_duration, http_req_failed, http_requests)", metric)
	}
	if !isValidAggregate(aggregate) {
		return Threshold{}, fmt.Errorf("unsupported aggregate: %q (supported: p50, p75, p90, p95, p99, avg, min, max, rate, count)", aggregate)
	}
	if !isValidOperator(operator) {
		return Threshold{}, fmt.Errorf("unsupported operator: %q (supported: <, <=, >, >=, ==)", operator)
	}

	return Threshold{
		Metric:    metric,
		Aggregate: aggregate,
		Operator:  operator,
		Value:     value,
		Raw:       s,
	}, nil
}

// ParseMultiple parses multiple threshold strings.
func ParseMultiple(thresholds []string) ([]Threshold, error) {
	if len(thresholds) == 0 {
		return nil, nil
	}

	result := make([]Threshold, 0, len(thresholds))
	var issues []string

	for i, s := range thresholds {
		t, err := Parse(s)
		if err != nil {
			issues = append(issues, fmt.Sprintf("threshold[%d]: %v", i, err))
			continue
		}
		result = append(result, t)
	}

	if len(issues) > 0 {
		return nil, fmt.Errorf("threshold parsing errors: %s", strings.Join(issues, "; "))
	}
	return result, nil
}

// Evaluate checks all thresholds against the report.
func Evaluate(thresholds []Threshold, rep metrics.Report) []Result {
	if len(thresholds) == 0 {
		return nil
	}

	results := make([]Result, 0, len(thresholds))
	for _, t := range thresholds {
		results = append(results, evaluateOne(t, rep))
	}
	return results
}

func evaluateOne(t Threshold, rep metrics.Report) Result {
	actual, err := extractMetricValue(t, rep)
	if err != nil {
		return Result{
			Threshold: t,
			Pass:      false,
			Message:   fmt.Sprintf("error: %v", err),
		}
	}

	pass := compareValues(actual, t.Operator, t.Value)
	status := "PASS"
	if !pass {
		status = "FAIL"
	}

	return Result{
		Threshold: t,
		Actual:    actual,
		Pass:      pass,
		Message:   fmt.Sprintf("%s %s: %.2f %s %.2f", status, t.Raw, actual, t.Operator, t.Value),
	}
}

func isValidMetric(metric string) bool {
	switch metric {
	case "http_req_duration", "http_req_failed", "http_requests":
		return true
	}
	return false
}

func isValidAggregate(aggregate string) bool {
	switch aggregate {
	case "p50", "p75", "p90", "p95", "p99", "avg", "mean", "min", "max", "rate", "count":
		return true
	}
	return false
}

func isValidOperator(operator string) bool {
	switch operator {
	case "<", "<=", ">", ">=", "==":
		return true
	}
	return false
}

func extractMetricValue(t Threshold, rep metrics.Report) (float64, error) {
	switch t.Metric {
	case "http_req_duration":
		return extractLatencyMetric(t.Aggregate, rep)
	case "http_req_failed":
		return extractFailureMetric(t.Aggregate, rep)
	case "http_requests":
		return extractRequestMetric(t.Aggregate, rep)
	default:
		return 0, fmt.Errorf("unknown metric: %s", t.Metric)
	}
}

func extractLatencyMetric(aggregate string, rep metrics.Report) (float64, error) {
	lat := rep.Latency
	if lat == nil {
		return 0, fmt.Errorf("no successful requests recorded")
	}

	switch aggregate {
	case "p50", "p75", "p90", "p95", "p99":
		p, err := strconv.Atoi(aggregate[1:])
		if err != nil {
			return 0, fmt.Errorf("invalid percentile %q", aggregate)
		}
		value, ok := lat.Percentiles[p]
		if !ok {
			return 0, fmt.Errorf("percentile %q not reported", aggregate)
		}
		return value, nil
	case "avg", "mean":
		return lat.MeanMs, nil
	case "min":
		return lat.MinMs, nil
	case "max":
		return lat.MaxMs, nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for http_req_duration", aggregate)
	}
}

func extractFailureMetric(aggregate string, rep metrics.Report) (float64, error) {
	switch aggregate {
	case "count":
		return float64(rep.Failed), nil
	case "rate":
		if rep.Total == 0 {
			return 0, nil
		}
		return float64(rep.Failed) / float64(rep.Total), nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for http_req_failed (use 'count' or 'rate')", aggregate)
	}
}

func extractRequestMetric(aggregate string, rep metrics.Report) (float64, error) {
	switch aggregate {
	case "count":
		return float64(rep.Total), nil
	case "rate":
		return rep.ObservedRate, nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for http_requests (use 'count' or 'rate')", aggregate)
	}
}

func compareValues(actual float64, operator string, expected float64) bool {
	const epsilon = 1e-9

	switch operator {
	case "<":
		return actual < expected
	case "<=":
		return actual <= expected || math.Abs(actual-expected) < epsilon
	case ">":
		return actual > expected
	case ">=":
		return actual >= expected || math.Abs(actual-expected) < epsilon
	case "==":
		return math.Abs(actual-expected) < epsilon
	default:
		return false
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestRunEndToEnd(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := run([]string{
		"--target", srv.URL,
		"--rate", "50",
		"--total", "20",
		"--no-progress",
	}, strings.NewReader(""), &out)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if got := atomic.LoadInt64(&hits); got != 20 {
		t.Errorf("expected 20 requests to reach the server, got %d", got)
	}
	if !strings.Contains(out.String(), "Total Requests:    20") {
		t.Errorf("expected summary in output, got:\n%s", out.String())
	}
}

func TestRunProgressShowsLatencySnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := run([]string{
		"--target", srv.URL,
		"--rate", "20",
		"--total", "20",
	}, strings.NewReader(""), &out)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "20 / 20") {
		t.Errorf("expected progress counters, got:\n%s", got)
	}
	if !strings.Contains(got, "p50 ") || !strings.Contains(got, "p99 ") {
		t.Errorf("expected live latency snapshot next to the bar, got:\n%s", got)
	}
}

func TestRunJSONOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := run([]string{
		"--target", srv.URL,
		"--rate", "10",
		"--total", "10",
		"--json-output",
	}, strings.NewReader(""), &out)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	var report map[string]interface{}
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("expected JSON report, got error %v:\n%s", err, out.String())
	}
	if report["total"].(float64) != 10 {
		t.Errorf("expected total 10, got %v", report["total"])
	}
}

func TestRunThresholdFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := run([]string{
		"--target", srv.URL,
		"--rate", "5",
		"--total", "5",
		"--no-progress",
		"--threshold", "http_req_duration:p95 < 0.000001",
	}, strings.NewReader(""), &out)
	if err == nil {
		t.Fatalf("expected threshold failure error")
	}
	if !strings.Contains(err.Error(), "threshold") {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "FAIL") {
		t.Errorf("expected FAIL line in threshold section, got:\n%s", out.String())
	}
}

func TestRunValidationFailure(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{
		"--target", "not a url",
		"--rate", "5",
		"--total", "5",
	}, strings.NewReader(""), &out)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRunInvalidThresholdRejectedBeforeLoad(t *testing.T) {
	// The target is never hit: threshold parsing fails first.
	var out bytes.Buffer
	err := run([]string{
		"--target", "http://127.0.0.1:1",
		"--rate", "1",
		"--total", "1",
		"--threshold", "bogus",
	}, strings.NewReader(""), &out)
	if err == nil {
		t.Fatalf("expected threshold parse error")
	}
	if !strings.Contains(err.Error(), "threshold") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRunHelp(t *testing.T) {
	if err := run([]string{"--help"}, strings.NewReader(""), &bytes.Buffer{}); err != nil {
		t.Errorf("help must not be an error: %v", err)
	}
}

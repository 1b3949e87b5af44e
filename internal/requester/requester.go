// Package requester performs individual HTTP request attempts and converts
// every failure mode into a classified outcome. Nothing escapes its boundary:
// a request either yields a server status or an outcome describing why not.
package requester

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/pummelhq/pummel/internal/config"
	"github.com/pummelhq/pummel/internal/metrics"
	"github.com/pummelhq/pummel/internal/useragent"
)

// Executor issues one HTTP call per request id against the configured target.
type Executor struct {
	client   *http.Client
	method   string
	target   string
	body     []byte
	randomUA bool
}

// New builds an Executor bound to a validated configuration and a pooled client.
func New(cfg *config.Config, client *http.Client) *Executor {
	method := strings.ToUpper(strings.TrimSpace(cfg.Method))
	var body []byte
	if config.BodyMethods(method) && cfg.Body != "" {
		body = []byte(cfg.Body)
	}
	return &Executor{
		client:   client,
		method:   method,
		target:   cfg.TargetURL,
		body:     body,
		randomUA: cfg.RandomUserAgent,
	}
}

// NewClient creates the pooled HTTP client owned by a single run. Connection
// limits scale with the target rate, capped to protect the process and the
// remote peer; the caller must CloseIdleConnections on every exit path.
func NewClient(cfg *config.Config) *http.Client {
	dialer := &net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxConnsPerHost:       capConns(cfg.Rate, 1000),
		MaxIdleConns:          capConns(2*cfg.Rate, 2000),
		MaxIdleConnsPerHost:   capConns(cfg.Rate, 1000),
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}
}

func capConns(n, ceiling int) int {
	if n < 1 {
		return 1
	}
	if n > ceiling {
		return ceiling
	}
	return n
}

// Do performs a single attempt. Latency measurement starts immediately before
// the call is issued and stops the instant a terminal state is known; the
// response body is drained afterwards so the connection can be reused.
func (e *Executor) Do(ctx context.Context, requestID int) metrics.Outcome {
	start := time.Now()

	req, err := e.buildRequest(ctx)
	if err != nil {
		return e.failure(requestID, start, metrics.ErrorKindUnexpected, err)
	}

	resp, err := e.client.Do(req)
	latency := msSince(start)
	if err != nil {
		// Operator cancellation aborting an in-flight request is not a fault
		// of the target; the attempt resolves without a recordable outcome.
		if errors.Is(err, context.Canceled) {
			return metrics.Outcome{
				RequestID:  requestID,
				LatencyMs:  latency,
				ObservedAt: time.Now(),
			}
		}
		kind, detail := Classify(err)
		return metrics.Outcome{
			RequestID:   requestID,
			LatencyMs:   latency,
			ErrorKind:   kind,
			ErrorDetail: detail,
			ObservedAt:  time.Now(),
		}
	}

	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return metrics.Outcome{
		RequestID:  requestID,
		StatusCode: resp.StatusCode,
		LatencyMs:  latency,
		ObservedAt: time.Now(),
	}
}

func (e *Executor) buildRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if len(e.body) > 0 {
		body = bytes.NewReader(e.body)
	}

	req, err := http.NewRequestWithContext(ctx, e.method, e.target, body)
	if err != nil {
		return nil, err
	}

	if len(e.body) > 0 {
		req.Header.Set("Content-Type", "application/json")
		req.ContentLength = int64(len(e.body))
	}
	if e.randomUA {
		req.Header.Set("User-Agent", useragent.Random())
	}
	return req, nil
}

func (e *Executor) failure(requestID int, start time.Time, kind metrics.ErrorKind, err error) metrics.Outcome {
	return metrics.Outcome{
		RequestID:   requestID,
		LatencyMs:   msSince(start),
		ErrorKind:   kind,
		ErrorDetail: err.Error(),
		ObservedAt:  time.Now(),
	}
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}

// Classify maps a transport-layer error onto the outcome taxonomy. Deadline
// expiry wins over everything else; connection-level faults come next; any
// remaining client-library error is a client error with its reported message.
func Classify(err error) (metrics.ErrorKind, string) {
	if err == nil {
		return "", ""
	}
	detail := err.Error()

	var urlErr *url.Error
	fromClient := errors.As(err, &urlErr)
	inner := err
	if fromClient {
		inner = urlErr.Err
	}

	if errors.Is(inner, context.DeadlineExceeded) {
		return metrics.ErrorKindTimeout, detail
	}
	var netErr net.Error
	if errors.As(inner, &netErr) && netErr.Timeout() {
		return metrics.ErrorKindTimeout, detail
	}

	var opErr *net.OpError
	switch {
	case errors.As(inner, &opErr),
		errors.Is(inner, io.EOF),
		errors.Is(inner, io.ErrUnexpectedEOF),
		errors.Is(inner, syscall.ECONNREFUSED),
		errors.Is(inner, syscall.ECONNRESET),
		errors.Is(inner, syscall.EPIPE):
		return metrics.ErrorKindConnection, detail
	}

	if fromClient {
		return metrics.ErrorKindClient, detail
	}
	return metrics.ErrorKindUnexpected, detail
}

package metrics

import "time"

// ErrorKind classifies why a request attempt failed before a status was
// obtainable.
type ErrorKind string

const (
	ErrorKindTimeout    ErrorKind = "timeout"
	ErrorKindConnection ErrorKind = "connection_error"
	ErrorKindClient     ErrorKind = "client_error"
	ErrorKindUnexpected ErrorKind = "unexpected_error"
)

// Label returns the human-readable name used in reports.
func (k ErrorKind) Label() string {
	switch k {
	case ErrorKindTimeout:
		return "Timeout"
	case ErrorKindConnection:
		return "Connection Error"
	case ErrorKindClient:
		return "Client Error"
	case ErrorKindUnexpected:
		return "Unexpected Error"
	default:
		return string(k)
	}
}

// Outcome is the immutable terminal result of one request attempt.
//
// StatusCode carries the numeric HTTP status when the server produced one
// (4xx/5xx responses included). A StatusCode of 0 marks a failure before any
// status was obtainable; ErrorKind is set exactly in that case.
type Outcome struct {
	RequestID   int       `json:"request_id"`
	StatusCode  int       `json:"status_code"`
	LatencyMs   float64   `json:"latency_ms"`
	ErrorKind   ErrorKind `json:"error_kind,omitempty"`
	ErrorDetail string    `json:"error_detail,omitempty"`
	ObservedAt  time.Time `json:"observed_at"`
}

// Failed reports whether the attempt resolved without a server-observed status.
func (o Outcome) Failed() bool {
	return o.StatusCode == 0
}

// Recordable reports whether the attempt produced an observation worth
// aggregating. Attempts abandoned by run cancellation resolve with neither a
// status nor an error kind and never reach the collection.
func (o Outcome) Recordable() bool {
	return o.StatusCode != 0 || o.ErrorKind != ""
}

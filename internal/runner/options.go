package runner

import (
	"context"
	"errors"

	"golang.org/x/time/rate"

	"github.com/pummelhq/pummel/internal/metrics"
)

// Executor performs a single request attempt identified by request id. It must
// never panic or return: every failure mode is encoded in the Outcome.
type Executor interface {
	Do(ctx context.Context, requestID int) metrics.Outcome
}

// Recorder receives each outcome exactly once, in completion order.
type Recorder interface {
	Record(metrics.Outcome)
}

// Pacer gates the start of each batch after the first.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Options configure a Dispatcher.
type Options struct {
	Rate     int      // target requests per second (> 0)
	Total    int      // total requests to execute (> 0)
	Executor Executor // request executor (required)
	Recorder Recorder // outcome sink (required)

	// OnOutcome, if set, is invoked after each outcome is recorded. Used for
	// progress reporting and failure logging.
	OnOutcome func(metrics.Outcome)

	// PacerFactory is an optional injection point for tests. The default hands
	// out one batch ticket per second from a token-bucket limiter.
	PacerFactory func() Pacer
}

func (o *Options) validate() error {
	if o.Executor == nil {
		return errors.New("runner: executor is required")
	}
	if o.Recorder == nil {
		return errors.New("runner: recorder is required")
	}
	if o.Rate < 1 {
		return errors.New("runner: rate must be >= 1")
	}
	if o.Total < 1 {
		return errors.New("runner: total must be >= 1")
	}
	return nil
}

func (o *Options) normalize() {
	if o.PacerFactory == nil {
		o.PacerFactory = func() Pacer {
			return rate.NewLimiter(rate.Limit(1), 1)
		}
	}
}

// batchSizeFor models "requests per second" as "requests per batch, one batch
// per second". High rates are chunked and capped; low rates map one-to-one.
func batchSizeFor(targetRate int) int {
	if targetRate >= 100 {
		if targetRate > maxGateCapacity {
			return maxGateCapacity
		}
		return targetRate
	}
	return targetRate
}

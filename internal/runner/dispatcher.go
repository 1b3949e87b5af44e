package runner

import (
	"context"
	"sync"
	"time"
)

// State identifies where a Dispatcher is in its lifecycle.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
	StateFailed    State = "failed"
)

// Result captures the terminal summary of one run.
type Result struct {
	State    State
	Launched int           // request ids assigned to launched batches
	Elapsed  time.Duration // wall clock from first batch to last drain
	Err      error         // set only for StateFailed
}

// Dispatcher owns a single run: it partitions the request id space into timed
// batches and drives them through the gate and executor. A Dispatcher is not
// reusable across runs.
type Dispatcher struct {
	opt   Options
	batch int

	mu    sync.Mutex
	state State
}

// New validates the options and returns an idle Dispatcher.
func New(opt Options) (*Dispatcher, error) {
	if err := opt.validate(); err != nil {
		return nil, err
	}
	opt.normalize()
	return &Dispatcher{
		opt:   opt,
		batch: batchSizeFor(opt.Rate),
		state: StateIdle,
	}, nil
}

// State returns the current lifecycle state.
func (d *Dispatcher) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Dispatcher) setState(s State) {
	d.mu.Lock()
	d.state = s
	d.mu.Unlock()
}

// Run executes the whole request id space [1, Total]. It blocks until every
// batch has drained or the context is cancelled, then reports the terminal
// state. Outcomes recorded before cancellation are never discarded.
func (d *Dispatcher) Run(ctx context.Context) Result {
	start := time.Now()
	d.setState(StateRunning)

	pacer := d.opt.PacerFactory()
	launched := 0

	for first := 1; first <= d.opt.Total; first += d.batch {
		// The pacer hands out one batch ticket per second; the first ticket is
		// available immediately. A batch always drains fully before the next
		// ticket is requested.
		if err := pacer.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			d.setState(StateFailed)
			return Result{State: StateFailed, Launched: launched, Elapsed: time.Since(start), Err: err}
		}

		last := first + d.batch - 1
		if last > d.opt.Total {
			last = d.opt.Total
		}
		d.runBatch(ctx, first, last)
		launched += last - first + 1

		if ctx.Err() != nil {
			break
		}
	}

	state := StateCompleted
	if ctx.Err() != nil {
		state = StateCancelled
	}
	d.setState(state)
	return Result{State: state, Launched: launched, Elapsed: time.Since(start)}
}

// runBatch launches one goroutine per request id and waits for all of them to
// reach a terminal state. An individual failure never aborts sibling tasks;
// failures arrive at the recorder as outcomes, not as batch-level errors.
func (d *Dispatcher) runBatch(ctx context.Context, first, last int) {
	g := newGate(last - first + 1)

	var wg sync.WaitGroup
	for id := first; id <= last; id++ {
		wg.Add(1)
		go func(requestID int) {
			defer wg.Done()
			if err := g.acquire(ctx); err != nil {
				// Cancelled before admission: the request is never issued.
				return
			}
			defer g.release()
			if ctx.Err() != nil {
				return
			}

			outcome := d.opt.Executor.Do(ctx, requestID)
			if !outcome.Recordable() {
				// Abandoned mid-flight; nothing was observed.
				return
			}
			d.opt.Recorder.Record(outcome)
			if d.opt.OnOutcome != nil {
				d.opt.OnOutcome(outcome)
			}
		}(id)
	}
	wg.Wait()
}

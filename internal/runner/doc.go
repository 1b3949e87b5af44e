// Package runner provides the batch dispatch engine for pummel.
//
// The runner partitions a fixed total of request ids into consecutive batches
// sized from the target rate, drives one goroutine per id through a counting
// admission gate, and paces batch starts to approximate the target throughput.
//
// # Basic Usage
//
// Create a dispatcher with options and run it:
//
//	d, err := runner.New(runner.Options{
//		Rate:     100,
//		Total:    1000,
//		Executor: exec,
//		Recorder: collector,
//	})
//	result := d.Run(ctx)
//
// # Pacing
//
// Rate control is open loop and best effort: the contract is "attempt to issue
// Rate requests per second, bounded by batch concurrency", not a precise
// schedule. A batch fully drains before the next batch's pacing delay begins;
// the delay itself is issued by a token-bucket limiter handing out one batch
// ticket per second.
//
// # Cancellation
//
// Cancelling the context stops new batches from launching, lets the in-flight
// batch drain, and leaves every already-recorded outcome intact. The recorder
// can be queried for a valid partial report afterwards.
package runner

// Package rrs is the top-level driver for the reactive synchronous runtime:
// it wires a process onto a scheduler.ParallelRuntime, runs it to
// completion, and reports either the produced value or a stall.
package rrs

import (
	"fmt"

	"github.com/reactorkit/rrs/process"
	"github.com/reactorkit/rrs/scheduler"
)

// Standard errors.
var (
	// ErrDeadlock is returned when a run with no instant cap terminates with
	// every queue observed empty but no value was ever stored — the process
	// was still waiting on a signal that never fired.
	ErrDeadlock = fmt.Errorf("rrs: deadlock: scheduler terminated with no result")

	// ErrIterationCap is returned when a run with a MaxInstants bound ends
	// without producing a value. The cap is not checked against the number
	// of instants actually run, so a run that stalls before reaching the
	// cap is also reported as ErrIterationCap, not ErrDeadlock.
	ErrIterationCap = fmt.Errorf("rrs: iteration cap reached with no result")
)

// Unbounded means Execute should not cap the number of instants.
const Unbounded = 0

// config holds resolved Execute options.
type config struct {
	workers     int
	maxInstants int
	schedOpts   []scheduler.Option
}

// ExecuteOption configures a call to Execute.
type ExecuteOption interface {
	apply(*config)
}

type executeOptionFunc struct{ fn func(*config) }

func (o executeOptionFunc) apply(c *config) { o.fn(c) }

// WithWorkers sets the number of scheduler workers. Default 1.
func WithWorkers(n int) ExecuteOption {
	return executeOptionFunc{func(c *config) { c.workers = n }}
}

// WithMaxInstants caps the number of instants a run may take before it is
// reported as ErrIterationCap. Default Unbounded.
func WithMaxInstants(n int) ExecuteOption {
	return executeOptionFunc{func(c *config) { c.maxInstants = n }}
}

// WithSchedulerOptions forwards options to the underlying
// scheduler.ParallelRuntime (logging, steal backoff, ...).
func WithSchedulerOptions(opts ...scheduler.Option) ExecuteOption {
	return executeOptionFunc{func(c *config) { c.schedOpts = append(c.schedOpts, opts...) }}
}

// PanicError wraps a panic that Execute recovers on the calling goroutine.
// The process itself runs on the scheduler's worker goroutines, where
// nothing recovers, so a panic raised inside p is not turned into a
// PanicError: it crashes the program.
type PanicError struct {
	Value any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("rrs: panic during execution: %v", e.Value)
}

// Unwrap returns the underlying error if the recovered panic value is an
// error, enabling errors.Is/errors.As through the cause chain.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Execute constructs a parallel runtime, runs p to completion, and returns
// its value. It returns ErrDeadlock or ErrIterationCap if the run ended
// without producing a value. Its deferred recover only sees panics on the
// calling goroutine; a panic inside p, which runs on a worker goroutine,
// is not recovered (see PanicError).
func Execute[V any](p process.Process[V], opts ...ExecuteOption) (result V, err error) {
	cfg := &config{workers: 1}
	for _, opt := range opts {
		opt.apply(cfg)
	}

	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()

	var (
		value V
		filled bool
	)

	pr := scheduler.NewParallelRuntime(cfg.workers, cfg.schedOpts...)
	pr.Execute(func(rt *scheduler.Runtime) {
		p.Call(rt, func(rt *scheduler.Runtime, v V) {
			value = v
			filled = true
		})
	}, cfg.maxInstants)

	if !filled {
		if cfg.maxInstants > 0 {
			return result, ErrIterationCap
		}
		return result, ErrDeadlock
	}
	return value, nil
}

// ExecuteUnsafe behaves like Execute without the deferred recover on the
// calling goroutine. In both, a panic raised while running p happens on a
// worker goroutine and is fatal to the run, with no recovery.
func ExecuteUnsafe[V any](p process.Process[V], opts ...ExecuteOption) (V, error) {
	cfg := &config{workers: 1}
	for _, opt := range opts {
		opt.apply(cfg)
	}

	var (
		value  V
		filled bool
	)

	pr := scheduler.NewParallelRuntime(cfg.workers, cfg.schedOpts...)
	pr.Execute(func(rt *scheduler.Runtime) {
		p.Call(rt, func(rt *scheduler.Runtime, v V) {
			value = v
			filled = true
		})
	}, cfg.maxInstants)

	if !filled {
		if cfg.maxInstants > 0 {
			var zero V
			return zero, ErrIterationCap
		}
		var zero V
		return zero, ErrDeadlock
	}
	return value, nil
}

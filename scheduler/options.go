package scheduler

import "time"

// runtimeOptions holds configuration resolved from a slice of Option values.
type runtimeOptions struct {
	logger  Logger
	backoff time.Duration
}

// Option configures a ParallelRuntime at construction time.
type Option interface {
	applyRuntime(*runtimeOptions)
}

type runtimeOptionFunc struct {
	fn func(*runtimeOptions)
}

func (o *runtimeOptionFunc) applyRuntime(opts *runtimeOptions) { o.fn(opts) }

// WithLogger sets the Logger a ParallelRuntime reports diagnostics to: the
// start and end of each instant, at LevelDebug under category "instant".
// Steals and barrier transitions are not logged. The default is a no-op
// logger.
func WithLogger(logger Logger) Option {
	return &runtimeOptionFunc{func(opts *runtimeOptions) {
		opts.logger = logger
	}}
}

// WithBackoff sets how long a worker sleeps between failed steal sweeps
// when it still believes a peer is working, rather than spinning. Defaults
// to a flat 10ms; exposed as a tunable rather than hard-coded.
func WithBackoff(d time.Duration) Option {
	return &runtimeOptionFunc{func(opts *runtimeOptions) {
		opts.backoff = d
	}}
}

// defaultBackoff is the polling interval used when a worker has nothing to
// steal but the shared counters say a peer is still working.
const defaultBackoff = 10 * time.Millisecond

func resolveOptions(opts []Option) *runtimeOptions {
	cfg := &runtimeOptions{
		logger:  NewNoOpLogger(),
		backoff: defaultBackoff,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyRuntime(cfg)
	}
	return cfg
}

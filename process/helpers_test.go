package process_test

import (
	"github.com/reactorkit/rrs/process"
	"github.com/reactorkit/rrs/scheduler"
)

// run drives p to completion on a fresh ParallelRuntime and returns its
// value. It exists only so this package's tests don't need to depend on the
// rrs package (which itself depends on process).
func run[V any](p process.Process[V], workers int) V {
	pr := scheduler.NewParallelRuntime(workers)
	var value V
	pr.Execute(func(rt *scheduler.Runtime) {
		p.Call(rt, func(rt *scheduler.Runtime, v V) {
			value = v
		})
	}, 0)
	return value
}

package signal_test

import (
	"github.com/reactorkit/rrs/process"
	"github.com/reactorkit/rrs/scheduler"
)

// run drives p to completion on a fresh ParallelRuntime and returns its
// value, mirroring the identically named helper in package process's own
// tests.
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

// mutFromFunc adapts a stateless process-builder closure into a
// process.ProcessMut[V]: each CallMut rebuilds the process tree from
// scratch (picking up whatever has changed in variables the closure
// captured by reference) and hands back the same mutFromFunc as the
// "recovered" process, so LoopWhile can drive it indefinitely.
type mutFromFunc[V any] struct {
	build func() process.Process[V]
}

func (m mutFromFunc[V]) Call(rt *scheduler.Runtime, next process.Continuation[V]) {
	m.build().Call(rt, next)
}

func (m mutFromFunc[V]) CallMut(rt *scheduler.Runtime, next process.Continuation[process.Pair[V]]) {
	m.build().Call(rt, func(rt *scheduler.Runtime, v V) {
		next(rt, process.Pair[V]{P: m, V: v})
	})
}

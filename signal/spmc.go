package signal

import (
	"sync"

	"github.com/reactorkit/rrs/process"
	"github.com/reactorkit/rrs/scheduler"
)

// spmcValueRuntime is the ValueRuntime for an SPMC signal: a single emitter
// replaces the signal's value outright (no gather), and every clone of the
// multi-reader receiver sees the same emitted value each instant.
//
// If SPMCSender.Emit is driven from an immediate loop, each additional
// emission within the same instant simply overwrites the previous one
// before any reader observes it.
type spmcValueRuntime[V any] struct {
	mu        sync.Mutex
	waitingIn []process.Continuation[V]
	value     V
}

func (r *spmcValueRuntime[V]) Emit(rt *scheduler.Runtime, v V) {
	r.mu.Lock()
	r.value = v
	r.mu.Unlock()
}

func (r *spmcValueRuntime[V]) AwaitIn(rt *scheduler.Runtime, c process.Continuation[V]) {
	r.mu.Lock()
	r.waitingIn = append(r.waitingIn, c)
	r.mu.Unlock()
}

func (r *spmcValueRuntime[V]) ReleaseAwaitIn(rt *scheduler.Runtime) {
	r.mu.Lock()
	waiting := r.waitingIn
	r.waitingIn = nil
	value := r.value
	r.mu.Unlock()

	for _, c := range waiting {
		c := c
		rt.OnCurrentInstant(func(rt *scheduler.Runtime) { c(rt, value) })
	}
}

func (r *spmcValueRuntime[V]) Get() V {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value
}

// SPMCSender is the unique, single-producer half of an SPMC signal.
type SPMCSender[V any] struct {
	rt *SignalRuntime[V, V]
}

// SPMCReceiver is the clone-able, multi-reader half of an SPMC signal.
type SPMCReceiver[V any] struct {
	rt *SignalRuntime[V, V]
}

// NewSPMCSignal creates an SPMC signal: one sender, many independent
// receivers that each see every emitted value.
func NewSPMCSignal[V any]() (SPMCSender[V], SPMCReceiver[V]) {
	vr := &spmcValueRuntime[V]{}
	sr := NewSignalRuntime[V, V](vr)
	return SPMCSender[V]{rt: sr}, SPMCReceiver[V]{rt: sr}
}

// Runtime exposes the underlying SignalRuntime.
func (s SPMCSender[V]) Runtime() *SignalRuntime[V, V] { return s.rt }

// Runtime exposes the underlying SignalRuntime.
func (r SPMCReceiver[V]) Runtime() *SignalRuntime[V, V] { return r.rt }

package signal

import (
	"sync"

	"github.com/reactorkit/rrs/process"
	"github.com/reactorkit/rrs/scheduler"
)

// mpmcValueRuntime is the ValueRuntime for ValueSignal: a multi-producer,
// multi-consumer signal whose emissions are folded by Gather into
// accumulated state, reset to Default at the end of every instant.
type mpmcValueRuntime[V1, V2 any] struct {
	mu          sync.Mutex
	waitingIn   []process.Continuation[V2]
	value       V2
	def         V2
	lastEmitted V1
	gather      func(V1, V2) V2
}

func (r *mpmcValueRuntime[V1, V2]) Emit(rt *scheduler.Runtime, v V1) {
	r.mu.Lock()
	r.lastEmitted = v
	r.value = r.gather(v, r.value)
	r.mu.Unlock()
}

func (r *mpmcValueRuntime[V1, V2]) AwaitIn(rt *scheduler.Runtime, c process.Continuation[V2]) {
	r.mu.Lock()
	r.waitingIn = append(r.waitingIn, c)
	r.mu.Unlock()
}

func (r *mpmcValueRuntime[V1, V2]) ReleaseAwaitIn(rt *scheduler.Runtime) {
	r.mu.Lock()
	waiting := r.waitingIn
	r.waitingIn = nil
	value := r.value
	r.value = r.def
	r.mu.Unlock()

	for _, c := range waiting {
		c := c
		rt.OnCurrentInstant(func(rt *scheduler.Runtime) { c(rt, value) })
	}
}

func (r *mpmcValueRuntime[V1, V2]) Get() V1 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastEmitted
}

// ValueSignal is a multi-producer, multi-consumer signal carrying a value:
// each emission folds into accumulated state via gather, which resets to
// the default at the end of every instant.
type ValueSignal[V1, V2 any] struct {
	rt *SignalRuntime[V1, V2]
}

// NewValueSignal creates a ValueSignal with the given per-instant default
// and fold function.
func NewValueSignal[V1, V2 any](def V2, gather func(V1, V2) V2) ValueSignal[V1, V2] {
	vr := &mpmcValueRuntime[V1, V2]{value: def, def: def, gather: gather}
	return ValueSignal[V1, V2]{rt: NewSignalRuntime[V1, V2](vr)}
}

// Runtime exposes the underlying SignalRuntime.
func (s ValueSignal[V1, V2]) Runtime() *SignalRuntime[V1, V2] { return s.rt }

package signal

import (
	"sync"

	"github.com/reactorkit/rrs/process"
	"github.com/reactorkit/rrs/scheduler"
)

// mpscValueRuntime is the ValueRuntime for an MPSC signal: many emitters
// fold into one accumulated value, read by at most one waiting continuation
// per instant (a fresh AwaitIn call replaces any unconsumed prior waiter,
// matching the "single consuming receiver" contract).
type mpscValueRuntime[V1, V2 any] struct {
	mu        sync.Mutex
	waitingIn process.Continuation[V2]
	value     V2
	gather    func(V1, V2) V2
}

func (r *mpscValueRuntime[V1, V2]) Emit(rt *scheduler.Runtime, v V1) {
	r.mu.Lock()
	r.value = r.gather(v, r.value)
	r.mu.Unlock()
}

func (r *mpscValueRuntime[V1, V2]) AwaitIn(rt *scheduler.Runtime, c process.Continuation[V2]) {
	r.mu.Lock()
	r.waitingIn = c
	r.mu.Unlock()
}

func (r *mpscValueRuntime[V1, V2]) ReleaseAwaitIn(rt *scheduler.Runtime) {
	r.mu.Lock()
	c := r.waitingIn
	r.waitingIn = nil
	value := r.value
	var zero V2
	r.value = zero
	r.mu.Unlock()

	if c != nil {
		rt.OnCurrentInstant(func(rt *scheduler.Runtime) { c(rt, value) })
	}
}

func (r *mpscValueRuntime[V1, V2]) Get() V1 {
	panic("signal: Get is not supported on an MPSC signal")
}

// MPSCSender is the clone-able, multi-producer half of an MPSC signal.
type MPSCSender[V1, V2 any] struct {
	rt *SignalRuntime[V1, V2]
}

// MPSCReceiver is the unique, single-consumer half of an MPSC signal.
type MPSCReceiver[V1, V2 any] struct {
	rt *SignalRuntime[V1, V2]
}

// NewMPSCSignal creates an MPSC signal: emissions fold via gather into a
// value that the single receiver reads back with AwaitIn.
func NewMPSCSignal[V1, V2 any](gather func(V1, V2) V2) (MPSCSender[V1, V2], MPSCReceiver[V1, V2]) {
	vr := &mpscValueRuntime[V1, V2]{gather: gather}
	sr := NewSignalRuntime[V1, V2](vr)
	return MPSCSender[V1, V2]{rt: sr}, MPSCReceiver[V1, V2]{rt: sr}
}

// Runtime exposes the underlying SignalRuntime.
func (s MPSCSender[V1, V2]) Runtime() *SignalRuntime[V1, V2] { return s.rt }

// Runtime exposes the underlying SignalRuntime.
func (r MPSCReceiver[V1, V2]) Runtime() *SignalRuntime[V1, V2] { return r.rt }

// Package signal implements the reactive signal runtime: broadcast
// rendezvous variables with synchronous presence semantics, built on top of
// the process combinator algebra in package process.
//
// Every signal kind shares the same SignalRuntime core (a presence flag
// plus four continuation queues) and differs only in its ValueRuntime: the
// strategy that defines how emitted values are folded, stored and read back
// (see ValueRuntime below). The four concrete kinds live in pure.go,
// value.go, mpsc.go and spmc.go.
package signal

import (
	"sync"

	"github.com/reactorkit/rrs/process"
	"github.com/reactorkit/rrs/scheduler"
)

// ValueRuntime is the per-kind capability bundle a SignalRuntime delegates
// value handling to: how an emission updates accumulated state, how readers
// queue up and get released, and how a one-shot snapshot is taken.
type ValueRuntime[V1, V2 any] interface {
	// Emit folds v into the accumulated state.
	Emit(rt *scheduler.Runtime, v V1)
	// AwaitIn queues c to be resolved at the end of the next instant in
	// which the signal is emitted.
	AwaitIn(rt *scheduler.Runtime, c process.Continuation[V2])
	// ReleaseAwaitIn drains every queued reader with the resolved value, each
	// dispatched to run in the next instant. The ValueSignal and MPSC
	// implementations then reset their accumulated value; the SPMC one keeps
	// its last emitted value.
	ReleaseAwaitIn(rt *scheduler.Runtime)
	// Get snapshots the current (or last-emitted) input value.
	Get() V1
}

// SignalRuntime holds everything common to every signal kind: the presence
// flag and the four continuation queues, plus the kind-specific
// ValueRuntime. It is always shared by pointer between a signal's clones.
type SignalRuntime[V1, V2 any] struct {
	mu                  sync.Mutex
	present             bool
	waitingImmediate    []func(rt *scheduler.Runtime)
	waitingOneImmediate []process.Continuation[V1]
	testingPresent      []process.Continuation[bool]
	waiting             []func(rt *scheduler.Runtime)

	value ValueRuntime[V1, V2]
}

// NewSignalRuntime constructs a SignalRuntime around the given value
// strategy.
func NewSignalRuntime[V1, V2 any](value ValueRuntime[V1, V2]) *SignalRuntime[V1, V2] {
	return &SignalRuntime[V1, V2]{value: value}
}

// OnSignal calls c at the first instant the signal is present, the current
// one included.
func (s *SignalRuntime[V1, V2]) OnSignal(rt *scheduler.Runtime, c process.Continuation[struct{}]) {
	s.mu.Lock()
	present := s.present
	if !present {
		s.waitingImmediate = append(s.waitingImmediate, func(rt *scheduler.Runtime) { c(rt, struct{}{}) })
	}
	s.mu.Unlock()
	if present {
		c(rt, struct{}{})
	}
}

// Await calls c at the instant following the first instant the signal is
// present. The continuation is queued onto waiting unconditionally: if the
// signal is already present this instant, the drain Emit already scheduled
// for this instant's end picks it up; if not, whichever future Emit first
// makes the signal present schedules the drain that will.
func (s *SignalRuntime[V1, V2]) Await(rt *scheduler.Runtime, c process.Continuation[struct{}]) {
	s.mu.Lock()
	s.waiting = append(s.waiting, func(rt *scheduler.Runtime) { c(rt, struct{}{}) })
	s.mu.Unlock()
}

// Present calls c with true the first instant the signal is present, or
// with false at the end of the instant once presence is known to have
// failed for good this instant. Only the first presence test registered
// while the signal is absent installs the end-of-instant drain; later ones
// just join the same queue.
func (s *SignalRuntime[V1, V2]) Present(rt *scheduler.Runtime, c process.Continuation[bool]) {
	s.mu.Lock()
	if s.present {
		s.mu.Unlock()
		c(rt, true)
		return
	}
	wasEmpty := len(s.testingPresent) == 0
	s.testingPresent = append(s.testingPresent, c)
	s.mu.Unlock()

	if wasEmpty {
		rt.OnEndOfInstant(func(rt *scheduler.Runtime) {
			s.mu.Lock()
			pending := s.testingPresent
			s.testingPresent = nil
			s.mu.Unlock()
			for _, cont := range pending {
				cont := cont
				rt.OnCurrentInstant(func(rt *scheduler.Runtime) {
					cont(rt, false)
				})
			}
		})
	}
}

// Emit marks the signal present for the current instant (the first time
// this is called this instant) and folds v into the accumulated value via
// the ValueRuntime. On the transition to present it releases every
// immediate and one-immediate waiter, resolves every pending presence test
// to true, and schedules an end-of-instant continuation that resets
// presence to false and releases the deferred waiters and value readers.
func (s *SignalRuntime[V1, V2]) Emit(rt *scheduler.Runtime, v V1) {
	s.value.Emit(rt, v)

	s.mu.Lock()
	if s.present {
		s.mu.Unlock()
		return
	}
	s.present = true

	waitingImmediate := s.waitingImmediate
	s.waitingImmediate = nil
	waitingOneImmediate := s.waitingOneImmediate
	s.waitingOneImmediate = nil
	testingPresent := s.testingPresent
	s.testingPresent = nil
	s.mu.Unlock()

	for _, c := range waitingImmediate {
		rt.OnCurrentInstant(c)
	}
	for _, c := range waitingOneImmediate {
		c := c
		val := s.value.Get()
		rt.OnCurrentInstant(func(rt *scheduler.Runtime) { c(rt, val) })
	}
	for _, c := range testingPresent {
		c := c
		rt.OnCurrentInstant(func(rt *scheduler.Runtime) { c(rt, true) })
	}

	rt.OnEndOfInstant(func(rt *scheduler.Runtime) {
		s.mu.Lock()
		s.present = false
		waiting := s.waiting
		s.waiting = nil
		s.mu.Unlock()

		for _, c := range waiting {
			rt.OnCurrentInstant(c)
		}
		s.value.ReleaseAwaitIn(rt)
	})
}

// AwaitIn forwards to the ValueRuntime, which queues c to be resolved at the
// end of the next instant in which the signal is emitted (this one
// included); c then runs in the instant after that.
func (s *SignalRuntime[V1, V2]) AwaitIn(rt *scheduler.Runtime, c process.Continuation[V2]) {
	s.value.AwaitIn(rt, c)
}

// AwaitOneImmediate calls c at the first instant of presence with a
// snapshot of the emitted input value.
func (s *SignalRuntime[V1, V2]) AwaitOneImmediate(rt *scheduler.Runtime, c process.Continuation[V1]) {
	s.mu.Lock()
	present := s.present
	if !present {
		s.waitingOneImmediate = append(s.waitingOneImmediate, c)
	}
	s.mu.Unlock()
	if present {
		c(rt, s.value.Get())
	}
}

package signal

import (
	"github.com/reactorkit/rrs/process"
	"github.com/reactorkit/rrs/scheduler"
)

// holder is satisfied by every concrete signal handle (PureSignal,
// ValueSignal, MPSCSender/Receiver, SPMCSender/Receiver): each exposes the
// shared SignalRuntime the combinators below actually operate on. This lets
// the combinator lifts be written once instead of once per signal kind.
type holder[V1, V2 any] interface {
	Runtime() *SignalRuntime[V1, V2]
}

// AwaitImmediate returns a process that completes at the first instant the
// signal is present, the current one included.
func AwaitImmediate[V1, V2 any, S holder[V1, V2]](s S) process.Process[struct{}] {
	sr := s.Runtime()
	return wrapCall[struct{}](func(rt *scheduler.Runtime, next process.Continuation[struct{}]) {
		sr.OnSignal(rt, next)
	})
}

// Await returns a process that completes at the instant following the next
// emission of the signal.
func Await[V1, V2 any, S holder[V1, V2]](s S) process.Process[struct{}] {
	sr := s.Runtime()
	return wrapCall[struct{}](func(rt *scheduler.Runtime, next process.Continuation[struct{}]) {
		sr.Await(rt, next)
	})
}

// Present returns a process that runs pThen if the signal becomes present
// this instant, or pElse starting the following instant if it does not.
func Present[V1, V2, V any, S holder[V1, V2]](s S, pThen, pElse process.Process[V]) process.Process[V] {
	sr := s.Runtime()
	return wrapCall[V](func(rt *scheduler.Runtime, next process.Continuation[V]) {
		sr.Present(rt, func(rt *scheduler.Runtime, present bool) {
			if present {
				pThen.Call(rt, next)
			} else {
				pElse.Call(rt, next)
			}
		})
	})
}

// emitter is the constraint Emit and EmitMut take. It adds no method to
// holder, so every signal handle satisfies it, the receiver halves
// (MPSCReceiver, SPMCReceiver) included.
type emitter[V1, V2 any] interface {
	holder[V1, V2]
}

// Emit returns a process that runs p, emits its result on the signal, and
// completes with struct{}.
func Emit[V1, V2 any, S emitter[V1, V2]](s S, p process.Process[V1]) process.Process[struct{}] {
	sr := s.Runtime()
	return wrapCall[struct{}](func(rt *scheduler.Runtime, next process.Continuation[struct{}]) {
		p.Call(rt, func(rt *scheduler.Runtime, v V1) {
			sr.Emit(rt, v)
			next(rt, struct{}{})
		})
	})
}

// AwaitIn returns a process that yields the signal's gathered output the
// instant after the next settlement.
func AwaitIn[V1, V2 any, S holder[V1, V2]](s S) process.Process[V2] {
	sr := s.Runtime()
	return wrapCall[V2](func(rt *scheduler.Runtime, next process.Continuation[V2]) {
		sr.AwaitIn(rt, next)
	})
}

// AwaitOneImmediate returns a process that yields a snapshot of the
// signal's input value on the first instant of presence, the current one
// included.
func AwaitOneImmediate[V1, V2 any, S holder[V1, V2]](s S) process.Process[V1] {
	sr := s.Runtime()
	return wrapCall[V1](func(rt *scheduler.Runtime, next process.Continuation[V1]) {
		sr.AwaitOneImmediate(rt, next)
	})
}

// wrapCall is a tiny local Process[V] constructor, avoiding the need for
// package process to export its funcProcess adapter.
func wrapCall[V any](call func(rt *scheduler.Runtime, next process.Continuation[V])) process.Process[V] {
	return callProcess[V]{call}
}

type callProcess[V any] struct {
	call func(rt *scheduler.Runtime, next process.Continuation[V])
}

func (p callProcess[V]) Call(rt *scheduler.Runtime, next process.Continuation[V]) {
	p.call(rt, next)
}

// Every signal combinator below only reads through a stable
// *SignalRuntime rather than consuming anything, so process.AsProcessMut's
// "replay the same call" strategy is always valid for them - mirroring how
// the combinator structs in the system this reimplements implement both
// Process and ProcessMut identically.

// AwaitImmediateMut is the ProcessMut form of AwaitImmediate, usable as a
// LoopWhile/LoopInf body.
func AwaitImmediateMut[V1, V2 any, S holder[V1, V2]](s S) process.ProcessMut[struct{}] {
	return process.AsProcessMut[struct{}](AwaitImmediate[V1, V2](s))
}

// AwaitMut is the ProcessMut form of Await.
func AwaitMut[V1, V2 any, S holder[V1, V2]](s S) process.ProcessMut[struct{}] {
	return process.AsProcessMut[struct{}](Await[V1, V2](s))
}

// PresentMut is the ProcessMut form of Present.
func PresentMut[V1, V2, V any, S holder[V1, V2]](s S, pThen, pElse process.Process[V]) process.ProcessMut[V] {
	return process.AsProcessMut[V](Present[V1, V2](s, pThen, pElse))
}

// EmitMut is the ProcessMut form of Emit.
func EmitMut[V1, V2 any, S emitter[V1, V2]](s S, p process.Process[V1]) process.ProcessMut[struct{}] {
	return process.AsProcessMut[struct{}](Emit[V1, V2](s, p))
}

// AwaitInMut is the ProcessMut form of AwaitIn.
func AwaitInMut[V1, V2 any, S holder[V1, V2]](s S) process.ProcessMut[V2] {
	return process.AsProcessMut[V2](AwaitIn[V1, V2](s))
}

// AwaitOneImmediateMut is the ProcessMut form of AwaitOneImmediate.
func AwaitOneImmediateMut[V1, V2 any, S holder[V1, V2]](s S) process.ProcessMut[V1] {
	return process.AsProcessMut[V1](AwaitOneImmediate[V1, V2](s))
}

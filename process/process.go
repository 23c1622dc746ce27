// Package process implements the reactive process combinator algebra: values
// that, when handed a scheduler.Runtime and a continuation, eventually
// deliver a result to that continuation exactly once.
//
// Go has no associated-type trait dispatch, so instead of encoding the
// combinator tree in the static type (as the system this package
// reimplements does), Process[V] is a runtime object polymorphic over its
// result type, and every combinator is a free function rather than a
// generic method — Go does not allow a method to introduce type parameters
// beyond those already on its receiver's type.
package process

import "github.com/reactorkit/rrs/scheduler"

// Continuation is a stored "what happens next", called with the runtime and
// exactly one value. Every continuation is called exactly once across its
// lifetime; it owns whatever state it captured at construction.
type Continuation[V any] func(rt *scheduler.Runtime, v V)

// Process is a value describing a computation that, when run, eventually
// delivers a value of type V to a continuation.
type Process[V any] interface {
	// Call executes the process, handing its eventual result to next.
	Call(rt *scheduler.Runtime, next Continuation[V])
}

// Pair is the (process, value) result of running a ProcessMut once: the
// recovered process (equivalent to re-running the original from a fresh
// state) alongside the value it produced.
type Pair[V any] struct {
	P ProcessMut[V]
	V V
}

// ProcessMut is a Process that can additionally be re-run: CallMut hands
// back both the produced value and a process semantically equivalent to
// re-executing the original from a fresh state, which is what lets
// LoopWhile and LoopInf iterate without rebuilding the whole combinator
// tree from scratch each time.
type ProcessMut[V any] interface {
	Process[V]
	CallMut(rt *scheduler.Runtime, next Continuation[Pair[V]])
}

// funcProcess adapts a plain closure to Process[V], the same "func
// implementing a one-method interface" idiom scheduler.Task and
// Continuation already use.
type funcProcess[V any] struct {
	call func(rt *scheduler.Runtime, next Continuation[V])
}

func (p funcProcess[V]) Call(rt *scheduler.Runtime, next Continuation[V]) {
	p.call(rt, next)
}

// funcProcessMut adds the CallMut half.
type funcProcessMut[V any] struct {
	funcProcess[V]
	callMut func(rt *scheduler.Runtime, next Continuation[Pair[V]])
}

func (p funcProcessMut[V]) CallMut(rt *scheduler.Runtime, next Continuation[Pair[V]]) {
	p.callMut(rt, next)
}

// newProcess builds a Process[V] from a plain call function.
func newProcess[V any](call func(rt *scheduler.Runtime, next Continuation[V])) Process[V] {
	return funcProcess[V]{call: call}
}

// AsProcessMut lifts a plain Process into a ProcessMut by replaying its Call
// on every CallMut: valid whenever p is stateless enough that running it
// again is equivalent to running it the first time, the same property that
// lets signal combinators (which only read through a shared signal runtime)
// implement both interfaces identically.
func AsProcessMut[V any](p Process[V]) ProcessMut[V] {
	return newProcessMut(
		p.Call,
		func(rt *scheduler.Runtime, next Continuation[Pair[V]]) {
			p.Call(rt, func(rt *scheduler.Runtime, v V) {
				next(rt, Pair[V]{P: AsProcessMut[V](p), V: v})
			})
		},
	)
}

// newProcessMut builds a ProcessMut[V] from call and call-mut functions.
func newProcessMut[V any](
	call func(rt *scheduler.Runtime, next Continuation[V]),
	callMut func(rt *scheduler.Runtime, next Continuation[Pair[V]]),
) ProcessMut[V] {
	return funcProcessMut[V]{funcProcess: funcProcess[V]{call: call}, callMut: callMut}
}

// Value is a process producing v in a single instant. As a ProcessMut it
// yields (Value(v), v) again every iteration, so V should be cheap to copy.
func Value[V any](v V) ProcessMut[V] {
	return newProcessMut(
		func(rt *scheduler.Runtime, next Continuation[V]) {
			next(rt, v)
		},
		func(rt *scheduler.Runtime, next Continuation[Pair[V]]) {
			next(rt, Pair[V]{P: Value(v), V: v})
		},
	)
}

// Map runs p, applies f to its result, and hands f's output to the outer
// continuation.
func Map[V, V2 any](p Process[V], f func(V) V2) Process[V2] {
	return newProcess(func(rt *scheduler.Runtime, next Continuation[V2]) {
		p.Call(rt, func(rt *scheduler.Runtime, v V) {
			next(rt, f(v))
		})
	})
}

// MapMut is the ProcessMut counterpart of Map: f is called with FnMut
// semantics (the same closure, and hence its accumulated captured state,
// carries across iterations), and the recovered process re-wraps the same f.
func MapMut[V, V2 any](p ProcessMut[V], f func(V) V2) ProcessMut[V2] {
	return newProcessMut(
		func(rt *scheduler.Runtime, next Continuation[V2]) {
			Map[V, V2](p, f).Call(rt, next)
		},
		func(rt *scheduler.Runtime, next Continuation[Pair[V2]]) {
			p.CallMut(rt, func(rt *scheduler.Runtime, pair Pair[V]) {
				v2 := f(pair.V)
				next(rt, Pair[V2]{P: MapMut[V, V2](pair.P, f), V: v2})
			})
		},
	)
}

// Flatten runs p to obtain a second process q, then runs q; the result is
// q's value.
func Flatten[V any](p Process[Process[V]]) Process[V] {
	return newProcess(func(rt *scheduler.Runtime, next Continuation[V]) {
		p.Call(rt, func(rt *scheduler.Runtime, q Process[V]) {
			q.Call(rt, next)
		})
	})
}

// FlattenMut is the ProcessMut counterpart of Flatten.
func FlattenMut[V any](p ProcessMut[ProcessMut[V]]) ProcessMut[V] {
	return newProcessMut(
		func(rt *scheduler.Runtime, next Continuation[V]) {
			Flatten[V](Map[ProcessMut[V], Process[V]](p, func(q ProcessMut[V]) Process[V] { return q })).Call(rt, next)
		},
		func(rt *scheduler.Runtime, next Continuation[Pair[V]]) {
			p.CallMut(rt, func(rt *scheduler.Runtime, outer Pair[ProcessMut[V]]) {
				outer.V.Call(rt, func(rt *scheduler.Runtime, result V) {
					next(rt, Pair[V]{P: FlattenMut[V](outer.P), V: result})
				})
			})
		},
	)
}

// AndThen equals Flatten(Map(p, f)).
func AndThen[V, V2 any](p Process[V], f func(V) Process[V2]) Process[V2] {
	return Flatten[V2](Map[V, Process[V2]](p, f))
}

// AndThenMut is the ProcessMut counterpart of AndThen.
func AndThenMut[V, V2 any](p ProcessMut[V], f func(V) ProcessMut[V2]) ProcessMut[V2] {
	return FlattenMut[V2](MapMut[V, ProcessMut[V2]](p, f))
}

// Pause runs p, then delivers its value to the continuation one instant
// later via scheduler.Runtime.OnNextInstant.
func Pause[V any](p Process[V]) Process[V] {
	return newProcess(func(rt *scheduler.Runtime, next Continuation[V]) {
		p.Call(rt, func(rt *scheduler.Runtime, v V) {
			rt.OnNextInstant(func(rt *scheduler.Runtime) {
				next(rt, v)
			})
		})
	})
}

// PauseMut is the ProcessMut counterpart of Pause.
func PauseMut[V any](p ProcessMut[V]) ProcessMut[V] {
	return newProcessMut(
		func(rt *scheduler.Runtime, next Continuation[V]) {
			Pause[V](p).Call(rt, next)
		},
		func(rt *scheduler.Runtime, next Continuation[Pair[V]]) {
			Pause[Pair[V]](getMutProcess[V](p)).Call(rt, func(rt *scheduler.Runtime, pair Pair[V]) {
				next(rt, Pair[V]{P: PauseMut(pair.P), V: pair.V})
			})
		},
	)
}

// Then runs p, discards its value, runs q, and yields q's value.
func Then[V, V2 any](p Process[V], q Process[V2]) Process[V2] {
	return newProcess(func(rt *scheduler.Runtime, next Continuation[V2]) {
		p.Call(rt, func(rt *scheduler.Runtime, _ V) {
			q.Call(rt, next)
		})
	})
}

// ThenMut is the ProcessMut counterpart of Then.
func ThenMut[V, V2 any](p ProcessMut[V], q ProcessMut[V2]) ProcessMut[V2] {
	return newProcessMut(
		func(rt *scheduler.Runtime, next Continuation[V2]) {
			Then[V, V2](p, q).Call(rt, next)
		},
		func(rt *scheduler.Runtime, next Continuation[Pair[V2]]) {
			p.CallMut(rt, func(rt *scheduler.Runtime, p1 Pair[V]) {
				q.CallMut(rt, func(rt *scheduler.Runtime, p2 Pair[V2]) {
					next(rt, Pair[V2]{P: ThenMut(p1.P, p2.P), V: p2.V})
				})
			})
		},
	)
}

// ThenElse runs cond; if its result is true, runs q1, else q2. Both branches
// must share a value type.
func ThenElse[V any](cond Process[bool], q1, q2 Process[V]) Process[V] {
	return newProcess(func(rt *scheduler.Runtime, next Continuation[V]) {
		cond.Call(rt, func(rt *scheduler.Runtime, v bool) {
			if v {
				q1.Call(rt, next)
			} else {
				q2.Call(rt, next)
			}
		})
	})
}

// ThenElseMut is the ProcessMut counterpart of ThenElse: the branch not
// taken is preserved unchanged so a later iteration can still take it.
func ThenElseMut[V any](cond ProcessMut[bool], q1, q2 ProcessMut[V]) ProcessMut[V] {
	return newProcessMut(
		func(rt *scheduler.Runtime, next Continuation[V]) {
			ThenElse[V](cond, q1, q2).Call(rt, next)
		},
		func(rt *scheduler.Runtime, next Continuation[Pair[V]]) {
			cond.CallMut(rt, func(rt *scheduler.Runtime, c Pair[bool]) {
				if c.V {
					q1.CallMut(rt, func(rt *scheduler.Runtime, r Pair[V]) {
						next(rt, Pair[V]{P: ThenElseMut(c.P, r.P, q2), V: r.V})
					})
				} else {
					q2.CallMut(rt, func(rt *scheduler.Runtime, r Pair[V]) {
						next(rt, Pair[V]{P: ThenElseMut(c.P, q1, r.P), V: r.V})
					})
				}
			})
		},
	)
}

// GetMut runs a ProcessMut once and returns it alongside the obtained value.
func GetMut[V any](p ProcessMut[V]) Process[Pair[V]] {
	return getMutProcess[V](p)
}

func getMutProcess[V any](p ProcessMut[V]) Process[Pair[V]] {
	return newProcess(func(rt *scheduler.Runtime, next Continuation[Pair[V]]) {
		p.CallMut(rt, next)
	})
}

// LoopStatus is the result of one iteration of a loop body: either Continue,
// meaning run the body again, or Exit(v), meaning stop and yield v.
type LoopStatus[V any] struct {
	exit    bool
	value   V
}

// Continue reruns the loop body.
func Continue[V any]() LoopStatus[V] { return LoopStatus[V]{} }

// Exit stops the loop and yields v.
func Exit[V any](v V) LoopStatus[V] { return LoopStatus[V]{exit: true, value: v} }

// IsExit reports whether this status is Exit, and if so its value.
func (s LoopStatus[V]) IsExit() (V, bool) { return s.value, s.exit }

// LoopWhile repeatedly runs p; on Continue it reruns p, on Exit(v) it yields
// v. Implemented via ProcessMut.CallMut so each iteration reuses the
// process recovered from the previous one, carrying accumulated closure
// state forward.
func LoopWhile[V any](p ProcessMut[LoopStatus[V]]) Process[V] {
	return newProcess(func(rt *scheduler.Runtime, next Continuation[V]) {
		p.CallMut(rt, func(rt *scheduler.Runtime, pair Pair[LoopStatus[V]]) {
			if v, ok := pair.V.IsExit(); ok {
				next(rt, v)
			} else {
				LoopWhile[V](pair.P).Call(rt, next)
			}
		})
	})
}

// loopWhileMut is the ProcessMut form of LoopWhile, needed so LoopWhile
// itself can be resumed inside a surrounding loop (e.g. nested loops, or a
// LoopWhile used as the body of another LoopWhile after a Mut wrapper).
func loopWhileMut[V any](p ProcessMut[LoopStatus[V]]) ProcessMut[V] {
	return newProcessMut(
		func(rt *scheduler.Runtime, next Continuation[V]) {
			LoopWhile[V](p).Call(rt, next)
		},
		func(rt *scheduler.Runtime, next Continuation[Pair[V]]) {
			p.CallMut(rt, func(rt *scheduler.Runtime, pair Pair[LoopStatus[V]]) {
				if v, ok := pair.V.IsExit(); ok {
					next(rt, Pair[V]{P: loopWhileMut[V](pair.P), V: v})
				} else {
					loopWhileMut[V](pair.P).CallMut(rt, next)
				}
			})
		},
	)
}

// LoopWhileMut exposes loopWhileMut; a loop can itself be embedded as the
// body of an outer loop or join.
func LoopWhileMut[V any](p ProcessMut[LoopStatus[V]]) ProcessMut[V] {
	return loopWhileMut[V](p)
}

// LoopInf runs a unit-valued ProcessMut forever; it never completes, so it
// is only useful joined with something that does, or as one arm of a
// combinator where perpetual work is the point (e.g. a simulation actor).
func LoopInf(p ProcessMut[struct{}]) Process[struct{}] {
	looped := MapMut[struct{}, LoopStatus[struct{}]](p, func(struct{}) LoopStatus[struct{}] {
		return Continue[struct{}]()
	})
	return LoopWhile[struct{}](looped)
}

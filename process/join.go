package process

import (
	"sync"

	"github.com/reactorkit/rrs/scheduler"
)

// joinPoint is the shared rendezvous a Join's two branches race to fill:
// whichever branch arrives second finds the other's value already stored
// and dispatches the continuation; the first arrival just stores its value
// and returns. Access is serialized by a mutex so only one of the two racing
// branches ever sees itself as "second".
type joinPoint[V1, V2 any] struct {
	mu   sync.Mutex
	v1   *V1
	v2   *V2
	next Continuation[Pair2[V1, V2]]
	done bool
}

// Pair2 is the result of Join: both branches' values, in argument order.
type Pair2[V1, V2 any] struct {
	V1 V1
	V2 V2
}

// Join runs p and q in parallel (both are started immediately on the calling
// worker, p first, each running until its first suspension); the result
// is their values as a pair once both have completed, in argument order
// regardless of which finishes first.
func Join[V1, V2 any](p Process[V1], q Process[V2]) Process[Pair2[V1, V2]] {
	return newProcess(func(rt *scheduler.Runtime, next Continuation[Pair2[V1, V2]]) {
		jp := &joinPoint[V1, V2]{next: next}

		p.Call(rt, func(rt *scheduler.Runtime, v1 V1) {
			jp.mu.Lock()
			if jp.v2 != nil && !jp.done {
				jp.done = true
				v2 := *jp.v2
				n := jp.next
				jp.mu.Unlock()
				n(rt, Pair2[V1, V2]{V1: v1, V2: v2})
				return
			}
			jp.v1 = &v1
			jp.mu.Unlock()
		})

		q.Call(rt, func(rt *scheduler.Runtime, v2 V2) {
			jp.mu.Lock()
			if jp.v1 != nil && !jp.done {
				jp.done = true
				v1 := *jp.v1
				n := jp.next
				jp.mu.Unlock()
				n(rt, Pair2[V1, V2]{V1: v1, V2: v2})
				return
			}
			jp.v2 = &v2
			jp.mu.Unlock()
		})
	})
}

// JoinMut is the ProcessMut counterpart of Join.
func JoinMut[V1, V2 any](p ProcessMut[V1], q ProcessMut[V2]) ProcessMut[Pair2[V1, V2]] {
	return newProcessMut(
		func(rt *scheduler.Runtime, next Continuation[Pair2[V1, V2]]) {
			Join[V1, V2](p, q).Call(rt, next)
		},
		func(rt *scheduler.Runtime, next Continuation[Pair[Pair2[V1, V2]]]) {
			joined := Join[Pair[V1], Pair[V2]](getMutProcess[V1](p), getMutProcess[V2](q))
			Map[Pair2[Pair[V1], Pair[V2]], Pair[Pair2[V1, V2]]](joined, func(r Pair2[Pair[V1], Pair[V2]]) Pair[Pair2[V1, V2]] {
				return Pair[Pair2[V1, V2]]{
					P: JoinMut[V1, V2](r.V1.P, r.V2.P),
					V: Pair2[V1, V2]{V1: r.V1.V, V2: r.V2.V},
				}
			}).Call(rt, next)
		},
	)
}

// multiJoinPoint is the N-way generalization of joinPoint: remaining starts
// at len(ps)+1 so the "launcher" (the code enqueuing every branch) is
// distinguished from the last branch to actually finish. Whichever of those
// two decrements remaining from 1 to 0 performs the gather and dispatches
// the continuation, so fast children finishing before every branch is even
// enqueued still wait for the launcher to join the race.
type multiJoinPoint[V any] struct {
	mu        sync.Mutex
	remaining int
	values    []V
	next      Continuation[[]V]
}

// MultiJoin generalizes Join to a slice of processes sharing a value type;
// the result is their values in index order, regardless of completion
// order.
func MultiJoin[V any](ps []Process[V]) Process[[]V] {
	return newProcess(func(rt *scheduler.Runtime, next Continuation[[]V]) {
		jp := &multiJoinPoint[V]{
			remaining: len(ps) + 1,
			values:    make([]V, len(ps)),
			next:      next,
		}

		for i, p := range ps {
			i, p := i, p
			rt.OnCurrentInstant(func(rt *scheduler.Runtime) {
				p.Call(rt, func(rt *scheduler.Runtime, v V) {
					jp.mu.Lock()
					jp.values[i] = v
					jp.remaining--
					last := jp.remaining == 0
					var values []V
					var n Continuation[[]V]
					if last {
						values = jp.values
						n = jp.next
					}
					jp.mu.Unlock()
					if last {
						n(rt, values)
					}
				})
			})
		}

		jp.mu.Lock()
		jp.remaining--
		last := jp.remaining == 0
		var values []V
		var n Continuation[[]V]
		if last {
			values = jp.values
			n = jp.next
		}
		jp.mu.Unlock()
		if last {
			n(rt, values)
		}
	})
}

// MultiJoinMut is the ProcessMut counterpart of MultiJoin.
func MultiJoinMut[V any](ps []ProcessMut[V]) ProcessMut[[]V] {
	return newProcessMut(
		func(rt *scheduler.Runtime, next Continuation[[]V]) {
			plain := make([]Process[V], len(ps))
			for i, p := range ps {
				plain[i] = p
			}
			MultiJoin[V](plain).Call(rt, next)
		},
		func(rt *scheduler.Runtime, next Continuation[Pair[[]V]]) {
			mutProcs := make([]Process[Pair[V]], len(ps))
			for i, p := range ps {
				mutProcs[i] = getMutProcess[V](p)
			}
			MultiJoin[Pair[V]](mutProcs).Call(rt, func(rt *scheduler.Runtime, pairs []Pair[V]) {
				nextPs := make([]ProcessMut[V], len(pairs))
				values := make([]V, len(pairs))
				for i, pr := range pairs {
					nextPs[i] = pr.P
					values[i] = pr.V
				}
				next(rt, Pair[[]V]{P: MultiJoinMut[V](nextPs), V: values})
			})
		},
	)
}

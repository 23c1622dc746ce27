// Package scheduler implements the instant-based, work-stealing execution
// engine for the reactive runtime: it turns a tree of enqueued tasks into a
// sequence of discrete, barrier-synchronized instants.
//
// A Runtime is bound to exactly one worker. It owns three ordered sequences
// of pending [Task] values: the current instant, the next instant, and the
// end-of-instant phase. A ParallelRuntime owns N such workers plus the
// synchronization state (two counters and a cyclic barrier) that lets them
// agree on when an instant, and the whole run, is finished.
package scheduler

import (
	"sync"
	"sync/atomic"
	"time"
)

// Task is a unit of work a Runtime can enqueue. It is the scheduler's only
// notion of "continuation": callers close over whatever value they need to
// pass along before handing the closure to one of the Runtime.On* methods,
// so the queues themselves stay monomorphic regardless of what the process
// and signal layers above are actually passing around.
type Task func(rt *Runtime)

// sharedState is the data shared between every worker of a single
// ParallelRuntime run.
type sharedState struct {
	jobs []*dequeStealer

	// nLocalWorking tracks how many workers are still actively draining or
	// stealing current-instant work. It starts at the worker count so the
	// first instant doesn't exit prematurely before any worker has had a
	// chance to report it is busy.
	nLocalWorking atomic.Int64

	// nGlobalWorking tracks how many workers carried residual work past the
	// end-of-instant barrier; read after the final barrier of an instant to
	// decide whether another instant is needed.
	nGlobalWorking atomic.Int64

	barrier *cyclicBarrier

	logger  Logger
	backoff time.Duration
}

// ParallelRuntime owns a fixed pool of workers and drives them through
// instants until there is no more work or the iteration cap is reached.
type ParallelRuntime struct {
	shared  *sharedState
	workers []*Runtime
}

// NewParallelRuntime constructs a ParallelRuntime with nWorkers workers.
func NewParallelRuntime(nWorkers int, opts ...Option) *ParallelRuntime {
	if nWorkers < 1 {
		nWorkers = 1
	}
	cfg := resolveOptions(opts)

	deques := make([]*dequeOwner, nWorkers)
	stealers := make([]*dequeStealer, nWorkers)
	for i := range deques {
		deques[i], stealers[i] = newDeque()
	}

	shared := &sharedState{
		jobs:    stealers,
		barrier: newCyclicBarrier(nWorkers),
		logger:  cfg.logger,
		backoff: cfg.backoff,
	}
	shared.nLocalWorking.Store(int64(nWorkers))

	pr := &ParallelRuntime{shared: shared}
	for i := 0; i < nWorkers; i++ {
		pr.workers = append(pr.workers, &Runtime{
			curInstant: deques[i],
			shared:     shared,
			id:         i,
		})
	}
	return pr
}

// Execute seeds the given job onto the first worker and runs every worker
// until the scheduler has no more work (or maxIters instants have elapsed).
// maxIters <= 0 means unbounded. Execute blocks until all workers finish.
func (pr *ParallelRuntime) Execute(job Task, maxIters int) {
	pr.workers[0].OnCurrentInstant(job)

	var wg sync.WaitGroup
	wg.Add(len(pr.workers))
	for _, rt := range pr.workers {
		rt := rt
		go func() {
			defer wg.Done()
			rt.work(maxIters)
		}()
	}
	wg.Wait()
}

// Runtime is the per-worker view of the scheduler: the three queues of
// pending tasks for the current instant, the next instant, and the
// end-of-instant phase, plus a handle to the state shared across workers.
type Runtime struct {
	curInstant *dequeOwner
	nextInstant []Task
	endOfInstant []Task

	shared *sharedState
	id     int
}

// ID returns the worker index this Runtime is bound to. Useful for logging
// and diagnostics only; user code must not depend on it for correctness.
func (rt *Runtime) ID() int { return rt.id }

// OnCurrentInstant registers a task to run later in the current instant's
// phase A, on this worker's own queue.
func (rt *Runtime) OnCurrentInstant(t Task) {
	rt.curInstant.push(t)
}

// OnNextInstant registers a task to run in phase A of the following
// instant.
func (rt *Runtime) OnNextInstant(t Task) {
	rt.nextInstant = append(rt.nextInstant, t)
}

// OnEndOfInstant registers a task to run in phase B of the current instant,
// after every worker's current-instant queue (across the whole pool) has
// drained. Tasks run here behave as if they ran in the next instant: any
// OnCurrentInstant call they make is drained in the next instant's phase A.
func (rt *Runtime) OnEndOfInstant(t Task) {
	rt.endOfInstant = append(rt.endOfInstant, t)
}

func (rt *Runtime) logf(level LogLevel, category, msg string) {
	if rt.shared.logger == nil || !rt.shared.logger.IsEnabled(level) {
		return
	}
	rt.shared.logger.Log(LogEntry{
		Level:    level,
		Category: category,
		WorkerID: rt.id,
		Message:  msg,
	})
}

// work runs the two-phase instant loop until the scheduler globally agrees
// there is no more work, or maxIter instants have elapsed (maxIter <= 0
// means unbounded).
func (rt *Runtime) work(maxIter int) {
	nIter := 0
	for {
		nIter++
		if maxIter > 0 && nIter > maxIter {
			return
		}
		rt.logf(LevelDebug, "instant", "phase A start")

		// Phase A: drain local work, then steal until nobody is working.
		rt.drainCurrent()
		rt.shared.nLocalWorking.Add(-1)

		for rt.shared.nLocalWorking.Load() > 0 {
			stolen := false
			for _, peer := range rt.shared.jobs {
				if t, ok := peer.steal(); ok {
					stolen = true
					rt.shared.nLocalWorking.Add(1)
					t(rt)
					rt.drainCurrent()
					rt.shared.nLocalWorking.Add(-1)
				}
			}
			if !stolen {
				time.Sleep(rt.shared.backoff)
			}
		}

		if rt.shared.barrier.wait() {
			rt.shared.nGlobalWorking.Store(0)
		}

		// Phase B: run end-of-instant tasks, after migrating next->current.
		endOfInstant := rt.endOfInstant
		rt.endOfInstant = nil

		for _, t := range rt.nextInstant {
			rt.curInstant.push(t)
		}
		rt.nextInstant = nil

		for _, t := range endOfInstant {
			t(rt)
		}

		rt.shared.barrier.wait()

		localWorkToDo := len(rt.endOfInstant) > 0 || len(rt.nextInstant) > 0 || rt.curInstant.len() > 0
		if localWorkToDo {
			rt.shared.nGlobalWorking.Add(1)
		}
		rt.shared.nLocalWorking.Add(1)
		rt.shared.barrier.wait()

		rt.logf(LevelDebug, "instant", "phase B done")

		if rt.shared.nGlobalWorking.Load() <= 0 {
			return
		}
	}
}

func (rt *Runtime) drainCurrent() {
	for {
		t, ok := rt.curInstant.pop()
		if !ok {
			return
		}
		t(rt)
	}
}

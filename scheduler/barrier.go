package scheduler

import "sync"

// cyclicBarrier synchronizes a fixed number of workers at repeated points,
// mirroring Rust's std::sync::Barrier: wait blocks until every party has
// called it, then releases all of them together and resets for the next
// round. Exactly one caller per round gets true back (the "leader"), which
// the scheduler uses to elect whoever resets the shared counter.
type cyclicBarrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	n       int
	waiting int
	round   uint64
}

func newCyclicBarrier(n int) *cyclicBarrier {
	b := &cyclicBarrier{n: n}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// wait blocks until all n parties have called wait for the current round.
// It returns true for exactly one caller per round.
func (b *cyclicBarrier) wait() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	round := b.round
	b.waiting++
	if b.waiting == b.n {
		b.waiting = 0
		b.round++
		b.cond.Broadcast()
		return true
	}
	for b.round == round {
		b.cond.Wait()
	}
	return false
}

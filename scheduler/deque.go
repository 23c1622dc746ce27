package scheduler

import (
	"sync/atomic"
)

// dequeBuffer is a fixed-capacity ring used as the backing store of a
// workStealingDeque. Capacity is always a power of two so indices can be
// masked instead of taken modulo.
type dequeBuffer struct {
	mask  int64
	slots []Task
}

func newDequeBuffer(capacity int64) *dequeBuffer {
	return &dequeBuffer{mask: capacity - 1, slots: make([]Task, capacity)}
}

func (b *dequeBuffer) get(i int64) Task       { return b.slots[i&b.mask] }
func (b *dequeBuffer) put(i int64, t Task)    { b.slots[i&b.mask] = t }

func (b *dequeBuffer) grow(bottom, top int64) *dequeBuffer {
	next := newDequeBuffer(int64(len(b.slots)) * 2)
	for i := top; i < bottom; i++ {
		next.put(i, b.get(i))
	}
	return next
}

// workStealingDeque is a Chase-Lev work-stealing deque: the owner pushes and
// pops the "bottom" end with no contention against itself, and thieves steal
// from the "top" end. Steals may fail spuriously under contention and
// callers must retry rather than treat a failure as "definitely empty".
//
// dequeOwner and dequeStealer are two restricted views over the same deque,
// matching the split the scheduler needs: a worker's Runtime holds the
// owner, ParallelRuntime's shared state holds everyone else's stealer.
type workStealingDeque struct {
	top    atomic.Int64
	bottom atomic.Int64
	buf    atomic.Pointer[dequeBuffer]
}

const initialDequeCapacity = 32

func newWorkStealingDeque() *workStealingDeque {
	d := &workStealingDeque{}
	d.buf.Store(newDequeBuffer(initialDequeCapacity))
	return d
}

type dequeOwner struct{ d *workStealingDeque }
type dequeStealer struct{ d *workStealingDeque }

func newDeque() (*dequeOwner, *dequeStealer) {
	d := newWorkStealingDeque()
	return &dequeOwner{d}, &dequeStealer{d}
}

// push adds a task to the bottom of the deque. Only ever called by the
// owning worker.
func (o *dequeOwner) push(t Task) {
	b := o.d.bottom.Load()
	top := o.d.top.Load()
	buf := o.d.buf.Load()
	if size := b - top; size >= int64(len(buf.slots)) {
		buf = buf.grow(b, top)
		o.d.buf.Store(buf)
	}
	buf.put(b, t)
	o.d.bottom.Store(b + 1)
}

// pop removes and returns the task at the bottom of the deque, the end the
// owner uses, giving the owner LIFO order relative to its own pushes.
func (o *dequeOwner) pop() (Task, bool) {
	b := o.d.bottom.Load() - 1
	buf := o.d.buf.Load()
	o.d.bottom.Store(b)
	top := o.d.top.Load()

	if top > b {
		// Deque was empty; restore bottom.
		o.d.bottom.Store(top)
		return nil, false
	}

	t := buf.get(b)
	if top < b {
		return t, true
	}

	// Last element: race against stealers for it via a CAS on top.
	ok := o.d.top.CompareAndSwap(top, top+1)
	o.d.bottom.Store(top + 1)
	if !ok {
		return nil, false
	}
	return t, true
}

func (o *dequeOwner) len() int {
	b := o.d.bottom.Load()
	top := o.d.top.Load()
	if d := b - top; d > 0 {
		return int(d)
	}
	return 0
}

// steal removes and returns the task at the top of the deque, the end
// opposite the owner, giving thieves FIFO order relative to owner pushes.
// A false result means either the deque was empty or a peer won a race for
// the same element; both are transient and callers should just retry later.
func (s *dequeStealer) steal() (Task, bool) {
	top := s.d.top.Load()
	bottom := s.d.bottom.Load()
	if top >= bottom {
		return nil, false
	}
	buf := s.d.buf.Load()
	t := buf.get(top)
	if !s.d.top.CompareAndSwap(top, top+1) {
		return nil, false
	}
	return t, true
}

package process_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reactorkit/rrs/process"
)

func TestJoinWaitsForBothBranches(t *testing.T) {
	p := process.Pause[int](process.Pause[int](process.Value(1)))
	q := process.Pause[int](process.Value(2))
	result := run[process.Pair2[int, int]](process.Join[int, int](p, q), 1)
	assert.Equal(t, process.Pair2[int, int]{V1: 1, V2: 2}, result)
}

// TestJoinCommutativity checks spec invariant 5: p.join(q) and q.join(p)
// produce the same pair, modulo the swapped field order, across two runs.
func TestJoinCommutativity(t *testing.T) {
	p := process.Pause[int](process.Value(10))
	q := process.Value(20)

	r1 := run[process.Pair2[int, int]](process.Join[int, int](p, q), 2)
	r2 := run[process.Pair2[int, int]](process.Join[int, int](q, p), 2)

	assert.Equal(t, r1.V1, r2.V2)
	assert.Equal(t, r1.V2, r2.V1)
}

// TestLoopWhileJoinCountdown reproduces the countdown-from-ten scenario: two
// loops share a single decrementing counter, one shifted a pause behind the
// other, and join on their accumulated totals.
func TestLoopWhileJoinCountdown(t *testing.T) {
	const n = 10
	var mu sync.Mutex
	reward := n

	decrement := func() int {
		mu.Lock()
		defer mu.Unlock()
		v := reward
		reward = v - 1
		return v
	}

	tot1 := 0
	c1 := func(struct{}) process.LoopStatus[int] {
		v := decrement()
		if v <= 0 {
			return process.Exit[int](tot1)
		}
		tot1 += v
		return process.Continue[int]()
	}

	tot2 := 0
	c2 := func(struct{}) process.ProcessMut[process.LoopStatus[int]] {
		v := decrement()
		if v <= 0 {
			return process.Value(process.Exit[int](tot2))
		}
		tot2 += v
		return process.Value(process.Continue[int]())
	}

	pBody := process.MapMut[struct{}, process.LoopStatus[int]](
		process.PauseMut[struct{}](process.PauseMut[struct{}](process.Value(struct{}{}))),
		c1,
	)
	qBody := process.AndThenMut[struct{}, process.LoopStatus[int]](
		process.PauseMut[struct{}](process.PauseMut[struct{}](process.Value(struct{}{}))),
		c2,
	)

	pLoop := process.LoopWhile[int](pBody)
	qLoop := process.LoopWhile[int](qBody)
	qBis := process.Then[struct{}, int](process.Pause[struct{}](process.Value(struct{}{})), qLoop)

	result := run[process.Pair2[int, int]](process.Join[int, int](pLoop, qBis), 1)

	m := n / 2
	assert.Equal(t, process.Pair2[int, int]{V1: m * (m + 1), V2: m * m}, result)
}

// TestMultiJoinOrdersByIndex reproduces the ten-thousand-way join boundary
// scenario: every value is paused one instant, so completion order is
// whatever the work-stealing scheduler happens to choose, but the gathered
// slice must still come back in launch (index) order.
func TestMultiJoinOrdersByIndex(t *testing.T) {
	const n = 10000
	ps := make([]process.Process[int], n)
	for i := 0; i < n; i++ {
		i := i
		ps[i] = process.Pause[int](process.Value(i))
	}

	result := run[[]int](process.MultiJoin[int](ps), 8)

	require.Len(t, result, n)
	for i, v := range result {
		assert.Equal(t, i, v, "index %d", i)
	}
}

func TestMultiJoinEmptySlice(t *testing.T) {
	result := run[[]int](process.MultiJoin[int](nil), 1)
	assert.Empty(t, result)
}

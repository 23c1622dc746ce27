package signal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reactorkit/rrs/process"
	"github.com/reactorkit/rrs/signal"
)

// TestSPMCSignalBroadcastToMultipleReaders reproduces the SPMC scenario: one
// sender increments a running value by two every instant, while two
// independent readers (one via AwaitIn, one via AwaitOneImmediate+Pause)
// each watch for it crossing 19.
func TestSPMCSignalBroadcastToMultipleReaders(t *testing.T) {
	sender, receiver := signal.NewSPMCSignal[int]()

	count := 0
	signalValue := 0
	increment := func(struct{}) int {
		signalValue += 2
		return signalValue
	}

	p1Body := mutFromFunc[process.LoopStatus[int]]{build: func() process.Process[process.LoopStatus[int]] {
		emitP := signal.Emit[int, int, signal.SPMCSender[int]](sender, process.Map[struct{}, int](process.Value(struct{}{}), increment))
		return process.Pause[process.LoopStatus[int]](process.Map[struct{}, process.LoopStatus[int]](emitP, func(struct{}) process.LoopStatus[int] {
			count++
			if count >= 10 {
				return process.Exit[int](10)
			}
			return process.Continue[int]()
		}))
	}}

	crossesNineteen := func(v int) process.LoopStatus[int] {
		if v >= 19 {
			return process.Exit[int](v)
		}
		return process.Continue[int]()
	}

	p2Body := mutFromFunc[process.LoopStatus[int]]{build: func() process.Process[process.LoopStatus[int]] {
		return process.Map[int, process.LoopStatus[int]](
			signal.AwaitIn[int, int, signal.SPMCReceiver[int]](receiver),
			crossesNineteen,
		)
	}}

	p3Body := mutFromFunc[process.LoopStatus[int]]{build: func() process.Process[process.LoopStatus[int]] {
		return process.Pause[process.LoopStatus[int]](process.Map[int, process.LoopStatus[int]](
			signal.AwaitOneImmediate[int, int, signal.SPMCReceiver[int]](receiver),
			crossesNineteen,
		))
	}}

	p1 := process.LoopWhile[int](p1Body)
	p2 := process.LoopWhile[int](p2Body)
	p3 := process.LoopWhile[int](p3Body)

	result := run[process.Pair2[int, process.Pair2[int, int]]](
		process.Join[int, process.Pair2[int, int]](p1, process.Join[int, int](p2, p3)),
		1,
	)

	assert.Equal(t, 10, result.V1)
	assert.Equal(t, 20, result.V2.V1)
	assert.Equal(t, 20, result.V2.V2)
}

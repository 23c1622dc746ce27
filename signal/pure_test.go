package signal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reactorkit/rrs/process"
	"github.com/reactorkit/rrs/signal"
)

// TestPureSignalEmitJoinAwaitImmediate reproduces the literal pure-signal
// boundary scenario: emitting on a signal and awaiting its immediate
// presence join in the same instant, regardless of which branch the
// scheduler happens to run first.
func TestPureSignalEmitJoinAwaitImmediate(t *testing.T) {
	s := signal.NewPureSignal()

	emitP := signal.Emit[struct{}, struct{}, signal.PureSignal](s, process.Value(struct{}{}))
	awaitP := process.Map[struct{}, string](
		signal.AwaitImmediate[struct{}, struct{}, signal.PureSignal](s),
		func(struct{}) string { return "hit" },
	)

	result := run[process.Pair2[struct{}, string]](process.Join[struct{}, string](emitP, awaitP), 2)
	assert.Equal(t, process.Pair2[struct{}, string]{V1: struct{}{}, V2: "hit"}, result)
}

// TestPureSignalPresentFalseWhenNeverEmitted checks the other side of
// Present: a signal that is never emitted resolves every presence test to
// false, one instant later.
func TestPureSignalPresentFalseWhenNeverEmitted(t *testing.T) {
	s := signal.NewPureSignal()
	p := signal.Present[struct{}, struct{}, bool, signal.PureSignal](s, process.Value(true), process.Value(false))
	assert.False(t, run[bool](p, 1))
}

// TestPureSignalPresentTrueWhenEmittedSameInstant checks Present resolves
// true in the same instant the signal is emitted.
func TestPureSignalPresentTrueWhenEmittedSameInstant(t *testing.T) {
	s := signal.NewPureSignal()
	emitP := signal.Emit[struct{}, struct{}, signal.PureSignal](s, process.Value(struct{}{}))
	presentP := signal.Present[struct{}, struct{}, bool, signal.PureSignal](s, process.Value(true), process.Value(false))
	joined := process.Join[struct{}, bool](emitP, presentP)
	result := run[process.Pair2[struct{}, bool]](joined, 1)
	assert.True(t, result.V2)
}

package signal

import (
	"github.com/reactorkit/rrs/process"
	"github.com/reactorkit/rrs/scheduler"
)

// pureValueRuntime is the trivial ValueRuntime for PureSignal: both the
// input and output types are struct{}, so presence alone carries all the
// information a pure signal conveys. Emit and ReleaseAwaitIn do nothing, Get
// returns the unit value, and AwaitIn panics.
type pureValueRuntime struct{}

func (pureValueRuntime) Emit(*scheduler.Runtime, struct{}) {}

func (pureValueRuntime) AwaitIn(*scheduler.Runtime, process.Continuation[struct{}]) {
	panic("signal: AwaitIn is not supported on a PureSignal")
}

func (pureValueRuntime) ReleaseAwaitIn(*scheduler.Runtime) {}

func (pureValueRuntime) Get() struct{} { return struct{}{} }

// PureSignal is the basic unit signal: it supports emission and presence
// queries, but carries no value.
type PureSignal struct {
	rt *SignalRuntime[struct{}, struct{}]
}

// NewPureSignal creates a fresh PureSignal.
func NewPureSignal() PureSignal {
	return PureSignal{rt: NewSignalRuntime[struct{}, struct{}](pureValueRuntime{})}
}

// Runtime exposes the underlying SignalRuntime, letting the package-level
// combinator functions (Emit, AwaitImmediate, ...) operate uniformly across
// every signal kind.
func (s PureSignal) Runtime() *SignalRuntime[struct{}, struct{}] { return s.rt }

package engine

import "talon/internal/common"

// Reporter is the engine's one outward hook, the generalized version of the
// teacher's engine.Trade FIXME ("fire an execution report ... log an
// internal trade, once reporting is set up"). The core never blocks on it —
// it is invoked synchronously but is expected to be cheap (e.g. enqueue to
// a channel); anything slower belongs on the caller's side of that queue,
// never inside the engine lock's critical section for longer than it takes
// to hand off.
type Reporter interface {
	// OnTrade is called once per trade produced by a matching call, in
	// execution order, while the engine lock is still held.
	OnTrade(common.Trade)
	// OnReject is called when an admission is rejected in-band (duplicate
	// id, unmatchable FAK, infeasible FOK) so observability layers can
	// distinguish "no match yet" from an outright rejection, which
	// spec.md §7 notes the bare API cannot.
	OnReject(order *common.Order, reason error)
}

// noopReporter is used when the engine is constructed without one.
type noopReporter struct{}

func (noopReporter) OnTrade(common.Trade)          {}
func (noopReporter) OnReject(*common.Order, error) {}

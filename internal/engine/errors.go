package engine

import (
	"errors"

	"talon/internal/common"
)

// These are the "admission rejection" cases spec.md §7 says are not errors
// per se — AddOrder/ModifyOrder return them as an empty trade list, never
// as a Go error. They are kept as sentinels so the Reporter's OnReject can
// name the reason without re-deriving it from book state.
var (
	errDuplicateOrderID = errors.New("engine: duplicate order id")
	errUnmatchableFAK   = errors.New("engine: fill-and-kill could not cross")
	errInfeasibleFOK    = errors.New("engine: fill-or-kill insufficient depth")
)

// recoverInvariant is deferred around the matching loop. A fill-invariant
// violation (spec.md §7 — filling an order for more than its remaining
// quantity) panics with a *common.InvariantError rather than corrupting book
// state; recoverInvariant catches only that panic and turns it into *err, so
// the call it occurred in aborts cleanly instead of crashing the caller. Any
// other panic value is not ours to swallow and is re-raised.
func recoverInvariant(err *error) {
	if r := recover(); r != nil {
		invErr, ok := r.(*common.InvariantError)
		if !ok {
			panic(r)
		}
		*err = invErr
	}
}

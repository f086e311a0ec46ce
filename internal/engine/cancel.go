package engine

import "talon/internal/common"

// cancelLocked removes id from the book and index in one step. Callers must
// hold mu. It is shared by the public CancelOrder API, admission's
// FAK/Market residue cleanup (spec.md §4.1), and match's top-of-book FAK
// sweep (spec.md §4.3) — every place the engine cancels a resting order
// goes through here so the "drop the level once its queue empties" step
// never gets missed. Fully filled orders are removed by crossBook itself.
func (e *Engine) cancelLocked(id common.OrderID) (*common.Order, bool) {
	order, level, ok := e.book.Index.PopForCancel(id)
	if !ok {
		return nil, false
	}
	if level.IsEmpty() {
		sb := e.book.sideBook(level.Side)
		sb.Delete(level.Price)
	}
	return order, true
}

// CancelOrder removes a single resting order. It reports false for an
// unknown id rather than returning an error — spec.md §7 treats "no such
// order" as a no-op, not a fault.
func (e *Engine) CancelOrder(id common.OrderID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.cancelLocked(id)
	return ok
}

// CancelOrders removes a batch of ids, reacquiring the lock once per cancel
// rather than once for the whole batch — the pruner's use case (spec.md
// §4.5): the ids are snapshotted under one lock acquisition, the lock is
// released, and then each cancel here takes and releases the lock on its
// own, so a large end-of-session GoodForDay sweep never holds the book
// locked across the whole batch and blocks every concurrent submitter.
func (e *Engine) CancelOrders(ids []common.OrderID) {
	for _, id := range ids {
		e.CancelOrder(id)
	}
}

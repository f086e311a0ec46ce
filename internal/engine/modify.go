package engine

import "talon/internal/common"

// ModifyOrder cancels an existing order and resubmits it with a new side,
// price, and quantity, preserving its original type (spec.md §4.4 —
// OrderModify carries no Type field; the original is looked up, mirroring
// the source's setter-validated OrderModify rather than re-parsing one from
// the wire). Modifying always loses time priority: the resubmission gets a
// fresh sequence number and timestamp, exactly as if cancel and add had
// been called separately.
func (e *Engine) ModifyOrder(mod common.OrderModify) ([]common.Trade, error) {
	e.mu.Lock()

	existing, _, ok := e.book.Index.Get(mod.ID)
	if !ok {
		e.mu.Unlock()
		return nil, nil
	}
	orderType := existing.Type

	replacement, err := common.NewOrder(mod.ID, mod.Side, orderType, mod.Price, mod.Quantity, e.now().UnixNano())
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}

	e.cancelLocked(mod.ID)
	e.mu.Unlock()

	return e.AddOrder(replacement)
}

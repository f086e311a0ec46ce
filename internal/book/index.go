package book

import (
	"container/list"

	"talon/internal/common"
)

// indexEntry is the stable handle OrderIndex keeps per order: the order
// itself, the level it rests in, and its exact position in that level's
// queue. Keeping the *list.Element means cancel never has to scan a queue
// to find the order to remove — spec.md's Design Notes call this out
// explicitly ("Queue membership test by linear scan ... Store a stable
// handle ... so cancel is O(1)").
type indexEntry struct {
	order   *common.Order
	level   *PriceLevel
	element *list.Element
}

// OrderIndex maps an order id to its resting location. Every id present
// here corresponds bijectively to exactly one live entry in exactly one
// PriceLevel's queue (spec.md §3 invariant); removal from a queue always
// happens together with removal here, under the engine lock.
type OrderIndex struct {
	entries map[common.OrderID]*indexEntry
}

// NewOrderIndex constructs an empty index.
func NewOrderIndex() *OrderIndex {
	return &OrderIndex{entries: make(map[common.OrderID]*indexEntry)}
}

// Has reports whether id is currently resting somewhere in the book.
func (idx *OrderIndex) Has(id common.OrderID) bool {
	_, ok := idx.entries[id]
	return ok
}

// Get returns the order and its containing level for id.
func (idx *OrderIndex) Get(id common.OrderID) (*common.Order, *PriceLevel, bool) {
	e, ok := idx.entries[id]
	if !ok {
		return nil, nil, false
	}
	return e.order, e.level, true
}

// Put registers an order at its resting position after it has been pushed
// onto level's queue.
func (idx *OrderIndex) Put(o *common.Order, level *PriceLevel, element *list.Element) {
	idx.entries[o.ID] = &indexEntry{order: o, level: level, element: element}
}

// Remove drops id from the index. It does not touch the level's queue —
// callers remove from the queue first (so they still have the element
// handle) and then call Remove.
func (idx *OrderIndex) Remove(id common.OrderID) {
	delete(idx.entries, id)
}

// PopForCancel removes id from both its level's queue and the index in one
// step, using the stable element handle captured at Put time — this is the
// O(1) cancel spec.md's Design Notes ask for, in contrast to the source's
// O(n) "if order in queue" membership scan. The caller is responsible for
// dropping the level from its SideBook if it comes back empty.
func (idx *OrderIndex) PopForCancel(id common.OrderID) (*common.Order, *PriceLevel, bool) {
	e, ok := idx.entries[id]
	if !ok {
		return nil, nil, false
	}
	e.level.RemoveOrder(e.element, e.order.RemainingQuantity)
	delete(idx.entries, id)
	return e.order, e.level, true
}

// Len is the total number of resting orders across both sides — this is
// exactly what Engine.Size reports (spec.md §6), maintained here as a map
// length rather than by summing level counts.
func (idx *OrderIndex) Len() int {
	return len(idx.entries)
}

// Snapshot returns every id currently resting whose order matches pred.
// Used by the GFD pruner to collect GoodForDay ids without holding the
// engine lock across the subsequent cancels (spec.md §4.5's two-phase
// split).
func (idx *OrderIndex) Snapshot(pred func(*common.Order) bool) []common.OrderID {
	ids := make([]common.OrderID, 0)
	for id, e := range idx.entries {
		if pred(e.order) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Package book implements the per-side, per-price data structures the
// matching engine operates on: a time-ordered queue of resting orders at
// each price, a cached aggregate of that queue's quantity and count, an
// ordered side book giving O(log n) best-price access and O(1) per-price
// lookup, and the order-id index that makes cancellation O(1).
package book

import (
	"container/list"

	"talon/internal/common"
)

// LevelAggregate is the cached total resting quantity and order count at
// one price. It is never recomputed by scanning the queue — every mutation
// of the queue updates it incrementally, maintaining spec.md §3's
// invariant (TotalQuantity == Σ remaining, Count == |queue|) by
// construction rather than by audit.
type LevelAggregate struct {
	TotalQuantity uint64
	Count         int
}

func (a *LevelAggregate) add(qty uint64) {
	a.TotalQuantity += qty
	a.Count++
}

func (a *LevelAggregate) remove(qty uint64) {
	a.TotalQuantity -= qty
	a.Count--
}

func (a *LevelAggregate) reduce(qty uint64) {
	a.TotalQuantity -= qty
}

// IsEmpty reports whether the aggregate — and therefore the level it
// belongs to — should be removed.
func (a *LevelAggregate) IsEmpty() bool {
	return a.Count == 0
}

// PriceLevel bundles a single price's resting orders (time-ordered FIFO)
// with the cached aggregate over them. A level exists in a SideBook if and
// only if its queue is non-empty — the "upsert creates both together,
// removal is the only place levels disappear" invariant spec.md's Design
// Notes call out.
type PriceLevel struct {
	Price     common.Ticks
	Side      common.Side
	queue     list.List
	Aggregate LevelAggregate
}

// Front returns the oldest resting order at this level, or nil if empty.
func (l *PriceLevel) Front() *common.Order {
	if e := l.queue.Front(); e != nil {
		return e.Value.(*common.Order)
	}
	return nil
}

// Len reports the number of resting orders, equal to l.Aggregate.Count.
func (l *PriceLevel) Len() int { return l.queue.Len() }

// Orders returns the resting orders in queue (arrival) order. Nothing in the
// engine calls it; the matching loop only ever looks at Front.
func (l *PriceLevel) Orders() []*common.Order {
	out := make([]*common.Order, 0, l.queue.Len())
	for e := l.queue.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*common.Order))
	}
	return out
}

// PushBack appends an order to the tail of the level (newest arrival) and
// returns the list handle OrderIndex must keep to make a later cancel O(1).
func (l *PriceLevel) PushBack(o *common.Order) *list.Element {
	l.Aggregate.add(o.RemainingQuantity)
	return l.queue.PushBack(o)
}

// removeElement drops the element from the queue and decrements Count by
// one. Quantity bookkeeping for the removed order is the caller's
// responsibility (a cancel decrements by the order's full remaining
// quantity; a fill that empties the order has already reduced quantity via
// ReduceQuantity before popping).
func (l *PriceLevel) removeElement(e *list.Element) {
	l.queue.Remove(e)
	l.Aggregate.Count--
}

// PopFront removes and returns the order at the front of the queue,
// decrementing Count (but not TotalQuantity — callers that pop a filled
// order have already reduced its quantity to zero via ReduceQuantity).
func (l *PriceLevel) PopFront() *common.Order {
	e := l.queue.Front()
	if e == nil {
		return nil
	}
	o := e.Value.(*common.Order)
	l.removeElement(e)
	return o
}

// ReduceQuantity reduces the level's cached total by qty without touching
// Count — the bookkeeping for a partial fill (spec.md §4.3.f).
func (l *PriceLevel) ReduceQuantity(qty uint64) {
	l.Aggregate.reduce(qty)
}

// RemoveOrder removes a specific order's handle from the queue (used by
// cancel, which can land anywhere in the queue, not just the front) and
// decrements both Count and TotalQuantity by the order's remaining
// quantity.
func (l *PriceLevel) RemoveOrder(e *list.Element, remainingQty uint64) {
	l.removeElement(e)
	l.Aggregate.reduce(remainingQty)
}

// IsEmpty reports whether the level has no resting orders left and should
// be dropped from its SideBook.
func (l *PriceLevel) IsEmpty() bool {
	return l.Aggregate.IsEmpty()
}

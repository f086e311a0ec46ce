package common

import (
	"errors"
	"fmt"
)

// OrderID is the unique positive identifier a submitter assigns to an order.
type OrderID uint64

var (
	// ErrInvalidOrderID is returned by NewOrder for a non-positive id.
	ErrInvalidOrderID = errors.New("common: order id must be positive")
	// ErrInvalidQuantity is returned by NewOrder for a non-positive quantity.
	ErrInvalidQuantity = errors.New("common: initial quantity must be positive")
	// ErrInvalidPrice is returned by NewOrder for a negative price.
	ErrInvalidPrice = errors.New("common: price must be non-negative")
)

// InvariantError is the fatal class of error spec.md §7 describes: an
// attempt to fill an order for more than its remaining quantity, which can
// only happen if the matching loop itself is broken. It aborts the matching
// call it occurred in rather than corrupting book state.
type InvariantError struct {
	msg string
}

func (e *InvariantError) Error() string { return "common: invariant violation: " + e.msg }

func newInvariantError(format string, args ...any) *InvariantError {
	return &InvariantError{msg: fmt.Sprintf(format, args...)}
}

// Order is the engine's identity + mutable-quantity record. After
// admission, identity (ID, Side, Type, Price) never changes and only
// RemainingQuantity mutates, through Fill, under the engine lock. Admission
// itself sets Timestamp and rewrites a Market order's Type and Price
// (engine's rewriteMarketOrder).
// There are no setters on any other field — the source's dynamic
// per-field validation becomes a single validating constructor.
type Order struct {
	ID                OrderID
	Side              Side
	Type              OrderType
	Price             Ticks
	InitialQuantity   uint64
	RemainingQuantity uint64
	// Timestamp is a monotonically non-decreasing arrival sequence number
	// assigned at admission (engine.nextSequence), not a wall-clock value:
	// it only needs to order arrivals relative to each other.
	Timestamp int64
}

// NewOrder validates and constructs an Order. Quantity starts fully
// unfilled (RemainingQuantity == InitialQuantity); Timestamp is assigned by
// the caller (the engine, at admission) since only the engine knows the
// current sequence.
func NewOrder(id OrderID, side Side, typ OrderType, price Ticks, quantity uint64, timestamp int64) (*Order, error) {
	if id == 0 {
		return nil, ErrInvalidOrderID
	}
	if quantity == 0 {
		return nil, ErrInvalidQuantity
	}
	if price < 0 {
		return nil, ErrInvalidPrice
	}
	return &Order{
		ID:                id,
		Side:              side,
		Type:              typ,
		Price:             price,
		InitialQuantity:   quantity,
		RemainingQuantity: quantity,
		Timestamp:         timestamp,
	}, nil
}

// FilledQuantity is InitialQuantity - RemainingQuantity, maintained as an
// invariant rather than a stored field.
func (o *Order) FilledQuantity() uint64 {
	return o.InitialQuantity - o.RemainingQuantity
}

// IsFilled reports whether the order has no remaining quantity.
func (o *Order) IsFilled() bool {
	return o.RemainingQuantity == 0
}

// Fill reduces RemainingQuantity by qty. Filling for more than what remains
// is the one fatal invariant violation spec.md §7 names; it is signaled via
// InvariantError rather than silently clamped, so a bug in the matching
// loop's bookkeeping surfaces immediately instead of corrupting the book.
func (o *Order) Fill(qty uint64) error {
	if qty > o.RemainingQuantity {
		return newInvariantError("order %d: fill %d exceeds remaining %d", o.ID, qty, o.RemainingQuantity)
	}
	o.RemainingQuantity -= qty
	return nil
}

func (o *Order) String() string {
	return fmt.Sprintf(
		"Order(id=%d side=%s type=%s price=%s qty=%d/%d ts=%d)",
		o.ID, o.Side, o.Type, o.Price, o.RemainingQuantity, o.InitialQuantity, o.Timestamp,
	)
}

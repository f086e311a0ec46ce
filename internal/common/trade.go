package common

import (
	"fmt"
	"time"
)

// TradeInfo is one side's view of a match: which order, at what price, for
// how much. Both sides of a Trade carry the same Price — the resting
// (maker) order's price, per spec.md §4.3.d.
type TradeInfo struct {
	OrderID  OrderID
	Price    Ticks
	Quantity uint64
}

// Trade bundles the bid-side and ask-side TradeInfo for one match, plus the
// wall-clock time it executed. Trades are accumulated in match order and
// returned to whichever call (AddOrder/ModifyOrder) triggered the matching
// loop.
type Trade struct {
	Bid       TradeInfo
	Ask       TradeInfo
	Timestamp time.Time
}

func (t Trade) String() string {
	return fmt.Sprintf(
		"Trade(bid=%d ask=%d price=%s qty=%d at=%s)",
		t.Bid.OrderID, t.Ask.OrderID, t.Bid.Price, t.Bid.Quantity, t.Timestamp.Format(time.RFC3339Nano),
	)
}

// OrderModify carries the caller-supplied fields for order_modify. The
// order's Type is intentionally absent: spec.md §4.4 preserves the
// original order's lifetime policy across a modify, so the engine looks it
// up rather than accepting it here.
type OrderModify struct {
	ID       OrderID
	Side     Side
	Price    Ticks
	Quantity uint64
}

package engine

import "talon/internal/common"

// AddOrder admits a new order, matches it against the book, and returns the
// trades it produced (spec.md §4.1). A duplicate id, an unmatchable
// FillAndKill, or an infeasible FillOrKill all return an empty, nil-error
// trade list — spec.md §7 treats these as rejections, not faults, and the
// reporter is told why via OnReject.
//
// A fill-invariant violation inside the matching loop (common.InvariantError,
// spec.md §7) is recovered here rather than left to crash the caller: it
// aborts this call — trades is discarded and err is the InvariantError — but
// never takes down the process.
func (e *Engine) AddOrder(order *common.Order) (trades []common.Trade, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer recoverInvariant(&err)

	if e.book.Index.Has(order.ID) {
		e.reporter.OnReject(order, errDuplicateOrderID)
		return nil, nil
	}

	if order.Type == common.Market {
		order = rewriteMarketOrder(order)
	}

	if order.Type == common.FillAndKill && !e.canMatch(order) {
		e.reporter.OnReject(order, errUnmatchableFAK)
		return nil, nil
	}

	if order.Type == common.FillOrKill && !e.feasibleFOK(order) {
		e.reporter.OnReject(order, errInfeasibleFOK)
		return nil, nil
	}

	e.insert(order)

	collector := &tradeCollector{next: e.reporter}
	e.reporter = collector
	e.match()
	e.reporter = collector.next
	trades = collector.trades

	if order.Type == common.FillAndKill && order.RemainingQuantity > 0 {
		e.cancelLocked(order.ID)
	}

	return trades, nil
}

// rewriteMarketOrder converts a Market order to FillAndKill at a sentinel
// price that can cross any resting order on the opposite side (spec.md
// §4.1's "Market admission rewrite").
func rewriteMarketOrder(order *common.Order) *common.Order {
	price := common.MaxTicks
	if order.Side == common.Sell {
		price = common.MinTicks
	}
	order.Type = common.FillAndKill
	order.Price = price
	return order
}

// insert places order into its side's book and registers it in the index.
// Must be called with mu held. The order's timestamp is overwritten with the
// engine's arrival sequence number, so aggressor/maker determination never
// depends on wall-clock resolution (two orders submitted within the same
// nanosecond still get a strict arrival order).
func (e *Engine) insert(order *common.Order) {
	order.Timestamp = e.nextSequence()
	sb := e.book.sideBook(order.Side)
	level := sb.Upsert(order.Price)
	elem := level.PushBack(order)
	e.book.Index.Put(order, level, elem)
}

// canMatch reports whether order could cross at least one unit against the
// current top of the opposite book.
func (e *Engine) canMatch(order *common.Order) bool {
	opp := e.book.opposite(order.Side)
	best, ok := opp.Best()
	if !ok {
		return false
	}
	if order.Side == common.Buy {
		return order.Price >= best.Price
	}
	return order.Price <= best.Price
}

// feasibleFOK reports whether the opposite side currently holds enough
// depth, at prices order is willing to cross, to fill order's entire
// quantity in one shot (spec.md §4.1's FillOrKill admission check).
func (e *Engine) feasibleFOK(order *common.Order) bool {
	opp := e.book.opposite(order.Side)
	var available uint64
	for _, lvl := range opp.Levels() {
		if order.Side == common.Buy && lvl.Price > order.Price {
			continue
		}
		if order.Side == common.Sell && lvl.Price < order.Price {
			continue
		}
		available += lvl.Aggregate.TotalQuantity
		if available >= order.RemainingQuantity {
			return true
		}
	}
	return available >= order.RemainingQuantity
}

// tradeCollector is a Reporter that buffers trades produced by a single
// AddOrder call so they can be returned to the caller, while still
// forwarding every trade and rejection to whatever Reporter the engine was
// actually configured with.
type tradeCollector struct {
	next   Reporter
	trades []common.Trade
}

func (c *tradeCollector) OnTrade(t common.Trade) {
	c.trades = append(c.trades, t)
	c.next.OnTrade(t)
}

func (c *tradeCollector) OnReject(order *common.Order, reason error) {
	c.next.OnReject(order, reason)
}

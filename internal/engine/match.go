package engine

import (
	"time"

	"talon/internal/book"
	"talon/internal/common"
)

// match drains crossable quantity at the top of the book until the best bid
// no longer reaches the best ask, or either side runs dry (spec.md §4.3).
// Callers must hold mu. It never suspends on I/O: Reporter.OnTrade is
// expected to be cheap, per its own doc comment.
func (e *Engine) match() {
	e.crossBook()
	e.sweepFillAndKillResidue()
}

func (e *Engine) crossBook() {
	for {
		bidLevel, ok := e.book.Bids.Best()
		if !ok {
			return
		}
		askLevel, ok := e.book.Asks.Best()
		if !ok {
			return
		}
		if bidLevel.Price < askLevel.Price {
			return
		}

		bid := bidLevel.Front()
		ask := askLevel.Front()
		if bid == nil || ask == nil {
			return
		}

		qty := min(bid.RemainingQuantity, ask.RemainingQuantity)

		if err := bid.Fill(qty); err != nil {
			panic(err)
		}
		if err := ask.Fill(qty); err != nil {
			panic(err)
		}

		bidLevel.ReduceQuantity(qty)
		askLevel.ReduceQuantity(qty)

		e.reporter.OnTrade(makeTrade(bid, ask, qty, e.now()))

		if bid.IsFilled() {
			bidLevel.PopFront()
			e.book.Index.Remove(bid.ID)
		}
		if ask.IsFilled() {
			askLevel.PopFront()
			e.book.Index.Remove(ask.ID)
		}

		if bidLevel.IsEmpty() {
			e.book.Bids.Delete(bidLevel.Price)
		}
		if askLevel.IsEmpty() {
			e.book.Asks.Delete(askLevel.Price)
		}
	}
}

// makeTrade determines the aggressor (the later arrival; a tie favors the
// bid, per spec.md §4.3's aggressor rule) and prices the trade at the
// resting (maker) order's price.
func makeTrade(bid, ask *common.Order, qty uint64, ts time.Time) common.Trade {
	var price common.Ticks
	if bid.Timestamp >= ask.Timestamp {
		price = ask.Price // bid is the aggressor, ask is resting
	} else {
		price = bid.Price // ask is the aggressor, bid is resting
	}
	return common.Trade{
		Bid:       common.TradeInfo{OrderID: bid.ID, Price: price, Quantity: qty},
		Ask:       common.TradeInfo{OrderID: ask.ID, Price: price, Quantity: qty},
		Timestamp: ts,
	}
}

// sweepFillAndKillResidue cancels a FillAndKill (or Market, already
// rewritten to FillAndKill at admission) order still resting at the top of
// either side's book after crossBook has run. This only inspects the
// current best level on each side; a FAK order resting at a worse,
// non-best price is not reached here. Admission's own explicit residue
// check is what actually guarantees the order this call just admitted
// never rests regardless of where it ended up — this sweep additionally
// catches a *different* FAK order that was already resting at the top and
// is newly exposed by this match. Both checks stay, deliberately
// overlapping in the order-just-admitted case.
func (e *Engine) sweepFillAndKillResidue() {
	if lvl, ok := e.book.Bids.Best(); ok {
		sweepLevel(e, lvl)
	}
	if lvl, ok := e.book.Asks.Best(); ok {
		sweepLevel(e, lvl)
	}
}

func sweepLevel(e *Engine, lvl *book.PriceLevel) {
	front := lvl.Front()
	if front == nil {
		return
	}
	if front.Type == common.FillAndKill && front.RemainingQuantity > 0 {
		e.cancelLocked(front.ID)
	}
}

package engine

import (
	"fmt"
	"strings"

	"talon/internal/book"
	"talon/internal/common"
)

// LevelInfo is a value-copy snapshot of one resting price level, safe to
// hand to callers outside the engine lock (spec.md §4.6).
type LevelInfo struct {
	Price         common.Ticks
	TotalQuantity uint64
}

// OrderBookLevelInfos is a full depth snapshot: bids ordered best (highest)
// first, asks ordered best (lowest) first.
type OrderBookLevelInfos struct {
	Bids []LevelInfo
	Asks []LevelInfo
}

// GetOrderInfos returns a depth snapshot of the current book. Every field
// is copied out from under the lock, so the returned value never changes
// underneath the caller.
func (e *Engine) GetOrderInfos() OrderBookLevelInfos {
	e.mu.Lock()
	defer e.mu.Unlock()

	return OrderBookLevelInfos{
		Bids: levelInfos(e.book.Bids.Levels()),
		Asks: levelInfos(e.book.Asks.Levels()),
	}
}

func levelInfos(levels []*book.PriceLevel) []LevelInfo {
	out := make([]LevelInfo, 0, len(levels))
	for _, lvl := range levels {
		out = append(out, LevelInfo{Price: lvl.Price, TotalQuantity: lvl.Aggregate.TotalQuantity})
	}
	return out
}

// LogBook renders the current depth snapshot as a human-readable string,
// bids best-first then asks best-first. It exists for the gateway's
// LogBook wire message (internal/net) and for ad-hoc debugging — nothing
// in the matching core itself calls it.
func (e *Engine) LogBook() string {
	info := e.GetOrderInfos()

	var sb strings.Builder
	sb.WriteString("BIDS:\n")
	for _, lvl := range info.Bids {
		fmt.Fprintf(&sb, "  %s x %d\n", lvl.Price, lvl.TotalQuantity)
	}
	sb.WriteString("ASKS:\n")
	for _, lvl := range info.Asks {
		fmt.Fprintf(&sb, "  %s x %d\n", lvl.Price, lvl.TotalQuantity)
	}
	return sb.String()
}

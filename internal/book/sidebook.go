package book

import (
	"github.com/tidwall/btree"

	"talon/internal/common"
)

// SideBook is one side (BUY or SELL) of the book: a price-keyed collection
// of PriceLevels giving O(log n) best-price access (via the teacher's
// tidwall/btree ordered tree) and O(1) per-price lookup (via a companion
// map the tree alone cannot provide). The BUY side orders levels so the
// highest price sorts first; the SELL side so the lowest sorts first —
// both exposed through the same Best() call, matching spec.md §3's "best
// bid = highest price, best ask = lowest price" via each side's own
// traversal direction rather than a per-call comparison.
type SideBook struct {
	side    common.Side
	levels  *btree.BTreeG[*PriceLevel]
	byPrice map[common.Ticks]*PriceLevel
}

// NewSideBook constructs an empty SideBook for the given side.
func NewSideBook(side common.Side) *SideBook {
	var less func(a, b *PriceLevel) bool
	if side == common.Buy {
		less = func(a, b *PriceLevel) bool { return a.Price > b.Price }
	} else {
		less = func(a, b *PriceLevel) bool { return a.Price < b.Price }
	}
	return &SideBook{
		side:    side,
		levels:  btree.NewBTreeG(less),
		byPrice: make(map[common.Ticks]*PriceLevel),
	}
}

// Upsert returns the level at price, creating it (and registering it in
// both the tree and the lookup map together) if it does not already exist.
// This is the only way a level comes into being — spec.md's Design Notes
// call for making "a level exists iff its queue is non-empty" explicit
// rather than relying on a defaultdict-style implicit creation.
func (sb *SideBook) Upsert(price common.Ticks) *PriceLevel {
	if lvl, ok := sb.byPrice[price]; ok {
		return lvl
	}
	lvl := &PriceLevel{Price: price, Side: sb.side}
	sb.byPrice[price] = lvl
	sb.levels.Set(lvl)
	return lvl
}

// Get is the O(1) per-price lookup spec.md §3 requires of a SideBook.
func (sb *SideBook) Get(price common.Ticks) (*PriceLevel, bool) {
	lvl, ok := sb.byPrice[price]
	return lvl, ok
}

// Delete drops a level entirely. Callers must only call this once the
// level's queue is empty (PriceLevel.IsEmpty()) — deletion is the only
// place a level disappears.
func (sb *SideBook) Delete(price common.Ticks) {
	if lvl, ok := sb.byPrice[price]; ok {
		delete(sb.byPrice, price)
		sb.levels.Delete(lvl)
	}
}

// Best returns the top-of-book level for this side: the highest bid or the
// lowest ask, depending on the side this SideBook was constructed for.
func (sb *SideBook) Best() (*PriceLevel, bool) {
	return sb.levels.Min()
}

// Len is the number of distinct price levels resting on this side.
func (sb *SideBook) Len() int {
	return sb.levels.Len()
}

// IsEmpty reports whether this side currently has no resting levels.
func (sb *SideBook) IsEmpty() bool {
	return sb.levels.Len() == 0
}

// Levels returns every level on this side, best-first, in a fresh slice.
// The slice holds the live *PriceLevel pointers, so callers inside the
// engine lock (the FillOrKill depth check, the depth snapshotter) must copy
// out whatever they hand beyond it.
func (sb *SideBook) Levels() []*PriceLevel {
	out := make([]*PriceLevel, 0, sb.levels.Len())
	sb.levels.Scan(func(item *PriceLevel) bool {
		out = append(out, item)
		return true
	})
	return out
}

package engine

import (
	"talon/internal/book"
	"talon/internal/common"
)

// Book aggregates both sides of a single instrument plus the order index,
// mirroring spec.md §3's Book definition. The Engine exclusively owns this
// and everything reachable from it; nothing outside internal/engine holds a
// pointer into it.
type Book struct {
	Bids  *book.SideBook
	Asks  *book.SideBook
	Index *book.OrderIndex
}

func newBook() *Book {
	return &Book{
		Bids:  book.NewSideBook(common.Buy),
		Asks:  book.NewSideBook(common.Sell),
		Index: book.NewOrderIndex(),
	}
}

// sideBook returns the SideBook an order with the given side rests on.
func (b *Book) sideBook(side common.Side) *book.SideBook {
	if side == common.Buy {
		return b.Bids
	}
	return b.Asks
}

// opposite returns the SideBook on the other side of side.
func (b *Book) opposite(side common.Side) *book.SideBook {
	if side == common.Buy {
		return b.Asks
	}
	return b.Bids
}

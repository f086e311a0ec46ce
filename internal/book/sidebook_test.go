package book_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talon/internal/book"
	"talon/internal/common"
)

func mustOrder(t *testing.T, id common.OrderID, side common.Side, price common.Ticks, qty uint64, ts int64) *common.Order {
	t.Helper()
	o, err := common.NewOrder(id, side, common.GoodTillCancel, price, qty, ts)
	require.NoError(t, err)
	return o
}

func TestSideBook_BuyOrdersBestHighestFirst(t *testing.T) {
	sb := book.NewSideBook(common.Buy)

	for i, price := range []common.Ticks{990000, 1010000, 1000000} {
		lvl := sb.Upsert(price)
		lvl.PushBack(mustOrder(t, common.OrderID(i+1), common.Buy, price, 10, int64(i)))
	}

	best, ok := sb.Best()
	require.True(t, ok)
	assert.Equal(t, common.Ticks(1010000), best.Price)
	assert.Equal(t, 3, sb.Len())
}

func TestSideBook_SellOrdersBestLowestFirst(t *testing.T) {
	sb := book.NewSideBook(common.Sell)

	for i, price := range []common.Ticks{990000, 1010000, 1000000} {
		lvl := sb.Upsert(price)
		lvl.PushBack(mustOrder(t, common.OrderID(i+1), common.Sell, price, 10, int64(i)))
	}

	best, ok := sb.Best()
	require.True(t, ok)
	assert.Equal(t, common.Ticks(990000), best.Price)
}

func TestSideBook_UpsertIsIdempotentPerPrice(t *testing.T) {
	sb := book.NewSideBook(common.Buy)

	l1 := sb.Upsert(1000000)
	l2 := sb.Upsert(1000000)
	assert.Same(t, l1, l2)
	assert.Equal(t, 1, sb.Len())
}

func TestSideBook_DeleteRemovesLevel(t *testing.T) {
	sb := book.NewSideBook(common.Buy)
	sb.Upsert(1000000)
	require.Equal(t, 1, sb.Len())

	sb.Delete(1000000)
	assert.Equal(t, 0, sb.Len())
	assert.True(t, sb.IsEmpty())
	_, ok := sb.Get(1000000)
	assert.False(t, ok)
}

func TestPriceLevel_AggregateTracksQueue(t *testing.T) {
	lvl := &book.PriceLevel{Price: 1000000, Side: common.Buy}

	o1 := mustOrder(t, 1, common.Buy, 1000000, 10, 0)
	o2 := mustOrder(t, 2, common.Buy, 1000000, 20, 1)

	lvl.PushBack(o1)
	lvl.PushBack(o2)

	assert.Equal(t, uint64(30), lvl.Aggregate.TotalQuantity)
	assert.Equal(t, 2, lvl.Aggregate.Count)
	assert.Equal(t, o1, lvl.Front())

	lvl.ReduceQuantity(5)
	assert.Equal(t, uint64(25), lvl.Aggregate.TotalQuantity)
	assert.Equal(t, 2, lvl.Aggregate.Count)

	popped := lvl.PopFront()
	assert.Equal(t, o1, popped)
	assert.Equal(t, 1, lvl.Aggregate.Count)
	assert.Equal(t, o2, lvl.Front())
}

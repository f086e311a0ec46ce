package book_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talon/internal/book"
	"talon/internal/common"
)

func TestOrderIndex_PutGetRemove(t *testing.T) {
	idx := book.NewOrderIndex()
	lvl := &book.PriceLevel{Price: 1000000, Side: common.Buy}
	o := mustOrder(t, 7, common.Buy, 1000000, 5, 0)
	el := lvl.PushBack(o)

	assert.False(t, idx.Has(7))
	idx.Put(o, lvl, el)
	assert.True(t, idx.Has(7))

	gotOrder, gotLevel, ok := idx.Get(7)
	require.True(t, ok)
	assert.Same(t, o, gotOrder)
	assert.Same(t, lvl, gotLevel)
	assert.Equal(t, 1, idx.Len())

	idx.Remove(7)
	assert.False(t, idx.Has(7))
	assert.Equal(t, 0, idx.Len())
}

func TestOrderIndex_SnapshotFiltersByPredicate(t *testing.T) {
	idx := book.NewOrderIndex()
	lvl := &book.PriceLevel{Price: 1000000, Side: common.Buy}

	gtc, _ := common.NewOrder(1, common.Buy, common.GoodTillCancel, 1000000, 5, 0)
	gfd, _ := common.NewOrder(2, common.Buy, common.GoodForDay, 1000000, 5, 1)

	idx.Put(gtc, lvl, lvl.PushBack(gtc))
	idx.Put(gfd, lvl, lvl.PushBack(gfd))

	ids := idx.Snapshot(func(o *common.Order) bool { return o.Type == common.GoodForDay })
	require.Len(t, ids, 1)
	assert.Equal(t, common.OrderID(2), ids[0])
}

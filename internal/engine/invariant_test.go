package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talon/internal/common"
)

// fillInvariantError produces a real *common.InvariantError through the
// public Order.Fill path (spec.md §7), rather than fabricating one, so this
// test exercises the exact panic value AddOrder's matching loop would raise.
func fillInvariantError(t *testing.T) error {
	t.Helper()
	o, err := common.NewOrder(1, common.Buy, common.GoodTillCancel, 100, 5, 0)
	require.NoError(t, err)
	fillErr := o.Fill(10)
	require.Error(t, fillErr)
	return fillErr
}

func TestRecoverInvariant_ConvertsInvariantPanicToError(t *testing.T) {
	var err error
	func() {
		defer recoverInvariant(&err)
		panic(fillInvariantError(t))
	}()

	require.Error(t, err)
	var invErr *common.InvariantError
	assert.ErrorAs(t, err, &invErr)
}

func TestRecoverInvariant_RepanicsOnOtherValues(t *testing.T) {
	var err error
	assert.Panics(t, func() {
		defer recoverInvariant(&err)
		panic("not an invariant error")
	})
}

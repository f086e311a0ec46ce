package common_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talon/internal/common"
)

func TestNewOrder_ValidatesFields(t *testing.T) {
	tests := []struct {
		name    string
		id      common.OrderID
		price   common.Ticks
		qty     uint64
		wantErr error
	}{
		{"zero id rejected", 0, 100, 5, common.ErrInvalidOrderID},
		{"zero quantity rejected", 1, 100, 0, common.ErrInvalidQuantity},
		{"negative price rejected", 1, -1, 5, common.ErrInvalidPrice},
		{"valid order accepted", 1, 100, 5, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := common.NewOrder(tt.id, common.Buy, common.GoodTillCancel, tt.price, tt.qty, 0)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, o)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.qty, o.RemainingQuantity)
			assert.Equal(t, tt.qty, o.InitialQuantity)
		})
	}
}

func TestOrder_FillReducesRemainingAndTracksFilled(t *testing.T) {
	o, err := common.NewOrder(1, common.Buy, common.GoodTillCancel, 100, 10, 0)
	require.NoError(t, err)

	require.NoError(t, o.Fill(4))
	assert.Equal(t, uint64(6), o.RemainingQuantity)
	assert.Equal(t, uint64(4), o.FilledQuantity())
	assert.False(t, o.IsFilled())

	require.NoError(t, o.Fill(6))
	assert.Equal(t, uint64(0), o.RemainingQuantity)
	assert.True(t, o.IsFilled())
}

func TestOrder_FillMoreThanRemainingIsInvariantViolation(t *testing.T) {
	o, err := common.NewOrder(1, common.Buy, common.GoodTillCancel, 100, 10, 0)
	require.NoError(t, err)

	err = o.Fill(11)
	require.Error(t, err)
	var invErr *common.InvariantError
	assert.ErrorAs(t, err, &invErr)
	assert.Equal(t, uint64(10), o.RemainingQuantity, "a rejected fill must not mutate state")
}

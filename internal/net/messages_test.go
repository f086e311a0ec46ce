package net

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talon/internal/common"
)

func encodeNewOrder(t *testing.T, id common.OrderID, typ common.OrderType, side common.Side, price float64, qty uint64, username string) []byte {
	t.Helper()
	buf := make([]byte, 2+newOrderMessageHeaderLen+len(username))
	binary.BigEndian.PutUint16(buf[0:2], uint16(NewOrder))
	binary.BigEndian.PutUint64(buf[2:10], uint64(id))
	binary.BigEndian.PutUint16(buf[10:12], uint16(typ))
	binary.BigEndian.PutUint64(buf[12:20], math.Float64bits(price))
	binary.BigEndian.PutUint64(buf[20:28], qty)
	buf[28] = byte(side)
	buf[29] = byte(common.Equities)
	buf[30] = byte(len(username))
	copy(buf[31:], username)
	return buf
}

func TestParseMessage_NewOrderRoundTrips(t *testing.T) {
	raw := encodeNewOrder(t, 7, common.FillAndKill, common.Sell, 48.5, 10, "trader1")

	msg, err := parseMessage(raw)
	require.NoError(t, err)

	nom, ok := msg.(NewOrderMessage)
	require.True(t, ok)
	assert.Equal(t, common.OrderID(7), nom.OrderID)
	assert.Equal(t, common.FillAndKill, nom.OrderType)
	assert.Equal(t, common.Sell, nom.Side)
	assert.Equal(t, common.Equities, nom.AssetType)
	assert.Equal(t, "trader1", nom.Username)

	o, err := nom.Order()
	require.NoError(t, err)
	assert.Equal(t, common.OrderID(7), o.ID)
	assert.Equal(t, uint64(10), o.InitialQuantity)
}

func TestParseMessage_CancelOrder(t *testing.T) {
	buf := make([]byte, 2+cancelOrderMessageHeaderLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(CancelOrder))
	binary.BigEndian.PutUint64(buf[2:10], 42)

	msg, err := parseMessage(buf)
	require.NoError(t, err)
	com, ok := msg.(CancelOrderMessage)
	require.True(t, ok)
	assert.Equal(t, common.OrderID(42), com.OrderID)
}

func TestParseMessage_TooShortIsRejected(t *testing.T) {
	_, err := parseMessage([]byte{0})
	assert.ErrorIs(t, err, ErrMessageTooShort)
}

func TestParseMessage_UnknownTypeIsRejected(t *testing.T) {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf[0:2], 99)
	_, err := parseMessage(buf)
	assert.ErrorIs(t, err, ErrInvalidMessageType)
}

func TestExecutionReport_SerializesHeaderFields(t *testing.T) {
	payload := executionReport(common.TradeInfo{OrderID: 3, Price: common.FromFloat(50.0), Quantity: 20}, common.Buy)
	assert.Equal(t, byte(ExecutionReport), payload[0])
	assert.Equal(t, byte(common.Buy), payload[1])
	assert.Equal(t, uint64(3), binary.BigEndian.Uint64(payload[2:10]))
}

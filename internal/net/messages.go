// Package net implements the gateway's wire protocol and TCP session
// handling: a small length-prefixed binary protocol (adapted from the
// teacher's internal/net/messages.go and server.go) carrying order
// submissions in and execution/error reports out.
package net

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"talon/internal/common"
)

var (
	ErrInvalidMessageType = errors.New("net: invalid message type")
	ErrMessageTooShort    = errors.New("net: message too short")
)

// MessageType identifies the client→gateway message kind. LogBook is wired
// here from the start — the teacher's client referenced a LogBook message
// type that its own enum never defined.
type MessageType uint16

const (
	Heartbeat MessageType = iota
	NewOrder
	CancelOrder
	LogBook
)

type ReportMessageType uint8

const (
	ExecutionReport ReportMessageType = iota
	ErrorReport
)

type Message interface {
	GetType() MessageType
}

const (
	baseMessageHeaderLen        = 2
	newOrderMessageHeaderLen    = 2 + 2 + 8 + 8 + 8 + 1 + 1 + 1
	cancelOrderMessageHeaderLen = 2 + 8
)

type BaseMessage struct {
	TypeOf MessageType
}

func (m BaseMessage) GetType() MessageType { return m.TypeOf }

func parseMessage(msg []byte) (Message, error) {
	if len(msg) < baseMessageHeaderLen {
		return nil, ErrMessageTooShort
	}
	typeOf := MessageType(binary.BigEndian.Uint16(msg[0:2]))
	msg = msg[2:]
	switch typeOf {
	case NewOrder:
		return parseNewOrder(msg)
	case CancelOrder:
		return parseCancelOrder(msg)
	case LogBook:
		return BaseMessage{TypeOf: LogBook}, nil
	default:
		return nil, ErrInvalidMessageType
	}
}

// NewOrderMessage is a client's order submission. OrderID is caller-assigned
// (spec.md §3 requires a positive integer id from the submitter, unlike the
// teacher's server-generated uuid.New() order identity) and Price travels as
// a raw float64 on the wire, converted to canonical Ticks by
// common.FromFloat on receipt. AssetType travels purely as a correlation tag
// for the gateway's own bookkeeping and logging — the engine behind it is
// always single-instrument (spec.md §1: multi-symbol routing is out of
// scope), the same way the teacher's AssetType selected one of several
// per-symbol Books but this gateway only ever has the one.
type NewOrderMessage struct {
	BaseMessage
	OrderID     common.OrderID   // 8 bytes
	OrderType   common.OrderType // 2 bytes
	LimitPrice  float64          // 8 bytes
	Quantity    uint64           // 8 bytes
	Side        common.Side      // 1 byte
	AssetType   common.AssetType // 1 byte
	UsernameLen uint8            // 1 byte
	Username    string           // n bytes
}

func parseNewOrder(msg []byte) (NewOrderMessage, error) {
	if len(msg) < newOrderMessageHeaderLen {
		return NewOrderMessage{}, ErrMessageTooShort
	}
	m := NewOrderMessage{BaseMessage: BaseMessage{TypeOf: NewOrder}}
	m.OrderID = common.OrderID(binary.BigEndian.Uint64(msg[0:8]))
	m.OrderType = common.OrderType(binary.BigEndian.Uint16(msg[8:10]))
	m.LimitPrice = math.Float64frombits(binary.BigEndian.Uint64(msg[10:18]))
	m.Quantity = binary.BigEndian.Uint64(msg[18:26])
	m.Side = common.Side(msg[26])
	m.AssetType = common.AssetType(msg[27])
	m.UsernameLen = msg[28]

	expectedLen := newOrderMessageHeaderLen + int(m.UsernameLen)
	if len(msg) < expectedLen {
		return NewOrderMessage{}, ErrMessageTooShort
	}
	m.Username = string(msg[29 : 29+m.UsernameLen])
	return m, nil
}

// Order builds the engine-level Order this message describes.
func (m NewOrderMessage) Order() (*common.Order, error) {
	return common.NewOrder(m.OrderID, m.Side, m.OrderType, common.FromFloat(m.LimitPrice), m.Quantity, 0)
}

type CancelOrderMessage struct {
	BaseMessage
	OrderID common.OrderID // 8 bytes
}

func parseCancelOrder(msg []byte) (CancelOrderMessage, error) {
	if len(msg) < cancelOrderMessageHeaderLen {
		return CancelOrderMessage{}, ErrMessageTooShort
	}
	return CancelOrderMessage{
		BaseMessage: BaseMessage{TypeOf: CancelOrder},
		OrderID:     common.OrderID(binary.BigEndian.Uint64(msg[0:8])),
	}, nil
}

// Report is a gateway→client wire message: either an execution report for
// one leg of a trade, or an error report for a rejected/failed request.
type Report struct {
	MessageType ReportMessageType
	Side        common.Side
	OrderID     common.OrderID
	Quantity    uint64
	Price       float64
	ErrStrLen   uint32
	Err         string
}

const reportFixedHeaderLen = 1 + 1 + 8 + 8 + 8 + 4

// Serialize packs a Report for the wire.
func (r *Report) Serialize() []byte {
	buf := make([]byte, reportFixedHeaderLen+len(r.Err))
	buf[0] = byte(r.MessageType)
	buf[1] = byte(r.Side)
	binary.BigEndian.PutUint64(buf[2:10], uint64(r.OrderID))
	binary.BigEndian.PutUint64(buf[10:18], r.Quantity)
	binary.BigEndian.PutUint64(buf[18:26], math.Float64bits(r.Price))
	binary.BigEndian.PutUint32(buf[26:30], r.ErrStrLen)
	copy(buf[reportFixedHeaderLen:], r.Err)
	return buf
}

func executionReport(info common.TradeInfo, side common.Side) []byte {
	r := Report{
		MessageType: ExecutionReport,
		Side:        side,
		OrderID:     info.OrderID,
		Quantity:    info.Quantity,
		Price:       info.Price.Float64(),
	}
	return r.Serialize()
}

func errorReport(orderID common.OrderID, err error) []byte {
	errStr := fmt.Sprintf("%v", err)
	r := Report{
		MessageType: ErrorReport,
		OrderID:     orderID,
		ErrStrLen:   uint32(len(errStr)),
		Err:         errStr,
	}
	return r.Serialize()
}

package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archwave/matchwire/book"
)

func TestOrderPayloadRoundTrip(t *testing.T) {
	o := book.Order{
		UserID:            "trader1",
		OrderID:           "order-123",
		Side:              book.Buy,
		Price:             150.25,
		Quantity:          100,
		RemainingQuantity: 100,
		Timestamp:         1234567890,
	}

	buf := EncodeOrder(o)
	require.Len(t, buf, OrderPayloadSize)

	decoded, err := DecodeOrder(buf)
	require.NoError(t, err)

	assert.Equal(t, o.UserID, decoded.UserID)
	assert.Equal(t, o.OrderID, decoded.OrderID)
	assert.Equal(t, o.Side, decoded.Side)
	assert.Equal(t, o.Price, decoded.Price)
	assert.Equal(t, o.Quantity, decoded.Quantity)
	assert.Equal(t, o.RemainingQuantity, decoded.RemainingQuantity)
	assert.Equal(t, o.Timestamp, decoded.Timestamp)
}

func TestOrderPayloadTruncatesLongIDs(t *testing.T) {
	o := book.Order{
		UserID:            "this-user-id-is-far-too-long-to-fit",
		OrderID:           "order-123",
		Side:              book.Sell,
		Price:             10,
		Quantity:          1,
		RemainingQuantity: 1,
	}
	buf := EncodeOrder(o)
	decoded, err := DecodeOrder(buf)
	require.NoError(t, err)
	assert.Len(t, decoded.UserID, userIDFieldSize-1)
}

func TestDecodeOrderRejectsWrongSize(t *testing.T) {
	_, err := DecodeOrder(make([]byte, OrderPayloadSize-1))
	assert.ErrorIs(t, err, ErrShortPayload)
}

func TestDecodeOrderRejectsInvalidSide(t *testing.T) {
	o := book.Order{OrderID: "A", Side: book.Buy, Price: 10, Quantity: 1, RemainingQuantity: 1}
	buf := EncodeOrder(o)
	buf[48] = 2 // corrupt the side byte beyond {0,1}
	_, err := DecodeOrder(buf)
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestDecodeOrderClampsRemainingToQuantity(t *testing.T) {
	o := book.Order{OrderID: "A", Side: book.Buy, Price: 10, Quantity: 5, RemainingQuantity: 9000}
	buf := EncodeOrder(o)
	decoded, err := DecodeOrder(buf)
	require.NoError(t, err)
	assert.Equal(t, int32(5), decoded.RemainingQuantity)
}

func TestCancelPayloadRoundTrip(t *testing.T) {
	buf := EncodeCancel("order-42")
	require.Len(t, buf, 32)
	id, err := DecodeCancel(buf)
	require.NoError(t, err)
	assert.Equal(t, "order-42", id)
}

func TestDecodeCancelRejectsShortPayload(t *testing.T) {
	_, err := DecodeCancel(make([]byte, 10))
	assert.ErrorIs(t, err, ErrShortPayload)
}

func TestReportPayloadRoundTrip(t *testing.T) {
	r := book.ExecutionReport{
		OrderID:   "order-42",
		Price:     101.5,
		LastShares: 10,
		LeavesQty: 40,
		ExecType:  book.ExecPartialFill,
		SessionID: 7,
	}
	buf := EncodeReport(r)
	require.Len(t, buf, ReportPayloadSize)

	decoded, err := DecodeReport(buf)
	require.NoError(t, err)
	assert.Equal(t, r.OrderID, decoded.OrderID)
	assert.Equal(t, r.ExecType, decoded.ExecType)
	assert.Equal(t, r.LeavesQty, decoded.LeavesQty)
	// Price and LastShares never cross the wire.
	assert.Equal(t, float64(0), decoded.Price)
	assert.Equal(t, int32(0), decoded.LastShares)
}

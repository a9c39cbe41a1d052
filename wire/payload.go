package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/archwave/matchwire/book"
)

// OrderPayloadSize is the fixed wire size of an OrderPayload.
//
// Layout (little-endian numeric fields):
//
//	 0..16  user_id          (NUL-padded)
//	16..48  order_id         (NUL-padded)
//	48      side             (uint8: 1=BUY, 0=SELL)
//	49..57  price            (float64)
//	57..61  quantity         (int32)
//	61..65  remaining_qty    (int32)
//	65..73  timestamp        (uint64)
const OrderPayloadSize = 73

const (
	userIDFieldSize  = 16
	orderIDFieldSize = 32
)

// ReportPayloadSize is the fixed wire size of a ReportPayload.
//
// Layout:
//
//	 0..32  order_id    (NUL-padded)
//	32      exec_type   (uint8)
//	33..37  leaves_qty  (int32, little-endian)
const ReportPayloadSize = 37

// ErrShortPayload is returned when a buffer is not the fixed wire size of an
// order or report payload, or is shorter than the 32-byte cancel payload.
var ErrShortPayload = errors.New("wire: payload is the wrong size")

// ErrInvalidOrder is returned when a decoded order fails its invariants:
// side out of range, or a non-positive price or quantity.
var ErrInvalidOrder = errors.New("wire: invalid order payload")

func putFixedString(dst []byte, s string) {
	if len(s) > len(dst)-1 {
		s = s[:len(dst)-1] // keep room for the NUL terminator
	}
	n := copy(dst, s)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}

func getFixedString(src []byte) string {
	if i := bytes.IndexByte(src, 0); i >= 0 {
		return string(src[:i])
	}
	return string(src)
}

// EncodeOrder serializes o into a 73-byte OrderPayload.
func EncodeOrder(o book.Order) []byte {
	buf := make([]byte, OrderPayloadSize)
	putFixedString(buf[0:16], o.UserID)
	putFixedString(buf[16:48], o.OrderID)
	if o.Side == book.Buy {
		buf[48] = 1
	} else {
		buf[48] = 0
	}
	binary.LittleEndian.PutUint64(buf[49:57], math.Float64bits(o.Price))
	binary.LittleEndian.PutUint32(buf[57:61], uint32(o.Quantity))
	binary.LittleEndian.PutUint32(buf[61:65], uint32(o.RemainingQuantity))
	binary.LittleEndian.PutUint64(buf[65:73], o.Timestamp)
	return buf
}

// DecodeOrder parses a 73-byte OrderPayload into a book.Order.
//
// It rejects with ErrShortPayload if len(buf) != OrderPayloadSize, and with
// ErrInvalidOrder if side is out of range or price/quantity are non-positive.
// On success, remaining_quantity is clamped to at most quantity.
func DecodeOrder(buf []byte) (book.Order, error) {
	if len(buf) != OrderPayloadSize {
		return book.Order{}, fmt.Errorf("%w: got %d, want %d", ErrShortPayload, len(buf), OrderPayloadSize)
	}

	sideByte := buf[48]
	if sideByte > 1 {
		return book.Order{}, fmt.Errorf("%w: side byte %d out of range", ErrInvalidOrder, sideByte)
	}
	side := book.Sell
	if sideByte == 1 {
		side = book.Buy
	}

	price := math.Float64frombits(binary.LittleEndian.Uint64(buf[49:57]))
	quantity := int32(binary.LittleEndian.Uint32(buf[57:61]))
	remaining := int32(binary.LittleEndian.Uint32(buf[61:65]))

	if price <= 0 || quantity <= 0 {
		return book.Order{}, fmt.Errorf("%w: price=%v quantity=%d", ErrInvalidOrder, price, quantity)
	}
	if remaining <= 0 || remaining > quantity {
		remaining = quantity
	}

	return book.Order{
		UserID:            getFixedString(buf[0:16]),
		OrderID:           getFixedString(buf[16:48]),
		Side:              side,
		Price:             price,
		Quantity:          quantity,
		RemainingQuantity: remaining,
		Timestamp:         binary.LittleEndian.Uint64(buf[65:73]),
	}, nil
}

// EncodeCancel serializes orderID into a 32-byte, NUL-padded cancel payload.
func EncodeCancel(orderID string) []byte {
	buf := make([]byte, orderIDFieldSize)
	putFixedString(buf, orderID)
	return buf
}

// DecodeCancel parses a cancel payload into an order id. It returns
// ErrShortPayload if buf is smaller than the fixed 32-byte order-id slot.
func DecodeCancel(buf []byte) (string, error) {
	if len(buf) < orderIDFieldSize {
		return "", fmt.Errorf("%w: got %d, want at least %d", ErrShortPayload, len(buf), orderIDFieldSize)
	}
	return getFixedString(buf[:orderIDFieldSize]), nil
}

// EncodeReport serializes r into a 37-byte ReportPayload. Price and
// LastShares are intentionally not transmitted; only order_id, exec_type, and
// leaves_qty cross the wire.
func EncodeReport(r book.ExecutionReport) []byte {
	buf := make([]byte, ReportPayloadSize)
	putFixedString(buf[0:32], r.OrderID)
	buf[32] = byte(r.ExecType)
	binary.LittleEndian.PutUint32(buf[33:37], uint32(r.LeavesQty))
	return buf
}

// DecodeReport parses a 37-byte ReportPayload.
func DecodeReport(buf []byte) (book.ExecutionReport, error) {
	if len(buf) != ReportPayloadSize {
		return book.ExecutionReport{}, fmt.Errorf("%w: got %d, want %d", ErrShortPayload, len(buf), ReportPayloadSize)
	}
	return book.ExecutionReport{
		OrderID:   getFixedString(buf[0:32]),
		ExecType:  book.ExecType(buf[32]),
		LeavesQty: int32(binary.LittleEndian.Uint32(buf[33:37])),
	}, nil
}

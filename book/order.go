// Package book implements a single-symbol, price-time-priority limit order
// book: incremental matching, cancel-by-id, and execution report generation.
package book

import "fmt"

// Side is the side of an order.
type Side uint8

const (
	// Sell represents a sell (ask) order.
	Sell Side = iota
	// Buy represents a buy (bid) order.
	Buy
)

// String returns the string representation of a Side.
func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// ExecType classifies an ExecutionReport.
type ExecType uint8

const (
	// ExecNew reports an order accepted onto the book with no trade yet.
	ExecNew ExecType = iota
	// ExecPartialFill reports a trade that leaves residual quantity.
	ExecPartialFill
	// ExecFill reports a trade that fully consumes the order.
	ExecFill
	// ExecCanceled reports a successful cancellation.
	ExecCanceled
)

// String returns the string representation of an ExecType.
func (t ExecType) String() string {
	switch t {
	case ExecNew:
		return "NEW"
	case ExecPartialFill:
		return "PARTIAL_FILL"
	case ExecFill:
		return "FILL"
	case ExecCanceled:
		return "CANCELED"
	default:
		return "UNKNOWN"
	}
}

// Order represents a resting or incoming limit order.
type Order struct {
	// UserID identifies the submitting client.
	UserID string
	// OrderID is the unique identifier for the order.
	OrderID string
	// Side is the order side (buy/sell).
	Side Side
	// Price is the limit price.
	Price float64
	// Quantity is the original order size.
	Quantity int32
	// RemainingQuantity is the unfilled residue.
	RemainingQuantity int32
	// Timestamp is client-supplied metadata; it does not affect priority.
	Timestamp uint64
	// SessionID identifies the connection that submitted the order, so that a
	// maker fill can be routed back to its own owning connection. It has no
	// wire representation.
	SessionID uint64
}

// String returns the string representation of an Order.
func (o *Order) String() string {
	return fmt.Sprintf(
		"Order(ID=%s, User=%s, Side=%s, Price=%.4f, Qty=%d, Leaves=%d, Session=%d)",
		o.OrderID, o.UserID, o.Side, o.Price, o.Quantity, o.RemainingQuantity, o.SessionID,
	)
}

// IsBuy returns true if this is a buy order.
func (o *Order) IsBuy() bool {
	return o.Side == Buy
}

// IsSell returns true if this is a sell order.
func (o *Order) IsSell() bool {
	return o.Side == Sell
}

// ExecutionReport describes one matching-engine event for a single order.
type ExecutionReport struct {
	// OrderID is the subject order's id.
	OrderID string
	// Price is the last traded price for this event, 0 for NEW/CANCELED.
	Price float64
	// LastShares is the quantity executed by this event.
	LastShares int32
	// LeavesQty is the quantity remaining on the subject order after this event.
	LeavesQty int32
	// ExecType classifies the event.
	ExecType ExecType
	// SessionID identifies the connection that should receive this report: the
	// incoming order's session for taker-side reports, the resting order's
	// session for maker-side fills and cancellations.
	SessionID uint64
}

// String returns the string representation of an ExecutionReport.
func (r ExecutionReport) String() string {
	return fmt.Sprintf(
		"ExecutionReport(OrderID=%s, Type=%s, Price=%.4f, LastShares=%d, Leaves=%d, Session=%d)",
		r.OrderID, r.ExecType, r.Price, r.LastShares, r.LeavesQty, r.SessionID,
	)
}

// ReportSink receives ExecutionReports as the book emits them, in emission
// order. Implementations must not block for long: MatchOrder and CancelOrder
// call it synchronously from within the book's own call stack.
type ReportSink func(ExecutionReport)

// OrderNode is an Order with linked-list pointers, for use in a level's
// OrderList and as the O(1) cancel handle stored in the book's order index.
type OrderNode struct {
	Order
	// Next points to the next order in the level.
	Next *OrderNode
	// Prev points to the previous order in the level.
	Prev *OrderNode
	// Level points to the price level containing this order.
	Level *LevelNode
}

// NewOrderNode creates a new OrderNode from an Order.
func NewOrderNode(order Order) *OrderNode {
	return &OrderNode{Order: order}
}

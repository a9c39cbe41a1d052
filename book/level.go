package book

import "fmt"

// LevelSide distinguishes a bid level from an ask level.
type LevelSide uint8

const (
	// LevelBid is a buy-side price level.
	LevelBid LevelSide = iota
	// LevelAsk is a sell-side price level.
	LevelAsk
)

// String returns the string representation of a LevelSide.
func (s LevelSide) String() string {
	switch s {
	case LevelBid:
		return "BID"
	case LevelAsk:
		return "ASK"
	default:
		return "UNKNOWN"
	}
}

// Level is a snapshot of a single price level's aggregate state.
type Level struct {
	// Side is the level side (bid or ask).
	Side LevelSide
	// Price is the price of this level.
	Price float64
	// TotalVolume is the sum of remaining quantity at this price level.
	TotalVolume int64
	// Orders is the number of orders resting at this price level.
	Orders int
}

// String returns the string representation of a Level.
func (l *Level) String() string {
	return fmt.Sprintf("Level(Side=%s, Price=%.4f, Volume=%d, Orders=%d)", l.Side, l.Price, l.TotalVolume, l.Orders)
}

// OrderList is an intrusive, doubly-linked FIFO queue of orders resting at a
// single price level. Arrival order within the list is the book's time
// priority.
type OrderList struct {
	Head *OrderNode
	Tail *OrderNode
	Size int
}

// PushBack appends order to the tail of the list (lowest priority at this price).
func (ol *OrderList) PushBack(order *OrderNode) {
	order.Next = nil
	order.Prev = ol.Tail
	if ol.Tail != nil {
		ol.Tail.Next = order
	} else {
		ol.Head = order
	}
	ol.Tail = order
	ol.Size++
}

// Remove detaches order from the list in O(1), using its own prev/next pointers.
func (ol *OrderList) Remove(order *OrderNode) {
	if order.Prev != nil {
		order.Prev.Next = order.Next
	} else {
		ol.Head = order.Next
	}
	if order.Next != nil {
		order.Next.Prev = order.Prev
	} else {
		ol.Tail = order.Prev
	}
	order.Next = nil
	order.Prev = nil
	ol.Size--
}

// Front returns the oldest (highest time priority) order in the list, or nil.
func (ol *OrderList) Front() *OrderNode {
	return ol.Head
}

// Empty returns true if the list holds no orders.
func (ol *OrderList) Empty() bool {
	return ol.Size == 0
}

// LevelNode is a price level together with the AVL tree linkage that keys it
// by price within one side's tree.
type LevelNode struct {
	Level
	OrderList OrderList
	Parent    *LevelNode
	Left      *LevelNode
	Right     *LevelNode
	Balance   int
}

package book

import "fmt"

// Book is a two-sided, single-symbol limit order book: an AVL tree of price
// levels per side, each holding an intrusive FIFO queue of resting orders,
// plus an order-id index for O(1) cancellation.
type Book struct {
	bids *AVLTree // descending: highest bid first
	asks *AVLTree // ascending: lowest ask first

	bestBid *LevelNode
	bestAsk *LevelNode

	orderIndex map[string]*OrderNode

	lastTradedPrice float64
}

// NewBook creates a new, empty order book.
func NewBook() *Book {
	return &Book{
		bids:       NewAVLTree(true),
		asks:       NewAVLTree(false),
		orderIndex: make(map[string]*OrderNode),
	}
}

// BestBid returns the best (highest) bid level, or nil if the buy side is empty.
func (b *Book) BestBid() *LevelNode {
	return b.bestBid
}

// BestAsk returns the best (lowest) ask level, or nil if the sell side is empty.
func (b *Book) BestAsk() *LevelNode {
	return b.bestAsk
}

// LastTradedPrice returns the most recent trade price, or 0 if no trade has occurred.
func (b *Book) LastTradedPrice() float64 {
	return b.lastTradedPrice
}

// Size returns the number of distinct price levels across both sides.
func (b *Book) Size() int {
	return b.bids.Size() + b.asks.Size()
}

// String returns a string representation of the book.
func (b *Book) String() string {
	return fmt.Sprintf("Book(Bids=%d, Asks=%d, LastTraded=%.4f)", b.bids.Size(), b.asks.Size(), b.lastTradedPrice)
}

func (b *Book) treeFor(side Side) *AVLTree {
	if side == Buy {
		return b.bids
	}
	return b.asks
}

func (b *Book) oppositeTreeFor(side Side) *AVLTree {
	if side == Buy {
		return b.asks
	}
	return b.bids
}

func (b *Book) levelSideFor(side Side) LevelSide {
	if side == Buy {
		return LevelBid
	}
	return LevelAsk
}

func (b *Book) updateBestOnInsert(side Side, level *LevelNode) {
	if side == Buy {
		if b.bestBid == nil || level.Price > b.bestBid.Price {
			b.bestBid = level
		}
	} else {
		if b.bestAsk == nil || level.Price < b.bestAsk.Price {
			b.bestAsk = level
		}
	}
}

func (b *Book) updateBestOnRemove(side Side, level *LevelNode) {
	if side == Buy {
		if b.bestBid == level {
			b.bestBid = b.bids.First()
		}
	} else {
		if b.bestAsk == level {
			b.bestAsk = b.asks.First()
		}
	}
}

// restOrder inserts order at the tail of its own side's level at its limit
// price, creating the level if it does not already exist, and records the
// order in the book's index for O(1) cancellation.
func (b *Book) restOrder(order *OrderNode) {
	tree := b.treeFor(order.Side)
	level := tree.Find(order.Price)
	if level == nil {
		level = newLevelNodePooled(b.levelSideFor(order.Side), order.Price)
		tree.Insert(level)
		b.updateBestOnInsert(order.Side, level)
	}

	level.OrderList.PushBack(order)
	order.Level = level
	level.TotalVolume += int64(order.RemainingQuantity)
	level.Orders++

	b.orderIndex[order.OrderID] = order
}

// removeFromLevel detaches order from its level's queue and, if the level
// becomes empty, removes the level from its tree and releases it to the pool.
func (b *Book) removeFromLevel(order *OrderNode) {
	level := order.Level
	level.OrderList.Remove(order)
	level.TotalVolume -= int64(order.RemainingQuantity)
	level.Orders--

	if level.OrderList.Empty() {
		tree := b.treeFor(order.Side)
		detached := tree.Remove(level)
		b.updateBestOnRemove(order.Side, level)
		releaseLevelNode(detached)
	}
	order.Level = nil
}

// validate checks an order's basic invariants: positive price, positive
// quantity, a valid side, and clamps remaining quantity to quantity.
func validate(o *Order) error {
	if o.Side != Buy && o.Side != Sell {
		return ErrOrderParameterInvalid
	}
	if o.Price <= 0 || o.Quantity <= 0 {
		return ErrOrderParameterInvalid
	}
	if o.RemainingQuantity <= 0 || o.RemainingQuantity > o.Quantity {
		o.RemainingQuantity = o.Quantity
	}
	return nil
}

// MatchOrder submits incoming to the book. It walks the opposite side from
// the best price outward, trading against resting orders in arrival order
// until incoming is exhausted or no further level crosses, then emits exactly
// one terminal report for incoming (NEW, a single PARTIAL_FILL, or FILL) and,
// if any quantity remains, rests it on its own side. Every report emitted —
// for both makers and the incoming order — is delivered through sink in
// generation order.
//
// MatchOrder returns ErrOrderDuplicate if incoming.OrderID already exists in
// the book, and ErrOrderParameterInvalid if incoming fails validation; in
// both cases no book state is mutated and sink is not called.
func (b *Book) MatchOrder(incoming Order, sink ReportSink) error {
	if err := validate(&incoming); err != nil {
		return err
	}
	if _, exists := b.orderIndex[incoming.OrderID]; exists {
		return ErrOrderDuplicate
	}

	opposite := b.oppositeTreeFor(incoming.Side)
	remaining := incoming.RemainingQuantity

	for remaining > 0 {
		level := opposite.First()
		if level == nil {
			break
		}
		if incoming.IsBuy() && incoming.Price < level.Price {
			break
		}
		if incoming.IsSell() && incoming.Price > level.Price {
			break
		}

		for remaining > 0 && !level.OrderList.Empty() {
			resting := level.OrderList.Front()

			traded := remaining
			if resting.RemainingQuantity < traded {
				traded = resting.RemainingQuantity
			}

			b.lastTradedPrice = level.Price
			remaining -= traded
			resting.RemainingQuantity -= traded
			level.TotalVolume -= int64(traded)

			makerExec := ExecPartialFill
			if resting.RemainingQuantity == 0 {
				makerExec = ExecFill
			}
			sink(ExecutionReport{
				OrderID:    resting.OrderID,
				Price:      level.Price,
				LastShares: traded,
				LeavesQty:  resting.RemainingQuantity,
				ExecType:   makerExec,
				SessionID:  resting.SessionID,
			})

			if resting.RemainingQuantity == 0 {
				level.OrderList.Remove(resting)
				level.Orders--
				delete(b.orderIndex, resting.OrderID)
				releaseOrderNode(resting)
			}
		}

		if level.OrderList.Empty() {
			side := Sell
			if level.Side == LevelBid {
				side = Buy
			}
			detached := opposite.Remove(level)
			b.updateBestOnRemove(side, level)
			releaseLevelNode(detached)
		}
	}

	filled := incoming.RemainingQuantity - remaining
	incoming.RemainingQuantity = remaining

	switch {
	case remaining == 0:
		sink(ExecutionReport{
			OrderID:    incoming.OrderID,
			Price:      b.lastTradedPrice,
			LastShares: filled,
			LeavesQty:  0,
			ExecType:   ExecFill,
			SessionID:  incoming.SessionID,
		})
	case filled > 0:
		sink(ExecutionReport{
			OrderID:    incoming.OrderID,
			Price:      b.lastTradedPrice,
			LastShares: filled,
			LeavesQty:  remaining,
			ExecType:   ExecPartialFill,
			SessionID:  incoming.SessionID,
		})
		b.restOrder(newOrderNodePooled(incoming))
	default:
		sink(ExecutionReport{
			OrderID:    incoming.OrderID,
			Price:      0,
			LastShares: 0,
			LeavesQty:  remaining,
			ExecType:   ExecNew,
			SessionID:  incoming.SessionID,
		})
		b.restOrder(newOrderNodePooled(incoming))
	}

	return nil
}

// CancelOrder removes orderID from the book if it is resting. It returns
// true and emits one ExecCanceled report (addressed to the cancelled order's
// own session) if the order was found; it returns false and emits nothing
// otherwise.
func (b *Book) CancelOrder(orderID string, sink ReportSink) bool {
	order, ok := b.orderIndex[orderID]
	if !ok {
		return false
	}

	sessionID := order.SessionID
	b.removeFromLevel(order)
	delete(b.orderIndex, orderID)
	releaseOrderNode(order)

	sink(ExecutionReport{
		OrderID:    orderID,
		Price:      0,
		LastShares: 0,
		LeavesQty:  0,
		ExecType:   ExecCanceled,
		SessionID:  sessionID,
	})
	return true
}

package book

import "sync"

// sync.Pool-backed reuse of order and level nodes, keeping the matching hot
// path allocation-free on the common resize-and-reinsert cycle.

var orderNodePool = sync.Pool{
	New: func() interface{} {
		return &OrderNode{}
	},
}

var levelNodePool = sync.Pool{
	New: func() interface{} {
		return &LevelNode{}
	},
}

// acquireOrderNode gets an OrderNode from the pool. A recycled node has nil
// links but still holds the Order it carried when released.
func acquireOrderNode() *OrderNode {
	return orderNodePool.Get().(*OrderNode)
}

// releaseOrderNode clears node's links and returns it to the pool.
func releaseOrderNode(node *OrderNode) {
	if node == nil {
		return
	}
	node.Next = nil
	node.Prev = nil
	node.Level = nil
	orderNodePool.Put(node)
}

// acquireLevelNode gets a LevelNode from the pool. A recycled node has nil
// links and an empty OrderList but still holds its old Level and Balance.
func acquireLevelNode() *LevelNode {
	return levelNodePool.Get().(*LevelNode)
}

// releaseLevelNode clears node's links and returns it to the pool.
func releaseLevelNode(node *LevelNode) {
	if node == nil {
		return
	}
	node.Parent = nil
	node.Left = nil
	node.Right = nil
	node.OrderList = OrderList{}
	levelNodePool.Put(node)
}

// newOrderNodePooled acquires an OrderNode from the pool and initializes it
// with order.
func newOrderNodePooled(order Order) *OrderNode {
	node := acquireOrderNode()
	node.Order = order
	node.Next = nil
	node.Prev = nil
	node.Level = nil
	return node
}

// newLevelNodePooled acquires a LevelNode from the pool and initializes it.
func newLevelNodePooled(side LevelSide, price float64) *LevelNode {
	node := acquireLevelNode()
	node.Level = Level{Side: side, Price: price}
	node.OrderList = OrderList{}
	node.Parent = nil
	node.Left = nil
	node.Right = nil
	node.Balance = 0
	return node
}

package book

import (
	"strconv"
	"testing"
)

func TestOrderNodePool(t *testing.T) {
	node := acquireOrderNode()
	if node == nil {
		t.Fatal("expected non-nil node from pool")
	}
	node.Order = Order{OrderID: "A", Quantity: 1}
	releaseOrderNode(node)

	node2 := acquireOrderNode()
	if node2 == nil {
		t.Fatal("expected non-nil node from pool")
	}
}

func TestLevelNodePool(t *testing.T) {
	node := acquireLevelNode()
	if node == nil {
		t.Fatal("expected non-nil node from pool")
	}
	node.Level = Level{Side: LevelBid, Price: 100}
	releaseLevelNode(node)

	node2 := acquireLevelNode()
	if node2 == nil {
		t.Fatal("expected non-nil node from pool")
	}
}

func TestNewOrderNodePooled(t *testing.T) {
	order := Order{OrderID: "A", Side: Buy, Price: 100, Quantity: 10, RemainingQuantity: 10}
	node := newOrderNodePooled(order)
	if node.OrderID != "A" || node.Price != 100 {
		t.Errorf("unexpected node: %+v", node)
	}
	releaseOrderNode(node)
}

func TestNewLevelNodePooled(t *testing.T) {
	node := newLevelNodePooled(LevelBid, 100)
	if node.Price != 100 || node.Side != LevelBid {
		t.Errorf("unexpected node: %+v", node)
	}
	releaseLevelNode(node)
}

func BenchmarkOrderNodePooled(b *testing.B) {
	order := Order{OrderID: "A", Side: Buy, Price: 100, Quantity: 10, RemainingQuantity: 10}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		node := newOrderNodePooled(order)
		releaseOrderNode(node)
	}
}

func BenchmarkOrderNodeNonPooled(b *testing.B) {
	order := Order{OrderID: "A", Side: Buy, Price: 100, Quantity: 10, RemainingQuantity: 10}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		node := NewOrderNode(order)
		_ = node
	}
}

func BenchmarkMatchOrderNoCross(b *testing.B) {
	bk := NewBook()
	sink := func(ExecutionReport) {}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bk.MatchOrder(Order{
			OrderID:           strconv.Itoa(i),
			Side:              Buy,
			Price:             float64(100 + i%50),
			Quantity:          10,
			RemainingQuantity: 10,
		}, sink)
	}
}

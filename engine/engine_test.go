package engine

import (
	"testing"

	"github.com/archwave/matchwire/book"
	"github.com/archwave/matchwire/wire"
)

func newOrderPayload(t *testing.T, orderID string, side book.Side, price float64, qty int32) []byte {
	t.Helper()
	return wire.EncodeOrder(book.Order{
		OrderID:           orderID,
		Side:              side,
		Price:             price,
		Quantity:          qty,
		RemainingQuantity: qty,
	})
}

func decodeReports(t *testing.T, w *fakeWriter) []book.ExecutionReport {
	t.Helper()
	var reports []book.ExecutionReport
	for _, frame := range w.frames {
		decoded, cursor, status := wire.Decode(frame, 0)
		if status != wire.Ok || cursor != len(frame) {
			t.Fatalf("expected a complete frame, got status %v", status)
		}
		report, err := wire.DecodeReport(decoded.Payload)
		if err != nil {
			t.Fatalf("decoding report: %v", err)
		}
		reports = append(reports, report)
	}
	return reports
}

// TestEngineRoutesMakerFillToMakerSession checks maker/taker session routing
// end to end through Engine.Dispatch rather than directly against the book.
func TestEngineRoutesMakerFillToMakerSession(t *testing.T) {
	registry := NewRegistry()
	makerConn := &fakeWriter{}
	takerConn := &fakeWriter{}
	makerSession := registry.NewSession(makerConn)
	takerSession := registry.NewSession(takerConn)

	e := New(registry)

	e.Dispatch(makerSession, wire.NewOrder, newOrderPayload(t, "A", book.Sell, 100, 10))
	makerConn.frames = nil // drop the maker's own NEW report for A

	e.Dispatch(takerSession, wire.NewOrder, newOrderPayload(t, "B", book.Buy, 100, 6))

	makerReports := decodeReports(t, makerConn)
	takerReports := decodeReports(t, takerConn)

	if len(makerReports) != 1 {
		t.Fatalf("expected maker to receive exactly 1 report, got %d", len(makerReports))
	}
	if makerReports[0].OrderID != "A" || makerReports[0].ExecType != book.ExecPartialFill {
		t.Errorf("unexpected maker report: %+v", makerReports[0])
	}

	if len(takerReports) != 1 {
		t.Fatalf("expected taker to receive exactly 1 report, got %d", len(takerReports))
	}
	if takerReports[0].OrderID != "B" || takerReports[0].ExecType != book.ExecFill {
		t.Errorf("unexpected taker report: %+v", takerReports[0])
	}
}

func TestEngineDropsMalformedOrder(t *testing.T) {
	registry := NewRegistry()
	conn := &fakeWriter{}
	session := registry.NewSession(conn)
	e := New(registry)

	e.Dispatch(session, wire.NewOrder, []byte{1, 2, 3}) // too short to be an OrderPayload

	if len(conn.frames) != 0 {
		t.Errorf("expected no report for a malformed order, got %v", conn.frames)
	}
}

func TestEngineCancelRoutesToOwnSession(t *testing.T) {
	registry := NewRegistry()
	conn := &fakeWriter{}
	session := registry.NewSession(conn)
	e := New(registry)

	e.Dispatch(session, wire.NewOrder, newOrderPayload(t, "A", book.Buy, 50, 5))
	conn.frames = nil

	e.Dispatch(session, wire.CancelOrder, wire.EncodeCancel("A"))

	reports := decodeReports(t, conn)
	if len(reports) != 1 || reports[0].ExecType != book.ExecCanceled {
		t.Errorf("expected a CANCELED report, got %+v", reports)
	}
}

func TestEngineHeartbeatIsNoOp(t *testing.T) {
	registry := NewRegistry()
	conn := &fakeWriter{}
	session := registry.NewSession(conn)
	e := New(registry)

	e.Dispatch(session, wire.Heartbeat, nil)

	if len(conn.frames) != 0 {
		t.Errorf("expected heartbeat to produce no frame, got %v", conn.frames)
	}
}

package engine

import (
	"log"
	"sync"

	"github.com/archwave/matchwire/book"
	"github.com/archwave/matchwire/wire"
)

// Engine owns a single order book and routes decoded frames from any
// connection into it, encoding and addressing the resulting execution
// reports back through the session registry. It serializes every book call
// behind its own mutex, so connection I/O runs concurrently (one goroutine
// per connection) while the book itself sees one mutator at a time.
type Engine struct {
	mu       sync.Mutex
	book     *book.Book
	registry *Registry

	// Verbose enables per-message diagnostics (heartbeats) that are too
	// chatty for normal operation.
	Verbose bool
}

// New creates an Engine over a fresh, empty order book.
func New(registry *Registry) *Engine {
	return &Engine{
		book:     book.NewBook(),
		registry: registry,
	}
}

// Dispatch implements Dispatcher. It is the single entry point a
// ConnectionPipeline calls for every frame it decodes.
func (e *Engine) Dispatch(session SessionID, typ wire.MessageType, payload []byte) {
	switch typ {
	case wire.NewOrder:
		e.handleNewOrder(session, payload)
	case wire.CancelOrder:
		e.handleCancelOrder(session, payload)
	case wire.Heartbeat:
		if e.Verbose {
			log.Printf("engine: heartbeat from session %d", session)
		}
	default:
		log.Printf("engine: dropping unknown message type %d from session %d", typ, session)
	}
}

func (e *Engine) handleNewOrder(session SessionID, payload []byte) {
	order, err := wire.DecodeOrder(payload)
	if err != nil {
		log.Printf("engine: rejecting malformed NEW_ORDER from session %d: %v", session, err)
		return
	}
	order.SessionID = uint64(session)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.book.MatchOrder(order, e.sink()); err != nil {
		log.Printf("engine: rejecting NEW_ORDER %q from session %d: %v", order.OrderID, session, err)
	}
}

func (e *Engine) handleCancelOrder(session SessionID, payload []byte) {
	orderID, err := wire.DecodeCancel(payload)
	if err != nil {
		log.Printf("engine: rejecting malformed CANCEL_ORDER from session %d: %v", session, err)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.book.CancelOrder(orderID, e.sink())
}

// sink returns a book.ReportSink that encodes each report and addresses it to
// the connection owning the report's own SessionID, which may differ from the
// connection that triggered the event (see the maker-notification design).
func (e *Engine) sink() book.ReportSink {
	return func(r book.ExecutionReport) {
		frame, err := wire.Encode(wire.ExecReport, wire.EncodeReport(r))
		if err != nil {
			log.Printf("engine: encoding report for order %q: %v", r.OrderID, err)
			return
		}
		if err := e.registry.Send(SessionID(r.SessionID), frame); err != nil {
			log.Printf("engine: delivering report for order %q to session %d: %v", r.OrderID, r.SessionID, err)
		}
	}
}

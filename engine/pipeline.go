package engine

import (
	"io"
	"log"

	"github.com/archwave/matchwire/wire"
)

// compactionFloor is the minimum buffer capacity the pipeline keeps around
// even after shrinking slack, so repeated small reads don't thrash allocation.
const compactionFloor = 1024

// slackThreshold mirrors the websocket reader's move-to-buffer-start
// threshold: once free space at the tail drops below this, the pipeline
// doubles the buffer before the next read.
const slackThreshold = 1024

// Dispatcher handles one decoded frame read off a connection.
type Dispatcher interface {
	Dispatch(session SessionID, typ wire.MessageType, payload []byte)
}

// ConnectionPipeline owns one peer's receive buffer and turns the byte stream
// arriving on it into a sequence of decoded frames, handling partial reads,
// magic-loss resync, and buffer compaction itself.
type ConnectionPipeline struct {
	session SessionID
	buf     []byte
	readIdx int // number of valid bytes currently in buf

	dispatcher Dispatcher
}

// NewConnectionPipeline creates a pipeline for session, dispatching decoded
// frames to dispatcher.
func NewConnectionPipeline(session SessionID, dispatcher Dispatcher) *ConnectionPipeline {
	return &ConnectionPipeline{
		session:    session,
		buf:        make([]byte, compactionFloor),
		dispatcher: dispatcher,
	}
}

// OnBytesReadable reads from conn until it would block or closes, extracting
// and dispatching every complete frame encountered along the way. It returns
// the read error that ended the loop: io.EOF on orderly close, a net.Error
// satisfying Timeout() on would-block, or another error on a fatal failure.
func (p *ConnectionPipeline) OnBytesReadable(conn io.Reader) error {
	for {
		p.growIfNeeded()

		n, err := conn.Read(p.buf[p.readIdx:])
		if n > 0 {
			p.readIdx += n
			p.drain()
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
	}
}

// growIfNeeded doubles the buffer when its free tail space drops below
// slackThreshold, the same threshold the websocket reader uses to decide
// when a buffer needs attention, except here we grow rather than merely
// compact, since an unterminated frame larger than compactionFloor must
// still fit before the next read.
func (p *ConnectionPipeline) growIfNeeded() {
	if len(p.buf)-p.readIdx >= slackThreshold {
		return
	}
	grown := make([]byte, len(p.buf)*2)
	copy(grown, p.buf[:p.readIdx])
	p.buf = grown
}

// drain decodes and dispatches every complete frame now sitting in the
// buffer, then compacts whatever bytes remain (an incomplete trailing frame,
// or nothing) to the front.
func (p *ConnectionPipeline) drain() {
	cursor := 0
	for {
		frame, next, status := wire.Decode(p.buf[:p.readIdx], cursor)
		switch status {
		case wire.Ok:
			p.dispatcher.Dispatch(p.session, frame.Type, frame.Payload)
			cursor = next
		case wire.Resync:
			log.Printf("engine: session %d lost frame sync, dropping %d buffered bytes", p.session, next-cursor)
			cursor = next
		case wire.Incomplete:
			p.compact(cursor)
			return
		}
	}
}

// compact shifts the unconsumed tail [cursor:readIdx) to the front of the
// buffer and shrinks capacity back to compactionFloor once the retained
// bytes fit in it, mirroring the websocket reader's ReadSome compaction. A
// grown buffer still holding an incomplete frame larger than the floor is
// never shrunk out from under it.
func (p *ConnectionPipeline) compact(cursor int) {
	remaining := p.readIdx - cursor
	if cursor > 0 {
		copy(p.buf, p.buf[cursor:p.readIdx])
	}
	p.readIdx = remaining

	if len(p.buf) > compactionFloor && p.readIdx <= compactionFloor {
		shrunk := make([]byte, compactionFloor)
		copy(shrunk, p.buf[:p.readIdx])
		p.buf = shrunk
	}
}

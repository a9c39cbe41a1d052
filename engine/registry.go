// Package engine wires the wire protocol to the order book: a per-connection
// byte pipeline, a session registry for routing reports back to the correct
// peer, and the message router that ties the two together.
package engine

import "sync"

// SessionID identifies one accepted connection for the lifetime of that
// connection.
type SessionID uint64

// Registry maps a SessionID to the connection's outbound frame writer, so
// that a maker's execution report can be delivered to its own connection
// even when a different connection's inbound order triggered it.
type Registry struct {
	mu      sync.Mutex
	writers map[SessionID]FrameWriter
	nextID  SessionID
}

// FrameWriter writes one already-encoded wire frame to its peer.
type FrameWriter interface {
	WriteFrame(frame []byte) error
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{writers: make(map[SessionID]FrameWriter)}
}

// NewSession allocates a new SessionID and registers writer under it.
func (r *Registry) NewSession(writer FrameWriter) SessionID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := r.nextID
	r.writers[id] = writer
	return id
}

// Unregister removes a session, typically called when its connection closes.
func (r *Registry) Unregister(id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.writers, id)
}

// Send looks up id's writer and writes frame to it. A session that is no
// longer registered (its peer already disconnected) is not an error: the
// report is simply dropped, since nobody is left to deliver it to.
func (r *Registry) Send(id SessionID, frame []byte) error {
	r.mu.Lock()
	writer, ok := r.writers[id]
	r.mu.Unlock()
	if !ok {
		return nil
	}
	return writer.WriteFrame(frame)
}

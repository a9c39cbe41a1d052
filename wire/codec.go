// Package wire implements the framed binary protocol spoken between clients
// and the matching engine: a magic-prefixed frame envelope plus fixed-layout
// order and execution-report payloads.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Magic identifies the start of a frame on the wire.
const Magic uint32 = 0xABCDEF00

// HeaderSize is the fixed size, in bytes, of a frame header (magic + length + type).
const HeaderSize = 7

// MaxPayloadSize is the largest payload Encode will accept (the length field is a uint16).
const MaxPayloadSize = 1<<16 - 1

// MessageType identifies the payload carried by a frame.
type MessageType uint8

const (
	// NewOrder carries a 73-byte OrderPayload, client to server.
	NewOrder MessageType = 1
	// CancelOrder carries a fixed-width order id, client to server.
	CancelOrder MessageType = 2
	// Heartbeat carries an empty payload, either direction.
	Heartbeat MessageType = 3
	// ExecReport carries a 37-byte ReportPayload, server to client.
	ExecReport MessageType = 4
)

// ErrPayloadTooLarge is returned by Encode when payload exceeds MaxPayloadSize.
var ErrPayloadTooLarge = errors.New("wire: payload exceeds 65535 bytes")

// DecodeStatus classifies the outcome of a Decode call.
type DecodeStatus uint8

const (
	// Ok indicates a complete frame was decoded.
	Ok DecodeStatus = iota
	// Incomplete indicates the buffer does not yet hold a full frame; the
	// cursor is left unchanged and the caller should wait for more bytes.
	Incomplete
	// Resync indicates a bad magic was found; the cursor has been advanced
	// to the end of the buffer to discard the corrupt stream.
	Resync
)

// Frame is one decoded wire message.
type Frame struct {
	Type    MessageType
	Payload []byte
}

// Encode writes a complete frame (header + payload) for typ and payload.
func Encode(typ MessageType, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrPayloadTooLarge, len(payload))
	}

	out := make([]byte, HeaderSize+len(payload))
	binary.LittleEndian.PutUint32(out[0:4], Magic)
	binary.LittleEndian.PutUint16(out[4:6], uint16(len(payload)))
	out[6] = byte(typ)
	copy(out[HeaderSize:], payload)
	return out, nil
}

// Decode attempts to extract one frame from buf starting at cursor.
//
//   - Ok: a complete frame was found; newCursor points just past it.
//   - Incomplete: fewer bytes are buffered than the frame needs; newCursor == cursor.
//   - Resync: the bytes at cursor are not a valid frame header; newCursor ==
//     len(buf), discarding everything buffered so the stream can realign on
//     the next read.
func Decode(buf []byte, cursor int) (Frame, int, DecodeStatus) {
	if len(buf)-cursor < HeaderSize {
		return Frame{}, cursor, Incomplete
	}

	magic := binary.LittleEndian.Uint32(buf[cursor : cursor+4])
	if magic != Magic {
		return Frame{}, len(buf), Resync
	}

	payloadLen := int(binary.LittleEndian.Uint16(buf[cursor+4 : cursor+6]))
	typ := MessageType(buf[cursor+6])

	frameLen := HeaderSize + payloadLen
	if len(buf)-cursor < frameLen {
		return Frame{}, cursor, Incomplete
	}

	payload := make([]byte, payloadLen)
	copy(payload, buf[cursor+HeaderSize:cursor+frameLen])

	return Frame{Type: typ, Payload: payload}, cursor + frameLen, Ok
}

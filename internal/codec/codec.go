// Package codec implements the OpAMP wire codec: translating between
// in-memory protobuf message structures and their on-wire representation
// over WebSocket binary frames and HTTP long-poll bodies.
//
// Grounded on the decodeMessage helper that shipped alongside the
// hand-rolled WebSocket adapter this module's protocol engine descends
// from, generalized from "strip one optional zero header byte" to "strip
// all leading 0x00 bytes" per the wire tolerance requirement.
package codec

import (
	"errors"
	"fmt"

	"github.com/open-telemetry/opamp-go/protobufs"
	"google.golang.org/protobuf/proto"
)

// DefaultMaxMessageSize is the default payload size ceiling (4 MiB).
const DefaultMaxMessageSize = 4 * 1024 * 1024

// Errors returned by Decode. Parse errors never mutate agent state; the
// caller is expected to reply BadRequest and keep the connection open.
var (
	// ErrTruncated indicates the payload ended before a complete message
	// could be parsed.
	ErrTruncated = errors.New("codec: truncated message")
	// ErrInvalidFieldTag indicates the payload is not a valid protobuf
	// encoding (field tag 0, which a well-formed message never starts
	// with once leading zero bytes have been stripped).
	ErrInvalidFieldTag = errors.New("codec: invalid field tag")
	// ErrOversized indicates the payload exceeds the configured ceiling.
	ErrOversized = errors.New("codec: message exceeds size ceiling")
)

// Codec frames and (de)serializes OpAMP messages for one transport.
type Codec struct {
	maxMessageSize int
}

// Option configures a Codec.
type Option func(*Codec)

// WithMaxMessageSize overrides the default 4 MiB payload ceiling.
func WithMaxMessageSize(n int) Option {
	return func(c *Codec) {
		c.maxMessageSize = n
	}
}

// New creates a Codec with DefaultMaxMessageSize unless overridden.
func New(opts ...Option) *Codec {
	c := &Codec{maxMessageSize: DefaultMaxMessageSize}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// StripLeadingZeros removes every leading 0x00 byte from payload. A
// protobuf message never legitimately begins with 0x00, since field tag 0
// is invalid; some agents in the wild prefix frames with one or more zero
// bytes, and decoders must tolerate that.
func StripLeadingZeros(payload []byte) []byte {
	i := 0
	for i < len(payload) && payload[i] == 0x00 {
		i++
	}

	return payload[i:]
}

// DecodeAgentToServer parses a raw frame (WebSocket binary frame or HTTP
// request body) into an AgentToServer message.
func (c *Codec) DecodeAgentToServer(payload []byte) (*protobufs.AgentToServer, error) {
	if len(payload) > c.maxMessageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrOversized, len(payload))
	}

	stripped := StripLeadingZeros(payload)
	if len(stripped) == 0 {
		return nil, ErrTruncated
	}

	// A field tag's field number occupies everything above the low 3
	// (wire type) bits; field number 0 is never valid protobuf, so a
	// single-byte tag below 8 can only mean the payload is garbage, not a
	// message (this is why leading 0x00 bytes must be stripped first).
	if stripped[0] < 8 {
		return nil, ErrInvalidFieldTag
	}

	msg := &protobufs.AgentToServer{}
	if err := proto.Unmarshal(stripped, msg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncated, err)
	}

	return msg, nil
}

// EncodeServerToAgent serializes a ServerToAgent into its on-wire form. No
// application-level length prefix is added; one logical message maps to
// one binary frame (WebSocket) or one response body (HTTP).
func (c *Codec) EncodeServerToAgent(msg *protobufs.ServerToAgent) ([]byte, error) {
	out, err := proto.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("codec: failed to marshal ServerToAgent: %w", err)
	}

	if len(out) > c.maxMessageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrOversized, len(out))
	}

	return out, nil
}

package model

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/open-telemetry/opamp-go/protobufs"
)

// DefaultStalenessWindow is the default interval after which a connection
// with no inbound activity is considered offline. The connection itself
// is not forcibly closed; the transport decides that.
const DefaultStalenessWindow = 90 * time.Second

// outboundQueueCapacity bounds the per-connection push channel so a slow or
// wedged agent cannot grow server memory without limit; a full queue is
// reported to the caller as ErrSendQueueFull rather than blocking.
const outboundQueueCapacity = 16

// ErrSendQueueFull is returned by Connection.Send when the outbound channel
// is saturated; the caller should retry on the next inbound message.
var ErrSendQueueFull = errors.New("connection: outbound queue full")

// Connection is a live per-agent session: a bounded outbound push channel
// plus a last-activity clock guarded for concurrent readers/writers.
type Connection struct {
	ID         uuid.UUID
	Transport  TransportKind
	cancel     context.CancelFunc
	serverToAgentChan chan *protobufs.ServerToAgent
	state      connectionState
}

// TransportKind distinguishes how a session reaches its agent.
type TransportKind int

const (
	// TransportUnknown is the zero value.
	TransportUnknown TransportKind = iota
	// TransportWebSocket is a persistent, full-duplex connection.
	TransportWebSocket
	// TransportHTTPLongPoll is an ephemeral request/response connection,
	// re-established by the agent on every poll.
	TransportHTTPLongPoll
)

// connectionState is the mutable, lock-guarded state of a Connection.
type connectionState struct {
	mu                  sync.RWMutex
	lastCommunicatedAt  time.Time
	closed              bool
}

// NewConnection creates a Connection for instance id, with the given
// cancellation handle propagated to everything the session originates.
func NewConnection(id uuid.UUID, transport TransportKind, cancel context.CancelFunc) *Connection {
	return &Connection{
		ID:                id,
		Transport:         transport,
		cancel:            cancel,
		serverToAgentChan: make(chan *protobufs.ServerToAgent, outboundQueueCapacity),
		state:             connectionState{},
	}
}

// Send enqueues a ServerToAgent for delivery without blocking the caller.
// It returns ErrSendQueueFull if the outbound channel is saturated; the
// message is then dropped, and the rollout controller logs the failure
// without resending it.
func (conn *Connection) Send(msg *protobufs.ServerToAgent) error {
	conn.state.mu.RLock()
	defer conn.state.mu.RUnlock()

	if conn.state.closed {
		return ErrNoSession
	}

	// The RLock is held across the channel send, not just the closed check:
	// Close acquires the write lock before closing serverToAgentChan, so
	// holding the read lock here blocks a concurrent Close until the send
	// below has completed, ruling out a send-on-closed-channel panic.
	select {
	case conn.serverToAgentChan <- msg:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// FetchServerToAgent blocks until a message has been queued for delivery or
// ctx is cancelled. The transport writer is the channel's sole consumer.
func (conn *Connection) FetchServerToAgent(ctx context.Context) (*protobufs.ServerToAgent, error) {
	select {
	case msg, ok := <-conn.serverToAgentChan:
		if !ok {
			return nil, ErrNoSession
		}

		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RefreshLastCommunicatedAt records inbound activity for liveness tracking.
func (conn *Connection) RefreshLastCommunicatedAt(at time.Time) {
	conn.state.mu.Lock()
	defer conn.state.mu.Unlock()

	conn.state.lastCommunicatedAt = at
}

// LastCommunicatedAt returns the last time activity was observed.
func (conn *Connection) LastCommunicatedAt() time.Time {
	conn.state.mu.RLock()
	defer conn.state.mu.RUnlock()

	return conn.state.lastCommunicatedAt
}

// IsAlive reports whether the connection has been active within window.
func (conn *Connection) IsAlive(now time.Time, window time.Duration) bool {
	return now.Sub(conn.LastCommunicatedAt()) < window
}

// Close cancels everything the session originated, drains and discards the
// outbound channel, and marks the connection dead. Close is idempotent.
func (conn *Connection) Close() {
	conn.state.mu.Lock()
	defer conn.state.mu.Unlock()

	if conn.state.closed {
		return
	}

	conn.state.closed = true

	if conn.cancel != nil {
		conn.cancel()
	}

	close(conn.serverToAgentChan)

	for range conn.serverToAgentChan { //nolint:revive // drain and discard
	}
}

// IsClosed reports whether Close has already run.
func (conn *Connection) IsClosed() bool {
	conn.state.mu.RLock()
	defer conn.state.mu.RUnlock()

	return conn.state.closed
}

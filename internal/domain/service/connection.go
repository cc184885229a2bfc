package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/open-telemetry/opamp-go/protobufs"

	"github.com/opamp-commander/opamp-commander/internal/domain/model"
	"github.com/opamp-commander/opamp-commander/internal/domain/port"
	"github.com/opamp-commander/opamp-commander/pkg/xsync"
)

var _ port.ConnectionUsecase = (*ConnectionService)(nil)

// ConnectionService is the in-memory connection registry: at most one
// live session per instance UID, non-blocking sends, no persistence (a
// restart loses every session, which is fine since agents reconnect on
// their own schedule rather than waiting to be dialed).
type ConnectionService struct {
	logger *slog.Logger
	byID   *xsync.MultiMap[*model.Connection]
}

// NewConnectionService creates a new in-memory connection registry.
func NewConnectionService(logger *slog.Logger) *ConnectionService {
	return &ConnectionService{
		logger: logger,
		byID:   xsync.NewMultiMap[*model.Connection](),
	}
}

// Register implements port.ConnectionUsecase.
//
// If another session is already live for instanceUID it is closed first,
// so an agent that reconnects before its prior transport timed out never
// ends up with two simultaneously live sessions.
func (s *ConnectionService) Register(_ context.Context, instanceUID uuid.UUID, conn *model.Connection) error {
	key := instanceUID.String()

	if prior, ok := s.byID.Load(key); ok && prior != conn {
		s.logger.Info("replacing stale connection", slog.String("instance_uid", key))
		prior.Close()
	}

	s.byID.Store(key, conn)

	return nil
}

// Unregister implements port.ConnectionUsecase.
func (s *ConnectionService) Unregister(_ context.Context, conn *model.Connection) error {
	for key, value := range s.byID.KeyValues() {
		if value == conn {
			s.byID.Delete(key)

			break
		}
	}

	conn.Close()

	return nil
}

// Get implements port.ConnectionUsecase.
func (s *ConnectionService) Get(_ context.Context, instanceUID uuid.UUID) (*model.Connection, bool) {
	return s.byID.Load(instanceUID.String())
}

// Send implements port.ConnectionUsecase.
func (s *ConnectionService) Send(_ context.Context, instanceUID uuid.UUID, msg *protobufs.ServerToAgent) error {
	conn, ok := s.byID.Load(instanceUID.String())
	if !ok {
		return port.ErrConnectionNotFound
	}

	return conn.Send(msg)
}

// ListLive implements port.ConnectionUsecase.
func (s *ConnectionService) ListLive(_ context.Context) []uuid.UUID {
	out := make([]uuid.UUID, 0)

	for key := range s.byID.KeyValues() {
		if id, err := uuid.Parse(key); err == nil {
			out = append(out, id)
		}
	}

	return out
}

// Package configrequest implements the config-request tracker use case:
// correlating an operator's "fetch effective config" request with the
// agent's later reply.
package configrequest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/opamp-commander/opamp-commander/internal/domain/model/configrequest"
	"github.com/opamp-commander/opamp-commander/internal/domain/model/vo"
	"github.com/opamp-commander/opamp-commander/internal/domain/port"
)

var _ port.ConfigRequestUsecase = (*Service)(nil)

// DefaultTTL is the config-request expiry window.
const DefaultTTL = 5 * time.Minute

// Service implements port.ConfigRequestUsecase.
type Service struct {
	persistence port.ConfigRequestPersistencePort
	connections port.ConnectionUsecase
	logger      *slog.Logger
	ttl         time.Duration
}

// New creates a Service with the default expiry TTL.
func New(
	persistence port.ConfigRequestPersistencePort,
	connections port.ConnectionUsecase,
	logger *slog.Logger,
) *Service {
	return &Service{
		persistence: persistence,
		connections: connections,
		logger:      logger,
		ttl:         DefaultTTL,
	}
}

// Request implements port.ConfigRequestUsecase.
//
// If a session currently exists, the agent's ReportFullState flag is not
// set directly here: the session may be serving another goroutine's
// inbound message right now, so the protocol engine picks up the pending
// request itself on the agent's next compose pass by re-checking this
// tracker for a pending row. This keeps the tracker the single source of
// truth instead of duplicating the flag into the connection.
func (s *Service) Request(ctx context.Context, instanceUID uuid.UUID) (uuid.UUID, error) {
	req := &configrequest.Request{
		TrackingID:  uuid.New(),
		InstanceUID: instanceUID,
		RequestedAt: time.Now(),
		Status:      configrequest.StatusPending,
	}

	if err := s.persistence.CreateConfigRequest(ctx, req); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create config request: %w", err)
	}

	return req.TrackingID, nil
}

// Resolve implements port.ConfigRequestUsecase.
//
// Matches the oldest still-pending request for instanceUID, by an
// "oldest pending first" correlation rule; a reply never resolves a
// pending request belonging to a different instance.
func (s *Service) Resolve(ctx context.Context, instanceUID uuid.UUID, effectiveYAML []byte, hash []byte) error {
	req, err := s.persistence.OldestPendingByInstance(ctx, instanceUID)
	if err != nil {
		if errors.Is(err, port.ErrResourceNotExist) {
			return nil
		}

		return fmt.Errorf("failed to find pending config request: %w", err)
	}

	req.Status = configrequest.StatusCompleted
	req.CompletedAt = time.Now()
	req.EffectiveConfigYAML = effectiveYAML
	req.EffectiveConfigHash = vo.Hash(hash)

	if err := s.persistence.UpdateConfigRequest(ctx, req); err != nil {
		return fmt.Errorf("failed to update config request: %w", err)
	}

	return nil
}

// Get implements port.ConfigRequestUsecase.
func (s *Service) Get(ctx context.Context, trackingID uuid.UUID) (*configrequest.Request, error) {
	req, err := s.persistence.GetConfigRequest(ctx, trackingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get config request: %w", err)
	}

	return req, nil
}

// HasPending implements port.ConfigRequestUsecase.
func (s *Service) HasPending(ctx context.Context, instanceUID uuid.UUID) (bool, error) {
	_, err := s.persistence.OldestPendingByInstance(ctx, instanceUID)
	if err != nil {
		if errors.Is(err, port.ErrResourceNotExist) {
			return false, nil
		}

		return false, fmt.Errorf("failed to check pending config requests: %w", err)
	}

	return true, nil
}

// Expire implements port.ConfigRequestUsecase: closes every pending row
// older than the TTL as expired, for the periodic sweep.
func (s *Service) Expire(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.ttl)

	overdue, err := s.persistence.ListOverduePending(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list overdue config requests: %w", err)
	}

	for _, req := range overdue {
		req.Status = configrequest.StatusExpired
		req.CompletedAt = time.Now()

		if err := s.persistence.UpdateConfigRequest(ctx, req); err != nil {
			s.logger.Warn("failed to expire config request",
				slog.String("tracking_id", req.TrackingID.String()),
				slog.String("error", err.Error()))

			continue
		}
	}

	return len(overdue), nil
}

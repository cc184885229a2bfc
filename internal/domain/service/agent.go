package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/opamp-commander/opamp-commander/internal/domain/model"
	"github.com/opamp-commander/opamp-commander/internal/domain/port"
)

var _ port.AgentUsecase = (*AgentService)(nil)

// AgentService implements the agent store on top of whatever durable
// AgentPersistencePort is wired in.
type AgentService struct {
	persistence port.AgentPersistencePort
	logger      *slog.Logger
}

// NewAgentService creates a new AgentService.
func NewAgentService(persistence port.AgentPersistencePort, logger *slog.Logger) *AgentService {
	return &AgentService{
		persistence: persistence,
		logger:      logger,
	}
}

// GetAgent implements port.AgentUsecase.
func (s *AgentService) GetAgent(ctx context.Context, instanceUID uuid.UUID) (*model.Agent, error) {
	agent, err := s.persistence.GetAgent(ctx, instanceUID)
	if err != nil {
		return nil, fmt.Errorf("failed to get agent from persistence: %w", err)
	}

	return agent, nil
}

// GetOrCreateAgent implements port.AgentUsecase.
func (s *AgentService) GetOrCreateAgent(ctx context.Context, instanceUID uuid.UUID) (*model.Agent, error) {
	agent, err := s.GetAgent(ctx, instanceUID)
	if err != nil {
		if errors.Is(err, port.ErrResourceNotExist) {
			return model.NewAgent(instanceUID), nil
		}

		return nil, fmt.Errorf("failed to get agent: %w", err)
	}

	return agent, nil
}

// ListAgents implements port.AgentUsecase.
func (s *AgentService) ListAgents(
	ctx context.Context,
	org string,
	options model.ListOptions,
) (model.ListResponse[*model.Agent], error) {
	res, err := s.persistence.ListAgents(ctx, org, options)
	if err != nil {
		return model.ListResponse[*model.Agent]{}, fmt.Errorf("failed to list agents: %w", err)
	}

	return res, nil
}

// ListAgentsByTags implements port.AgentUsecase.
func (s *AgentService) ListAgentsByTags(
	ctx context.Context,
	org string,
	tags []string,
	options model.ListOptions,
) (model.ListResponse[*model.Agent], error) {
	res, err := s.persistence.ListAgentsByTags(ctx, org, tags, options)
	if err != nil {
		return model.ListResponse[*model.Agent]{}, fmt.Errorf("failed to list agents by tags: %w", err)
	}

	return res, nil
}

// Upsert implements port.AgentUsecase.
//
// The read-modify-write here is not itself atomic; concurrent Upserts for
// the same instance race on the final PutAgent, and the last write wins.
// In practice an agent carries one live transport session at a time, so
// two Upserts for the same instance only overlap across a reconnect
// boundary, which the sequence-number guard inside Agent.Upsert already
// tolerates.
func (s *AgentService) Upsert(
	ctx context.Context,
	instanceUID uuid.UUID,
	patch model.Patch,
	observedAt time.Time,
) (*model.Agent, error) {
	agent, err := s.GetOrCreateAgent(ctx, instanceUID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create agent: %w", err)
	}

	agent.Upsert(patch, observedAt)

	if err := s.persistence.PutAgent(ctx, agent); err != nil {
		return nil, fmt.Errorf("failed to save agent to persistence: %w", err)
	}

	return agent, nil
}

// MarkDisconnected implements port.AgentUsecase.
func (s *AgentService) MarkDisconnected(ctx context.Context, instanceUID uuid.UUID) error {
	agent, err := s.GetAgent(ctx, instanceUID)
	if err != nil {
		if errors.Is(err, port.ErrResourceNotExist) {
			return nil
		}

		return fmt.Errorf("failed to get agent: %w", err)
	}

	agent.MarkDisconnected()

	if err := s.persistence.PutAgent(ctx, agent); err != nil {
		return fmt.Errorf("failed to save agent to persistence: %w", err)
	}

	return nil
}

// MarkRegistrationFailed implements port.AgentUsecase.
func (s *AgentService) MarkRegistrationFailed(ctx context.Context, instanceUID uuid.UUID, reason string) error {
	agent, err := s.GetOrCreateAgent(ctx, instanceUID)
	if err != nil {
		return fmt.Errorf("failed to get or create agent: %w", err)
	}

	agent.MarkRegistrationFailed(reason, time.Now())

	if err := s.persistence.PutAgent(ctx, agent); err != nil {
		return fmt.Errorf("failed to save agent to persistence: %w", err)
	}

	s.logger.Warn("agent registration failed",
		slog.String("instance_uid", instanceUID.String()),
		slog.String("reason", reason))

	return nil
}

// SaveAgent implements port.AgentUsecase.
func (s *AgentService) SaveAgent(ctx context.Context, agent *model.Agent) error {
	if err := s.persistence.PutAgent(ctx, agent); err != nil {
		return fmt.Errorf("failed to save agent to persistence: %w", err)
	}

	return nil
}

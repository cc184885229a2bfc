// Package operator implements the operator API surface as a thin
// projection over the domain use cases: it adds no state of its own.
package operator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/pmezard/go-difflib/difflib"

	applicationport "github.com/opamp-commander/opamp-commander/internal/application/port"
	"github.com/opamp-commander/opamp-commander/internal/domain/model"
	"github.com/opamp-commander/opamp-commander/internal/domain/model/configrequest"
	"github.com/opamp-commander/opamp-commander/internal/domain/model/deployment"
	"github.com/opamp-commander/opamp-commander/internal/domain/model/vo"
	"github.com/opamp-commander/opamp-commander/internal/domain/port"
)

var _ applicationport.OperatorUsecase = (*Service)(nil)

// Service implements applicationport.OperatorUsecase.
type Service struct {
	agents         port.AgentUsecase
	deployments    port.DeploymentUsecase
	configRequests port.ConfigRequestUsecase
	logger         *slog.Logger
}

// New creates a Service.
func New(
	agents port.AgentUsecase,
	deployments port.DeploymentUsecase,
	configRequests port.ConfigRequestUsecase,
	logger *slog.Logger,
) *Service {
	return &Service{
		agents:         agents,
		deployments:    deployments,
		configRequests: configRequests,
		logger:         logger,
	}
}

// CreateDeployment implements applicationport.OperatorUsecase.
func (s *Service) CreateDeployment(
	ctx context.Context,
	input applicationport.CreateDeploymentInput,
) (*deployment.Deployment, error) {
	d, err := s.deployments.CreateDeployment(ctx, deployment.Deployment{
		Org:              input.Org,
		Name:             input.Name,
		ConfigYAML:       input.ConfigYAML,
		RolloutStrategy:  input.RolloutStrategy,
		CanaryPercentage: input.CanaryPercentage,
		TargetTags:       input.TargetTags,
		IgnoreFailures:   input.IgnoreFailures,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create deployment: %w", err)
	}

	return d, nil
}

// GetDeploymentStatus implements applicationport.OperatorUsecase.
func (s *Service) GetDeploymentStatus(
	ctx context.Context,
	id uuid.UUID,
) (*deployment.Deployment, deployment.Progress, []deployment.AuditRow, error) {
	d, err := s.deployments.GetDeployment(ctx, id)
	if err != nil {
		return nil, deployment.Progress{}, nil, fmt.Errorf("failed to get deployment: %w", err)
	}

	progress, rows, err := s.deployments.DeploymentProgress(ctx, id)
	if err != nil {
		return nil, deployment.Progress{}, nil, fmt.Errorf("failed to get deployment progress: %w", err)
	}

	return d, progress, rows, nil
}

// RollbackDeployment implements applicationport.OperatorUsecase.
func (s *Service) RollbackDeployment(ctx context.Context, id uuid.UUID) (*deployment.Deployment, error) {
	d, err := s.deployments.RollbackDeployment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to rollback deployment: %w", err)
	}

	return d, nil
}

// PushAdHocConfig implements applicationport.OperatorUsecase.
func (s *Service) PushAdHocConfig(
	ctx context.Context,
	org, name string,
	targetTags []string,
	configYAML []byte,
	ignoreFailures bool,
) (*deployment.Deployment, error) {
	d, err := s.deployments.CreateDeployment(ctx, deployment.Deployment{
		Org:              org,
		Name:             name,
		ConfigYAML:       configYAML,
		RolloutStrategy:  deployment.StrategyImmediate,
		CanaryPercentage: 100,
		TargetTags:       targetTags,
		IgnoreFailures:   ignoreFailures,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to push ad-hoc config: %w", err)
	}

	return d, nil
}

// RequestEffectiveConfig implements applicationport.OperatorUsecase.
func (s *Service) RequestEffectiveConfig(ctx context.Context, instanceUID uuid.UUID) (uuid.UUID, error) {
	trackingID, err := s.configRequests.Request(ctx, instanceUID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to request effective config: %w", err)
	}

	return trackingID, nil
}

// GetConfigRequest implements applicationport.OperatorUsecase.
func (s *Service) GetConfigRequest(ctx context.Context, trackingID uuid.UUID) (*configrequest.Request, error) {
	req, err := s.configRequests.Get(ctx, trackingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get config request: %w", err)
	}

	return req, nil
}

// CompareYAML implements applicationport.OperatorUsecase. It takes no
// agent or deployment state: a pure diff over the two byte slices given.
func (s *Service) CompareYAML(_ context.Context, before, after []byte) (applicationport.DiffResult, error) {
	beforeHash, err := vo.NewHash(before)
	if err != nil {
		return applicationport.DiffResult{}, fmt.Errorf("failed to hash before document: %w", err)
	}

	afterHash, err := vo.NewHash(after)
	if err != nil {
		return applicationport.DiffResult{}, fmt.Errorf("failed to hash after document: %w", err)
	}

	if beforeHash.Equal(afterHash) {
		return applicationport.DiffResult{Identical: true}, nil
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "before",
		ToFile:   "after",
		Context:  3,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return applicationport.DiffResult{}, fmt.Errorf("failed to compute diff: %w", err)
	}

	var added, removed int

	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			continue
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			removed++
		}
	}

	return applicationport.DiffResult{
		UnifiedDiff:  text,
		LinesAdded:   added,
		LinesRemoved: removed,
	}, nil
}

// ListAgents implements applicationport.OperatorUsecase.
func (s *Service) ListAgents(
	ctx context.Context,
	org string,
	options model.ListOptions,
) (model.ListResponse[*model.Agent], error) {
	resp, err := s.agents.ListAgents(ctx, org, options)
	if err != nil {
		return model.ListResponse[*model.Agent]{}, fmt.Errorf("failed to list agents: %w", err)
	}

	return resp, nil
}

// GetAgent implements applicationport.OperatorUsecase.
func (s *Service) GetAgent(ctx context.Context, instanceUID uuid.UUID) (*model.Agent, error) {
	agentRecord, err := s.agents.GetAgent(ctx, instanceUID)
	if err != nil {
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}

	return agentRecord, nil
}

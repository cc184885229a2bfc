// Package port defines the operator API use-case surface: thin
// query/command contracts over the domain use cases, with no business
// logic of their own beyond composing them for the HTTP layer.
package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/opamp-commander/opamp-commander/internal/domain/model"
	"github.com/opamp-commander/opamp-commander/internal/domain/model/configrequest"
	"github.com/opamp-commander/opamp-commander/internal/domain/model/deployment"
)

// CreateDeploymentInput is the operator-supplied shape of a new rollout.
type CreateDeploymentInput struct {
	Org              string
	Name             string
	ConfigYAML       []byte
	RolloutStrategy  deployment.Strategy
	CanaryPercentage int
	TargetTags       []string
	IgnoreFailures   bool
}

// DiffResult is the outcome of comparing two YAML documents.
type DiffResult struct {
	UnifiedDiff string
	LinesAdded  int
	LinesRemoved int
	Identical   bool
}

// OperatorUsecase is the operator API surface.
type OperatorUsecase interface {
	// CreateDeployment starts a new rollout.
	CreateDeployment(ctx context.Context, input CreateDeploymentInput) (*deployment.Deployment, error)
	// GetDeploymentStatus returns the deployment and its derived progress.
	GetDeploymentStatus(ctx context.Context, id uuid.UUID) (
		*deployment.Deployment, deployment.Progress, []deployment.AuditRow, error,
	)
	// RollbackDeployment creates and starts a rollback deployment for id.
	RollbackDeployment(ctx context.Context, id uuid.UUID) (*deployment.Deployment, error)
	// PushAdHocConfig deploys configYAML to the given target tags as an
	// immediate, one-shot deployment (the "synthetic deployment" push path).
	PushAdHocConfig(
		ctx context.Context,
		org, name string,
		targetTags []string,
		configYAML []byte,
		ignoreFailures bool,
	) (*deployment.Deployment, error)
	// RequestEffectiveConfig asks an agent to report its full effective
	// config on its next message and returns a tracking id to poll.
	RequestEffectiveConfig(ctx context.Context, instanceUID uuid.UUID) (uuid.UUID, error)
	// GetConfigRequest polls the status of a tracked effective-config request.
	GetConfigRequest(ctx context.Context, trackingID uuid.UUID) (*configrequest.Request, error)
	// CompareYAML is a pure function producing a unified diff between two
	// YAML documents, with no agent or deployment involved.
	CompareYAML(ctx context.Context, before, after []byte) (DiffResult, error)
	// ListAgents lists a page of agents in org.
	ListAgents(ctx context.Context, org string, options model.ListOptions) (model.ListResponse[*model.Agent], error)
	// GetAgent retrieves one agent by instance UID.
	GetAgent(ctx context.Context, instanceUID uuid.UUID) (*model.Agent, error)
}

// ConfigRequestExpiryTTL is how long a config-request tracking row may stay
// pending before the expiry sweep marks it expired.
const ConfigRequestExpiryTTL = 5 * time.Minute

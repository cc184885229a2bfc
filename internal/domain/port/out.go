// Package port holds the hexagonal boundary interfaces between the domain
// and everything outside it: persistence adapters (out) and use-case entry
// points (in), plus the connection-registry contract shared by both sides.
package port

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/opamp-commander/opamp-commander/internal/domain/model"
	"github.com/opamp-commander/opamp-commander/internal/domain/model/configrequest"
	"github.com/opamp-commander/opamp-commander/internal/domain/model/deployment"
	"github.com/opamp-commander/opamp-commander/internal/domain/model/registration"
)

// AgentPersistencePort is the durable store behind the agent store.
type AgentPersistencePort interface {
	// GetAgent retrieves an agent by its instance UID.
	GetAgent(ctx context.Context, instanceUID uuid.UUID) (*model.Agent, error)
	// PutAgent inserts or replaces an agent record.
	PutAgent(ctx context.Context, agent *model.Agent) error
	// ListAgents retrieves a page of agents.
	ListAgents(ctx context.Context, org string, options model.ListOptions) (model.ListResponse[*model.Agent], error)
	// ListAgentsByTags retrieves a page of agents whose tag set satisfies tags.
	ListAgentsByTags(
		ctx context.Context,
		org string,
		tags []string,
		options model.ListOptions,
	) (model.ListResponse[*model.Agent], error)
}

// DeploymentPersistencePort is the durable store behind the deployment
// store: versioned configs, targets, and the per-agent audit trail.
type DeploymentPersistencePort interface {
	// NextConfigVersion returns the next monotonic config_version for org.
	NextConfigVersion(ctx context.Context, org string) (int64, error)
	// CreateDeployment inserts a new deployment and one UNSET audit row per target.
	CreateDeployment(ctx context.Context, d *deployment.Deployment, targets []uuid.UUID) error
	// GetDeployment retrieves a deployment by ID.
	GetDeployment(ctx context.Context, id uuid.UUID) (*deployment.Deployment, error)
	// SetDeploymentStatus updates a deployment's lifecycle fields.
	SetDeploymentStatus(
		ctx context.Context,
		id uuid.UUID,
		status deployment.Status,
		reason string,
		at time.Time,
	) error
	// SetAuditRow upserts the single audit row for (deploymentID, instanceUID).
	SetAuditRow(ctx context.Context, row deployment.AuditRow) error
	// ListAuditByDeployment lists every audit row for one deployment.
	ListAuditByDeployment(ctx context.Context, deploymentID uuid.UUID) ([]deployment.AuditRow, error)
	// ListHistoryByAgent lists every audit row ever recorded for one agent, newest first.
	ListHistoryByAgent(ctx context.Context, instanceUID uuid.UUID) ([]deployment.AuditRow, error)
	// GetAuditRow retrieves the single audit row for (deploymentID, instanceUID).
	GetAuditRow(ctx context.Context, deploymentID, instanceUID uuid.UUID) (*deployment.AuditRow, error)
	// LastAppliedConfig returns the config_yaml of the last deployment this
	// agent reached APPLIED on, used to build rollback targets.
	LastAppliedConfig(ctx context.Context, instanceUID uuid.UUID, beforeDeployment uuid.UUID) ([]byte, bool, error)
	// ListActiveDeploymentsForTags lists in-progress deployments whose
	// target tags overlap tags, used to resolve the supersede rule.
	ListActiveDeploymentsForTags(ctx context.Context, org string, tags []string) ([]*deployment.Deployment, error)
}

// ConfigRequestPersistencePort is the durable store behind the
// config-request tracker.
type ConfigRequestPersistencePort interface {
	CreateConfigRequest(ctx context.Context, req *configrequest.Request) error
	GetConfigRequest(ctx context.Context, trackingID uuid.UUID) (*configrequest.Request, error)
	// OldestPendingByInstance returns the oldest still-pending request for
	// instanceUID, used to resolve the correct tracking row on an
	// effective-config report (the "oldest pending first" match rule).
	OldestPendingByInstance(ctx context.Context, instanceUID uuid.UUID) (*configrequest.Request, error)
	UpdateConfigRequest(ctx context.Context, req *configrequest.Request) error
	// ListOverduePending lists every pending request older than cutoff, for the expiry sweep.
	ListOverduePending(ctx context.Context, cutoff time.Time) ([]*configrequest.Request, error)
}

// RegistrationPersistencePort is the durable store behind the auth
// adapter's registration tokens and bearer tokens.
type RegistrationPersistencePort interface {
	CreateToken(ctx context.Context, token *registration.Token) error
	// ConsumeToken atomically consumes a token by its one-shot secret,
	// returning ErrResourceNotExist if it is missing, already consumed, or
	// expired. Implementations MUST perform this as a single conditional
	// update gated on consumed_at IS NULL.
	ConsumeToken(ctx context.Context, secret string, now time.Time) (*registration.Token, error)
	CreateBearerToken(ctx context.Context, token *registration.BearerToken) error
	GetBearerToken(ctx context.Context, secret string) (*registration.BearerToken, error)
	RevokeBearerToken(ctx context.Context, instanceUID uuid.UUID) error
}

var (
	// ErrResourceNotExist indicates the requested resource does not exist.
	ErrResourceNotExist = errors.New("resource does not exist")
	// ErrMultipleResourceExist indicates an operation unexpectedly matched
	// more than one resource.
	ErrMultipleResourceExist = errors.New("multiple resources exist")
)

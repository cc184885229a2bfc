package port

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/open-telemetry/opamp-go/protobufs"

	"github.com/opamp-commander/opamp-commander/internal/domain/model"
	"github.com/opamp-commander/opamp-commander/internal/domain/model/configrequest"
	"github.com/opamp-commander/opamp-commander/internal/domain/model/deployment"
	"github.com/opamp-commander/opamp-commander/internal/domain/model/registration"
)

var (
	// ErrConnectionAlreadyExists indicates a session already exists for an instance.
	ErrConnectionAlreadyExists = errors.New("connection already exists")
	// ErrConnectionNotFound indicates no session exists for an instance.
	ErrConnectionNotFound = errors.New("connection not found")
)

// AgentUsecase is the agent-store use case surface.
type AgentUsecase interface {
	// GetAgent retrieves an agent by its instance UID.
	GetAgent(ctx context.Context, instanceUID uuid.UUID) (*model.Agent, error)
	// GetOrCreateAgent retrieves an agent or creates a fresh record for a
	// never-seen instance UID.
	GetOrCreateAgent(ctx context.Context, instanceUID uuid.UUID) (*model.Agent, error)
	// ListAgents lists all agents in org.
	ListAgents(ctx context.Context, org string, options model.ListOptions) (model.ListResponse[*model.Agent], error)
	// ListAgentsByTags lists agents in org whose tags satisfy the given set.
	ListAgentsByTags(
		ctx context.Context,
		org string,
		tags []string,
		options model.ListOptions,
	) (model.ListResponse[*model.Agent], error)
	// Upsert merges patch into the agent record for instanceUID under the
	// sequence-number guard, creating the record if it does not yet exist.
	Upsert(ctx context.Context, instanceUID uuid.UUID, patch model.Patch, observedAt time.Time) (*model.Agent, error)
	// MarkDisconnected records that an agent's transport session ended.
	MarkDisconnected(ctx context.Context, instanceUID uuid.UUID) error
	// MarkRegistrationFailed records a failed registration attempt.
	MarkRegistrationFailed(ctx context.Context, instanceUID uuid.UUID, reason string) error
	// SaveAgent persists an already-built agent record as-is.
	SaveAgent(ctx context.Context, agent *model.Agent) error
}

// ConnectionUsecase is the connection-registry use case surface.
type ConnectionUsecase interface {
	// Register installs session as the live connection for instanceUID,
	// closing and replacing any prior session (at most one per instance).
	Register(ctx context.Context, instanceUID uuid.UUID, conn *model.Connection) error
	// Unregister removes conn only if it is still the current session for
	// its instance, avoiding a race with a freshly reconnected agent.
	Unregister(ctx context.Context, conn *model.Connection) error
	// Get returns the live session for instanceUID, if any.
	Get(ctx context.Context, instanceUID uuid.UUID) (*model.Connection, bool)
	// Send enqueues msg on instanceUID's session without blocking.
	Send(ctx context.Context, instanceUID uuid.UUID, msg *protobufs.ServerToAgent) error
	// ListLive lists every instance_uid with a currently registered session.
	ListLive(ctx context.Context) []uuid.UUID
}

// DeploymentUsecase is the deployment + rollout use case surface.
type DeploymentUsecase interface {
	// CreateDeployment computes config_version/config_hash, resolves
	// targets, inserts UNSET audit rows, and starts the rollout.
	CreateDeployment(ctx context.Context, spec deployment.Deployment) (*deployment.Deployment, error)
	// GetDeployment retrieves a deployment by ID.
	GetDeployment(ctx context.Context, id uuid.UUID) (*deployment.Deployment, error)
	// DeploymentProgress derives (applied, applying, failed, pending, success_rate).
	DeploymentProgress(ctx context.Context, id uuid.UUID) (deployment.Progress, []deployment.AuditRow, error)
	// RollbackDeployment creates and starts a rollback deployment for id.
	RollbackDeployment(ctx context.Context, id uuid.UUID) (*deployment.Deployment, error)
	// ListHistoryByAgent lists every audit row ever recorded for one agent.
	ListHistoryByAgent(ctx context.Context, instanceUID uuid.UUID) ([]deployment.AuditRow, error)
	// OnAuditUpdate is invoked by the protocol engine when an agent's
	// remote_config_status transitions, so the rollout controller can
	// advance waves and trigger automatic rollback on canary failure.
	OnAuditUpdate(ctx context.Context, row deployment.AuditRow) error
}

// ConfigRequestUsecase is the config-request tracker use case surface.
type ConfigRequestUsecase interface {
	// Request inserts a pending tracking row and arranges for the next
	// ServerToAgent to carry ReportFullState.
	Request(ctx context.Context, instanceUID uuid.UUID) (uuid.UUID, error)
	// Resolve closes the oldest pending row for instanceUID with the
	// agent's reported effective config.
	Resolve(ctx context.Context, instanceUID uuid.UUID, effectiveYAML []byte, hash []byte) error
	// Get retrieves a tracking row by id, for polling.
	Get(ctx context.Context, trackingID uuid.UUID) (*configrequest.Request, error)
	// HasPending reports whether instanceUID has a still-pending tracking
	// row, so the protocol engine can include ReportFullState in its next
	// compose pass without the config-request tracker pushing the flag onto
	// the agent record itself.
	HasPending(ctx context.Context, instanceUID uuid.UUID) (bool, error)
	// Expire closes overdue pending rows.
	Expire(ctx context.Context) (int, error)
}

// AuthUsecase is the auth-adapter use case surface.
type AuthUsecase interface {
	// MintRegistrationToken creates a new one-shot registration token.
	MintRegistrationToken(ctx context.Context, org string, ttl time.Duration) (*registration.Token, error)
	// RedeemRegistrationToken atomically consumes secret, creates or binds
	// the agent record, and mints a bearer token for it.
	RedeemRegistrationToken(ctx context.Context, secret string, gw RegisterGateway) (*registration.BearerToken, error)
	// Authenticate validates an OpAMP bearer token presented on connection
	// establishment and returns the instance it is bound to.
	Authenticate(ctx context.Context, bearerToken string) (uuid.UUID, error)
}

// RegisterGateway is the body of a POST /gateways registration request.
type RegisterGateway struct {
	Name        string
	InstanceID  uuid.UUID
	Hostname    string
	IPAddress   string
	Metadata    map[string]string
}

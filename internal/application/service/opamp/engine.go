// Package opamp implements the protocol engine: the per-agent state
// machine that turns an inbound AgentToServer into agent-record mutations,
// deployment-audit and config-request notifications, and a composed
// ServerToAgent reply.
package opamp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/open-telemetry/opamp-go/protobufs"

	"github.com/opamp-commander/opamp-commander/internal/domain/model"
	modelagent "github.com/opamp-commander/opamp-commander/internal/domain/model/agent"
	"github.com/opamp-commander/opamp-commander/internal/domain/model/deployment"
	"github.com/opamp-commander/opamp-commander/internal/domain/port"
	"github.com/opamp-commander/opamp-commander/pkg/utils/clock"
	"github.com/opamp-commander/opamp-commander/pkg/xsync"
)

// serverCapabilities are the wire ServerCapabilities bits this server
// advertises on every ServerToAgent, per the external-interface minimum:
// it accepts status reports, offers remote config, accepts the agent's
// effective config, and offers connection settings.
const serverCapabilities = uint64(protobufs.ServerCapabilities_ServerCapabilities_AcceptsStatus) |
	uint64(protobufs.ServerCapabilities_ServerCapabilities_OffersRemoteConfig) |
	uint64(protobufs.ServerCapabilities_ServerCapabilities_AcceptsEffectiveConfig) |
	uint64(protobufs.ServerCapabilities_ServerCapabilities_OffersConnectionSettings)

// Engine is the protocol engine.
type Engine struct {
	agents         port.AgentUsecase
	connections    port.ConnectionUsecase
	deployments    port.DeploymentUsecase
	configRequests port.ConfigRequestUsecase
	clock          clock.Clock
	logger         *slog.Logger

	// perAgent serializes inbound message handling on instance_uid, so two
	// frames racing in from the same agent (e.g. a WebSocket message and a
	// stale HTTP long-poll retry) cannot interleave their agent-record
	// merges.
	perAgent *xsync.KeyMutex
}

// New creates an Engine.
func New(
	agents port.AgentUsecase,
	connections port.ConnectionUsecase,
	deployments port.DeploymentUsecase,
	configRequests port.ConfigRequestUsecase,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		agents:         agents,
		connections:    connections,
		deployments:    deployments,
		configRequests: configRequests,
		clock:          clock.NewRealClock(),
		logger:         logger,
		perAgent:       xsync.NewKeyMutex(),
	}
}

// OnConnected registers a freshly authenticated transport session as the
// live connection for instanceUID (at most one live session per instance;
// registering closes any stale prior session).
func (e *Engine) OnConnected(ctx context.Context, instanceUID uuid.UUID, conn *model.Connection) error {
	if err := e.connections.Register(ctx, instanceUID, conn); err != nil {
		return fmt.Errorf("failed to register connection: %w", err)
	}

	return nil
}

// OnDisconnected unregisters conn and marks the agent disconnected. An
// offer that was in flight is not re-issued when the agent reconnects; its
// audit row stays APPLYING until the agent reports a remote-config status.
func (e *Engine) OnDisconnected(ctx context.Context, instanceUID uuid.UUID, conn *model.Connection) error {
	if err := e.connections.Unregister(ctx, conn); err != nil {
		return fmt.Errorf("failed to unregister connection: %w", err)
	}

	if err := e.agents.MarkDisconnected(ctx, instanceUID); err != nil {
		return fmt.Errorf("failed to mark agent disconnected: %w", err)
	}

	return nil
}

// HandleMessage processes one inbound AgentToServer and returns the
// ServerToAgent reply. It never returns an error for message-level problems
// already handled upstream by the wire codec or bearer-token auth; an error
// here reflects a persistence failure the caller should surface as a
// transport-level retry.
func (e *Engine) HandleMessage(
	ctx context.Context,
	instanceUID uuid.UUID,
	msg *protobufs.AgentToServer,
) (*protobufs.ServerToAgent, error) {
	key := instanceUID.String()

	e.perAgent.Lock(key)
	defer e.perAgent.Unlock(key)

	now := e.clock.Now()

	current, err := e.agents.GetOrCreateAgent(ctx, instanceUID)
	if err != nil {
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}

	// Sequence replay: refresh last_seen only, per the guard Agent.Upsert
	// itself enforces, and skip every downstream notification so a replayed
	// frame cannot double-fire a config-request resolution or audit update.
	if msg.GetSequenceNum() <= current.LastSequenceNum {
		if _, err := e.agents.Upsert(ctx, instanceUID, model.Patch{SequenceNum: msg.GetSequenceNum()}, now); err != nil {
			return nil, fmt.Errorf("failed to refresh replayed agent: %w", err)
		}

		return e.minimalReply(instanceUID), nil
	}

	patch, err := e.buildPatch(msg, now)
	if err != nil {
		return nil, fmt.Errorf("failed to build patch: %w", err)
	}

	updated, err := e.agents.Upsert(ctx, instanceUID, patch, now)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert agent: %w", err)
	}

	if patch.EffectiveConfig != nil {
		if err := e.configRequests.Resolve(
			ctx, instanceUID, patch.EffectiveConfig.YAML, patch.EffectiveConfig.Hash.Bytes(),
		); err != nil {
			e.logger.Warn("failed to resolve config request",
				slog.String("instance_uid", key), slog.String("error", err.Error()))
		}
	}

	if patch.RemoteConfigStatus != nil {
		e.notifyDeploymentAudit(ctx, instanceUID, *patch.RemoteConfigStatus, now)
	}

	return e.composeReply(ctx, updated)
}

// buildPatch converts the reported fields of msg into a model.Patch. Only
// fields actually present on the wire message produce a non-nil patch
// field, so Agent.Upsert's merge leaves everything else untouched.
func (e *Engine) buildPatch(msg *protobufs.AgentToServer, observedAt time.Time) (model.Patch, error) {
	patch := model.Patch{
		SequenceNum:         msg.GetSequenceNum(),
		Description:         descToDomain(msg.GetAgentDescription()),
		Health:              healthToDomain(msg.GetHealth()),
		RemoteConfigStatus:  remoteConfigStatusToDomain(msg.GetRemoteConfigStatus()),
		PackageStatuses:     packageStatusesToDomain(msg.GetPackageStatuses()),
		AvailableComponents: availableComponentsToDomain(msg.GetAvailableComponents()),
	}

	if msg.GetCapabilities() != 0 {
		caps := capabilitiesToDomain(msg.GetCapabilities())
		patch.Capabilities = &caps
	}

	if ec := msg.GetEffectiveConfig(); ec != nil {
		converted, err := effectiveConfigToDomain(ec, observedAt)
		if err != nil {
			return model.Patch{}, err
		}

		patch.EffectiveConfig = converted
	}

	return patch, nil
}

// notifyDeploymentAudit matches a reported remote-config transition against
// the agent's most recent APPLYING audit row with the same config_hash and,
// if found, tells the rollout controller how it resolved so it can advance
// or roll back. A hash with no matching APPLYING row belongs to no tracked
// deployment (e.g. a config applied outside any rollout) and is ignored.
func (e *Engine) notifyDeploymentAudit(
	ctx context.Context,
	instanceUID uuid.UUID,
	status model.RemoteConfig,
	reportedAt time.Time,
) {
	auditStatus := remoteConfigStatusToAuditStatus(status.Status)
	if auditStatus != deployment.AuditStatusApplied && auditStatus != deployment.AuditStatusFailed {
		return
	}

	history, err := e.deployments.ListHistoryByAgent(ctx, instanceUID)
	if err != nil {
		e.logger.Warn("failed to list deployment history for audit update",
			slog.String("instance_uid", instanceUID.String()), slog.String("error", err.Error()))

		return
	}

	var matched *deployment.AuditRow

	for i := range history {
		row := history[i]
		if row.Status == deployment.AuditStatusApplying && row.ConfigHash.Equal(status.Hash) {
			matched = &row

			break
		}
	}

	if matched == nil {
		return
	}

	row := deployment.AuditRow{
		DeploymentID: matched.DeploymentID,
		InstanceUID:  instanceUID,
		ConfigHash:   status.Hash,
		Status:       auditStatus,
		Error:        status.Error,
		ReportedAt:   reportedAt,
	}

	if err := e.deployments.OnAuditUpdate(ctx, row); err != nil {
		e.logger.Warn("failed to notify rollout controller of audit update",
			slog.String("instance_uid", instanceUID.String()),
			slog.String("deployment_id", matched.DeploymentID.String()),
			slog.String("error", err.Error()))
	}
}

func remoteConfigStatusToAuditStatus(s model.RemoteConfigStatus) deployment.AuditStatus {
	switch s {
	case model.RemoteConfigStatusApplied:
		return deployment.AuditStatusApplied
	case model.RemoteConfigStatusFailed:
		return deployment.AuditStatusFailed
	case model.RemoteConfigStatusApplying:
		return deployment.AuditStatusApplying
	case model.RemoteConfigStatusUnset:
		return deployment.AuditStatusUnset
	default:
		return deployment.AuditStatusUnset
	}
}

// composeReply builds the direct reply to an inbound message: the server's
// capabilities, and ReportFullState when either the agent record carries a
// pending request for it or the config-request tracker has a still-open
// "fetch effective config" tracking row. Pending remote-config offers are
// not included here: the
// rollout controller pushes those asynchronously via ConnectionUsecase.Send
// as soon as a session exists, independent of the request/response cycle.
func (e *Engine) composeReply(ctx context.Context, agent *model.Agent) (*protobufs.ServerToAgent, error) {
	var flags uint64

	reportFullState := agent.ReportFullState

	pending, err := e.configRequests.HasPending(ctx, agent.InstanceUID)
	if err != nil {
		e.logger.Warn("failed to check pending config requests",
			slog.String("instance_uid", agent.InstanceUID.String()), slog.String("error", err.Error()))
	} else if pending {
		reportFullState = true
	}

	if reportFullState {
		flags |= uint64(protobufs.ServerToAgentFlags_ServerToAgentFlags_ReportFullState)
	}

	if agent.ReportFullState {
		agent.ReportFullState = false

		if err := e.agents.SaveAgent(ctx, agent); err != nil {
			return nil, fmt.Errorf("failed to clear report-full-state flag: %w", err)
		}
	}

	instanceUID := agent.InstanceUID

	//exhaustruct:ignore
	return &protobufs.ServerToAgent{
		InstanceUid:  instanceUID[:],
		Capabilities: serverCapabilities,
		Flags:        flags,
	}, nil
}

func (e *Engine) minimalReply(instanceUID uuid.UUID) *protobufs.ServerToAgent {
	//exhaustruct:ignore
	return &protobufs.ServerToAgent{
		InstanceUid: instanceUID[:],
	}
}

package opamp_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/open-telemetry/opamp-go/protobufs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	opampservice "github.com/opamp-commander/opamp-commander/internal/application/service/opamp"
	"github.com/opamp-commander/opamp-commander/internal/domain/model"
	"github.com/opamp-commander/opamp-commander/internal/domain/model/configrequest"
	"github.com/opamp-commander/opamp-commander/internal/domain/model/deployment"
	"github.com/opamp-commander/opamp-commander/internal/domain/port"
)

// fakeAgents is a minimal in-memory port.AgentUsecase backed by a single
// map, sufficient to exercise the engine's merge/replay/save paths without
// a persistence layer.
type fakeAgents struct {
	byInstance map[uuid.UUID]*model.Agent
}

func newFakeAgents() *fakeAgents {
	return &fakeAgents{byInstance: make(map[uuid.UUID]*model.Agent)}
}

func (f *fakeAgents) GetAgent(_ context.Context, instanceUID uuid.UUID) (*model.Agent, error) {
	a, ok := f.byInstance[instanceUID]
	if !ok {
		return nil, port.ErrResourceNotExist
	}

	return a, nil
}

func (f *fakeAgents) GetOrCreateAgent(_ context.Context, instanceUID uuid.UUID) (*model.Agent, error) {
	a, ok := f.byInstance[instanceUID]
	if !ok {
		a = model.NewAgent(instanceUID)
		f.byInstance[instanceUID] = a
	}

	return a, nil
}

func (f *fakeAgents) ListAgents(
	_ context.Context, _ string, _ model.ListOptions,
) (model.ListResponse[*model.Agent], error) {
	return model.ListResponse[*model.Agent]{}, nil
}

func (f *fakeAgents) ListAgentsByTags(
	_ context.Context, _ string, _ []string, _ model.ListOptions,
) (model.ListResponse[*model.Agent], error) {
	return model.ListResponse[*model.Agent]{}, nil
}

func (f *fakeAgents) Upsert(
	_ context.Context, instanceUID uuid.UUID, patch model.Patch, observedAt time.Time,
) (*model.Agent, error) {
	a, ok := f.byInstance[instanceUID]
	if !ok {
		a = model.NewAgent(instanceUID)
		f.byInstance[instanceUID] = a
	}

	a.Upsert(patch, observedAt)

	return a, nil
}

func (f *fakeAgents) MarkDisconnected(_ context.Context, instanceUID uuid.UUID) error {
	if a, ok := f.byInstance[instanceUID]; ok {
		a.MarkDisconnected()
	}

	return nil
}

func (f *fakeAgents) MarkRegistrationFailed(_ context.Context, instanceUID uuid.UUID, reason string) error {
	if a, ok := f.byInstance[instanceUID]; ok {
		a.MarkRegistrationFailed(reason, time.Now())
	}

	return nil
}

func (f *fakeAgents) SaveAgent(_ context.Context, a *model.Agent) error {
	f.byInstance[a.InstanceUID] = a

	return nil
}

var _ port.AgentUsecase = (*fakeAgents)(nil)

// fakeConnections is a no-op port.ConnectionUsecase: the engine tests below
// exercise message handling, not transport registration.
type fakeConnections struct{}

func (fakeConnections) Register(_ context.Context, _ uuid.UUID, _ *model.Connection) error { return nil }
func (fakeConnections) Unregister(_ context.Context, _ *model.Connection) error             { return nil }

func (fakeConnections) Get(_ context.Context, _ uuid.UUID) (*model.Connection, bool) {
	return nil, false
}

func (fakeConnections) Send(_ context.Context, _ uuid.UUID, _ *protobufs.ServerToAgent) error {
	return nil
}

func (fakeConnections) ListLive(_ context.Context) []uuid.UUID { return nil }

var _ port.ConnectionUsecase = (fakeConnections{})

// fakeDeployments is a minimal port.DeploymentUsecase recording every call
// OnAuditUpdate receives, and serving a fixed history for ListHistoryByAgent.
type fakeDeployments struct {
	history     []deployment.AuditRow
	auditCalls  []deployment.AuditRow
}

func (f *fakeDeployments) CreateDeployment(
	_ context.Context, spec deployment.Deployment,
) (*deployment.Deployment, error) {
	return &spec, nil
}

func (f *fakeDeployments) GetDeployment(_ context.Context, _ uuid.UUID) (*deployment.Deployment, error) {
	return nil, port.ErrResourceNotExist
}

func (f *fakeDeployments) DeploymentProgress(
	_ context.Context, _ uuid.UUID,
) (deployment.Progress, []deployment.AuditRow, error) {
	return deployment.Progress{}, nil, nil
}

func (f *fakeDeployments) RollbackDeployment(_ context.Context, _ uuid.UUID) (*deployment.Deployment, error) {
	return nil, port.ErrResourceNotExist
}

func (f *fakeDeployments) ListHistoryByAgent(_ context.Context, _ uuid.UUID) ([]deployment.AuditRow, error) {
	return f.history, nil
}

func (f *fakeDeployments) OnAuditUpdate(_ context.Context, row deployment.AuditRow) error {
	f.auditCalls = append(f.auditCalls, row)

	return nil
}

var _ port.DeploymentUsecase = (*fakeDeployments)(nil)

// fakeConfigRequests is a minimal port.ConfigRequestUsecase tracking
// whether Resolve was called and serving a fixed HasPending answer.
type fakeConfigRequests struct {
	pending      bool
	resolveCalls int
}

func (f *fakeConfigRequests) Request(_ context.Context, _ uuid.UUID) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (f *fakeConfigRequests) Resolve(_ context.Context, _ uuid.UUID, _ []byte, _ []byte) error {
	f.resolveCalls++

	return nil
}

func (f *fakeConfigRequests) Get(_ context.Context, _ uuid.UUID) (*configrequest.Request, error) {
	return nil, port.ErrResourceNotExist
}

func (f *fakeConfigRequests) HasPending(_ context.Context, _ uuid.UUID) (bool, error) {
	return f.pending, nil
}

func (f *fakeConfigRequests) Expire(_ context.Context) (int, error) { return 0, nil }

var _ port.ConfigRequestUsecase = (*fakeConfigRequests)(nil)

func newTestEngine() (*opampservice.Engine, *fakeAgents, *fakeDeployments, *fakeConfigRequests) {
	agents := newFakeAgents()
	deployments := &fakeDeployments{}
	configRequests := &fakeConfigRequests{}

	engine := opampservice.New(agents, fakeConnections{}, deployments, configRequests, slog.Default())

	return engine, agents, deployments, configRequests
}

func TestEngine_HandleMessage_SequenceReplayOnlyRefreshesLastSeen(t *testing.T) {
	t.Parallel()

	engine, agents, _, configRequests := newTestEngine()
	ctx := context.Background()
	instanceUID := uuid.New()

	//exhaustruct:ignore
	first, err := engine.HandleMessage(ctx, instanceUID, &protobufs.AgentToServer{
		InstanceUid: instanceUID[:],
		SequenceNum: 5,
		Health:      &protobufs.ComponentHealth{Healthy: true},
	})
	require.NoError(t, err)
	require.NotNil(t, first)

	//exhaustruct:ignore
	reply, err := engine.HandleMessage(ctx, instanceUID, &protobufs.AgentToServer{
		InstanceUid: instanceUID[:],
		SequenceNum: 5,
		Health:      &protobufs.ComponentHealth{Healthy: false},
	})
	require.NoError(t, err)
	require.NotNil(t, reply)

	a, ok := agents.byInstance[instanceUID]
	require.True(t, ok)
	assert.True(t, a.Health.Healthy, "replayed message must not overwrite already-merged state")
	assert.Equal(t, 0, configRequests.resolveCalls)
}

func TestEngine_HandleMessage_EffectiveConfigResolvesPendingRequest(t *testing.T) {
	t.Parallel()

	engine, agents, _, configRequests := newTestEngine()
	ctx := context.Background()
	instanceUID := uuid.New()

	body := []byte("receivers: {}\n")

	//exhaustruct:ignore
	_, err := engine.HandleMessage(ctx, instanceUID, &protobufs.AgentToServer{
		InstanceUid: instanceUID[:],
		SequenceNum: 1,
		EffectiveConfig: &protobufs.EffectiveConfig{
			//exhaustruct:ignore
			ConfigMap: &protobufs.AgentConfigMap{
				ConfigMap: map[string]*protobufs.AgentConfigFile{
					//exhaustruct:ignore
					"": {Body: body},
				},
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, configRequests.resolveCalls)

	a, ok := agents.byInstance[instanceUID]
	require.True(t, ok)
	assert.Equal(t, body, a.EffectiveConfig.YAML)
}

func TestEngine_HandleMessage_RemoteConfigStatusMatchesApplyingAuditRow(t *testing.T) {
	t.Parallel()

	engine, _, deployments, _ := newTestEngine()
	ctx := context.Background()
	instanceUID := uuid.New()

	hash := []byte{1, 2, 3, 4}
	deploymentID := uuid.New()

	deployments.history = []deployment.AuditRow{
		{
			DeploymentID: deploymentID,
			InstanceUID:  instanceUID,
			ConfigHash:   hash,
			Status:       deployment.AuditStatusApplying,
		},
	}

	//exhaustruct:ignore
	_, err := engine.HandleMessage(ctx, instanceUID, &protobufs.AgentToServer{
		InstanceUid: instanceUID[:],
		SequenceNum: 1,
		//exhaustruct:ignore
		RemoteConfigStatus: &protobufs.RemoteConfigStatus{
			LastRemoteConfigHash: hash,
			Status:               protobufs.RemoteConfigStatuses_RemoteConfigStatuses_APPLIED,
		},
	})
	require.NoError(t, err)

	require.Len(t, deployments.auditCalls, 1)
	got := deployments.auditCalls[0]
	assert.Equal(t, deploymentID, got.DeploymentID)
	assert.Equal(t, instanceUID, got.InstanceUID)
	assert.Equal(t, deployment.AuditStatusApplied, got.Status)
}

func TestEngine_HandleMessage_RemoteConfigStatusIgnoredWithoutMatchingAuditRow(t *testing.T) {
	t.Parallel()

	engine, _, deployments, _ := newTestEngine()
	ctx := context.Background()
	instanceUID := uuid.New()

	//exhaustruct:ignore
	_, err := engine.HandleMessage(ctx, instanceUID, &protobufs.AgentToServer{
		InstanceUid: instanceUID[:],
		SequenceNum: 1,
		//exhaustruct:ignore
		RemoteConfigStatus: &protobufs.RemoteConfigStatus{
			LastRemoteConfigHash: []byte{9, 9, 9},
			Status:               protobufs.RemoteConfigStatuses_RemoteConfigStatuses_APPLIED,
		},
	})
	require.NoError(t, err)
	assert.Empty(t, deployments.auditCalls)
}

func TestEngine_HandleMessage_ReportFullStateFromAgentFlag(t *testing.T) {
	t.Parallel()

	engine, agents, _, _ := newTestEngine()
	ctx := context.Background()
	instanceUID := uuid.New()

	pre := model.NewAgent(instanceUID)
	pre.ReportFullState = true
	agents.byInstance[instanceUID] = pre

	//exhaustruct:ignore
	reply, err := engine.HandleMessage(ctx, instanceUID, &protobufs.AgentToServer{
		InstanceUid: instanceUID[:],
		SequenceNum: 1,
	})
	require.NoError(t, err)

	assert.NotZero(t, reply.GetFlags()&uint64(protobufs.ServerToAgentFlags_ServerToAgentFlags_ReportFullState))
	assert.False(t, agents.byInstance[instanceUID].ReportFullState, "flag must be cleared once sent")
}

func TestEngine_HandleMessage_ReportFullStateFromPendingConfigRequest(t *testing.T) {
	t.Parallel()

	engine, _, _, configRequests := newTestEngine()
	configRequests.pending = true
	ctx := context.Background()
	instanceUID := uuid.New()

	//exhaustruct:ignore
	reply, err := engine.HandleMessage(ctx, instanceUID, &protobufs.AgentToServer{
		InstanceUid: instanceUID[:],
		SequenceNum: 1,
	})
	require.NoError(t, err)

	assert.NotZero(t, reply.GetFlags()&uint64(protobufs.ServerToAgentFlags_ServerToAgentFlags_ReportFullState))
}

func TestEngine_HandleMessage_ReplyCarriesServerCapabilities(t *testing.T) {
	t.Parallel()

	engine, _, _, _ := newTestEngine()
	ctx := context.Background()
	instanceUID := uuid.New()

	//exhaustruct:ignore
	reply, err := engine.HandleMessage(ctx, instanceUID, &protobufs.AgentToServer{
		InstanceUid: instanceUID[:],
		SequenceNum: 1,
	})
	require.NoError(t, err)

	assert.NotZero(t, reply.GetCapabilities()&uint64(protobufs.ServerCapabilities_ServerCapabilities_AcceptsStatus))
	assert.Equal(t, instanceUID[:], reply.GetInstanceUid())
}

func TestEngine_OnDisconnected_MarksAgentDisconnected(t *testing.T) {
	t.Parallel()

	engine, agents, _, _ := newTestEngine()
	ctx := context.Background()
	instanceUID := uuid.New()

	agents.byInstance[instanceUID] = model.NewAgent(instanceUID)

	conn := model.NewConnection(instanceUID, model.TransportWebSocket, func() {})
	require.NoError(t, engine.OnDisconnected(ctx, instanceUID, conn))

	assert.Equal(t, model.ConnectionStatusDisconnected, agents.byInstance[instanceUID].ConnectionStatus)
}

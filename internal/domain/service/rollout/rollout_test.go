package rollout_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/open-telemetry/opamp-go/protobufs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opamp-commander/opamp-commander/internal/domain/model"
	"github.com/opamp-commander/opamp-commander/internal/domain/model/agent"
	"github.com/opamp-commander/opamp-commander/internal/domain/model/deployment"
	"github.com/opamp-commander/opamp-commander/internal/domain/model/vo"
	"github.com/opamp-commander/opamp-commander/internal/domain/port"
	"github.com/opamp-commander/opamp-commander/internal/domain/service/rollout"
)

type auditKey struct {
	deploymentID uuid.UUID
	instanceUID  uuid.UUID
}

// fakeDeploymentStore is a minimal in-memory port.DeploymentPersistencePort,
// enough to drive the rollout controller's wave sequencing without a real
// database.
type fakeDeploymentStore struct {
	mu sync.Mutex

	versions    map[string]int64
	deployments map[uuid.UUID]*deployment.Deployment
	audit       map[auditKey]deployment.AuditRow
	lastApplied map[uuid.UUID][]byte
}

func newFakeDeploymentStore() *fakeDeploymentStore {
	return &fakeDeploymentStore{
		versions:    make(map[string]int64),
		deployments: make(map[uuid.UUID]*deployment.Deployment),
		audit:       make(map[auditKey]deployment.AuditRow),
		lastApplied: make(map[uuid.UUID][]byte),
	}
}

func (f *fakeDeploymentStore) NextConfigVersion(_ context.Context, org string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.versions[org]++

	return f.versions[org], nil
}

func (f *fakeDeploymentStore) CreateDeployment(
	_ context.Context, d *deployment.Deployment, targets []uuid.UUID,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deployments[d.ID] = d

	for _, uid := range targets {
		key := auditKey{d.ID, uid}
		if _, ok := f.audit[key]; !ok {
			//exhaustruct:ignore
			f.audit[key] = deployment.AuditRow{
				DeploymentID: d.ID,
				InstanceUID:  uid,
				Status:       deployment.AuditStatusUnset,
			}
		}
	}

	return nil
}

func (f *fakeDeploymentStore) GetDeployment(_ context.Context, id uuid.UUID) (*deployment.Deployment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	d, ok := f.deployments[id]
	if !ok {
		return nil, port.ErrResourceNotExist
	}

	return d, nil
}

func (f *fakeDeploymentStore) SetDeploymentStatus(
	_ context.Context, id uuid.UUID, status deployment.Status, reason string, at time.Time,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	d, ok := f.deployments[id]
	if !ok {
		return port.ErrResourceNotExist
	}

	d.Status = status
	d.FailureReason = reason
	d.CompletedAt = at

	return nil
}

func (f *fakeDeploymentStore) SetAuditRow(_ context.Context, row deployment.AuditRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.audit[auditKey{row.DeploymentID, row.InstanceUID}] = row

	return nil
}

func (f *fakeDeploymentStore) ListAuditByDeployment(
	_ context.Context, deploymentID uuid.UUID,
) ([]deployment.AuditRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var rows []deployment.AuditRow

	for key, row := range f.audit {
		if key.deploymentID == deploymentID {
			rows = append(rows, row)
		}
	}

	return rows, nil
}

func (f *fakeDeploymentStore) ListHistoryByAgent(
	_ context.Context, instanceUID uuid.UUID,
) ([]deployment.AuditRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var rows []deployment.AuditRow

	for key, row := range f.audit {
		if key.instanceUID == instanceUID {
			rows = append(rows, row)
		}
	}

	return rows, nil
}

func (f *fakeDeploymentStore) GetAuditRow(
	_ context.Context, deploymentID, instanceUID uuid.UUID,
) (*deployment.AuditRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	row, ok := f.audit[auditKey{deploymentID, instanceUID}]
	if !ok {
		return nil, port.ErrResourceNotExist
	}

	return &row, nil
}

func (f *fakeDeploymentStore) LastAppliedConfig(
	_ context.Context, instanceUID uuid.UUID, _ uuid.UUID,
) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cfg, ok := f.lastApplied[instanceUID]

	return cfg, ok, nil
}

func (f *fakeDeploymentStore) ListActiveDeploymentsForTags(
	_ context.Context, _ string, _ []string,
) ([]*deployment.Deployment, error) {
	return nil, nil
}

var _ port.DeploymentPersistencePort = (*fakeDeploymentStore)(nil)

// fakeAgentStore is a minimal port.AgentPersistencePort serving a fixed
// target list regardless of org/tags; tag-based selection is not exercised
// by these tests.
type fakeAgentStore struct {
	targets []*model.Agent
}

func (f *fakeAgentStore) GetAgent(_ context.Context, _ uuid.UUID) (*model.Agent, error) {
	return nil, port.ErrResourceNotExist
}

func (f *fakeAgentStore) PutAgent(_ context.Context, _ *model.Agent) error { return nil }

func (f *fakeAgentStore) ListAgents(
	_ context.Context, _ string, _ model.ListOptions,
) (model.ListResponse[*model.Agent], error) {
	return model.ListResponse[*model.Agent]{}, nil
}

func (f *fakeAgentStore) ListAgentsByTags(
	_ context.Context, _ string, _ []string, _ model.ListOptions,
) (model.ListResponse[*model.Agent], error) {
	return model.ListResponse[*model.Agent]{Items: f.targets}, nil
}

var _ port.AgentPersistencePort = (*fakeAgentStore)(nil)

// fakeConnections is an in-memory port.ConnectionUsecase recording every
// offer sent to each instance, without any real transport.
type fakeConnections struct {
	mu   sync.Mutex
	sent map[uuid.UUID][]*protobufs.ServerToAgent
}

func newFakeConnections() *fakeConnections {
	return &fakeConnections{sent: make(map[uuid.UUID][]*protobufs.ServerToAgent)}
}

func (f *fakeConnections) Register(_ context.Context, _ uuid.UUID, _ *model.Connection) error {
	return nil
}

func (f *fakeConnections) Unregister(_ context.Context, _ *model.Connection) error { return nil }

func (f *fakeConnections) Get(_ context.Context, _ uuid.UUID) (*model.Connection, bool) {
	return nil, false
}

func (f *fakeConnections) Send(_ context.Context, instanceUID uuid.UUID, msg *protobufs.ServerToAgent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent[instanceUID] = append(f.sent[instanceUID], msg)

	return nil
}

func (f *fakeConnections) ListLive(_ context.Context) []uuid.UUID { return nil }

func (f *fakeConnections) sentCount(instanceUID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.sent[instanceUID])
}

var _ port.ConnectionUsecase = (*fakeConnections)(nil)

func newAgentWithRemoteConfig(t *testing.T) *model.Agent {
	t.Helper()

	a := model.NewAgent(uuid.New())
	a.AgentCapabilities = agent.Capabilities(agent.AgentCapabilityAcceptsRemoteConfig)

	return a
}

// TestController_CapabilityMissingFailsImmediatelyWithoutOffer exercises P3:
// a target lacking AcceptsRemoteConfig is audited FAILED with
// capability_missing and never receives a remote_config push.
func TestController_CapabilityMissingFailsImmediatelyWithoutOffer(t *testing.T) {
	t.Parallel()

	deployments := newFakeDeploymentStore()
	target := model.NewAgent(uuid.New()) // zero-value capabilities: lacks AcceptsRemoteConfig
	agents := &fakeAgentStore{targets: []*model.Agent{target}}
	connections := newFakeConnections()

	ctrl := rollout.New(deployments, agents, connections, slog.Default())

	//exhaustruct:ignore
	d, err := ctrl.CreateDeployment(context.Background(), deployment.Deployment{
		Org:             "acme",
		Name:            "d1",
		ConfigYAML:      []byte("receivers: {}\n"),
		RolloutStrategy: deployment.StrategyImmediate,
		TargetTags:      nil,
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		progress, _, err := ctrl.DeploymentProgress(context.Background(), d.ID)
		require.NoError(t, err)

		return progress.Failed == 1
	}, 2*time.Second, 10*time.Millisecond)

	_, rows, err := ctrl.DeploymentProgress(context.Background(), d.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, deployment.AuditStatusFailed, rows[0].Status)
	assert.Equal(t, "capability_missing", rows[0].Error)
	assert.Zero(t, connections.sentCount(target.InstanceUID))
}

// TestController_CanaryWaveGating exercises P4: with 10 targets and
// canary_percentage=20, exactly 2 agents receive wave 1's offer, and no
// agent outside that wave is offered anything until every wave-1 agent
// reaches a terminal audit status.
func TestController_CanaryWaveGating(t *testing.T) {
	t.Parallel()

	deployments := newFakeDeploymentStore()

	targets := make([]*model.Agent, 0, 10)
	for range 10 {
		targets = append(targets, newAgentWithRemoteConfig(t))
	}

	agents := &fakeAgentStore{targets: targets}
	connections := newFakeConnections()

	ctrl := rollout.New(deployments, agents, connections, slog.Default())

	//exhaustruct:ignore
	d, err := ctrl.CreateDeployment(context.Background(), deployment.Deployment{
		Org:              "acme",
		Name:             "d1",
		ConfigYAML:       []byte("receivers: {}\n"),
		RolloutStrategy:  deployment.StrategyCanary,
		CanaryPercentage: 20,
	})
	require.NoError(t, err)

	// Wave 1 must land on exactly 2 agents; the other 8 stay UNSET.
	require.Eventually(t, func() bool {
		progress, _, err := ctrl.DeploymentProgress(context.Background(), d.ID)
		require.NoError(t, err)

		return progress.Applying == 2
	}, 2*time.Second, 10*time.Millisecond)

	progress, rows, err := ctrl.DeploymentProgress(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, progress.Applying)
	assert.Equal(t, 8, progress.Pending)

	// No wave-2 offer has gone out yet: only the 2 wave-1 agents were sent
	// anything.
	sentTo := 0

	for _, a := range targets {
		if connections.sentCount(a.InstanceUID) > 0 {
			sentTo++
		}
	}

	assert.Equal(t, 2, sentTo)

	var wave1 []deployment.AuditRow

	for _, row := range rows {
		if row.Status == deployment.AuditStatusApplying {
			wave1 = append(wave1, row)
		}
	}

	require.Len(t, wave1, 2)

	// Acknowledge wave 1 as APPLIED; this should unblock wave 2.
	for _, row := range wave1 {
		//exhaustruct:ignore
		err := ctrl.OnAuditUpdate(context.Background(), deployment.AuditRow{
			DeploymentID: d.ID,
			InstanceUID:  row.InstanceUID,
			ConfigHash:   row.ConfigHash,
			Status:       deployment.AuditStatusApplied,
			ReportedAt:   time.Now(),
		})
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		progress, _, err := ctrl.DeploymentProgress(context.Background(), d.ID)
		require.NoError(t, err)

		return progress.Applying+progress.Applied == 10
	}, 2*time.Second, 10*time.Millisecond)

	// Acknowledge the remaining 8 and confirm the deployment completes.
	_, rows, err = ctrl.DeploymentProgress(context.Background(), d.ID)
	require.NoError(t, err)

	for _, row := range rows {
		if row.Status != deployment.AuditStatusApplying {
			continue
		}

		//exhaustruct:ignore
		err := ctrl.OnAuditUpdate(context.Background(), deployment.AuditRow{
			DeploymentID: d.ID,
			InstanceUID:  row.InstanceUID,
			ConfigHash:   row.ConfigHash,
			Status:       deployment.AuditStatusApplied,
			ReportedAt:   time.Now(),
		})
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		got, err := ctrl.GetDeployment(context.Background(), d.ID)
		require.NoError(t, err)

		return got.Status == deployment.StatusCompleted
	}, 2*time.Second, 10*time.Millisecond)
}

// TestController_RollbackOnlyTouchesAgentsThatApplied exercises P8: rolling
// back a deployment restores the prior config only on agents that had
// APPLIED it, leaving agents without a captured prior config untouched.
func TestController_RollbackOnlyTouchesAgentsThatApplied(t *testing.T) {
	t.Parallel()

	deployments := newFakeDeploymentStore()

	withPrior := newAgentWithRemoteConfig(t)
	withoutPrior := newAgentWithRemoteConfig(t)

	priorConfig := []byte("receivers: {otlp: {}}\n")
	deployments.lastApplied[withPrior.InstanceUID] = priorConfig

	agents := &fakeAgentStore{targets: []*model.Agent{withPrior, withoutPrior}}
	connections := newFakeConnections()

	ctrl := rollout.New(deployments, agents, connections, slog.Default())

	//exhaustruct:ignore
	d, err := ctrl.CreateDeployment(context.Background(), deployment.Deployment{
		Org:             "acme",
		Name:            "d1",
		ConfigYAML:      []byte("receivers: {filelog: {}}\n"),
		RolloutStrategy: deployment.StrategyImmediate,
		IgnoreFailures:  true,
	})
	require.NoError(t, err)

	hash, err := vo.NewHash(d.ConfigYAML)
	require.NoError(t, err)

	for _, a := range []*model.Agent{withPrior, withoutPrior} {
		require.Eventually(t, func() bool {
			return connections.sentCount(a.InstanceUID) > 0
		}, 2*time.Second, 10*time.Millisecond)

		//exhaustruct:ignore
		err := ctrl.OnAuditUpdate(context.Background(), deployment.AuditRow{
			DeploymentID: d.ID,
			InstanceUID:  a.InstanceUID,
			ConfigHash:   hash,
			Status:       deployment.AuditStatusApplied,
			ReportedAt:   time.Now(),
		})
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		got, err := ctrl.GetDeployment(context.Background(), d.ID)
		require.NoError(t, err)

		return got.Status == deployment.StatusCompleted
	}, 2*time.Second, 10*time.Millisecond)

	rollbackDeployment, err := ctrl.RollbackDeployment(context.Background(), d.ID)
	require.NoError(t, err)

	assert.True(t, rollbackDeployment.IsRollback)
	assert.Equal(t, priorConfig, rollbackDeployment.PreviousConfigByAgent[withPrior.InstanceUID])
	_, touched := rollbackDeployment.PreviousConfigByAgent[withoutPrior.InstanceUID]
	assert.False(t, touched, "agent with no captured prior config must not be a rollback target")

	require.Eventually(t, func() bool {
		return connections.sentCount(withPrior.InstanceUID) >= 2
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, connections.sentCount(withoutPrior.InstanceUID),
		"agent without a captured prior config must not receive a second offer")

	original, err := ctrl.GetDeployment(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, deployment.StatusRolledBack, original.Status)
}

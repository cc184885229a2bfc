// Package rollout implements the deployment store and rollout
// controller: target resolution, wave sequencing for canary/staged
// strategies, capability gating, and rollback.
package rollout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/open-telemetry/opamp-go/protobufs"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/opamp-commander/opamp-commander/internal/domain/model"
	"github.com/opamp-commander/opamp-commander/internal/domain/model/agent"
	"github.com/opamp-commander/opamp-commander/internal/domain/model/deployment"
	"github.com/opamp-commander/opamp-commander/internal/domain/model/vo"
	"github.com/opamp-commander/opamp-commander/internal/domain/port"
)

var _ port.DeploymentUsecase = (*Controller)(nil)

// DefaultWaveTimeout is how long a canary/staged wave waits for its agents
// to reach a terminal status before treating stragglers as failed.
const DefaultWaveTimeout = 10 * time.Minute

// DefaultCanaryFailureThreshold is the fraction of a wave's agents that may
// FAIL before the whole deployment is declared failed.
const DefaultCanaryFailureThreshold = 0.0

// stagedWavePercentages are the fixed cumulative percentages a staged
// rollout advances through.
var stagedWavePercentages = []int{10, 50, 100}

// Controller implements port.DeploymentUsecase.
type Controller struct {
	deployments port.DeploymentPersistencePort
	agents      port.AgentPersistencePort
	connections port.ConnectionUsecase
	logger      *slog.Logger

	waveTimeout      time.Duration
	failureThreshold float64

	mu      sync.Mutex
	waiters map[uuid.UUID][]chan struct{}
}

// New creates a rollout Controller with default wave timing.
func New(
	deployments port.DeploymentPersistencePort,
	agents port.AgentPersistencePort,
	connections port.ConnectionUsecase,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		deployments:      deployments,
		agents:           agents,
		connections:      connections,
		logger:           logger,
		waveTimeout:       DefaultWaveTimeout,
		failureThreshold: DefaultCanaryFailureThreshold,
		waiters:          make(map[uuid.UUID][]chan struct{}),
	}
}

// CreateDeployment implements port.DeploymentUsecase.
//
// Target resolution happens once, here; agents that register later are
// never added to an already-created deployment.
func (c *Controller) CreateDeployment(ctx context.Context, spec deployment.Deployment) (*deployment.Deployment, error) {
	if err := checkWellFormedYAML(spec.ConfigYAML); err != nil {
		return nil, fmt.Errorf("config_yaml is not well-formed: %w", err)
	}

	version, err := c.deployments.NextConfigVersion(ctx, spec.Org)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate config version: %w", err)
	}

	hash, err := vo.NewHash(spec.ConfigYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to hash config yaml: %w", err)
	}

	targets, err := c.resolveTargets(ctx, spec.Org, spec.TargetTags)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve deployment targets: %w", err)
	}

	if err := c.supersedeOverlapping(ctx, spec.Org, spec.TargetTags); err != nil {
		return nil, fmt.Errorf("failed to supersede overlapping deployments: %w", err)
	}

	d := &deployment.Deployment{
		ID:                    uuid.New(),
		Org:                   spec.Org,
		Name:                  spec.Name,
		ConfigVersion:         version,
		ConfigHash:            hash,
		ConfigYAML:            spec.ConfigYAML,
		RolloutStrategy:       spec.RolloutStrategy,
		CanaryPercentage:      spec.CanaryPercentage,
		TargetTags:            spec.TargetTags,
		Status:                deployment.StatusPending,
		IgnoreFailures:        spec.IgnoreFailures,
		StartedAt:             time.Now(),
		PreviousConfigByAgent: make(map[uuid.UUID][]byte),
	}

	targetUIDs := make([]uuid.UUID, 0, len(targets))

	for _, a := range targets {
		targetUIDs = append(targetUIDs, a.InstanceUID)

		if prev, ok, err := c.deployments.LastAppliedConfig(ctx, a.InstanceUID, d.ID); err == nil && ok {
			d.PreviousConfigByAgent[a.InstanceUID] = prev
		}
	}

	if err := c.deployments.CreateDeployment(ctx, d, targetUIDs); err != nil {
		return nil, fmt.Errorf("failed to create deployment: %w", err)
	}

	d.Status = deployment.StatusInProgress

	if err := c.deployments.SetDeploymentStatus(ctx, d.ID, d.Status, "", time.Now()); err != nil {
		return nil, fmt.Errorf("failed to mark deployment in progress: %w", err)
	}

	go c.run(context.WithoutCancel(ctx), d, targets)

	return d, nil
}

// checkWellFormedYAML is the basic well-formedness gate spec.md §1 calls
// for: the control plane does not semantically validate collector
// configuration (that's delegated), but it does reject bytes that are not
// even parseable YAML before they are ever offered to an agent.
func checkWellFormedYAML(configYAML []byte) error {
	var probe any

	return yaml.Unmarshal(configYAML, &probe)
}

func (c *Controller) resolveTargets(ctx context.Context, org string, tags []string) ([]*model.Agent, error) {
	res, err := c.agents.ListAgentsByTags(ctx, org, tags, model.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list agents by tags: %w", err)
	}

	return res.Items, nil
}

// supersedeOverlapping marks earlier in-progress deployments targeting an
// overlapping tag set as failed/superseded, per the tie-break rule.
func (c *Controller) supersedeOverlapping(ctx context.Context, org string, tags []string) error {
	active, err := c.deployments.ListActiveDeploymentsForTags(ctx, org, tags)
	if err != nil {
		return fmt.Errorf("failed to list active deployments: %w", err)
	}

	for _, prior := range active {
		err := c.deployments.SetDeploymentStatus(ctx, prior.ID, deployment.StatusFailed, "superseded", time.Now())
		if err != nil {
			return fmt.Errorf("failed to supersede deployment %s: %w", prior.ID, err)
		}
	}

	return nil
}

// GetDeployment implements port.DeploymentUsecase.
func (c *Controller) GetDeployment(ctx context.Context, id uuid.UUID) (*deployment.Deployment, error) {
	d, err := c.deployments.GetDeployment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get deployment: %w", err)
	}

	return d, nil
}

// DeploymentProgress implements port.DeploymentUsecase.
func (c *Controller) DeploymentProgress(
	ctx context.Context,
	id uuid.UUID,
) (deployment.Progress, []deployment.AuditRow, error) {
	rows, err := c.deployments.ListAuditByDeployment(ctx, id)
	if err != nil {
		return deployment.Progress{}, nil, fmt.Errorf("failed to list audit rows: %w", err)
	}

	return deployment.NewProgress(rows), rows, nil
}

// ListHistoryByAgent implements port.DeploymentUsecase.
func (c *Controller) ListHistoryByAgent(ctx context.Context, instanceUID uuid.UUID) ([]deployment.AuditRow, error) {
	rows, err := c.deployments.ListHistoryByAgent(ctx, instanceUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list agent deployment history: %w", err)
	}

	return rows, nil
}

// RollbackDeployment implements port.DeploymentUsecase.
//
// Builds a new deployment whose per-agent config is each agent's
// previously-applied config: agents that never reached APPLIED on the
// original are left untouched by only including agents with a captured
// PreviousConfigByAgent entry.
func (c *Controller) RollbackDeployment(ctx context.Context, id uuid.UUID) (*deployment.Deployment, error) {
	original, err := c.deployments.GetDeployment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get deployment to roll back: %w", err)
	}

	return c.rollback(ctx, original)
}

func (c *Controller) rollback(ctx context.Context, original *deployment.Deployment) (*deployment.Deployment, error) {
	rows, err := c.deployments.ListAuditByDeployment(ctx, original.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit rows for rollback: %w", err)
	}

	byAgent := make(map[uuid.UUID][]byte)

	for _, row := range rows {
		if row.Status != deployment.AuditStatusApplied {
			continue
		}

		if prev, ok := original.PreviousConfigByAgent[row.InstanceUID]; ok {
			byAgent[row.InstanceUID] = prev
		}
	}

	if len(byAgent) == 0 {
		err := c.deployments.SetDeploymentStatus(ctx, original.ID, deployment.StatusRolledBack, "", time.Now())
		if err != nil {
			return nil, fmt.Errorf("failed to mark deployment rolled back: %w", err)
		}

		return original, nil
	}

	// All rollback targets share one prior config in the common case (a
	// single prior deployment applied to the whole set); when they differ,
	// the rollback still dispatches per-agent via PendingOffer using each
	// agent's own PreviousConfigByAgent entry rather than the deployment's
	// single ConfigYAML, so ConfigYAML here is only a representative value
	// for display/hash purposes.
	representative := byAgent[lo.Keys(byAgent)[0]]

	hash, err := vo.NewHash(representative)
	if err != nil {
		return nil, fmt.Errorf("failed to hash rollback config: %w", err)
	}

	rollbackDeployment := &deployment.Deployment{
		ID:                    uuid.New(),
		Org:                   original.Org,
		Name:                  original.Name + "-rollback",
		ConfigHash:            hash,
		ConfigYAML:            representative,
		RolloutStrategy:       deployment.StrategyImmediate,
		Status:                deployment.StatusPending,
		IgnoreFailures:        true,
		IsRollback:            true,
		StartedAt:             time.Now(),
		PreviousConfigByAgent: byAgent,
	}

	version, err := c.deployments.NextConfigVersion(ctx, original.Org)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate config version for rollback: %w", err)
	}

	rollbackDeployment.ConfigVersion = version

	targetUIDs := lo.Keys(byAgent)
	if err := c.deployments.CreateDeployment(ctx, rollbackDeployment, targetUIDs); err != nil {
		return nil, fmt.Errorf("failed to create rollback deployment: %w", err)
	}

	if err := c.deployments.SetDeploymentStatus(ctx, original.ID, deployment.StatusRolledBack, "", time.Now()); err != nil {
		return nil, fmt.Errorf("failed to mark original deployment rolled back: %w", err)
	}

	rollbackDeployment.Status = deployment.StatusInProgress

	err = c.deployments.SetDeploymentStatus(ctx, rollbackDeployment.ID, rollbackDeployment.Status, "", time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to mark rollback deployment in progress: %w", err)
	}

	// Rollback bypasses capability gating: an agent that previously APPLIED
	// a config by definition advertised AcceptsRemoteConfig.
	targets := make([]*model.Agent, 0, len(targetUIDs))
	for _, uid := range targetUIDs {
		targets = append(targets, &model.Agent{InstanceUID: uid, AgentCapabilities: agent.Capabilities(math.MaxUint64)})
	}

	go c.run(context.WithoutCancel(ctx), rollbackDeployment, targets)

	return rollbackDeployment, nil
}

// OnAuditUpdate implements port.DeploymentUsecase: called by the protocol
// engine whenever an agent's remote_config_status transitions for a hash
// that matches a deployment's config_hash.
func (c *Controller) OnAuditUpdate(ctx context.Context, row deployment.AuditRow) error {
	if err := c.deployments.SetAuditRow(ctx, row); err != nil {
		return fmt.Errorf("failed to set audit row: %w", err)
	}

	c.wake(row.DeploymentID)

	return nil
}

func (c *Controller) wake(deploymentID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ch := range c.waiters[deploymentID] {
		close(ch)
	}

	delete(c.waiters, deploymentID)
}

func (c *Controller) subscribe(deploymentID uuid.UUID) <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan struct{})
	c.waiters[deploymentID] = append(c.waiters[deploymentID], ch)

	return ch
}

// run drives one deployment's rollout to completion in the background.
func (c *Controller) run(ctx context.Context, d *deployment.Deployment, targets []*model.Agent) {
	waves := c.planWaves(d, targets)

	for _, wave := range waves {
		ok := c.runWave(ctx, d, wave)
		if !ok {
			return
		}
	}

	if err := c.deployments.SetDeploymentStatus(ctx, d.ID, deployment.StatusCompleted, "", time.Now()); err != nil {
		c.logger.Warn("failed to mark deployment completed",
			slog.String("deployment_id", d.ID.String()), slog.String("error", err.Error()))
	}
}

// planWaves splits targets into one or more ordered waves per strategy.
func (c *Controller) planWaves(d *deployment.Deployment, targets []*model.Agent) [][]*model.Agent {
	switch d.RolloutStrategy {
	case deployment.StrategyCanary:
		canarySize := int(math.Ceil(float64(len(targets)) * float64(d.CanaryPercentage) / 100.0))
		if canarySize < 1 {
			canarySize = 1
		}

		if canarySize >= len(targets) {
			return [][]*model.Agent{targets}
		}

		shuffled := lo.Shuffle(append([]*model.Agent(nil), targets...))

		return [][]*model.Agent{shuffled[:canarySize], shuffled[canarySize:]}
	case deployment.StrategyStaged:
		waves := make([][]*model.Agent, 0, len(stagedWavePercentages))
		prevCount := 0

		for _, pct := range stagedWavePercentages {
			count := int(math.Ceil(float64(len(targets)) * float64(pct) / 100.0))
			if count > len(targets) {
				count = len(targets)
			}

			if count <= prevCount {
				continue
			}

			waves = append(waves, targets[prevCount:count])
			prevCount = count

			if count >= len(targets) {
				break
			}
		}

		return waves
	case deployment.StrategyImmediate:
		fallthrough
	default:
		return [][]*model.Agent{targets}
	}
}

// runWave offers the config to every agent in wave concurrently, then
// blocks until every agent reaches a terminal audit status or the wave
// timeout elapses. It returns false if the deployment should stop (failed
// past the threshold, or the caller's context was cancelled).
func (c *Controller) runWave(ctx context.Context, d *deployment.Deployment, wave []*model.Agent) bool {
	var wg sync.WaitGroup

	for _, a := range wave {
		wg.Add(1)

		go func(target *model.Agent) {
			defer wg.Done()

			c.offer(ctx, d, target)
		}(a)
	}

	wg.Wait()

	deadline := time.Now().Add(c.waveTimeout)

	for {
		rows, err := c.deployments.ListAuditByDeployment(ctx, d.ID)
		if err != nil {
			c.logger.Warn("failed to list audit rows while waiting on wave",
				slog.String("deployment_id", d.ID.String()), slog.String("error", err.Error()))

			return false
		}

		byAgent := make(map[uuid.UUID]deployment.AuditRow, len(rows))
		for _, row := range rows {
			byAgent[row.InstanceUID] = row
		}

		allTerminal := true
		failed := 0
		stragglers := 0

		for _, a := range wave {
			row, ok := byAgent[a.InstanceUID]
			if !ok || (row.Status != deployment.AuditStatusApplied && row.Status != deployment.AuditStatusFailed) {
				allTerminal = false
				stragglers++

				continue
			}

			if row.Status == deployment.AuditStatusFailed {
				failed++
			}
		}

		// Past the deadline, stragglers are treated as failed for gating
		// purposes but the audit rows themselves are left as-is; the agent
		// may still apply and report later, which simply updates its own row.
		timedOut := !allTerminal && time.Now().After(deadline)
		if timedOut {
			failed += stragglers
		}

		failureRate := 0.0
		if len(wave) > 0 {
			failureRate = float64(failed) / float64(len(wave))
		}

		if failureRate > c.failureThreshold && !d.IgnoreFailures {
			reason := "canary threshold exceeded"

			if err := c.deployments.SetDeploymentStatus(ctx, d.ID, deployment.StatusFailed, reason, time.Now()); err != nil {
				c.logger.Warn("failed to mark deployment failed",
					slog.String("deployment_id", d.ID.String()), slog.String("error", err.Error()))
			}

			if !d.IgnoreFailures {
				if _, err := c.rollback(ctx, d); err != nil {
					c.logger.Warn("automatic rollback failed",
						slog.String("deployment_id", d.ID.String()), slog.String("error", err.Error()))
				}
			}

			return false
		}

		if allTerminal || timedOut {
			return true
		}

		wake := c.subscribe(d.ID)

		select {
		case <-wake:
		case <-time.After(time.Until(deadline)):
		case <-ctx.Done():
			return false
		}
	}
}

// offer dispatches one agent's config_yaml: capability-gates it, queues
// the pending offer on its live session if one exists, and marks the
// audit row. An offer that cannot be queued (no live session, or a full
// send queue) is logged and not sent again; its audit row stays APPLYING.
func (c *Controller) offer(ctx context.Context, d *deployment.Deployment, target *model.Agent) {
	if !target.AgentCapabilities.HasAcceptsRemoteConfig() {
		row := deployment.AuditRow{
			DeploymentID: d.ID,
			InstanceUID:  target.InstanceUID,
			ConfigHash:   d.ConfigHash,
			Status:       deployment.AuditStatusFailed,
			Error:        "capability_missing",
			ReportedAt:   time.Now(),
		}

		if err := c.deployments.SetAuditRow(ctx, row); err != nil {
			c.logger.Warn("failed to record capability_missing audit row",
				slog.String("deployment_id", d.ID.String()), slog.String("error", err.Error()))
		}

		return
	}

	// A rollback deployment carries a per-agent prior config in
	// PreviousConfigByAgent; every other deployment offers the same
	// ConfigYAML to every target.
	configYAML := d.ConfigYAML
	if prior, ok := d.PreviousConfigByAgent[target.InstanceUID]; ok && d.IsRollback {
		configYAML = prior
	}

	hash, err := vo.NewHash(configYAML)
	if err != nil {
		c.logger.Warn("failed to hash offer config", slog.String("error", err.Error()))

		return
	}

	row := deployment.AuditRow{
		DeploymentID: d.ID,
		InstanceUID:  target.InstanceUID,
		ConfigHash:   hash,
		Status:       deployment.AuditStatusApplying,
		ReportedAt:   time.Now(),
	}

	if err := c.deployments.SetAuditRow(ctx, row); err != nil {
		c.logger.Warn("failed to record applying audit row", slog.String("error", err.Error()))

		return
	}

	msg := &protobufs.ServerToAgent{
		InstanceUid: target.InstanceUID[:],
		RemoteConfig: &protobufs.AgentRemoteConfig{
			Config: &protobufs.AgentConfigMap{
				ConfigMap: map[string]*protobufs.AgentConfigFile{
					"": {Body: configYAML, ContentType: "text/yaml"},
				},
			},
			ConfigHash: hash,
		},
	}

	if err := c.connections.Send(ctx, target.InstanceUID, msg); err != nil {
		if errors.Is(err, port.ErrConnectionNotFound) {
			c.logger.Info("agent has no live session, offer not sent",
				slog.String("instance_uid", target.InstanceUID.String()))

			return
		}

		c.logger.Warn("failed to send offer",
			slog.String("instance_uid", target.InstanceUID.String()), slog.String("error", err.Error()))
	}
}

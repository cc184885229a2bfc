// Package deployment holds the deployment and audit-row aggregates: a
// versioned config rollout and the per-agent record of how it landed.
package deployment

import (
	"time"

	"github.com/google/uuid"

	"github.com/opamp-commander/opamp-commander/internal/domain/model/vo"
	"github.com/opamp-commander/opamp-commander/pkg/datastructure/sets"
)

// Strategy is how a deployment's targets receive their offer.
type Strategy string

// Recognized rollout strategies.
const (
	StrategyImmediate Strategy = "immediate"
	StrategyCanary     Strategy = "canary"
	StrategyStaged     Strategy = "staged"
)

// Status is the deployment's overall lifecycle state.
type Status string

// Recognized deployment statuses.
const (
	StatusPending     Status = "pending"
	StatusInProgress  Status = "in_progress"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
	StatusRolledBack  Status = "rolled_back"
)

// AuditStatus is the per-agent acknowledgement state for a deployment,
// mirroring the OpAMP RemoteConfigStatuses enum.
type AuditStatus string

// Recognized audit statuses.
const (
	AuditStatusUnset    AuditStatus = "UNSET"
	AuditStatusApplying AuditStatus = "APPLYING"
	AuditStatusApplied  AuditStatus = "APPLIED"
	AuditStatusFailed   AuditStatus = "FAILED"
)

// Deployment is an operator-initiated rollout of one config_yaml to a
// target set. It is immutable except for Status, CompletedAt and
// FailureReason.
type Deployment struct {
	ID               uuid.UUID
	Org              string
	Name             string
	ConfigVersion    int64
	ConfigHash       vo.Hash
	ConfigYAML       []byte
	RolloutStrategy  Strategy
	CanaryPercentage int
	TargetTags       []string
	Status           Status
	IgnoreFailures   bool
	StartedAt        time.Time
	CompletedAt      time.Time
	FailureReason    string

	// IsRollback marks a deployment created by RollbackDeployment: its
	// offers come from PreviousConfigByAgent per target rather than from
	// the uniform ConfigYAML every other deployment offers.
	IsRollback bool

	// PreviousConfigByAgent captures, at creation time, the config_yaml each
	// targeted agent had most recently APPLIED from a prior deployment, so
	// a rollback can restore it. Agents with no prior applied config are
	// absent from the map.
	PreviousConfigByAgent map[uuid.UUID][]byte
}

// AuditRow is the per-(deployment, agent) acknowledgement record. Exactly
// one row exists per (DeploymentID, InstanceUID) and rows are never deleted.
type AuditRow struct {
	DeploymentID        uuid.UUID
	InstanceUID         uuid.UUID
	ConfigHash          vo.Hash
	Status              AuditStatus
	EffectiveConfigHash vo.Hash
	Error               string
	ReportedAt          time.Time
}

// Progress is the on-demand rollup over a deployment's audit rows, derived
// with no denormalized counters.
type Progress struct {
	Applied     int
	Applying    int
	Failed      int
	Pending     int
	Total       int
	SuccessRate float64
}

// NewProgress computes Progress from a deployment's audit rows.
func NewProgress(rows []AuditRow) Progress {
	var p Progress

	p.Total = len(rows)

	for _, row := range rows {
		switch row.Status {
		case AuditStatusApplied:
			p.Applied++
		case AuditStatusApplying:
			p.Applying++
		case AuditStatusFailed:
			p.Failed++
		case AuditStatusUnset:
			p.Pending++
		}
	}

	if p.Total > 0 {
		p.SuccessRate = float64(p.Applied) / float64(p.Total)
	}

	return p
}

// MatchesTags reports whether an agent's tag set satisfies this
// deployment's TargetTags. An empty TargetTags set matches every agent in
// the org.
func (d *Deployment) MatchesTags(agentTags []string) bool {
	if len(d.TargetTags) == 0 {
		return true
	}

	return sets.NewString(agentTags...).HasAll(d.TargetTags...)
}

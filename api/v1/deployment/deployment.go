// Package deployment provides the wire DTOs for the deployment endpoints.
package deployment

import (
	"github.com/google/uuid"

	v1 "github.com/opamp-commander/opamp-commander/api/v1"
)

// CreateRequest is the body of POST /opamp-config/deployments.
type CreateRequest struct {
	Name             string   `binding:"required"          json:"name"`
	ConfigYAML       string   `binding:"required"          json:"configYaml"`
	RolloutStrategy  string   `binding:"required,oneof=immediate canary staged" json:"rolloutStrategy"`
	CanaryPercentage int      `json:"canaryPercentage,omitempty"`
	TargetTags       []string `json:"targetTags,omitempty"`
	IgnoreFailures   bool     `json:"ignoreFailures,omitempty"`
}

// PushRequest is the body of POST /opamp-config/push, an ad-hoc one-shot
// deployment to a target tag set.
type PushRequest struct {
	Name           string   `binding:"required" json:"name"`
	ConfigYAML     string   `binding:"required" json:"configYaml"`
	TargetTags     []string `json:"targetTags,omitempty"`
	IgnoreFailures bool     `json:"ignoreFailures,omitempty"`
}

// Deployment is the response shape for a single deployment.
type Deployment struct {
	ID               uuid.UUID `json:"id"`
	Org              string    `json:"org"`
	Name             string    `json:"name"`
	ConfigVersion    int64     `json:"configVersion"`
	ConfigHash       string    `json:"configHash"`
	RolloutStrategy  string    `json:"rolloutStrategy"`
	CanaryPercentage int       `json:"canaryPercentage"`
	TargetTags       []string  `json:"targetTags"`
	Status           string    `json:"status"`
	IgnoreFailures   bool      `json:"ignoreFailures"`
	IsRollback       bool      `json:"isRollback"`
	StartedAt        v1.Time   `json:"startedAt"`
	CompletedAt      *v1.Time  `json:"completedAt,omitempty"`
	FailureReason    string    `json:"failureReason,omitempty"`
} // @name Deployment

// Progress is the derived per-status rollup over a deployment's audit rows.
type Progress struct {
	Applied     int     `json:"applied"`
	Applying    int     `json:"applying"`
	Failed      int     `json:"failed"`
	Pending     int     `json:"pending"`
	Total       int     `json:"total"`
	SuccessRate float64 `json:"successRate"`
} // @name DeploymentProgress

// AuditRow is one per-agent acknowledgement row.
type AuditRow struct {
	InstanceUID         uuid.UUID `json:"instanceUid"`
	ConfigHash          string    `json:"configHash"`
	Status              string    `json:"status"`
	EffectiveConfigHash string    `json:"effectiveConfigHash,omitempty"`
	Error               string    `json:"error,omitempty"`
	ReportedAt          v1.Time   `json:"reportedAt"`
} // @name DeploymentAuditRow

// StatusResponse is the response of GET /opamp-config/deployments/{id}/status.
type StatusResponse struct {
	Deployment Deployment `json:"deployment"`
	Progress   Progress   `json:"progress"`
	AuditRows  []AuditRow `json:"auditRows"`
} // @name DeploymentStatusResponse

// CompareRequest is the body of POST /opamp-config/compare.
type CompareRequest struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// CompareResponse is the response of POST /opamp-config/compare.
type CompareResponse struct {
	Identical    bool   `json:"identical"`
	UnifiedDiff  string `json:"unifiedDiff,omitempty"`
	LinesAdded   int    `json:"linesAdded"`
	LinesRemoved int    `json:"linesRemoved"`
} // @name CompareResponse

package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/opamp-commander/opamp-commander/internal/domain/model/deployment"
)

// Deployment is the row shape of the deployments table.
type Deployment struct {
	ID            uuid.UUID `db:"id"`
	Org           string    `db:"org"`
	ConfigVersion int64     `db:"config_version"`
	Status        string    `db:"status"`
	TargetTags    []byte    `db:"target_tags"`
	StartedAt     time.Time `db:"started_at"`
	Data          []byte    `db:"data"`
}

// DeploymentFromDomain projects a domain.Deployment into its row shape.
func DeploymentFromDomain(d *deployment.Deployment) (*Deployment, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode deployment: %w", err)
	}

	tags, err := json.Marshal(d.TargetTags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode deployment target tags: %w", err)
	}

	return &Deployment{
		ID:            d.ID,
		Org:           d.Org,
		ConfigVersion: d.ConfigVersion,
		Status:        string(d.Status),
		TargetTags:    tags,
		StartedAt:     d.StartedAt,
		Data:          data,
	}, nil
}

// ToDomain decodes the row's Data column back into a domain.Deployment.
func (e *Deployment) ToDomain() (*deployment.Deployment, error) {
	var d deployment.Deployment

	if err := json.Unmarshal(e.Data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode deployment: %w", err)
	}

	return &d, nil
}

// AuditRow is the row shape of the deployment_audit_rows table.
type AuditRow struct {
	DeploymentID        uuid.UUID  `db:"deployment_id"`
	InstanceUID         uuid.UUID  `db:"instance_uid"`
	ConfigHash          []byte     `db:"config_hash"`
	Status              string     `db:"status"`
	EffectiveConfigHash []byte     `db:"effective_config_hash"`
	Error               string     `db:"error"`
	ReportedAt          time.Time  `db:"reported_at"`
}

// AuditRowFromDomain projects a domain.AuditRow into its row shape.
func AuditRowFromDomain(row deployment.AuditRow) AuditRow {
	return AuditRow{
		DeploymentID:        row.DeploymentID,
		InstanceUID:         row.InstanceUID,
		ConfigHash:          row.ConfigHash.Bytes(),
		Status:              string(row.Status),
		EffectiveConfigHash: row.EffectiveConfigHash.Bytes(),
		Error:               row.Error,
		ReportedAt:          row.ReportedAt,
	}
}

// ToDomain converts the row back into a domain.AuditRow.
func (e AuditRow) ToDomain() deployment.AuditRow {
	return deployment.AuditRow{
		DeploymentID:        e.DeploymentID,
		InstanceUID:         e.InstanceUID,
		ConfigHash:          e.ConfigHash,
		Status:              deployment.AuditStatus(e.Status),
		EffectiveConfigHash: e.EffectiveConfigHash,
		Error:               e.Error,
		ReportedAt:          e.ReportedAt,
	}
}

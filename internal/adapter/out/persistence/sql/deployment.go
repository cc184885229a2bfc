package sql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/opamp-commander/opamp-commander/internal/adapter/out/persistence/sql/entity"
	"github.com/opamp-commander/opamp-commander/internal/domain/model/deployment"
	"github.com/opamp-commander/opamp-commander/internal/domain/port"
	"github.com/opamp-commander/opamp-commander/pkg/datastructure/sets"
)

var _ port.DeploymentPersistencePort = (*DeploymentAdapter)(nil)

// DeploymentAdapter is the deployment persistence adapter backed by the
// deployments and deployment_audit_rows tables.
type DeploymentAdapter struct {
	db     *DB
	logger *slog.Logger
}

// NewDeploymentAdapter creates a DeploymentAdapter.
func NewDeploymentAdapter(db *DB, logger *slog.Logger) *DeploymentAdapter {
	return &DeploymentAdapter{db: db, logger: logger}
}

// NextConfigVersion implements port.DeploymentPersistencePort.
func (a *DeploymentAdapter) NextConfigVersion(ctx context.Context, org string) (int64, error) {
	var next int64

	err := a.db.GetContext(ctx, &next, `
		INSERT INTO config_version_counters (org, next_version)
		VALUES ($1, 2)
		ON CONFLICT (org) DO UPDATE SET next_version = config_version_counters.next_version + 1
		RETURNING next_version - 1`, org)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate config version: %w", err)
	}

	return next, nil
}

// CreateDeployment implements port.DeploymentPersistencePort.
func (a *DeploymentAdapter) CreateDeployment(
	ctx context.Context,
	d *deployment.Deployment,
	targets []uuid.UUID,
) error {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row, err := entity.DeploymentFromDomain(d)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO deployments (id, org, config_version, status, target_tags, started_at, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		row.ID, row.Org, row.ConfigVersion, row.Status, row.TargetTags, row.StartedAt, row.Data)
	if err != nil {
		return fmt.Errorf("failed to insert deployment: %w", err)
	}

	for _, instanceUID := range targets {
		audit := entity.AuditRowFromDomain(deployment.AuditRow{
			DeploymentID: d.ID,
			InstanceUID:  instanceUID,
			Status:       deployment.AuditStatusUnset,
			ReportedAt:   d.StartedAt,
		})

		_, err = tx.ExecContext(ctx, `
			INSERT INTO deployment_audit_rows
				(deployment_id, instance_uid, config_hash, status, effective_config_hash, error, reported_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (deployment_id, instance_uid) DO NOTHING`,
			audit.DeploymentID, audit.InstanceUID, audit.ConfigHash, audit.Status,
			audit.EffectiveConfigHash, audit.Error, audit.ReportedAt)
		if err != nil {
			return fmt.Errorf("failed to insert audit row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit deployment creation: %w", err)
	}

	return nil
}

// GetDeployment implements port.DeploymentPersistencePort.
func (a *DeploymentAdapter) GetDeployment(ctx context.Context, id uuid.UUID) (*deployment.Deployment, error) {
	var row entity.Deployment

	err := a.db.GetContext(ctx, &row, `SELECT id, org, config_version, status, target_tags, started_at, data
		FROM deployments WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrResourceNotExist
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get deployment: %w", err)
	}

	return row.ToDomain()
}

// SetDeploymentStatus implements port.DeploymentPersistencePort.
func (a *DeploymentAdapter) SetDeploymentStatus(
	ctx context.Context,
	id uuid.UUID,
	status deployment.Status,
	reason string,
	at time.Time,
) error {
	d, err := a.GetDeployment(ctx, id)
	if err != nil {
		return err
	}

	d.Status = status
	d.FailureReason = reason

	switch status {
	case deployment.StatusCompleted, deployment.StatusFailed, deployment.StatusRolledBack:
		d.CompletedAt = at
	case deployment.StatusPending, deployment.StatusInProgress:
	}

	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode deployment: %w", err)
	}

	_, err = a.db.ExecContext(ctx, `UPDATE deployments SET status = $1, data = $2, updated_at = now() WHERE id = $3`,
		string(status), data, id)
	if err != nil {
		return fmt.Errorf("failed to update deployment status: %w", err)
	}

	return nil
}

// SetAuditRow implements port.DeploymentPersistencePort.
func (a *DeploymentAdapter) SetAuditRow(ctx context.Context, row deployment.AuditRow) error {
	e := entity.AuditRowFromDomain(row)

	_, err := a.db.ExecContext(ctx, `
		INSERT INTO deployment_audit_rows
			(deployment_id, instance_uid, config_hash, status, effective_config_hash, error, reported_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (deployment_id, instance_uid) DO UPDATE
		SET config_hash = EXCLUDED.config_hash, status = EXCLUDED.status,
		    effective_config_hash = EXCLUDED.effective_config_hash, error = EXCLUDED.error,
		    reported_at = EXCLUDED.reported_at`,
		e.DeploymentID, e.InstanceUID, e.ConfigHash, e.Status, e.EffectiveConfigHash, e.Error, e.ReportedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert audit row: %w", err)
	}

	return nil
}

// ListAuditByDeployment implements port.DeploymentPersistencePort.
func (a *DeploymentAdapter) ListAuditByDeployment(
	ctx context.Context,
	deploymentID uuid.UUID,
) ([]deployment.AuditRow, error) {
	var rows []entity.AuditRow

	err := a.db.SelectContext(ctx, &rows, `
		SELECT deployment_id, instance_uid, config_hash, status, effective_config_hash, error, reported_at
		FROM deployment_audit_rows WHERE deployment_id = $1`, deploymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit rows: %w", err)
	}

	out := make([]deployment.AuditRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToDomain())
	}

	return out, nil
}

// ListHistoryByAgent implements port.DeploymentPersistencePort.
func (a *DeploymentAdapter) ListHistoryByAgent(
	ctx context.Context,
	instanceUID uuid.UUID,
) ([]deployment.AuditRow, error) {
	var rows []entity.AuditRow

	err := a.db.SelectContext(ctx, &rows, `
		SELECT deployment_id, instance_uid, config_hash, status, effective_config_hash, error, reported_at
		FROM deployment_audit_rows WHERE instance_uid = $1 ORDER BY reported_at DESC`, instanceUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list agent deployment history: %w", err)
	}

	out := make([]deployment.AuditRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToDomain())
	}

	return out, nil
}

// GetAuditRow implements port.DeploymentPersistencePort.
func (a *DeploymentAdapter) GetAuditRow(
	ctx context.Context,
	deploymentID, instanceUID uuid.UUID,
) (*deployment.AuditRow, error) {
	var row entity.AuditRow

	err := a.db.GetContext(ctx, &row, `
		SELECT deployment_id, instance_uid, config_hash, status, effective_config_hash, error, reported_at
		FROM deployment_audit_rows WHERE deployment_id = $1 AND instance_uid = $2`, deploymentID, instanceUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrResourceNotExist
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get audit row: %w", err)
	}

	domainRow := row.ToDomain()

	return &domainRow, nil
}

// LastAppliedConfig implements port.DeploymentPersistencePort.
func (a *DeploymentAdapter) LastAppliedConfig(
	ctx context.Context,
	instanceUID uuid.UUID,
	beforeDeployment uuid.UUID,
) ([]byte, bool, error) {
	var rows []entity.AuditRow

	err := a.db.SelectContext(ctx, &rows, `
		SELECT deployment_id, instance_uid, config_hash, status, effective_config_hash, error, reported_at
		FROM deployment_audit_rows
		WHERE instance_uid = $1 AND status = 'APPLIED' AND deployment_id != $2
		ORDER BY reported_at DESC LIMIT 1`, instanceUID, beforeDeployment)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up last applied audit row: %w", err)
	}

	if len(rows) == 0 {
		return nil, false, nil
	}

	d, err := a.GetDeployment(ctx, rows[0].DeploymentID)
	if err != nil {
		if errors.Is(err, port.ErrResourceNotExist) {
			return nil, false, nil
		}

		return nil, false, err
	}

	if d.IsRollback {
		if cfg, ok := d.PreviousConfigByAgent[instanceUID]; ok {
			return cfg, true, nil
		}
	}

	return d.ConfigYAML, true, nil
}

// ListActiveDeploymentsForTags implements port.DeploymentPersistencePort.
func (a *DeploymentAdapter) ListActiveDeploymentsForTags(
	ctx context.Context,
	org string,
	tags []string,
) ([]*deployment.Deployment, error) {
	var rows []entity.Deployment

	err := a.db.SelectContext(ctx, &rows, `
		SELECT id, org, config_version, status, target_tags, started_at, data
		FROM deployments WHERE org = $1 AND status IN ('pending', 'in_progress')`, org)
	if err != nil {
		return nil, fmt.Errorf("failed to list active deployments: %w", err)
	}

	out := make([]*deployment.Deployment, 0, len(rows))

	for i := range rows {
		d, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}

		if tagsOverlap(d.TargetTags, tags) {
			out = append(out, d)
		}
	}

	return out, nil
}

// tagsOverlap reports whether two target-tag sets could both match the same
// agent: either set being empty targets every agent in the org, and
// otherwise they overlap if they share at least one tag.
func tagsOverlap(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return true
	}

	return sets.NewString(a...).HasAny(b...)
}

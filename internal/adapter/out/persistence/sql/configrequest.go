package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/opamp-commander/opamp-commander/internal/adapter/out/persistence/sql/entity"
	"github.com/opamp-commander/opamp-commander/internal/domain/model/configrequest"
	"github.com/opamp-commander/opamp-commander/internal/domain/port"
)

var _ port.ConfigRequestPersistencePort = (*ConfigRequestAdapter)(nil)

// ConfigRequestAdapter is the config-request persistence adapter backed by the
// config_requests table.
type ConfigRequestAdapter struct {
	db     *DB
	logger *slog.Logger
}

// NewConfigRequestAdapter creates a ConfigRequestAdapter.
func NewConfigRequestAdapter(db *DB, logger *slog.Logger) *ConfigRequestAdapter {
	return &ConfigRequestAdapter{db: db, logger: logger}
}

// CreateConfigRequest implements port.ConfigRequestPersistencePort.
func (a *ConfigRequestAdapter) CreateConfigRequest(ctx context.Context, req *configrequest.Request) error {
	row := entity.ConfigRequestFromDomain(req)

	_, err := a.db.ExecContext(ctx, `
		INSERT INTO config_requests
			(tracking_id, instance_uid, requested_at, completed_at, status,
			 effective_config_yaml, effective_config_hash, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		row.TrackingID, row.InstanceUID, row.RequestedAt, row.CompletedAt, row.Status,
		row.EffectiveConfigYAML, row.EffectiveConfigHash, row.Error)
	if err != nil {
		return fmt.Errorf("failed to create config request: %w", err)
	}

	return nil
}

// GetConfigRequest implements port.ConfigRequestPersistencePort.
func (a *ConfigRequestAdapter) GetConfigRequest(
	ctx context.Context,
	trackingID uuid.UUID,
) (*configrequest.Request, error) {
	var row entity.ConfigRequest

	err := a.db.GetContext(ctx, &row, `
		SELECT tracking_id, instance_uid, requested_at, completed_at, status,
		       effective_config_yaml, effective_config_hash, error
		FROM config_requests WHERE tracking_id = $1`, trackingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrResourceNotExist
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get config request: %w", err)
	}

	return row.ToDomain(), nil
}

// OldestPendingByInstance implements port.ConfigRequestPersistencePort.
func (a *ConfigRequestAdapter) OldestPendingByInstance(
	ctx context.Context,
	instanceUID uuid.UUID,
) (*configrequest.Request, error) {
	var row entity.ConfigRequest

	err := a.db.GetContext(ctx, &row, `
		SELECT tracking_id, instance_uid, requested_at, completed_at, status,
		       effective_config_yaml, effective_config_hash, error
		FROM config_requests
		WHERE instance_uid = $1 AND status = 'pending'
		ORDER BY requested_at ASC LIMIT 1`, instanceUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrResourceNotExist
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get oldest pending config request: %w", err)
	}

	return row.ToDomain(), nil
}

// UpdateConfigRequest implements port.ConfigRequestPersistencePort.
func (a *ConfigRequestAdapter) UpdateConfigRequest(ctx context.Context, req *configrequest.Request) error {
	row := entity.ConfigRequestFromDomain(req)

	_, err := a.db.ExecContext(ctx, `
		UPDATE config_requests SET
			completed_at = $1, status = $2, effective_config_yaml = $3,
			effective_config_hash = $4, error = $5
		WHERE tracking_id = $6`,
		row.CompletedAt, row.Status, row.EffectiveConfigYAML, row.EffectiveConfigHash, row.Error, row.TrackingID)
	if err != nil {
		return fmt.Errorf("failed to update config request: %w", err)
	}

	return nil
}

// ListOverduePending implements port.ConfigRequestPersistencePort.
func (a *ConfigRequestAdapter) ListOverduePending(
	ctx context.Context,
	cutoff time.Time,
) ([]*configrequest.Request, error) {
	var rows []entity.ConfigRequest

	err := a.db.SelectContext(ctx, &rows, `
		SELECT tracking_id, instance_uid, requested_at, completed_at, status,
		       effective_config_yaml, effective_config_hash, error
		FROM config_requests WHERE status = 'pending' AND requested_at < $1`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue config requests: %w", err)
	}

	out := make([]*configrequest.Request, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}

	return out, nil
}

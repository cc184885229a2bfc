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
	"github.com/opamp-commander/opamp-commander/internal/domain/model/registration"
	"github.com/opamp-commander/opamp-commander/internal/domain/port"
)

var _ port.RegistrationPersistencePort = (*RegistrationAdapter)(nil)

// RegistrationAdapter is the registration persistence adapter backed by the
// registration_tokens and bearer_tokens tables.
type RegistrationAdapter struct {
	db     *DB
	logger *slog.Logger
}

// NewRegistrationAdapter creates a RegistrationAdapter.
func NewRegistrationAdapter(db *DB, logger *slog.Logger) *RegistrationAdapter {
	return &RegistrationAdapter{db: db, logger: logger}
}

// CreateToken implements port.RegistrationPersistencePort.
func (a *RegistrationAdapter) CreateToken(ctx context.Context, token *registration.Token) error {
	row := entity.RegistrationTokenFromDomain(token)

	_, err := a.db.ExecContext(ctx, `
		INSERT INTO registration_tokens (id, org, one_shot_secret, expires_at, consumed_at)
		VALUES ($1, $2, $3, $4, $5)`,
		row.ID, row.Org, row.OneShotSecret, row.ExpiresAt, row.ConsumedAt)
	if err != nil {
		return fmt.Errorf("failed to create registration token: %w", err)
	}

	return nil
}

// ConsumeToken implements port.RegistrationPersistencePort.
//
// The UPDATE ... WHERE consumed_at IS NULL ... RETURNING is the single
// conditional write the port contract requires: only one concurrent
// redemption can ever see a non-empty result set for the same secret.
func (a *RegistrationAdapter) ConsumeToken(
	ctx context.Context,
	secret string,
	now time.Time,
) (*registration.Token, error) {
	var row entity.RegistrationToken

	err := a.db.GetContext(ctx, &row, `
		UPDATE registration_tokens SET consumed_at = $1
		WHERE one_shot_secret = $2 AND consumed_at IS NULL AND expires_at > $1
		RETURNING id, org, one_shot_secret, expires_at, consumed_at`, now, secret)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrResourceNotExist
	}

	if err != nil {
		return nil, fmt.Errorf("failed to consume registration token: %w", err)
	}

	return row.ToDomain(), nil
}

// CreateBearerToken implements port.RegistrationPersistencePort.
func (a *RegistrationAdapter) CreateBearerToken(ctx context.Context, token *registration.BearerToken) error {
	row := entity.BearerTokenFromDomain(token)

	_, err := a.db.ExecContext(ctx, `
		INSERT INTO bearer_tokens (id, instance_uid, org, secret, issued_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (instance_uid) DO UPDATE
		SET id = EXCLUDED.id, org = EXCLUDED.org, secret = EXCLUDED.secret, issued_at = EXCLUDED.issued_at`,
		row.ID, row.InstanceUID, row.Org, row.Secret, row.IssuedAt)
	if err != nil {
		return fmt.Errorf("failed to create bearer token: %w", err)
	}

	return nil
}

// GetBearerToken implements port.RegistrationPersistencePort.
func (a *RegistrationAdapter) GetBearerToken(ctx context.Context, secret string) (*registration.BearerToken, error) {
	var row entity.BearerToken

	err := a.db.GetContext(ctx, &row, `
		SELECT id, instance_uid, org, secret, issued_at FROM bearer_tokens WHERE secret = $1`, secret)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrResourceNotExist
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get bearer token: %w", err)
	}

	return row.ToDomain(), nil
}

// RevokeBearerToken implements port.RegistrationPersistencePort.
func (a *RegistrationAdapter) RevokeBearerToken(ctx context.Context, instanceUID uuid.UUID) error {
	_, err := a.db.ExecContext(ctx, `DELETE FROM bearer_tokens WHERE instance_uid = $1`, instanceUID)
	if err != nil {
		return fmt.Errorf("failed to revoke bearer token: %w", err)
	}

	return nil
}

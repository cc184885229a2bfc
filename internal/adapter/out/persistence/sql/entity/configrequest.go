package entity

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/opamp-commander/opamp-commander/internal/domain/model/configrequest"
)

// ConfigRequest is the row shape of the config_requests table.
type ConfigRequest struct {
	TrackingID          uuid.UUID      `db:"tracking_id"`
	InstanceUID         uuid.UUID      `db:"instance_uid"`
	RequestedAt         time.Time      `db:"requested_at"`
	CompletedAt         sql.NullTime   `db:"completed_at"`
	Status              string         `db:"status"`
	EffectiveConfigYAML []byte         `db:"effective_config_yaml"`
	EffectiveConfigHash []byte         `db:"effective_config_hash"`
	Error               string         `db:"error"`
}

// ConfigRequestFromDomain projects a domain.Request into its row shape.
func ConfigRequestFromDomain(r *configrequest.Request) *ConfigRequest {
	row := &ConfigRequest{
		TrackingID:          r.TrackingID,
		InstanceUID:         r.InstanceUID,
		RequestedAt:         r.RequestedAt,
		Status:              string(r.Status),
		EffectiveConfigYAML: r.EffectiveConfigYAML,
		EffectiveConfigHash: r.EffectiveConfigHash.Bytes(),
		Error:               r.Error,
	}

	if !r.CompletedAt.IsZero() {
		row.CompletedAt = sql.NullTime{Time: r.CompletedAt, Valid: true}
	}

	return row
}

// ToDomain converts the row back into a domain.Request.
func (e *ConfigRequest) ToDomain() *configrequest.Request {
	r := &configrequest.Request{
		TrackingID:          e.TrackingID,
		InstanceUID:         e.InstanceUID,
		RequestedAt:         e.RequestedAt,
		Status:              configrequest.Status(e.Status),
		EffectiveConfigYAML: e.EffectiveConfigYAML,
		EffectiveConfigHash: e.EffectiveConfigHash,
		Error:               e.Error,
	}

	if e.CompletedAt.Valid {
		r.CompletedAt = e.CompletedAt.Time
	}

	return r
}

// Package configrequest holds the tracking record correlating an
// operator's "fetch effective config" request with the agent's later reply.
package configrequest

import (
	"time"

	"github.com/google/uuid"

	"github.com/opamp-commander/opamp-commander/internal/domain/model/vo"
)

// Status is the tracking record's lifecycle state.
type Status string

// Recognized tracking statuses.
const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusExpired   Status = "expired"
)

// Request is a single "fetch effective config from instance N" tracking row.
type Request struct {
	TrackingID        uuid.UUID
	InstanceUID       uuid.UUID
	RequestedAt       time.Time
	CompletedAt       time.Time
	Status            Status
	EffectiveConfigYAML []byte
	EffectiveConfigHash vo.Hash
	Error             string
}

// IsPending reports whether the request is still awaiting a reply.
func (r *Request) IsPending() bool {
	return r.Status == StatusPending
}

// IsOverdue reports whether a still-pending request has outlived ttl.
func (r *Request) IsOverdue(now time.Time, ttl time.Duration) bool {
	return r.IsPending() && now.Sub(r.RequestedAt) > ttl
}

// Package configrequest provides the wire DTOs for the effective-config
// fetch endpoints.
package configrequest

import (
	"github.com/google/uuid"

	v1 "github.com/opamp-commander/opamp-commander/api/v1"
)

// RequestResponse is the response of POST /agents/{id}/request-effective-config.
type RequestResponse struct {
	TrackingID uuid.UUID `json:"trackingId"`
} // @name ConfigRequestResponse

// Request is the response of GET /agents/{id}/config-requests/{trackingId}.
type Request struct {
	TrackingID          uuid.UUID `json:"trackingId"`
	InstanceUID         uuid.UUID `json:"instanceUid"`
	Status              string    `json:"status"`
	RequestedAt         v1.Time   `json:"requestedAt"`
	CompletedAt         *v1.Time  `json:"completedAt,omitempty"`
	EffectiveConfigYAML string    `json:"effectiveConfigYaml,omitempty"`
	EffectiveConfigHash string    `json:"effectiveConfigHash,omitempty"`
	Error               string    `json:"error,omitempty"`
} // @name ConfigRequest

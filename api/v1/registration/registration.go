// Package registration provides the wire DTOs for the registration
// endpoints: minting operator-issued registration tokens and redeeming
// them for an OpAMP bearer token.
package registration

import (
	"github.com/google/uuid"

	v1 "github.com/opamp-commander/opamp-commander/api/v1"
)

// MintTokenRequest is the body of POST /registration-tokens.
type MintTokenRequest struct {
	Org        string `binding:"required" json:"org"`
	TTLSeconds int64  `json:"ttlSeconds,omitempty"`
}

// MintTokenResponse is the response of POST /registration-tokens.
type MintTokenResponse struct {
	ID        uuid.UUID `json:"id"`
	Token     string    `json:"token"`
	ExpiresAt v1.Time   `json:"expiresAt"`
} // @name RegistrationTokenResponse

// RegisterGatewayRequest is the body of POST /gateways.
type RegisterGatewayRequest struct {
	Name        string            `binding:"required" json:"name"`
	InstanceID  uuid.UUID         `json:"instanceId,omitempty"`
	Hostname    string            `json:"hostname,omitempty"`
	IPAddress   string            `json:"ipAddress,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// RegisterGatewayResponse is the response of POST /gateways.
type RegisterGatewayResponse struct {
	ID            uuid.UUID `json:"id"`
	OpAMPToken    string    `json:"opampToken"`
	OpAMPEndpoint string    `json:"opampEndpoint"`
} // @name RegisterGatewayResponse

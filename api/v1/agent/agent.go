// Package agent provides the wire DTOs for the agent query endpoints,
// projecting the flat domain.Agent record rather than the OpAMP wire
// messages it was built from.
package agent

import (
	"github.com/google/uuid"

	v1 "github.com/opamp-commander/opamp-commander/api/v1"
)

// Agent is the read-only representation of one agent record returned by
// the list/get endpoints.
type Agent struct {
	InstanceUID      uuid.UUID         `json:"instanceUid"`
	Org              string            `json:"org"`
	DisplayName      string            `json:"displayName"`
	Hostname         string            `json:"hostname"`
	IP               string            `json:"ip"`
	Tags             []string          `json:"tags"`
	Capabilities     []string          `json:"capabilities"`
	ConnectionStatus string            `json:"connectionStatus"`
	LastSeen         v1.Time           `json:"lastSeen"`
	LastSequenceNum  uint64            `json:"lastSequenceNum"`
	EffectiveConfig  *EffectiveConfig  `json:"effectiveConfig,omitempty"`
	RemoteConfig     *RemoteConfig     `json:"remoteConfig,omitempty"`
	Healthy          bool              `json:"healthy"`
	LastHealthError  string            `json:"lastHealthError,omitempty"`
	PackageStatuses  map[string]string `json:"packageStatuses,omitempty"`
} // @name Agent

// EffectiveConfig is the last effective config hash and timestamp reported
// by the agent.
type EffectiveConfig struct {
	Hash        string  `json:"hash"`
	LastUpdated v1.Time `json:"lastUpdated"`
} // @name AgentEffectiveConfig

// RemoteConfig is the control plane's last offered config and the agent's
// acknowledgement of it.
type RemoteConfig struct {
	Hash   string `json:"hash"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
} // @name AgentRemoteConfig

// List is the paginated response for the list-agents endpoint.
type List struct {
	v1.ListMeta `json:",inline"`
	Items       []*Agent `json:"items"`
} // @name AgentList

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/opamp-commander/opamp-commander/internal/domain/model/agent"
	"github.com/opamp-commander/opamp-commander/internal/domain/model/vo"
)

// ConnectionStatus is the agent's observed reachability, derived from
// whether a live session exists and whether it has been heard from within
// the staleness window.
type ConnectionStatus string

// Recognized connection statuses.
const (
	ConnectionStatusNeverConnected ConnectionStatus = "never_connected"
	ConnectionStatusConnected      ConnectionStatus = "connected"
	ConnectionStatusDisconnected   ConnectionStatus = "disconnected"
	ConnectionStatusFailed         ConnectionStatus = "failed"
)

// RemoteConfigStatus mirrors the OpAMP RemoteConfigStatuses enum.
type RemoteConfigStatus string

// Recognized remote config statuses.
const (
	RemoteConfigStatusUnset    RemoteConfigStatus = "UNSET"
	RemoteConfigStatusApplying RemoteConfigStatus = "APPLYING"
	RemoteConfigStatusApplied  RemoteConfigStatus = "APPLIED"
	RemoteConfigStatusFailed   RemoteConfigStatus = "FAILED"
)

// PackageStatusEnum mirrors the OpAMP PackageStatusEnum.
type PackageStatusEnum string

// Recognized package statuses.
const (
	PackageStatusInstalled  PackageStatusEnum = "installed"
	PackageStatusInstalling PackageStatusEnum = "installing"
	PackageStatusFailed     PackageStatusEnum = "failed"
	PackageStatusUninstalled PackageStatusEnum = "uninstalled"
)

// PackageStatus is the reported state of a single agent package.
type PackageStatus struct {
	Version string
	Hash    vo.Hash
	Status  PackageStatusEnum
	Error   string
}

// ConnectionSettingsHash is the reported acknowledgement state of an
// own-telemetry connection settings offer.
type ConnectionSettingsHash struct {
	Hash      vo.Hash
	Status    RemoteConfigStatus
	AppliedAt time.Time
	Error     string
}

// ConnectionSettingsHashes groups the three own-telemetry destinations an
// agent may be configured to report to.
type ConnectionSettingsHashes struct {
	OwnMetrics ConnectionSettingsHash
	OwnLogs    ConnectionSettingsHash
	OwnTraces  ConnectionSettingsHash
}

// Health is the agent's last-reported component health.
type Health struct {
	Healthy       bool
	StartTimeUnixNano uint64
	LastError     string
	ComponentTree *ComponentHealth
}

// ComponentHealth is one node of the agent's health component tree.
type ComponentHealth struct {
	Healthy    bool
	LastError  string
	Status     string
	StatusTime time.Time
	Components map[string]ComponentHealth
}

// ComponentDetails is one node of the available-components tree: a
// receiver, processor, exporter or extension with its version/stability
// metadata, stored as a plain recursive map rather than parent-id pointers
// with back-references, since the tree here is author-owned and acyclic.
type ComponentDetails struct {
	Metadata        map[string]string
	SubComponentMap map[string]ComponentDetails
}

// AvailableComponents is the agent-reported catalog of components it can run.
type AvailableComponents struct {
	Components map[string]ComponentDetails
	Hash       vo.Hash
}

// EffectiveConfig is the YAML the agent is actually running, as last reported.
type EffectiveConfig struct {
	Hash         vo.Hash
	YAML         []byte
	LastUpdated  time.Time
}

// RemoteConfig is the control plane's view of the config it last offered
// and the agent's acknowledgement of it.
type RemoteConfig struct {
	Hash   vo.Hash
	Status RemoteConfigStatus
	Error  string
}

// Agent is the durable per-agent record, keyed by instance_uid.
type Agent struct {
	InstanceUID uuid.UUID
	// Org scopes the agent record per the (org, instance_uid) primary key;
	// set once at registration and never changed afterwards.
	Org string

	DisplayName string
	Hostname    string
	IP          string
	Tags        []string

	Description         agent.Description
	AgentCapabilities    agent.Capabilities
	ServerCapabilities   agent.Capabilities
	AvailableComponents AvailableComponents

	EffectiveConfig EffectiveConfig
	RemoteConfig    RemoteConfig

	PackageStatuses          map[string]PackageStatus
	ConnectionSettingsHashes ConnectionSettingsHashes
	Health                   Health

	LastSequenceNum uint64
	LastSeen        time.Time
	ConnectionStatus ConnectionStatus

	RegistrationFailed         bool
	RegistrationFailedAt       time.Time
	RegistrationFailureReason  string

	// ReportFullState, when true, asks the protocol engine to include the
	// ReportFullState flag in the next ServerToAgent so the agent resends
	// its complete state instead of a delta.
	ReportFullState bool
}

// NewAgent creates a freshly registered agent record with no history.
func NewAgent(instanceUID uuid.UUID) *Agent {
	return &Agent{
		InstanceUID:      instanceUID,
		PackageStatuses:  make(map[string]PackageStatus),
		ConnectionStatus: ConnectionStatusNeverConnected,
		RemoteConfig:     RemoteConfig{Status: RemoteConfigStatusUnset},
	}
}

// Patch carries the subset of fields a single AgentToServer message may
// update. Absent (nil) fields are left untouched by Upsert.
type Patch struct {
	SequenceNum         uint64
	Description         *agent.Description
	Capabilities        *agent.Capabilities
	EffectiveConfig     *EffectiveConfig
	RemoteConfigStatus  *RemoteConfig
	PackageStatuses     map[string]PackageStatus
	Health              *Health
	AvailableComponents *AvailableComponents
	ConnectionSettings  *ConnectionSettingsHashes
}

// Upsert merges patch into the agent record under a sequence-number guard:
// a message whose sequence number is less than or equal to the stored
// value is a replay and only refreshes LastSeen.
func (a *Agent) Upsert(patch Patch, observedAt time.Time) {
	if patch.SequenceNum <= a.LastSequenceNum {
		a.LastSeen = observedAt

		return
	}

	a.LastSequenceNum = patch.SequenceNum
	a.LastSeen = observedAt
	a.ConnectionStatus = ConnectionStatusConnected

	if patch.Description != nil {
		a.Description = *patch.Description
		a.DisplayName = a.Description.DisplayName()
		a.Hostname = a.Description.Host().Name
	}

	if patch.Capabilities != nil {
		a.AgentCapabilities = *patch.Capabilities
	}

	if patch.EffectiveConfig != nil {
		a.EffectiveConfig = *patch.EffectiveConfig
	}

	if patch.RemoteConfigStatus != nil {
		a.RemoteConfig = *patch.RemoteConfigStatus
	}

	for name, status := range patch.PackageStatuses {
		a.PackageStatuses[name] = status
	}

	if patch.Health != nil {
		a.Health = *patch.Health
	}

	if patch.AvailableComponents != nil {
		a.AvailableComponents = *patch.AvailableComponents
	}

	if patch.ConnectionSettings != nil {
		a.ConnectionSettingsHashes = *patch.ConnectionSettings
	}
}

// MarkDisconnected records that the agent's transport session ended.
func (a *Agent) MarkDisconnected() {
	a.ConnectionStatus = ConnectionStatusDisconnected
}

// MarkRegistrationFailed records a failed registration attempt. Per the
// data-model invariant, RegistrationFailed and a minted bearer token are
// mutually exclusive.
func (a *Agent) MarkRegistrationFailed(reason string, at time.Time) {
	a.RegistrationFailed = true
	a.RegistrationFailedAt = at
	a.RegistrationFailureReason = reason
}

// HasAppliedHash reports whether the agent's remote config is already
// APPLIED with the given content hash. The rollout controller does not
// consult it: an offer is sent even to an agent that already reports that
// hash as APPLIED.
func (a *Agent) HasAppliedHash(hash vo.Hash) bool {
	return a.RemoteConfig.Status == RemoteConfigStatusApplied && a.RemoteConfig.Hash.Equal(hash)
}

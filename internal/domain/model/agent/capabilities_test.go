package agent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opamp-commander/opamp-commander/internal/domain/model/agent"
)

func TestCapabilities_Has(t *testing.T) {
	t.Parallel()

	caps := agent.Capabilities(0x3DE7) // bits 0,1,2,5,6,7,8,10,11,12,13
	assert.True(t, caps.HasReportsStatus())
	assert.True(t, caps.HasAcceptsRemoteConfig())
	assert.True(t, caps.HasReportsEffectiveConfig())
	assert.True(t, caps.HasAcceptsRestartCommand())
	assert.True(t, caps.HasReportsHealth())
	assert.True(t, caps.HasAcceptsOpAMPConnectionSettings())
	assert.False(t, caps.Has(agent.AgentCapabilityAcceptsPackages))
}

func TestCapabilities_Names(t *testing.T) {
	t.Parallel()

	caps := agent.Capabilities(0x3BE7)
	names := caps.Names()
	assert.Contains(t, names, "ReportsStatus")
	assert.Contains(t, names, "ReportsOwnTraces")
	assert.Contains(t, names, "ReportsHeartbeat")
	assert.NotContains(t, names, "AcceptsPackages")
}

func TestCapabilities_UnknownBits(t *testing.T) {
	t.Parallel()

	caps := agent.Capabilities(agent.AgentCapabilityReportsStatus) | (1 << 20)
	unknown := caps.UnknownBits()
	assert.Equal(t, []string{"unknown bit 20"}, unknown)

	assert.Empty(t, agent.Capabilities(agent.AgentCapabilityReportsStatus).UnknownBits())
}

package agent

import (
	v1 "github.com/opamp-commander/opamp-commander/api/v1"
	agentv1 "github.com/opamp-commander/opamp-commander/api/v1/agent"
	"github.com/opamp-commander/opamp-commander/internal/domain/model"
)

// toDTO projects a domain.Agent into its wire representation.
func toDTO(a *model.Agent) *agentv1.Agent {
	dto := &agentv1.Agent{
		InstanceUID:      a.InstanceUID,
		Org:               a.Org,
		DisplayName:      a.DisplayName,
		Hostname:         a.Hostname,
		IP:               a.IP,
		Tags:             a.Tags,
		Capabilities:     a.AgentCapabilities.Names(),
		ConnectionStatus: string(a.ConnectionStatus),
		LastSeen:         v1.NewTime(a.LastSeen),
		LastSequenceNum:  a.LastSequenceNum,
		Healthy:          a.Health.Healthy,
		LastHealthError:  a.Health.LastError,
	}

	if !a.EffectiveConfig.Hash.IsZero() {
		dto.EffectiveConfig = &agentv1.EffectiveConfig{
			Hash:        a.EffectiveConfig.Hash.String(),
			LastUpdated: v1.NewTime(a.EffectiveConfig.LastUpdated),
		}
	}

	if a.RemoteConfig.Status != model.RemoteConfigStatusUnset {
		dto.RemoteConfig = &agentv1.RemoteConfig{
			Hash:   a.RemoteConfig.Hash.String(),
			Status: string(a.RemoteConfig.Status),
			Error:  a.RemoteConfig.Error,
		}
	}

	if len(a.PackageStatuses) > 0 {
		dto.PackageStatuses = make(map[string]string, len(a.PackageStatuses))
		for name, status := range a.PackageStatuses {
			dto.PackageStatuses[name] = string(status.Status)
		}
	}

	return dto
}

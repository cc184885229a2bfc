package agent

import "github.com/opamp-commander/opamp-commander/internal/domain/model/vo"

// Description represents the description an agent reports in
// AgentDescription: identifying and non-identifying attributes, replaced
// wholesale whenever a new one arrives.
type Description struct {
	IdentifyingAttributes    map[string]string
	NonIdentifyingAttributes map[string]string
}

// Host carries the subset of non-identifying attributes describing the
// machine the agent runs on.
type Host struct {
	Name string
}

// OS is a required field of AgentDescription.
// https://github.com/open-telemetry/opamp-spec/blob/main/specification.md#agentdescriptionnon_identifying_attributes
func (ad *Description) OS() vo.OS {
	if ad == nil {
		return vo.OS{}
	}

	return vo.OS{
		Type:    ad.NonIdentifyingAttributes["os.type"],
		Version: ad.NonIdentifyingAttributes["os.version"],
	}
}

// Service returns service identity information.
func (ad *Description) Service() vo.Service {
	if ad == nil {
		return vo.Service{}
	}

	return vo.Service{
		Name:       ad.IdentifyingAttributes["service.name"],
		Namespace:  ad.IdentifyingAttributes["service.namespace"],
		Version:    ad.IdentifyingAttributes["service.version"],
		InstanceID: ad.IdentifyingAttributes["service.instance.id"],
	}
}

// Host returns host information.
func (ad *Description) Host() Host {
	if ad == nil {
		return Host{}
	}

	return Host{
		Name: ad.NonIdentifyingAttributes["host.name"],
	}
}

// DisplayName picks a human-friendly name for the agent: the service name
// if reported, otherwise the host name.
func (ad *Description) DisplayName() string {
	if ad == nil {
		return ""
	}

	if svc := ad.Service(); svc.Name != "" {
		return svc.Name
	}

	return ad.Host().Name
}

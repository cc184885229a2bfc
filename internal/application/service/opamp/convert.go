package opamp

import (
	"fmt"
	"sort"
	"time"

	"github.com/open-telemetry/opamp-go/protobufs"

	"github.com/opamp-commander/opamp-commander/internal/domain/model"
	modelagent "github.com/opamp-commander/opamp-commander/internal/domain/model/agent"
	"github.com/opamp-commander/opamp-commander/internal/domain/model/vo"
	"github.com/opamp-commander/opamp-commander/pkg/timeutil"
)

func descToDomain(desc *protobufs.AgentDescription) *modelagent.Description {
	if desc == nil {
		return nil
	}

	return &modelagent.Description{
		IdentifyingAttributes:    keyValuesToMap(desc.GetIdentifyingAttributes()),
		NonIdentifyingAttributes: keyValuesToMap(desc.GetNonIdentifyingAttributes()),
	}
}

func keyValuesToMap(kvs []*protobufs.KeyValue) map[string]string {
	out := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		// iss#1: only the string representation is kept; OpAMP allows
		// richer AnyValue payloads but nothing in this domain reads them.
		out[kv.GetKey()] = kv.GetValue().GetStringValue()
	}

	return out
}

func capabilitiesToDomain(caps uint64) modelagent.Capabilities {
	return modelagent.Capabilities(caps)
}

func healthToDomain(h *protobufs.ComponentHealth) *model.Health {
	if h == nil {
		return nil
	}

	return &model.Health{
		Healthy:           h.GetHealthy(),
		StartTimeUnixNano: h.GetStartTimeUnixNano(),
		LastError:         h.GetLastError(),
		ComponentTree:     componentHealthToDomain(h),
	}
}

func componentHealthToDomain(h *protobufs.ComponentHealth) *model.ComponentHealth {
	if h == nil {
		return nil
	}

	components := make(map[string]model.ComponentHealth, len(h.GetComponentHealthMap()))
	for name, sub := range h.GetComponentHealthMap() {
		components[name] = *componentHealthToDomain(sub)
	}

	return &model.ComponentHealth{
		Healthy:    h.GetHealthy(),
		LastError:  h.GetLastError(),
		Status:     h.GetStatus(),
		StatusTime: timeutil.UnixNanoToTime(h.GetStatusTimeUnixNano()),
		Components: components,
	}
}

// effectiveConfigToDomain folds the agent's (possibly multi-file) effective
// config map into the single YAML blob the domain tracks. An entry keyed ""
// is preferred, matching how this server's own offers are keyed; otherwise
// the lexicographically first key is used so the choice is deterministic
// across calls instead of depending on Go's randomized map iteration.
func effectiveConfigToDomain(ec *protobufs.EffectiveConfig, observedAt time.Time) (*model.EffectiveConfig, error) {
	if ec == nil {
		return nil, nil //nolint:nilnil
	}

	configMap := ec.GetConfigMap().GetConfigMap()

	body := pickConfigBody(configMap)

	hash, err := vo.NewHash(body)
	if err != nil {
		return nil, fmt.Errorf("failed to hash effective config: %w", err)
	}

	return &model.EffectiveConfig{
		Hash:        hash,
		YAML:        body,
		LastUpdated: observedAt,
	}, nil
}

func pickConfigBody(configMap map[string]*protobufs.AgentConfigFile) []byte {
	if len(configMap) == 0 {
		return nil
	}

	if f, ok := configMap[""]; ok {
		return f.GetBody()
	}

	keys := make([]string, 0, len(configMap))
	for k := range configMap {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return configMap[keys[0]].GetBody()
}

func remoteConfigStatusToDomain(s *protobufs.RemoteConfigStatus) *model.RemoteConfig {
	if s == nil {
		return nil
	}

	return &model.RemoteConfig{
		Hash:   vo.Hash(s.GetLastRemoteConfigHash()),
		Status: remoteConfigStatusEnumToDomain(s.GetStatus()),
		Error:  s.GetErrorMessage(),
	}
}

func remoteConfigStatusEnumToDomain(s protobufs.RemoteConfigStatuses) model.RemoteConfigStatus {
	switch s {
	case protobufs.RemoteConfigStatuses_RemoteConfigStatuses_APPLYING:
		return model.RemoteConfigStatusApplying
	case protobufs.RemoteConfigStatuses_RemoteConfigStatuses_APPLIED:
		return model.RemoteConfigStatusApplied
	case protobufs.RemoteConfigStatuses_RemoteConfigStatuses_FAILED:
		return model.RemoteConfigStatusFailed
	case protobufs.RemoteConfigStatuses_RemoteConfigStatuses_UNSET:
		return model.RemoteConfigStatusUnset
	default:
		return model.RemoteConfigStatusUnset
	}
}

func packageStatusesToDomain(ps *protobufs.PackageStatuses) map[string]model.PackageStatus {
	if ps == nil {
		return nil
	}

	out := make(map[string]model.PackageStatus, len(ps.GetPackages()))

	for name, value := range ps.GetPackages() {
		out[name] = model.PackageStatus{
			Version: value.GetAgentHasVersion(),
			Hash:    vo.Hash(value.GetAgentHasHash()),
			Status:  packageStatusEnumToDomain(value.GetStatus()),
			Error:   value.GetErrorMessage(),
		}
	}

	return out
}

// packageStatusEnumToDomain folds OpAMP's five-value package status enum
// into the four states the data model tracks (spec: installed, installing,
// failed, uninstalled); InstallPending and Downloading both read as
// "installing" in progress, since no operation distinguishes them.
func packageStatusEnumToDomain(s protobufs.PackageStatusEnum) model.PackageStatusEnum {
	switch s {
	case protobufs.PackageStatusEnum_PackageStatusEnum_Installed:
		return model.PackageStatusInstalled
	case protobufs.PackageStatusEnum_PackageStatusEnum_InstallFailed:
		return model.PackageStatusFailed
	case protobufs.PackageStatusEnum_PackageStatusEnum_InstallPending,
		protobufs.PackageStatusEnum_PackageStatusEnum_Downloading,
		protobufs.PackageStatusEnum_PackageStatusEnum_Installing:
		return model.PackageStatusInstalling
	default:
		return model.PackageStatusInstalling
	}
}

func availableComponentsToDomain(ac *protobufs.AvailableComponents) *model.AvailableComponents {
	if ac == nil {
		return nil
	}

	components := make(map[string]model.ComponentDetails, len(ac.GetComponents()))
	for name, value := range ac.GetComponents() {
		components[name] = componentDetailsToDomain(value)
	}

	return &model.AvailableComponents{
		Components: components,
		Hash:       vo.Hash(ac.GetHash()),
	}
}

func componentDetailsToDomain(cd *protobufs.ComponentDetails) model.ComponentDetails {
	subComponents := make(map[string]model.ComponentDetails, len(cd.GetSubComponentMap()))
	for name, value := range cd.GetSubComponentMap() {
		subComponents[name] = componentDetailsToDomain(value)
	}

	return model.ComponentDetails{
		Metadata:        keyValuesToMap(cd.GetMetadata()),
		SubComponentMap: subComponents,
	}
}

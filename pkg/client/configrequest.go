package client

import (
	"context"

	"github.com/google/uuid"

	configrequestv1 "github.com/opamp-commander/opamp-commander/api/v1/configrequest"
)

// ConfigRequestService provides methods to request and poll an agent's
// effective config. It is a thin naming wrapper over AgentService's
// equivalent methods, kept distinct so CLI subcommands can address
// config-requests as their own resource.
type ConfigRequestService struct {
	service *service
}

// NewConfigRequestService creates a new ConfigRequestService.
func NewConfigRequestService(service *service) *ConfigRequestService {
	return &ConfigRequestService{service: service}
}

// Request asks an agent to report its full effective config.
func (s *ConfigRequestService) Request(
	ctx context.Context,
	instanceUID uuid.UUID,
) (*configrequestv1.RequestResponse, error) {
	return NewAgentService(s.service).RequestEffectiveConfig(ctx, instanceUID)
}

// Get polls the status of a tracked effective-config request.
func (s *ConfigRequestService) Get(
	ctx context.Context,
	instanceUID uuid.UUID,
	trackingID uuid.UUID,
) (*configrequestv1.Request, error) {
	return NewAgentService(s.service).GetConfigRequest(ctx, instanceUID, trackingID)
}

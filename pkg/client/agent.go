package client

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	agentv1 "github.com/opamp-commander/opamp-commander/api/v1/agent"
	configrequestv1 "github.com/opamp-commander/opamp-commander/api/v1/configrequest"
)

const (
	// ListAgentURL is the path to list agents in the caller's org.
	ListAgentURL = "/api/v1/agents"
	// GetAgentURL is the path to get an agent by instance UID.
	GetAgentURL = "/api/v1/agents/{id}"
	// RequestEffectiveConfigURL asks an agent to report its full effective config.
	RequestEffectiveConfigURL = "/api/v1/agents/{id}/request-effective-config"
	// GetConfigRequestURL polls the status of a tracked effective-config request.
	GetConfigRequestURL = "/api/v1/agents/{id}/config-requests/{trackingId}"
)

// AgentService provides methods to interact with agents.
type AgentService struct {
	service *service
}

// NewAgentService creates a new AgentService.
func NewAgentService(service *service) *AgentService {
	return &AgentService{service: service}
}

// GetAgent retrieves an agent by its instance UID.
func (s *AgentService) GetAgent(ctx context.Context, id uuid.UUID) (*agentv1.Agent, error) {
	return getResource[agentv1.Agent](ctx, s.service, GetAgentURL, id.String())
}

// ListAgents lists a page of agents, optionally scoped to an organization.
func (s *AgentService) ListAgents(ctx context.Context, org string, opts ...ListOption) (*agentv1.List, error) {
	var settings ListSettings
	for _, opt := range opts {
		opt.Apply(&settings)
	}

	var result agentv1.List

	req := s.service.Resty.R().SetContext(ctx).SetResult(&result)
	if org != "" {
		req.SetQueryParam("org", org)
	}

	for key, value := range listQueryParams(settings) {
		req.SetQueryParam(key, value)
	}

	response, err := req.Get(ListAgentURL)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}

	if response.IsError() {
		return nil, &ResponseError{StatusCode: response.StatusCode(), ErrorMessage: response.String()}
	}

	return &result, nil
}

// RequestEffectiveConfig asks an agent to report its full effective config on
// its next message and returns a tracking id to poll.
func (s *AgentService) RequestEffectiveConfig(
	ctx context.Context,
	id uuid.UUID,
) (*configrequestv1.RequestResponse, error) {
	var result configrequestv1.RequestResponse

	response, err := s.service.Resty.R().
		SetContext(ctx).
		SetPathParam("id", id.String()).
		SetResult(&result).
		Post(RequestEffectiveConfigURL)
	if err != nil {
		return nil, fmt.Errorf("failed to request effective config: %w", err)
	}

	if response.IsError() {
		return nil, &ResponseError{StatusCode: response.StatusCode(), ErrorMessage: response.String()}
	}

	return &result, nil
}

// GetConfigRequest polls the status of a tracked effective-config request.
func (s *AgentService) GetConfigRequest(
	ctx context.Context,
	instanceUID uuid.UUID,
	trackingID uuid.UUID,
) (*configrequestv1.Request, error) {
	var result configrequestv1.Request

	response, err := s.service.Resty.R().
		SetContext(ctx).
		SetPathParam("id", instanceUID.String()).
		SetPathParam("trackingId", trackingID.String()).
		SetResult(&result).
		Get(GetConfigRequestURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get config request: %w", err)
	}

	if response.IsError() {
		return nil, &ResponseError{StatusCode: response.StatusCode(), ErrorMessage: response.String()}
	}

	return &result, nil
}

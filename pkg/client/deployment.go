package client

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	deploymentv1 "github.com/opamp-commander/opamp-commander/api/v1/deployment"
)

const (
	// CreateDeploymentURL creates a staged rollout against an org's config.
	CreateDeploymentURL = "/api/v1/opamp-config/deployments"
	// PushConfigURL pushes an ad-hoc, immediate config to a target tag set.
	PushConfigURL = "/api/v1/opamp-config/push"
	// GetDeploymentStatusURL returns a deployment's progress snapshot.
	GetDeploymentStatusURL = "/api/v1/opamp-config/deployments/{id}/status"
	// RollbackDeploymentURL creates and starts a rollback deployment.
	RollbackDeploymentURL = "/api/v1/opamp-config/deployments/{id}/rollback"
	// CompareURL diffs two YAML documents.
	CompareURL = "/api/v1/opamp-config/compare"
)

// DeploymentService provides methods to create and track rollouts.
type DeploymentService struct {
	service *service
}

// NewDeploymentService creates a new DeploymentService.
func NewDeploymentService(service *service) *DeploymentService {
	return &DeploymentService{service: service}
}

// Create starts a new deployment for an org.
func (s *DeploymentService) Create(
	ctx context.Context,
	org string,
	req deploymentv1.CreateRequest,
) (*deploymentv1.Deployment, error) {
	var result deploymentv1.Deployment

	response, err := s.service.Resty.R().
		SetContext(ctx).
		SetQueryParam("org", org).
		SetBody(req).
		SetResult(&result).
		Post(CreateDeploymentURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create deployment: %w", err)
	}

	if response.IsError() {
		return nil, &ResponseError{StatusCode: response.StatusCode(), ErrorMessage: response.String()}
	}

	return &result, nil
}

// Push deploys an ad-hoc, one-shot config to a target tag set.
func (s *DeploymentService) Push(
	ctx context.Context,
	org string,
	req deploymentv1.PushRequest,
) (*deploymentv1.Deployment, error) {
	var result deploymentv1.Deployment

	response, err := s.service.Resty.R().
		SetContext(ctx).
		SetQueryParam("org", org).
		SetBody(req).
		SetResult(&result).
		Post(PushConfigURL)
	if err != nil {
		return nil, fmt.Errorf("failed to push config: %w", err)
	}

	if response.IsError() {
		return nil, &ResponseError{StatusCode: response.StatusCode(), ErrorMessage: response.String()}
	}

	return &result, nil
}

// Status returns a deployment's progress snapshot.
func (s *DeploymentService) Status(ctx context.Context, id uuid.UUID) (*deploymentv1.StatusResponse, error) {
	var result deploymentv1.StatusResponse

	response, err := s.service.Resty.R().
		SetContext(ctx).
		SetPathParam("id", id.String()).
		SetResult(&result).
		Get(GetDeploymentStatusURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get deployment status: %w", err)
	}

	if response.IsError() {
		return nil, &ResponseError{StatusCode: response.StatusCode(), ErrorMessage: response.String()}
	}

	return &result, nil
}

// Rollback creates and starts a rollback deployment for the given deployment id.
func (s *DeploymentService) Rollback(ctx context.Context, id uuid.UUID) (*deploymentv1.Deployment, error) {
	var result deploymentv1.Deployment

	response, err := s.service.Resty.R().
		SetContext(ctx).
		SetPathParam("id", id.String()).
		SetResult(&result).
		Post(RollbackDeploymentURL)
	if err != nil {
		return nil, fmt.Errorf("failed to rollback deployment: %w", err)
	}

	if response.IsError() {
		return nil, &ResponseError{StatusCode: response.StatusCode(), ErrorMessage: response.String()}
	}

	return &result, nil
}

// Compare diffs two YAML documents via the server's canonicalizing differ.
func (s *DeploymentService) Compare(
	ctx context.Context,
	before string,
	after string,
) (*deploymentv1.CompareResponse, error) {
	var result deploymentv1.CompareResponse

	response, err := s.service.Resty.R().
		SetContext(ctx).
		SetBody(deploymentv1.CompareRequest{Before: before, After: after}).
		SetResult(&result).
		Post(CompareURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compare yaml: %w", err)
	}

	if response.IsError() {
		return nil, &ResponseError{StatusCode: response.StatusCode(), ErrorMessage: response.String()}
	}

	return &result, nil
}

package client

import (
	"context"
	"fmt"

	v1version "github.com/opamp-commander/opamp-commander/api/v1/version"
)

// GetServerVersionURL returns the running server's version information.
const GetServerVersionURL = "/api/v1/version"

// VersionService retrieves the server's version information.
type VersionService struct {
	service *service
}

// NewVersionService creates a new VersionService.
func NewVersionService(service *service) *VersionService {
	return &VersionService{service: service}
}

// Get retrieves the server's version information.
func (s *VersionService) Get(ctx context.Context) (*v1version.Info, error) {
	var result v1version.Info

	response, err := s.service.Resty.R().
		SetContext(ctx).
		SetResult(&result).
		Get(GetServerVersionURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get server version: %w", err)
	}

	if response.IsError() {
		return nil, &ResponseError{StatusCode: response.StatusCode(), ErrorMessage: response.String()}
	}

	return &result, nil
}

// GetServerVersion is a convenience wrapper around VersionService.Get.
func (c *Client) GetServerVersion(ctx context.Context) (*v1version.Info, error) {
	return c.VersionService.Get(ctx)
}

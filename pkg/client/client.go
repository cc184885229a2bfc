// Package client provides a typed HTTP client for the opampcommander API server.
// It mirrors the wire DTOs under api/v1 and wraps go-resty for transport.
package client

import (
	"log/slog"

	"github.com/go-resty/resty/v2"
)

// Client is the entrypoint for talking to the opampcommander API server.
type Client struct {
	Endpoint string

	common service

	AgentService        *AgentService
	DeploymentService   *DeploymentService
	ConfigRequestService *ConfigRequestService
	RegistrationService *RegistrationService
	VersionService      *VersionService
}

type service struct {
	Resty *resty.Client
}

// New creates a new Client for the given endpoint, applying the given options.
func New(endpoint string, opts ...Option) *Client {
	//exhaustruct:ignore
	client := &Client{
		Endpoint: endpoint,
		common: service{
			Resty: resty.New().SetBaseURL(endpoint),
		},
	}

	for _, opt := range opts {
		opt.Apply(client)
	}

	client.AgentService = NewAgentService(&client.common)
	client.DeploymentService = NewDeploymentService(&client.common)
	client.ConfigRequestService = NewConfigRequestService(&client.common)
	client.RegistrationService = NewRegistrationService(&client.common)
	client.VersionService = NewVersionService(&client.common)

	return client
}

// SetAuthToken sets the bearer token used for subsequent requests.
func (c *Client) SetAuthToken(token string) {
	c.common.Resty.SetAuthToken(token)
}

// WithBearerToken configures the client with a bearer token from construction.
func WithBearerToken(token string) Option {
	return OptionFunc(func(c *Client) {
		c.common.Resty.SetAuthToken(token)
	})
}

// WithLogger routes resty's internal logging through the given slog.Logger.
func WithLogger(logger *slog.Logger) Option {
	return OptionFunc(func(c *Client) {
		if logger == nil {
			return
		}

		c.common.Resty.SetLogger(&loggerWrapper{logger})
	})
}

// WithVerbose turns on resty's request/response dump logging.
func WithVerbose(verbose bool) Option {
	return OptionFunc(func(c *Client) {
		c.common.Resty.SetDebug(verbose)
	})
}

// Package clientutil provides helpers to build a pkg/client.Client from an
// opampctl GlobalConfig.
package clientutil

import (
	"github.com/opamp-commander/opamp-commander/pkg/client"
	"github.com/opamp-commander/opamp-commander/pkg/opampctl/config"
)

// NewClient builds an authenticated Client from the given config. The
// bearer token is read straight out of the config file (or the --token
// flag override).
func NewClient(globalConfig *config.GlobalConfig) (*client.Client, error) {
	cli := client.New(
		globalConfig.Endpoint,
		client.WithBearerToken(globalConfig.BearerToken),
		client.WithVerbose(globalConfig.Log.Level < 0),
		client.WithRetry(client.DefaultRetryCount),
	)

	return cli, nil
}

// NewUnauthenticatedClient builds a Client without a bearer token, for
// endpoints that don't require authentication (e.g. version).
func NewUnauthenticatedClient(globalConfig *config.GlobalConfig) *client.Client {
	return client.New(
		globalConfig.Endpoint,
		client.WithVerbose(globalConfig.Log.Level < 0),
		client.WithRetry(client.DefaultRetryCount),
	)
}

// Package configutil provides utilities for working with opampctl's
// configuration file and the persistent flags that can override it.
package configutil

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/opamp-commander/opamp-commander/pkg/opampctl/config"
)

// CreateGlobalConfigFlags registers the persistent flags every opampctl
// subcommand can use to override the on-disk config.
func CreateGlobalConfigFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "path to the opampctl config file")
	flags.String("endpoint", "", "override the configured opampcommander server endpoint")
	flags.String("token", "", "override the configured bearer token")
}

// ApplyCmdFlags overlays any persistent flags the user passed onto the
// global config that was (or will be) loaded from disk.
func ApplyCmdFlags(globalConfig *config.GlobalConfig, cmd cmdFlagReader) (*config.GlobalConfig, error) {
	configFilename, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to read config flag: %w", err)
	}

	if configFilename != "" {
		globalConfig.ConfigFilename = configFilename
	}

	endpoint, err := cmd.Flags().GetString("endpoint")
	if err != nil {
		return nil, fmt.Errorf("failed to read endpoint flag: %w", err)
	}

	if endpoint != "" {
		globalConfig.Endpoint = endpoint
	}

	token, err := cmd.Flags().GetString("token")
	if err != nil {
		return nil, fmt.Errorf("failed to read token flag: %w", err)
	}

	if token != "" {
		globalConfig.BearerToken = token
	}

	return globalConfig, nil
}

// cmdFlagReader is the subset of *cobra.Command this package depends on,
// kept narrow so it can be satisfied without importing cobra here.
type cmdFlagReader interface {
	Flags() *pflag.FlagSet
}

// Package get provides the get command for opampctl.
package get

import (
	"github.com/spf13/cobra"

	"github.com/opamp-commander/opamp-commander/pkg/cmd/opampctl/get/agent"
	"github.com/opamp-commander/opamp-commander/pkg/cmd/opampctl/get/deployment"
	"github.com/opamp-commander/opamp-commander/pkg/opampctl/config"
)

// CommandOptions contains the options for the get command.
type CommandOptions struct {
	*config.GlobalConfig
}

// NewCommand creates a new get command.
// It contains subcommands for getting resources.
func NewCommand(options CommandOptions) *cobra.Command {
	//exhaustruct:ignore
	cmd := &cobra.Command{
		Use:   "get",
		Short: "get",
	}

	cmd.AddCommand(agent.NewCommand(agent.CommandOptions{
		GlobalConfig: options.GlobalConfig,
	}))
	cmd.AddCommand(deployment.NewCommand(deployment.CommandOptions{
		GlobalConfig: options.GlobalConfig,
	}))

	return cmd
}

// Package deployment provides the command to get deployment status.
package deployment

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/opamp-commander/opamp-commander/pkg/client"
	"github.com/opamp-commander/opamp-commander/pkg/clientutil"
	"github.com/opamp-commander/opamp-commander/pkg/formatter"
	"github.com/opamp-commander/opamp-commander/pkg/opampctl/config"
)

// CommandOptions contains the options for the deployment command.
type CommandOptions struct {
	*config.GlobalConfig

	// flags
	formatType string

	// internal
	client *client.Client
}

// NewCommand creates a new deployment command.
func NewCommand(options CommandOptions) *cobra.Command {
	//exhaustruct:ignore
	cmd := &cobra.Command{
		Use:   "deployment [id]",
		Short: "deployment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := options.Prepare(cmd, args); err != nil {
				return err
			}

			return options.Run(cmd, args)
		},
	}
	cmd.Flags().StringVarP(&options.formatType, "format", "f", "short", "Output format (short, text, json, yaml)")

	return cmd
}

// Prepare prepares the command to run.
func (opt *CommandOptions) Prepare(*cobra.Command, []string) error {
	cli, err := clientutil.NewClient(opt.GlobalConfig)
	if err != nil {
		return fmt.Errorf("failed to create authenticated client: %w", err)
	}

	opt.client = cli

	return nil
}

// Run fetches and prints the deployment's status snapshot.
func (opt *CommandOptions) Run(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid deployment id: %w", err)
	}

	status, err := opt.client.DeploymentService.Status(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get deployment status: %w", err)
	}

	if err := formatter.Format(cmd.OutOrStdout(), status, formatter.FormatType(opt.formatType)); err != nil {
		return fmt.Errorf("failed to format deployment status: %w", err)
	}

	return nil
}

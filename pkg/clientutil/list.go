package clientutil

import (
	"context"
	"fmt"

	v1agent "github.com/opamp-commander/opamp-commander/api/v1/agent"
	"github.com/opamp-commander/opamp-commander/pkg/client"
)

// ChunkSize is the page size used when paging through a full listing.
const ChunkSize = 100

// ListAgentFully pages through every agent in the caller's org, invoking fn
// once per page fetched. It stops at the first empty page or the first
// error fn returns.
func ListAgentFully(
	ctx context.Context,
	cli *client.Client,
	fn func(ctx context.Context, agents []v1agent.Agent) error,
) error {
	continueToken := ""

	for {
		opts := []client.ListOption{client.WithLimit(ChunkSize)}
		if continueToken != "" {
			opts = append(opts, client.WithContinueToken(continueToken))
		}

		resp, err := cli.AgentService.ListAgents(ctx, "", opts...)
		if err != nil {
			return fmt.Errorf("failed to list agents: %w", err)
		}

		if len(resp.Items) == 0 {
			return nil
		}

		agents := make([]v1agent.Agent, 0, len(resp.Items))
		for _, a := range resp.Items {
			agents = append(agents, *a)
		}

		if err := fn(ctx, agents); err != nil {
			return err
		}

		if resp.Continue == "" {
			return nil
		}

		continueToken = resp.Continue
	}
}

package app

import (
	"context"
	"log/slog"
	"sync"

	"go.uber.org/fx"

	"github.com/opamp-commander/opamp-commander/internal/helper"
)

// Executor schedules and supervises every helper.Runner in the "runners"
// group: background work with no HTTP surface of its own, such as sweeping
// expired config requests.
type Executor struct {
	wg sync.WaitGroup
}

// NewExecutor creates a new Executor instance and wires its runners into
// the fx lifecycle.
func NewExecutor(
	lifecycle fx.Lifecycle,
	runners []helper.Runner,
	logger *slog.Logger,
) *Executor {
	executor := &Executor{wg: sync.WaitGroup{}}
	executorCtx, cancel := context.WithCancel(context.Background())

	lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			for _, runner := range runners {
				executor.wg.Add(1)

				go func(runner helper.Runner) {
					defer executor.wg.Done()

					if err := runner.Run(executorCtx); err != nil {
						logger.Error("runner error",
							slog.String("runner", runner.Name()),
							slog.String("error", err.Error()),
						)
					}
				}(runner)
			}

			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			executor.wg.Wait()

			return nil
		},
	})

	return executor
}

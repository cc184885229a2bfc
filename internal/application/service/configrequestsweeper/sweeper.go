// Package configrequestsweeper periodically expires config-request
// tracking rows that have sat pending past the expiry window, so a
// client polling a request an agent never answered eventually sees
// "expired" instead of waiting forever.
package configrequestsweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/opamp-commander/opamp-commander/internal/domain/port"
)

// DefaultInterval is how often pending rows are swept for expiry.
const DefaultInterval = 30 * time.Second

// Runner implements helper.Runner, sweeping port.ConfigRequestUsecase on a
// fixed interval until its context is cancelled.
type Runner struct {
	configRequests port.ConfigRequestUsecase
	logger         *slog.Logger
	interval       time.Duration
}

// New creates a Runner with the default sweep interval.
func New(configRequests port.ConfigRequestUsecase, logger *slog.Logger) *Runner {
	return &Runner{
		configRequests: configRequests,
		logger:         logger,
		interval:       DefaultInterval,
	}
}

// Name implements helper.Runner.
func (r *Runner) Name() string {
	return "configrequest-sweeper"
}

// Run implements helper.Runner.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			expired, err := r.configRequests.Expire(ctx)
			if err != nil {
				r.logger.Warn("failed to expire config requests", slog.String("error", err.Error()))

				continue
			}

			if expired > 0 {
				r.logger.Debug("expired config requests", slog.Int("count", expired))
			}
		}
	}
}

package app

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/opamp-commander/opamp-commander/internal/adapter/out/persistence/sql"
	"github.com/opamp-commander/opamp-commander/pkg/app/config"
)

// NewDatabase opens the Postgres connection pool backing every persistence
// adapter, applying schema.sql on start and closing the pool on stop.
func NewDatabase(lifecycle fx.Lifecycle, settings config.DatabaseSettings) (*sql.DB, error) {
	db, err := sql.Open(context.Background(), sql.Config{
		DSN:             settings.DSN,
		MaxOpenConns:    settings.MaxOpenConns,
		MaxIdleConns:    settings.MaxIdleConns,
		ConnMaxLifetime: settings.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error { return nil },
		OnStop: func(context.Context) error {
			if err := db.Close(); err != nil {
				return fmt.Errorf("failed to close database: %w", err)
			}

			return nil
		},
	})

	return db, nil
}

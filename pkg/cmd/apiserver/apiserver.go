// Package apiserver provides the command for the apiserver.
package apiserver

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/opamp-commander/opamp-commander/pkg/app"
	"github.com/opamp-commander/opamp-commander/pkg/app/config"
)

// CommandOption contains the options for the apiserver command.
type CommandOption struct {
	configFilename string

	// flags
	Address string `mapstructure:"address"`
	OpAMP   struct {
		Endpoint string `mapstructure:"endpoint"`
	} `mapstructure:"opamp"`
	Database struct {
		DSN             string        `mapstructure:"dsn"`
		MaxOpenConns    int           `mapstructure:"maxOpenConns"`
		MaxIdleConns    int           `mapstructure:"maxIdleConns"`
		ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"`
	} `mapstructure:"database"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
	Observability struct {
		ServiceName string `mapstructure:"serviceName"`
		Metric      struct {
			Enabled  bool   `mapstructure:"enabled"`
			Type     string `mapstructure:"type"`
			Endpoint string `mapstructure:"endpoint"`
		} `mapstructure:"metric"`
		Trace struct {
			Enabled  bool   `mapstructure:"enabled"`
			Endpoint string `mapstructure:"endpoint"`
			Sampler  string `mapstructure:"sampler"`
		} `mapstructure:"trace"`
	} `mapstructure:"observability"`

	// viper
	viper *viper.Viper

	// internal
	app *app.Server
}

// NewCommand creates a new apiserver command.
func NewCommand(opt CommandOption) *cobra.Command {
	if opt.viper == nil {
		opt.viper = viper.New()
	}
	//exhaustruct:ignore
	cmd := &cobra.Command{
		Use:   "apiserver",
		Short: "apiserver",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			err := opt.Init(cmd, args)
			if err != nil {
				return fmt.Errorf("failed to initialize command: %w", err)
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := opt.Prepare(cmd, args)
			if err != nil {
				return err
			}

			err = opt.Run(cmd, args)
			if err != nil {
				return err
			}

			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opt.configFilename, "config", "",
		"config file (default is $HOME/.config/opampcommander/apiserver/config.yaml)")
	cmd.Flags().String("address", ":8080", "server address")
	cmd.Flags().String("opamp.endpoint", "/v1/opamp", "OpAMP endpoint path")
	cmd.Flags().String("database.dsn", "postgres://localhost:5432/opampcommander", "Postgres connection string")
	cmd.Flags().Int("database.maxOpenConns", 0, "maximum number of open database connections (0 = unlimited)")
	cmd.Flags().Int("database.maxIdleConns", 0, "maximum number of idle database connections (0 = default)")
	cmd.Flags().Duration("database.connMaxLifetime", 0, "maximum lifetime of a pooled database connection (0 = unlimited)")
	cmd.Flags().String("log.level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().String("log.format", "json", "log format (json, text)")
	cmd.Flags().String("observability.serviceName", "opampcommander", "service name reported on metrics and traces")
	cmd.Flags().Bool("observability.metric.enabled", false, "enable metrics")
	cmd.Flags().String("observability.metric.type", "prometheus", "metrics backend (prometheus, otel)")
	cmd.Flags().String("observability.metric.endpoint", ":9090/metrics", "Prometheus scrape endpoint")
	cmd.Flags().Bool("observability.trace.enabled", false, "enable tracing")
	cmd.Flags().String("observability.trace.endpoint", "", "OTLP trace collector endpoint")
	cmd.Flags().String("observability.trace.sampler", "always", "trace sampler (always, never, probability)")

	return cmd
}

// Init initializes the command options.
func (opt *CommandOption) Init(cmd *cobra.Command, _ []string) error {
	err := opt.viper.BindPFlags(cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	if opt.configFilename != "" {
		opt.viper.SetConfigFile(opt.configFilename)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}

		opt.viper.AddConfigPath(filepath.Join(home, ".config", "opampcommander", "apiserver"))
		opt.viper.SetConfigName("config")
		opt.viper.SetConfigType("yaml")
	}

	opt.viper.AutomaticEnv() // read in environment variables that match

	if err := opt.viper.ReadInConfig(); err != nil {
		if errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	err = opt.viper.Unmarshal(opt)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}

// Prepare prepares the command.
func (opt *CommandOption) Prepare(_ *cobra.Command, _ []string) error {
	logLevel := toSlogLevel(opt.Log.Level)
	opt.app = app.NewServer(config.ServerSettings{
		Addr:          opt.Address,
		LogLevel:      logLevel,
		LogFormat:     config.LogFormat(opt.Log.Format),
		OpAMPEndpoint: opt.OpAMP.Endpoint,
		Database: config.DatabaseSettings{
			DSN:             opt.Database.DSN,
			MaxOpenConns:    opt.Database.MaxOpenConns,
			MaxIdleConns:    opt.Database.MaxIdleConns,
			ConnMaxLifetime: opt.Database.ConnMaxLifetime,
		},
		Observability: config.ObservabilitySettings{
			ServiceName: opt.Observability.ServiceName,
			Metric: config.MetricSettings{
				Enabled:  opt.Observability.Metric.Enabled,
				Type:     config.MetricType(opt.Observability.Metric.Type),
				Endpoint: opt.Observability.Metric.Endpoint,
			},
			Trace: config.TraceSettings{
				Enabled:              opt.Observability.Trace.Enabled,
				Endpoint:             opt.Observability.Trace.Endpoint,
				Sampler:              config.TraceSampler(opt.Observability.Trace.Sampler),
				SamplerRatio:         1,
				Protocol:             config.TraceProtocolHTTP,
				Compression:          false,
				CompressionAlgorithm: config.TraceCompressionAlgorithmGzip,
				Insecure:             false,
				Headers:              nil,
			},
		},
	})

	return nil
}

// Run runs the command.
func (opt *CommandOption) Run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	err := opt.app.Run(ctx)
	if err != nil {
		return fmt.Errorf("failed to run the server: %w", err)
	}

	return nil
}

func toSlogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

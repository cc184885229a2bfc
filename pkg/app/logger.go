package app

import (
	"log/slog"
	"os"

	"github.com/opamp-commander/opamp-commander/pkg/app/config"
)

// UnsupportedLogFormatError indicates settings named a log format this
// server does not know how to construct a handler for.
type UnsupportedLogFormatError struct {
	LogFormat config.LogFormat
}

// Error implements the error interface for UnsupportedLogFormatError.
func (e *UnsupportedLogFormatError) Error() string {
	return "unsupported log format: " + string(e.LogFormat)
}

// NewLogger creates the process-wide structured logger from settings.LogLevel
// and settings.LogFormat.
func NewLogger(settings *config.ServerSettings) (*slog.Logger, error) {
	//exhaustruct:ignore
	options := &slog.HandlerOptions{
		AddSource: true,
		Level:     settings.LogLevel,
	}

	var handler slog.Handler

	switch settings.LogFormat {
	case config.LogFormatJSON:
		handler = slog.NewJSONHandler(os.Stdout, options)
	case config.LogFormatText:
		handler = slog.NewTextHandler(os.Stdout, options)
	default:
		return nil, &UnsupportedLogFormatError{LogFormat: settings.LogFormat}
	}

	logger := slog.New(handler)

	logger.Debug("logger initialized",
		slog.String("level", settings.LogLevel.String()),
		slog.String("format", string(settings.LogFormat)),
	)

	return logger, nil
}

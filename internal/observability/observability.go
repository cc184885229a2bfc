// Package observability wires structured metrics and tracing into the
// server: a Gin middleware that records request spans/metrics, and the
// underlying OpenTelemetry providers (Prometheus scrape endpoint for
// metrics, OTLP exporter for traces) those middlewares report through.
package observability

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	metricapi "go.opentelemetry.io/otel/metric"
	traceapi "go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"github.com/opamp-commander/opamp-commander/pkg/app/config"
)

var (
	// ErrUnsupportedObservabilityType is returned when an unsupported observability type is specified.
	ErrUnsupportedObservabilityType = errors.New("unsupported observability type")

	// ErrNoImplementation is returned when no implementation is provided for the observability type.
	ErrNoImplementation = errors.New("no implementation provided for the observability type")

	// ErrInvalidPrometheusEndpoint is returned when the Prometheus endpoint is invalid.
	ErrInvalidPrometheusEndpoint = errors.New("invalid Prometheus endpoint URL")
)

// Service provides observability features such as metrics and tracing.
type Service struct {
	serviceName   string
	meterProvider metricapi.MeterProvider
	traceProvider traceapi.TracerProvider
}

// New creates a new observability Service based on the provided settings.
func New(
	settings config.ObservabilitySettings,
	lifecycle fx.Lifecycle,
	logger *slog.Logger,
) (*Service, error) {
	service := &Service{
		serviceName:   settings.ServiceName,
		meterProvider: nil,
		traceProvider: nil,
	}

	if settings.Metric.Enabled {
		meterProvider, err := newMeterProvider(lifecycle, settings.Metric, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}

		service.meterProvider = meterProvider
	}

	if settings.Trace.Enabled {
		traceProvider, err := newTraceProvider(lifecycle, settings.Trace, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}

		service.traceProvider = traceProvider
	}

	return service, nil
}

// Middleware returns a Gin middleware function that applies OpenTelemetry instrumentation.
func (service *Service) Middleware() gin.HandlerFunc {
	if service.meterProvider == nil && service.traceProvider == nil {
		return func(ctx *gin.Context) {
			ctx.Next()
		}
	}

	var opts []otelgin.Option

	if service.meterProvider != nil {
		opts = append(opts, otelgin.WithMeterProvider(service.meterProvider))
	}

	if service.traceProvider != nil {
		opts = append(opts, otelgin.WithTracerProvider(service.traceProvider))
	}

	return otelgin.Middleware(service.serviceName, opts...)
}

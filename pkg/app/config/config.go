// Package config holds the apiserver's settings, assembled by
// pkg/cmd/apiserver from CLI flags/environment and handed to pkg/app's fx
// modules as the single source of truth for wiring.
package config

import (
	"log/slog"
	"time"
)

// ServerSettings is the top-level configuration for the apiserver process.
type ServerSettings struct {
	Addr          string
	LogLevel      slog.Level
	LogFormat     LogFormat
	OpAMPEndpoint string
	Database      DatabaseSettings
	Observability ObservabilitySettings
}

// LogFormat is a string type that represents the log format.
type LogFormat string

const (
	// LogFormatText represents the text log format.
	LogFormatText LogFormat = "text"
	// LogFormatJSON represents the JSON log format.
	LogFormatJSON LogFormat = "json"
)

// DatabaseSettings configures the Postgres connection pool backing every
// persistence adapter.
type DatabaseSettings struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ObservabilitySettings configures the metrics and tracing providers the
// server exposes.
type ObservabilitySettings struct {
	ServiceName string
	Metric      MetricSettings
	Trace       TraceSettings
}

// MetricSettings configures the meter provider backing request metrics.
type MetricSettings struct {
	Enabled  bool
	Type     MetricType
	Endpoint string
}

// MetricType selects which metrics backend is wired up.
type MetricType string

const (
	// MetricTypePrometheus scrapes metrics from an in-process Prometheus
	// registry via an HTTP endpoint.
	MetricTypePrometheus MetricType = "prometheus"
	// MetricTypeOTel pushes metrics to an OTLP collector. Not yet
	// implemented; see observability.ErrNoImplementation.
	MetricTypeOTel MetricType = "otel"
)

// TraceSettings configures the OTLP trace exporter backing request tracing.
type TraceSettings struct {
	Enabled              bool
	Endpoint             string
	Sampler              TraceSampler
	SamplerRatio         float64
	Protocol             TraceProtocol
	Compression          bool
	CompressionAlgorithm TraceCompressionAlgorithm
	Insecure             bool
	Headers              map[string]string
}

// TraceSampler selects the sampling strategy applied to new traces.
type TraceSampler string

const (
	// TraceSamplerAlways samples every trace.
	TraceSamplerAlways TraceSampler = "always"
	// TraceSamplerNever samples no traces.
	TraceSamplerNever TraceSampler = "never"
	// TraceSamplerProbability samples a fixed ratio of traces, set via
	// TraceSettings.SamplerRatio.
	TraceSamplerProbability TraceSampler = "probability"
)

// TraceProtocol selects the OTLP transport used to export spans.
type TraceProtocol string

const (
	// TraceProtocolHTTP exports spans over OTLP/HTTP.
	TraceProtocolHTTP TraceProtocol = "http"
	// TraceProtocolGRPC exports spans over OTLP/gRPC.
	TraceProtocolGRPC TraceProtocol = "grpc"
)

// TraceCompressionAlgorithm selects the compression applied to exported
// spans when TraceSettings.Compression is set.
type TraceCompressionAlgorithm string

const (
	// TraceCompressionAlgorithmGzip compresses exported spans with gzip.
	TraceCompressionAlgorithmGzip TraceCompressionAlgorithm = "gzip"
)

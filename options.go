package fsxa

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/maidi29/fsxa-api/mapper"
	"github.com/maidi29/fsxa-api/resolver"
)

// Option configures the Client.
type Option func(*clientConfig)

// clientConfig holds optional dependencies of a Client instance.
type clientConfig struct {
	logger   *slog.Logger
	tracer   trace.Tracer
	meter    metric.Meter
	custom   mapper.CustomMapper
	fetcher  resolver.Fetcher
	maxDepth *int
	remotes  map[string]RemoteProjectConfig
}

// WithLogger sets a custom logger for the client.
// If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer for distributed tracing of
// mapping requests and resolution rounds.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *clientConfig) {
		c.tracer = tracer
	}
}

// WithMeter sets an OpenTelemetry meter recording fetch-batch and
// resolved-entity counters.
func WithMeter(meter metric.Meter) Option {
	return func(c *clientConfig) {
		c.meter = meter
	}
}

// WithCustomMapper installs a hook that sees every raw data entry before
// built-in mapping. A handled result is used verbatim and built-in dispatch
// is skipped for that node.
func WithCustomMapper(custom mapper.CustomMapper) Option {
	return func(c *clientConfig) {
		c.custom = custom
	}
}

// WithMaxReferenceDepth overrides the configured reference-depth budget.
// Zero disables resolution entirely.
func WithMaxReferenceDepth(depth int) Option {
	return func(c *clientConfig) {
		c.maxDepth = &depth
	}
}

// WithRemoteProject registers a remote project in addition to those in the
// configuration file, keyed by the name references use.
func WithRemoteProject(key string, remote RemoteProjectConfig) Option {
	return func(c *clientConfig) {
		if c.remotes == nil {
			c.remotes = make(map[string]RemoteProjectConfig)
		}
		c.remotes[key] = remote
	}
}

// WithFetcher replaces the CaaS REST transport with a custom fetch
// collaborator. Meant for tests and for callers with their own transport;
// when set, the endpoint fields of the configuration are not used.
func WithFetcher(fetcher resolver.Fetcher) Option {
	return func(c *clientConfig) {
		c.fetcher = fetcher
	}
}

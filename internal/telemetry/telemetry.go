package telemetry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// shutdownTimeout bounds Shutdown when the caller's context has no deadline.
const shutdownTimeout = 5 * time.Second

// Telemetry owns the tracer provider for the lifetime of the process.
type Telemetry struct {
	provider *sdktrace.TracerProvider
	degraded bool
	reason   string
}

// New initializes tracing from cfg. A nil config falls back to defaults, a
// disabled config returns a Telemetry whose tracers are no-ops. Exporter
// setup failures degrade to a no-op provider instead of returning an error;
// only invalid configuration fails.
func New(_ context.Context, cfg *Config) (*Telemetry, error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("telemetry config: %w", err)
	}

	t := &Telemetry{}
	if !cfg.Enabled {
		return t, nil
	}

	opts := []stdouttrace.Option{stdouttrace.WithWriter(os.Stderr)}
	if cfg.Pretty {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		t.setDegraded(fmt.Sprintf("create exporter: %v", err))
		return t, nil
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	)

	t.provider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(newSampler(cfg.SampleRatio)),
	)
	otel.SetTracerProvider(t.provider)
	return t, nil
}

func (t *Telemetry) setDegraded(reason string) {
	t.degraded = true
	t.reason = reason
}

// Degraded reports whether tracing fell back to a no-op provider, and why.
func (t *Telemetry) Degraded() (bool, string) {
	if t == nil {
		return false, ""
	}
	return t.degraded, t.reason
}

// Tracer returns a tracer from the configured provider. When tracing is
// disabled or degraded the returned tracer records nothing.
func (t *Telemetry) Tracer(name string) trace.Tracer {
	if t == nil || t.provider == nil {
		return noop.NewTracerProvider().Tracer(name)
	}
	return t.provider.Tracer(name)
}

// Shutdown flushes pending spans and releases the provider. Safe to call on
// a nil or disabled Telemetry. A default timeout applies when ctx carries no
// deadline.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil || t.provider == nil {
		return nil
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
	}

	var errs []error
	if err := t.provider.ForceFlush(ctx); err != nil {
		errs = append(errs, fmt.Errorf("force flush: %w", err))
	}
	if err := t.provider.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown: %w", err))
	}
	return errors.Join(errs...)
}

// newSampler maps a sample ratio onto a parent-based sampler: at or above 1
// everything is sampled, at or below 0 nothing is, anything between becomes
// a trace ID ratio.
func newSampler(ratio float64) sdktrace.Sampler {
	var base sdktrace.Sampler
	switch {
	case ratio >= 1:
		base = sdktrace.AlwaysSample()
	case ratio <= 0:
		base = sdktrace.NeverSample()
	default:
		base = sdktrace.TraceIDRatioBased(ratio)
	}
	return sdktrace.ParentBased(base)
}

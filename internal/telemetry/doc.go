// Package telemetry configures the OpenTelemetry tracer provider used by
// the catalog engine. Spans are exported in human-readable form to stderr
// so that stdout stays reserved for record output; tracing is disabled by
// default and failures to initialize degrade to a no-op provider rather
// than aborting the caller.
package telemetry

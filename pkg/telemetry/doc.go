// Package telemetry groups the observability packages used by tablecheck.
//
//   - logging: structured logging on log/slog with run and file context
//   - metrics: Prometheus collectors for validations, history and watching
//   - health: liveness and readiness probes for the watch command
//   - tracing: OpenTelemetry spans for each checked table, exported over OTLP
package telemetry

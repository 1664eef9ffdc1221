// Package observability wires OpenTelemetry tracing and metrics into
// restspec.
//
// Tracing and metrics export over OTLP HTTP:
//
//	shutdown, err := observability.Setup(ctx, observability.Config{Enabled: true})
//	defer shutdown(ctx)
//
// The builder wraps every function call in a Call:
//
//	ctx, call := observability.StartCall(ctx, "findById", "operations[0]", metrics)
//	call.End(ctx, observability.OutcomeSuccess, nil)
//
// The HTTP transport records per-request spans and the restspec.http.*
// instruments created by NewMetrics.
package observability

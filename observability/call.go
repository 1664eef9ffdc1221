package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Call outcomes.
const (
	OutcomeSuccess        = "success"
	OutcomeHTTPError      = "http_error"
	OutcomeTransportError = "transport_error"
	OutcomeBindingError   = "binding_error"
	// OutcomeDispatched is recorded for fire-and-forget calls whose result
	// nobody observes.
	OutcomeDispatched = "dispatched"
)

// Call tracks the span and timing of one builder function call.
type Call struct {
	Function  string
	Operation string
	StartTime time.Time
	Metrics   *Metrics

	span trace.Span
}

type callKey struct{}

// StartCall starts a span for a function call and stores the Call in the
// returned context. If metrics is nil, metric recording is skipped.
func StartCall(ctx context.Context, function, operation string, metrics *Metrics) (context.Context, *Call) {
	ctx, span := StartSpan(ctx, SpanCall, trace.WithSpanKind(trace.SpanKindInternal))
	span.SetAttributes(
		attribute.String(AttrFunction, function),
		attribute.String(AttrOperation, operation),
	)
	c := &Call{
		Function:  function,
		Operation: operation,
		StartTime: time.Now(),
		Metrics:   metrics,
		span:      span,
	}
	return context.WithValue(ctx, callKey{}, c), c
}

// CallFromContext returns the Call stored in ctx, or nil.
func CallFromContext(ctx context.Context) *Call {
	if c, ok := ctx.Value(callKey{}).(*Call); ok {
		return c
	}
	return nil
}

// End finishes the span and records the call metric.
func (c *Call) End(ctx context.Context, outcome string, err error) {
	duration := time.Since(c.StartTime)

	SetSpanError(c.span, err)
	c.span.SetAttributes(
		attribute.String(AttrOutcome, outcome),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	c.span.End()

	if c.Metrics != nil {
		c.Metrics.RecordCall(ctx, c.Function, outcome, duration)
		if err != nil {
			c.Metrics.RecordError(ctx, outcome, "builder")
		}
	}
}

// Duration returns the elapsed time since the call started.
func (c *Call) Duration() time.Duration {
	return time.Since(c.StartTime)
}

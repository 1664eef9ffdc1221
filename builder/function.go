package builder

import (
	"context"

	"github.com/kbukum/restspec/observability"
	"github.com/kbukum/restspec/operation"
	"github.com/kbukum/restspec/request"
	"github.com/kbukum/restspec/response"
)

// Function is an invocable compiled function. The Call variants return
// immediately and deliver exactly one envelope to cb; the Do variants wait
// for it.
type Function struct {
	fn      *operation.Function
	builder *Builder
	debug   bool
}

// Name returns the function name.
func (f *Function) Name() string { return f.fn.Name() }

// Spec returns the underlying compiled function.
func (f *Function) Spec() *operation.Function { return f.fn }

// Call invokes the function with positional arguments and no options.
func (f *Function) Call(ctx context.Context, cb response.Callback, args ...any) {
	f.invoke(ctx, args, nil, nil, cb)
}

// CallWithOptions invokes the function and sends opts in the options header.
func (f *Function) CallWithOptions(ctx context.Context, opts any, cb response.Callback, args ...any) {
	f.invoke(ctx, args, nil, opts, cb)
}

// CallNamed invokes the function with arguments keyed by parameter name.
func (f *Function) CallNamed(ctx context.Context, named map[string]any, opts any, cb response.Callback) {
	f.invoke(ctx, nil, named, opts, cb)
}

// Do invokes the function and waits for the result.
func (f *Function) Do(ctx context.Context, args ...any) (any, *request.Response, error) {
	return f.DoWithOptions(ctx, nil, args...)
}

// DoWithOptions invokes the function with opts and waits for the result.
func (f *Function) DoWithOptions(ctx context.Context, opts any, args ...any) (any, *request.Response, error) {
	return response.Await(ctx, func(cb response.Callback) {
		f.invoke(ctx, args, nil, opts, cb)
	})
}

func (f *Function) invoke(ctx context.Context, args []any, named map[string]any, opts any, cb response.Callback) {
	ctx, call := observability.StartCall(ctx, f.fn.Name(), f.fn.Operation().Name(), f.builder.metrics)

	req, err := f.fn.Bind(args, named, opts)
	if err != nil {
		call.End(ctx, observability.OutcomeBindingError, err)
		if cb != nil {
			cb(err, nil, nil)
		}
		return
	}

	if cb == nil {
		f.builder.dispatch(ctx, req, nil, f.debug)
		call.End(ctx, observability.OutcomeDispatched, nil)
		return
	}
	f.builder.dispatch(ctx, req, func(err error, result any, resp *request.Response) {
		call.End(ctx, outcomeOf(err), err)
		cb(err, result, resp)
	}, f.debug)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeSuccess
	case isStatusError(err):
		return observability.OutcomeHTTPError
	default:
		return observability.OutcomeTransportError
	}
}

func isStatusError(err error) bool {
	_, ok := response.AsStatusError(err)
	return ok
}

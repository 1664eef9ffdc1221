// Package builder turns operation-spec documents into invocable functions
// bound to an explicit transport.
//
//	b, err := builder.New(transport)
//	reg, err := b.Compile(doc)
//	reg.MustFunction("findById").Call(ctx, func(err error, result any, resp *request.Response) {
//	    ...
//	}, "42")
//
// Every invocation binds a fresh request descriptor, dispatches it through
// the transport and delivers one (error, result, response) envelope.
// Binding errors are delivered through the same callback.
package builder

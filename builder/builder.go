package builder

import (
	"context"

	"github.com/kbukum/restspec/logger"
	"github.com/kbukum/restspec/observability"
	"github.com/kbukum/restspec/operation"
	"github.com/kbukum/restspec/request"
	"github.com/kbukum/restspec/response"
)

// Builder owns the transport handle that compiled functions dispatch
// through. A Builder is immutable after New and safe for concurrent use.
type Builder struct {
	transport request.Transport
	debug     bool
	log       *logger.Logger
	metrics   *observability.Metrics
}

// Option configures a Builder.
type Option func(*Builder)

// WithDebug logs every descriptor before it is dispatched.
func WithDebug(debug bool) Option {
	return func(b *Builder) { b.debug = debug }
}

// WithLogger sets the builder logger.
func WithLogger(l *logger.Logger) Option {
	return func(b *Builder) { b.log = l }
}

// WithMetrics records call metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(b *Builder) { b.metrics = m }
}

// New creates a Builder bound to t. Every call returns a fresh Builder;
// there is no package-level default transport.
func New(t request.Transport, opts ...Option) (*Builder, error) {
	if t == nil {
		return nil, operation.NewConfigurationError("builder", "transport is required", nil)
	}
	b := &Builder{transport: t}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = logger.Get("builder")
	}
	return b, nil
}

// Transport returns the transport handle.
func (b *Builder) Transport() request.Transport {
	return b.transport
}

// Debug reports whether descriptors are logged before dispatch.
func (b *Builder) Debug() bool {
	return b.debug
}

// Dispatch sends req through the transport with cb wrapped by the response
// normalizer. A nil cb makes the call fire-and-forget.
func (b *Builder) Dispatch(ctx context.Context, req *request.Descriptor, cb response.Callback) {
	b.dispatch(ctx, req, cb, b.debug)
}

func (b *Builder) dispatch(ctx context.Context, req *request.Descriptor, cb response.Callback, debug bool) {
	if debug {
		b.log.WithContext(ctx).WithLevel("debug").Debug("dispatch", req.Fields())
	}
	b.transport.Send(ctx, req, response.Wrap(cb))
}

// Compile builds the registration table for doc. It fails on the first
// configuration error and on function names declared by more than one
// operation.
func (b *Builder) Compile(doc *operation.Document) (*Registry, error) {
	if doc == nil {
		return nil, operation.NewConfigurationError("document", "document is required", nil)
	}
	reg := &Registry{
		functions: make(map[string]*Function),
	}
	debug := b.debug || doc.Debug
	for i, spec := range doc.Operations {
		c, err := operation.Compile(i, spec)
		if err != nil {
			return nil, err
		}
		for _, name := range c.Names() {
			if _, dup := reg.functions[name]; dup {
				return nil, operation.NewConfigurationError(c.Name(), "duplicate function name "+name, nil)
			}
			fn, _ := c.Operation(name)
			reg.functions[name] = &Function{fn: fn, builder: b, debug: debug}
		}
		reg.operations = append(reg.operations, c)
	}
	b.log.Debug("registry compiled", logger.Fields(
		"operations", len(reg.operations),
		"functions", len(reg.functions),
	))
	return reg, nil
}

// MustCompile is like Compile but panics on error.
func (b *Builder) MustCompile(doc *operation.Document) *Registry {
	reg, err := b.Compile(doc)
	if err != nil {
		panic(err)
	}
	return reg
}

package httpclient

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/http2"

	"github.com/kbukum/restspec/logger"
	"github.com/kbukum/restspec/observability"
	"github.com/kbukum/restspec/request"
)

// Transport sends request descriptors over net/http. It implements
// request.Transport; status codes are reported, never turned into errors.
type Transport struct {
	client  *http.Client
	config  Config
	log     *logger.Logger
	metrics *observability.Metrics

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

var _ request.Transport = (*Transport)(nil)

// Option configures a Transport.
type Option func(*Transport)

// WithLogger sets the transport logger.
func WithLogger(l *logger.Logger) Option {
	return func(t *Transport) { t.log = l }
}

// WithMetrics records request metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(t *Transport) { t.metrics = m }
}

// WithHTTPClient replaces the underlying client. Timeout and HTTP2 settings
// are left to the caller.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Transport) { t.client = c }
}

// New creates a transport with the given configuration.
func New(cfg Config, opts ...Option) (*Transport, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &Transport{config: cfg}
	for _, opt := range opts {
		opt(t)
	}
	if t.log == nil {
		t.log = logger.Get("httpclient").WithFields(logger.Fields("transport", cfg.Name))
	}
	if t.client == nil {
		base := http.DefaultTransport.(*http.Transport).Clone()
		if cfg.HTTP2 {
			if err := http2.ConfigureTransport(base); err != nil {
				return nil, err
			}
		}
		t.client = &http.Client{Transport: base, Timeout: cfg.Timeout}
	}
	return t, nil
}

// Name returns the configured transport name.
func (t *Transport) Name() string {
	return t.config.Name
}

// Send performs the request in its own goroutine and reports the outcome
// through cb. A nil cb discards the outcome. After Close, Send reports a
// connection error wrapping ErrClosed and sends nothing.
func (t *Transport) Send(ctx context.Context, req *request.Descriptor, cb request.Callback) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		if cb != nil {
			err := NewConnectionError(ErrClosed)
			if req != nil {
				err.Method, err.URI = req.Method, req.URI
			}
			cb(err, nil, nil)
		}
		return
	}
	t.wg.Add(1)
	t.mu.Unlock()

	go func() {
		defer t.wg.Done()
		resp, body, err := t.Do(ctx, req)
		if cb == nil {
			return
		}
		if err != nil {
			cb(err, nil, nil)
			return
		}
		cb(nil, resp, body)
	}()
}

// Do performs the request synchronously. Any received response is returned
// without error regardless of its status code.
func (t *Transport) Do(ctx context.Context, req *request.Descriptor) (*request.Response, any, error) {
	if req == nil {
		return nil, nil, NewInvalidRequestError("descriptor is nil")
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanHTTPRequest,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String(observability.AttrHTTPMethod, req.Method)),
	)
	defer span.End()

	httpReq, err := t.buildRequest(ctx, req)
	if err != nil {
		observability.SetSpanError(span, err)
		return nil, nil, err
	}
	span.SetAttributes(
		attribute.String(observability.AttrHTTPURL, httpReq.URL.String()),
		attribute.String(observability.AttrRequestID, httpReq.Header.Get(RequestIDHeader)),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	start := time.Now()
	if t.metrics != nil {
		t.metrics.RecordRequestStart(ctx)
	}

	resp, status, err := t.roundTrip(ctx, httpReq)
	elapsed := time.Since(start)

	if t.metrics != nil {
		t.metrics.RecordRequestEnd(ctx, httpReq.Method, httpReq.URL.Host, status, elapsed)
	}

	log := t.log.WithContext(ctx)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Method, e.URI = req.Method, req.URI
		}
		observability.SetSpanError(span, err)
		if t.metrics != nil {
			t.metrics.RecordError(ctx, "transport", "httpclient")
		}
		log.Warn("request failed", logger.Fields(
			logger.FieldMethod, req.Method,
			logger.FieldURI, httpReq.URL.String(),
			logger.FieldError, err.Error(),
			logger.FieldDuration, elapsed.Milliseconds(),
		))
		return nil, nil, err
	}

	span.SetAttributes(attribute.Int(observability.AttrHTTPStatusCode, status))
	log.Debug("request completed", logger.Fields(
		logger.FieldMethod, req.Method,
		logger.FieldURI, httpReq.URL.String(),
		logger.FieldStatus, status,
		logger.FieldDuration, elapsed.Milliseconds(),
	))

	return resp, parseBody(resp.Body, resp.Headers["Content-Type"], req.JSON), nil
}

func (t *Transport) roundTrip(ctx context.Context, httpReq *http.Request) (*request.Response, int, error) {
	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, 0, classify(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := readBody(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, classify(ctx, err)
	}
	return &request.Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       data,
	}, resp.StatusCode, nil
}

// classify maps a net/http failure onto a transport error code.
func classify(ctx context.Context, err error) *Error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return NewTimeoutError(err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return NewTimeoutError(err)
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return NewCanceledError(err)
	}
	return NewConnectionError(err)
}

// Close stops accepting Send calls, waits for in-flight ones, then releases
// idle connections. It returns ctx.Err() if ctx ends first. Calling Close
// again waits for the same requests.
func (t *Transport) Close(ctx context.Context) error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	t.client.CloseIdleConnections()
	return nil
}

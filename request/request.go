package request

import (
	"context"
	"encoding/json"
)

// OptionsHeader carries the caller's opaque options context as a JSON string.
const OptionsHeader = "options"

// EncodeOptions serializes an options context for the options header.
func EncodeOptions(opts any) (string, error) {
	data, err := json.Marshal(opts)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Descriptor describes one outbound request. A fresh Descriptor is built for
// every invocation and is never shared between calls.
type Descriptor struct {
	// Method is the HTTP verb.
	Method string
	// URI is the absolute or base-relative request URI.
	URI string
	// JSON asks the transport to JSON-encode Body and parse the response body.
	JSON bool
	// Query holds query parameters. Nested maps and slices are allowed.
	Query map[string]any
	// Body is the request payload, serialized by the transport.
	Body any
	// Headers are request headers.
	Headers map[string]string
}

// Fields returns the descriptor as structured log fields.
func (d *Descriptor) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"method": d.Method,
		"uri":    d.URI,
		"json":   d.JSON,
	}
	if len(d.Query) > 0 {
		fields["qs"] = d.Query
	}
	if d.Body != nil {
		fields["body"] = d.Body
	}
	if len(d.Headers) > 0 {
		fields["headers"] = d.Headers
	}
	return fields
}

// Response is the raw response reported by a transport.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers, one value per key.
	Headers map[string]string
	// Body is the unparsed response body.
	Body []byte
}

// Callback receives the outcome of a transport call. Transports invoke it
// exactly once per Send.
type Callback func(err error, resp *Response, body any)

// Transport sends request descriptors. Send must not wait for network I/O;
// the outcome is delivered through cb. A nil cb means the caller does not
// want the outcome.
type Transport interface {
	Send(ctx context.Context, req *Descriptor, cb Callback)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *Descriptor, cb Callback)

// Send calls f.
func (f TransportFunc) Send(ctx context.Context, req *Descriptor, cb Callback) {
	f(ctx, req, cb)
}

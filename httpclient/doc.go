// Package httpclient is the net/http transport for request descriptors.
//
// A Transport resolves descriptor URIs against a base URL, encodes query
// parameters in bracket notation, JSON-encodes bodies, applies default
// headers and authentication (bearer, basic, API key, signed JWT or a
// custom function), and reports every received response through the
// callback. Status codes are never errors here; failures are limited to
// timeouts, cancellation, connection problems and encoding.
//
// # Basic Usage
//
//	t, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.example.com",
//	    Timeout: 10 * time.Second,
//	    Auth:    httpclient.BearerAuth("my-token"),
//	})
//
//	t.Send(ctx, &request.Descriptor{Method: "GET", URI: "/widgets/1", JSON: true},
//	    func(err error, resp *request.Response, body any) { ... })
//
// Requests carry an X-Request-Id header and the active trace context. Call
// Close on shutdown to wait for in-flight requests.
package httpclient

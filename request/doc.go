// Package request defines the transport boundary: the per-call request
// Descriptor, the raw Response, and the Transport contract that sends a
// descriptor and reports the outcome through a single callback.
//
// Any HTTP client can act as a transport:
//
//	t := request.TransportFunc(func(ctx context.Context, req *request.Descriptor, cb request.Callback) {
//	    go func() {
//	        resp, body, err := send(ctx, req)
//	        if cb != nil {
//	            cb(err, resp, body)
//	        }
//	    }()
//	})
//
// The httpclient package provides a net/http implementation.
package request

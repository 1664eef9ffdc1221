package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/restspec/logger"
	"github.com/kbukum/restspec/request"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-Id"

// buildRequest constructs an *http.Request from the transport config and a
// descriptor.
func (t *Transport) buildRequest(ctx context.Context, req *request.Descriptor) (*http.Request, error) {
	if req.Method == "" {
		return nil, NewInvalidRequestError("method is required")
	}
	target, err := t.resolve(req.URI)
	if err != nil {
		return nil, err
	}

	if len(req.Query) > 0 {
		q := target.Query()
		for k, vs := range request.Flatten(req.Query) {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		target.RawQuery = q.Encode()
	}

	body, contentType, err := encodeBody(req.Body, req.JSON)
	if err != nil {
		return nil, &Error{Code: ErrCodeEncoding, Method: req.Method, URI: req.URI, Message: "encode body: " + err.Error(), Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, &Error{Code: ErrCodeInvalidRequest, Method: req.Method, URI: req.URI, Message: err.Error(), Err: err}
	}

	for k, v := range t.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if body != nil && contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.JSON && httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}
	if httpReq.Header.Get(RequestIDHeader) == "" {
		id := logger.RequestIDFromContext(ctx)
		if id == "" {
			id = uuid.NewString()
		}
		httpReq.Header.Set(RequestIDHeader, id)
	}

	if err := t.config.Auth.apply(httpReq); err != nil {
		return nil, &Error{Code: ErrCodeEncoding, Method: req.Method, URI: req.URI, Message: "auth: " + err.Error(), Err: err}
	}
	return httpReq, nil
}

// resolve turns a descriptor URI into an absolute URL. Relative URIs are
// joined onto BaseURL.
func (t *Transport) resolve(uri string) (*url.URL, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, &Error{Code: ErrCodeInvalidRequest, URI: uri, Message: err.Error(), Err: err}
	}
	if u.IsAbs() {
		return u, nil
	}
	if t.config.BaseURL == "" {
		return nil, &Error{Code: ErrCodeInvalidRequest, URI: uri, Message: "relative uri without base_url"}
	}
	joined := strings.TrimRight(t.config.BaseURL, "/") + "/" + strings.TrimLeft(uri, "/")
	u, err = url.Parse(joined)
	if err != nil {
		return nil, &Error{Code: ErrCodeInvalidRequest, URI: uri, Message: err.Error(), Err: err}
	}
	return u, nil
}

// encodeBody converts a body value into an io.Reader and content type.
// Readers, byte slices and strings are sent as-is; anything else is
// JSON-encoded.
func encodeBody(body any, jsonMode bool) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		if jsonMode {
			data, err := json.Marshal(v)
			if err != nil {
				return nil, "", err
			}
			return bytes.NewReader(data), "application/json", nil
		}
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// parseBody decodes a response body. JSON is decoded when the descriptor
// asked for it or the server declared it; anything that fails to decode is
// returned as a string. An empty body yields nil.
func parseBody(data []byte, contentType string, jsonMode bool) any {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if jsonMode || isJSONContentType(contentType) {
		var v any
		if err := json.Unmarshal(data, &v); err == nil {
			return v
		}
	}
	return string(data)
}

func isJSONContentType(ct string) bool {
	if ct == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}

func readBody(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return data, nil
}

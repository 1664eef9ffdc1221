package resource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/kbukum/restspec/builder"
	"github.com/kbukum/restspec/operation"
	"github.com/kbukum/restspec/request"
	"github.com/kbukum/restspec/response"
)

// Resource exposes CRUD-shaped calls against one REST collection URL.
type Resource struct {
	builder *builder.Builder
	url     string
}

// New creates a Resource for collectionURL. A trailing slash is trimmed.
func New(b *builder.Builder, collectionURL string) *Resource {
	return &Resource{builder: b, url: strings.TrimRight(collectionURL, "/")}
}

// URL returns the collection URL.
func (r *Resource) URL() string { return r.url }

// Create POSTs body to the collection.
func (r *Resource) Create(ctx context.Context, body, opts any, cb response.Callback) {
	r.send(ctx, "create", http.MethodPost, r.url, nil, body, opts, cb)
}

// Update PUTs body to the member identified by id. A nil or empty id is a
// binding error and nothing is sent.
func (r *Resource) Update(ctx context.Context, id, body, opts any, cb response.Callback) {
	uri, ok := r.requireMember("update", id, cb)
	if !ok {
		return
	}
	r.send(ctx, "update", http.MethodPut, uri, nil, body, opts, cb)
}

// Delete removes the member identified by id. A nil or empty id is a binding
// error and nothing is sent; use DeleteAll to clear the collection.
func (r *Resource) Delete(ctx context.Context, id, opts any, cb response.Callback) {
	uri, ok := r.requireMember("delete", id, cb)
	if !ok {
		return
	}
	r.send(ctx, "delete", http.MethodDelete, uri, nil, nil, opts, cb)
}

// DeleteAll removes the whole collection.
func (r *Resource) DeleteAll(ctx context.Context, opts any, cb response.Callback) {
	r.send(ctx, "deleteAll", http.MethodDelete, r.url, nil, nil, opts, cb)
}

// Find GETs the member identified by id, or the collection when id is nil
// or empty. Zero values other than "" are real ids: Find(ctx, 0, ...) GETs
// {collection}/0. A non-nil filter is sent as the filter query parameter
// either way.
func (r *Resource) Find(ctx context.Context, id, filter, opts any, cb response.Callback) {
	var query map[string]any
	if filter != nil {
		query = map[string]any{"filter": filter}
	}
	r.send(ctx, "find", http.MethodGet, r.member(id), query, nil, opts, cb)
}

// QueryWithOptions GETs the collection with q as the filter query parameter.
// A nil q sends an empty filter.
func (r *Resource) QueryWithOptions(ctx context.Context, q, opts any, cb response.Callback) {
	if q == nil {
		q = map[string]any{}
	}
	r.send(ctx, "query", http.MethodGet, r.url, map[string]any{"filter": q}, nil, opts, cb)
}

// Query is QueryWithOptions without options.
func (r *Resource) Query(ctx context.Context, q any, cb response.Callback) {
	r.QueryWithOptions(ctx, q, nil, cb)
}

// All queries the collection with an empty filter.
func (r *Resource) All(ctx context.Context, cb response.Callback) {
	r.Query(ctx, nil, cb)
}

// member returns the URL of the member identified by id, or the collection
// URL when id is absent.
func (r *Resource) member(id any) string {
	s, ok := idString(id)
	if !ok {
		return r.url
	}
	return r.url + "/" + url.PathEscape(s)
}

// requireMember is member for calls that must target one member. An absent id
// is reported to cb as a binding error.
func (r *Resource) requireMember(name string, id any, cb response.Callback) (string, bool) {
	if _, ok := idString(id); !ok {
		if cb != nil {
			cb(operation.NewBindingError(name, "id", "missing required argument", nil), nil, nil)
		}
		return "", false
	}
	return r.member(id), true
}

func idString(id any) (string, bool) {
	if id == nil {
		return "", false
	}
	s := fmt.Sprint(id)
	return s, s != ""
}

func (r *Resource) send(ctx context.Context, name, method, uri string, query map[string]any, body, opts any, cb response.Callback) {
	req := &request.Descriptor{
		Method: method,
		URI:    uri,
		JSON:   true,
		Query:  query,
		Body:   body,
	}
	if opts != nil {
		s, err := request.EncodeOptions(opts)
		if err != nil {
			if cb != nil {
				cb(operation.NewBindingError(name, request.OptionsHeader, "cannot serialize options", err), nil, nil)
			}
			return
		}
		req.Headers = map[string]string{request.OptionsHeader: s}
	}
	r.builder.Dispatch(ctx, req, cb)
}

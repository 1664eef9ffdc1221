package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/restspec/builder"
	"github.com/kbukum/restspec/httpclient"
	"github.com/kbukum/restspec/logger"
	"github.com/kbukum/restspec/operation"
	"github.com/kbukum/restspec/request"
	"github.com/kbukum/restspec/response"
	"github.com/kbukum/restspec/testutil"
)

const collection = "http://api.example.com/widgets"

type recorder struct {
	sent []*request.Descriptor
	resp *request.Response
	body any
}

func (r *recorder) Send(_ context.Context, req *request.Descriptor, cb request.Callback) {
	r.sent = append(r.sent, req)
	if cb != nil {
		cb(nil, r.resp, r.body)
	}
}

func (r *recorder) last(t *testing.T) *request.Descriptor {
	t.Helper()
	require.NotEmpty(t, r.sent)
	return r.sent[len(r.sent)-1]
}

type envelope struct {
	calls  int
	err    error
	result any
	resp   *request.Response
}

func (e *envelope) cb() response.Callback {
	return func(err error, result any, resp *request.Response) {
		e.calls++
		e.err, e.result, e.resp = err, result, resp
	}
}

func newResource(t *testing.T, tr request.Transport, url string) *Resource {
	t.Helper()
	b, err := builder.New(tr, builder.WithLogger(logger.NewNop()))
	require.NoError(t, err)
	return New(b, url)
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	r := newResource(t, &recorder{}, collection+"/")
	assert.Equal(t, collection, r.URL())
}

func TestCreate(t *testing.T) {
	tr := &recorder{resp: &request.Response{StatusCode: 201}}
	r := newResource(t, tr, collection)

	body := map[string]any{"name": "bolt"}
	r.Create(context.Background(), body, map[string]any{"user": "ada"}, func(error, any, *request.Response) {})

	req := tr.last(t)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, collection, req.URI)
	assert.True(t, req.JSON)
	assert.Equal(t, body, req.Body)
	assert.Equal(t, `{"user":"ada"}`, req.Headers[request.OptionsHeader])
}

func TestUpdate(t *testing.T) {
	tr := &recorder{resp: &request.Response{StatusCode: 200}}
	r := newResource(t, tr, collection)

	body := map[string]any{"name": "nut"}
	r.Update(context.Background(), 42, body, nil, nil)

	req := tr.last(t)
	assert.Equal(t, "PUT", req.Method)
	assert.Equal(t, collection+"/42", req.URI)
	assert.Equal(t, body, req.Body)
	assert.Nil(t, req.Headers)
}

func TestDelete(t *testing.T) {
	tr := &recorder{resp: &request.Response{StatusCode: 204}}
	r := newResource(t, tr, collection)

	r.Delete(context.Background(), "a/b", nil, nil)
	req := tr.last(t)
	assert.Equal(t, "DELETE", req.Method)
	assert.Equal(t, collection+"/a%2Fb", req.URI)
	assert.Nil(t, req.Body)
}

func TestDeleteAll(t *testing.T) {
	tr := &recorder{resp: &request.Response{StatusCode: 404, Headers: map[string]string{"X-Trace": "1"}}, body: map[string]any{"error": "gone"}}
	r := newResource(t, tr, collection)

	var env envelope
	r.DeleteAll(context.Background(), nil, env.cb())

	req := tr.last(t)
	assert.Equal(t, &request.Descriptor{Method: "DELETE", URI: collection, JSON: true}, req)

	require.Equal(t, 1, env.calls)
	assert.Nil(t, env.result)
	assert.Same(t, tr.resp, env.resp)
	se, ok := response.AsStatusError(env.err)
	require.True(t, ok)
	assert.Equal(t, "HTTP code: 404", se.Message)
	assert.Equal(t, 404, se.StatusCode)
	assert.Equal(t, map[string]any{"error": "gone"}, se.Body)
	assert.Equal(t, map[string]string{"X-Trace": "1"}, se.Headers)
}

func TestFind(t *testing.T) {
	tr := &recorder{resp: &request.Response{StatusCode: 200}}
	r := newResource(t, tr, collection)
	filter := map[string]any{"include": "parts"}

	r.Find(context.Background(), "7", filter, nil, nil)
	req := tr.last(t)
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, collection+"/7", req.URI)
	assert.Equal(t, map[string]any{"filter": filter}, req.Query)

	for _, id := range []any{nil, ""} {
		r.Find(context.Background(), id, filter, nil, nil)
		req = tr.last(t)
		assert.Equal(t, collection, req.URI)
		assert.Equal(t, filter, req.Query["filter"])
	}

	r.Find(context.Background(), "7", nil, nil, nil)
	assert.Nil(t, tr.last(t).Query)

	r.Find(context.Background(), 0, nil, nil, nil)
	assert.Equal(t, collection+"/0", tr.last(t).URI)
}

func TestMemberCallsRequireID(t *testing.T) {
	calls := map[string]func(r *Resource, id any, cb response.Callback){
		"update": func(r *Resource, id any, cb response.Callback) {
			r.Update(context.Background(), id, map[string]any{"name": "bolt"}, nil, cb)
		},
		"delete": func(r *Resource, id any, cb response.Callback) {
			r.Delete(context.Background(), id, nil, cb)
		},
	}
	for name, call := range calls {
		for _, id := range []any{nil, ""} {
			t.Run(name, func(t *testing.T) {
				tr := &recorder{resp: &request.Response{StatusCode: 204}}
				r := newResource(t, tr, collection)

				var env envelope
				call(r, id, env.cb())
				assert.Empty(t, tr.sent)
				require.Equal(t, 1, env.calls)
				assert.True(t, operation.IsBinding(env.err))
				var opErr *operation.Error
				require.ErrorAs(t, env.err, &opErr)
				assert.Equal(t, "id", opErr.Param)
				assert.Nil(t, env.result)
				assert.Nil(t, env.resp)

				call(r, id, nil)
				assert.Empty(t, tr.sent)
			})
		}
	}
}

func TestQueryOverloads(t *testing.T) {
	tr := &recorder{resp: &request.Response{StatusCode: 200}, body: []any{}}
	r := newResource(t, tr, collection)
	q := map[string]any{"name": "x"}

	var a, b envelope
	r.Query(context.Background(), q, a.cb())
	short := tr.last(t)
	r.QueryWithOptions(context.Background(), q, nil, b.cb())
	long := tr.last(t)

	assert.Equal(t, long, short)
	assert.Equal(t, map[string]any{"filter": q}, short.Query)
	assert.Equal(t, a, b)

	r.All(context.Background(), nil)
	assert.Equal(t, map[string]any{"filter": map[string]any{}}, tr.last(t).Query)
	assert.Equal(t, "GET", tr.last(t).Method)
}

func TestUnserializableOptions(t *testing.T) {
	tr := &recorder{}
	r := newResource(t, tr, collection)

	var env envelope
	r.Create(context.Background(), map[string]any{}, func() {}, env.cb())
	assert.Equal(t, 1, env.calls)
	assert.True(t, operation.IsBinding(env.err))
	assert.Empty(t, tr.sent)
}

func TestResource_AgainstWidgetServer(t *testing.T) {
	api := testutil.NewWidgetServer()
	testutil.T(t).Setup(api)

	tr, err := httpclient.New(httpclient.Config{Timeout: 5 * time.Second}, httpclient.WithLogger(logger.NewNop()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Close(context.Background()) })
	widgets := newResource(t, tr, api.CollectionURL())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	await := func(start func(cb response.Callback)) (any, error) {
		result, _, err := response.Await(ctx, start)
		return result, err
	}

	created, err := await(func(cb response.Callback) {
		widgets.Create(ctx, map[string]any{"name": "bolt"}, map[string]any{"user": "ada"}, cb)
	})
	require.NoError(t, err)
	id := created.(map[string]any)["id"]
	assert.Equal(t, "1", id)
	last, _ := api.LastRequest()
	assert.Equal(t, `{"user":"ada"}`, last.Options)

	_, err = await(func(cb response.Callback) {
		widgets.Update(ctx, id, map[string]any{"name": "nut"}, nil, cb)
	})
	require.NoError(t, err)

	found, err := await(func(cb response.Callback) { widgets.Find(ctx, id, nil, nil, cb) })
	require.NoError(t, err)
	assert.Equal(t, "nut", found.(map[string]any)["name"])

	api.Seed(testutil.Widget{"name": "bolt"})
	list, err := await(func(cb response.Callback) {
		widgets.Query(ctx, map[string]any{"where": map[string]any{"name": "bolt"}}, cb)
	})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	all, err := await(func(cb response.Callback) { widgets.All(ctx, cb) })
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = await(func(cb response.Callback) { widgets.Delete(ctx, "99", nil, cb) })
	assert.True(t, response.IsStatus(err, 404))
	se, _ := response.AsStatusError(err)
	assert.Equal(t, "HTTP code: 404", se.Message)
	assert.Equal(t, "widget not found", se.Body.(map[string]any)["error"])

	deleted, err := await(func(cb response.Callback) { widgets.DeleteAll(ctx, nil, cb) })
	require.NoError(t, err)
	assert.Nil(t, deleted)
	assert.Empty(t, api.Widgets())
}

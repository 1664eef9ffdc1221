package response

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/restspec/request"
)

type call struct {
	err    error
	result any
	resp   *request.Response
	count  int
}

func (c *call) callback() Callback {
	return func(err error, result any, resp *request.Response) {
		c.err, c.result, c.resp = err, result, resp
		c.count++
	}
}

func TestWrap_SuccessPassesBodyThrough(t *testing.T) {
	for _, code := range []int{200, 201, 204, 301, 399} {
		t.Run(fmt.Sprint(code), func(t *testing.T) {
			var c call
			resp := &request.Response{StatusCode: code}
			body := map[string]any{"id": "1"}

			Wrap(c.callback())(nil, resp, body)

			assert.Equal(t, 1, c.count)
			assert.NoError(t, c.err)
			assert.Equal(t, body, c.result)
			assert.Same(t, resp, c.resp)
		})
	}
}

func TestWrap_StatusAtOrAbove400(t *testing.T) {
	for _, code := range []int{400, 401, 404, 409, 500, 503} {
		t.Run(fmt.Sprint(code), func(t *testing.T) {
			var c call
			headers := map[string]string{"Content-Type": "application/json"}
			resp := &request.Response{StatusCode: code, Headers: headers}
			body := map[string]any{"error": "nope"}

			Wrap(c.callback())(nil, resp, body)

			require.Equal(t, 1, c.count)
			assert.Nil(t, c.result)
			assert.Same(t, resp, c.resp)

			se, ok := AsStatusError(c.err)
			require.True(t, ok, "expected *StatusError, got %T", c.err)
			assert.Equal(t, code, se.StatusCode)
			assert.Equal(t, fmt.Sprintf("HTTP code: %d", code), se.Message)
			assert.Equal(t, se.Message, se.Error())
			assert.Equal(t, body, se.Body)
			assert.Equal(t, headers, se.Headers)
		})
	}
}

func TestWrap_StatusErrorOmitsAbsentBodyAndHeaders(t *testing.T) {
	var c call
	Wrap(c.callback())(nil, &request.Response{StatusCode: 404}, nil)

	se, ok := AsStatusError(c.err)
	require.True(t, ok)
	assert.Nil(t, se.Body)
	assert.Nil(t, se.Headers)
	assert.True(t, IsStatus(c.err, 404))
	assert.False(t, IsStatus(c.err, 500))
}

func TestWrap_TransportErrorPassesThroughUnchanged(t *testing.T) {
	transportErr := errors.New("connection refused")
	for _, resp := range []*request.Response{nil, {StatusCode: 200}, {StatusCode: 502}} {
		var c call
		Wrap(c.callback())(transportErr, resp, map[string]any{"ignored": true})

		assert.Equal(t, 1, c.count)
		assert.Same(t, transportErr, c.err)
		assert.Nil(t, c.result)
		assert.Equal(t, resp, c.resp)
	}
}

func TestWrap_NoResponse(t *testing.T) {
	var c call
	Wrap(c.callback())(nil, nil, nil)
	assert.NoError(t, c.err)
	assert.Nil(t, c.result)
	assert.Nil(t, c.resp)
}

func TestWrap_NilCallback(t *testing.T) {
	assert.Nil(t, Wrap(nil))
}

func TestFuture_KeepsFirstEnvelope(t *testing.T) {
	f := NewFuture()
	cb := f.Callback()
	cb(nil, "first", nil)
	cb(errors.New("second"), nil, nil)

	env, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", env.Result)
	assert.NoError(t, env.Err)
}

func TestFuture_WaitHonorsContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := NewFuture().Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAwait(t *testing.T) {
	resp := &request.Response{StatusCode: 200}
	result, raw, err := Await(context.Background(), func(cb Callback) {
		go cb(nil, "done", resp)
	})
	require.NoError(t, err)
	assert.Equal(t, "done", result)
	assert.Same(t, resp, raw)
}

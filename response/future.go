package response

import (
	"context"
	"sync"

	"github.com/kbukum/restspec/request"
)

// Envelope is the (error, result, raw response) triple delivered to a caller.
type Envelope struct {
	Err      error
	Result   any
	Response *request.Response
}

// Future collects the single envelope produced by one invocation.
type Future struct {
	ch   chan Envelope
	once sync.Once
}

// NewFuture creates an empty Future.
func NewFuture() *Future {
	return &Future{ch: make(chan Envelope, 1)}
}

// Callback returns the continuation that completes the future. Only the
// first delivery is kept.
func (f *Future) Callback() Callback {
	return func(err error, result any, resp *request.Response) {
		f.once.Do(func() {
			f.ch <- Envelope{Err: err, Result: result, Response: resp}
		})
	}
}

// Wait blocks until the envelope arrives or ctx is done.
func (f *Future) Wait(ctx context.Context) (Envelope, error) {
	select {
	case env := <-f.ch:
		return env, nil
	case <-ctx.Done():
		return Envelope{}, ctx.Err()
	}
}

// Await starts an asynchronous call with a Future's continuation and waits
// for its outcome.
func Await(ctx context.Context, start func(cb Callback)) (any, *request.Response, error) {
	f := NewFuture()
	start(f.Callback())
	env, err := f.Wait(ctx)
	if err != nil {
		return nil, nil, err
	}
	return env.Result, env.Response, env.Err
}

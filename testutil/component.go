package testutil

import "context"

// TestComponent is a test fixture with a start/stop lifecycle plus the
// ability to reset, snapshot and restore its state between test cases.
type TestComponent interface {
	// Name identifies the component in failure messages.
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error

	// Reset restores the component to its initial state.
	Reset(ctx context.Context) error

	// Snapshot captures the current state. The returned value can be passed
	// to Restore.
	Snapshot(ctx context.Context) (interface{}, error)

	// Restore returns the component to a previously captured state.
	Restore(ctx context.Context, snapshot interface{}) error
}

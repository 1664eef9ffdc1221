// Package testutil provides test fixtures for restspec packages.
//
// WidgetServer is a gin-backed in-memory REST collection used to exercise
// compiled functions and resource facades end to end:
//
//	func TestWidgets(t *testing.T) {
//	    api := testutil.NewWidgetServer()
//	    testutil.T(t).Setup(api)
//	    id := api.Seed(testutil.Widget{"name": "bolt"})
//	    ...
//	}
//
// Fixtures implement TestComponent, so state can be reset, snapshotted and
// restored between cases.
package testutil

// Package resource is a CRUD facade over a single REST collection.
//
//	widgets := resource.New(b, "http://api.example.com/widgets")
//	widgets.Update(ctx, "42", map[string]any{"name": "bolt"}, nil, cb)
//	widgets.Query(ctx, map[string]any{"where": map[string]any{"name": "bolt"}}, cb)
//
// Each method builds one request descriptor and dispatches it through the
// builder, so HTTP status errors are normalized the same way as for
// compiled functions.
package resource

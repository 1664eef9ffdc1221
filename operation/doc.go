// Package operation compiles declarative HTTP operation templates into
// reusable functions and binds call-time arguments into request descriptors.
//
// A template declares a method, a URL pattern and optional header, query and
// body shapes. Any string may reference arguments with placeholders:
//
//	{name}            optional (required in the URL)
//	{^name}           required
//	{name=default}    default when absent
//	{name:type}       coerce to string, number, integer or boolean
//
// A string made of a single placeholder keeps the argument's type, so a
// body of "{body}" passes an object through unchanged. Absent optional
// arguments drop the enclosing header, query entry or body field.
//
//	c, err := operation.Compile(0, operation.Spec{
//	    Template: &operation.Template{
//	        Method: "GET",
//	        URL:    "http://api.example.com/widgets/{id}",
//	        Query:  map[string]any{"filter": "{filter}"},
//	    },
//	    Functions: map[string][]string{"findById": {"id", "filter"}},
//	})
//	fn, _ := c.Operation("findById")
//	req, err := fn.Bind([]any{"42"}, nil, nil)
//
// Compile failures are configuration errors; Bind failures are binding
// errors. Both are *Error values.
package operation

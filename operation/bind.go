package operation

import (
	"encoding/json"

	"github.com/kbukum/restspec/request"
)

// Function is a named function of a compiled operation. It maps positional
// arguments onto the operation's parameters by name.
type Function struct {
	name      string
	args      []string
	operation *Compiled
}

// Binding ties a parameter to its argument source. Index is the positional
// argument index, or -1 when the parameter can only be supplied by name.
type Binding struct {
	Param Param
	Index int
}

// Name returns the function name.
func (f *Function) Name() string { return f.name }

// Args returns the positional argument names.
func (f *Function) Args() []string { return append([]string(nil), f.args...) }

// Operation returns the compiled operation the function belongs to.
func (f *Function) Operation() *Compiled { return f.operation }

// Bindings returns every template parameter with its argument source.
func (f *Function) Bindings() []Binding {
	out := make([]Binding, 0, len(f.operation.params))
	for _, p := range f.operation.params {
		b := Binding{Param: p, Index: -1}
		for i, a := range f.args {
			if a == p.Name {
				b.Index = i
				break
			}
		}
		out = append(out, b)
	}
	return out
}

// Bind builds a fresh request descriptor from call-time arguments. Positional
// args are matched to the function's argument names, named args override
// them, and nil values count as absent. A non-nil opts is serialized into the
// options header.
func (f *Function) Bind(args []any, named map[string]any, opts any) (*request.Descriptor, error) {
	values := make(map[string]any, len(f.args)+len(named))
	for i, name := range f.args {
		if i < len(args) && args[i] != nil {
			values[name] = args[i]
		}
	}
	for k, v := range named {
		if v != nil {
			values[k] = v
		}
	}
	b := &binding{function: f.name, values: values}
	c := f.operation

	uri, ok, err := c.url.render(b)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewBindingError(f.name, "", "unresolved url placeholder", nil)
	}

	req := &request.Descriptor{
		Method: c.method,
		URI:    uri.(string),
		JSON:   true,
	}

	for k, n := range c.headers {
		v, ok, err := n.render(b)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		s, err := headerValue(v)
		if err != nil {
			return nil, NewBindingError(f.name, k, "cannot serialize header", err)
		}
		if req.Headers == nil {
			req.Headers = make(map[string]string)
		}
		req.Headers[k] = s
	}

	if opts != nil {
		s, err := request.EncodeOptions(opts)
		if err != nil {
			return nil, NewBindingError(f.name, request.OptionsHeader, "cannot serialize options", err)
		}
		if req.Headers == nil {
			req.Headers = make(map[string]string)
		}
		req.Headers[request.OptionsHeader] = s
	}

	if c.query != nil {
		v, _, err := c.query.render(b)
		if err != nil {
			return nil, err
		}
		if q, _ := v.(map[string]any); len(q) > 0 {
			req.Query = q
		}
	}

	if c.body != nil {
		v, ok, err := c.body.render(b)
		if err != nil {
			return nil, err
		}
		if ok {
			req.Body = v
		}
	}

	return req, nil
}

// headerValue keeps strings as-is and JSON-serializes everything else.
func headerValue(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

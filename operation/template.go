package operation

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/kbukum/restspec/validation"
)

// Location is where a parameter lands in the request.
type Location string

const (
	LocationPath   Location = "path"
	LocationQuery  Location = "query"
	LocationHeader Location = "header"
	LocationBody   Location = "body"
)

// Template declares one HTTP operation. Strings anywhere in URL, Headers,
// Query and Body may contain {name} placeholders.
type Template struct {
	Method  string            `json:"method" yaml:"method" validate:"required,oneof=GET HEAD POST PUT PATCH DELETE OPTIONS"`
	URL     string            `json:"url" yaml:"url" validate:"required"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Query   map[string]any    `json:"query,omitempty" yaml:"query,omitempty"`
	Body    any               `json:"body,omitempty" yaml:"body,omitempty"`
}

// Spec is one entry of an operation-spec document: a template plus the named
// functions built from it. Each function lists its argument names in
// positional order.
type Spec struct {
	Template  *Template           `json:"template" yaml:"template" validate:"required"`
	Functions map[string][]string `json:"functions" yaml:"functions" validate:"min=1"`
}

// Param is a placeholder parameter discovered at compile time.
type Param struct {
	Name     string
	Location Location
	Required bool
	Default  *string
	Type     string
}

// Compiled is an immutable compiled operation.
type Compiled struct {
	name    string
	method  string
	rawURL  string
	path    string
	origin  string
	params  []Param
	url     node
	headers map[string]node
	query   node
	body    node
	funcs   map[string]*Function
}

// Compile parses one operation entry. index identifies the entry in error
// messages. The Spec value is not retained, so later changes to it do not affect the
// compiled operation.
func Compile(index int, spec Spec) (*Compiled, error) {
	name := fmt.Sprintf("operations[%d]", index)
	if spec.Template == nil {
		return nil, NewConfigurationError(name, "template is required", nil)
	}

	tpl := *spec.Template
	tpl.Method = strings.ToUpper(strings.TrimSpace(tpl.Method))
	tpl.URL = strings.TrimSpace(tpl.URL)
	normalized := Spec{Template: &tpl, Functions: spec.Functions}
	if err := validation.Validate(normalized); err != nil {
		return nil, NewConfigurationError(name, err.Error(), err)
	}

	c := &Compiled{
		name:    name,
		method:  tpl.Method,
		rawURL:  tpl.URL,
		headers: make(map[string]node, len(tpl.Headers)),
		funcs:   make(map[string]*Function, len(spec.Functions)),
	}

	seen := make(map[string]int)
	visit := func(ph *placeholder, loc Location) {
		key := string(loc) + "/" + ph.name
		if i, ok := seen[key]; ok {
			c.params[i].Required = c.params[i].Required || ph.required
			return
		}
		p := Param{
			Name:     ph.name,
			Location: loc,
			Required: ph.required,
			Type:     ph.typ,
		}
		if ph.def != nil {
			def := *ph.def
			p.Default = &def
		}
		seen[key] = len(c.params)
		c.params = append(c.params, p)
	}

	var err error
	if c.url, c.path, c.origin, err = compileURL(tpl.URL, visit); err != nil {
		return nil, NewConfigurationError(name, "url: "+err.Error(), err)
	}
	for k, v := range tpl.Headers {
		if c.headers[k], err = compileString(v, LocationHeader, visit); err != nil {
			return nil, NewConfigurationError(name, "headers."+k+": "+err.Error(), err)
		}
	}
	if tpl.Query != nil {
		if c.query, err = compileValue(tpl.Query, LocationQuery, visit); err != nil {
			return nil, NewConfigurationError(name, "query: "+err.Error(), err)
		}
	}
	if tpl.Body != nil {
		if c.body, err = compileValue(tpl.Body, LocationBody, visit); err != nil {
			return nil, NewConfigurationError(name, "body: "+err.Error(), err)
		}
	}

	for fname, args := range spec.Functions {
		if strings.TrimSpace(fname) == "" {
			return nil, NewConfigurationError(name, "function name must not be empty", nil)
		}
		for i, arg := range args {
			if strings.TrimSpace(arg) == "" {
				return nil, NewConfigurationError(name, fmt.Sprintf("functions.%s[%d]: argument name must not be empty", fname, i), nil)
			}
		}
		c.funcs[fname] = &Function{
			name:      fname,
			args:      append([]string(nil), args...),
			operation: c,
		}
	}

	return c, nil
}

// compileURL compiles the URL pattern. Every URL placeholder is required
// unless it carries a default. Placeholders in the scheme/host part are
// substituted verbatim, placeholders in the path are path-escaped, and
// placeholders after '?' are query-escaped.
func compileURL(raw string, visit func(*placeholder, Location)) (node, string, string, error) {
	segs, err := parseString(raw)
	if err != nil {
		return nil, "", "", err
	}

	pathEnd := len(raw)
	if q := strings.Index(raw, "?"); q >= 0 {
		pathEnd = q
	}
	// A scheme only counts before the query; "?next=http://..." is a value.
	head := raw[:pathEnd]
	pathStart := 0
	if i := strings.Index(head, "://"); i >= 0 {
		if j := strings.Index(head[i+3:], "/"); j >= 0 {
			pathStart = i + 3 + j
		} else {
			pathStart = pathEnd
		}
	} else if len(segs) > 0 && segs[0].ph != nil {
		// "{base}/widgets": the leading placeholder supplies the origin.
		pathStart = strings.Index(raw, "}") + 1
	}

	escape := make([]func(string) string, len(segs))
	var path strings.Builder
	pos := 0
	for i, seg := range segs {
		start := pos
		if seg.ph == nil {
			pos += len(seg.literal)
			if from, to := max(start, pathStart), min(pos, pathEnd); from < to {
				path.WriteString(raw[from:to])
			}
			continue
		}
		pos += seg.ph.token
		if seg.ph.def == nil {
			seg.ph.required = true
		}
		switch {
		case start < pathStart:
			visit(seg.ph, LocationPath)
		case start >= pathEnd:
			escape[i] = url.QueryEscape
			visit(seg.ph, LocationQuery)
		default:
			escape[i] = url.PathEscape
			visit(seg.ph, LocationPath)
			path.WriteString("{" + seg.ph.name + "}")
		}
	}

	origin := ""
	if pathStart > 0 && !strings.Contains(raw[:pathStart], "{") {
		origin = raw[:pathStart]
	}
	p := path.String()
	if p == "" {
		p = "/"
	}
	return textNode{segs: segs, escape: escape}, p, origin, nil
}

// Name returns the operation's position name, e.g. "operations[0]".
func (c *Compiled) Name() string { return c.name }

// Method returns the upper-case HTTP method.
func (c *Compiled) Method() string { return c.method }

// URL returns the URL pattern as declared.
func (c *Compiled) URL() string { return c.rawURL }

// Path returns the URL path with path placeholders normalized to {name}.
func (c *Compiled) Path() string { return c.path }

// Origin returns the literal scheme and host of the URL, or "" when the URL
// is relative or its host is templated.
func (c *Compiled) Origin() string { return c.origin }

// Params returns the template's parameters in first-seen order.
func (c *Compiled) Params() []Param {
	return append([]Param(nil), c.params...)
}

// HasBody reports whether the template declares a body.
func (c *Compiled) HasBody() bool { return c.body != nil }

// Operation returns the named function built from this template.
func (c *Compiled) Operation(name string) (*Function, bool) {
	f, ok := c.funcs[name]
	return f, ok
}

// Names returns the function names, sorted.
func (c *Compiled) Names() []string {
	names := make([]string, 0, len(c.funcs))
	for n := range c.funcs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

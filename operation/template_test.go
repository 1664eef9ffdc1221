package operation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spec(method, url string, fns map[string][]string) Spec {
	if fns == nil {
		fns = map[string][]string{"call": nil}
	}
	return Spec{
		Template:  &Template{Method: method, URL: url},
		Functions: fns,
	}
}

func TestCompile_MissingTemplate(t *testing.T) {
	_, err := Compile(3, Spec{Functions: map[string][]string{"find": {"id"}}})
	require.Error(t, err)
	assert.True(t, IsConfiguration(err))
	assert.Contains(t, err.Error(), "operations[3]")
	assert.Contains(t, err.Error(), "template is required")
}

func TestCompile_InvalidTemplates(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want string
	}{
		{"missing method", spec("", "http://api.example.com/widgets", nil), "method: is required"},
		{"missing url", spec("GET", "  ", nil), "url: is required"},
		{"unknown method", spec("BREW", "http://api.example.com/coffee", nil), "method: must be one of"},
		{"no functions", Spec{Template: &Template{Method: "GET", URL: "/x"}}, "functions"},
		{"unknown placeholder type", spec("GET", "http://api.example.com/widgets/{id:uuid}", nil), "unknown type"},
		{"empty function name", spec("GET", "/x", map[string][]string{" ": nil}), "function name must not be empty"},
		{"empty argument name", spec("GET", "/x", map[string][]string{"f": {"id", ""}}), "argument name must not be empty"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compile(0, tc.spec)
			require.Error(t, err)
			assert.True(t, IsConfiguration(err), "expected configuration error, got %v", err)
			assert.False(t, IsBinding(err))
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestCompile_NormalizesMethod(t *testing.T) {
	c, err := Compile(0, spec(" put ", "http://api.example.com/widgets", nil))
	require.NoError(t, err)
	assert.Equal(t, "PUT", c.Method())
	assert.Equal(t, "operations[0]", c.Name())
}

func TestCompile_URLParts(t *testing.T) {
	tests := []struct {
		url    string
		path   string
		origin string
	}{
		{"http://api.example.com/widgets/{id:integer}/parts", "/widgets/{id}/parts", "http://api.example.com"},
		{"http://api.example.com", "/", "http://api.example.com"},
		{"/widgets/{^id}?expand={expand=all}", "/widgets/{id}", ""},
		{"{base}/widgets/{id}", "/widgets/{id}", ""},
		{"https://{host}/widgets", "/widgets", ""},
		{"/widgets/{id}?next=http://other.example.com/x", "/widgets/{id}", ""},
		{"http://api.example.com?next=http://other.example.com/x", "/", "http://api.example.com"},
	}
	for _, tc := range tests {
		t.Run(tc.url, func(t *testing.T) {
			c, err := Compile(0, spec("GET", tc.url, nil))
			require.NoError(t, err)
			assert.Equal(t, tc.url, c.URL())
			assert.Equal(t, tc.path, c.Path())
			assert.Equal(t, tc.origin, c.Origin())
		})
	}
}

func TestCompile_QueryURLDoesNotMoveOrigin(t *testing.T) {
	c, err := Compile(0, spec("GET", "/widgets/{id}?next=http://other.example.com/{page}", nil))
	require.NoError(t, err)

	locations := map[string]Location{}
	for _, p := range c.Params() {
		locations[p.Name] = p.Location
	}
	assert.Equal(t, LocationPath, locations["id"])
	assert.Equal(t, LocationQuery, locations["page"])
	assert.Equal(t, "/widgets/{id}", c.Path())
	assert.Empty(t, c.Origin())
}

func TestCompile_Params(t *testing.T) {
	c, err := Compile(0, Spec{
		Template: &Template{
			Method:  "POST",
			URL:     "http://api.example.com/widgets/{id}?dryRun={dry=false:boolean}",
			Headers: map[string]string{"X-Tenant": "{^tenant}"},
			Query:   map[string]any{"filter": "{filter}"},
			Body:    map[string]any{"name": "{name}", "id": "{id:integer}"},
		},
		Functions: map[string][]string{"create": {"id", "name"}},
	})
	require.NoError(t, err)

	byKey := map[string]Param{}
	for _, p := range c.Params() {
		byKey[string(p.Location)+"/"+p.Name] = p
	}
	require.Len(t, byKey, 6)

	assert.True(t, byKey["path/id"].Required)
	assert.False(t, byKey["query/dry"].Required)
	require.NotNil(t, byKey["query/dry"].Default)
	assert.Equal(t, "false", *byKey["query/dry"].Default)
	assert.Equal(t, TypeBoolean, byKey["query/dry"].Type)
	assert.True(t, byKey["header/tenant"].Required)
	assert.False(t, byKey["query/filter"].Required)
	assert.False(t, byKey["body/name"].Required)
	assert.Equal(t, TypeInteger, byKey["body/id"].Type)
	assert.True(t, c.HasBody())

	// first-seen order starts with the URL
	assert.Equal(t, "id", c.Params()[0].Name)
	assert.Equal(t, LocationPath, c.Params()[0].Location)

	fn, ok := c.Operation("create")
	require.True(t, ok)
	for _, b := range fn.Bindings() {
		switch b.Param.Name {
		case "id":
			assert.Equal(t, 0, b.Index)
		case "name":
			assert.Equal(t, 1, b.Index)
		default:
			assert.Equal(t, -1, b.Index, b.Param.Name)
		}
	}

	_, ok = c.Operation("missing")
	assert.False(t, ok)
}

func TestCompile_ParamsAreCopies(t *testing.T) {
	c, err := Compile(0, spec("GET", "/widgets/{id=1}", nil))
	require.NoError(t, err)

	params := c.Params()
	*params[0].Default = "changed"
	params[0].Name = "other"

	again := c.Params()
	assert.Equal(t, "id", again[0].Name)
	assert.Equal(t, "1", *again[0].Default)
}

func TestCompile_DoesNotRetainSpec(t *testing.T) {
	tpl := &Template{Method: "GET", URL: "http://api.example.com/a/{id}"}
	c, err := Compile(0, Spec{Template: tpl, Functions: map[string][]string{"find": {"id"}}})
	require.NoError(t, err)

	tpl.URL = "http://api.example.com/b/{id}"
	tpl.Method = "DELETE"

	fn, _ := c.Operation("find")
	req, err := fn.Bind([]any{"1"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "http://api.example.com/a/1", req.URI)
}

func TestCompiled_Names(t *testing.T) {
	c, err := Compile(0, spec("GET", "/widgets/{id}", map[string][]string{
		"zeta":  {"id"},
		"alpha": {"id"},
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, c.Names())
}

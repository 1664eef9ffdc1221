package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/restspec/testutil"
)

const specTemplate = `
operations:
  - template:
      method: GET
      url: "BASE/widgets/{id}"
      query:
        filter: "{filter}"
    functions:
      findById: [id, filter]
  - template:
      method: POST
      url: "BASE/widgets"
      body: "{^body}"
    functions:
      create: [body]
`

type fixture struct {
	api    *testutil.WidgetServer
	config string
	spec   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	api := testutil.NewWidgetServer()
	testutil.T(t).Setup(api)

	dir := t.TempDir()
	spec := filepath.Join(dir, "widgets.yaml")
	require.NoError(t, os.WriteFile(spec, []byte(strings.ReplaceAll(specTemplate, "BASE", api.URL())), 0o600))

	cfg := filepath.Join(dir, "restspec.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
name: widgets
logging:
  level: error
  format: json
http:
  timeout: 5s
  headers:
    X-Client: restspec-cli
spec:
  file: `+spec+`
`), 0o600))
	return &fixture{api: api, config: cfg, spec: spec}
}

func (f *fixture) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Execute(context.Background(), append([]string{"--config", f.config}, args...), &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestList(t *testing.T) {
	f := newFixture(t)
	out, _, err := f.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "FUNCTION")
	assert.Regexp(t, `create\s+POST\s+http://\S+/widgets\s+body`, out)
	assert.Regexp(t, `findById\s+GET\s+\S+/widgets/\{id\}\s+id, filter`, out)
}

func TestCall(t *testing.T) {
	f := newFixture(t)
	id := f.api.Seed(testutil.Widget{"name": "bolt"})

	out, _, err := f.run(t, "call", "findById", id)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "bolt", got["name"])

	last, ok := f.api.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "/widgets/"+id, last.Path)
	assert.Equal(t, "restspec-cli", last.Header.Get("X-Client"))
	assert.Empty(t, last.Options)
}

func TestCall_NamedArgsAndOptions(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.run(t, "call", "create", "--arg", `body={"name":"nut","size":3}`, "--options", `{"user":"ada"}`)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "nut", got["name"])
	assert.Equal(t, float64(3), got["size"])

	last, _ := f.api.LastRequest()
	assert.Equal(t, "POST", last.Method)
	assert.JSONEq(t, `{"user":"ada"}`, last.Options)
}

func TestCall_StatusError(t *testing.T) {
	f := newFixture(t)

	_, errOut, err := f.run(t, "call", "findById", "404")
	require.Error(t, err)
	assert.Equal(t, "HTTP code: 404", err.Error())
	assert.Contains(t, errOut, "HTTP 404")
	assert.Contains(t, errOut, "widget not found")
}

func TestCall_BindingError(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.run(t, "call", "create")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "binding")
}

func TestCall_InvalidInput(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.run(t, "call", "nope")
	assert.ErrorContains(t, err, `unknown function "nope"`)

	_, _, err = f.run(t, "call", "findById", "1", "{}", "extra")
	assert.ErrorContains(t, err, "takes 2 arguments")

	_, _, err = f.run(t, "call", "findById", "--arg", "noequals")
	assert.ErrorContains(t, err, "expected name=value")

	_, _, err = f.run(t, "call", "findById", "1", "--options", "{")
	assert.ErrorContains(t, err, "invalid --options")
}

func TestOpenAPI(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.run(t, "openapi", "--format", "json", "--version", "2.0.0")
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	info := doc["info"].(map[string]any)
	assert.Equal(t, "widgets", info["title"])
	assert.Equal(t, "2.0.0", info["version"])
	assert.Contains(t, doc["paths"], "/widgets/{id}")

	out, _, err = f.run(t, "openapi")
	require.NoError(t, err)
	assert.Contains(t, out, "openapi: 3.0.3")
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Execute(context.Background(), []string{"version", "--json"}, &out, &out))
	var info map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.NotEmpty(t, info["version"])

	out.Reset()
	require.NoError(t, Execute(context.Background(), []string{"version"}, &out, &out))
	assert.True(t, strings.HasPrefix(out.String(), "restspec "))
}

func TestSpecFlagOverridesConfig(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	cfg := filepath.Join(dir, "restspec.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("logging:\n  level: error\n"), 0o600))

	var out bytes.Buffer
	err := Execute(context.Background(), []string{"--config", cfg, "list"}, &out, &out)
	assert.ErrorContains(t, err, "spec.file is required")

	out.Reset()
	err = Execute(context.Background(), []string{"--config", cfg, "--spec", f.spec, "list"}, &out, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "findById")
}

func TestMissingConfigFile(t *testing.T) {
	var out bytes.Buffer
	err := Execute(context.Background(), []string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "list"}, &out, &out)
	assert.ErrorContains(t, err, "not found")
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, float64(3), parseValue("3"))
	assert.Equal(t, true, parseValue("true"))
	assert.Equal(t, map[string]any{"a": "b"}, parseValue(`{"a":"b"}`))
	assert.Equal(t, "bolt", parseValue("bolt"))
	assert.Equal(t, "", parseValue(""))
}

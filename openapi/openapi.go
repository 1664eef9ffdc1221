package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/invopop/yaml"

	"github.com/kbukum/restspec/builder"
	"github.com/kbukum/restspec/operation"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ExtensionFunctions lists every function bound to an operation.
const ExtensionFunctions = "x-restspec-functions"

// Info describes the exported API.
type Info struct {
	Title       string
	Version     string
	Description string
}

// Build exports a registry as an OpenAPI 3 document. Operations sharing a
// path and method collapse into the first one; the operation id is the
// operation's first function name.
func Build(reg *builder.Registry, info Info) (*openapi3.T, error) {
	if info.Title == "" {
		info.Title = "restspec"
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       info.Title,
			Version:     info.Version,
			Description: info.Description,
		},
		Paths: openapi3.NewPaths(),
	}

	origins := map[string]struct{}{}
	for _, c := range reg.Operations() {
		if o := c.Origin(); o != "" {
			origins[o] = struct{}{}
		}
		item := doc.Paths.Value(c.Path())
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(c.Path(), item)
		}
		if item.GetOperation(c.Method()) != nil {
			continue
		}
		item.SetOperation(c.Method(), buildOperation(c))
	}

	for _, o := range sortedKeys(origins) {
		doc.Servers = append(doc.Servers, &openapi3.Server{URL: o})
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("openapi: invalid document: %w", err)
	}
	return doc, nil
}

func buildOperation(c *operation.Compiled) *openapi3.Operation {
	names := c.Names()
	op := openapi3.NewOperation()
	op.OperationID = names[0]
	op.Summary = c.Method() + " " + c.URL()

	functions := make(map[string][]string, len(names))
	signatures := make([]string, 0, len(names))
	for _, n := range names {
		fn, _ := c.Operation(n)
		functions[n] = fn.Args()
		signatures = append(signatures, n+"("+strings.Join(fn.Args(), ", ")+")")
	}
	op.Description = "Functions: " + strings.Join(signatures, ", ")
	op.Extensions = map[string]any{ExtensionFunctions: functions}

	bodyRequired := false
	for _, p := range c.Params() {
		switch p.Location {
		case operation.LocationPath:
			// Host placeholders are not part of the path template.
			if !strings.Contains(c.Path(), "{"+p.Name+"}") {
				continue
			}
			op.AddParameter(openapi3.NewPathParameter(p.Name).WithSchema(schemaFor(p, true)))
		case operation.LocationQuery:
			op.AddParameter(openapi3.NewQueryParameter(p.Name).WithRequired(p.Required).WithSchema(schemaFor(p, false)))
		case operation.LocationHeader:
			op.AddParameter(openapi3.NewHeaderParameter(p.Name).WithRequired(p.Required).WithSchema(schemaFor(p, false)))
		case operation.LocationBody:
			bodyRequired = bodyRequired || p.Required
		}
	}

	if c.HasBody() {
		rb := openapi3.NewRequestBody().
			WithDescription("JSON payload").
			WithRequired(bodyRequired).
			WithJSONSchema(openapi3.NewSchema())
		op.RequestBody = &openapi3.RequestBodyRef{Value: rb}
	}

	op.AddResponse(200, openapi3.NewResponse().WithDescription("Success").WithJSONSchema(openapi3.NewSchema()))
	op.AddResponse(0, openapi3.NewResponse().WithDescription("Error status; delivered to callers as \"HTTP code: <status>\""))
	return op
}

// schemaFor maps a placeholder type onto a schema. Untyped path parameters
// are strings; untyped query and header parameters accept any value.
func schemaFor(p operation.Param, path bool) *openapi3.Schema {
	var s *openapi3.Schema
	switch p.Type {
	case "string":
		s = openapi3.NewStringSchema()
	case "integer":
		s = openapi3.NewInt64Schema()
	case "number":
		s = openapi3.NewFloat64Schema()
	case "boolean":
		s = openapi3.NewBoolSchema()
	default:
		if path {
			s = openapi3.NewStringSchema()
		} else {
			s = openapi3.NewSchema()
		}
	}
	if p.Default != nil {
		if def, ok := typedDefault(*p.Default, p.Type); ok {
			s.Default = def
		}
	}
	return s
}

func typedDefault(raw, typ string) (any, bool) {
	switch typ {
	case "integer":
		n, err := strconv.ParseInt(raw, 10, 64)
		return float64(n), err == nil
	case "number":
		f, err := strconv.ParseFloat(raw, 64)
		return f, err == nil
	case "boolean":
		b, err := strconv.ParseBool(raw)
		return b, err == nil
	default:
		return raw, true
	}
}

// Render encodes doc as indented JSON or as YAML.
func Render(doc *openapi3.T, format string) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("openapi: encode json: %w", err)
	}
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return data, nil
	case FormatYAML, "yml":
		out, err := yaml.JSONToYAML(data)
		if err != nil {
			return nil, fmt.Errorf("openapi: encode yaml: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("openapi: unsupported format %q", format)
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

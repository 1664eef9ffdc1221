// Package openapi exports a compiled registry as an OpenAPI 3 document
// using kin-openapi. Each distinct URL path becomes a path item and each
// template becomes an operation whose parameters come from the template's
// typed placeholders.
package openapi

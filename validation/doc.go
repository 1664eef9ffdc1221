// Package validation validates configuration structs with struct tags.
//
//	type Template struct {
//	    Method string `json:"method" validate:"required,oneof=GET POST"`
//	    URL    string `json:"url" validate:"required"`
//	}
//	if err := validation.Validate(tpl); err != nil {
//	    // err is *validation.Error: "method: is required; url: is required"
//	}
//
// Field names in messages follow the json tag, falling back to snake_case.
package validation

package operation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Document is an operation-spec document.
//
//	{ "debug": false,
//	  "operations": [
//	    { "template": { "method": "GET", "url": "http://api.example.com/widgets/{id}" },
//	      "functions": { "findById": ["id"] } }
//	  ] }
type Document struct {
	Debug      bool   `json:"debug" yaml:"debug"`
	Operations []Spec `json:"operations" yaml:"operations"`
}

// ParseDocument decodes a document in the given format.
func ParseDocument(data []byte, format string) (*Document, error) {
	var doc Document
	switch strings.ToLower(format) {
	case FormatJSON, "":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("operation: decode json document: %w", err)
		}
	case FormatYAML, "yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("operation: decode yaml document: %w", err)
		}
	default:
		return nil, fmt.Errorf("operation: unsupported document format %q", format)
	}
	return &doc, nil
}

// LoadDocument reads a document from disk. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("operation: read document: %w", err)
	}
	return ParseDocument(data, formatOf(path))
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

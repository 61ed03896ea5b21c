package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"digital.vasic.conformance/pkg/contract"
)

// File represents the on-disk structure of a contract catalog
// (JSON or YAML).
type File struct {
	Version   string                `json:"version" yaml:"version"`
	Name      string                `json:"name" yaml:"name"`
	Contracts []contract.Definition `json:"contracts" yaml:"contracts"`
	Metadata  map[string]any        `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// ParseJSON parses catalog bytes as JSON.
func ParseJSON(data []byte) (*File, error) {
	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog JSON: %w", err)
	}
	return &file, nil
}

// ParseYAML parses catalog bytes as YAML.
func ParseYAML(data []byte) (*File, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}
	return &file, nil
}

// Parse detects the encoding from the payload itself: content
// whose first non-space byte is '{' is treated as JSON,
// anything else as YAML. Intended for remote catalogs where no
// file extension is available.
func Parse(data []byte) (*File, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return ParseJSON(data)
	}
	return ParseYAML(data)
}

// parseForPath picks the parser from the file extension,
// defaulting to JSON.
func parseForPath(data []byte, path string) (*File, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

package io

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

// Format names a document encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Document is a chart's rows and options.
type Document struct {
	Data    []waterfall.RawItem `json:"data" toml:"data"`
	Options waterfall.Options   `json:"options,omitzero" toml:"options,omitempty"`
}

// DetectFormat returns the format implied by the file extension.
func DetectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported file type %q (want .json, .toml, .csv or .xlsx)", ext)
	}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatTOML, FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", s)
}

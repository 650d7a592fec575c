package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

// Write encodes doc in the given format.
func Write(doc Document, w io.Writer, f Format) error {
	switch f {
	case FormatJSON:
		return WriteJSON(doc, w)
	case FormatTOML:
		return WriteTOML(doc, w)
	case FormatCSV:
		return WriteCSV(doc, w)
	case FormatXLSX:
		return WriteXLSX(doc, w)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", f)
}

// Export writes doc to path in the format implied by its extension.
func Export(doc Document, path string) error {
	f, err := DetectFormat(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer file.Close()
	return Write(doc, file, f)
}

// WriteJSON encodes doc as indented JSON. The output can be re-imported
// with [ReadJSON].
func WriteJSON(doc Document, w io.Writer) error {
	if doc.Data == nil {
		doc.Data = []waterfall.RawItem{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "encode json")
	}
	return nil
}

// WriteTOML encodes doc as TOML.
func WriteTOML(doc Document, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(doc); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "encode toml")
	}
	return nil
}

// WriteItems encodes adapted items as indented JSON.
func WriteItems(items []waterfall.Item, w io.Writer) error {
	if items == nil {
		items = []waterfall.Item{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "encode items")
	}
	return nil
}

package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

// Read decodes a document in the given format from r.
// Read does not close r.
func Read(r io.Reader, f Format) (Document, error) {
	switch f {
	case FormatJSON:
		return ReadJSON(r)
	case FormatTOML:
		return ReadTOML(r)
	case FormatCSV:
		return ReadCSV(r)
	case FormatXLSX:
		return ReadXLSX(r)
	}
	return Document{}, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", f)
}

// Import reads the document at path, choosing the format by extension.
func Import(path string) (Document, error) {
	f, err := DetectFormat(path)
	if err != nil {
		return Document{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
	}
	defer file.Close()
	doc, err := Read(file, f)
	if err != nil {
		return Document{}, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return doc, nil
}

// ReadJSON decodes a JSON document. Both a bare array of rows and an
// object with "data" and "options" are accepted.
func ReadJSON(r io.Reader) (Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read")
	}
	raw = bytes.TrimSpace(raw)

	var doc Document
	if len(raw) > 0 && raw[0] == '[' {
		err = json.Unmarshal(raw, &doc.Data)
	} else {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	}
	if err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}
	return doc, nil
}

// ReadTOML decodes a TOML document.
func ReadTOML(r io.Reader) (Document, error) {
	var doc Document
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Document{}, errors.New(errors.ErrCodeInvalidFormat, "unknown toml key %q", undecoded[0].String())
	}
	return doc, nil
}

// ReadOptions reads chart options from a JSON or TOML file. A document
// with rows is accepted too; its rows are ignored.
func ReadOptions(path string) (waterfall.Options, error) {
	f, err := DetectFormat(path)
	if err != nil {
		return waterfall.Options{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return waterfall.Options{}, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
	}

	var opts waterfall.Options
	switch f {
	case FormatJSON:
		var probe struct {
			Options *waterfall.Options `json:"options"`
		}
		if err := json.Unmarshal(data, &probe); err == nil && probe.Options != nil {
			return *probe.Options, nil
		}
		err = json.Unmarshal(data, &opts)
	case FormatTOML:
		var probe struct {
			Options *waterfall.Options `toml:"options"`
		}
		if _, err := toml.Decode(string(data), &probe); err == nil && probe.Options != nil {
			return *probe.Options, nil
		}
		_, err = toml.Decode(string(data), &opts)
	default:
		return waterfall.Options{}, errors.New(errors.ErrCodeInvalidFormat, "options must be .json or .toml, got %s", path)
	}
	if err != nil {
		return waterfall.Options{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", path)
	}
	return opts, nil
}

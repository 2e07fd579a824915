package io

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/matzehuels/trbgen/pkg/errors"
	"github.com/matzehuels/trbgen/pkg/trb"
)

// Supported document formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var formatByExt = map[string]string{
	".json": FormatJSON,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
}

// FormatFor returns the document format for path, based on its extension.
// ok is false for unsupported extensions.
func FormatFor(path string) (format string, ok bool) {
	format, ok = formatByExt[strings.ToLower(filepath.Ext(path))]
	return format, ok
}

// IsDocument reports whether path has a supported document extension.
func IsDocument(path string) bool {
	_, ok := FormatFor(path)
	return ok
}

// ParseDocument decodes data in the given format.
func ParseDocument(data []byte, format string) (trb.Value, error) {
	switch format {
	case FormatJSON:
		return trb.ParseJSON(data)
	case FormatYAML:
		js, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "convert yaml")
		}
		return trb.ParseJSON(js)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported document format %q", format)
}

// ReadDocument reads r to EOF and decodes it in the given format.
// ReadDocument does not close r.
func ReadDocument(r io.Reader, format string) (trb.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read document")
	}
	return ParseDocument(data, format)
}

// ReadFile returns the raw contents and format of the document at path.
func ReadFile(path string) ([]byte, string, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, "", err
	}
	format, ok := FormatFor(path)
	if !ok {
		return nil, "", errors.New(errors.ErrCodeInvalidFormat, "%s: unsupported extension %q", path, filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return data, format, nil
}

// ImportDocument reads and decodes the document at path.
// The format is chosen from the extension: .json, .yaml or .yml.
func ImportDocument(path string) (trb.Value, error) {
	data, format, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDocument(data, format)
}

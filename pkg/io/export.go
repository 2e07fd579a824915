package io

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/trbgen/pkg/errors"
)

// WriteBinary writes data to w in full.
func WriteBinary(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write")
	}
	return nil
}

// ExportBinary writes data to path, creating parent directories.
// An existing file is replaced.
func ExportBinary(path string, data []byte) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := WriteBinary(f, data); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "close %s", path)
	}
	return nil
}

// ImportBinary reads a compiled file, typically a reference file to compare
// against.
func ImportBinary(path string) ([]byte, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return data, nil
}

// OutputPath returns the output file for input: input's base name with its
// extension replaced by ext, inside dir. An empty dir keeps the input's
// directory.
func OutputPath(input, dir, ext string) string {
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ext
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, name)
}

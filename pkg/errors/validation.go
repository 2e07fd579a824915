package errors

import (
	"unicode"
)

// maxPathLength bounds input and output paths accepted from the command line.
const maxPathLength = 4096

// ValidatePath checks that path is usable as an input or output location.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 bytes
//   - No null bytes or control characters
//
// Relative and absolute paths are both accepted.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d bytes)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}

	return nil
}

// ValidateExtension checks an output extension such as ".trb".
func ValidateExtension(ext string) error {
	if len(ext) < 2 || ext[0] != '.' {
		return New(ErrCodeInvalidConfig, "extension %q must start with a dot", ext)
	}
	for _, r := range ext[1:] {
		if r == '.' || r == '/' || r == '\\' || unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidConfig, "extension %q contains invalid characters", ext)
		}
	}
	return nil
}

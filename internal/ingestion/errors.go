package ingestion

import (
	"errors"
	"fmt"
)

// ErrOCRNotEnabled is returned for image sources when the binary was built
// without the "ocr" build tag.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// UnsupportedFormatError is returned when a source file's kind is not recognized
type UnsupportedFormatError struct {
	Path      string
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Extension == "" {
		return fmt.Sprintf("unsupported file format: %s has no extension", e.Path)
	}
	return fmt.Sprintf("unsupported file format %q: %s", e.Extension, e.Path)
}

// ReadError is returned when a recognized source file cannot be read or decoded
type ReadError struct {
	Path    string
	Format  Format
	Message string
	Cause   error
}

func (e *ReadError) Error() string {
	msg := fmt.Sprintf("failed to read %s", e.Path)
	if e.Format != "" {
		msg = fmt.Sprintf("failed to read %s file %s", e.Format, e.Path)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ReadError) Unwrap() error {
	return e.Cause
}

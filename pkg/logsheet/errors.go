package logsheet

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat indicates the requested output format is not one
// of csv or xlsx.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// ConvertError represents a failure while converting one source file.
type ConvertError struct {
	File  string
	Stage string // "format", "read", "header", "validate", "write"
	Err   error
}

func (e *ConvertError) Error() string {
	return fmt.Sprintf("conversion error in file %q (%s): %v", e.File, e.Stage, e.Err)
}

func (e *ConvertError) Unwrap() error {
	return e.Err
}

// NewConvertError creates a new ConvertError.
func NewConvertError(file, stage string, err error) *ConvertError {
	return &ConvertError{
		File:  file,
		Stage: stage,
		Err:   err,
	}
}

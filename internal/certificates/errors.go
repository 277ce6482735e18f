package certificates

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested certificate file does not exist
var ErrNotFound = errors.New("certificate not found")

// ValidationError reports a missing required request field
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "Missing required field: " + e.Field
}

// RenderError wraps a failure inside PDF generation or storage
type RenderError struct {
	Style Style
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render %s certificate: %v", e.Style, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

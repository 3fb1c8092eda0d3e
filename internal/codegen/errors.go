package codegen

import (
	"errors"
	"strings"
)

// ErrGenerationFailed is matched by every GenerationError
var ErrGenerationFailed = errors.New("code generation failed")

// GenerationError reports a template that could not be rendered for a table
type GenerationError struct {
	Artifact string
	Table    string
	Cause    error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("generation error")
	if e.Artifact != "" {
		b.WriteString(" in ")
		b.WriteString(e.Artifact)
	}
	if e.Table != "" {
		b.WriteString(" for table ")
		b.WriteString(e.Table)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrGenerationFailed.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

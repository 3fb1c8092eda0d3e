package parser

import (
	"errors"
	"strings"
)

// ErrMalformedSchema is matched by every error returned for input that is not
// a usable CREATE TABLE statement.
var ErrMalformedSchema = errors.New("malformed schema")

// SchemaError describes why a statement could not be split into clauses
type SchemaError struct {
	Reason string
	Input  string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("invalid schema: ")
	b.WriteString(e.Reason)
	if e.Input != "" {
		b.WriteString(" (near ")
		b.WriteString(excerpt(e.Input, 40))
		b.WriteString(")")
	}
	return b.String()
}

// Is reports whether target is ErrMalformedSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrMalformedSchema
}

func malformed(reason, input string) error {
	return &SchemaError{Reason: reason, Input: input}
}

func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= n {
		return "\"" + s + "\""
	}
	return "\"" + s[:n] + "...\""
}

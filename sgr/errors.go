package sgr

import "fmt"

// SchemaError reports a malformed document: a missing required field or a
// field of the wrong JSON type. Decoding returns no partial tree.
type SchemaError struct {
	Path   string // file path, if known
	Field  string // JSON path of the offending field
	Reason string
}

func (e *SchemaError) Error() string {
	msg := "sgr: schema error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Field != "" {
		msg += fmt.Sprintf(" at %q", e.Field)
	}
	return msg + ": " + e.Reason
}

func schemaErrorf(path, field, format string, args ...interface{}) *SchemaError {
	return &SchemaError{Path: path, Field: field, Reason: fmt.Sprintf(format, args...)}
}

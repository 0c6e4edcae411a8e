package reform

import (
	"errors"
	"fmt"
	"reflect"
)

///////////////////////////////////////////////////////////////////////////////
// Schema compile errors
///////////////////////////////////////////////////////////////////////////////

var (
	ErrMissingTemplate         = errors.New("template annotation `reform:\"...\"` containing format string not found")
	ErrTemplateNotLiteral      = errors.New("reform template argument must be a single string literal")
	ErrNotStruct               = errors.New("reform supports only structs")
	ErrUnnamedField            = errors.New("reform supports only structs with named fields")
	ErrDuplicateField          = errors.New("field name is declared more than once in schema")
	ErrUnknownPlaceholder      = errors.New("placeholder does not name a field of the schema")
	ErrDuplicatePlaceholder    = errors.New("placeholder is used more than once in template")
	ErrPlaceholderOrder        = errors.New("placeholders must appear in the template in field declaration order")
	ErrUnterminatedPlaceholder = errors.New("unterminated placeholder in template")
	ErrUnreferencedField       = errors.New("field is not referenced by any placeholder in template")
	ErrUnsupportedType         = errors.New("type does not implement Reformable and has no registered pattern")
	ErrCaptureWidthMismatch    = errors.New("declared capture width does not match capturing groups in pattern")
	ErrRecursiveSchema         = errors.New("schema refers to itself")
	ErrInvalidPattern          = errors.New("pattern is not a valid regular expression")
	ErrTypeAlreadyRegistered   = errors.New("a pattern for this type is already registered")
	ErrInvalidDestination      = errors.New("destination must be a non-nil pointer")
	ErrArgumentCount           = errors.New("number of placeholders does not match number of destinations")
	ErrCompilePanic            = errors.New("panic while compiling schema")
)

// CompileError is returned when the schema of a record type could not be
// compiled into a matcher.
type CompileError struct {
	Type reflect.Type
	Err  error
}

func (ce *CompileError) Error() string {
	if ce.Type == nil {
		return fmt.Sprintf("reform: cannot compile schema: %v", ce.Err)
	}
	return fmt.Sprintf("reform: cannot compile schema for %s: %v", ce.Type, ce.Err)
}

func (ce *CompileError) Unwrap() error {
	return ce.Err
}

///////////////////////////////////////////////////////////////////////////////
// Parse errors
///////////////////////////////////////////////////////////////////////////////

// NoMatchError is returned when the input does not satisfy the composed
// pattern. Request holds the rejected input verbatim.
type NoMatchError struct {
	Template string // format string the pattern was composed from
	Pattern  string // composed regular expression
	Request  string // rejected input
}

func (nme *NoMatchError) Error() string {
	return fmt.Sprintf("string %q does not match format %q", nme.Request, nme.Template)
}

// ReconstructionError wraps a failure converting matched text into the
// value of a field.
type ReconstructionError struct {
	Field string       // placeholder name of the field, empty for positional scans
	Type  reflect.Type // destination type
	Text  string       // matched text that was rejected
	Err   error
}

func (re *ReconstructionError) Error() string {
	if re.Field == "" {
		return fmt.Sprintf("cannot convert %q to %s: %v", re.Text, re.Type, re.Err)
	}
	return fmt.Sprintf("failed to reconstruct field %s (%s) from %q: %v", re.Field, re.Type, re.Text, re.Err)
}

func (re *ReconstructionError) Unwrap() error {
	return re.Err
}

package reform

import (
	"fmt"
	"reflect"
)

///////////////////////////////////////////////////////////////////////////////
// Validation hook
///////////////////////////////////////////////////////////////////////////////

// Validatable marks a record whose fields are checked after they have
// been reconstructed, for constraints a pattern cannot express (a month
// between 1 and 12, an end after a start).
//
// # It expects the implementation to be a pointer
//
// Validate is called once per record, after every field of the record,
// nested records included, has been set. A failing Validate aborts the
// parse like any other reconstruction failure.
type Validatable interface {
	Validate() error
}

// ValidationError wraps the error returned by Validate.
type ValidationError struct {
	Type reflect.Type
	Err  error
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("failed to validate %s: %v", ve.Type, ve.Err)
}

func (ve *ValidationError) Unwrap() error {
	return ve.Err
}

// Validate calls v.Validate when v implements Validatable and wraps its
// error in a *ValidationError. Generated ReformFrom methods end with it.
func Validate(v any) error {
	val, ok := v.(Validatable)
	if !ok {
		return nil
	}
	if err := val.Validate(); err != nil {
		return &ValidationError{Type: indirect(reflect.TypeOf(v)), Err: err}
	}
	return nil
}

// validateValue is Validate on an addressable reflect value.
func validateValue(dst reflect.Value) error {
	if !dst.CanAddr() {
		return nil
	}
	return Validate(dst.Addr().Interface())
}

func indirect(typ reflect.Type) reflect.Type {
	for typ != nil && typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	return typ
}

package reform

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/tidwall/gjson"
)

///////////////////////////////////////////////////////////////////////////////
// Capability contract
///////////////////////////////////////////////////////////////////////////////

// Reformable is implemented by every type that can be parsed from a
// pattern match, leaf or composite. The methods are called on the pointer
// receiver; ReformPattern and ReformWidth must not depend on the value.
//
// The pattern returned by ReformPattern must contain exactly ReformWidth
// capturing groups. Any internal grouping must use non-capturing groups
// `(?:...)`. ReformFrom reads slots [offset, offset+ReformWidth()) of c
// and nothing else.
type Reformable interface {
	// ReformPattern returns the unanchored sub-pattern matching this type.
	ReformPattern() string
	// ReformWidth returns the number of capture groups in ReformPattern.
	ReformWidth() int
	// ReformFrom sets the receiver from the captures starting at offset.
	ReformFrom(c Captures, offset int) error
}

// Templater lets a struct declare its template in code instead of in a
// blank field tag.
type Templater interface {
	ReformTemplate() string
}

// codec is the reflection side view of the contract.
type codec struct {
	typ      reflect.Type
	template string  // source template, empty for leaves
	schema   *Schema // compiled schema, nil for leaves
	pattern  string
	width    int
	decode   func(c Captures, offset int, dst reflect.Value) error
}

// describe returns the text diagnostics show for the codec.
func (cd *codec) describe() string {
	if cd.template != "" {
		return cd.template
	}
	return cd.pattern
}

// leafCodec builds a width 1 codec around a text conversion. A group that
// did not take part in the match leaves the destination untouched.
func leafCodec(typ reflect.Type, pattern string, set func(dst reflect.Value, text string) error) *codec {
	return &codec{
		typ:     typ,
		pattern: pattern,
		width:   1,
		decode: func(c Captures, offset int, dst reflect.Value) error {
			text, ok := c.Get(offset)
			if !ok {
				return nil
			}
			if err := set(dst, text); err != nil {
				return &ReconstructionError{Type: typ, Text: text, Err: err}
			}
			return nil
		},
	}
}

// reformableCodec delegates to a Reformable implementation.
func reformableCodec(typ reflect.Type) (*codec, error) {
	proto := reflect.New(typ).Interface().(Reformable)
	cd := &codec{
		typ:     typ,
		pattern: proto.ReformPattern(),
		width:   proto.ReformWidth(),
		decode: func(c Captures, offset int, dst reflect.Value) error {
			return dst.Addr().Interface().(Reformable).ReformFrom(c, offset)
		},
	}
	if err := checkWidth(cd.pattern, cd.width); err != nil {
		return nil, fmt.Errorf("%s: %w", typ, err)
	}
	return cd, nil
}

// withPattern returns a copy of a leaf codec matching pattern instead.
func (cd *codec) withPattern(pattern string) (*codec, error) {
	if err := checkWidth(pattern, cd.width); err != nil {
		return nil, err
	}
	cp := *cd
	cp.pattern = pattern
	return &cp, nil
}

///////////////////////////////////////////////////////////////////////////////
// Helpers for generated code
///////////////////////////////////////////////////////////////////////////////

// FromCaptures sets *dst from the captures owned by its type starting at
// offset. dst must be a non-nil pointer to a Reformable, a built-in leaf
// type or a type registered with the default registry.
func FromCaptures(dst any, c Captures, offset int) error {
	if r, ok := dst.(Reformable); ok {
		return r.ReformFrom(c, offset)
	}

	value := reflect.ValueOf(dst)
	if value.Kind() != reflect.Ptr || value.IsNil() {
		return fmt.Errorf("%w, got %T", ErrInvalidDestination, dst)
	}

	cd, err := _defaultRegistry.codecFor(value.Type().Elem(), nil)
	if err != nil {
		return err
	}
	return cd.decode(c, offset, value.Elem())
}

// DecodeField is FromCaptures for a named record field; reconstruction
// errors carry the field name.
func DecodeField(name string, dst any, c Captures, offset int) error {
	return fieldError(name, reflect.TypeOf(dst), FromCaptures(dst, c, offset))
}

// fieldError attaches a field name to a reconstruction error. Errors from
// nested records get a dotted path.
func fieldError(name string, typ reflect.Type, err error) error {
	if err == nil {
		return nil
	}
	var re *ReconstructionError
	if errors.As(err, &re) {
		cp := *re
		if cp.Field == "" {
			cp.Field = name
		} else {
			cp.Field = name + "." + cp.Field
		}
		return &cp
	}
	return &ReconstructionError{Field: name, Type: indirect(typ), Err: err}
}

///////////////////////////////////////////////////////////////////////////////
// JSON leaf
///////////////////////////////////////////////////////////////////////////////

// JSON is a leaf matching a JSON object or array. The matched text must be
// valid JSON.
type JSON struct {
	gjson.Result
}

var errInvalidJSON = errors.New("matched text is not valid JSON")

func (*JSON) ReformPattern() string { return PatternJSON }

func (*JSON) ReformWidth() int { return 1 }

func (j *JSON) ReformFrom(c Captures, offset int) error {
	text, ok := c.Get(offset)
	if !ok {
		return nil
	}
	if !gjson.Valid(text) {
		return &ReconstructionError{Type: reflect.TypeOf(*j), Text: text, Err: errInvalidJSON}
	}
	j.Result = gjson.Parse(text)
	return nil
}

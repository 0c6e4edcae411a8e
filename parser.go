package reform

import (
	"reflect"
)

// Parser parses strings into values of T.
//
// A Parser is a typed handle on the compiled schema of T held by a
// Registry; creating one is cheap after the first time.
type Parser[T any] struct {
	compiled *compiledType
}

// Compile compiles the schema of T in the default registry.
func Compile[T any]() (*Parser[T], error) {
	return CompileWith[T](_defaultRegistry)
}

// CompileWith compiles the schema of T in reg.
func CompileWith[T any](reg *Registry) (*Parser[T], error) {
	ct, err := reg.compile(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return &Parser[T]{compiled: ct}, nil
}

// MustCompile is like Compile but panics if the schema of T does not
// compile. It simplifies the initialization of package-level parsers.
func MustCompile[T any]() *Parser[T] {
	p, err := Compile[T]()
	if err != nil {
		panic(err)
	}
	return p
}

// Parse parses input as a whole.
//
// On failure the zero T is returned with a *NoMatchError when input does
// not match the template, or a *ReconstructionError when a matched field
// could not be converted.
func (p *Parser[T]) Parse(input string) (T, error) {
	var zero T
	value, err := p.compiled.parse(input)
	if err != nil {
		return zero, err
	}
	return value.Interface().(T), nil
}

// Schema returns the compiled schema, or nil when T is not a record.
func (p *Parser[T]) Schema() *Schema {
	return p.compiled.codec.schema
}

// Matcher returns the matcher of T.
func (p *Parser[T]) Matcher() *Matcher {
	return p.compiled.matcher
}

// ReformPattern returns the unanchored composed pattern of T, so that a
// Parser can describe T to code composing it further.
func (p *Parser[T]) ReformPattern() string {
	return p.compiled.codec.pattern
}

// ReformWidth returns the number of capture groups of T.
func (p *Parser[T]) ReformWidth() int {
	return p.compiled.codec.width
}

// Parse parses input into a T using the default registry. The schema of T
// is compiled on first use; a schema that does not compile is reported as
// a *CompileError.
func Parse[T any](input string) (T, error) {
	return ParseWith[T](_defaultRegistry, input)
}

// ParseWith parses input into a T using reg.
func ParseWith[T any](reg *Registry, input string) (T, error) {
	var zero T
	p, err := CompileWith[T](reg)
	if err != nil {
		return zero, err
	}
	return p.Parse(input)
}

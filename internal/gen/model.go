// Package gen turns annotated record declarations into Go source
// implementing reform.Reformable, so that matchers are composed when the
// code is generated instead of through reflection at run time.
package gen

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultOutput is the file reformgen writes into the package directory.
const DefaultOutput = "reform_gen.go"

var (
	ErrNoRecords       = errors.New("no annotated records found")
	ErrUnknownType     = errors.New("field type is neither a built-in leaf nor an annotated record")
	ErrMissingFieldKey = errors.New("schema field needs a name and a type")
	ErrMissingPackage  = errors.New("schema file does not name a package")
)

// Package is the set of records generated into one file.
type Package struct {
	Name    string
	Records []*Record
}

// Record is one annotated struct.
type Record struct {
	Name     string   // Go type name
	Template string   // unquoted template
	Fields   []*Field // in declaration order
	Declare  bool     // emit the struct declaration as well
	Pos      string   // source position for diagnostics
}

// Field is one struct field of a record.
type Field struct {
	GoName  string // Go field name
	Name    string // placeholder name
	Type    string // Go type expression as written in source
	Pattern string // pattern override from the field tag
	Ignore  bool   // tagged `reform:"-"`
}

// Lookup returns the record named name.
func (p *Package) Lookup(name string) (*Record, bool) {
	for _, r := range p.Records {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// Filter keeps only the records named in names. Every name has to be an
// annotated record.
func (p *Package) Filter(names []string, missing error) error {
	if len(names) == 0 {
		return nil
	}
	kept := make([]*Record, 0, len(names))
	for _, name := range names {
		r, ok := p.Lookup(name)
		if !ok {
			return fmt.Errorf("%w: type %s", missing, name)
		}
		kept = append(kept, r)
	}
	p.Records = kept
	return nil
}

// where prefixes err with the position of the record.
func (r *Record) where(err error) error {
	if r.Pos == "" {
		return fmt.Errorf("%s: %w", r.Name, err)
	}
	return fmt.Errorf("%s: %s: %w", r.Pos, r.Name, err)
}

// exportName turns a placeholder name into an exported Go identifier.
func exportName(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if r == '_' || r == '-' || r == ' ' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// lowerFirst returns name with its first letter lower cased.
func lowerFirst(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToLower(r)) + name[size:]
}

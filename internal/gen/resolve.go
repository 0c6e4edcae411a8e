package gen

import (
	"fmt"
	"log"
	"strings"

	reform "github.com/SimonDaKappa/go-reform"
)

// Compiled is a record together with its compiled schema.
type Compiled struct {
	Record *Record
	Schema *reform.Schema
	Steps  []Step // participating fields in schema order
}

// Step is a participating field and the first capture slot it owns,
// relative to a record starting at reform.BaseOffset.
type Step struct {
	Field  *Field
	Offset int
	Width  int
}

// resolver compiles the records of a package, composing records that
// refer to each other the same way the reflection path does.
type resolver struct {
	pkg      *Package
	logger   *log.Logger
	compiled map[string]*Compiled
	visiting map[string]bool
}

// Resolve compiles every record of pkg. Records are returned in the order
// of pkg.Records.
func Resolve(pkg *Package, logger *log.Logger) ([]*Compiled, error) {
	if len(pkg.Records) == 0 {
		return nil, ErrNoRecords
	}

	r := &resolver{
		pkg:      pkg,
		logger:   logger,
		compiled: make(map[string]*Compiled, len(pkg.Records)),
		visiting: make(map[string]bool),
	}

	out := make([]*Compiled, 0, len(pkg.Records))
	for _, record := range pkg.Records {
		c, err := r.record(record)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *resolver) record(record *Record) (*Compiled, error) {
	if c, ok := r.compiled[record.Name]; ok {
		return c, nil
	}
	if r.visiting[record.Name] {
		return nil, record.where(reform.ErrRecursiveSchema)
	}
	r.visiting[record.Name] = true
	defer delete(r.visiting, record.Name)

	placeholders, err := reform.Placeholders(record.Template)
	if err != nil {
		return nil, record.where(err)
	}

	var (
		specs  = make([]reform.FieldSpec, 0, len(record.Fields))
		fields = make([]*Field, 0, len(record.Fields))
	)
	for _, f := range record.Fields {
		if f.Ignore {
			continue
		}
		spec := reform.FieldSpec{Name: f.Name}
		if placeholders.Contains(f.Name) {
			if spec.Pattern, spec.Width, err = r.fieldPattern(f); err != nil {
				return nil, record.where(fmt.Errorf("field %s: %w", f.GoName, err))
			}
		}
		specs = append(specs, spec)
		fields = append(fields, f)
	}

	opts := []reform.SchemaOption{}
	if r.logger != nil {
		opts = append(opts, reform.WithLogger(r.logger))
	}
	schema, err := reform.CompileSchema(record.Template, specs, opts...)
	if err != nil {
		return nil, record.where(err)
	}

	c := &Compiled{Record: record, Schema: schema}
	for _, fp := range schema.Fields {
		c.Steps = append(c.Steps, Step{Field: fields[fp.Index], Offset: fp.Offset, Width: fp.Width})
	}
	r.compiled[record.Name] = c
	return c, nil
}

// fieldPattern returns the pattern and capture width of a field type.
func (r *resolver) fieldPattern(f *Field) (string, int, error) {
	typ := strings.TrimLeft(f.Type, "*")

	if nested, ok := r.pkg.Lookup(typ); ok {
		if f.Pattern != "" {
			return "", 0, reform.ErrPatternOnComposite
		}
		c, err := r.record(nested)
		if err != nil {
			return "", 0, err
		}
		return c.Schema.Pattern, c.Schema.Width, nil
	}

	// Overrides also cover types the generator cannot see, such as
	// text unmarshalers or types registered at run time.
	if f.Pattern != "" {
		return f.Pattern, 1, nil
	}
	if pattern, ok := reform.LeafPattern(typ); ok {
		return pattern, 1, nil
	}
	return "", 0, fmt.Errorf("%w: %s", ErrUnknownType, f.Type)
}

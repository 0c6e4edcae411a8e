package reform

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// scanPlan is a compiled positional template.
type scanPlan struct {
	matcher *Matcher
	types   []reflect.Type
	codecs  []*codec
	offsets []int
}

// Scan matches input against a positional template and stores the
// successive `{}` captures in the values pointed to by dests:
//
//	var x, y int32
//	err := reform.Scan("Vec(-16, 8)", `Vec\({}, {}\)`, &x, &y)
//
// The same escaping rules as for record templates apply. Every destination
// is written only if all of them reconstruct.
func Scan(input, template string, dests ...any) error {
	return _defaultRegistry.Scan(input, template, dests...)
}

// Scan is the registry form of the package-level Scan.
func (reg *Registry) Scan(input, template string, dests ...any) error {
	types := make([]reflect.Type, len(dests))
	var key strings.Builder
	key.WriteString(template)
	for i, dest := range dests {
		value := reflect.ValueOf(dest)
		if value.Kind() != reflect.Ptr || value.IsNil() {
			return fmt.Errorf("%w, got %T for argument %d", ErrInvalidDestination, dest, i)
		}
		types[i] = value.Type().Elem()
		key.WriteByte(0)
		key.WriteString(types[i].PkgPath())
		key.WriteByte('.')
		key.WriteString(types[i].String())
	}

	plan, err := reg.scans.GetOrCreate(key.String(), func() (*scanPlan, error) {
		return reg.buildScan(template, types)
	})
	if err != nil {
		return err
	}

	c, err := plan.matcher.Match(input)
	if err != nil {
		return err
	}

	values := make([]reflect.Value, len(dests))
	for i, cd := range plan.codecs {
		values[i] = reflect.New(plan.types[i]).Elem()
		if err := cd.decode(c, plan.offsets[i], values[i]); err != nil {
			return err
		}
	}
	for i, dest := range dests {
		reflect.ValueOf(dest).Elem().Set(values[i])
	}
	return nil
}

// buildScan compiles a positional template. Each `{}` is given the index
// of its argument as placeholder name.
func (reg *Registry) buildScan(template string, types []reflect.Type) (*scanPlan, error) {
	t, err := ParseTemplate(template)
	if err != nil {
		return nil, &CompileError{Err: err}
	}

	for _, name := range t.Placeholders.Names() {
		if name != "" {
			return nil, &CompileError{
				Err: fmt.Errorf("%w: {%s}, positional templates only accept {}", ErrUnknownPlaceholder, name),
			}
		}
	}

	numbered := &Template{
		Source:       t.Source,
		Segments:     make([]Segment, len(t.Segments)),
		Placeholders: make(PlaceholderSet),
	}
	n := 0
	for i, seg := range t.Segments {
		if seg.IsPlaceholder {
			seg.Text = strconv.Itoa(n)
			numbered.Placeholders[seg.Text] = struct{}{}
			n++
		}
		numbered.Segments[i] = seg
	}
	if n != len(types) {
		return nil, &CompileError{
			Err: fmt.Errorf("%w: %d placeholders, %d destinations", ErrArgumentCount, n, len(types)),
		}
	}

	specs := make([]FieldSpec, len(types))
	codecs := make([]*codec, len(types))
	for i, typ := range types {
		cd, err := reg.codecFor(typ, nil)
		if err != nil {
			return nil, &CompileError{Type: typ, Err: err}
		}
		specs[i] = FieldSpec{Name: strconv.Itoa(i), Pattern: cd.pattern, Width: cd.width}
		codecs[i] = cd
	}

	schema, err := compileTemplate(numbered, specs)
	if err != nil {
		return nil, &CompileError{Err: err}
	}

	offsets := make([]int, len(types))
	for _, fp := range schema.Fields {
		offsets[fp.Index] = fp.Offset
	}

	return &scanPlan{
		matcher: NewMatcher(template, schema.Pattern),
		types:   types,
		codecs:  codecs,
		offsets: offsets,
	}, nil
}

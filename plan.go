package reform

import (
	"fmt"
	"reflect"
)

// recordStep is one participating field of a record plan.
type recordStep struct {
	Name       string // placeholder name, for error reporting
	FieldIndex int    // index of the field in the struct
	Offset     int    // capture slot relative to a record starting at BaseOffset
	Codec      *codec
}

// codecFor returns the codec for typ.
//
// Resolution order:
//  1. types registered with RegisterType
//  2. types whose pointer implements Reformable
//  3. pointers, resolved through their element type
//  4. structs declaring a template, compiled recursively
//  5. built-in leaves
func (reg *Registry) codecFor(typ reflect.Type, path []reflect.Type) (*codec, error) {
	if cd, ok := reg.registered(typ); ok {
		return cd, nil
	}

	if reflect.PointerTo(typ).Implements(reformableType) {
		return reformableCodec(typ)
	}

	switch typ.Kind() {
	case reflect.Ptr:
		elem, err := reg.codecFor(typ.Elem(), path)
		if err != nil {
			return nil, err
		}
		return pointerCodec(typ, elem), nil
	case reflect.Struct:
		if hasTemplate(typ) {
			return reg.recordCodec(typ, path)
		}
	}

	if cd := builtinCodec(typ); cd != nil {
		return cd, nil
	}

	if typ.Kind() == reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrMissingTemplate, typ)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, typ)
}

// pointerCodec allocates the pointee when any of its slots took part in
// the match. Otherwise the pointer is left nil.
func pointerCodec(typ reflect.Type, elem *codec) *codec {
	return &codec{
		typ:      typ,
		template: elem.template,
		pattern:  elem.pattern,
		width:    elem.width,
		decode: func(c Captures, offset int, dst reflect.Value) error {
			participated := elem.width == 0
			for i := offset; i < offset+elem.width && !participated; i++ {
				_, participated = c.Get(i)
			}
			if !participated {
				return nil
			}
			if dst.IsNil() {
				dst.Set(reflect.New(typ.Elem()))
			}
			return elem.decode(c, offset, dst.Elem())
		},
	}
}

// recordCodec returns the cached codec of a record type. path holds the
// record types currently being compiled above typ.
func (reg *Registry) recordCodec(typ reflect.Type, path []reflect.Type) (*codec, error) {
	for _, p := range path {
		if p == typ {
			return nil, fmt.Errorf("%w: %s", ErrRecursiveSchema, typ)
		}
	}
	// A cycle has to be rejected before any cache entry of the cycle is
	// entered, or two goroutines compiling it from both ends would wait
	// on each other. Nested records were checked with their root.
	if len(path) == 0 {
		if _, err := reg.acyclic.GetOrCreate(typ, func() (struct{}, error) {
			return struct{}{}, reg.checkAcyclic(typ, nil)
		}); err != nil {
			return nil, err
		}
	}

	return reg.records.GetOrCreate(typ, func() (*codec, error) {
		return reg.buildRecord(typ, append(path[:len(path):len(path)], typ))
	})
}

// checkAcyclic walks the record types reachable from typ through the
// fields its template refers to. Schema errors are left to buildRecord.
func (reg *Registry) checkAcyclic(typ reflect.Type, path []reflect.Type) error {
	for _, p := range path {
		if p == typ {
			return fmt.Errorf("%w: %s", ErrRecursiveSchema, typ)
		}
	}
	path = append(path[:len(path):len(path)], typ)

	template, err := templateOf(typ)
	if err != nil {
		return nil
	}
	placeholders, err := Placeholders(template)
	if err != nil {
		return nil
	}

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.Name == TemplateFieldName || !field.IsExported() {
			continue
		}
		tag, err := DecodeFieldTag(field)
		if err != nil || tag.Ignore || !placeholders.Contains(tag.Name) {
			continue
		}

		ft := field.Type
		for ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if _, ok := reg.registered(ft); ok {
			continue
		}
		if reflect.PointerTo(ft).Implements(reformableType) || ft.Kind() != reflect.Struct || !hasTemplate(ft) {
			continue
		}
		if err := reg.checkAcyclic(ft, path); err != nil {
			return err
		}
	}
	return nil
}

// buildRecord compiles the schema of a record type into a codec.
func (reg *Registry) buildRecord(typ reflect.Type, path []reflect.Type) (*codec, error) {
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrNotStruct, typ)
	}

	template, err := templateOf(typ)
	if err != nil {
		return nil, err
	}

	placeholders, err := Placeholders(template)
	if err != nil {
		return nil, err
	}

	var (
		specs   = make([]FieldSpec, 0, typ.NumField())
		indices = make([]int, 0, typ.NumField())
		codecs  = make([]*codec, 0, typ.NumField())
	)

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		if field.Name == TemplateFieldName {
			continue
		}

		_, tagged := field.Tag.Lookup(TagName)
		if field.Anonymous && !tagged {
			return nil, fmt.Errorf("%w: embedded %s in %s", ErrUnnamedField, field.Type, typ)
		}

		// Skip unexported fields
		if !field.IsExported() {
			continue
		}

		tag, err := DecodeFieldTag(field)
		if err != nil {
			return nil, err
		}
		if tag.Ignore {
			continue
		}

		// Fields no placeholder refers to are only reported; their type
		// does not need to be parsable.
		if !placeholders.Contains(tag.Name) {
			specs = append(specs, FieldSpec{Name: tag.Name})
			indices = append(indices, i)
			codecs = append(codecs, nil)
			continue
		}

		cd, err := reg.codecFor(field.Type, path)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}

		if tag.Pattern != "" {
			if cd.template != "" || cd.width != 1 {
				return nil, fmt.Errorf("%w: field %s", ErrPatternOnComposite, field.Name)
			}
			if cd, err = cd.withPattern(tag.Pattern); err != nil {
				return nil, fmt.Errorf("field %s: %w", field.Name, err)
			}
		}

		specs = append(specs, FieldSpec{Name: tag.Name, Pattern: cd.pattern, Width: cd.width})
		indices = append(indices, i)
		codecs = append(codecs, cd)
	}

	schema, err := CompileSchema(template, specs, reg.schemaOpts(typ)...)
	if err != nil {
		return nil, err
	}

	steps := make([]recordStep, 0, len(schema.Fields))
	for _, fp := range schema.Fields {
		steps = append(steps, recordStep{
			Name:       fp.Name,
			FieldIndex: indices[fp.Index],
			Offset:     fp.Offset,
			Codec:      codecs[fp.Index],
		})
	}

	return &codec{
		typ:      typ,
		template: template,
		pattern:  schema.Pattern,
		width:    schema.Width,
		schema:   schema,
		decode: func(c Captures, offset int, dst reflect.Value) error {
			if err := decodeRecord(steps, c, offset, dst); err != nil {
				return err
			}
			return validateValue(dst)
		},
	}, nil
}

// decodeRecord reconstructs every step of a record whose first slot is
// offset. It stops at the first failing field.
func decodeRecord(steps []recordStep, c Captures, offset int, dst reflect.Value) error {
	for _, step := range steps {
		field := dst.Field(step.FieldIndex)
		at := offset + step.Offset - BaseOffset
		if err := step.Codec.decode(c, at, field); err != nil {
			return fieldError(step.Name, field.Type(), err)
		}
	}
	return nil
}

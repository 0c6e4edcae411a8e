package reform

import (
	"fmt"
	"log"

	"github.com/coregx/coregex"
)

// BaseOffset is the capture index of the first field. Index 0 is the whole
// match.
const BaseOffset = 1

// FieldSpec is one entry of a field schema: a placeholder name and the
// contract of its type reduced to pattern and capture width.
type FieldSpec struct {
	Name    string
	Pattern string
	Width   int
}

// FieldPlan is a field that takes part in the composed pattern, together
// with the first capture slot it owns.
type FieldPlan struct {
	Name   string
	Index  int // position of the field in the FieldSpec slice
	Offset int
	Width  int
}

// Schema is the result of compiling a template against a field schema.
type Schema struct {
	Template string      // source template
	Pattern  string      // composed, unanchored pattern
	Width    int         // total number of capture groups in Pattern
	Fields   []FieldPlan // participating fields in schema order
	Excluded []string    // schema fields no placeholder refers to
}

// End returns the first capture slot after the ones owned by the schema
// when it starts at offset.
func (s *Schema) End(offset int) int {
	return offset + s.Width
}

type schemaOpts struct {
	strict bool
	logger *log.Logger
	owner  string
}

// SchemaOption configures CompileSchema.
type SchemaOption func(*schemaOpts)

// WithStrictFields makes schema fields that no placeholder refers to a
// compile error instead of a warning.
func WithStrictFields() SchemaOption {
	return func(o *schemaOpts) { o.strict = true }
}

// WithLogger sets the logger excluded fields are reported to.
func WithLogger(l *log.Logger) SchemaOption {
	return func(o *schemaOpts) { o.logger = l }
}

// withOwner names the record type in log lines.
func withOwner(name string) SchemaOption {
	return func(o *schemaOpts) { o.owner = name }
}

// CompileSchema composes template and fields into one pattern.
//
// Fields keep their schema order. Those not named by any placeholder are
// left out of the pattern and of the offset assignment, and reported in
// Schema.Excluded. Offsets are assigned by accumulating capture widths
// starting at BaseOffset, so for consecutive participating fields
//
//	offset(f[i+1]) = offset(f[i]) + width(f[i])
//
// Placeholders have to occur in the template in the order of their fields,
// since capture groups are numbered from left to right.
//
// The composed pattern is compiled once to verify that it contains exactly
// Width capture groups.
func CompileSchema(template string, fields []FieldSpec, opts ...SchemaOption) (*Schema, error) {
	t, err := ParseTemplate(template)
	if err != nil {
		return nil, err
	}
	return compileTemplate(t, fields, opts...)
}

// compileTemplate is CompileSchema on an analyzed template.
func compileTemplate(t *Template, fields []FieldSpec, opts ...SchemaOption) (*Schema, error) {
	o := schemaOpts{}
	for _, opt := range opts {
		opt(&o)
	}
	template := t.Source

	byName := make(map[string]int, len(fields))
	for i, f := range fields {
		if _, dup := byName[f.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateField, f.Name)
		}
		byName[f.Name] = i
	}

	for _, name := range t.Placeholders.Names() {
		if _, ok := byName[name]; !ok {
			return nil, fmt.Errorf("%w: {%s} in %q", ErrUnknownPlaceholder, name, template)
		}
	}

	seen := make(map[string]bool, len(fields))
	for _, name := range t.Occurrences() {
		if seen[name] {
			return nil, fmt.Errorf("%w: {%s} in %q", ErrDuplicatePlaceholder, name, template)
		}
		seen[name] = true
	}

	schema := &Schema{Template: template}
	offset := BaseOffset
	for i, f := range fields {
		if !t.Placeholders.Contains(f.Name) {
			schema.Excluded = append(schema.Excluded, f.Name)
			continue
		}
		if f.Width < 0 {
			return nil, fmt.Errorf("%w: field %s declares width %d", ErrCaptureWidthMismatch, f.Name, f.Width)
		}
		schema.Fields = append(schema.Fields, FieldPlan{
			Name:   f.Name,
			Index:  i,
			Offset: offset,
			Width:  f.Width,
		})
		offset += f.Width
	}
	schema.Width = offset - BaseOffset

	// Capture groups are numbered in template order and offsets in schema
	// order; the two have to agree.
	if !sameOrder(schema.Fields, t.Occurrences()) {
		return nil, fmt.Errorf("%w: template %q has %v, fields are %v",
			ErrPlaceholderOrder, template, t.Occurrences(), fieldNames(schema.Fields))
	}

	if len(schema.Excluded) > 0 {
		if o.strict {
			return nil, fmt.Errorf("%w: %v", ErrUnreferencedField, schema.Excluded)
		}
		if o.logger != nil {
			o.logger.Printf(
				"warning: %s: fields %v are not referenced by template %q and will not be populated",
				ownerName(o.owner), schema.Excluded, template,
			)
		}
	}

	pattern, err := t.Expand(func(name string) (string, error) {
		return fields[byName[name]].Pattern, nil
	})
	if err != nil {
		return nil, err
	}
	schema.Pattern = pattern

	if err := checkWidth(schema.Pattern, schema.Width); err != nil {
		return nil, err
	}

	return schema, nil
}

// checkWidth compiles pattern and verifies it has exactly width capture
// groups.
func checkWidth(pattern string, width int) error {
	re, err := coregex.Compile(pattern)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidPattern, pattern, err)
	}
	if n := captureGroups(re); n != width {
		return fmt.Errorf(
			"%w: %q has %d capture groups, declared %d",
			ErrCaptureWidthMismatch, pattern, n, width,
		)
	}
	return nil
}

func sameOrder(fields []FieldPlan, occurrences []string) bool {
	if len(fields) != len(occurrences) {
		return false
	}
	for i, fp := range fields {
		if fp.Name != occurrences[i] {
			return false
		}
	}
	return true
}

func fieldNames(fields []FieldPlan) []string {
	names := make([]string, len(fields))
	for i, fp := range fields {
		names[i] = fp.Name
	}
	return names
}

// captureGroups returns the number of explicit capture groups of re.
// SubexpNames always has one entry per group plus the whole match.
func captureGroups(re *coregex.Regex) int {
	return len(re.SubexpNames()) - 1
}

func ownerName(owner string) string {
	if owner == "" {
		return "schema"
	}
	return owner
}
